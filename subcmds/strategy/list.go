// Copyright (c) 2025 BVK Chaitanya

package strategy

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/bvk/dcabot/api"
	"github.com/bvk/dcabot/subcmds/cmdutil"
	"github.com/visvasity/cli"
)

type List struct {
	cmdutil.ClientFlags

	offset int
	limit  int
}

func (c *List) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("list", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	fset.IntVar(&c.offset, "offset", 0, "number of strategies to skip")
	fset.IntVar(&c.limit, "limit", 0, "max number of strategies to print (default 100)")
	return "list", fset, cli.CmdFunc(c.run)
}

func (c *List) Purpose() string {
	return "Prints all strategy configurations"
}

func (c *List) run(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("this command takes no arguments")
	}
	req := &api.StrategyListRequest{
		Offset: c.offset,
		Limit:  c.limit,
	}
	resp, err := cmdutil.Post[api.StrategyListResponse](ctx, &c.ClientFlags, api.StrategyListPath, req)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "UID\tNAME\tPRODUCT\tKEY\tAMOUNT\tMAX-COVERS\tCYCLIC")
	for _, s := range resp.Strategies {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%t\n",
			s.UID, s.Name, s.ProductID, s.KeyID, s.InitialOrderAmount, s.MaxCoverCount, s.Cyclic)
	}
	return tw.Flush()
}
