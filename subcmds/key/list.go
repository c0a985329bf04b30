// Copyright (c) 2025 BVK Chaitanya

package key

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
}

func (c *List) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("list", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	return "list", fset, cli.CmdFunc(c.run)
}

func (c *List) Purpose() string {
	return "Prints all exchange api keys"
}

func (c *List) run(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("this command takes no arguments")
	}
	resp, err := cmdutil.Post[api.KeyListResponse](ctx, &c.ClientFlags, api.KeyListPath, &api.KeyListRequest{})
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "UID\tNAME\tMODE\tSTATUS")
	for _, k := range resp.Keys {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", k.UID, k.Name, k.Mode, k.Status)
	}
	return tw.Flush()
}
