// Copyright (c) 2025 BVK Chaitanya

package subcmds

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

type Status struct {
	cmdutil.ClientFlags
}

func (c *Status) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("status", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	return "status", fset, cli.CmdFunc(c.run)
}

func (c *Status) Purpose() string {
	return "Prints all strategies with their positions"
}

func (c *Status) run(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("this command takes no arguments")
	}

	resp, err := cmdutil.Post[api.StatusResponse](ctx, &c.ClientFlags, api.StatusPath, &api.StatusRequest{})
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "UID\tNAME\tPRODUCT\tSTATUS\tPRICE\tQUANTITY\tAVG-ENTRY\tCOVERS\tREALIZED\tUNREALIZED")
	for _, v := range resp.Strategies {
		status, quantity, avg, covers, realized, unrealized := "new", "-", "-", "-", "-", "-"
		if s := v.State; s != nil {
			status = "stopped"
			if s.Running {
				status = "running"
			}
			quantity = s.Quantity.String()
			avg = s.AverageEntryPrice.StringFixed(3)
			covers = fmt.Sprintf("%d", s.CoverCount)
			realized = s.RealizedPNL.StringFixed(3)
			unrealized = s.UnrealizedPNL.StringFixed(3)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			v.Strategy.UID, v.Strategy.Name, v.Strategy.ProductID, status,
			v.Price.StringFixed(3), quantity, avg, covers, realized, unrealized)
	}
	return tw.Flush()
}
