// Copyright (c) 2025 BVK Chaitanya

package strategy

import (
	"context"
	"flag"
	"fmt"

	"github.com/bvk/dcabot/api"
	"github.com/bvk/dcabot/subcmds/cmdutil"
	"github.com/visvasity/cli"
)

type Remove struct {
	cmdutil.ClientFlags
}

func (c *Remove) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("rm", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	return "rm", fset, cli.CmdFunc(c.run)
}

func (c *Remove) Purpose() string {
	return "Removes a strategy configuration"
}

func (c *Remove) run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("this command takes one (uid) argument")
	}
	req := &api.StrategyRemoveRequest{
		UID: args[0],
	}
	if _, err := cmdutil.Post[api.StrategyRemoveResponse](ctx, &c.ClientFlags, api.StrategyRemovePath, req); err != nil {
		return err
	}
	return nil
}
