// Copyright (c) 2025 BVK Chaitanya

package strategy

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"

	"github.com/bvk/dcabot/api"
	"github.com/bvk/dcabot/subcmds/cmdutil"
	"github.com/visvasity/cli"
)

type Update struct {
	cmdutil.ClientFlags

	paramsFlags
}

func (c *Update) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("update", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	c.paramsFlags.SetFlags(fset)
	return "update", fset, cli.CmdFunc(c.run)
}

func (c *Update) Purpose() string {
	return "Replaces the configuration of a dca strategy"
}

func (c *Update) run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("this command takes one (uid) argument")
	}
	if err := c.check(); err != nil {
		return err
	}

	// The whole configuration is replaced, so every parameter flag must be
	// given again. A running strategy keeps its old configuration until it
	// is restarted.
	req := &api.StrategyUpdateRequest{
		UID:            args[0],
		StrategyParams: *c.params(),
	}
	resp, err := cmdutil.Post[api.StrategyUpdateResponse](ctx, &c.ClientFlags, api.StrategyUpdatePath, req)
	if err != nil {
		return err
	}
	jsdata, _ := json.MarshalIndent(resp, "", "  ")
	fmt.Printf("%s\n", jsdata)
	return nil
}
