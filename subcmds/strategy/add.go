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

type Add struct {
	cmdutil.ClientFlags

	paramsFlags
}

func (c *Add) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("add", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	c.paramsFlags.SetFlags(fset)
	return "add", fset, cli.CmdFunc(c.run)
}

func (c *Add) Purpose() string {
	return "Creates a new dca strategy"
}

func (c *Add) Description() string {
	return `

Command "add" creates an averaging-down strategy on a product. The strategy
buys an initial notional amount when the price falls buy-trigger-pct off the
reference price and recovers buy-callback-pct off the low. While holding, it
averages down with up to max-covers additional buys on further falls and
sells the position for profit after a sell-trigger-pct rise followed by a
sell-callback-pct pullback.

The strategy is created stopped. Use "strategy start" to run it.

`
}

func (c *Add) run(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("this command takes no arguments")
	}
	if err := c.check(); err != nil {
		return err
	}

	req := &api.StrategyAddRequest{
		StrategyParams: *c.params(),
	}
	resp, err := cmdutil.Post[api.StrategyAddResponse](ctx, &c.ClientFlags, api.StrategyAddPath, req)
	if err != nil {
		return err
	}
	jsdata, _ := json.MarshalIndent(resp, "", "  ")
	fmt.Printf("%s\n", jsdata)
	return nil
}
