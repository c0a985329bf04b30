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

type State struct {
	cmdutil.ClientFlags
}

func (c *State) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("state", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	return "state", fset, cli.CmdFunc(c.run)
}

func (c *State) Purpose() string {
	return "Prints the runtime state of a strategy"
}

func (c *State) run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("this command takes one (uid) argument")
	}
	req := &api.StrategyStateRequest{
		UID: args[0],
	}
	resp, err := cmdutil.Post[api.StrategyStateResponse](ctx, &c.ClientFlags, api.StrategyStatePath, req)
	if err != nil {
		return err
	}
	jsdata, _ := json.MarshalIndent(resp, "", "  ")
	fmt.Printf("%s\n", jsdata)
	return nil
}
