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

type Pause struct {
	cmdutil.ClientFlags
}

func (c *Pause) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("pause", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	return "pause", fset, cli.CmdFunc(c.run)
}

func (c *Pause) Purpose() string {
	return "Pauses the polling loop of a strategy"
}

func (c *Pause) run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("this command takes one (uid) argument")
	}
	req := &api.StrategyPauseRequest{
		UID: args[0],
	}
	resp, err := cmdutil.Post[api.StrategyPauseResponse](ctx, &c.ClientFlags, api.StrategyPausePath, req)
	if err != nil {
		return err
	}
	jsdata, _ := json.MarshalIndent(resp, "", "  ")
	fmt.Printf("%s\n", jsdata)
	return nil
}
