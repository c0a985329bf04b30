// Copyright (c) 2025 BVK Chaitanya

package key

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"

	"github.com/bvk/dcabot/api"
	"github.com/bvk/dcabot/subcmds/cmdutil"
	"github.com/visvasity/cli"
)

type Get struct {
	cmdutil.ClientFlags
}

func (c *Get) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("get", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	return "get", fset, cli.CmdFunc(c.run)
}

func (c *Get) Purpose() string {
	return "Prints an exchange api key"
}

func (c *Get) run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("this command takes one (uid) argument")
	}
	req := &api.KeyGetRequest{
		UID: args[0],
	}
	resp, err := cmdutil.Post[api.KeyGetResponse](ctx, &c.ClientFlags, api.KeyGetPath, req)
	if err != nil {
		return err
	}
	jsdata, _ := json.MarshalIndent(resp, "", "  ")
	fmt.Printf("%s\n", jsdata)
	return nil
}
