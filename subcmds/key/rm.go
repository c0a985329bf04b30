// Copyright (c) 2025 BVK Chaitanya

package key

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
	return "Removes an exchange api key"
}

func (c *Remove) run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("this command takes one (uid) argument")
	}
	req := &api.KeyRemoveRequest{
		UID: args[0],
	}
	if _, err := cmdutil.Post[api.KeyRemoveResponse](ctx, &c.ClientFlags, api.KeyRemovePath, req); err != nil {
		return err
	}
	return nil
}
