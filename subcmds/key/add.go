// Copyright (c) 2025 BVK Chaitanya

// Package key implements the exchange credential subcommands.
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

type Add struct {
	cmdutil.ClientFlags

	name      string
	apiKey    string
	secretKey string
	mode      string
}

func (c *Add) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("add", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	fset.StringVar(&c.name, "name", "", "display name for the key")
	fset.StringVar(&c.apiKey, "api-key", "", "exchange api key")
	fset.StringVar(&c.secretKey, "secret-key", "", "exchange api secret")
	fset.StringVar(&c.mode, "mode", "paper", "trading mode, one of paper|live")
	return "add", fset, cli.CmdFunc(c.run)
}

func (c *Add) Purpose() string {
	return "Adds an exchange api key"
}

func (c *Add) run(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("this command takes no arguments")
	}
	if len(c.name) == 0 || len(c.apiKey) == 0 || len(c.secretKey) == 0 {
		return fmt.Errorf("name, api-key and secret-key flags are required")
	}

	req := &api.KeyAddRequest{
		Name:      c.name,
		APIKey:    c.apiKey,
		SecretKey: c.secretKey,
		Mode:      c.mode,
	}
	resp, err := cmdutil.Post[api.KeyAddResponse](ctx, &c.ClientFlags, api.KeyAddPath, req)
	if err != nil {
		return err
	}
	jsdata, _ := json.MarshalIndent(resp, "", "  ")
	fmt.Printf("%s\n", jsdata)
	return nil
}
