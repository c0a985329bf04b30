// Copyright (c) 2025 BVK Chaitanya

package main

import (
	"context"
	"log"
	"os"

	"github.com/bvk/dcabot/subcmds"
	"github.com/bvk/dcabot/subcmds/db"
	"github.com/bvk/dcabot/subcmds/job"
	"github.com/bvk/dcabot/subcmds/key"
	"github.com/bvk/dcabot/subcmds/strategy"
	"github.com/visvasity/cli"
)

func main() {
	strategyCmds := []cli.Command{
		new(strategy.Add),
		new(strategy.Get),
		new(strategy.List),
		new(strategy.Update),
		new(strategy.Remove),
		new(strategy.Start),
		new(strategy.Stop),
		new(strategy.Pause),
		new(strategy.State),
	}

	keyCmds := []cli.Command{
		new(key.Add),
		new(key.Get),
		new(key.List),
		new(key.Remove),
	}

	jobCmds := []cli.Command{
		new(job.List),
	}

	dbCmds := []cli.Command{
		new(db.Get),
		new(db.Set),
		new(db.Delete),
		new(db.List),
		new(db.Backup),
		new(db.Restore),
	}

	cmds := []cli.Command{
		new(subcmds.Run),
		new(subcmds.Status),
		cli.NewGroup("strategy", "Manage dca strategies", strategyCmds...),
		cli.NewGroup("key", "Manage exchange api keys", keyCmds...),
		cli.NewGroup("job", "Inspect strategy jobs", jobCmds...),
		cli.NewGroup("db", "View/update database directly", dbCmds...),
	}
	if err := cli.Run(context.Background(), cmds, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
