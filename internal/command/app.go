// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/snaplog/internal/config"
	"github.com/tfctl/snaplog/internal/meta"
	"github.com/tfctl/snaplog/internal/util"
)

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {

	sd, _ := os.Getwd()

	// The arg[1] immediately following the binary (arg[0]) is the snaplog
	// subcommand and also represents the namespace key to be used when
	// retrieving config values. arg[1] could be -h/--help, so ignore it if it
	// appears to be a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	cfg, _ := config.Load() //nolint
	cfg.Namespace = ns
	meta := meta.Meta{
		Args:        args,
		Config:      cfg,
		Context:     ctx,
		StartingDir: sd,
	}

	// See if the arg immediately following the command is a location::dataset
	// target. If it begins with - it's a flag and the dataset configuration
	// decides where snapshots live. The completion command takes a plain
	// positional shell name instead.
	if ns != "completion" && len(args) > 2 && !strings.HasPrefix(args[2], "-") {
		location, dataset, err := util.ParseTarget(args[2])
		if err != nil {
			return nil, fmt.Errorf("failed to parse target (%s): %w", args[2], err)
		}
		meta.Location = location
		meta.Dataset = dataset
	}

	app := &cli.Command{
		Name:  "snaplog",
		Usage: "snapshot change log",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "snaplog version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		diffCommandBuilder(meta),
		dupsCommandBuilder(meta),
		lsCommandBuilder(meta),
		completionCommandBuilder(meta),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}
