// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/snaplog/internal/meta"
)

// CommandBuilder constructs a cli.Command for the dataset subcommands (diff,
// ls, dups) using a consistent pattern. The builder wires metadata, adds the
// dataset and global flags, and sets up validators.
type CommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Action    func(context.Context, *cli.Command) error
	// Validator replaces GlobalFlagsValidator when set.
	Validator func(context.Context, *cli.Command) error
	Meta      meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (cb *CommandBuilder) Build() *cli.Command {
	validate := cb.Validator
	if validate == nil {
		validate = GlobalFlagsValidator
	}

	cfgFile := cb.Meta.Config.Source

	return &cli.Command{
		Name:      cb.Name,
		Usage:     cb.Usage,
		UsageText: cb.UsageText,
		Metadata: map[string]any{
			"meta": cb.Meta,
		},
		Flags: append(cb.Flags, append([]cli.Flag{
			NewDatasetFlag(cb.Name, cfgFile),
		}, NewGlobalFlags(cb.Name, cfgFile)...)...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, validate(ctx, c)
		},
		Action: cb.Action,
	}
}
