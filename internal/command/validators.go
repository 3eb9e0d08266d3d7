// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// GlobalFlagsValidator rejects flag combinations no command can honour.
func GlobalFlagsValidator(ctx context.Context, c *cli.Command) error {
	if c.Bool("color") && c.String("output") != "text" {
		return fmt.Errorf("--color only applies to text output")
	}
	return nil
}

// DiffFlagsValidator rejects diff flag combinations that select the snapshot
// pair twice.
func DiffFlagsValidator(ctx context.Context, c *cli.Command) error {
	if err := GlobalFlagsValidator(ctx, c); err != nil {
		return err
	}
	if c.Bool("pick") && (c.String("old") != "" || c.String("new") != "") {
		return fmt.Errorf("--pick cannot be combined with --old or --new")
	}
	if c.Bool("all") && (c.Bool("pick") || c.String("old") != "" || c.String("new") != "") {
		return fmt.Errorf("--all cannot be combined with --pick, --old or --new")
	}
	return nil
}

func OutputValidator(value any) error {
	var validOutputFlagValues = []string{"text", "json", "yaml"}
	valid := false
	for _, v := range validOutputFlagValues {
		if v == value {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("must be one of %v", validOutputFlagValues)
	}
	return nil
}

func PaddingValidator(value any) error {
	if n, ok := value.(int); !ok || n < 0 {
		return fmt.Errorf("must be a non-negative integer")
	}
	return nil
}
