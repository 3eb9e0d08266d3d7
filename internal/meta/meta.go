// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"context"

	"github.com/tfctl/snaplog/internal/config"
)

// TargetSpec holds the location and dataset parsed from the optional
// "location::dataset" positional argument. Empty fields defer to the dataset
// configuration.
type TargetSpec struct {
	Location string
	Dataset  string
}

// Meta contains runtime metadata shared by commands. It carries CLI arguments,
// loaded configuration, context, the parsed target specification, and the
// starting working directory.
type Meta struct {
	Args    []string
	Config  config.Type
	Context context.Context
	TargetSpec
	StartingDir string
}
