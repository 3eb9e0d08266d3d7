// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"io"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/snaplog/internal/config"
	"github.com/tfctl/snaplog/internal/meta"
	"github.com/tfctl/snaplog/internal/output"
)

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// ResolveDataset returns the dataset a command operates on and the location
// override, if any. The dataset named in the positional argument wins over
// --dataset.
func ResolveDataset(cmd *cli.Command) (config.Dataset, string, error) {
	m := GetMeta(cmd)

	name := m.Dataset
	if name == "" {
		name = cmd.String("dataset")
	}

	ds, err := config.GetDataset(name)
	if err != nil {
		return ds, "", err
	}
	log.Debugf("ResolveDataset: dataset=%s location=%s", ds.Name, m.Location)

	return ds, m.Location, nil
}

// emitTable renders one titled block of rows through the common output
// routine. The header is only shown for text output.
func emitTable(cmd *cli.Command, w io.Writer, header string, rows []map[string]interface{}, columns []string) {
	if cmd.Metadata == nil {
		cmd.Metadata = map[string]any{}
	}
	prev, had := cmd.Metadata["header"]
	cmd.Metadata["header"] = header
	defer func() {
		if had {
			cmd.Metadata["header"] = prev
		} else {
			delete(cmd.Metadata, "header")
		}
	}()

	output.SliceDiceSpit(rows, columns, cmd, w, nil)
}

// warn writes a user facing warning to w and the log.
func warn(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Warn(msg)
	fmt.Fprintf(w, "warning: %s\n", msg)
}
