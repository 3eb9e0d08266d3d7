// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/snaplog/internal/changelog"
	"github.com/tfctl/snaplog/internal/config"
	"github.com/tfctl/snaplog/internal/differ"
	"github.com/tfctl/snaplog/internal/index"
	"github.com/tfctl/snaplog/internal/meta"
	"github.com/tfctl/snaplog/internal/snapshot"
	"github.com/tfctl/snaplog/internal/source"
	"github.com/tfctl/snaplog/internal/table"
)

// dupsColumns is the column order of the "dups" listing.
var dupsColumns = []string{"key", "count", "rows"}

// dupsCommandAction is the action handler for the "dups" subcommand. It
// indexes one snapshot, the newest by default, and lists every key carried by
// more than one row.
func dupsCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "dups"

	ds, location, err := ResolveDataset(cmd)
	if err != nil {
		return err
	}
	if err := ds.Validate(); err != nil {
		return err
	}
	loc, err := ds.Location()
	if err != nil {
		return err
	}

	src, err := source.New(ctx, ds, location)
	if err != nil {
		return err
	}
	cands, err := src.Candidates(ctx)
	if err != nil {
		return err
	}

	c, err := snapshot.Resolve(cands, cmd.String("snapshot"), loc)
	if err != nil {
		return err
	}

	snap, err := changelog.Load(ctx, src, c, ds.Sheet)
	if err != nil {
		return err
	}

	idx, err := index.Build(snap, ds.Keys, index.WithSentinel(ds.Sentinel))
	if err != nil {
		return err
	}

	return listDuplicates(cmd, os.Stdout, snap, idx)
}

func listDuplicates(cmd *cli.Command, w io.Writer, snap *table.Snapshot, idx *index.KeyIndex) error {
	dups := idx.Ambiguous()

	rows := make([]map[string]interface{}, 0, len(dups))
	for _, a := range dups {
		lines := make([]string, 0, len(a.Rows))
		for _, p := range a.Rows {
			lines = append(lines, strconv.Itoa(snap.Line(p)))
		}
		rows = append(rows, map[string]interface{}{
			"key":   a.Key.String(),
			"count": len(a.Rows),
			"rows":  strings.Join(lines, " "),
		})
	}

	header := fmt.Sprintf("%s: %d rows, %d keys, %d ambiguous", snap.Name, snap.Len(), idx.Len(), len(dups))
	emitTable(cmd, w, header, rows, dupsColumns)

	if !cmd.Bool("explain") || cmd.String("output") != "text" {
		return nil
	}
	for _, a := range dups {
		text, err := differ.ExplainRows(snap, a.Rows, cmd.Bool("color"))
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "\n%s\n%s", a.Key, text)
	}
	return nil
}

// dupsCommandBuilder constructs the cli.Command for "dups", wiring metadata,
// flags, and action handlers.
func dupsCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "dups",
		Usage:     "list keys carried by more than one row of a snapshot",
		UsageText: "snaplog dups [location][::dataset] [options]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "explain",
				Aliases: []string{"x"},
				Usage:   "show how rows sharing a key differ",
			},
			&cli.StringFlag{
				Name:  "snapshot",
				Usage: "snapshot to check (~N, timestamp prefix, name prefix or file)",
			},
		},
		Action: dupsCommandAction,
		Meta:   meta,
	}).Build()
}
