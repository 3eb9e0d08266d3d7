// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/snaplog/internal/config"
	"github.com/tfctl/snaplog/internal/meta"
	"github.com/tfctl/snaplog/internal/snapshot"
	"github.com/tfctl/snaplog/internal/source"
)

// lsColumns is the column order of the "ls" listing.
var lsColumns = []string{"pair", "name", "timestamp", "age", "size"}

// lsCommandAction is the action handler for the "ls" subcommand. It lists the
// dataset's snapshots newest first and marks the pair diff would compare.
func lsCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "ls"

	ds, location, err := ResolveDataset(cmd)
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

	sched, err := snapshot.ParseSchedule(ds.Schedule)
	if err != nil {
		return err
	}

	return listCandidates(cmd, os.Stdout, src.String(), cands, sched, time.Now())
}

func listCandidates(cmd *cli.Command, w io.Writer, where string, cands []snapshot.Candidate, sched snapshot.Schedule, now time.Time) error {
	sel, err := snapshot.Locate(cands, sched)
	if err != nil && !errors.Is(err, snapshot.ErrInsufficientSnapshots) {
		return err
	}

	sorted := make([]snapshot.Candidate, len(cands))
	copy(sorted, cands)
	snapshot.SortNewestFirst(sorted)

	rows := make([]map[string]interface{}, 0, len(sorted))
	for _, c := range sorted {
		pair := ""
		switch c.Path {
		case sel.New.Path:
			pair = "new"
		case sel.Old.Path:
			pair = "old"
		}

		rows = append(rows, map[string]interface{}{
			"pair":      pair,
			"name":      c.Name,
			"timestamp": c.Timestamp.Format(time.DateTime),
			"age":       humanize.RelTime(c.Timestamp, now, "ago", "from now"),
			"size":      humanize.Bytes(uint64(max(c.Size, 0))), //nolint:gosec
		})
	}

	header := fmt.Sprintf("%s: %d snapshots, schedule %s", where, len(sorted), sched)
	emitTable(cmd, w, header, rows, lsColumns)
	return nil
}

// lsCommandBuilder constructs the cli.Command for "ls", wiring metadata,
// flags, and action handlers.
func lsCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "ls",
		Usage:     "list snapshots and the pair diff would compare",
		UsageText: "snaplog ls [location][::dataset] [options]",
		Action:    lsCommandAction,
		Meta:      meta,
	}).Build()
}
