// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package changelog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"

	"github.com/tfctl/snaplog/internal/config"
	"github.com/tfctl/snaplog/internal/differ"
	"github.com/tfctl/snaplog/internal/index"
	"github.com/tfctl/snaplog/internal/report"
	"github.com/tfctl/snaplog/internal/snapshot"
	"github.com/tfctl/snaplog/internal/source"
	"github.com/tfctl/snaplog/internal/table"
)

// ErrSamePair is returned when a manual selection names one snapshot for
// both sides.
var ErrSamePair = errors.New("old and new name the same snapshot")

// PickFunc chooses two snapshots from candidates sorted newest first and
// returns them oldest first.
type PickFunc func([]snapshot.Candidate) ([]snapshot.Candidate, error)

// Options tunes a single Run.
type Options struct {
	// Location overrides the dataset's configured source.
	Location string
	// OldSpec and NewSpec pin either side. See snapshot.Resolve for the
	// accepted forms. An empty NewSpec means the newest snapshot and an empty
	// OldSpec means the scheduled baseline for the new side.
	OldSpec string
	NewSpec string
	// Pick, when set, replaces the locator with an interactive choice.
	Pick PickFunc
	// DryRun skips writing the workbook.
	DryRun bool
	// Now stamps the workbook name. Defaults to time.Now.
	Now func() time.Time
	// Source replaces the source built from the dataset configuration.
	Source source.Source
}

// Outcome is everything a caller needs to present one comparison.
type Outcome struct {
	RunID       string
	Dataset     config.Dataset
	Source      string
	Selection   snapshot.Selection
	OldSnapshot *table.Snapshot
	NewSnapshot *table.Snapshot
	Result      *differ.Result
	Sheets      []report.Sheet
	// Report is the path of the written workbook, empty on a dry run.
	Report string
}

// Run performs one comparison of ds.
func Run(ctx context.Context, ds config.Dataset, opts Options) (*Outcome, error) {
	out := &Outcome{
		RunID:   uuid.NewString(),
		Dataset: ds,
	}
	logger := log.WithFields(log.Fields{"run": out.RunID, "dataset": ds.Name})

	if err := ds.Validate(); err != nil {
		return nil, err
	}
	sched, err := snapshot.ParseSchedule(ds.Schedule)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", ds.Name, err)
	}
	loc, err := ds.Location()
	if err != nil {
		return nil, err
	}

	src := opts.Source
	if src == nil {
		if src, err = source.New(ctx, ds, opts.Location); err != nil {
			return nil, fmt.Errorf("failed to open source: %w", err)
		}
	}
	out.Source = src.String()

	cands, err := src.Candidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", src, err)
	}
	logger.Debugf("found %d candidates in %s", len(cands), src)

	out.Selection, err = choose(cands, sched, loc, opts)
	if err != nil {
		return nil, err
	}
	logger.Infof("selected old=%s new=%s target=%s",
		out.Selection.Old.Name, out.Selection.New.Name, out.Selection.Target.Format(time.DateTime))

	if out.OldSnapshot, err = Load(ctx, src, out.Selection.Old, ds.Sheet); err != nil {
		return nil, err
	}
	if out.NewSnapshot, err = Load(ctx, src, out.Selection.New, ds.Sheet); err != nil {
		return nil, err
	}

	oldIdx, err := index.Build(out.OldSnapshot, ds.Keys, index.WithSentinel(ds.Sentinel))
	if err != nil {
		return nil, fmt.Errorf("old snapshot %s: %w", out.OldSnapshot.Name, err)
	}
	newIdx, err := index.Build(out.NewSnapshot, ds.Keys, index.WithSentinel(ds.Sentinel))
	if err != nil {
		return nil, fmt.Errorf("new snapshot %s: %w", out.NewSnapshot.Name, err)
	}

	out.Result = differ.Compare(oldIdx, newIdx, differ.Options{Meta: ds.Meta, Ignore: ds.Ignore})
	added, removed, modified := out.Result.Counts()
	logger.Infof("added=%d removed=%d modified=%d ambiguous=%d", added, removed, modified, len(out.Result.Ambiguous))

	out.Sheets = report.Sheets(out.Result, ds.Output.Labels)
	if opts.DryRun {
		return out, nil
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	if out.Report, err = report.Write(ds.Output.Dir, ds.Output.Prefix, now(), out.Sheets); err != nil {
		return nil, err
	}
	logger.Infof("wrote %s", out.Report)

	return out, nil
}

// choose applies, in order of precedence, an interactive pick, manual specs
// or the locator.
func choose(cands []snapshot.Candidate, sched snapshot.Schedule, loc *time.Location, opts Options) (snapshot.Selection, error) {
	if len(cands) < 2 && opts.OldSpec == "" {
		return snapshot.Selection{}, fmt.Errorf("%w: found %d", snapshot.ErrInsufficientSnapshots, len(cands))
	}

	if opts.Pick != nil {
		sorted := make([]snapshot.Candidate, len(cands))
		copy(sorted, cands)
		snapshot.SortNewestFirst(sorted)

		picked, err := opts.Pick(sorted)
		if err != nil {
			return snapshot.Selection{}, err
		}
		if len(picked) != 2 {
			return snapshot.Selection{}, fmt.Errorf("%w: picked %d", snapshot.ErrInsufficientSnapshots, len(picked))
		}
		return pair(picked[0], picked[1], sched), nil
	}

	if opts.OldSpec == "" && opts.NewSpec == "" {
		return snapshot.Locate(cands, sched)
	}

	newC, err := snapshot.Resolve(cands, opts.NewSpec, loc)
	if err != nil {
		return snapshot.Selection{}, fmt.Errorf("new: %w", err)
	}

	if opts.OldSpec == "" {
		return snapshot.LocateBaseline(newC, cands, sched)
	}

	oldC, err := snapshot.Resolve(cands, opts.OldSpec, loc)
	if err != nil {
		return snapshot.Selection{}, fmt.Errorf("old: %w", err)
	}
	if oldC.Path == newC.Path {
		return snapshot.Selection{}, fmt.Errorf("%w: %s", ErrSamePair, oldC.Name)
	}
	return pair(oldC, newC, sched), nil
}

func pair(oldC, newC snapshot.Candidate, sched snapshot.Schedule) snapshot.Selection {
	target := sched.Target(newC.Timestamp)
	d := oldC.Timestamp.Sub(target)
	if d < 0 {
		d = -d
	}
	return snapshot.Selection{New: newC, Old: oldC, Target: target, Distance: d}
}

// Load fetches and reads one snapshot. Local candidates, the ones a file spec
// names, are read in place whatever the source.
func Load(ctx context.Context, src source.Source, c snapshot.Candidate, sheet string) (*table.Snapshot, error) {
	path := c.Path
	if !c.Local {
		var err error
		if path, err = src.Fetch(ctx, c); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", table.ErrSnapshotLoad, c.Name, err)
		}
	}

	snap, err := table.Load(path, sheet)
	if err != nil {
		return nil, err
	}
	snap.Name = c.Name
	return snap, nil
}
