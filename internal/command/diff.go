// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	"github.com/tfctl/snaplog/internal/changelog"
	"github.com/tfctl/snaplog/internal/config"
	"github.com/tfctl/snaplog/internal/differ"
	"github.com/tfctl/snaplog/internal/meta"
	"github.com/tfctl/snaplog/internal/output"
	"github.com/tfctl/snaplog/internal/snapshot"
)

// diffCommandAction is the action handler for the "diff" subcommand. It runs
// one comparison, or every configured dataset with --all, writes the
// change-log workbook unless --dry-run and prints the summary and records.
func diffCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "diff"

	opts := changelog.Options{
		OldSpec: cmd.String("old"),
		NewSpec: cmd.String("new"),
		DryRun:  cmd.Bool("dry-run"),
	}
	if cmd.Bool("pick") {
		opts.Pick = differ.SelectSnapshots
	}

	if cmd.Bool("all") {
		return diffAll(ctx, cmd, opts, os.Stdout)
	}

	ds, location, err := ResolveDataset(cmd)
	if err != nil {
		return err
	}
	if dir := cmd.String("out-dir"); dir != "" {
		ds.Output.Dir = dir
	}
	opts.Location = location

	out, err := changelog.Run(ctx, ds, opts)
	if err != nil {
		return err
	}

	return emitOutcomes(cmd, os.Stdout, false, out)
}

// diffAll runs every configured dataset. Failures are reported per dataset and
// turned into a single error once every dataset has been attempted.
func diffAll(ctx context.Context, cmd *cli.Command, opts changelog.Options, w io.Writer) error {
	names := config.DatasetNames()
	if len(names) == 0 {
		return fmt.Errorf("no datasets configured")
	}

	datasets := make([]config.Dataset, 0, len(names))
	for _, name := range names {
		ds, err := config.GetDataset(name)
		if err != nil {
			return err
		}
		if dir := cmd.String("out-dir"); dir != "" {
			ds.Output.Dir = dir
		}
		datasets = append(datasets, ds)
	}

	reports := changelog.RunAll(ctx, datasets, opts, cmd.Int("parallel"))

	var outcomes []*changelog.Outcome
	for _, r := range reports {
		if r.Err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", r.Dataset, r.Err)
			continue
		}
		outcomes = append(outcomes, r.Outcome)
	}

	if err := emitOutcomes(cmd, w, true, outcomes...); err != nil {
		return err
	}

	if failed := changelog.Failed(reports); len(failed) > 0 {
		return fmt.Errorf("%d of %d datasets failed", len(failed), len(reports))
	}
	return nil
}

// emitOutcomes renders outcomes per --output. A json or yaml document holds a
// single object unless many is set, in which case it holds a list.
func emitOutcomes(cmd *cli.Command, w io.Writer, many bool, outcomes ...*changelog.Outcome) error {
	format := cmd.String("output")
	if format == "text" {
		for _, out := range outcomes {
			emitText(cmd, w, out)
			warnAmbiguous(cmd, w, out)
		}
		return nil
	}

	for _, out := range outcomes {
		warnAmbiguous(cmd, w, out)
	}

	docs := make([]diffSummary, 0, len(outcomes))
	for _, out := range outcomes {
		docs = append(docs, summarize(cmd, out, format))
	}

	var doc any = docs
	if !many && len(docs) == 1 {
		doc = docs[0]
	}

	var (
		b   []byte
		err error
	)
	if format == "json" {
		b, err = json.Marshal(doc)
		b = append(b, '\n')
	} else {
		b, err = yaml.Marshal(doc)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	_, err = w.Write(b)
	return err
}

func emitText(cmd *cli.Command, w io.Writer, out *changelog.Outcome) {
	sel := out.Selection
	added, removed, modified := out.Result.Counts()

	fmt.Fprintf(w, "Dataset:  %s (%s)\n", out.Dataset.Name, out.Source)
	fmt.Fprintf(w, "Old:      %s (%s)\n", sel.Old.Name, sel.Old.Timestamp.Format(time.DateTime))
	fmt.Fprintf(w, "New:      %s (%s)\n", sel.New.Name, sel.New.Timestamp.Format(time.DateTime))
	fmt.Fprintf(w, "Target:   %s (off by %s)\n", sel.Target.Format(time.DateTime), sel.Distance)
	fmt.Fprintf(w, "Added: %d  Removed: %d  Modified: %d\n", added, removed, modified)
	if out.Report != "" {
		fmt.Fprintf(w, "Report:   %s\n", out.Report)
	} else {
		fmt.Fprintln(w, "Report:   none (dry run)")
	}

	for _, s := range out.Sheets {
		if len(s.Rows) == 0 {
			continue
		}
		emitTable(cmd, w, "\n"+s.Name+":", s.Maps(), s.Columns)
	}
}

// warnAmbiguous reports duplicated keys on stderr and, with --explain, shows
// how the duplicated rows differ.
func warnAmbiguous(cmd *cli.Command, w io.Writer, out *changelog.Outcome) {
	for _, a := range out.Result.Ambiguous {
		warn(os.Stderr, "%s: ambiguous key %s: %d old rows, %d new rows",
			out.Dataset.Name, a.Key, len(a.Old), len(a.New))

		if !cmd.Bool("explain") || cmd.String("output") != "text" {
			continue
		}
		text, err := differ.ExplainAmbiguity(out.OldSnapshot, out.NewSnapshot, a, cmd.Bool("color"))
		if err != nil {
			log.Errorf("explain %s: %v", a.Key, err)
			continue
		}
		fmt.Fprint(w, text)
	}
}

type snapshotRef struct {
	Name      string `json:"name" yaml:"name"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
}

type ambiguousRef struct {
	Key string `json:"key" yaml:"key"`
	Old []int  `json:"old" yaml:"old"`
	New []int  `json:"new" yaml:"new"`
}

type diffSummary struct {
	Run       string         `json:"run" yaml:"run"`
	Dataset   string         `json:"dataset" yaml:"dataset"`
	Source    string         `json:"source" yaml:"source"`
	Old       snapshotRef    `json:"old" yaml:"old"`
	New       snapshotRef    `json:"new" yaml:"new"`
	Target    string         `json:"target" yaml:"target"`
	Report    string         `json:"report,omitempty" yaml:"report,omitempty"`
	Counts    map[string]int `json:"counts" yaml:"counts"`
	Modified  any            `json:"modified" yaml:"modified"`
	Added     any            `json:"added" yaml:"added"`
	Removed   any            `json:"removed" yaml:"removed"`
	Ambiguous []ambiguousRef `json:"ambiguous,omitempty" yaml:"ambiguous,omitempty"`
	Drift     *differ.Drift  `json:"drift,omitempty" yaml:"drift,omitempty"`
}

func summarize(cmd *cli.Command, out *changelog.Outcome, format string) diffSummary {
	added, removed, modified := out.Result.Counts()
	ref := func(c snapshot.Candidate) snapshotRef {
		return snapshotRef{Name: c.Name, Timestamp: c.Timestamp.Format(time.RFC3339)}
	}

	doc := diffSummary{
		Run:     out.RunID,
		Dataset: out.Dataset.Name,
		Source:  out.Source,
		Old:     ref(out.Selection.Old),
		New:     ref(out.Selection.New),
		Target:  out.Selection.Target.Format(time.RFC3339),
		Report:  out.Report,
		Counts:  map[string]int{"added": added, "removed": removed, "modified": modified},
	}

	for _, s := range out.Sheets {
		var records any
		rows := output.Prepare(s.Maps(), cmd)
		if format == "yaml" {
			records = output.Ordered(rows, s.Columns)
		} else {
			records = rows
		}

		switch s.Kind {
		case differ.Modified:
			doc.Modified = records
		case differ.Added:
			doc.Added = records
		case differ.Removed:
			doc.Removed = records
		}
	}

	for _, a := range out.Result.Ambiguous {
		doc.Ambiguous = append(doc.Ambiguous, ambiguousRef{Key: a.Key.String(), Old: a.Old, New: a.New})
	}
	if !out.Result.Drift.Empty() {
		d := out.Result.Drift
		doc.Drift = &d
	}

	return doc
}

// diffCommandBuilder constructs the cli.Command for "diff", wiring metadata,
// flags, and action handlers.
func diffCommandBuilder(meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "diff",
		Usage:     "compare the current snapshot against the scheduled baseline",
		UsageText: "snaplog diff [location][::dataset] [options]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "all",
				Usage: "compare every configured dataset",
			},
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"n"},
				Usage:   "do not write the change-log workbook",
			},
			&cli.BoolFlag{
				Name:    "explain",
				Aliases: []string{"x"},
				Usage:   "show how rows sharing an ambiguous key differ",
			},
			&cli.StringFlag{
				Name:  "new",
				Usage: "pin the new snapshot (~N, timestamp prefix, name prefix or file)",
			},
			&cli.StringFlag{
				Name:  "old",
				Usage: "pin the old snapshot (~N, timestamp prefix, name prefix or file)",
			},
			&cli.StringFlag{
				Name:  "out-dir",
				Usage: "directory for the change-log workbook. Overrides the dataset",
			},
			&cli.IntFlag{
				Name:  "parallel",
				Usage: "datasets compared at once with --all",
				Value: changelog.DefaultParallelism,
			},
			&cli.BoolFlag{
				Name:    "pick",
				Aliases: []string{"p"},
				Usage:   "choose both snapshots interactively",
			},
		},
		Action:    diffCommandAction,
		Validator: DiffFlagsValidator,
		Meta:      meta,
	}).Build()
}
