// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	"github.com/tfctl/snaplog/internal/changelog"
	"github.com/tfctl/snaplog/internal/config"
	"github.com/tfctl/snaplog/internal/index"
	"github.com/tfctl/snaplog/internal/meta"
	"github.com/tfctl/snaplog/internal/snapshot"
	"github.com/tfctl/snaplog/internal/table"
)

const testConfig = `
datasets:
  calc:
    pattern: "calc_*.xlsx"
    sheet: Summary
    keys: [Base, Code]
    meta: [UpdatedBy]
    ignore: [UpdatedBy]
    timezone: UTC
`

func writeSnapshot(t *testing.T, dir, name string, rows ...[]string) {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Summary")
	require.NoError(t, err)
	for _, r := range append([][]string{{"Base", "Code", "Formula", "UpdatedBy"}}, rows...) {
		row := sheet.AddRow()
		for _, v := range r {
			row.AddCell().SetString(v)
		}
	}
	require.NoError(t, f.Save(filepath.Join(dir, name)))
}

// setup writes a config file naming the "calc" dataset and a snapshot
// directory holding two comparable snapshots, the newer one carrying a
// duplicated key.
func setup(t *testing.T) string {
	t.Helper()

	cfgFile := filepath.Join(t.TempDir(), "snaplog.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(testConfig), 0o600))
	t.Setenv("SNAPLOG_CFG_FILE", cfgFile)
	_, err := config.Load()
	require.NoError(t, err)
	t.Cleanup(func() { config.Config = config.Type{} })

	dir := t.TempDir()
	writeSnapshot(t, dir, "calc_20250102084000.xlsx",
		[]string{"A", "c1", "x+1", "ann"},
		[]string{"A", "c2", "y", "ann"},
		[]string{"C", "c5", "w", "ann"},
	)
	writeSnapshot(t, dir, "calc_20250103084000.xlsx",
		[]string{"A", "c1", "x+2", "bob"},
		[]string{"B", "c3", "z", "bob"},
		[]string{"C", "c5", "w", "bob"},
		[]string{"C", "c5", "w2", "bob"},
	)
	return dir
}

// run parses args against the command build returns and runs fn in place of
// its action. args[0] is the command name.
func run(t *testing.T, m meta.Meta, build func(meta.Meta) *cli.Command, args []string, fn func(context.Context, *cli.Command) error) error {
	t.Helper()
	c := build(m)
	c.Action = fn
	return c.Run(context.Background(), args)
}

func outcome(t *testing.T, dir string) *changelog.Outcome {
	t.Helper()
	ds, err := config.GetDataset("calc")
	require.NoError(t, err)
	out, err := changelog.Run(context.Background(), ds, changelog.Options{Location: dir, DryRun: true})
	require.NoError(t, err)
	return out
}

func TestEmitOutcomes_Text(t *testing.T) {
	dir := setup(t)
	out := outcome(t, dir)

	var buf bytes.Buffer
	err := run(t, meta.Meta{}, diffCommandBuilder, []string{"diff", "--titles", "--explain"}, func(_ context.Context, cmd *cli.Command) error {
		return emitOutcomes(cmd, &buf, false, out)
	})
	require.NoError(t, err)

	text := buf.String()
	assert.Contains(t, text, "Old:      calc_20250102084000.xlsx")
	assert.Contains(t, text, "New:      calc_20250103084000.xlsx")
	assert.Contains(t, text, "Added: 1  Removed: 1  Modified: 1")
	assert.Contains(t, text, "none (dry run)")
	assert.Contains(t, text, "changed_field")
	assert.Contains(t, text, "x+2")
	assert.Contains(t, text, "new calc_20250103084000.xlsx has 2 rows for (C, c5)")
}

func TestEmitOutcomes_JSON(t *testing.T) {
	dir := setup(t)
	out := outcome(t, dir)

	var buf bytes.Buffer
	err := run(t, meta.Meta{}, diffCommandBuilder, []string{"diff", "-o", "json", "--filter", "Base=A"}, func(_ context.Context, cmd *cli.Command) error {
		return emitOutcomes(cmd, &buf, false, out)
	})
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "calc", doc["dataset"])
	assert.Equal(t, map[string]interface{}{"added": 1.0, "removed": 1.0, "modified": 1.0}, doc["counts"])
	assert.Len(t, doc["modified"], 1)
	assert.Empty(t, doc["added"], "filtered out")
	assert.Len(t, doc["removed"], 1)
	assert.Len(t, doc["ambiguous"], 1)
	assert.NotContains(t, doc, "report")
}

func TestEmitOutcomes_YAMLList(t *testing.T) {
	dir := setup(t)
	out := outcome(t, dir)

	var buf bytes.Buffer
	err := run(t, meta.Meta{}, diffCommandBuilder, []string{"diff", "-o", "yaml"}, func(_ context.Context, cmd *cli.Command) error {
		return emitOutcomes(cmd, &buf, true, out)
	})
	require.NoError(t, err)

	var docs []map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "calc_20250102084000.xlsx", docs[0]["old"].(map[interface{}]interface{})["name"])
}

func TestDiffCommand(t *testing.T) {
	dir := setup(t)
	outDir := filepath.Join(t.TempDir(), "log")

	app, err := InitApp(context.Background(), []string{"snaplog", "diff", dir + "::calc"})
	require.NoError(t, err)

	err = app.Run(context.Background(), []string{"snaplog", "diff", dir + "::calc", "-o", "json", "--out-dir", outDir})
	require.NoError(t, err)

	written, err := filepath.Glob(filepath.Join(outDir, "changelog_*.xlsx"))
	require.NoError(t, err)
	assert.Len(t, written, 1)
}

func TestDiffCommand_Failures(t *testing.T) {
	dir := setup(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "pick with old",
			args:    []string{"--pick", "--old", "~1"},
			wantErr: "--pick cannot be combined",
		},
		{
			name:    "all with new",
			args:    []string{"--all", "--new", "~0"},
			wantErr: "--all cannot be combined",
		},
		{
			name:    "color with json",
			args:    []string{"--color", "-o", "json"},
			wantErr: "--color only applies",
		},
		{
			name:    "bad output",
			args:    []string{"-o", "xml"},
			wantErr: "must be one of",
		},
		{
			name:    "unknown dataset",
			args:    []string{"--dataset", "nope"},
			wantErr: "dataset not configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"snaplog", "diff", dir, "--dry-run"}, tt.args...)
			app, err := InitApp(context.Background(), args)
			require.NoError(t, err)

			err = app.Run(context.Background(), args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestInitApp_BadTarget(t *testing.T) {
	_, err := InitApp(context.Background(), []string{"snaplog", "diff", "/no/such/dir::calc"})
	assert.ErrorContains(t, err, "failed to parse target")
}

func TestInitApp_Target(t *testing.T) {
	dir := t.TempDir()
	app, err := InitApp(context.Background(), []string{"snaplog", "ls", dir + "::calc"})
	require.NoError(t, err)

	for _, c := range app.Commands {
		m := GetMeta(c)
		assert.Equal(t, dir, m.Location)
		assert.Equal(t, "calc", m.Dataset)
	}
}

func TestListCandidates(t *testing.T) {
	day := func(d, h int) time.Time { return time.Date(2025, 1, d, h, 40, 0, 0, time.UTC) }
	cands := []snapshot.Candidate{
		{Path: "/s/a", Name: "a", Timestamp: day(1, 8), Size: 2048},
		{Path: "/s/c", Name: "c", Timestamp: day(3, 8)},
		{Path: "/s/b", Name: "b", Timestamp: day(2, 8)},
		{Path: "/s/b2", Name: "b2", Timestamp: day(2, 14)},
	}

	var buf bytes.Buffer
	err := run(t, meta.Meta{}, lsCommandBuilder, []string{"ls", "-o", "json"}, func(_ context.Context, cmd *cli.Command) error {
		return listCandidates(cmd, &buf, "/s", cands, snapshot.DefaultSchedule, day(3, 10))
	})
	require.NoError(t, err)

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 4)

	var order, pairs []interface{}
	for _, r := range rows {
		order = append(order, r["name"])
		pairs = append(pairs, r["pair"])
	}
	assert.Equal(t, []interface{}{"c", "b2", "b", "a"}, order)
	assert.Equal(t, []interface{}{"new", "", "old", ""}, pairs)
	assert.Equal(t, "2.0 kB", rows[3]["size"])
	assert.Equal(t, "2 days ago", rows[3]["age"])
}

func TestListCandidates_Single(t *testing.T) {
	cands := []snapshot.Candidate{{Path: "/s/a", Name: "a", Timestamp: time.Now()}}

	var buf bytes.Buffer
	err := run(t, meta.Meta{}, lsCommandBuilder, []string{"ls", "--titles"}, func(_ context.Context, cmd *cli.Command) error {
		return listCandidates(cmd, &buf, "/s", cands, snapshot.DefaultSchedule, time.Now())
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "/s: 1 snapshots")
}

func TestListDuplicates(t *testing.T) {
	snap := table.New("calc.xlsx", []string{"k", "v"},
		[]any{"a", "1"},
		[]any{"b", "2"},
		[]any{"a", "3"},
	)
	// Blank sheet rows between records were skipped on load.
	snap.Lines = []int{2, 5, 7}
	idx, err := index.Build(snap, []string{"k"})
	require.NoError(t, err)

	var buf bytes.Buffer
	err = run(t, meta.Meta{}, dupsCommandBuilder, []string{"dups", "--explain"}, func(_ context.Context, cmd *cli.Command) error {
		return listDuplicates(cmd, &buf, snap, idx)
	})
	require.NoError(t, err)

	text := buf.String()
	assert.Contains(t, text, "calc.xlsx: 3 rows, 2 keys, 1 ambiguous")
	assert.Contains(t, text, "2 7")
	assert.Contains(t, text, "row 2 vs row 7:")
}

func TestOutputValidator(t *testing.T) {
	for _, v := range []string{"text", "json", "yaml"} {
		assert.NoError(t, OutputValidator(v))
	}
	assert.Error(t, OutputValidator("raw"))
	assert.NoError(t, PaddingValidator(0))
	assert.Error(t, PaddingValidator(-1))
}
