// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package local

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("x"), 0o600))
	}
}

func TestCandidates(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir,
		"【合并】计算逻辑_20251201180516.xlsx",
		"【合并】计算逻辑_20251202084000.xlsx",
		"【合并】计算逻辑_final.xlsx",
		"~$【合并】计算逻辑_20251202084000.xlsx",
		"other_20251202084000.xlsx",
		"【合并】计算逻辑_20251203084000.csv",
	)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "【合并】计算逻辑_20251204084000.xlsx"), 0o755))

	src, err := NewSourceLocal(context.Background(),
		FromDir(dir),
		WithPattern("【合并】计算逻辑_*.xlsx"),
		WithLocation(time.UTC),
	)
	require.NoError(t, err)

	cands, err := src.Candidates(context.Background())
	require.NoError(t, err)

	var names []string
	for _, c := range cands {
		names = append(names, c.Name)
		assert.Equal(t, filepath.Join(dir, c.Name), c.Path)
		assert.Equal(t, int64(1), c.Size)
	}
	sort.Strings(names)
	assert.Equal(t, []string{
		"【合并】计算逻辑_20251201180516.xlsx",
		"【合并】计算逻辑_20251202084000.xlsx",
	}, names)

	assert.Equal(t, dir, src.String())
}

func TestCandidates_DefaultPattern(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a_20250101084000.xlsx", "b_20250101084000.json")

	src, err := NewSourceLocal(context.Background(), FromDir(dir), WithPattern(""))
	require.NoError(t, err)
	assert.Equal(t, "*.xlsx", src.Pattern)
	assert.Equal(t, time.Local, src.Location)

	cands, err := src.Candidates(context.Background())
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, time.Local, cands[0].Timestamp.Location())
}

func TestCandidates_Cancelled(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a_20250101084000.xlsx")

	src, err := NewSourceLocal(context.Background(), FromDir(dir))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.Candidates(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCandidates_BadPattern(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "calc_20250101084000.xlsx")

	src := &SourceLocal{Dir: dir, Pattern: "calc_[", Location: time.UTC}
	_, err := src.Candidates(context.Background())
	assert.ErrorIs(t, err, filepath.ErrBadPattern)
}

func TestNewSourceLocal_Errors(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "file.xlsx")

	tests := []struct {
		name    string
		opts    []SourceLocalOption
		wantErr string
	}{
		{"missing dir", []SourceLocalOption{FromDir(filepath.Join(dir, "nope"))}, "snapshot directory"},
		{"file not dir", []SourceLocalOption{FromDir(filepath.Join(dir, "file.xlsx"))}, "not a directory"},
		{"bad pattern", []SourceLocalOption{WithPattern("[")}, "bad pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSourceLocal(context.Background(), tt.opts...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFromDir_Relative(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "exports"), 0o755))
	t.Chdir(dir)

	src, err := NewSourceLocal(context.Background(), FromDir("exports"))
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(src.Dir))
	assert.Equal(t, "exports", filepath.Base(src.Dir))
}

func TestFetch(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a_20250101084000.xlsx")

	src, err := NewSourceLocal(context.Background(), FromDir(dir))
	require.NoError(t, err)
	cands, err := src.Candidates(context.Background())
	require.NoError(t, err)
	require.Len(t, cands, 1)

	p, err := src.Fetch(context.Background(), cands[0])
	require.NoError(t, err)
	assert.Equal(t, cands[0].Path, p)

	require.NoError(t, os.Remove(p))
	_, err = src.Fetch(context.Background(), cands[0])
	assert.Error(t, err)
}
