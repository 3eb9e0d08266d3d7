// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/snaplog/internal/table"
)

var keyCols = []string{"base", "group", "code"}

func snap(records ...[]any) *table.Snapshot {
	return table.New("calc_20250102084000.xlsx", []string{"base", "group", "code", "value"}, records...)
}

func TestBuild(t *testing.T) {
	s := snap(
		[]any{"A", "g1", "c1", "10"},
		[]any{"A", "g1", "c2", "20"},
		[]any{"B", "g2", "c1", "30"},
	)

	idx, err := Build(s, keyCols)
	require.NoError(t, err)

	assert.Equal(t, 3, idx.Len())
	assert.Equal(t, []Key{{"A", "g1", "c1"}, {"A", "g1", "c2"}, {"B", "g2", "c1"}}, idx.Keys())
	assert.True(t, idx.Has(Key{"B", "g2", "c1"}))
	assert.False(t, idx.Has(Key{"B", "g2"}))
	assert.Equal(t, []int{1}, idx.Positions(Key{"A", "g1", "c2"}))
	assert.Equal(t, "20", idx.Rows(Key{"A", "g1", "c2"})[0]["value"])
	assert.Empty(t, idx.Ambiguous())
	assert.True(t, idx.IsKeyColumn("code"))
	assert.False(t, idx.IsKeyColumn("value"))
}

func TestBuild_NullKeysUseSentinel(t *testing.T) {
	s := snap(
		[]any{"A", nil, "c1", "10"},
		[]any{nil, nil, nil, "20"},
	)

	tests := []struct {
		name string
		opts []Option
		want []Key
	}{
		{
			name: "default",
			want: []Key{{"A", "unknown", "c1"}, {"unknown", "unknown", "unknown"}},
		},
		{
			name: "configured",
			opts: []Option{WithSentinel("未知")},
			want: []Key{{"A", "未知", "c1"}, {"未知", "未知", "未知"}},
		},
		{
			name: "empty keeps default",
			opts: []Option{WithSentinel("")},
			want: []Key{{"A", "unknown", "c1"}, {"unknown", "unknown", "unknown"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, err := Build(s, keyCols, tt.opts...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, idx.Keys())
		})
	}
}

func TestBuild_NonStringKeys(t *testing.T) {
	s := snap([]any{"A", 1.0, 7, "x"})
	idx, err := Build(s, keyCols)
	require.NoError(t, err)
	assert.Equal(t, []Key{{"A", "1", "7"}}, idx.Keys())
}

func TestBuild_Duplicates(t *testing.T) {
	s := snap(
		[]any{"A", "g1", "c1", "10"},
		[]any{"B", nil, "c1", "20"},
		[]any{"A", "g1", "c1", "11"},
		[]any{"B", nil, "c1", "21"},
		[]any{"A", "g1", "c1", "12"},
	)

	idx, err := Build(s, keyCols)
	require.NoError(t, err)

	// No row is lost.
	total := 0
	for _, k := range idx.Keys() {
		total += len(idx.Positions(k))
	}
	assert.Equal(t, s.Len(), total)

	assert.Equal(t, []Ambiguity{
		{Key: Key{"A", "g1", "c1"}, Rows: []int{0, 2, 4}},
		{Key: Key{"B", "unknown", "c1"}, Rows: []int{1, 3}},
	}, idx.Ambiguous())
}

func TestBuild_MissingKeyColumn(t *testing.T) {
	s := snap([]any{"A", "g1", "c1", "10"})

	_, err := Build(s, []string{"base", "site"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingKeyColumn)
	assert.Contains(t, err.Error(), `"site"`)
	assert.Contains(t, err.Error(), s.Name)

	_, err = Build(s, nil)
	assert.ErrorIs(t, err, ErrMissingKeyColumn)
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "(A, g1, c1)", Key{"A", "g1", "c1"}.String())
}
