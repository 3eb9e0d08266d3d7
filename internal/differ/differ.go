// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"github.com/apex/log"

	"github.com/tfctl/snaplog/internal/index"
	"github.com/tfctl/snaplog/internal/table"
)

// Kind classifies a change record.
type Kind int

const (
	Added Kind = iota
	Removed
	Modified
)

func (k Kind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Modified:
		return "modified"
	default:
		return "unknown"
	}
}

// RowChange is an Added or Removed record. Row holds every non-key field of
// the row on the side where it exists.
type RowChange struct {
	Key index.Key
	Row table.Row
}

// FieldChange is a Modified record for one field of one key. Meta holds the
// configured metadata columns of the new row, nil where the column is absent.
type FieldChange struct {
	Key   index.Key
	Field string
	Old   any
	New   any
	Meta  map[string]any
}

// Ambiguity is a key carried by more than one row on at least one side. Old
// and New hold the row positions on each side.
type Ambiguity struct {
	Key index.Key
	Old []int
	New []int
}

// Drift lists the non-key columns present on only one side.
type Drift struct {
	OnlyOld []string `json:"only_old,omitempty" yaml:"only_old,omitempty"`
	OnlyNew []string `json:"only_new,omitempty" yaml:"only_new,omitempty"`
}

// Empty reports whether both sides have the same non-key columns.
func (d Drift) Empty() bool {
	return len(d.OnlyOld) == 0 && len(d.OnlyNew) == 0
}

// Options tunes Compare.
type Options struct {
	// Meta columns are copied from the new row onto every Modified record.
	Meta []string
	// Ignore columns are never compared.
	Ignore []string
}

// Result is the classified change log of one comparison.
type Result struct {
	Old string
	New string

	KeyColumns []string
	// Fields are the columns compared for common keys, in new column order.
	Fields []string
	// AddedColumns and RemovedColumns are the non-key columns carried by
	// Added and Removed rows.
	AddedColumns   []string
	RemovedColumns []string
	MetaColumns    []string

	Added     []RowChange
	Removed   []RowChange
	Modified  []FieldChange
	Ambiguous []Ambiguity
	Drift     Drift
}

// Counts returns the number of Added, Removed and Modified records.
func (r *Result) Counts() (added, removed, modified int) {
	return len(r.Added), len(r.Removed), len(r.Modified)
}

// Empty reports whether no change was found.
func (r *Result) Empty() bool {
	return len(r.Added) == 0 && len(r.Removed) == 0 && len(r.Modified) == 0
}

// Compare diffs oldIdx against newIdx. Records follow the first-appearance order of
// keys in the index they come from.
func Compare(oldIdx, newIdx *index.KeyIndex, opts Options) *Result {
	isKey := func(col string) bool {
		return oldIdx.IsKeyColumn(col) || newIdx.IsKeyColumn(col)
	}
	ignored := make(map[string]bool, len(opts.Ignore))
	for _, c := range opts.Ignore {
		ignored[c] = true
	}

	res := &Result{
		Old:            oldIdx.Snapshot.Name,
		New:            newIdx.Snapshot.Name,
		KeyColumns:     append([]string(nil), newIdx.KeyColumns...),
		AddedColumns:   nonKey(newIdx.Snapshot.Columns, isKey),
		RemovedColumns: nonKey(oldIdx.Snapshot.Columns, isKey),
		MetaColumns:    append([]string(nil), opts.Meta...),
	}

	for _, col := range res.AddedColumns {
		switch {
		case ignored[col]:
		case oldIdx.Snapshot.HasColumn(col):
			res.Fields = append(res.Fields, col)
		default:
			res.Drift.OnlyNew = append(res.Drift.OnlyNew, col)
		}
	}
	for _, col := range res.RemovedColumns {
		if !ignored[col] && !newIdx.Snapshot.HasColumn(col) {
			res.Drift.OnlyOld = append(res.Drift.OnlyOld, col)
		}
	}
	if !res.Drift.Empty() {
		log.Debugf("schema drift %s -> %s: only old %v, only new %v",
			res.Old, res.New, res.Drift.OnlyOld, res.Drift.OnlyNew)
	}

	for _, k := range newIdx.Keys() {
		newRows := newIdx.Rows(k)

		if !oldIdx.Has(k) {
			for _, row := range newRows {
				res.Added = append(res.Added, RowChange{Key: k, Row: project(row, res.AddedColumns)})
			}
			if len(newRows) > 1 {
				res.Ambiguous = append(res.Ambiguous, Ambiguity{Key: k, New: newIdx.Positions(k)})
			}
			continue
		}

		oldRows := oldIdx.Rows(k)
		if len(oldRows) > 1 || len(newRows) > 1 {
			res.Ambiguous = append(res.Ambiguous, Ambiguity{Key: k, Old: oldIdx.Positions(k), New: newIdx.Positions(k)})
			continue
		}

		res.Modified = append(res.Modified, compareRows(k, oldRows[0], newRows[0], res.Fields, opts.Meta)...)
	}

	for _, k := range oldIdx.Keys() {
		if newIdx.Has(k) {
			continue
		}
		oldRows := oldIdx.Rows(k)
		for _, row := range oldRows {
			res.Removed = append(res.Removed, RowChange{Key: k, Row: project(row, res.RemovedColumns)})
		}
		if len(oldRows) > 1 {
			res.Ambiguous = append(res.Ambiguous, Ambiguity{Key: k, Old: oldIdx.Positions(k)})
		}
	}

	for _, a := range res.Ambiguous {
		log.Warnf("ambiguous key %s: %d old rows, %d new rows", a.Key, len(a.Old), len(a.New))
	}

	return res
}

func compareRows(k index.Key, oldRow, newRow table.Row, fields, meta []string) []FieldChange {
	var out []FieldChange
	for _, f := range fields {
		ov, nv := oldRow[f], newRow[f]
		if Equal(ov, nv) {
			continue
		}

		fc := FieldChange{Key: k, Field: f, Old: ov, New: nv}
		if len(meta) > 0 {
			fc.Meta = make(map[string]any, len(meta))
			for _, m := range meta {
				fc.Meta[m] = newRow[m]
			}
		}
		out = append(out, fc)
	}
	return out
}

// Equal reports whether two cell values are the same. Two nulls are equal, a
// null never equals a value, and anything else compares by text rendering.
func Equal(a, b any) bool {
	an, bn := table.IsNull(a), table.IsNull(b)
	if an || bn {
		return an && bn
	}
	return table.String(a) == table.String(b)
}

func nonKey(cols []string, isKey func(string) bool) []string {
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		if !isKey(c) {
			out = append(out, c)
		}
	}
	return out
}

func project(row table.Row, cols []string) table.Row {
	out := make(table.Row, len(cols))
	for _, c := range cols {
		out[c] = row[c]
	}
	return out
}
