// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"github.com/tfctl/snaplog/internal/config"
	"github.com/tfctl/snaplog/internal/differ"
)

// Sheet is one category of change records in tabular form.
type Sheet struct {
	Kind    differ.Kind
	Name    string
	Columns []string
	Rows    [][]any
	// Hint heads the Placeholder row written in place of records when Rows
	// is empty.
	Hint        string
	Placeholder string
}

// Sheets returns the Modified, Added and Removed sheets, in that order.
//
// Modified rows are the key columns, the change type, the field, its old and
// new values and then the metadata columns. Added and Removed rows are the
// key columns followed by every other column of the row.
func Sheets(res *differ.Result, labels config.Labels) []Sheet {
	modified := Sheet{
		Kind:        differ.Modified,
		Name:        labels.Modified,
		Columns:     concat(res.KeyColumns, []string{labels.ChangeType, labels.Field, labels.Old, labels.New}, res.MetaColumns),
		Hint:        labels.Hint,
		Placeholder: labels.NoModified,
	}
	for _, fc := range res.Modified {
		row := keyCells(fc.Key)
		row = append(row, labels.Changed, fc.Field, fc.Old, fc.New)
		for _, m := range res.MetaColumns {
			row = append(row, fc.Meta[m])
		}
		modified.Rows = append(modified.Rows, row)
	}

	added := rowSheet(differ.Added, labels.Added, res.KeyColumns, res.AddedColumns, res.Added)
	added.Hint, added.Placeholder = labels.Hint, labels.NoAdded
	removed := rowSheet(differ.Removed, labels.Removed, res.KeyColumns, res.RemovedColumns, res.Removed)
	removed.Hint, removed.Placeholder = labels.Hint, labels.NoRemoved

	return []Sheet{modified, added, removed}
}

func rowSheet(kind differ.Kind, name string, keyCols, cols []string, changes []differ.RowChange) Sheet {
	s := Sheet{
		Kind:    kind,
		Name:    name,
		Columns: concat(keyCols, cols),
	}
	for _, rc := range changes {
		row := keyCells(rc.Key)
		for _, c := range cols {
			row = append(row, rc.Row[c])
		}
		s.Rows = append(s.Rows, row)
	}
	return s
}

// Maps returns the rows as column keyed maps, the shape used for filtering,
// sorting and json or yaml output.
func (s Sheet) Maps() []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(s.Rows))
	for _, row := range s.Rows {
		m := make(map[string]interface{}, len(s.Columns))
		for i, c := range s.Columns {
			if i < len(row) {
				m[c] = row[i]
			}
		}
		out = append(out, m)
	}
	return out
}

func keyCells(k []string) []any {
	row := make([]any, 0, len(k)+8)
	for _, v := range k {
		row = append(row, v)
	}
	return row
}

func concat(parts ...[]string) []string {
	var out []string
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
