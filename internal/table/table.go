// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package table

import (
	"fmt"
	"strconv"
)

// Row is one record keyed by column name. A nil value is an empty cell.
type Row map[string]any

// Snapshot is the loaded content of one sheet.
type Snapshot struct {
	Name    string
	Columns []string
	Rows    []Row
	// Lines holds, per row, the sheet row number it was read from, counting
	// the header as row 1. Nil when the source has no row numbers.
	Lines []int
}

// New builds a Snapshot from positional records. Records shorter than columns
// are padded with nil and longer ones are truncated.
func New(name string, columns []string, records ...[]any) *Snapshot {
	s := &Snapshot{
		Name:    name,
		Columns: append([]string(nil), columns...),
		Rows:    make([]Row, 0, len(records)),
	}

	for _, rec := range records {
		row := make(Row, len(columns))
		for i, col := range columns {
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = nil
			}
		}
		s.Rows = append(s.Rows, row)
	}

	return s
}

// HasColumn reports whether col is one of the snapshot's columns.
func (s *Snapshot) HasColumn(col string) bool {
	for _, c := range s.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// Line returns the number to show for the row at pos: its sheet row when
// known, else its 1-based record number.
func (s *Snapshot) Line(pos int) int {
	if pos < len(s.Lines) {
		return s.Lines[pos]
	}
	return pos + 1
}

// Len returns the number of rows.
func (s *Snapshot) Len() int {
	return len(s.Rows)
}

// String renders a cell value in its canonical text form. nil renders as the
// empty string; use IsNull to tell the two apart.
func String(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

// IsNull reports whether v is an absent value.
func IsNull(v any) bool {
	return v == nil
}
