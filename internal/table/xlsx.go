// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package table

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tealeg/xlsx/v2"
)

func loadXLSX(path string, sheetName string) (*Snapshot, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	sheet, ok := f.Sheet[sheetName]
	if !ok {
		return nil, fmt.Errorf("sheet %q not found", sheetName)
	}

	if len(sheet.Rows) == 0 {
		return nil, fmt.Errorf("sheet %q has no header row", sheetName)
	}

	columns, err := header(sheet.Rows[0])
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheetName, err)
	}

	snap := &Snapshot{
		Name:    filepath.Base(path),
		Columns: columns,
	}

	for i, xr := range sheet.Rows[1:] {
		if xr == nil {
			continue
		}

		row := make(Row, len(columns))
		blank := true
		for i, col := range columns {
			var v any
			if i < len(xr.Cells) && xr.Cells[i] != nil {
				if s := xr.Cells[i].String(); s != "" {
					v = s
					blank = false
				}
			}
			row[col] = v
		}

		// Fully empty rows are formatting leftovers, not records.
		if blank {
			continue
		}
		snap.Rows = append(snap.Rows, row)
		snap.Lines = append(snap.Lines, i+2) //nolint:mnd
	}

	return snap, nil
}

// header turns the first sheet row into column names. Trailing empty cells
// are dropped; empty or repeated names elsewhere are an error since rows are
// addressed by name.
func header(xr *xlsx.Row) ([]string, error) {
	if xr == nil {
		return nil, fmt.Errorf("missing header row")
	}

	names := make([]string, 0, len(xr.Cells))
	for _, c := range xr.Cells {
		s := ""
		if c != nil {
			s = strings.TrimSpace(c.String())
		}
		names = append(names, s)
	}
	for len(names) > 0 && names[len(names)-1] == "" {
		names = names[:len(names)-1]
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("empty header row")
	}

	seen := make(map[string]bool, len(names))
	for i, n := range names {
		if n == "" {
			return nil, fmt.Errorf("empty column name at position %d", i+1)
		}
		if seen[n] {
			return nil, fmt.Errorf("duplicate column name %q", n)
		}
		seen[n] = true
	}

	return names, nil
}
