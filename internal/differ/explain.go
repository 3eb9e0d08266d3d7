// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"fmt"
	"strings"

	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/tfctl/snaplog/internal/table"
)

// ExplainRows renders how each of rows[1:] differs from rows[0]. Positions
// index snap.Rows; headings name rows by snap.Line.
func ExplainRows(snap *table.Snapshot, positions []int, coloring bool) (string, error) {
	if len(positions) < 2 {
		return "", nil
	}

	base := jsonRow(snap.Rows[positions[0]])
	config := formatter.AsciiFormatterConfig{
		ShowArrayIndex: false,
		Coloring:       coloring,
	}

	var sb strings.Builder
	for _, p := range positions[1:] {
		other := jsonRow(snap.Rows[p])
		fmt.Fprintf(&sb, "row %d vs row %d:\n", snap.Line(positions[0]), snap.Line(p))

		delta := gojsondiff.New().CompareObjects(base, other)
		if !delta.Modified() {
			sb.WriteString("  identical\n")
			continue
		}

		f := formatter.NewAsciiFormatter(base, config)
		s, err := f.Format(delta)
		if err != nil {
			return "", fmt.Errorf("failed to format row difference: %w", err)
		}
		sb.WriteString(s)
		if !strings.HasSuffix(s, "\n") {
			sb.WriteString("\n")
		}
	}

	return sb.String(), nil
}

// ExplainAmbiguity explains both sides of an ambiguous key.
func ExplainAmbiguity(oldSnap, newSnap *table.Snapshot, a Ambiguity, coloring bool) (string, error) {
	var sb strings.Builder

	sides := []struct {
		label string
		snap  *table.Snapshot
		pos   []int
	}{
		{"old", oldSnap, a.Old},
		{"new", newSnap, a.New},
	}
	for _, side := range sides {
		if len(side.pos) < 2 || side.snap == nil {
			continue
		}
		fmt.Fprintf(&sb, "%s %s has %d rows for %s\n", side.label, side.snap.Name, len(side.pos), a.Key)
		s, err := ExplainRows(side.snap, side.pos, coloring)
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
	}

	return sb.String(), nil
}

// jsonRow converts a row into the generic shape gojsondiff walks. Values are
// rendered as text so typed and untyped loaders compare alike.
func jsonRow(row table.Row) map[string]interface{} {
	out := make(map[string]interface{}, len(row))
	for k, v := range row {
		if table.IsNull(v) {
			out[k] = nil
			continue
		}
		out[k] = table.String(v)
	}
	return out
}
