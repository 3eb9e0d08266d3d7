// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package table

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// loadJSON reads an array of objects. The array is taken from the key named
// by sheet when the document is an object, or the document itself when it is
// an array. Columns are ordered by first appearance across all objects.
func loadJSON(path string, sheet string) (*Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("invalid json document")
	}

	doc := gjson.ParseBytes(raw)
	records := doc
	if doc.IsObject() {
		records = doc.Get(gjson.Escape(sheet))
		if !records.Exists() {
			return nil, fmt.Errorf("sheet %q not found", sheet)
		}
	}
	if !records.IsArray() {
		return nil, fmt.Errorf("sheet %q is not an array of objects", sheet)
	}

	snap := &Snapshot{Name: filepath.Base(path)}
	seen := map[string]bool{}

	var bad error
	records.ForEach(func(_, rec gjson.Result) bool {
		if !rec.IsObject() {
			bad = fmt.Errorf("record %d is not an object", len(snap.Rows)+1)
			return false
		}

		row := Row{}
		rec.ForEach(func(k, v gjson.Result) bool {
			col := k.String()
			if !seen[col] {
				seen[col] = true
				snap.Columns = append(snap.Columns, col)
			}
			row[col] = jsonValue(v)
			return true
		})
		snap.Rows = append(snap.Rows, row)
		return true
	})
	if bad != nil {
		return nil, bad
	}

	// Objects need not share keys, so fill the gaps once all columns are known.
	for _, row := range snap.Rows {
		for _, col := range snap.Columns {
			if _, ok := row[col]; !ok {
				row[col] = nil
			}
		}
	}

	return snap, nil
}

// jsonValue maps scalars to their Go value and keeps nested documents as raw
// JSON text so they compare by content.
func jsonValue(v gjson.Result) any {
	switch v.Type {
	case gjson.Null:
		return nil
	case gjson.String:
		if v.Str == "" {
			return nil
		}
		return v.Str
	case gjson.Number:
		return jsonNumber(v)
	case gjson.True, gjson.False:
		return v.Bool()
	default:
		return v.Raw
	}
}

// jsonNumber keeps integers exact: int64 when they fit, their literal text
// when they do not. Anything else is a float64.
func jsonNumber(v gjson.Result) any {
	if i, err := strconv.ParseInt(v.Raw, 10, 64); err == nil {
		return i
	}
	if !strings.ContainsAny(v.Raw, ".eE") {
		return v.Raw
	}
	return v.Float()
}
