// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/tealeg/xlsx/v2"

	"github.com/tfctl/snaplog/internal/table"
)

// FileLayout is the timestamp layout embedded in report file names.
const FileLayout = "20060102_150405"

// Columns 1 through widthColumns (A:E) of every sheet are columnWidth wide.
const (
	columnWidth  = 15
	widthColumns = 5
)

// maxAttempts bounds the numbered names Write tries before giving up.
const maxAttempts = 100

// FileName returns "<prefix>_<YYYYMMDD_HHMMSS>.xlsx".
func FileName(prefix string, at time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", prefix, at.Format(FileLayout))
}

// Write creates dir if needed and writes the sheets to a new timestamped
// workbook in it. An existing workbook is never replaced: when the name is
// taken, "_2", "_3" and so on are appended before the extension. It returns
// the path written.
func Write(dir, prefix string, at time.Time, sheets []Sheet) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := build(sheets)
	if err != nil {
		return "", err
	}

	out, path, err := claim(dir, FileName(prefix, at))
	if err != nil {
		return "", err
	}

	if err := f.Write(out); err != nil {
		_ = out.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}

	log.Debugf("wrote %s", path)
	return path, nil
}

// claim exclusively creates the first free name derived from name in dir.
func claim(dir, name string) (*os.File, string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	for n := 1; n <= maxAttempts; n++ {
		candidate := name
		if n > 1 {
			candidate = fmt.Sprintf("%s_%d%s", stem, n, ext)
		}
		path := filepath.Join(dir, candidate)

		out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644) //nolint:mnd
		if err == nil {
			return out, path, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, "", fmt.Errorf("failed to create %s: %w", path, err)
		}
		log.Debugf("%s exists, trying the next name", path)
	}

	return nil, "", fmt.Errorf("failed to create report in %s: %s and %d numbered variants exist", dir, name, maxAttempts-1)
}

// WriteXLSX writes one worksheet per Sheet to path, replacing any file there.
func WriteXLSX(path string, sheets []Sheet) error {
	f, err := build(sheets)
	if err != nil {
		return err
	}
	if err := f.Save(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	log.Debugf("wrote %s", path)
	return nil
}

// build lays the sheets out in a workbook. An empty Sheet gets a single
// column headed by its hint label with the placeholder text below it.
func build(sheets []Sheet) (*xlsx.File, error) {
	f := xlsx.NewFile()

	for _, s := range sheets {
		ws, err := f.AddSheet(s.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to add sheet %q: %w", s.Name, err)
		}

		if len(s.Rows) == 0 {
			addRow(ws, []any{s.Hint})
			addRow(ws, []any{s.Placeholder})
		} else {
			header := make([]any, len(s.Columns))
			for i, c := range s.Columns {
				header[i] = c
			}
			addRow(ws, header)
			for _, r := range s.Rows {
				addRow(ws, r)
			}
		}

		ws.SetColWidth(1, widthColumns, columnWidth)
	}

	return f, nil
}

// addRow writes cells as text. Nulls become empty cells.
func addRow(ws *xlsx.Sheet, cells []any) {
	row := ws.AddRow()
	for _, v := range cells {
		cell := row.AddCell()
		if !table.IsNull(v) {
			cell.SetString(table.String(v))
		}
	}
}
