// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package table

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/apex/log"
)

// ErrSnapshotLoad wraps every failure to produce a Snapshot from a file.
var ErrSnapshotLoad = errors.New("snapshot load failed")

// Load reads the named sheet of the file at path. The format is chosen by
// extension.
func Load(path string, sheet string) (*Snapshot, error) {
	var (
		snap *Snapshot
		err  error
	)

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".xlsx":
		snap, err = loadXLSX(path, sheet)
	case ".json":
		snap, err = loadJSON(path, sheet)
	default:
		err = fmt.Errorf("unsupported file type %q", ext)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSnapshotLoad, filepath.Base(path), err)
	}

	log.Debugf("loaded %s sheet=%s columns=%d rows=%d", snap.Name, sheet, len(snap.Columns), len(snap.Rows))
	return snap, nil
}
