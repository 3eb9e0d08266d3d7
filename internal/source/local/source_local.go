// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/apex/log"

	"github.com/tfctl/snaplog/internal/snapshot"
)

// SourceLocal finds snapshots in a single directory. Subdirectories are not
// searched.
type SourceLocal struct {
	Dir      string
	Pattern  string
	Location *time.Location
}

// Candidates implements source.Source. Files are matched on their base name;
// names without a parseable timestamp and Excel lock files are skipped.
func (src *SourceLocal) Candidates(ctx context.Context) ([]snapshot.Candidate, error) {
	entries, err := os.ReadDir(src.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", src.Dir, err)
	}

	var cands []snapshot.Candidate
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, "~$") {
			continue
		}
		ok, err := filepath.Match(src.Pattern, name)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", src.Pattern, err)
		}
		if !ok {
			continue
		}

		ts, ok := snapshot.ParseTimestamp(name, src.Location)
		if !ok {
			log.Debugf("skipping %s: no timestamp in name", name)
			continue
		}

		var size int64
		if info, err := e.Info(); err == nil {
			size = info.Size()
		}

		cands = append(cands, snapshot.Candidate{
			Path:      filepath.Join(src.Dir, name),
			Name:      name,
			Timestamp: ts,
			Size:      size,
		})
	}

	log.Debugf("local candidates: dir=%s pattern=%s count=%d", src.Dir, src.Pattern, len(cands))
	return cands, nil
}

// Fetch implements source.Source. Local candidates are read in place.
func (src *SourceLocal) Fetch(_ context.Context, c snapshot.Candidate) (string, error) {
	if _, err := os.Stat(c.Path); err != nil {
		return "", fmt.Errorf("snapshot %s: %w", c.Name, err)
	}
	return c.Path, nil
}

func (src *SourceLocal) String() string {
	return src.Dir
}
