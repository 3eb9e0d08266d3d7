// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Resolve takes a collection of candidates plus a spec and returns the
// candidate the spec names. The candidates are sorted newest first before the
// spec is applied, so "~0" is always the most recent snapshot. A spec can be -
//
//	~N        - the N-th newest candidate.
//	digits    - the newest candidate whose timestamp starts with them.
//	file      - an existing local file, used as is.
//	prefix    - the newest candidate whose name starts with it.
func Resolve(cands []Candidate, spec string, loc *time.Location) (Candidate, error) {
	sorted := make([]Candidate, len(cands))
	copy(sorted, cands)
	SortNewestFirst(sorted)

	switch {
	case spec == "":
		return resolveRelative("~0", sorted)

	case strings.HasPrefix(spec, "~"):
		return resolveRelative(spec, sorted)

	case isNumeric(spec):
		return resolveTimestamp(spec, sorted)

	case isFilePath(spec):
		return resolveFile(spec, loc)

	default:
		return resolveName(spec, sorted)
	}
}

// resolveRelative handles ~N format specs.
func resolveRelative(spec string, sorted []Candidate) (Candidate, error) {
	index, err := strconv.Atoi(strings.TrimPrefix(spec, "~"))
	if err != nil {
		return Candidate{}, fmt.Errorf("invalid relative spec: %s", spec)
	}

	if index < 0 || index > len(sorted)-1 {
		return Candidate{}, fmt.Errorf("index %d out of range for %d snapshots", index, len(sorted))
	}

	return sorted[index], nil
}

// resolveTimestamp handles specs made only of digits, matched against the
// leading digits of each candidate's YYYYMMDDHHMMSS timestamp.
func resolveTimestamp(spec string, sorted []Candidate) (Candidate, error) {
	for _, c := range sorted {
		if strings.HasPrefix(c.Timestamp.Format(TimestampLayout), spec) {
			return c, nil
		}
	}

	return Candidate{}, fmt.Errorf("failed to find snapshot with timestamp %s", spec)
}

// resolveFile handles local file path specs. The file need not follow the
// naming convention; without a parseable timestamp its modification time is
// used.
func resolveFile(spec string, loc *time.Location) (Candidate, error) {
	fi, err := os.Stat(spec)
	if err != nil {
		return Candidate{}, fmt.Errorf("failed to stat %s: %w", spec, err)
	}

	ts, ok := ParseTimestamp(spec, loc)
	if !ok {
		ts = fi.ModTime()
	}

	return Candidate{
		Path:      spec,
		Name:      fi.Name(),
		Timestamp: ts,
		Size:      fi.Size(),
		Local:     true,
	}, nil
}

// resolveName handles name prefix specs.
func resolveName(spec string, sorted []Candidate) (Candidate, error) {
	for _, c := range sorted {
		if strings.HasPrefix(c.Name, spec) {
			return c, nil
		}
	}

	return Candidate{}, fmt.Errorf("failed to find snapshot with name prefix: %s", spec)
}

// isNumeric checks if a string is made only of ASCII digits.
func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// isFilePath checks if a string names an existing regular file.
func isFilePath(s string) bool {
	fi, err := os.Stat(s)
	return err == nil && fi.Mode().IsRegular()
}
