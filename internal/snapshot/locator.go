// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrInsufficientSnapshots means fewer than two snapshots with a parseable
// timestamp were found, so there is nothing to compare.
var ErrInsufficientSnapshots = errors.New("insufficient snapshots")

// Candidate is one snapshot that may take part in a comparison. Path is the
// source specific identifier (a filesystem path or an object key) and Name is
// its base name. Local marks a file named directly by the user, which is read
// in place instead of through the source.
type Candidate struct {
	Path      string
	Name      string
	Timestamp time.Time
	Size      int64
	Local     bool
}

// Schedule is the time of day the export normally runs.
type Schedule struct {
	Hour   int
	Minute int
}

// DefaultSchedule is the daily export time used when none is configured.
var DefaultSchedule = Schedule{Hour: 8, Minute: 40}

// ParseSchedule parses "HH:MM". An empty string yields DefaultSchedule.
func ParseSchedule(s string) (Schedule, error) {
	if s == "" {
		return DefaultSchedule, nil
	}

	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return Schedule{}, fmt.Errorf("invalid schedule %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return Schedule{}, fmt.Errorf("invalid schedule hour %q", hh)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return Schedule{}, fmt.Errorf("invalid schedule minute %q", mm)
	}

	return Schedule{Hour: h, Minute: m}, nil
}

func (s Schedule) String() string {
	return fmt.Sprintf("%02d:%02d", s.Hour, s.Minute)
}

// Target returns the scheduled export time on the day before t, in t's
// location.
func (s Schedule) Target(t time.Time) time.Time {
	y := t.AddDate(0, 0, -1)
	return time.Date(y.Year(), y.Month(), y.Day(), s.Hour, s.Minute, 0, 0, t.Location())
}

// Selection is the outcome of Locate.
type Selection struct {
	New      Candidate
	Old      Candidate
	Target   time.Time
	Distance time.Duration
}

// SortNewestFirst orders candidates by timestamp, newest first. Candidates
// with equal timestamps keep their relative order.
func SortNewestFirst(cands []Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].Timestamp.After(cands[j].Timestamp)
	})
}

// Locate picks the pair of snapshots to compare. New is always the most
// recent candidate. Old is the remaining candidate closest to the scheduled
// export time of the day before New, whichever side of it it falls on. On a
// tie the candidate met first in newest-first order wins.
//
// The input slice is not modified.
func Locate(cands []Candidate, sched Schedule) (Selection, error) {
	if len(cands) < 2 {
		return Selection{}, fmt.Errorf("%w: found %d, need at least 2", ErrInsufficientSnapshots, len(cands))
	}

	sorted := make([]Candidate, len(cands))
	copy(sorted, cands)
	SortNewestFirst(sorted)

	return LocateBaseline(sorted[0], sorted[1:], sched)
}

// LocateBaseline picks Old for a given New. Candidates that are New itself or
// newer than it are not considered.
func LocateBaseline(newest Candidate, cands []Candidate, sched Schedule) (Selection, error) {
	sorted := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if c.Path == newest.Path || c.Timestamp.After(newest.Timestamp) {
			continue
		}
		sorted = append(sorted, c)
	}
	SortNewestFirst(sorted)

	sel := Selection{New: newest}
	sel.Target = sched.Target(newest.Timestamp)

	found := false
	for _, c := range sorted {
		d := absDuration(c.Timestamp.Sub(sel.Target))
		if !found || d < sel.Distance {
			sel.Old = c
			sel.Distance = d
			found = true
		}
	}

	if !found {
		return Selection{}, fmt.Errorf("%w: no baseline older than %s", ErrInsufficientSnapshots, newest.Name)
	}

	return sel, nil
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
