// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package snapshot parses timestamps out of snapshot names and selects the
// pair of snapshots a change log is computed from: the newest one and the one
// closest to the previous day's scheduled export.
package snapshot
