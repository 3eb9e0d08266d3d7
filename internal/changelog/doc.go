// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package changelog runs one comparison of a configured dataset from end to
// end: list the snapshots in the dataset's source, choose the current and
// baseline pair, fetch and load both, index them by the dataset's key
// columns, diff them and write the change-log workbook.
//
// Structural failures (too few snapshots, a snapshot that cannot be loaded, a
// missing key column) abort the run before any workbook is written. Duplicate
// keys and schema drift are reported on the Result and never fail a run.
package changelog
