// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package report shapes a differ.Result into the three record sheets of a
// change log (modified, added, removed) and writes them as an xlsx workbook.
// Sheet names, column headers and placeholder texts come from the dataset's
// configured labels.
package report
