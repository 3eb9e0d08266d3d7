// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package table holds the in-memory form of one sheet of a snapshot and the
// loaders that produce it. Rows are maps from column name to value, with nil
// standing for an empty cell. Every loaded row carries an entry for every
// column.
//
// Supported inputs are .xlsx workbooks, where the first row of the named sheet
// is the header, and .json documents holding an array of objects either at the
// top level or under the sheet name.
package table
