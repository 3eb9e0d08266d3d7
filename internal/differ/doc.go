// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package differ computes the change log between two keyed snapshots. Keys
// only in the new snapshot are Added, keys only in the old one are Removed,
// and keys in both produce one Modified record per field whose value differs.
//
// Compare is a pure function of its inputs. Columns present on only one side
// are left out of the comparison and reported as drift. Keys carried by more
// than one row are never compared field by field; they are reported as
// ambiguities and ExplainAmbiguity shows what the duplicate rows disagree on.
package differ
