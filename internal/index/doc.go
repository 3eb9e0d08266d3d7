// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package index maps the rows of a table.Snapshot by a composite business
// key. Null key components are replaced with a sentinel so that no row is
// ever dropped, and keys carried by more than one row are recorded as
// ambiguities rather than silently collapsed.
package index
