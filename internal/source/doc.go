// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package source discovers snapshot files and makes them readable from the
// local filesystem. A dataset's source is either a directory or an
// s3://bucket/prefix URL; New picks the implementation.
package source
