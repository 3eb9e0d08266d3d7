// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"path"
	"strings"
	"time"
)

const (
	// TimestampLayout is the fixed-width timestamp embedded in snapshot names.
	TimestampLayout = "20060102150405"

	// extLen is the number of characters between the end of the timestamp and
	// the end of the name, i.e. a four letter extension plus its dot.
	extLen = 5
)

// ParseTimestamp extracts the YYYYMMDDHHMMSS timestamp that ends extLen
// characters before the end of name and parses it in loc. The bool is false
// when the name is too short or the substring is not a valid timestamp;
// callers skip such files rather than fail.
func ParseTimestamp(name string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}

	// Accept either a bare name or a path using / or \ separators.
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))

	end := len(name) - extLen
	start := end - len(TimestampLayout)
	if start < 0 {
		return time.Time{}, false
	}

	stamp := name[start:end]
	for _, c := range stamp {
		if c < '0' || c > '9' {
			return time.Time{}, false
		}
	}

	t, err := time.ParseInLocation(TimestampLayout, stamp, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
