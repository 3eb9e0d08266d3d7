// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   time.Time
		wantOK bool
	}{
		{
			name:   "plain name",
			input:  "calc_20251201180516.xlsx",
			want:   time.Date(2025, 12, 1, 18, 5, 16, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "unicode prefix",
			input:  "【合并】计算逻辑_20251201180516.xlsx",
			want:   time.Date(2025, 12, 1, 18, 5, 16, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "unix path",
			input:  "/srv/exports/calc_20250102084000.json",
			want:   time.Date(2025, 1, 2, 8, 40, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "windows path",
			input:  `D:\exports\calc_20250102084000.xlsx`,
			want:   time.Date(2025, 1, 2, 8, 40, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "bare timestamp",
			input:  "20250102084000.xlsx",
			want:   time.Date(2025, 1, 2, 8, 40, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:  "too short",
			input: "calc.xlsx",
		},
		{
			name:  "non digits",
			input: "calc_2025010208400X.xlsx",
		},
		{
			name:  "invalid month",
			input: "calc_20251301084000.xlsx",
		},
		{
			name:  "wrong extension width",
			input: "calc_20250102084000.xls",
		},
		{
			name:  "empty",
			input: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.input, time.UTC)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, tt.want.Equal(got), "got %v want %v", got, tt.want)
			}
		})
	}
}

func TestParseTimestamp_Location(t *testing.T) {
	loc := time.FixedZone("CST", 8*3600)
	got, ok := ParseTimestamp("calc_20250102084000.xlsx", loc)
	assert.True(t, ok)
	assert.Equal(t, loc, got.Location())
	assert.Equal(t, 8, got.Hour())

	// A nil location means local time.
	got, ok = ParseTimestamp("calc_20250102084000.xlsx", nil)
	assert.True(t, ok)
	assert.Equal(t, time.Local, got.Location())
}
