// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package cacheutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withCacheDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SNAPLOG_CACHE_DIR", dir)
	t.Setenv("SNAPLOG_CACHE", "")
	return dir
}

// TestDir_WithSNAPLOG_CACHE_DIR verifies Dir() respects SNAPLOG_CACHE_DIR
// environment variable with highest priority.
func TestDir_WithSNAPLOG_CACHE_DIR(t *testing.T) {
	customDir := withCacheDir(t)

	result, ok := Dir()

	assert.True(t, ok)
	assert.Equal(t, customDir, result)
}

// TestDir_WithoutSNAPLOG_CACHE_DIR verifies Dir() falls back to
// os.UserCacheDir/snaplog when env var not set.
func TestDir_WithoutSNAPLOG_CACHE_DIR(t *testing.T) {
	t.Setenv("SNAPLOG_CACHE_DIR", "")

	result, ok := Dir()

	if ok {
		assert.True(t, filepath.IsAbs(result))
		assert.Equal(t, "snaplog", filepath.Base(result))
	}
}

func TestEnabled(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"", true},
		{"1", true},
		{"true", true},
		{"yes", true},
		{"0", false},
		{"false", false},
	}

	for _, tt := range tests {
		t.Run("value="+tt.value, func(t *testing.T) {
			t.Setenv("SNAPLOG_CACHE", tt.value)
			assert.Equal(t, tt.expected, Enabled())
		})
	}
}

func TestEntryPath(t *testing.T) {
	base := withCacheDir(t)
	sub := []string{"exports", "calc"}

	p, exists := EntryPath(sub, "calc/calc_20250102084000.xlsx")
	assert.False(t, exists)
	assert.Equal(t, filepath.Join(base, "exports", "calc"), filepath.Dir(p))
	assert.Equal(t, ".xlsx", filepath.Ext(p))

	written, err := Write(sub, "calc/calc_20250102084000.xlsx", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, p, written)

	p2, exists := EntryPath(sub, "calc/calc_20250102084000.xlsx")
	assert.True(t, exists)
	assert.Equal(t, p, p2)
}

func TestEntryPath_CachingDisabled(t *testing.T) {
	withCacheDir(t)
	t.Setenv("SNAPLOG_CACHE", "false")

	p, exists := EntryPath([]string{"b"}, "k.xlsx")
	assert.Empty(t, p)
	assert.False(t, exists)
}

func TestReadWrite(t *testing.T) {
	withCacheDir(t)
	sub := []string{"bucket", "prefix"}

	_, ok := Read(sub, "missing.xlsx")
	assert.False(t, ok)

	// Binary content including surrounding whitespace survives untouched.
	data := []byte("\n PK\x03\x04 binary \x00\n")
	_, err := Write(sub, "k.xlsx", data)
	require.NoError(t, err)

	entry, ok := Read(sub, "k.xlsx")
	require.True(t, ok)
	assert.Equal(t, data, entry.Data)
	assert.Equal(t, "k.xlsx", entry.Key)
	assert.Equal(t, encodeKey("k.xlsx"), entry.EncodedKey)

	info, err := os.Stat(entry.Path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// Overwrite replaces the content.
	_, err = Write(sub, "k.xlsx", []byte("v2"))
	require.NoError(t, err)
	entry, ok = Read(sub, "k.xlsx")
	require.True(t, ok)
	assert.Equal(t, []byte("v2"), entry.Data)
}

func TestWrite_CachingDisabled(t *testing.T) {
	base := withCacheDir(t)
	t.Setenv("SNAPLOG_CACHE", "0")

	p, err := Write([]string{"b"}, "k.xlsx", []byte("x"))
	require.NoError(t, err)
	assert.Empty(t, p)

	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, ok := Read([]string{"b"}, "k.xlsx")
	assert.False(t, ok)
}

func TestPurge(t *testing.T) {
	base := withCacheDir(t)

	oldFile := filepath.Join(base, "a", "old.xlsx")
	newFile := filepath.Join(base, "a", "b", "new.xlsx")
	require.NoError(t, os.MkdirAll(filepath.Dir(newFile), 0o755))
	require.NoError(t, os.WriteFile(oldFile, []byte("o"), 0o600))
	require.NoError(t, os.WriteFile(newFile, []byte("n"), 0o600))

	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(oldFile, past, past))

	// Zero hours disables cleaning.
	require.NoError(t, Purge(0))
	assert.FileExists(t, oldFile)

	require.NoError(t, Purge(24))
	assert.NoFileExists(t, oldFile)
	assert.FileExists(t, newFile)
}

func TestEncodeKey(t *testing.T) {
	a := encodeKey("calc/a.xlsx")
	assert.Equal(t, a, encodeKey("calc/a.xlsx"))
	assert.NotEqual(t, a, encodeKey("calc/b.xlsx"))
	assert.Len(t, a, 64+len(".xlsx"))
	assert.Regexp(t, `^[0-9a-f]{64}\.xlsx$`, a)

	assert.Regexp(t, `^[0-9a-f]{64}\.json$`, encodeKey("X.JSON"))
	assert.Regexp(t, `^[0-9a-f]{64}$`, encodeKey("noext"))
}
