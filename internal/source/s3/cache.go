// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package s3

import (
	"github.com/tfctl/snaplog/internal/cacheutil"
	"github.com/tfctl/snaplog/internal/config"
)

// The cache is organized first by bucket and then by prefix. The object key
// is hashed and used as the filename.
func cacheSubdirs(src *SourceS3) []string {
	return []string{src.Bucket, src.Prefix}
}

// CacheEntryPath returns the path to the cache entry for the given key, if it
// exists.
func CacheEntryPath(src *SourceS3, key string) (string, bool) {
	p, exists := cacheutil.EntryPath(cacheSubdirs(src), key)
	if !exists {
		return "", false
	}
	return p, true
}

// CacheWriter stores a downloaded object and returns its cache path, or ""
// when caching is disabled.
func CacheWriter(src *SourceS3, key string, data []byte) (string, error) {
	return cacheutil.Write(cacheSubdirs(src), key, data)
}

// PurgeCache drops entries older than cache.clean hours.
func PurgeCache() error {
	cleanHours, _ := config.GetInt("cache.clean")
	return cacheutil.Purge(cleanHours)
}
