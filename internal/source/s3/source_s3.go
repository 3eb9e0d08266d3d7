// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package s3

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/apex/log"
	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/tfctl/snaplog/internal/snapshot"
)

// Client is the part of the S3 API the source uses.
type Client interface {
	s3v2.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
}

// SourceS3 finds snapshots directly under a bucket prefix. Candidate paths are
// object keys; Fetch downloads them into the snaplog cache.
type SourceS3 struct {
	Bucket   string
	Prefix   string
	Pattern  string
	Region   string
	Profile  string
	Endpoint string
	Location *time.Location

	client Client
}

// Candidates implements source.Source.
func (src *SourceS3) Candidates(ctx context.Context) ([]snapshot.Candidate, error) {
	paginator := s3v2.NewListObjectsV2Paginator(src.client, &s3v2.ListObjectsV2Input{
		Bucket:    awsv2.String(src.Bucket),
		Prefix:    awsv2.String(src.Prefix),
		Delimiter: awsv2.String("/"),
	})

	var cands []snapshot.Candidate
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list s3://%s/%s: %w", src.Bucket, src.Prefix, err)
		}

		for _, obj := range page.Contents {
			if obj.Key == nil {
				continue
			}
			key := *obj.Key
			name := strings.TrimPrefix(key, src.Prefix)
			if name == "" || strings.Contains(name, "/") {
				continue
			}
			ok, err := path.Match(src.Pattern, name)
			if err != nil {
				return nil, fmt.Errorf("bad pattern %q: %w", src.Pattern, err)
			}
			if !ok {
				log.Debugf("Throwing away %s", key)
				continue
			}

			ts, ok := snapshot.ParseTimestamp(name, src.Location)
			if !ok {
				log.Debugf("skipping %s: no timestamp in name", key)
				continue
			}

			cands = append(cands, snapshot.Candidate{
				Path:      key,
				Name:      name,
				Timestamp: ts,
				Size:      awsv2.ToInt64(obj.Size),
			})
		}
	}

	log.Debugf("s3 candidates: bucket=%s prefix=%s count=%d", src.Bucket, src.Prefix, len(cands))
	return cands, nil
}

// Fetch implements source.Source. Snapshot names carry their timestamp, so an
// object is downloaded once and served from the cache afterwards.
func (src *SourceS3) Fetch(ctx context.Context, c snapshot.Candidate) (string, error) {
	if err := PurgeCache(); err != nil {
		log.WithError(err).Warn("failed to purge cache")
	}

	if entry, ok := CacheEntryPath(src, c.Path); ok {
		log.Debugf("cache hit: %s", c.Path)
		return entry, nil
	}

	obj, err := src.client.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(src.Bucket),
		Key:    awsv2.String(c.Path),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get S3 object %s: %w", c.Path, err)
	}
	defer obj.Body.Close()

	body, err := io.ReadAll(obj.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read S3 object body: %w", err)
	}

	p, err := CacheWriter(src, c.Path, body)
	if err != nil {
		log.WithError(err).Error("error writing to cache")
	}
	if p != "" {
		return p, nil
	}

	// Cache disabled or unwritable, keep the download in a temp dir under
	// its own name.
	dir, err := os.MkdirTemp("", "snaplog-")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	p = filepath.Join(dir, c.Name)
	if err := os.WriteFile(p, body, 0o600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", p, err)
	}
	return p, nil
}

func (src *SourceS3) String() string {
	return Scheme + src.Bucket + "/" + src.Prefix
}
