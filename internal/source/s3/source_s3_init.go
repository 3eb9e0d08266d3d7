// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package s3

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/apex/log"

	awsx "github.com/tfctl/snaplog/internal/aws"
)

// Scheme prefixes every S3 source location.
const Scheme = "s3://"

type SourceS3Option = func(ctx context.Context, src *SourceS3) error

// NewSourceS3 returns a SourceS3. Unless WithClient supplied one, an S3
// client is built from the shell's AWS configuration.
func NewSourceS3(ctx context.Context, options ...SourceS3Option) (*SourceS3, error) {
	options = append([]SourceS3Option{WithDefaults()}, options...)

	src := &SourceS3{}

	for _, opt := range options {
		if err := opt(ctx, src); err != nil {
			return nil, err
		}
	}

	if src.Bucket == "" {
		return nil, fmt.Errorf("s3 source: no bucket")
	}

	if src.client == nil {
		var cfgOpts []awsx.Option
		if src.Region != "" {
			cfgOpts = append(cfgOpts, awsx.WithRegion(src.Region))
		}
		if src.Profile != "" {
			cfgOpts = append(cfgOpts, awsx.WithProfile(src.Profile))
		}
		cfg, err := awsx.LoadAWSConfig(ctx, cfgOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		src.client = awsx.NewS3(cfg, awsx.WithEndpoint(src.Endpoint))
	}

	return src, nil
}

func WithDefaults() SourceS3Option {
	return func(ctx context.Context, src *SourceS3) error {
		src.Pattern = "*.xlsx"
		src.Location = time.Local
		return nil
	}
}

// FromURL parses s3://bucket/prefix. The prefix is treated as a directory.
func FromURL(raw string) SourceS3Option {
	return func(ctx context.Context, src *SourceS3) error {
		if !strings.HasPrefix(raw, Scheme) {
			return fmt.Errorf("not an s3 url: %s", raw)
		}
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("bad s3 url %s: %w", raw, err)
		}
		if u.Host == "" {
			return fmt.Errorf("s3 url %s has no bucket", raw)
		}

		src.Bucket = u.Host
		src.Prefix = strings.TrimPrefix(u.Path, "/")
		if src.Prefix != "" && !strings.HasSuffix(src.Prefix, "/") {
			src.Prefix += "/"
		}
		log.Debugf("NewSourceS3 FromURL(): bucket=%s prefix=%s", src.Bucket, src.Prefix)
		return nil
	}
}

func WithPattern(pattern string) SourceS3Option {
	return func(ctx context.Context, src *SourceS3) error {
		if pattern == "" {
			return nil
		}
		if _, err := path.Match(pattern, ""); err != nil {
			return fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		src.Pattern = pattern
		return nil
	}
}

func WithLocation(loc *time.Location) SourceS3Option {
	return func(ctx context.Context, src *SourceS3) error {
		if loc != nil {
			src.Location = loc
		}
		return nil
	}
}

func WithRegion(region string) SourceS3Option {
	return func(ctx context.Context, src *SourceS3) error {
		src.Region = region
		return nil
	}
}

func WithProfile(profile string) SourceS3Option {
	return func(ctx context.Context, src *SourceS3) error {
		src.Profile = profile
		return nil
	}
}

func WithEndpoint(endpoint string) SourceS3Option {
	return func(ctx context.Context, src *SourceS3) error {
		src.Endpoint = endpoint
		return nil
	}
}

// WithClient injects the S3 client, skipping AWS config loading.
func WithClient(c Client) SourceS3Option {
	return func(ctx context.Context, src *SourceS3) error {
		src.client = c
		return nil
	}
}
