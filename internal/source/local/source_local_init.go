// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type SourceLocalOption = func(ctx context.Context, src *SourceLocal) error

// NewSourceLocal returns a SourceLocal reading the current directory unless
// an option says otherwise.
func NewSourceLocal(ctx context.Context, options ...SourceLocalOption) (*SourceLocal, error) {
	options = append([]SourceLocalOption{WithDefaults()}, options...)

	src := &SourceLocal{}

	for _, opt := range options {
		if err := opt(ctx, src); err != nil {
			return nil, err
		}
	}

	return src, nil
}

func WithDefaults() SourceLocalOption {
	return func(ctx context.Context, src *SourceLocal) error {
		cwd, _ := os.Getwd()
		src.Dir = cwd
		src.Pattern = "*.xlsx"
		src.Location = time.Local
		return nil
	}
}

// FromDir sets the directory to scan. Relative paths are taken from the
// working directory. The directory must exist.
func FromDir(dir string) SourceLocalOption {
	return func(ctx context.Context, src *SourceLocal) error {
		if dir == "" {
			return nil
		}

		// Is dir a relative or absolute path?
		if filepath.IsAbs(dir) {
			src.Dir = dir
		} else {
			cwd, _ := os.Getwd()
			src.Dir = filepath.Join(cwd, dir)
		}

		fi, err := os.Stat(src.Dir)
		if err != nil {
			return fmt.Errorf("snapshot directory: %w", err)
		}
		if !fi.IsDir() {
			return fmt.Errorf("snapshot directory %s is not a directory", src.Dir)
		}
		return nil
	}
}

func WithPattern(pattern string) SourceLocalOption {
	return func(ctx context.Context, src *SourceLocal) error {
		if pattern == "" {
			return nil
		}
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		src.Pattern = pattern
		return nil
	}
}

func WithLocation(loc *time.Location) SourceLocalOption {
	return func(ctx context.Context, src *SourceLocal) error {
		if loc != nil {
			src.Location = loc
		}
		return nil
	}
}
