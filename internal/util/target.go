// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"os"
	"path/filepath"
	"strings"
)

// s3Scheme marks an object store location. It is passed through untouched.
const s3Scheme = "s3://"

// ParseTarget parses a "location::dataset" positional argument. Both parts are
// optional, so "dir", "dir::calc" and "::calc" are all valid. A local location
// is made absolute and must be an existing directory. An s3:// location is
// returned as is.
func ParseTarget(target string) (string, string, error) {

	if target == "" {
		return "", "", os.ErrInvalid
	}

	var location, dataset string

	// First, split off the optional ::dataset suffix.
	parts := strings.Split(target, "::")
	if len(parts) > 1 {
		dataset = parts[1]
	}

	switch {
	case parts[0] == "":
		if dataset == "" {
			return "", "", os.ErrInvalid
		}
		return "", dataset, nil
	case strings.HasPrefix(parts[0], s3Scheme):
		return parts[0], dataset, nil
	case filepath.IsAbs(parts[0]):
		location = parts[0]
	default:
		cwd, err := os.Getwd()
		if err != nil {
			return "", "", err
		}
		location = filepath.Join(cwd, parts[0])
	}

	// If the location is not a directory, return an error.
	if r, err := os.Stat(location); err != nil {
		return "", "", err
	} else if !r.IsDir() {
		return "", "", os.ErrInvalid
	}

	return location, dataset, nil
}
