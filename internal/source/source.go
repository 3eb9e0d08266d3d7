// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"strings"

	"github.com/apex/log"

	"github.com/tfctl/snaplog/internal/config"
	"github.com/tfctl/snaplog/internal/snapshot"
	"github.com/tfctl/snaplog/internal/source/local"
	"github.com/tfctl/snaplog/internal/source/s3"
)

// Source abstracts where snapshots live.
type Source interface {
	// Candidates lists every snapshot whose name matches the dataset pattern
	// and carries a parseable timestamp. Order is unspecified.
	Candidates(ctx context.Context) ([]snapshot.Candidate, error)
	// Fetch returns a local path the candidate can be loaded from.
	Fetch(ctx context.Context, c snapshot.Candidate) (string, error)
	String() string
}

// New returns the Source for a dataset. location overrides the dataset's
// configured source when non-empty.
func New(ctx context.Context, ds config.Dataset, location string) (Source, error) {
	if location == "" {
		location = ds.Source
	}

	loc, err := ds.Location()
	if err != nil {
		return nil, err
	}
	log.Debugf("NewSource: dataset=%s location=%s", ds.Name, location)

	if strings.HasPrefix(location, s3.Scheme) {
		return s3.NewSourceS3(ctx,
			s3.FromURL(location),
			s3.WithPattern(ds.Pattern),
			s3.WithLocation(loc),
			s3.WithRegion(ds.Region),
			s3.WithEndpoint(ds.Endpoint),
		)
	}

	return local.NewSourceLocal(ctx,
		local.FromDir(location),
		local.WithPattern(ds.Pattern),
		local.WithLocation(loc),
	)
}
