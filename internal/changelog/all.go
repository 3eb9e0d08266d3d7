// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package changelog

import (
	"context"

	"github.com/apex/log"
	"golang.org/x/sync/errgroup"

	"github.com/tfctl/snaplog/internal/config"
)

// DefaultParallelism bounds RunAll when no limit is given.
const DefaultParallelism = 4

// Report is the result of one dataset in a RunAll batch. Exactly one of
// Outcome and Err is set.
type Report struct {
	Dataset string
	Outcome *Outcome
	Err     error
}

// RunAll runs every dataset concurrently, at most limit at a time. A failing
// dataset does not stop the others; its error is carried on its Report.
// Reports come back in the order of datasets. Interactive picking is not
// available here and opts.Pick is ignored.
func RunAll(ctx context.Context, datasets []config.Dataset, opts Options, limit int) []Report {
	if limit <= 0 {
		limit = DefaultParallelism
	}
	opts.Pick = nil

	reports := make([]Report, len(datasets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, ds := range datasets {
		g.Go(func() error {
			out, err := Run(gctx, ds, opts)
			if err != nil {
				log.WithField("dataset", ds.Name).WithError(err).Error("comparison failed")
			}

			reports[i] = Report{Dataset: ds.Name, Outcome: out, Err: err}

			// Never fail the group so one dataset cannot cancel the rest.
			return nil
		})
	}
	_ = g.Wait()

	return reports
}

// Failed returns the reports that carry an error.
func Failed(reports []Report) []Report {
	var out []Report
	for _, r := range reports {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}
