package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/fountain/internal/dynamo"
	"github.com/san-kum/fountain/internal/initial"
	"github.com/san-kum/fountain/internal/physics"
)

// Ensemble runs the same chain from several initial layouts that differ
// only in seed. Runs are independent and execute concurrently.
type Ensemble struct {
	params     physics.Params
	integrator func() Integrator
	metrics    func() []Metric
	numRuns    int
	seedStart  uint64
}

// NewEnsemble takes constructors rather than instances because every run
// needs its own integrator and metrics.
func NewEnsemble(p physics.Params, integrator func() Integrator, metrics func() []Metric, numRuns int, seedStart uint64) *Ensemble {
	return &Ensemble{
		params:     p,
		integrator: integrator,
		metrics:    metrics,
		numRuns:    numRuns,
		seedStart:  seedStart,
	}
}

// Run returns one result per seed, in seed order.
func (e *Ensemble) Run(ctx context.Context, opts initial.Options, cfg Config) ([]*Result, error) {
	if e.numRuns < 1 {
		return nil, dynamo.Bounds("runs", float64(e.numRuns), ">= 1")
	}

	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	dynamo.ParallelFor(e.numRuns, 1, func(start, end int) {
		for idx := start; idx < end; idx++ {
			o := opts
			o.Seed = e.seedStart + uint64(idx)

			var integ Integrator
			if e.integrator != nil {
				integ = e.integrator()
			}
			s := New(e.params, integ)
			if e.metrics != nil {
				for _, m := range e.metrics() {
					s.AddMetric(m)
				}
			}

			results[idx], errs[idx] = s.Run(ctx, initial.Layout(e.params, o), cfg)
		}
	})

	for i, err := range errs {
		if err != nil {
			return results, fmt.Errorf("seed %d: %w", e.seedStart+uint64(i), err)
		}
	}

	return results, nil
}
