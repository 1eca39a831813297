package sim

import (
	"context"
	"sync"
	"time"
)

// Builder creates an independent driver for one ensemble member.
type Builder func(seed int64) *Driver

// Ensemble runs independent engines side by side, one goroutine each. Each
// driver is still owned by a single goroutine.
type Ensemble struct {
	build     Builder
	numRuns   int
	seedStart int64
}

func NewEnsemble(build Builder, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, seedStart: seedStart}
}

// Run advances every member by ticks frames.
func (e *Ensemble) Run(ctx context.Context, ticks int) ([]Summary, error) {
	results := make([]Summary, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			seed := e.seedStart + int64(idx)
			d := e.build(seed)
			start := time.Now()
			for t := 0; t < ticks; t++ {
				if t%256 == 0 {
					if err := ctx.Err(); err != nil {
						errs[idx] = err
						return
					}
				}
				d.Advance(1)
			}
			results[idx] = d.Summary(seed, time.Since(start))
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
