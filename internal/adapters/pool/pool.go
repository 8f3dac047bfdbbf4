// Package pool provides a bounded-concurrency executor for batch fetch
// work. A batch is submitted as a slice of items; a small fixed set of
// workers drains them, and per-item failures are collected rather than
// aborting siblings.
package pool

import (
	"context"
	"sync"
	"time"

	"github.com/yardwatch/engine/pkg/logger"
	"github.com/yardwatch/engine/pkg/metrics"
)

// defaultWorkers is deliberately small: the external data source
// tolerates only a handful of concurrent pulls.
const defaultWorkers = 3

// Job produces a result for one unit of work.
type Job[T, R any] func(ctx context.Context, item T) (R, error)

// Result pairs one input item with its outcome. Err is set when the job
// for that item failed; the rest of the batch is unaffected.
type Result[T, R any] struct {
	Item  T
	Value R
	Err   error
}

// Pool runs batches with a fixed worker bound.
type Pool struct {
	workers int
	name    string
	logger  logger.Logger
}

// New creates a Pool with the given options.
func New(opts ...Option) *Pool {
	p := &Pool{
		workers: defaultWorkers,
		name:    "fetch-pool",
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = logger.Get().Named(p.name)
	}
	metrics.UpdatePoolWorkers(p.workers)

	return p
}

// Workers returns the configured concurrency bound.
func (p *Pool) Workers() int {
	return p.workers
}

// Map runs job over every item with at most p.Workers() jobs in flight.
// Results are returned in input order; callers that do not need
// positional correspondence can filter failed entries out. Map returns
// once every item has been attempted or ctx is done, in which case
// unstarted items carry ctx.Err().
func Map[T, R any](ctx context.Context, p *Pool, items []T, job Job[T, R]) []Result[T, R] {
	results := make([]Result[T, R], len(items))
	if len(items) == 0 {
		return results
	}

	indexes := make(chan int)
	var wg sync.WaitGroup

	workers := p.workers
	if workers > len(items) {
		workers = len(items)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				results[i].Item = items[i]
				start := time.Now()
				results[i].Value, results[i].Err = job(ctx, items[i])
				metrics.RecordPoolJob()
				metrics.RecordPoolJobLatency(float64(time.Since(start).Milliseconds()))
				if results[i].Err != nil {
					metrics.RecordPoolJobError()
					p.logger.Warn(ctx, "batch job failed", logger.Error(results[i].Err))
				}
			}
		}()
	}

	for i := range items {
		select {
		case indexes <- i:
		case <-ctx.Done():
			results[i] = Result[T, R]{Item: items[i], Err: ctx.Err()}
			// Mark the rest as cancelled without dispatching them.
			for j := i + 1; j < len(items); j++ {
				results[j] = Result[T, R]{Item: items[j], Err: ctx.Err()}
			}
			close(indexes)
			wg.Wait()
			return results
		}
	}
	close(indexes)
	wg.Wait()

	return results
}
