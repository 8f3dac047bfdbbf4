package pool

import "github.com/yardwatch/engine/pkg/logger"

// Option applies a configuration option to the Pool.
type Option func(*Pool)

// WithWorkers sets the maximum number of jobs in flight.
func WithWorkers(workers int) Option {
	return func(p *Pool) {
		if workers > 0 {
			p.workers = workers
		}
	}
}

// WithName sets the pool name used for logging.
func WithName(name string) Option {
	return func(p *Pool) {
		if name != "" {
			p.name = name
		}
	}
}

// WithLogger sets a custom logger for the pool.
func WithLogger(l logger.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}
