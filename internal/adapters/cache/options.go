package cache

import "time"

// settings collects construction parameters so options stay independent
// of the store's value type.
type settings struct {
	name     string
	capacity int
	ttl      time.Duration
}

// Option applies a configuration option to a new Store.
type Option func(*settings)

// WithName sets the store name used in metrics and stats.
func WithName(name string) Option {
	return func(s *settings) {
		if name != "" {
			s.name = name
		}
	}
}

// WithCapacity bounds the number of entries. Least recently used
// entries are evicted once the bound is reached.
func WithCapacity(capacity int) Option {
	return func(s *settings) {
		if capacity > 0 {
			s.capacity = capacity
		}
	}
}

// WithTTL sets the time-to-live after which an entry is expired.
func WithTTL(ttl time.Duration) Option {
	return func(s *settings) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}
