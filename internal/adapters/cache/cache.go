// Package cache provides bounded, time-expiring key-value stores used to
// memoize profiles and season raw data.
//
// A Store is advisory: a miss only means the caller recomputes. Entries
// are never mutated in place; Set always installs a full replacement and
// concurrent writers to one key resolve last-write-wins. Eviction is
// whichever of capacity (least recently used first) or TTL triggers
// first.
package cache

import (
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/yardwatch/engine/pkg/metrics"
)

// Default store configuration.
const (
	defaultCapacity = 500
	defaultTTL      = time.Hour
)

// Store is a bounded TTL cache from string keys to values of type V.
type Store[V any] struct {
	name     string
	capacity int
	ttl      time.Duration

	lru *expirable.LRU[string, V]

	hits   atomic.Int64
	misses atomic.Int64
}

// Stats is a point-in-time snapshot of a store's counters.
type Stats struct {
	Name     string `json:"name"`
	Size     int    `json:"size"`
	Capacity int    `json:"capacity"`
	Hits     int64  `json:"hits"`
	Misses   int64  `json:"misses"`
}

// New creates a Store with the given options.
func New[V any](opts ...Option) *Store[V] {
	s := &Store[V]{
		name:     "cache",
		capacity: defaultCapacity,
		ttl:      defaultTTL,
	}

	cfg := settings{capacity: s.capacity, ttl: s.ttl, name: s.name}
	for _, opt := range opts {
		opt(&cfg)
	}
	s.name = cfg.name
	s.capacity = cfg.capacity
	s.ttl = cfg.ttl

	s.lru = expirable.NewLRU[string, V](s.capacity, func(string, V) {
		metrics.RecordCacheEviction(s.name)
	}, s.ttl)

	return s
}

// Get returns the live value for key. ok is false if the key was never
// set, expired, or was evicted for capacity.
func (s *Store[V]) Get(key string) (V, bool) {
	v, ok := s.lru.Get(key)
	if ok {
		s.hits.Add(1)
		metrics.RecordCacheHit(s.name)
	} else {
		s.misses.Add(1)
		metrics.RecordCacheMiss(s.name)
	}
	return v, ok
}

// Set stores value under key, evicting the least recently used entry if
// the store is at capacity.
func (s *Store[V]) Set(key string, value V) {
	s.lru.Add(key, value)
	metrics.UpdateCacheSize(s.name, s.lru.Len())
}

// Contains reports whether key holds a live entry, without touching
// recency or hit counters.
func (s *Store[V]) Contains(key string) bool {
	return s.lru.Contains(key)
}

// Remove drops key from the store if present.
func (s *Store[V]) Remove(key string) {
	s.lru.Remove(key)
	metrics.UpdateCacheSize(s.name, s.lru.Len())
}

// Len returns the number of live entries.
func (s *Store[V]) Len() int {
	return s.lru.Len()
}

// Stats returns a snapshot of the store's counters.
func (s *Store[V]) Stats() Stats {
	return Stats{
		Name:     s.name,
		Size:     s.lru.Len(),
		Capacity: s.capacity,
		Hits:     s.hits.Load(),
		Misses:   s.misses.Load(),
	}
}
