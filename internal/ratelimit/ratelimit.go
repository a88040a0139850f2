// Package ratelimit implements sliding-window request counting per key.
//
// Each key (a user id or client address) keeps the timestamps of its requests
// inside the trailing window; entries age out as the window slides. State
// lives behind the Store interface so a single-instance deployment can use
// the in-process store while multi-instance deployments swap in a shared one.
//
// Known limitation: keys are never evicted, so key cardinality grows without
// bound over the life of the process.
package ratelimit

import (
	"sync"
	"time"
)

// Store records request timestamps per key and answers admission checks.
type Store interface {
	// Take prunes timestamps older than now minus window for key, then
	// records now and reports true if fewer than max requests remain in the
	// window. It reports false without recording when the window is full.
	Take(key string, now time.Time, window time.Duration, max int) bool
}

// Limiter is a sliding-window rate limiter.
type Limiter struct {
	store  Store
	window time.Duration
	max    int

	now func() time.Time // overridable in tests
}

// New creates a limiter allowing max requests per key within window,
// backed by the in-memory store.
func New(max int, window time.Duration) *Limiter {
	return &Limiter{
		store:  NewMemoryStore(),
		window: window,
		max:    max,
		now:    time.Now,
	}
}

// NewWithStore creates a limiter backed by a caller-provided store.
func NewWithStore(store Store, max int, window time.Duration) *Limiter {
	return &Limiter{
		store:  store,
		window: window,
		max:    max,
		now:    time.Now,
	}
}

// Allow reports whether a request for key is admitted, recording it if so.
func (l *Limiter) Allow(key string) bool {
	return l.store.Take(key, l.now(), l.window, l.max)
}

// MemoryStore is the process-local Store implementation.
type MemoryStore struct {
	mu   sync.Mutex
	hits map[string][]time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{hits: make(map[string][]time.Time)}
}

// Take implements Store.
func (s *MemoryStore) Take(key string, now time.Time, window time.Duration, max int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.Add(-window)
	kept := s.hits[key][:0]
	for _, t := range s.hits[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= max {
		s.hits[key] = kept
		return false
	}

	s.hits[key] = append(kept, now)
	return true
}
