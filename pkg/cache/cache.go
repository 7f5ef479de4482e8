// Package cache provides a bounded, time-expiring key/value store used by the
// engine for per-environment package snapshots and registry search results.
//
// Eviction is by insertion order: once the store exceeds its size cap the
// oldest-inserted entry goes first, and reading an entry does not renew its
// eviction priority. This is deliberately not an LRU.
//
// The store performs no locking of its own. The owning engine serializes all
// access under its state lock; that contract is part of the engine's design
// and is covered by the engine tests.
package cache

import "time"

type entry[T any] struct {
	key       string
	payload   T
	createdAt time.Time
}

// Store is a TTL- and size-bounded map with insertion-order eviction.
type Store[T any] struct {
	ttl     time.Duration
	maxSize int

	entries map[string]*entry[T]
	order   []string // insertion order, oldest first

	now func() time.Time
}

// New creates a store with the given TTL and maximum entry count.
func New[T any](ttl time.Duration, maxSize int) *Store[T] {
	return &Store[T]{
		ttl:     ttl,
		maxSize: maxSize,
		entries: make(map[string]*entry[T]),
		now:     time.Now,
	}
}

// Get returns the payload for key. Expired entries are evicted on read and
// reported as missing.
func (s *Store[T]) Get(key string) (T, bool) {
	var zero T
	e, ok := s.entries[key]
	if !ok {
		return zero, false
	}
	if s.now().Sub(e.createdAt) > s.ttl {
		s.Remove(key)
		return zero, false
	}
	return e.payload, true
}

// Put inserts or overwrites the payload for key, then trims oldest-inserted
// entries until the size cap holds. Overwriting resets the entry's age and
// moves it to the back of the eviction order.
func (s *Store[T]) Put(key string, payload T) {
	if _, ok := s.entries[key]; ok {
		s.removeFromOrder(key)
	}
	s.entries[key] = &entry[T]{key: key, payload: payload, createdAt: s.now()}
	s.order = append(s.order, key)

	for len(s.entries) > s.maxSize {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.entries, oldest)
	}
}

// Remove deletes a single entry if present.
func (s *Store[T]) Remove(key string) {
	if _, ok := s.entries[key]; !ok {
		return
	}
	delete(s.entries, key)
	s.removeFromOrder(key)
}

// Clear drops all entries.
func (s *Store[T]) Clear() {
	s.entries = make(map[string]*entry[T])
	s.order = s.order[:0]
}

// Len returns the number of entries, including any not yet evicted on read.
func (s *Store[T]) Len() int {
	return len(s.entries)
}

// Keys returns the stored keys in insertion order.
func (s *Store[T]) Keys() []string {
	keys := make([]string, len(s.order))
	copy(keys, s.order)
	return keys
}

func (s *Store[T]) removeFromOrder(key string) {
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}
