// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package cache

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/fashintel/internal/metrics"
	"github.com/tomtom215/fashintel/internal/recommend"
)

const memorySweepInterval = time.Minute

// Memory is the in-process result cache backend. Expired entries are
// dropped on access, at the LRU tail when full, and by a periodic sweep.
type Memory struct {
	lru      *lru[[]byte]
	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemory creates a memory backend bounded to maxEntries. Close stops its
// sweeper.
func NewMemory(maxEntries int) *Memory {
	return newMemory(maxEntries, memorySweepInterval)
}

// newMemory runs no sweeper when sweepEvery <= 0.
func newMemory(maxEntries int, sweepEvery time.Duration) *Memory {
	m := &Memory{lru: newLRU[[]byte](maxEntries), stop: make(chan struct{})}
	if sweepEvery > 0 {
		go m.sweepEvery(sweepEvery)
	}
	return m
}

func (m *Memory) sweepEvery(d time.Duration) {
	ticker := time.NewTicker(d)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// Sweep drops every expired entry and returns how many went.
func (m *Memory) Sweep() int {
	n := m.lru.removeExpired()
	if n > 0 {
		metrics.CacheEvictions.WithLabelValues(BackendMemory).Add(float64(n))
	}
	metrics.CacheSize.WithLabelValues(BackendMemory).Set(float64(m.lru.len()))
	return n
}

// Stats reports the LRU's counters for the recommendation status endpoint.
func (m *Memory) Stats() recommend.ResultCacheStats {
	hits, misses, evictions, size := m.lru.stats()
	return recommend.ResultCacheStats{
		Backend:   BackendMemory,
		Entries:   size,
		Hits:      hits,
		Misses:    misses,
		Evictions: evictions,
	}
}

// Name returns "memory".
func (m *Memory) Name() string { return BackendMemory }

// Get returns the cached bytes for key.
func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	v, ok := m.lru.get(key)
	metrics.RecordCacheLookup(BackendMemory, ok)
	return v, ok, nil
}

// Set stores value for ttl.
func (m *Memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if evicted := m.lru.add(key, value, ttl); evicted > 0 {
		metrics.CacheEvictions.WithLabelValues(BackendMemory).Add(float64(evicted))
	}
	metrics.CacheSize.WithLabelValues(BackendMemory).Set(float64(m.lru.len()))
	return nil
}

// Clear drops every entry.
func (m *Memory) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n := m.lru.clear(); n > 0 {
		metrics.CacheEvictions.WithLabelValues(BackendMemory).Add(float64(n))
	}
	metrics.CacheSize.WithLabelValues(BackendMemory).Set(0)
	return nil
}

// Close stops the sweeper. Entries stay readable.
func (m *Memory) Close() error {
	m.stopOnce.Do(func() { close(m.stop) })
	return nil
}

// Len returns the number of stored entries.
func (m *Memory) Len() int { return m.lru.len() }
