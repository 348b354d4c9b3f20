// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/fashintel/internal/metrics"
)

// catalogCacheType labels the catalog cache in the cache_* metrics.
const catalogCacheType = "catalog"

const defaultCleanupInterval = 5 * time.Minute

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// Cache holds decoded catalog reads (product pages, the category list) for
// a fixed TTL. Concurrent misses on one key share a single load.
type Cache struct {
	ttl time.Duration

	mu      sync.RWMutex
	entries map[string]entry

	loads singleflight.Group

	hits        atomic.Int64
	misses      atomic.Int64
	evictions   atomic.Int64
	lastCleanup atomic.Int64 // unix nanoseconds

	stop     chan struct{}
	stopOnce sync.Once
}

// Stats is a point-in-time view of the cache counters.
type Stats struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

// New returns a cache with the given TTL. Close stops its sweeper.
func New(ttl time.Duration) *Cache {
	return newCache(ttl, defaultCleanupInterval)
}

func newCache(ttl, sweepEvery time.Duration) *Cache {
	c := &Cache{
		ttl:     ttl,
		entries: make(map[string]entry),
		stop:    make(chan struct{}),
	}
	c.lastCleanup.Store(time.Now().UnixNano())
	go c.sweep(sweepEvery)
	return c
}

// Get returns an unexpired value. An expired entry is dropped and counted
// as both a miss and an eviction.
func (c *Cache) Get(key string) (interface{}, bool) {
	v, ok, expired := c.lookup(key)
	if expired {
		dropped := false
		c.mu.Lock()
		if e, still := c.entries[key]; still && time.Now().After(e.expiresAt) {
			delete(c.entries, key)
			dropped = true
		}
		c.mu.Unlock()
		if dropped {
			c.evict(1)
		}
	}
	metrics.RecordCacheLookup(catalogCacheType, ok)
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return v, true
}

func (c *Cache) lookup(key string) (v interface{}, ok, expired bool) {
	c.mu.RLock()
	e, found := c.entries[key]
	c.mu.RUnlock()
	switch {
	case !found:
		return nil, false, false
	case time.Now().After(e.expiresAt):
		return nil, false, true
	default:
		return e.value, true, false
	}
}

// GetOrLoad returns the cached value for key, or calls load once for all
// concurrent callers and caches its result. cached reports whether the
// value came from the cache. Errors are not cached.
func (c *Cache) GetOrLoad(key string, load func() (interface{}, error)) (v interface{}, cached bool, err error) {
	if v, ok := c.Get(key); ok {
		return v, true, nil
	}
	v, err, _ = c.loads.Do(key, func() (interface{}, error) {
		// A caller that just finished may have filled the key.
		if v, ok, _ := c.lookup(key); ok {
			return v, nil
		}
		v, err := load()
		if err != nil {
			return nil, err
		}
		c.Set(key, v)
		return v, nil
	})
	return v, false, err
}

// Set stores value for the default TTL.
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value for ttl.
func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}
	n := len(c.entries)
	c.mu.Unlock()
	metrics.CacheSize.WithLabelValues(catalogCacheType).Set(float64(n))
}

// Delete drops key.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	_, found := c.entries[key]
	delete(c.entries, key)
	n := len(c.entries)
	c.mu.Unlock()
	if found {
		c.evict(1)
	}
	metrics.CacheSize.WithLabelValues(catalogCacheType).Set(float64(n))
}

// Clear drops every entry. Ingestion calls it after the catalog changes.
func (c *Cache) Clear() {
	c.mu.Lock()
	n := len(c.entries)
	c.entries = make(map[string]entry)
	c.mu.Unlock()
	c.evict(n)
	metrics.CacheSize.WithLabelValues(catalogCacheType).Set(0)
}

// Close stops the sweeper. Safe to call more than once.
func (c *Cache) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// GetStats returns the current counters.
func (c *Cache) GetStats() Stats {
	c.mu.RLock()
	n := len(c.entries)
	c.mu.RUnlock()
	return Stats{
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Evictions:   c.evictions.Load(),
		TotalKeys:   int64(n),
		LastCleanup: time.Unix(0, c.lastCleanup.Load()),
	}
}

// HitRate is hits over lookups, as a percentage.
func (c *Cache) HitRate() float64 {
	hits, misses := c.hits.Load(), c.misses.Load()
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) * 100 / float64(hits+misses)
}

func (c *Cache) evict(n int) {
	if n == 0 {
		return
	}
	c.evictions.Add(int64(n))
	metrics.CacheEvictions.WithLabelValues(catalogCacheType).Add(float64(n))
}

func (c *Cache) sweep(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-c.stop:
			return
		case now := <-t.C:
			c.removeExpired(now)
		}
	}
}

func (c *Cache) removeExpired(now time.Time) {
	removed := 0
	c.mu.Lock()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
			removed++
		}
	}
	n := len(c.entries)
	c.mu.Unlock()

	c.evict(removed)
	c.lastCleanup.Store(now.UnixNano())
	metrics.CacheSize.WithLabelValues(catalogCacheType).Set(float64(n))
}

// GenerateKey hashes the JSON form of params under prefix, e.g.
// "products:3f2a...". Params that cannot be encoded fall back to %v.
func GenerateKey(prefix string, params interface{}) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%v", prefix, params)
	}
	sum := sha256.Sum256(data)
	return prefix + ":" + hex.EncodeToString(sum[:16])
}
