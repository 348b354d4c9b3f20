// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package cache

import (
	"container/list"
	"sync"
	"time"
)

const defaultLRUCapacity = 10000

type lruItem[V any] struct {
	key       string
	value     V
	expiresAt time.Time
}

// lru is a capacity-bounded map with per-entry expiry. The front of order
// is the most recently used entry.
type lru[V any] struct {
	mu       sync.Mutex
	capacity int
	index    map[string]*list.Element
	order    *list.List

	hits, misses, evictions int64
}

// newLRU bounds the cache to capacity entries, defaultLRUCapacity when
// capacity <= 0.
func newLRU[V any](capacity int) *lru[V] {
	if capacity <= 0 {
		capacity = defaultLRUCapacity
	}
	return &lru[V]{
		capacity: capacity,
		index:    make(map[string]*list.Element, capacity),
		order:    list.New(),
	}
}

func (c *lru[V]) get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	el, ok := c.index[key]
	if !ok {
		c.misses++
		return zero, false
	}
	it := el.Value.(*lruItem[V])
	if time.Now().After(it.expiresAt) {
		c.drop(el)
		c.evictions++
		c.misses++
		return zero, false
	}
	c.order.MoveToFront(el)
	c.hits++
	return it.value, true
}

// add stores value for ttl and returns how many least recently used
// entries were pushed out.
func (c *lru[V]) add(key string, value V, ttl time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	exp := time.Now().Add(ttl)
	if el, ok := c.index[key]; ok {
		it := el.Value.(*lruItem[V])
		it.value, it.expiresAt = value, exp
		c.order.MoveToFront(el)
		return 0
	}

	c.index[key] = c.order.PushFront(&lruItem[V]{key: key, value: value, expiresAt: exp})
	evicted := 0
	if c.order.Len() > c.capacity {
		// Expired entries at the tail go first. Older ones further in are
		// left to removeExpired.
		evicted = c.pruneExpiredTail(time.Now())
	}
	for c.order.Len() > c.capacity {
		c.drop(c.order.Back())
		evicted++
	}
	c.evictions += int64(evicted)
	return evicted
}

// len counts expired entries that have not been touched since expiring.
func (c *lru[V]) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *lru[V]) clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.order.Len()
	c.index = make(map[string]*list.Element, c.capacity)
	c.order.Init()
	c.evictions += int64(n)
	return n
}

func (c *lru[V]) removeExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := c.pruneExpired(time.Now())
	c.evictions += int64(removed)
	return removed
}

func (c *lru[V]) stats() (hits, misses, evictions int64, size int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses, c.evictions, c.order.Len()
}

// pruneExpired, pruneExpiredTail and drop must be called with mu held.

func (c *lru[V]) pruneExpired(now time.Time) int {
	removed := 0
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if now.After(el.Value.(*lruItem[V]).expiresAt) {
			c.drop(el)
			removed++
		}
		el = prev
	}
	return removed
}

func (c *lru[V]) pruneExpiredTail(now time.Time) int {
	removed := 0
	for el := c.order.Back(); el != nil && now.After(el.Value.(*lruItem[V]).expiresAt); el = c.order.Back() {
		c.drop(el)
		removed++
	}
	return removed
}

func (c *lru[V]) drop(el *list.Element) {
	c.order.Remove(el)
	delete(c.index, el.Value.(*lruItem[V]).key)
}
