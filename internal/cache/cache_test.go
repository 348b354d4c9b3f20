// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package cache

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestCacheBasicOperations(t *testing.T) {
	t.Parallel()

	c := New(time.Minute)
	defer c.Close()

	c.Set("categories", []string{"saree", "shirt"})
	value, exists := c.Get("categories")
	if !exists {
		t.Fatal("expected categories to exist")
	}
	if cats := value.([]string); len(cats) != 2 {
		t.Errorf("got %v", cats)
	}

	if _, exists := c.Get("missing"); exists {
		t.Error("expected missing key to be absent")
	}
}

func TestCacheExpiration(t *testing.T) {
	t.Parallel()

	c := New(50 * time.Millisecond)
	defer c.Close()

	c.Set("key", "value")
	if _, ok := c.Get("key"); !ok {
		t.Fatal("value should exist immediately")
	}

	time.Sleep(80 * time.Millisecond)

	if _, ok := c.Get("key"); ok {
		t.Error("value should have expired")
	}
	stats := c.GetStats()
	if stats.Evictions != 1 {
		t.Errorf("Evictions = %d, want 1", stats.Evictions)
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	t.Parallel()

	c := New(time.Minute)
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("a should be deleted")
	}

	c.Clear()
	if _, ok := c.Get("b"); ok {
		t.Error("b should be cleared")
	}
	stats := c.GetStats()
	if stats.TotalKeys != 0 {
		t.Errorf("TotalKeys = %d, want 0", stats.TotalKeys)
	}
	if stats.Evictions != 3 {
		t.Errorf("Evictions = %d, want 3 (1 delete + 2 clear)", stats.Evictions)
	}
}

func TestCacheHitRate(t *testing.T) {
	t.Parallel()

	c := New(time.Minute)
	defer c.Close()

	if c.HitRate() != 0 {
		t.Error("hit rate with no lookups should be 0")
	}

	c.Set("k", "v")
	c.Get("k")
	c.Get("k")
	c.Get("k")
	c.Get("nope")

	if got := c.HitRate(); got != 75 {
		t.Errorf("HitRate() = %v, want 75", got)
	}
}

func TestCacheSetWithTTLOverridesDefault(t *testing.T) {
	t.Parallel()

	c := New(time.Hour)
	defer c.Close()

	c.SetWithTTL("short", "v", 30*time.Millisecond)
	c.Set("long", "v")
	time.Sleep(60 * time.Millisecond)

	if _, ok := c.Get("short"); ok {
		t.Error("short entry should have expired")
	}
	if _, ok := c.Get("long"); !ok {
		t.Error("long entry should remain")
	}
}

func TestCacheCleanupLoop(t *testing.T) {
	t.Parallel()

	c := newCache(10*time.Millisecond, 20*time.Millisecond)
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if c.GetStats().TotalKeys == 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Errorf("cleanup loop did not remove expired entries: %+v", c.GetStats())
}

func TestCacheCloseIdempotent(t *testing.T) {
	t.Parallel()

	c := New(time.Minute)
	c.Close()
	c.Close()
}

func TestCacheConcurrency(t *testing.T) {
	t.Parallel()

	c := New(time.Minute)
	defer c.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k%d", (n*j)%17)
				c.Set(key, j)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	if c.GetStats().TotalKeys > 17 {
		t.Errorf("TotalKeys = %d, want <= 17", c.GetStats().TotalKeys)
	}
}

func TestGenerateKey(t *testing.T) {
	t.Parallel()

	type filter struct {
		Search   string
		Category string
		Page     int
	}

	k1 := GenerateKey("products", filter{Search: "kurta", Page: 1})
	k2 := GenerateKey("products", filter{Search: "kurta", Page: 1})
	k3 := GenerateKey("products", filter{Search: "kurta", Page: 2})

	if k1 != k2 {
		t.Error("identical params should give identical keys")
	}
	if k1 == k3 {
		t.Error("different params should give different keys")
	}
	if !strings.HasPrefix(k1, "products:") || len(k1) != len("products:")+32 {
		t.Errorf("unexpected key format %q", k1)
	}

	// Channels cannot be marshaled; the fallback still yields a prefixed key.
	if k := GenerateKey("bad", make(chan int)); !strings.HasPrefix(k, "bad:") {
		t.Errorf("fallback key = %q", k)
	}
}

func TestCacheGetOrLoad(t *testing.T) {
	t.Parallel()

	c := New(time.Minute)
	defer c.Close()

	var calls atomic.Int32
	load := func() (interface{}, error) {
		calls.Add(1)
		return []string{"kurta", "saree"}, nil
	}

	v, cached, err := c.GetOrLoad("categories", load)
	if err != nil || cached {
		t.Fatalf("first GetOrLoad: cached=%v err=%v", cached, err)
	}
	if cats := v.([]string); len(cats) != 2 {
		t.Errorf("got %v", cats)
	}

	if _, cached, _ = c.GetOrLoad("categories", load); !cached {
		t.Error("second GetOrLoad should be served from cache")
	}
	if calls.Load() != 1 {
		t.Errorf("loader called %d times, want 1", calls.Load())
	}
}

func TestCacheGetOrLoadErrorNotCached(t *testing.T) {
	t.Parallel()

	c := New(time.Minute)
	defer c.Close()

	errStore := errors.New("catalog unavailable")
	if _, _, err := c.GetOrLoad("k", func() (interface{}, error) { return nil, errStore }); !errors.Is(err, errStore) {
		t.Fatalf("err = %v, want %v", err, errStore)
	}
	if _, ok := c.Get("k"); ok {
		t.Error("failed load should not be cached")
	}

	v, cached, err := c.GetOrLoad("k", func() (interface{}, error) { return 7, nil })
	if err != nil || cached || v.(int) != 7 {
		t.Errorf("retry: v=%v cached=%v err=%v", v, cached, err)
	}
}

func TestCacheGetOrLoadSharesConcurrentLoads(t *testing.T) {
	t.Parallel()

	c := New(time.Minute)
	defer c.Close()

	var calls atomic.Int32
	release := make(chan struct{})
	load := func() (interface{}, error) {
		calls.Add(1)
		<-release
		return "page", nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if v, _, err := c.GetOrLoad("products:p1", load); err != nil || v != "page" {
				t.Errorf("GetOrLoad = %v, %v", v, err)
			}
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	// Goroutines that arrive after the shared load finished hit the cache.
	if n := calls.Load(); n != 1 {
		t.Errorf("loader called %d times, want 1", n)
	}
}
