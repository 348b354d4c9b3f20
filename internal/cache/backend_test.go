// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/fashintel/internal/config"
	"github.com/tomtom215/fashintel/internal/metrics"
)

func TestMemory_ResultCache(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(2)

	hitsBefore := testutil.ToFloat64(metrics.CacheHits.WithLabelValues(BackendMemory))

	if _, ok, err := m.Get(ctx, "rec:abc:8:u1"); ok || err != nil {
		t.Fatalf("Get() on empty = %v, %v", ok, err)
	}
	if err := m.Set(ctx, "rec:abc:8:u1", []byte(`{"items":[]}`), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	v, ok, err := m.Get(ctx, "rec:abc:8:u1")
	if err != nil || !ok || string(v) != `{"items":[]}` {
		t.Fatalf("Get() = %q, %v, %v", v, ok, err)
	}
	if got := testutil.ToFloat64(metrics.CacheHits.WithLabelValues(BackendMemory)); got != hitsBefore+1 {
		t.Errorf("cache hits = %v, want %v", got, hitsBefore+1)
	}

	_ = m.Set(ctx, "k2", nil, time.Minute)
	_ = m.Set(ctx, "k3", nil, time.Minute)
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want capacity 2", m.Len())
	}

	if err := m.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if m.Len() != 0 {
		t.Error("Clear() left entries")
	}
	if m.Name() != BackendMemory || m.Close() != nil {
		t.Error("unexpected Name/Close")
	}
}

func TestMemory_StatsAndSweep(t *testing.T) {
	ctx := context.Background()
	m := newMemory(10, 0)
	defer m.Close()

	_ = m.Set(ctx, "fresh", []byte("1"), time.Minute)
	_ = m.Set(ctx, "stale", []byte("2"), time.Nanosecond)
	time.Sleep(time.Millisecond)

	_, _, _ = m.Get(ctx, "fresh")
	_, _, _ = m.Get(ctx, "absent")

	st := m.Stats()
	if st.Backend != BackendMemory || st.Entries != 2 || st.Hits != 1 || st.Misses != 1 {
		t.Errorf("Stats() before sweep = %+v", st)
	}

	if n := m.Sweep(); n != 1 {
		t.Errorf("Sweep() = %d, want 1", n)
	}
	if got := testutil.ToFloat64(metrics.CacheSize.WithLabelValues(BackendMemory)); got != 1 {
		t.Errorf("cache size gauge = %v, want 1", got)
	}
	st = m.Stats()
	if st.Entries != 1 || st.Evictions != 1 {
		t.Errorf("Stats() after sweep = %+v", st)
	}
}

func TestMemory_SweeperRunsUntilClosed(t *testing.T) {
	t.Parallel()

	m := newMemory(10, 5*time.Millisecond)
	_ = m.Set(context.Background(), "stale", nil, time.Nanosecond)

	deadline := time.Now().Add(time.Second)
	for m.Len() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if m.Len() != 0 {
		t.Error("sweeper did not remove the expired entry")
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := m.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestMemory_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewMemory(10)
	if _, _, err := m.Get(ctx, "k"); err == nil {
		t.Error("Get() should fail with canceled context")
	}
	if err := m.Set(ctx, "k", nil, time.Minute); err == nil {
		t.Error("Set() should fail with canceled context")
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      config.CacheConfig
		wantName string
		wantErr  bool
	}{
		{name: "default is memory", cfg: config.CacheConfig{MaxEntries: 10}, wantName: BackendMemory},
		{name: "memory", cfg: config.CacheConfig{Backend: "memory"}, wantName: BackendMemory},
		{name: "unknown backend", cfg: config.CacheConfig{Backend: "memcached"}, wantErr: true},
		{name: "redis bad url", cfg: config.CacheConfig{Backend: "redis", RedisURL: "http://nope"}, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b, err := Open(context.Background(), &tt.cfg, zerolog.Nop())
			if tt.wantErr {
				if err == nil {
					t.Fatal("Open() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			defer b.Close()
			if b.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", b.Name(), tt.wantName)
			}
		})
	}
}
