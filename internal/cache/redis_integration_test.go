// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/fashintel/internal/testinfra"
)

func TestIntegration_Redis(t *testing.T) {
	rc := testinfra.StartRedis(t)
	ctx := context.Background()

	r, err := NewRedis(ctx, rc.URL, "fashintel-test:")
	if err != nil {
		t.Fatalf("NewRedis() error = %v", err)
	}
	defer r.Close()

	if _, ok, err := r.Get(ctx, "missing"); ok || err != nil {
		t.Fatalf("Get(missing) = %v, %v", ok, err)
	}

	for _, k := range []string{"a", "b", "c"} {
		if err := r.Set(ctx, k, []byte(k), time.Minute); err != nil {
			t.Fatalf("Set(%s) error = %v", k, err)
		}
	}
	// A key outside the prefix must survive Clear.
	if err := r.client.Set(ctx, "other:key", "x", 0).Err(); err != nil {
		t.Fatalf("seed foreign key: %v", err)
	}

	v, ok, err := r.Get(ctx, "b")
	if err != nil || !ok || string(v) != "b" {
		t.Fatalf("Get(b) = %q, %v, %v", v, ok, err)
	}

	if err := r.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, ok, _ := r.Get(ctx, "a"); ok {
		t.Error("a should be cleared")
	}
	if n, _ := r.client.Exists(ctx, "other:key").Result(); n != 1 {
		t.Error("Clear() removed a key outside the prefix")
	}

	if err := r.Set(ctx, "ttl", []byte("x"), 50*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(150 * time.Millisecond)
	if _, ok, _ := r.Get(ctx, "ttl"); ok {
		t.Error("ttl entry should have expired")
	}
}
