// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

//go:build integration

package testinfra

import (
	"context"
	"testing"

	"github.com/testcontainers/testcontainers-go"
)

// DefaultRedisImage is the Redis image used by integration tests. Set
// FASHINTEL_TEST_REDIS_IMAGE to override it.
const DefaultRedisImage = "redis:7-alpine"

// RedisContainer is a running Redis without persistence.
type RedisContainer struct {
	testcontainers.Container

	// URL is a redis:// URL for database 0.
	URL string
}

// NewRedisContainer starts Redis. The caller terminates it.
func NewRedisContainer(ctx context.Context, opts ...Option) (*RedisContainer, error) {
	c, endpoint, err := startService(ctx, serviceSpec{
		name:     "redis",
		port:     "6379/tcp",
		scheme:   "redis",
		readyLog: "Ready to accept connections",
		cmd:      []string{"redis-server", "--save", "", "--appendonly", "no"},
	}, applyOptions(DefaultRedisImage, "FASHINTEL_TEST_REDIS_IMAGE", opts))
	if err != nil {
		return nil, err
	}
	return &RedisContainer{Container: c, URL: endpoint + "/0"}, nil
}

// StartRedis starts Redis for t and terminates it on cleanup.
func StartRedis(t *testing.T) *RedisContainer {
	t.Helper()
	SkipIfNoDocker(t)

	ctx := context.Background()
	c, err := NewRedisContainer(ctx)
	if err != nil {
		t.Fatalf("start redis: %v", err)
	}
	t.Cleanup(func() { CleanupContainer(t, ctx, c) })
	return c
}
