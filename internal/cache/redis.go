// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/tomtom215/fashintel/internal/metrics"
)

// clearBatch is the SCAN page size used by Clear.
const clearBatch = 500

// Redis is a result cache backend shared by every replica.
// All keys are written under prefix so Clear never touches foreign keys.
type Redis struct {
	client *goredis.Client
	prefix string
}

// NewRedis connects to the redis:// URL and verifies the connection.
func NewRedis(ctx context.Context, url, prefix string) (*Redis, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = 5 * time.Second
	}

	client := goredis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewRedisWithClient(client, prefix), nil
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client *goredis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

// Name returns "redis".
func (r *Redis) Name() string { return BackendRedis }

// Get returns the cached bytes for key.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		metrics.RecordCacheLookup(BackendRedis, false)
		return nil, false, nil
	}
	if err != nil {
		metrics.CacheErrors.WithLabelValues(BackendRedis).Inc()
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	metrics.RecordCacheLookup(BackendRedis, true)
	return val, true, nil
}

// Set stores value for ttl.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.prefix+key, value, ttl).Err(); err != nil {
		metrics.CacheErrors.WithLabelValues(BackendRedis).Inc()
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Clear deletes every key under the prefix.
func (r *Redis) Clear(ctx context.Context) error {
	var cursor uint64
	deleted := 0
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.prefix+"*", clearBatch).Result()
		if err != nil {
			metrics.CacheErrors.WithLabelValues(BackendRedis).Inc()
			return fmt.Errorf("redis scan: %w", err)
		}
		if len(keys) > 0 {
			if err := r.client.Unlink(ctx, keys...).Err(); err != nil {
				metrics.CacheErrors.WithLabelValues(BackendRedis).Inc()
				return fmt.Errorf("redis unlink: %w", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		metrics.CacheEvictions.WithLabelValues(BackendRedis).Add(float64(deleted))
	}
	return nil
}

// Close closes the client.
func (r *Redis) Close() error {
	return r.client.Close()
}
