// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package cache

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/fashintel/internal/config"
	"github.com/tomtom215/fashintel/internal/logging"
	"github.com/tomtom215/fashintel/internal/recommend"
)

// Backend names accepted by CACHE_BACKEND.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Backend is a recommendation result cache that can be closed.
type Backend interface {
	recommend.ResultCache
	Name() string
	Close() error
}

var (
	_ Backend                      = (*Memory)(nil)
	_ Backend                      = (*Redis)(nil)
	_ recommend.CacheStatsReporter = (*Memory)(nil)
)

// Open creates the backend selected by cfg.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Open(ctx context.Context, cfg *config.CacheConfig, logger zerolog.Logger) (Backend, error) {
	switch cfg.Backend {
	case "", BackendMemory:
		logger.Info().Int("max_entries", cfg.MaxEntries).Msg("Using in-memory result cache")
		return NewMemory(cfg.MaxEntries), nil
	case BackendRedis:
		r, err := NewRedis(ctx, cfg.RedisURL, cfg.KeyPrefix)
		if err != nil {
			return nil, err
		}
		logger.Info().
			Str("url", logging.RedactURI(cfg.RedisURL)).
			Str("prefix", cfg.KeyPrefix).
			Msg("Using redis result cache")
		return r, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
