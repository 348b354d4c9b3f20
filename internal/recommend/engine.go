// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package recommend

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/fashintel/internal/metrics"
)

// ResultCache stores encoded responses. It is implemented by the cache
// package's memory and redis backends.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Clear(ctx context.Context) error
}

// CacheStatsReporter is an optional ResultCache extension surfaced in Status.
type CacheStatsReporter interface {
	Stats() ResultCacheStats
}

// Engine ties the artifact loader, the scorer and the result cache together.
// It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	loader *ArtifactLoader
	scorer *Scorer
	cache  ResultCache

	requestCount   atomic.Int64
	coldStarts     atomic.Int64
	warmStarts     atomic.Int64
	emptyResponses atomic.Int64
	cacheHits      atomic.Int64
	cacheMisses    atomic.Int64
}

// NewEngine creates a recommendation engine. cache may be nil.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, loader *ArtifactLoader, catalog Catalog, cache ResultCache, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if loader == nil {
		return nil, fmt.Errorf("artifact loader is required")
	}
	if !cfg.Cache.Enabled {
		cache = nil
	}

	logger = logger.With().Str("component", "recommend").Logger()
	return &Engine{
		config: cfg,
		logger: logger,
		loader: loader,
		scorer: NewScorer(catalog, logger),
		cache:  cache,
	}, nil
}

// Recommend returns up to topN recommendations for userID. A topN of zero
// selects the configured default. The response is never nil; an empty list
// means no recommendations are available.
func (e *Engine) Recommend(ctx context.Context, userID string, topN int) *Response {
	start := time.Now()
	e.requestCount.Add(1)
	topN = e.config.ClampTopN(topN)

	logger := e.logger.With().Str("user_id", userID).Int("top_n", topN).Logger()

	art, err := e.loader.Load(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("serving empty recommendations")
		e.emptyResponses.Add(1)
		metrics.RecordRecommendation("", time.Since(start), 0, ReasonArtifactUnavailable)
		return e.emptyResponse(userID, topN, start)
	}

	key := e.cacheKey(art, userID, topN)
	if resp := e.cached(ctx, key, start, logger); resp != nil {
		return resp
	}

	scoreCtx, cancel := context.WithTimeout(ctx, e.config.Limits.CatalogTimeout)
	defer cancel()
	res := e.scorer.Score(scoreCtx, userID, topN, art.Model, art.Mapping(), art.Interactions)

	switch res.Strategy {
	case StrategyColdStart:
		e.coldStarts.Add(1)
	case StrategyWarmStart:
		e.warmStarts.Add(1)
	}
	if len(res.Recommendations) == 0 {
		e.emptyResponses.Add(1)
	}

	resp := &Response{
		Recommendations: res.Recommendations,
		Metadata:        e.metadata(userID, topN, res.Strategy, art.Metadata.Version, false, start),
	}
	metrics.RecordRecommendation(string(res.Strategy), resp.Metadata.Latency, len(resp.Recommendations), res.EmptyReason)

	if len(resp.Recommendations) > 0 {
		e.store(ctx, key, resp, logger)
	}

	logger.Debug().
		Str("strategy", string(res.Strategy)).
		Int("returned", len(resp.Recommendations)).
		Int("catalog_misses", res.CatalogMisses).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation complete")

	return resp
}

// Reload forces a reload of the latest artifact and clears the result cache.
func (e *Engine) Reload(ctx context.Context) (*ArtifactMetadata, error) {
	art, err := e.loader.Reload(ctx)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		if err := e.cache.Clear(ctx); err != nil {
			e.logger.Warn().Err(err).Msg("failed to clear result cache after reload")
		}
	}
	meta := art.Metadata
	return &meta, nil
}

// Status returns the engine's artifact and traffic state.
func (e *Engine) Status() Status {
	ls := e.loader.Status()
	st := Status{
		ArtifactLoaded:   ls.Loaded,
		Artifact:         ls.Metadata,
		TotalRequests:    e.requestCount.Load(),
		ColdStarts:       e.coldStarts.Load(),
		WarmStarts:       e.warmStarts.Load(),
		EmptyResponses:   e.emptyResponses.Load(),
		CacheHits:        e.cacheHits.Load(),
		CacheMisses:      e.cacheMisses.Load(),
		ResultCacheOn:    e.cache != nil,
		ArtifactReloads:  ls.Loads,
		ArtifactFailures: ls.Failures,
	}
	if r, ok := e.cache.(CacheStatsReporter); ok {
		cs := r.Stats()
		st.ResultCache = &cs
	}
	if !ls.LastLoadedAt.IsZero() {
		t := ls.LastLoadedAt
		st.LastLoadedAt = &t
	}
	if ls.LastError != nil {
		st.LastLoadError = ls.LastError.Error()
	}
	return st
}

// Config returns the engine configuration.
func (e *Engine) Config() *Config {
	return e.config
}

// Loader returns the engine's artifact loader.
func (e *Engine) Loader() *ArtifactLoader {
	return e.loader
}

// cacheKey includes the artifact checksum so a reload never serves stale entries.
func (e *Engine) cacheKey(art *LoadedArtifact, userID string, topN int) string {
	sum := art.Metadata.Checksum
	if len(sum) > 12 {
		sum = sum[:12]
	}
	return fmt.Sprintf("rec:%s:%d:%s", sum, topN, userID)
}

func (e *Engine) cached(ctx context.Context, key string, start time.Time, logger zerolog.Logger) *Response {
	if e.cache == nil {
		return nil
	}

	data, ok, err := e.cache.Get(ctx, key)
	if err != nil {
		logger.Warn().Err(err).Msg("result cache lookup failed")
		return nil
	}
	if !ok {
		e.cacheMisses.Add(1)
		return nil
	}

	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		logger.Warn().Err(err).Msg("discarding undecodable cache entry")
		e.cacheMisses.Add(1)
		return nil
	}

	e.cacheHits.Add(1)
	resp.Metadata.CacheHit = true
	resp.Metadata.Latency = time.Since(start)
	resp.Metadata.LatencyMS = resp.Metadata.Latency.Milliseconds()
	logger.Debug().Msg("cache hit")
	return &resp
}

func (e *Engine) store(ctx context.Context, key string, resp *Response, logger zerolog.Logger) {
	if e.cache == nil {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to encode response for cache")
		return
	}
	if err := e.cache.Set(ctx, key, data, e.config.Cache.TTL); err != nil {
		logger.Warn().Err(err).Msg("failed to store response in cache")
	}
}

func (e *Engine) metadata(userID string, topN int, strategy StrategyKind, version int, cacheHit bool, start time.Time) ResponseMetadata {
	latency := time.Since(start)
	return ResponseMetadata{
		UserID:          userID,
		TopN:            topN,
		Strategy:        strategy,
		ArtifactVersion: version,
		CacheHit:        cacheHit,
		Latency:         latency,
		LatencyMS:       latency.Milliseconds(),
		GeneratedAt:     time.Now().UTC(),
	}
}

func (e *Engine) emptyResponse(userID string, topN int, start time.Time) *Response {
	return &Response{
		Recommendations: []Recommendation{},
		Metadata:        e.metadata(userID, topN, "", 0, false, start),
	}
}
