// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/fashintel/internal/cache"
	"github.com/tomtom215/fashintel/internal/config"
	"github.com/tomtom215/fashintel/internal/recommend"
	"github.com/tomtom215/fashintel/internal/recommend/storage"
	"github.com/tomtom215/fashintel/internal/supervisor"
	"github.com/tomtom215/fashintel/internal/supervisor/services"
)

// RecommendComponents holds the serving side of the recommender.
type RecommendComponents struct {
	Engine *recommend.Engine
	Cache  cache.Backend
}

// Close releases the result cache connection.
func (c *RecommendComponents) Close() error {
	if c.Cache == nil {
		return nil
	}
	return c.Cache.Close()
}

// initRecommend builds the engine over the artifact store in
// cfg.Recommend.ModelDir and registers artifact reloading with the tree.
// A missing artifact is not an error: the engine answers with empty
// recommendations until one is published.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(ctx context.Context, cfg *config.Config, catalog recommend.Catalog, logger zerolog.Logger, tree *supervisor.SupervisorTree) (*RecommendComponents, error) {
	engineCfg := buildEngineConfig(cfg)
	if err := engineCfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid recommendation config: %w", err)
	}

	store, err := storage.NewStore(engineCfg.Artifact.Dir)
	if err != nil {
		return nil, fmt.Errorf("open artifact store: %w", err)
	}
	loader := recommend.NewArtifactLoader(store, engineCfg.Artifact.Name, logger)

	components := &RecommendComponents{}
	var resultCache recommend.ResultCache
	if engineCfg.Cache.Enabled {
		backend, err := cache.Open(ctx, &cfg.Cache, logger)
		if err != nil {
			return nil, fmt.Errorf("open result cache: %w", err)
		}
		components.Cache = backend
		resultCache = backend
	}

	engine, err := recommend.NewEngine(engineCfg, loader, catalog, resultCache, logger)
	if err != nil {
		_ = components.Close()
		return nil, fmt.Errorf("create recommendation engine: %w", err)
	}
	components.Engine = engine

	logger.Info().
		Str("model_dir", engineCfg.Artifact.Dir).
		Str("model_name", engineCfg.Artifact.Name).
		Int("default_top_n", engineCfg.Limits.DefaultTopN).
		Bool("result_cache", resultCache != nil).
		Dur("reload_interval", engineCfg.Artifact.ReloadInterval).
		Msg("recommendation engine initialized")

	if engineCfg.Artifact.ReloadInterval > 0 {
		tree.Add(supervisor.LayerModel, services.NewReloadService(engine, services.ReloadServiceConfig{
			LoadOnStartup: true,
			Interval:      engineCfg.Artifact.ReloadInterval,
			Timeout:       engineCfg.Artifact.LoadTimeout,
		}, logger))
		return components, nil
	}

	// Without periodic reloads the artifact is loaded once, here.
	loadCtx, cancel := context.WithTimeout(ctx, engineCfg.Artifact.LoadTimeout)
	defer cancel()
	if _, err := loader.Load(loadCtx); err != nil {
		logger.Warn().Err(err).Msg("no model artifact loaded, serving empty recommendations")
	}
	return components, nil
}

// buildEngineConfig maps the application config onto the engine defaults.
// Zero values keep the default.
func buildEngineConfig(cfg *config.Config) *recommend.Config {
	ec := recommend.DefaultConfig()
	rc := &cfg.Recommend

	if rc.ModelDir != "" {
		ec.Artifact.Dir = rc.ModelDir
	}
	if rc.ModelName != "" {
		ec.Artifact.Name = rc.ModelName
	}
	// Zero is meaningful here: it disables periodic reloads.
	ec.Artifact.ReloadInterval = rc.ReloadInterval
	if rc.LoadTimeout > 0 {
		ec.Artifact.LoadTimeout = rc.LoadTimeout
	}
	if rc.DefaultTopN > 0 {
		ec.Limits.DefaultTopN = rc.DefaultTopN
	}
	if rc.MaxTopN > 0 {
		ec.Limits.MaxTopN = rc.MaxTopN
	}
	if rc.CatalogTimeout > 0 {
		ec.Limits.CatalogTimeout = rc.CatalogTimeout
	}
	ec.Cache.Enabled = rc.CacheEnabled
	if rc.CacheTTL > 0 {
		ec.Cache.TTL = rc.CacheTTL
	}
	return ec
}
