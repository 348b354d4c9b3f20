// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/fashintel/internal/recommend"
)

// Reloader swaps in the latest model artifact. *recommend.Engine satisfies it.
type Reloader interface {
	Reload(ctx context.Context) (*recommend.ArtifactMetadata, error)
}

var _ Reloader = (*recommend.Engine)(nil)

// ReloadServiceConfig configures artifact reloading.
type ReloadServiceConfig struct {
	// LoadOnStartup loads the artifact before the first tick.
	LoadOnStartup bool

	// Interval between reloads. Default: 5m
	Interval time.Duration

	// Timeout bounds a single load. Default: 2m
	Timeout time.Duration
}

// ReloadService periodically picks up newly published model artifacts so
// a retrained model goes live without a restart. A failed reload leaves the
// current artifact in service.
type ReloadService struct {
	reloader    Reloader
	config      ReloadServiceConfig
	logger      zerolog.Logger
	name        string
	lastVersion int
}

// NewReloadService creates the reload service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewReloadService(reloader Reloader, cfg ReloadServiceConfig, logger zerolog.Logger) *ReloadService {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	return &ReloadService{
		reloader: reloader,
		config:   cfg,
		logger:   logger.With().Str("service", "artifact_reload").Logger(),
		name:     "artifact-reload",
	}
}

// Serve implements suture.Service.
func (s *ReloadService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("load_on_startup", s.config.LoadOnStartup).
		Dur("interval", s.config.Interval).
		Msg("artifact reload service starting")

	if s.config.LoadOnStartup {
		s.reload(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.reload(ctx)
		}
	}
}

func (s *ReloadService) reload(ctx context.Context) {
	loadCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	meta, err := s.reloader.Reload(loadCtx)
	switch {
	case errors.Is(err, recommend.ErrArtifactNotFound):
		s.logger.Debug().Msg("no model artifact published yet")
		return
	case err != nil:
		s.logger.Warn().Err(err).Msg("artifact reload failed, keeping current model")
		return
	}

	if meta.Version != s.lastVersion {
		s.logger.Info().
			Int("version", meta.Version).
			Int("previous_version", s.lastVersion).
			Msg("model artifact in service")
		s.lastVersion = meta.Version
	}
}

// String names the service in supervisor events.
func (s *ReloadService) String() string {
	return s.name
}
