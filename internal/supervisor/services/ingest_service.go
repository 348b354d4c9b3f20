// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/fashintel/internal/database"
	"github.com/tomtom215/fashintel/internal/ingest"
)

// Ingester runs one dataset ingestion. *ingest.Pipeline satisfies it.
type Ingester interface {
	Run(ctx context.Context) (*ingest.Result, error)
}

var _ Ingester = (*ingest.Pipeline)(nil)

// IngestService ingests the dataset once at startup.
//
// Storage-unavailable failures are returned so the supervisor retries with
// backoff, up to maxAttempts. Every other outcome (ingested, skipped,
// unusable dataset, query error) finishes the service with
// suture.ErrDoNotRestart.
type IngestService struct {
	ingester    Ingester
	maxAttempts int
	attempts    int
	logger      zerolog.Logger
	name        string
}

// NewIngestService wraps ingester. maxAttempts < 1 means 5.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewIngestService(ingester Ingester, maxAttempts int, logger zerolog.Logger) *IngestService {
	if maxAttempts < 1 {
		maxAttempts = 5
	}
	return &IngestService{
		ingester:    ingester,
		maxAttempts: maxAttempts,
		logger:      logger.With().Str("service", "ingest").Logger(),
		name:        "dataset-ingest",
	}
}

// Serve implements suture.Service.
func (s *IngestService) Serve(ctx context.Context) error {
	s.attempts++
	res, err := s.ingester.Run(ctx)

	switch {
	case ctx.Err() != nil:
		return ctx.Err()

	case err != nil && database.IsStorageUnavailable(err) && s.attempts < s.maxAttempts:
		s.logger.Warn().Err(err).
			Int("attempt", s.attempts).
			Int("max_attempts", s.maxAttempts).
			Msg("catalog store unavailable, ingestion will be retried")
		return fmt.Errorf("ingest attempt %d: %w", s.attempts, err)

	case err != nil:
		s.logger.Error().Err(err).Int("attempt", s.attempts).Msg("dataset ingestion abandoned")
		return suture.ErrDoNotRestart

	case !res.Success:
		s.logger.Warn().Msg("dataset ingestion produced no catalog")
		return suture.ErrDoNotRestart
	}

	s.logger.Info().
		Bool("skipped", res.Skipped).
		Int("products", len(res.Products)).
		Int("inserted", res.Stats.Inserted).
		Int("updated", res.Stats.Updated).
		Msg("startup ingestion finished")
	return suture.ErrDoNotRestart
}

// String names the service in supervisor events.
func (s *IngestService) String() string {
	return s.name
}
