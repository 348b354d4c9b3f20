// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/fashintel/internal/config"
	"github.com/tomtom215/fashintel/internal/database"
	"github.com/tomtom215/fashintel/internal/features"
	"github.com/tomtom215/fashintel/internal/metrics"
	"github.com/tomtom215/fashintel/internal/models"
)

// Store is the catalog persistence used by the pipeline.
// *database.DB satisfies it.
type Store interface {
	CountProducts(ctx context.Context) (int64, error)
	CountMappings(ctx context.Context) (int64, error)
	ProductSummaries(ctx context.Context) ([]models.ProductSummary, error)
	InsertMappings(ctx context.Context, mappings map[string]map[string]int) error
	UpsertProduct(ctx context.Context, p *models.Product) (bool, error)
	EnsureProductIndex(ctx context.Context) error
}

var _ Store = (*database.DB)(nil)

// Pipeline ingests the configured dataset into a Store.
type Pipeline struct {
	cfg    *config.DatasetConfig
	store  Store
	logger zerolog.Logger

	mu      sync.Mutex
	running bool
	last    *Result
}

// NewPipeline creates a pipeline reading cfg.Path.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPipeline(cfg *config.DatasetConfig, store Store, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		store:  store,
		logger: logger.With().Str("component", "ingest").Logger(),
	}
}

// Running reports whether a run is in progress on this pipeline.
func (p *Pipeline) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// LastResult returns the result of the most recent completed run, or nil.
func (p *Pipeline) LastResult() *Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// Run ingests the dataset unless the store is already populated.
//
// Dataset problems (missing file, empty table, no usable ids) give
// Success=false and a nil error. Store failures are returned wrapped.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	p.mu.Lock()
	p.running = true
	p.mu.Unlock()

	start := time.Now()
	res, err := p.run(ctx)
	res.Stats.Duration = time.Since(start)

	outcome := OutcomeIngested
	switch {
	case err != nil || !res.Success:
		outcome = OutcomeFailed
	case res.Skipped:
		outcome = OutcomeSkipped
	}
	metrics.RecordIngestRun(outcome, res.Stats.Duration, res.Stats.Inserted, res.Stats.Updated)

	p.mu.Lock()
	p.running = false
	p.last = res
	p.mu.Unlock()

	if err != nil {
		event := p.logger.Error().Err(err)
		if database.IsStorageUnavailable(err) {
			event = event.Str("error_category", "storage_unavailable")
		}
		event.Dur("duration", res.Stats.Duration).Msg("Dataset ingestion failed")
	}
	return res, err
}

func (p *Pipeline) run(ctx context.Context) (*Result, error) {
	res := &Result{}

	skipped, err := p.skipIfPopulated(ctx, res)
	if err != nil || skipped {
		return res, err
	}

	p.logger.Info().Str("path", p.cfg.Path).Msg("Loading dataset")
	ds, err := ReadDataset(p.cfg.Path)
	switch {
	case errors.Is(err, ErrSourceUnavailable):
		p.logger.Error().Err(err).Msg("Dataset file not found")
		return res, nil
	case errors.Is(err, ErrEmptyDataset):
		p.logger.Error().Str("path", p.cfg.Path).Msg("Dataset is empty")
		return res, nil
	case err != nil:
		p.logger.Error().Err(err).Msg("Error reading dataset")
		return res, nil
	}
	res.Stats.Rows = len(ds.Rows)
	p.logger.Info().Int("rows", len(ds.Rows)).Msg("Loaded dataset")

	rows, dropped := Dedupe(ds.Rows)
	if dropped > 0 {
		res.Stats.DuplicatesDropped = dropped
		metrics.IngestDuplicatesDropped.Add(float64(dropped))
		p.logger.Warn().
			Int("duplicates_dropped", dropped).
			Int("unique_rows", len(rows)).
			Msg("Dropped duplicate product ids, kept first occurrence")
	}

	if !ds.HasColumn("pattern") || ds.ColumnEmpty("pattern") {
		p.logger.Warn().Msg("No pattern data in dataset, excluding pattern from product attributes")
	}

	// Mappings see the raw values, so the fill sentinel is not encoded.
	mappings := features.BuildMappings(rows, features.Categorical)
	if err := p.store.InsertMappings(ctx, mappings); err != nil {
		return res, fmt.Errorf("store feature mappings: %w", err)
	}
	p.logger.Info().Int("features", len(mappings)).Msg("Stored feature mappings")

	for _, raw := range rows {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if _, ok := raw.Value("id"); !ok {
			res.Stats.NullIDs++
			p.logger.Warn().Interface("row", raw).Msg("Missing id in row, skipping")
			continue
		}
		if missing := MissingImportant(raw); len(missing) > 0 {
			p.logger.Warn().
				Str("product_id", raw["id"]).
				Strs("missing", missing).
				Msg("Product is missing important attributes")
		}

		product := BuildProduct(Fill(raw), mappings)
		inserted, err := p.store.UpsertProduct(ctx, product)
		if err != nil {
			return res, fmt.Errorf("upsert product: %w", err)
		}
		if inserted {
			res.Stats.Inserted++
		} else {
			res.Stats.Updated++
		}
		res.Products = append(res.Products, Summarize(product))
	}

	if len(res.Products) == 0 {
		p.logger.Error().Msg("No valid products loaded")
		res.Products = nil
		return res, nil
	}

	if err := p.store.EnsureProductIndex(ctx); err != nil {
		return res, fmt.Errorf("ensure product index: %w", err)
	}

	p.logger.Info().
		Int("inserted", res.Stats.Inserted).
		Int("updated", res.Stats.Updated).
		Int("null_ids", res.Stats.NullIDs).
		Msg("Dataset ingested")

	res.Success = true
	return res, nil
}

// skipIfPopulated fills res from the store when both products and mappings
// exist.
func (p *Pipeline) skipIfPopulated(ctx context.Context, res *Result) (bool, error) {
	products, err := p.store.CountProducts(ctx)
	if err != nil {
		return false, fmt.Errorf("check products: %w", err)
	}
	mappings, err := p.store.CountMappings(ctx)
	if err != nil {
		return false, fmt.Errorf("check feature mappings: %w", err)
	}
	if products == 0 || mappings == 0 {
		return false, nil
	}

	p.logger.Info().
		Int64("products", products).
		Int64("feature_mappings", mappings).
		Msg("Collections already populated, skipping load")

	summaries, err := p.store.ProductSummaries(ctx)
	if err != nil {
		return false, fmt.Errorf("project existing products: %w", err)
	}
	res.Success = true
	res.Skipped = true
	res.Products = summaries
	return true, nil
}
