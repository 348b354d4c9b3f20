// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

/*
Package ingest loads the product dataset into the catalog store.

A run is skipped when the store already holds both products and a feature
mapping document; the existing products are projected and returned instead.
Otherwise the CSV dataset is read, deduplicated by id (first row wins),
encoded with the attribute mappings and upserted product by product.

# Flow

	┌───────────┐    ┌───────────┐    ┌──────────────┐    ┌────────────┐
	│  Dataset  │───▶│   Dedup   │───▶│ BuildMappings│───▶│  Upsert by │
	│  (CSV)    │    │  by id    │    │  + persist   │    │ product_id │
	└───────────┘    └───────────┘    └──────────────┘    └────────────┘

# Outcomes

Run returns Result.Success=false without an error when the dataset is
missing or empty, or when no row has an id. Store failures are returned as
errors and are never converted into Success=false, so callers can log them
in their own category (see database.ErrStorageUnavailable).

# Concurrency

Two processes that both find an empty store will both ingest. Upserts by the
unique product_id keep the outcome convergent; no lock is taken.

Example:

	p := ingest.NewPipeline(&cfg.Dataset, db, logger)
	res, err := p.Run(ctx)
	if err != nil {
	    return err
	}
	logger.Info().Int("products", len(res.Products)).Msg("catalog ready")
*/
package ingest
