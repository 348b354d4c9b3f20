// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package ingest

import (
	"time"

	"github.com/tomtom215/fashintel/internal/models"
)

// Outcome labels used for logs and metrics.
const (
	OutcomeIngested = "ingested"
	OutcomeSkipped  = "skipped"
	OutcomeFailed   = "failed"
)

// Result is the outcome of one ingestion run.
type Result struct {
	// Success is false when the dataset was unavailable or produced no products.
	Success bool `json:"success"`

	// Skipped is true when the store was already populated.
	Skipped bool `json:"skipped"`

	// Products is the id/category/brand/color projection of the catalog.
	Products []models.ProductSummary `json:"products"`

	Stats Stats `json:"stats"`
}

// Stats counts what a run did.
type Stats struct {
	Rows              int           `json:"rows"`
	DuplicatesDropped int           `json:"duplicates_dropped"`
	NullIDs           int           `json:"null_ids"`
	Inserted          int           `json:"inserted"`
	Updated           int           `json:"updated"`
	Duration          time.Duration `json:"duration"`
}
