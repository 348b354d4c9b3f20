// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/fashintel/internal/logging"
)

// IngestResult is the body of POST /api/v1/admin/ingest. Products is omitted
// to keep the response small; ProductCount reports its length.
type IngestResult struct {
	Success      bool  `json:"success"`
	Skipped      bool  `json:"skipped"`
	ProductCount int   `json:"product_count"`
	Rows         int   `json:"rows"`
	Duplicates   int   `json:"duplicates_dropped"`
	NullIDs      int   `json:"null_ids"`
	Inserted     int   `json:"inserted"`
	Updated      int   `json:"updated"`
	DurationMS   int64 `json:"duration_ms"`
}

// TriggerIngest handles POST /api/v1/admin/ingest. The pipeline skips itself
// when the catalog is already populated, so repeated calls are cheap.
//
// Responses:
//   - 200 with the run summary when Success is true
//   - 409 INGEST_RUNNING when a run is in progress
//   - 422 INGEST_FAILED when the dataset was unavailable or empty
//   - 503 DATABASE_UNAVAILABLE when the store failed
func (h *Handler) TriggerIngest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.ingester == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceDisabled, "Ingestion is not configured", nil)
		return
	}
	if h.ingester.Running() {
		respondError(w, r, http.StatusConflict, ErrCodeIngestRunning, "An ingestion run is already in progress", nil)
		return
	}

	res, err := h.ingester.Run(r.Context())
	if err != nil {
		respondStoreError(w, r, "Ingestion failed", err)
		return
	}

	summary := IngestResult{
		Success:      res.Success,
		Skipped:      res.Skipped,
		ProductCount: len(res.Products),
		Rows:         res.Stats.Rows,
		Duplicates:   res.Stats.DuplicatesDropped,
		NullIDs:      res.Stats.NullIDs,
		Inserted:     res.Stats.Inserted,
		Updated:      res.Stats.Updated,
		DurationMS:   res.Stats.Duration.Milliseconds(),
	}
	if !res.Success {
		respondErrorWithDetails(w, r, http.StatusUnprocessableEntity, ErrCodeIngestFailed,
			"Dataset could not be ingested", map[string]interface{}{"rows": summary.Rows}, nil)
		return
	}

	if !res.Skipped {
		h.InvalidateCatalogCache()
	}

	logging.Ctx(r.Context()).Info().
		Bool("skipped", summary.Skipped).
		Int("inserted", summary.Inserted).
		Int("updated", summary.Updated).
		Msg("ingestion triggered via API")

	respondSuccess(w, http.StatusOK, summary, start)
}
