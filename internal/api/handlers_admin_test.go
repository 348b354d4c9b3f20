// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/tomtom215/fashintel/internal/database"
	"github.com/tomtom215/fashintel/internal/ingest"
	"github.com/tomtom215/fashintel/internal/models"
)

func TestTriggerIngest(t *testing.T) {
	t.Parallel()

	ok := &ingest.Result{
		Success:  true,
		Products: []models.ProductSummary{{ProductID: "1"}, {ProductID: "2"}},
		Stats:    ingest.Stats{Rows: 3, DuplicatesDropped: 1, Inserted: 2},
	}
	tests := []struct {
		name       string
		ingester   *fakeIngester
		wantStatus int
		wantCode   string
	}{
		{name: "ingested", ingester: &fakeIngester{result: ok}, wantStatus: http.StatusOK},
		{name: "skipped", ingester: &fakeIngester{result: &ingest.Result{Success: true, Skipped: true}}, wantStatus: http.StatusOK},
		{name: "dataset missing", ingester: &fakeIngester{result: &ingest.Result{}}, wantStatus: http.StatusUnprocessableEntity, wantCode: ErrCodeIngestFailed},
		{name: "already running", ingester: &fakeIngester{running: true, result: ok}, wantStatus: http.StatusConflict, wantCode: ErrCodeIngestRunning},
		{
			name:       "store unavailable",
			ingester:   &fakeIngester{result: &ingest.Result{}, err: fmt.Errorf("insert mappings: %w", database.ErrStorageUnavailable)},
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   ErrCodeDatabaseUnavailable,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := newTestServer(t, newTestHandler(t, newFakeStore(), nil, tt.ingester), "")
			rec, env := doRequest(t, srv, http.MethodPost, "/api/v1/admin/ingest", "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantCode != "" {
				if env.Error == nil || env.Error.Code != tt.wantCode {
					t.Errorf("error = %+v, want %s", env.Error, tt.wantCode)
				}
				return
			}

			var summary IngestResult
			decodeData(t, env, &summary)
			if summary.ProductCount != len(tt.ingester.result.Products) {
				t.Errorf("product_count = %d", summary.ProductCount)
			}
			if summary.Skipped != tt.ingester.result.Skipped {
				t.Errorf("skipped = %v", summary.Skipped)
			}
		})
	}
}

func TestTriggerIngest_NotConfigured(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, newTestHandler(t, newFakeStore(), nil, nil), "")
	rec, _ := doRequest(t, srv, http.MethodPost, "/api/v1/admin/ingest", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestTriggerIngest_ClearsCatalogCache(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	ing := &fakeIngester{result: &ingest.Result{Success: true, Stats: ingest.Stats{Inserted: 1}}}
	srv := newTestServer(t, newTestHandler(t, store, nil, ing), "")

	doRequest(t, srv, http.MethodGet, "/api/v1/products", "")
	doRequest(t, srv, http.MethodPost, "/api/v1/admin/ingest", "")
	_, env := doRequest(t, srv, http.MethodGet, "/api/v1/products", "")

	if env.Metadata.Cached {
		t.Error("listing after ingestion should not come from cache")
	}
	if store.listCalls != 2 {
		t.Errorf("list calls = %d, want 2", store.listCalls)
	}
}
