// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package api

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/tomtom215/fashintel/internal/database"
	"github.com/tomtom215/fashintel/internal/models"
)

func TestListProducts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantIDs    []string
		wantFilter models.ProductFilter
	}{
		{
			name:       "first page",
			target:     "/api/v1/products",
			wantStatus: http.StatusOK,
			wantIDs:    []string{"1001", "1002"},
			wantFilter: models.ProductFilter{Page: 1, PerPage: 20},
		},
		{
			name:       "category is lowercased",
			target:     "/api/v1/products?category=SAREE",
			wantStatus: http.StatusOK,
			wantIDs:    []string{"1001"},
			wantFilter: models.ProductFilter{Category: "saree", Page: 1, PerPage: 20},
		},
		{
			name:       "search",
			target:     "/api/v1/products?search=shirt&page=0",
			wantStatus: http.StatusOK,
			wantIDs:    []string{"1002"},
			wantFilter: models.ProductFilter{Search: "shirt", Page: 1, PerPage: 20},
		},
		{
			name:       "bad page falls back to first",
			target:     "/api/v1/products?page=abc",
			wantStatus: http.StatusOK,
			wantIDs:    []string{"1001", "1002"},
			wantFilter: models.ProductFilter{Page: 1, PerPage: 20},
		},
		{
			name:       "search too long",
			target:     "/api/v1/products?search=" + strings.Repeat("x", 101),
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := newFakeStore()
			srv := newTestServer(t, newTestHandler(t, store, nil, nil), "")

			rec, env := doRequest(t, srv, http.MethodGet, tt.target, "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			if store.lastFilter != tt.wantFilter {
				t.Errorf("filter = %+v, want %+v", store.lastFilter, tt.wantFilter)
			}

			var page models.ProductPage
			decodeData(t, env, &page)
			var ids []string
			for _, p := range page.Products {
				ids = append(ids, p.ProductID)
			}
			if strings.Join(ids, ",") != strings.Join(tt.wantIDs, ",") {
				t.Errorf("ids = %v, want %v", ids, tt.wantIDs)
			}
			if page.Pagination.Page != 1 || page.Pagination.PerPage != 20 || page.Pagination.TotalPages != 1 {
				t.Errorf("pagination = %+v", page.Pagination)
			}
		})
	}
}

func TestListProducts_Cached(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	srv := newTestServer(t, newTestHandler(t, store, nil, nil), "")

	_, first := doRequest(t, srv, http.MethodGet, "/api/v1/products?category=shirt", "")
	_, second := doRequest(t, srv, http.MethodGet, "/api/v1/products?category=shirt", "")
	doRequest(t, srv, http.MethodGet, "/api/v1/products?category=saree", "")

	if store.listCalls != 2 {
		t.Errorf("store list calls = %d, want 2", store.listCalls)
	}
	if first.Metadata.Cached || !second.Metadata.Cached {
		t.Errorf("cached flags = %v/%v, want false/true", first.Metadata.Cached, second.Metadata.Cached)
	}
}

func TestListProducts_StoreUnavailable(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.err = fmt.Errorf("count products: %w", database.ErrStorageUnavailable)
	srv := newTestServer(t, newTestHandler(t, store, nil, nil), "")

	rec, env := doRequest(t, srv, http.MethodGet, "/api/v1/products", "")
	if rec.Code != http.StatusServiceUnavailable || env.Error == nil || env.Error.Code != ErrCodeDatabaseUnavailable {
		t.Errorf("got %d %+v", rec.Code, env.Error)
	}
}

func TestCategories(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	srv := newTestServer(t, newTestHandler(t, store, nil, nil), "")

	rec, env := doRequest(t, srv, http.MethodGet, "/api/v1/products/categories", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var cats []string
	decodeData(t, env, &cats)
	if strings.Join(cats, ",") != "saree,shirt" {
		t.Errorf("categories = %v", cats)
	}

	_, cached := doRequest(t, srv, http.MethodGet, "/api/v1/products/categories", "")
	if !cached.Metadata.Cached {
		t.Error("second categories call should be served from cache")
	}
}
