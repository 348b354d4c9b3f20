// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/fashintel/internal/cache"
	"github.com/tomtom215/fashintel/internal/models"
)

const (
	maxSearchLen    = 100
	categoriesKey   = "catalog:categories"
	productsKeyBase = "catalog:products"
)

// productsQuery is the cache key input for a listing.
type productsQuery struct {
	Search   string `json:"search"`
	Category string `json:"category"`
	Page     int    `json:"page"`
	PerPage  int    `json:"per_page"`
}

// ListProducts handles GET /api/v1/products.
//
// Query parameters:
//   - search: case-insensitive title substring
//   - category: exact category match
//   - page: 1-based page number (default 1)
//
// Pages hold 20 products by default. Listings are cached for one minute.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	q := productsQuery{
		Search:   strings.TrimSpace(r.URL.Query().Get("search")),
		Category: strings.ToLower(strings.TrimSpace(r.URL.Query().Get("category"))),
		Page:     max(1, getIntParam(r, "page", 1)),
		PerPage:  h.pageSize(),
	}
	if len(q.Search) > maxSearchLen {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "search must be at most 100 characters", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout())
	defer cancel()

	// Concurrent misses for the same query share one store read.
	v, cached, err := h.cache.GetOrLoad(cache.GenerateKey(productsKeyBase, q), func() (interface{}, error) {
		products, total, err := h.db.ListProducts(ctx, models.ProductFilter{
			Search:   q.Search,
			Category: q.Category,
			Page:     q.Page,
			PerPage:  q.PerPage,
		})
		if err != nil {
			return nil, err
		}
		return &models.ProductPage{
			Products:   products,
			Pagination: models.NewPaginationInfo(q.Page, q.PerPage, total, h.pageLinks()),
		}, nil
	})
	if err != nil {
		respondStoreError(w, r, "Failed to list products", err)
		return
	}
	if cached {
		respondCached(w, v, start)
		return
	}
	respondSuccess(w, http.StatusOK, v, start)
}

// Categories handles GET /api/v1/products/categories.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout())
	defer cancel()

	cats, cached, err := h.cache.GetOrLoad(categoriesKey, func() (interface{}, error) {
		return h.db.Categories(ctx)
	})
	if err != nil {
		respondStoreError(w, r, "Failed to list categories", err)
		return
	}
	if cached {
		respondCached(w, cats, start)
		return
	}
	respondSuccess(w, http.StatusOK, cats, start)
}
