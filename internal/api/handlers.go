// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package api

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/tomtom215/fashintel/internal/cache"
	"github.com/tomtom215/fashintel/internal/config"
	"github.com/tomtom215/fashintel/internal/database"
	"github.com/tomtom215/fashintel/internal/ingest"
	"github.com/tomtom215/fashintel/internal/middleware"
	"github.com/tomtom215/fashintel/internal/models"
	"github.com/tomtom215/fashintel/internal/recommend"
)

// CatalogStore is the slice of the MongoDB store the handlers use.
type CatalogStore interface {
	Ping(ctx context.Context) error
	BreakerState() string
	FindProduct(ctx context.Context, productID string) (*models.Product, error)
	ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, int64, error)
	Categories(ctx context.Context) ([]string, error)
	InsertInteraction(ctx context.Context, in *models.Interaction) (string, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Recommender serves recommendations from the loaded artifact.
type Recommender interface {
	Recommend(ctx context.Context, userID string, topN int) *recommend.Response
	Reload(ctx context.Context) (*recommend.ArtifactMetadata, error)
	Status() recommend.Status
}

// Ingester runs the dataset ingestion pipeline.
type Ingester interface {
	Run(ctx context.Context) (*ingest.Result, error)
	Running() bool
	LastResult() *ingest.Result
}

var (
	_ CatalogStore = (*database.DB)(nil)
	_ Recommender  = (*recommend.Engine)(nil)
	_ Ingester     = (*ingest.Pipeline)(nil)
)

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers_health.go: liveness and readiness
//   - handlers_recommend.go: recommendations, status and reload
//   - handlers_interactions.go: interaction logging
//   - handlers_products.go: catalog listing and categories
//   - handlers_admin.go: on-demand ingestion
type Handler struct {
	db        CatalogStore
	engine    Recommender
	ingester  Ingester
	config    *config.Config
	startTime time.Time
	cache     *cache.Cache
	perfMon   *middleware.PerformanceMonitor
	version   string
	draining  atomic.Bool
}

// Deps groups the handler dependencies. Engine and Ingester may be nil, in
// which case their endpoints answer 503.
type Deps struct {
	DB       CatalogStore
	Engine   Recommender
	Ingester Ingester
	Config   *config.Config
	Version  string
}

// NewHandler creates the API handler.
//
// The handler initializes with:
//   - 60-second TTL cache for catalog listings and categories
//   - Performance monitor tracking the last 1000 requests
//   - Start time for uptime calculations
func NewHandler(deps Deps) *Handler {
	version := deps.Version
	if version == "" {
		version = "dev"
	}
	return &Handler{
		db:        deps.DB,
		engine:    deps.Engine,
		ingester:  deps.Ingester,
		config:    deps.Config,
		startTime: time.Now(),
		cache:     cache.New(time.Minute),
		perfMon:   middleware.NewPerformanceMonitor(1000),
		version:   version,
	}
}

// Close stops the handler's background cache cleanup.
func (h *Handler) Close() {
	h.cache.Close()
}

// PerformanceMonitor returns the request latency monitor.
func (h *Handler) PerformanceMonitor() *middleware.PerformanceMonitor {
	return h.perfMon
}

// BeginDrain makes the readiness probe fail so load balancers stop routing
// here while the server finishes in-flight requests.
func (h *Handler) BeginDrain() {
	h.draining.Store(true)
}

// InvalidateCatalogCache drops cached listings, e.g. after an ingestion run.
func (h *Handler) InvalidateCatalogCache() {
	h.cache.Clear()
}

func (h *Handler) pageSize() int {
	if h.config != nil && h.config.API.DefaultPageSize > 0 {
		return h.config.API.DefaultPageSize
	}
	return 20
}

func (h *Handler) pageLinks() int {
	if h.config != nil && h.config.API.PageLinks > 0 {
		return h.config.API.PageLinks
	}
	return 10
}

func (h *Handler) requestTimeout() time.Duration {
	if h.config != nil && h.config.Server.Timeout > 0 {
		return h.config.Server.Timeout
	}
	return 30 * time.Second
}
