// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package recommend

import (
	"context"
	"time"
)

// InteractionType classifies a user-product interaction for implicit feedback.
type InteractionType string

const (
	// InteractionPurchase is a completed purchase.
	InteractionPurchase InteractionType = "purchase"
	// InteractionCart is an add-to-cart.
	InteractionCart InteractionType = "cart"
	// InteractionLike is an explicit like.
	InteractionLike InteractionType = "like"
	// InteractionClick is a product page view.
	InteractionClick InteractionType = "click"
	// InteractionDislike is an explicit dislike. It carries no weight.
	InteractionDislike InteractionType = "dislike"
)

// InteractionTypes lists every valid interaction type, strongest signal first.
var InteractionTypes = []InteractionType{
	InteractionPurchase,
	InteractionCart,
	InteractionLike,
	InteractionClick,
	InteractionDislike,
}

// Weight returns the implicit feedback weight of the interaction type.
func (t InteractionType) Weight() float64 {
	switch t {
	case InteractionPurchase:
		return 5.0
	case InteractionCart:
		return 3.0
	case InteractionLike:
		return 2.0
	case InteractionClick:
		return 1.0
	default:
		return 0.0
	}
}

// Valid reports whether t is one of the known interaction types.
func (t InteractionType) Valid() bool {
	switch t {
	case InteractionPurchase, InteractionCart, InteractionLike, InteractionClick, InteractionDislike:
		return true
	default:
		return false
	}
}

// String returns the wire name of the interaction type.
func (t InteractionType) String() string {
	return string(t)
}

// Interaction is a single logged user-product event.
type Interaction struct {
	UserID    string          `json:"user_id"`
	ProductID string          `json:"product_id"`
	Type      InteractionType `json:"interaction_type"`
	Timestamp time.Time       `json:"timestamp"`
}

// Defaults applied when a joined catalog product lacks a field.
const (
	DefaultTitle    = "Unknown"
	DefaultValue    = "unknown"
	DefaultImageURL = "/images/default.jpg"
)

// CatalogProduct is the subset of a catalog product the scorer joins against.
// Empty fields are replaced by the defaults above when a recommendation is built.
type CatalogProduct struct {
	ProductID string
	Title     string
	Category  string
	Brand     string
	Color     string
	ImageURL  string
}

// Catalog resolves product ids against the live product store.
type Catalog interface {
	// FindProducts returns the products that exist for the given ids, keyed by
	// product id. Missing ids are simply absent from the result.
	FindProducts(ctx context.Context, productIDs []string) (map[string]CatalogProduct, error)
}

// Recommendation is one ranked product returned to callers.
type Recommendation struct {
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	Category  string  `json:"category"`
	Brand     string  `json:"brand"`
	Color     string  `json:"color"`
	ImageURL  string  `json:"image_url"`
	Score     float64 `json:"score"`
}

// Response is the engine's answer for a single request.
type Response struct {
	Recommendations []Recommendation `json:"recommendations"`
	Metadata        ResponseMetadata `json:"metadata"`
}

// ResponseMetadata describes how a response was produced.
type ResponseMetadata struct {
	UserID          string        `json:"user_id"`
	TopN            int           `json:"top_n"`
	Strategy        StrategyKind  `json:"strategy,omitempty"`
	ArtifactVersion int           `json:"artifact_version,omitempty"`
	CacheHit        bool          `json:"cache_hit"`
	Latency         time.Duration `json:"-"`
	LatencyMS       int64         `json:"latency_ms"`
	GeneratedAt     time.Time     `json:"generated_at"`
}

// Status reports the engine's artifact and traffic state.
type Status struct {
	ArtifactLoaded   bool              `json:"artifact_loaded"`
	Artifact         *ArtifactMetadata `json:"artifact,omitempty"`
	LastLoadedAt     *time.Time        `json:"last_loaded_at,omitempty"`
	LastLoadError    string            `json:"last_load_error,omitempty"`
	TotalRequests    int64             `json:"total_requests"`
	ColdStarts       int64             `json:"cold_starts"`
	WarmStarts       int64             `json:"warm_starts"`
	EmptyResponses   int64             `json:"empty_responses"`
	CacheHits        int64             `json:"cache_hits"`
	CacheMisses      int64             `json:"cache_misses"`
	ResultCacheOn    bool              `json:"result_cache_enabled"`
	ArtifactReloads  int64             `json:"artifact_reloads"`
	ArtifactFailures int64             `json:"artifact_failures"`
	ResultCache      *ResultCacheStats `json:"result_cache,omitempty"`
}

// ResultCacheStats is the occupancy of a result cache that tracks its own
// counters. Backends without local state, such as redis, report none.
type ResultCacheStats struct {
	Backend   string `json:"backend"`
	Entries   int    `json:"entries"`
	Hits      int64  `json:"hits"`
	Misses    int64  `json:"misses"`
	Evictions int64  `json:"evictions"`
}
