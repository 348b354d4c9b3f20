// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/fashintel/internal/database"
	"github.com/tomtom215/fashintel/internal/logging"
	"github.com/tomtom215/fashintel/internal/middleware"
	"github.com/tomtom215/fashintel/internal/recommend"
)

// maxUsernameLen bounds the username path parameter.
const maxUsernameLen = 150

// RecommendationStatus is the body of GET /api/v1/recommendations/status.
type RecommendationStatus struct {
	Engine       recommend.Status           `json:"engine"`
	CatalogCache CacheStatus                `json:"catalog_cache"`
	Endpoints    []middleware.EndpointStats `json:"endpoints"`
}

// CacheStatus summarizes the catalog listing cache.
type CacheStatus struct {
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	Evictions int64   `json:"evictions"`
	Keys      int64   `json:"keys"`
	HitRate   float64 `json:"hit_rate_percent"`
}

// RecommendForUser handles GET /api/v1/recommendations/user/{userID}.
//
// Query parameters:
//   - top_n: number of recommendations (default from config, capped at max_top_n)
//
// The response is 200 with a possibly empty list; scoring failures are
// logged by the engine and never surface as errors.
func (h *Handler) RecommendForUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.engine == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceDisabled, "Recommendations are not enabled", nil)
		return
	}

	userID := strings.TrimSpace(chi.URLParam(r, "userID"))
	if userID == "" {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "user_id is required", nil)
		return
	}

	topN, ok := parseTopN(w, r)
	if !ok {
		return
	}

	h.respondRecommendations(w, r, userID, topN, start)
}

// RecommendForUsername handles GET /api/v1/recommendations/username/{username}.
// The username is resolved to its user_id through the users collection.
func (h *Handler) RecommendForUsername(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.engine == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceDisabled, "Recommendations are not enabled", nil)
		return
	}

	username := strings.TrimSpace(chi.URLParam(r, "username"))
	if username == "" || len(username) > maxUsernameLen {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "username is required and must be at most 150 characters", nil)
		return
	}

	topN, ok := parseTopN(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout())
	defer cancel()

	user, err := h.db.FindUserByUsername(ctx, username)
	switch {
	case errors.Is(err, database.ErrNotFound):
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "User not found", nil)
		return
	case err != nil:
		respondStoreError(w, r, "Failed to look up user", err)
		return
	case user.UserID == "":
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "User has no user_id", nil)
		return
	}

	h.respondRecommendations(w, r, user.UserID, topN, start)
}

func (h *Handler) respondRecommendations(w http.ResponseWriter, r *http.Request, userID string, topN int, start time.Time) {
	ctx := logging.ContextWithUserID(r.Context(), sanitizeLogValue(userID))
	ctx, cancel := context.WithTimeout(ctx, h.requestTimeout())
	defer cancel()

	resp := h.engine.Recommend(ctx, userID, topN)

	logging.Ctx(ctx).Debug().
		Int("returned", len(resp.Recommendations)).
		Str("strategy", string(resp.Metadata.Strategy)).
		Msg("recommendations served")

	respondSuccess(w, http.StatusOK, resp, start)
}

// RecommendationStatus handles GET /api/v1/recommendations/status.
func (h *Handler) RecommendationStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.engine == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceDisabled, "Recommendations are not enabled", nil)
		return
	}

	respondSuccess(w, http.StatusOK, RecommendationStatus{
		Engine:       h.engine.Status(),
		CatalogCache: h.catalogCacheStatus(),
		Endpoints:    h.perfMon.Stats(),
	}, start)
}

// ReloadModel handles POST /api/v1/recommendations/reload. It reloads the
// newest artifact version and clears cached results. On failure the
// previously loaded artifact keeps serving.
func (h *Handler) ReloadModel(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.engine == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceDisabled, "Recommendations are not enabled", nil)
		return
	}

	meta, err := h.engine.Reload(r.Context())
	switch {
	case errors.Is(err, recommend.ErrArtifactNotFound):
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "No model artifact found", err)
		return
	case err != nil:
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeModelUnavailable, "Model artifact could not be loaded", err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Int("version", meta.Version).
		Msg("model artifact reloaded via API")

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"reloaded": true,
		"artifact": meta,
	}, start)
}

func (h *Handler) catalogCacheStatus() CacheStatus {
	stats := h.cache.GetStats()
	return CacheStatus{
		Hits:      stats.Hits,
		Misses:    stats.Misses,
		Evictions: stats.Evictions,
		Keys:      stats.TotalKeys,
		HitRate:   h.cache.HitRate(),
	}
}

// parseTopN reads the optional top_n query parameter. Zero means "use the
// configured default". It writes a 400 and returns false on bad input.
func parseTopN(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("top_n"))
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		respondErrorWithDetails(w, r, http.StatusBadRequest, ErrCodeValidation,
			"top_n must be a positive integer",
			map[string]interface{}{"field": "top_n", "value": raw}, nil)
		return 0, false
	}
	return n, true
}
