// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/fashintel/internal/database"
	"github.com/tomtom215/fashintel/internal/logging"
	"github.com/tomtom215/fashintel/internal/metrics"
	"github.com/tomtom215/fashintel/internal/models"
)

// LogInteraction handles POST /api/v1/interactions.
//
// Request body:
//
//	{"user_id": "alice_1a2b3c4d", "product_id": "1001", "interaction_type": "cart"}
//
// Responses:
//   - 201 with {"id": ..., "status": "logged"} on insert
//   - 400 MISSING_FIELDS when user_id, product_id or interaction_type is empty
//   - 400 VALIDATION_ERROR when a field is malformed or the type is unknown
//   - 400 INVALID_PRODUCT when the product does not exist
//   - 503 DATABASE_UNAVAILABLE when the store cannot be reached
func (h *Handler) LogInteraction(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.InteractionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeInvalidJSON, "Request body must be a JSON object", err)
		return
	}

	req.UserID = strings.TrimSpace(req.UserID)
	req.ProductID = strings.TrimSpace(req.ProductID)
	req.InteractionType = strings.ToLower(strings.TrimSpace(req.InteractionType))
	if req.UserID == "" || req.ProductID == "" || req.InteractionType == "" {
		respondError(w, r, http.StatusBadRequest, ErrCodeMissingFields, "Missing required fields", nil)
		return
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		respondErrorWithDetails(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout())
	defer cancel()

	product, err := h.db.FindProduct(ctx, req.ProductID)
	switch {
	case errors.Is(err, database.ErrNotFound):
		respondError(w, r, http.StatusBadRequest, ErrCodeInvalidProduct, "Invalid product_id", nil)
		return
	case err != nil:
		respondStoreError(w, r, "Failed to validate product", err)
		return
	}

	attrs := req.ProductAttributes
	if len(attrs) == 0 {
		attrs = product.Attributes
	}

	interaction := &models.Interaction{
		UserID:            req.UserID,
		ProductID:         req.ProductID,
		InteractionType:   req.InteractionType,
		Timestamp:         time.Now().UTC(),
		ProductAttributes: attrs,
	}
	id, err := h.db.InsertInteraction(ctx, interaction)
	if err != nil {
		respondStoreError(w, r, "Failed to log interaction", err)
		return
	}
	metrics.InteractionsLogged.WithLabelValues(req.InteractionType).Inc()

	logging.Ctx(r.Context()).Info().
		Str("user_id", sanitizeLogValue(req.UserID)).
		Str("product_id", sanitizeLogValue(req.ProductID)).
		Str("interaction_type", req.InteractionType).
		Msg("interaction logged")

	respondSuccess(w, http.StatusCreated, map[string]interface{}{
		"id":     id,
		"status": "logged",
	}, start)
}
