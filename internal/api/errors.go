// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package api

// Error codes used in models.APIError.Code.
const (
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeMissingFields       = "MISSING_FIELDS"
	ErrCodeInvalidProduct      = "INVALID_PRODUCT"
	ErrCodeInvalidJSON         = "INVALID_JSON"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeRateLimited         = "RATE_LIMIT_EXCEEDED"
	ErrCodeDatabaseUnavailable = "DATABASE_UNAVAILABLE"
	ErrCodeDatabaseError       = "DATABASE_ERROR"
	ErrCodeModelUnavailable    = "MODEL_UNAVAILABLE"
	ErrCodeIngestFailed        = "INGEST_FAILED"
	ErrCodeIngestRunning       = "INGEST_RUNNING"
	ErrCodeServiceDisabled     = "SERVICE_DISABLED"
	ErrCodeInternal            = "INTERNAL_ERROR"
)
