// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package models

import (
	"time"
)

// Envelope status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// APIResponse is the envelope every JSON endpoint returns:
//
//	{"status": "success", "data": {...}, "metadata": {"timestamp": "...", "query_time_ms": 4}}
//	{"status": "error", "error": {"code": "VALIDATION_ERROR", "message": "..."}, "metadata": {...}}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata describes how a response was produced. RequestID is set on
// error envelopes so clients can quote it when reporting a failure.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
}

// APIError carries a machine-readable code (VALIDATION_ERROR, NOT_FOUND,
// DATABASE_UNAVAILABLE, MODEL_UNAVAILABLE, ...) and a human message.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error implements error so handlers can pass an APIError around as one.
func (e *APIError) Error() string {
	return e.Code + ": " + e.Message
}

// NewSuccess wraps data for a request that started at start.
func NewSuccess(data interface{}, start time.Time, cached bool) *APIResponse {
	return &APIResponse{
		Status: StatusSuccess,
		Data:   data,
		Metadata: Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Cached:      cached,
		},
	}
}

// NewError builds an error envelope.
func NewError(apiErr *APIError, requestID string) *APIResponse {
	return &APIResponse{
		Status:   StatusError,
		Metadata: Metadata{Timestamp: time.Now().UTC(), RequestID: requestID},
		Error:    apiErr,
	}
}

// PaginationInfo describes one page of a catalog listing.
type PaginationInfo struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalCount int64 `json:"total_count"`
	TotalPages int   `json:"total_pages"`
	PageRange  []int `json:"page_range"`
}

// NewPaginationInfo computes the page count and a window of at most
// maxLinks page numbers around page. An empty catalog has one page.
func NewPaginationInfo(page, perPage int, total int64, maxLinks int) PaginationInfo {
	info := PaginationInfo{Page: page, PerPage: perPage, TotalCount: total, TotalPages: 1}
	if perPage > 0 && total > 0 {
		info.TotalPages = int((total + int64(perPage) - 1) / int64(perPage))
	}

	first := max(1, page-maxLinks/2)
	last := min(info.TotalPages, first+maxLinks-1)
	first = max(1, min(first, last-maxLinks+1))

	info.PageRange = make([]int, 0, max(0, last-first+1))
	for p := first; p <= last; p++ {
		info.PageRange = append(info.PageRange, p)
	}
	return info
}
