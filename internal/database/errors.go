// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package database

import (
	"context"
	"errors"
	"fmt"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrStorageUnavailable marks failures to reach the store: timeouts,
	// network errors, server selection failures and an open circuit breaker.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrNotFound is returned when a single-document lookup matches nothing.
	ErrNotFound = errors.New("not found")
)

// IsStorageUnavailable reports whether err is a storage-unavailable failure.
func IsStorageUnavailable(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}

// classify wraps driver errors with the package sentinels.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrStorageUnavailable), errors.Is(err, ErrNotFound):
		return err
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case isUnavailable(err):
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	default:
		return err
	}
}

func isUnavailable(err error) bool {
	return mongo.IsTimeout(err) ||
		mongo.IsNetworkError(err) ||
		errors.Is(err, mongo.ErrClientDisconnected) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, gobreaker.ErrOpenState) ||
		errors.Is(err, gobreaker.ErrTooManyRequests)
}
