// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type ctxKey int

const (
	keyRequestID ctxKey = iota
	keyCorrelationID
	keyUserID
	keyLogger
)

// GenerateRequestID returns a random UUID for X-Request-ID.
func GenerateRequestID() string {
	return uuid.NewString()
}

// GenerateCorrelationID returns a short id that ties together the log
// lines of one request even when the client supplied its own request id.
func GenerateCorrelationID() string {
	return uuid.NewString()[:8]
}

func withString(ctx context.Context, key ctxKey, v string) context.Context {
	return context.WithValue(ctx, key, v)
}

func stringFrom(ctx context.Context, key ctxKey) string {
	v, _ := ctx.Value(key).(string)
	return v
}

// ContextWithRequestID stores the request id.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return withString(ctx, keyRequestID, id)
}

// RequestIDFromContext returns the request id or "".
func RequestIDFromContext(ctx context.Context) string {
	return stringFrom(ctx, keyRequestID)
}

// ContextWithCorrelationID stores the correlation id.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return withString(ctx, keyCorrelationID, id)
}

// CorrelationIDFromContext returns the correlation id or "".
func CorrelationIDFromContext(ctx context.Context) string {
	return stringFrom(ctx, keyCorrelationID)
}

// ContextWithUserID stores the user a recommendation request is for, so
// engine and catalog logs can be tied back to it.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return withString(ctx, keyUserID, userID)
}

// UserIDFromContext returns the user id or "".
func UserIDFromContext(ctx context.Context) string {
	return stringFrom(ctx, keyUserID)
}

// ContextWithLogger stores a logger that Ctx will use instead of the
// global one.
//
//nolint:gocritic // zerolog.Logger is passed by value by convention
func ContextWithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, keyLogger, logger)
}

// LoggerFromContext returns the stored logger, or the global logger.
func LoggerFromContext(ctx context.Context) zerolog.Logger {
	if l, ok := ctx.Value(keyLogger).(zerolog.Logger); ok {
		return l
	}
	return Logger()
}

// Ctx returns a logger carrying request_id, correlation_id and user_id
// from ctx when they are set.
//
//	logging.Ctx(ctx).Warn().Err(err).Msg("catalog lookup failed")
func Ctx(ctx context.Context) *zerolog.Logger {
	base := LoggerFromContext(ctx)
	zctx := base.With()
	for _, f := range [...]struct {
		key   ctxKey
		field string
	}{
		{keyRequestID, "request_id"},
		{keyCorrelationID, "correlation_id"},
		{keyUserID, "user_id"},
	} {
		if v := stringFrom(ctx, f.key); v != "" {
			zctx = zctx.Str(f.field, v)
		}
	}
	l := zctx.Logger()
	return &l
}
