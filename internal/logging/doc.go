// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

// Package logging provides the zerolog-based logging used across Fashintel.
//
// A global logger is configured once from main with Init. Components take a
// zerolog.Logger in their constructors and tag it with a "component" field;
// request-scoped code uses Ctx(ctx) to pick up request and correlation IDs
// set by the HTTP middleware.
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("addr", addr).Msg("server listening")
//	logging.Ctx(ctx).Warn().Err(err).Msg("catalog lookup failed")
//
// Every event carries the service name and build version from Config, and
// is counted by level in the log_events_total metric.
//
// SlogHandler bridges zerolog to log/slog for libraries such as sutureslog.
// RedactURI masks credentials in connection strings before they are logged.
//
// Always terminate event chains with Msg or Send; an unterminated event is
// never written.
package logging
