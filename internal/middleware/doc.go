// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

/*
Package middleware provides the net/http middleware shared by the API router.

All middleware has the chi signature func(http.Handler) http.Handler:

  - RequestID: assigns X-Request-ID and seeds the logging context
  - PrometheusMetrics: request count, latency and in-flight gauge, labelled
    by chi route pattern
  - PerformanceMonitor: sliding window of recent latencies reported by
    GET /api/v1/recommendations/status
  - Compression: gzip for JSON and text responses when the client accepts it

Route labels come from chi.RouteContext, so these must run inside the chi
router (r.Use) rather than wrap it from outside; the pattern is only known
after routing has completed, which is the case once next.ServeHTTP returns.
*/
package middleware
