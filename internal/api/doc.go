// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

/*
Package api implements the HTTP interface of the recommendation service.

Routing uses go-chi/chi/v5. Every response is a models.APIResponse envelope:

	{"status": "success", "data": {...}, "metadata": {"timestamp": "..."}}
	{"status": "error", "error": {"code": "...", "message": "..."}, "metadata": {...}}

Endpoints:

	GET  /api/v1/health                          liveness summary
	GET  /api/v1/health/live                     process liveness
	GET  /api/v1/health/ready                    MongoDB ping and artifact state
	GET  /api/v1/recommendations/user/{userID}   ?top_n=8
	GET  /api/v1/recommendations/username/{username}
	GET  /api/v1/recommendations/status          artifact metadata and counters
	POST /api/v1/recommendations/reload          reload the artifact (admin)
	POST /api/v1/interactions                    log a user interaction
	GET  /api/v1/products                        ?search=&category=&page=
	GET  /api/v1/products/categories
	POST /api/v1/admin/ingest                    run dataset ingestion (admin)
	GET  /metrics                                Prometheus

Recommendation endpoints never fail because scoring failed: the engine returns
an empty list and the handler answers 200. Store outages surface as 503 with
code DATABASE_UNAVAILABLE.

Middleware order on API routes:

	RequestID -> RealIP -> Recoverer -> CORS -> RateLimit ->
	APISecurityHeaders -> PrometheusMetrics -> PerformanceMonitor -> Compression

Admin routes additionally require "Authorization: Bearer <token>" when
security.admin_token is configured.

Handlers depend on the small interfaces in handlers.go (CatalogStore,
Recommender, Ingester) so they can be exercised with httptest and in-memory
fakes.
*/
package api
