// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto at
package initialization and exposed by the HTTP server at /metrics.

# Available Metrics

HTTP Metrics:
  - http_requests_total: Total HTTP requests (counter)
    Labels: method, endpoint, status
  - http_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - http_requests_in_flight: Active requests (gauge)
  - http_rate_limit_hits_total: Rate limited requests (counter)

Database Metrics:
  - mongo_operation_duration_seconds: Operation latency (histogram)
    Labels: operation, collection
  - mongo_operation_errors_total: Failed operations (counter)
    Labels: operation, collection, error_type (timeout, canceled, other)

Ingestion Metrics:
  - ingest_runs_total: Runs by outcome (ingested, skipped, failed)
  - ingest_duration_seconds: Run duration (histogram)
  - ingest_products_total: Products written (inserted, updated)
  - ingest_duplicates_dropped_total: Duplicate dataset rows dropped

Recommendation Metrics:
  - recommendations_served_total: Requests by strategy (cold_start, warm_start, none)
  - recommendations_empty_total: Empty responses by reason
  - recommendation_duration_seconds: Scoring latency by strategy
  - recommendation_catalog_misses_total: Ranked products missing from the catalog
  - artifact_loads_total: Artifact loads by result
  - artifact_version: Currently loaded artifact version
  - artifact_load_duration_seconds: Artifact load latency

Cache and Resilience Metrics:
  - cache_hits_total, cache_misses_total, cache_errors_total: Labels: cache_type
  - cache_entries, cache_evictions_total: in-process cache only
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total: Labels: name, result
  - circuit_breaker_state_transitions_total: Labels: name, from_state, to_state

# Usage

	start := time.Now()
	err := collection.FindOne(ctx, filter).Decode(&doc)
	metrics.RecordDBOperation("find_one", "products", time.Since(start), err)

# Prometheus Configuration

	scrape_configs:
	  - job_name: 'fashintel'
	    static_configs:
	      - targets: ['localhost:8000']
	    metrics_path: '/metrics'
	    scrape_interval: 15s
*/
package metrics
