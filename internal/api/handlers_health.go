// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package api

import (
	"context"
	"net/http"
	"time"
)

// healthPingTimeout bounds the MongoDB ping done by health probes.
const healthPingTimeout = 2 * time.Second

// HealthStatus is the body of GET /api/v1/health and /health/ready.
type HealthStatus struct {
	Status            string  `json:"status"`
	Version           string  `json:"version"`
	DatabaseConnected bool    `json:"database_connected"`
	CircuitBreaker    string  `json:"circuit_breaker"`
	ArtifactLoaded    bool    `json:"artifact_loaded"`
	ArtifactVersion   int     `json:"artifact_version,omitempty"`
	IngestRunning     bool    `json:"ingest_running"`
	Draining          bool    `json:"draining,omitempty"`
	Uptime            float64 `json:"uptime_seconds"`
}

// Health handles GET /api/v1/health. It always answers 200; Status is
// "degraded" when MongoDB is unreachable or no artifact is loaded.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	health := h.healthStatus(r.Context())

	health.Status = "healthy"
	if !health.DatabaseConnected || !health.ArtifactLoaded {
		health.Status = "degraded"
	}

	respondSuccess(w, http.StatusOK, health, start)
}

// HealthLive handles GET /api/v1/health/live. It reports process liveness
// only and never touches dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"alive":          true,
		"uptime_seconds": time.Since(h.startTime).Seconds(),
	}, time.Now())
}

// HealthReady handles GET /api/v1/health/ready. The service is ready when
// MongoDB answers a ping and shutdown has not begun. A missing artifact
// does not block readiness because recommendation requests degrade to
// empty lists.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	health := h.healthStatus(r.Context())

	status := http.StatusOK
	switch {
	case health.Draining:
		status = http.StatusServiceUnavailable
		health.Status = "draining"
	case !health.DatabaseConnected:
		status = http.StatusServiceUnavailable
		health.Status = "not_ready"
	default:
		health.Status = "ready"
	}

	respondSuccess(w, status, health, start)
}

func (h *Handler) healthStatus(ctx context.Context) HealthStatus {
	health := HealthStatus{
		Version:        h.version,
		CircuitBreaker: "disabled",
		Uptime:         time.Since(h.startTime).Seconds(),
		Draining:       h.draining.Load(),
	}

	if h.db != nil {
		pingCtx, cancel := context.WithTimeout(ctx, healthPingTimeout)
		health.DatabaseConnected = h.db.Ping(pingCtx) == nil
		cancel()
		health.CircuitBreaker = h.db.BreakerState()
	}

	if h.engine != nil {
		st := h.engine.Status()
		health.ArtifactLoaded = st.ArtifactLoaded
		if st.Artifact != nil {
			health.ArtifactVersion = st.Artifact.Version
		}
	}

	if h.ingester != nil {
		health.IngestRunning = h.ingester.Running()
	}
	return health
}
