// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 10 * time.Second

// HTTPServer is the lifecycle subset of *http.Server.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPServiceConfig controls how the API server is stopped.
type HTTPServiceConfig struct {
	// Addr is only used in log lines.
	Addr string

	// ShutdownTimeout bounds the drain of in-flight requests. Default 10s.
	ShutdownTimeout time.Duration

	// BeforeShutdown runs once cancellation is seen and before the drain,
	// typically to fail the readiness probe.
	BeforeShutdown func()
}

// HTTPServerService runs the recommendation API under supervision.
// ListenAndServe runs in its own goroutine; Serve returns when it fails or
// when ctx is canceled and the drain has finished.
type HTTPServerService struct {
	server HTTPServer
	cfg    HTTPServiceConfig
	logger zerolog.Logger
}

// NewHTTPServerService wraps server.
//
//nolint:gocritic // zerolog.Logger is passed by value by convention
func NewHTTPServerService(server HTTPServer, cfg HTTPServiceConfig, logger zerolog.Logger) *HTTPServerService {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	return &HTTPServerService{
		server: server,
		cfg:    cfg,
		logger: logger.With().Str("service", "http-server").Logger(),
	}
}

// Serve implements suture.Service. A clean http.ErrServerClosed is not an
// error; any other listener failure is returned so suture restarts the
// server.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	listenErr := make(chan error, 1)
	go func() {
		err := h.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		listenErr <- err
	}()
	h.logger.Info().Str("addr", h.cfg.Addr).Msg("HTTP server listening")

	select {
	case err := <-listenErr:
		if err == nil {
			return nil
		}
		h.logger.Error().Err(err).Str("addr", h.cfg.Addr).Msg("HTTP server stopped unexpectedly")
		return fmt.Errorf("http server on %s: %w", h.cfg.Addr, err)

	case <-ctx.Done():
	}

	if h.cfg.BeforeShutdown != nil {
		h.cfg.BeforeShutdown()
	}

	// ctx is already done; the drain gets a fresh deadline.
	drainCtx, cancel := context.WithTimeout(context.Background(), h.cfg.ShutdownTimeout)
	defer cancel()

	began := time.Now()
	if err := h.server.Shutdown(drainCtx); err != nil {
		h.logger.Warn().Err(err).Dur("timeout", h.cfg.ShutdownTimeout).Msg("HTTP drain did not complete")
		return fmt.Errorf("http server shutdown: %w", err)
	}
	<-listenErr
	h.logger.Info().Dur("drain", time.Since(began)).Msg("HTTP server drained")
	return ctx.Err()
}

// String names the service in supervisor events.
func (h *HTTPServerService) String() string {
	return "http-server"
}
