// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/fashintel/internal/api"
	"github.com/tomtom215/fashintel/internal/config"
	"github.com/tomtom215/fashintel/internal/database"
	"github.com/tomtom215/fashintel/internal/ingest"
	"github.com/tomtom215/fashintel/internal/logging"
	"github.com/tomtom215/fashintel/internal/supervisor"
	"github.com/tomtom215/fashintel/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Service:   "fashintel",
		Version:   version,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})
	logger := logging.Logger()

	logger.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("database", cfg.Database.Name).
		Str("dataset", cfg.Dataset.Path).
		Msg("Starting Fashintel with supervisor tree")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	connectCtx, connectCancel := context.WithTimeout(ctx, cfg.Database.ConnectTimeout+cfg.Database.ServerSelectionTimeout)
	db, err := database.New(connectCtx, &cfg.Database, logger)
	connectCancel()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to catalog store")
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		if err := db.Close(closeCtx); err != nil {
			logger.Error().Err(err).Msg("Error closing database")
		}
	}()

	if err := db.EnsureInteractionIndexes(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to create interaction indexes")
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// === DATA LAYER ===

	pipeline := ingest.NewPipeline(&cfg.Dataset, db, logger)
	if cfg.Dataset.IngestOnStartup {
		tree.Add(supervisor.LayerData, services.NewIngestService(pipeline, 5, logger))
		logger.Info().Str("path", cfg.Dataset.Path).Msg("Startup ingestion added to supervisor tree")
	}

	// === MODEL LAYER ===

	rec, err := initRecommend(ctx, cfg, db, logger, tree)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize recommendation engine")
	}
	defer func() {
		if err := rec.Close(); err != nil {
			logger.Error().Err(err).Msg("Error closing result cache")
		}
	}()

	// === API LAYER ===

	handler := api.NewHandler(api.Deps{
		DB:       db,
		Engine:   rec.Engine,
		Ingester: pipeline,
		Config:   cfg,
		Version:  version,
	})
	defer handler.Close()

	mw := api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security))
	router := api.NewRouter(handler, mw)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}
	tree.Add(supervisor.LayerAPI, services.NewHTTPServerService(server, services.HTTPServiceConfig{
		Addr:            server.Addr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		BeforeShutdown:  handler.BeginDrain,
	}, logger))
	logger.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===

	services := tree.Services()
	logger.Info().
		Strs("data_layer", services[supervisor.LayerData]).
		Strs("model_layer", services[supervisor.LayerModel]).
		Strs("api_layer", services[supervisor.LayerAPI]).
		Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info().Msg("Shutdown signal received, waiting for supervisor to finish...")
		serveErr = <-errCh
	case serveErr = <-errCh:
		cancel()
	}
	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		logger.Error().Err(serveErr).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logger.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logger.Info().Msg("Application stopped gracefully")
}
