// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

/*
Package supervisor runs the server's long-lived services under suture v4.

The tree has three layers so that a failure in one does not restart the others:

	Root ("fashintel")
	├── data-layer
	│   └── IngestService (startup dataset ingestion, runs once)
	├── model-layer
	│   └── ReloadService (periodic artifact reload)
	└── api-layer
	    └── HTTPServerService

Usage:

	tree, err := supervisor.NewSupervisorTree(slogger, supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.Add(supervisor.LayerData, services.NewIngestService(pipeline, 5, logger))
	tree.Add(supervisor.LayerModel, services.NewReloadService(engine, reloadCfg, logger))
	tree.Add(supervisor.LayerAPI, services.NewHTTPServerService(server, services.HTTPServiceConfig{Addr: ":8000"}, logger))

	errCh := tree.ServeBackground(ctx)

# Restart Behavior

Each failure increments a counter that decays over FailureDecay seconds.
Above FailureThreshold the supervisor waits FailureBackoff before the next
restart. A service that returns suture.ErrDoNotRestart is removed instead of
restarted; the ingest service uses this once ingestion has finished.

Supervisor events (start, failure, backoff, stop timeout) are logged through
sutureslog onto the process slog logger, which forwards to zerolog.

MongoDB and Redis clients are not supervised. Their drivers reconnect on
their own and the catalog circuit breaker isolates outages.

# Shutdown

Canceling the context passed to Serve stops every layer. Services that do not
return within ShutdownTimeout are listed by UnstoppedServiceReport.
*/
package supervisor
