// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

/*
Command server runs the Fashintel recommendation API.

It serves personalized product recommendations for a fashion catalog stored
in MongoDB, using a factorization model artifact trained offline and
published to a local artifact directory.

# Application Architecture

	Root ("fashintel")
	├── data-layer
	│   └── dataset-ingest (when INGEST_ON_STARTUP=true)
	├── model-layer
	│   └── artifact-reload (when RECOMMEND_RELOAD_INTERVAL > 0)
	└── api-layer
	    └── http-server

Startup order:

 1. Configuration: Koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog, JSON or console
 3. Catalog store: MongoDB, verified with a ping
 4. Result cache: in-memory LRU or Redis
 5. Recommendation engine over the artifact store
 6. Chi router and HTTP server
 7. Supervisor tree

# Configuration

Common environment variables:

	MONGODB_URI                 mongodb://localhost:27017
	MONGODB_DATABASE            fashion_db
	DATASET_PATH                data/fashion_dataset.csv
	INGEST_ON_STARTUP           true
	MODEL_DIR                   ./models
	RECOMMEND_RELOAD_INTERVAL   5m (0 disables periodic reloads)
	CACHE_BACKEND               memory | redis
	REDIS_URL                   redis://localhost:6379/0
	HTTP_PORT                   8000
	ADMIN_TOKEN                 bearer token for /admin and model reload
	LOG_LEVEL, LOG_FORMAT       info, json

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains
in-flight requests for SHUTDOWN_TIMEOUT before the MongoDB client and the
result cache are closed.
*/
package main
