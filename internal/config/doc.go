// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

/*
Package config provides centralized configuration management for Fashintel.

Configuration is layered with Koanf v2: built-in defaults, then an optional
YAML file, then environment variables. The result is validated before it is
returned.

# Config File

The first file found among CONFIG_PATH, ./config.yaml, ./config.yml,
/etc/fashintel/config.yaml and /etc/fashintel/config.yml is loaded:

	database:
	  uri: mongodb://mongo:27017/
	  name: fashion_db
	dataset:
	  path: /data/fashion_dataset.csv
	recommend:
	  model_dir: /data/models
	  default_top_n: 8
	cache:
	  backend: redis
	  redis_url: redis://redis:6379/0

# Environment Variables

Database:
  - MONGODB_URI: Connection string (default: mongodb://localhost:27017/)
  - MONGODB_DATABASE: Database name (default: fashion_db)
  - MONGODB_CONNECT_TIMEOUT, MONGODB_SOCKET_TIMEOUT, MONGODB_SERVER_SELECTION_TIMEOUT (default: 5s)
  - MONGODB_MAX_POOL_SIZE: Connection pool size (default: 10)

Dataset:
  - DATASET_PATH: Product CSV (default: data/fashion_dataset.csv)
  - INGEST_ON_STARTUP: Run ingestion when the server starts (default: true)

Recommendations:
  - MODEL_DIR, MODEL_NAME: Artifact store location (default: ./models, recommender)
  - RECOMMEND_DEFAULT_TOP_N (default: 8), RECOMMEND_MAX_TOP_N (default: 100)
  - RECOMMEND_RELOAD_INTERVAL: Artifact refresh period, 0 disables (default: 5m)
  - RECOMMEND_CACHE_ENABLED, RECOMMEND_CACHE_TTL (default: true, 5m)

Cache:
  - CACHE_BACKEND: memory or redis (default: memory)
  - REDIS_URL: Required for the redis backend

Server:
  - HTTP_HOST, HTTP_PORT (default: 0.0.0.0:8000)
  - ENVIRONMENT: development, staging or production

Security:
  - CORS_ORIGINS: Comma-separated origins (default: *)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
  - ADMIN_TOKEN: Bearer token for reload and ingest endpoints

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER
*/
package config
