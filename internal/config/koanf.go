// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/fashintel/config.yaml",
	"/etc/fashintel/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			URI:                    "mongodb://localhost:27017/",
			Name:                   "fashion_db",
			ConnectTimeout:         5 * time.Second,
			SocketTimeout:          5 * time.Second,
			ServerSelectionTimeout: 5 * time.Second,
			MaxPoolSize:            10,
			RetryWrites:            true,
			CircuitBreaker:         true,
			BreakerMinRequests:     10,
			BreakerFailureRatio:    0.6,
			BreakerOpenTimeout:     2 * time.Minute,
		},
		Dataset: DatasetConfig{
			Path:            "data/fashion_dataset.csv",
			IngestOnStartup: true,
		},
		Recommend: RecommendConfig{
			ModelDir:       "./models",
			ModelName:      "recommender",
			DefaultTopN:    8,
			MaxTopN:        100,
			ReloadInterval: 5 * time.Minute,
			LoadTimeout:    30 * time.Second,
			CatalogTimeout: 5 * time.Second,
			CacheEnabled:   true,
			CacheTTL:       5 * time.Minute,
		},
		Cache: CacheConfig{
			Backend:    "memory",
			RedisURL:   "",
			KeyPrefix:  "fashintel:",
			MaxEntries: 10000,
		},
		Server: ServerConfig{
			Port:            8000,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		API: APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
			PageLinks:       10,
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadFile loads configuration in three layers, each overriding the last:
// built-in defaults, an optional YAML file, then environment variables.
//
// A non-empty path must exist. An empty path falls back to CONFIG_PATH and
// then DefaultConfigPaths, and a missing file there is not an error.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	path, err := resolveConfigFile(path)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// resolveConfigFile returns the file to layer over the defaults, or "" for
// none.
func resolveConfigFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file: %w", err)
		}
		return explicit, nil
	}

	candidates := DefaultConfigPaths
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		candidates = append([]string{p}, candidates...)
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", nil
}

// listPaths are read from the environment as comma-separated lists.
var listPaths = map[string]bool{
	"security.cors_origins": true,
}

// envValue maps an environment variable onto its koanf path. Unmapped
// variables return an empty key and are skipped.
func envValue(key, value string) (string, interface{}) {
	path := envTransformFunc(key)
	if path == "" || !listPaths[path] {
		return path, value
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return "", nil
	}
	return path, items
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// MongoDB
	"mongodb_uri":                      "database.uri",
	"mongodb_database":                 "database.name",
	"mongodb_connect_timeout":          "database.connect_timeout",
	"mongodb_socket_timeout":           "database.socket_timeout",
	"mongodb_server_selection_timeout": "database.server_selection_timeout",
	"mongodb_max_pool_size":            "database.max_pool_size",
	"mongodb_retry_writes":             "database.retry_writes",
	"mongodb_circuit_breaker":          "database.circuit_breaker",
	"mongodb_breaker_min_requests":     "database.breaker_min_requests",
	"mongodb_breaker_failure_ratio":    "database.breaker_failure_ratio",
	"mongodb_breaker_open_timeout":     "database.breaker_open_timeout",

	// Dataset ingestion
	"dataset_path":      "dataset.path",
	"ingest_on_startup": "dataset.ingest_on_startup",

	// Recommendation serving
	"model_dir":                 "recommend.model_dir",
	"model_name":                "recommend.model_name",
	"recommend_default_top_n":   "recommend.default_top_n",
	"recommend_max_top_n":       "recommend.max_top_n",
	"recommend_reload_interval": "recommend.reload_interval",
	"recommend_load_timeout":    "recommend.load_timeout",
	"recommend_catalog_timeout": "recommend.catalog_timeout",
	"recommend_cache_enabled":   "recommend.cache_enabled",
	"recommend_cache_ttl":       "recommend.cache_ttl",

	// Result cache backend
	"cache_backend":     "cache.backend",
	"redis_url":         "cache.redis_url",
	"cache_key_prefix":  "cache.key_prefix",
	"cache_max_entries": "cache.max_entries",

	// HTTP server
	"http_host":        "server.host",
	"http_port":        "server.port",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	// API
	"api_default_page_size": "api.default_page_size",
	"api_max_page_size":     "api.max_page_size",
	"api_page_links":        "api.page_links",

	// Security
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",
	"admin_token":         "security.admin_token",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - MONGODB_URI -> database.uri
//   - DATASET_PATH -> dataset.path
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	// Unmapped keys are skipped so unrelated variables cannot pollute config.
	return ""
}
