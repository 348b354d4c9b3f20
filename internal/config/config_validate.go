// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package config

import (
	"fmt"
	"net/url"
	"strings"
)

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

var validCacheBackends = map[string]bool{
	"memory": true,
	"redis":  true,
}

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateDatabase() error {
	if err := validateMongoURI(c.Database.URI); err != nil {
		return fmt.Errorf("MONGODB_URI is invalid: %w", err)
	}
	if c.Database.Name == "" {
		return fmt.Errorf("MONGODB_DATABASE is required")
	}
	if c.Database.ConnectTimeout <= 0 || c.Database.SocketTimeout <= 0 || c.Database.ServerSelectionTimeout <= 0 {
		return fmt.Errorf("MongoDB timeouts must be positive")
	}
	if c.Database.MaxPoolSize == 0 {
		return fmt.Errorf("MONGODB_MAX_POOL_SIZE must be at least 1")
	}
	if r := c.Database.BreakerFailureRatio; r < 0 || r > 1 {
		return fmt.Errorf("MONGODB_BREAKER_FAILURE_RATIO must be between 0 and 1, got %v", r)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := &c.Recommend
	if r.ModelDir == "" {
		return fmt.Errorf("MODEL_DIR is required")
	}
	if r.ModelName == "" {
		return fmt.Errorf("MODEL_NAME is required")
	}
	if r.DefaultTopN < 1 {
		return fmt.Errorf("RECOMMEND_DEFAULT_TOP_N must be at least 1, got %d", r.DefaultTopN)
	}
	if r.MaxTopN < r.DefaultTopN {
		return fmt.Errorf("RECOMMEND_MAX_TOP_N (%d) must be >= RECOMMEND_DEFAULT_TOP_N (%d)", r.MaxTopN, r.DefaultTopN)
	}
	if r.ReloadInterval < 0 {
		return fmt.Errorf("RECOMMEND_RELOAD_INTERVAL must not be negative")
	}
	if r.LoadTimeout <= 0 || r.CatalogTimeout <= 0 {
		return fmt.Errorf("recommendation timeouts must be positive")
	}
	if r.CacheEnabled && r.CacheTTL <= 0 {
		return fmt.Errorf("RECOMMEND_CACHE_TTL must be positive when caching is enabled")
	}
	return nil
}

func (c *Config) validateCache() error {
	if !validCacheBackends[c.Cache.Backend] {
		return fmt.Errorf("CACHE_BACKEND must be one of: memory, redis")
	}
	if c.Cache.Backend == "redis" {
		if c.Cache.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when CACHE_BACKEND=redis")
		}
		if err := validateRedisURL(c.Cache.RedisURL); err != nil {
			return fmt.Errorf("REDIS_URL is invalid: %w", err)
		}
	}
	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("CACHE_MAX_ENTRIES must not be negative")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be at least 1")
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("API_MAX_PAGE_SIZE must be >= API_DEFAULT_PAGE_SIZE")
	}
	if c.API.PageLinks < 1 {
		return fmt.Errorf("API_PAGE_LINKS must be at least 1")
	}
	return nil
}

// validateSecurity validates CORS and rate limiting.
// Wildcard CORS is rejected in production.
func (c *Config) validateSecurity() error {
	if c.IsProduction() {
		for _, origin := range c.Security.CORSOrigins {
			if strings.TrimSpace(origin) == "*" {
				return fmt.Errorf("CORS_ORIGINS must not contain '*' in production")
			}
		}
	}
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// validateMongoURI accepts mongodb:// and mongodb+srv:// connection strings.
func validateMongoURI(rawURI string) error {
	parsed, err := url.Parse(rawURI)
	if err != nil {
		return fmt.Errorf("failed to parse URI: %w", err)
	}
	if parsed.Scheme != "mongodb" && parsed.Scheme != "mongodb+srv" {
		return fmt.Errorf("scheme must be mongodb or mongodb+srv, got: %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}

func validateRedisURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsed.Scheme != "redis" && parsed.Scheme != "rediss" {
		return fmt.Errorf("scheme must be redis or rediss, got: %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}
