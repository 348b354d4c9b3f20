// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/tomtom215/fashintel/internal/config"
	"github.com/tomtom215/fashintel/internal/logging"
	"github.com/tomtom215/fashintel/internal/metrics"
)

// Collection names.
const (
	ProductsCollection     = "products"
	MappingsCollection     = "feature_mappings"
	InteractionsCollection = "interactions"
	UsersCollection        = "users"
)

// DB wraps the MongoDB client and provides data access methods.
type DB struct {
	client  *mongo.Client
	db      *mongo.Database
	cfg     *config.DatabaseConfig
	breaker *Breaker
	logger  zerolog.Logger
}

// New connects to MongoDB and verifies the connection with a ping.
// Connection failures are reported as ErrStorageUnavailable.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(ctx context.Context, cfg *config.DatabaseConfig, logger zerolog.Logger) (*DB, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetSocketTimeout(cfg.SocketTimeout).
		SetServerSelectionTimeout(cfg.ServerSelectionTimeout).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetRetryWrites(cfg.RetryWrites)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w: %w", ErrStorageUnavailable, err)
	}

	logger = logger.With().Str("component", "database").Logger()
	db := &DB{
		client: client,
		db:     client.Database(cfg.Name),
		cfg:    cfg,
		logger: logger,
	}
	if cfg.CircuitBreaker {
		db.breaker = NewBreaker("mongodb-catalog", BreakerPolicy{
			MinRequests:  cfg.BreakerMinRequests,
			FailureRatio: cfg.BreakerFailureRatio,
			OpenFor:      cfg.BreakerOpenTimeout,
		}, logger)
	}

	if err := db.Ping(ctx); err != nil {
		disconnectQuietly(client, logger)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.Info().
		Str("uri", logging.RedactURI(cfg.URI)).
		Str("database", cfg.Name).
		Uint64("max_pool_size", cfg.MaxPoolSize).
		Bool("circuit_breaker", db.breaker != nil).
		Msg("Connected to MongoDB")

	return db, nil
}

// Ping checks that the primary is reachable within the server selection timeout.
func (db *DB) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, db.cfg.ServerSelectionTimeout)
	defer cancel()

	start := time.Now()
	err := db.client.Ping(ctx, readpref.Primary())
	return db.observe("ping", "", start, err)
}

// Close disconnects the client.
func (db *DB) Close(ctx context.Context) error {
	if err := db.client.Disconnect(ctx); err != nil && !errors.Is(err, mongo.ErrClientDisconnected) {
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}
	return nil
}

// Name returns the database name.
func (db *DB) Name() string {
	return db.cfg.Name
}

// BreakerState reports the catalog circuit breaker state, or "disabled".
func (db *DB) BreakerState() string {
	if db.breaker == nil {
		return "disabled"
	}
	return db.breaker.State()
}

func (db *DB) collection(name string) *mongo.Collection {
	return db.db.Collection(name)
}

// observe classifies err and records the operation's duration and outcome.
// Not-found results are recorded as successes.
func (db *DB) observe(operation, collection string, start time.Time, err error) error {
	err = classify(err)
	recorded := err
	if errors.Is(err, ErrNotFound) {
		recorded = nil
	}
	metrics.RecordDBOperation(operation, collection, time.Since(start), recorded)
	if IsStorageUnavailable(err) {
		db.logger.Warn().
			Err(err).
			Str("operation", operation).
			Str("collection", collection).
			Str("error_category", "storage_unavailable").
			Msg("MongoDB operation failed")
	}
	return err
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func disconnectQuietly(client *mongo.Client, logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		logger.Debug().Err(err).Msg("disconnect after failed connect")
	}
}
