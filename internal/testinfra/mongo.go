// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

//go:build integration

package testinfra

import (
	"context"
	"testing"

	"github.com/testcontainers/testcontainers-go"
)

// DefaultMongoImage is the MongoDB image used by integration tests. Set
// FASHINTEL_TEST_MONGO_IMAGE to override it.
const DefaultMongoImage = "mongo:7.0"

// MongoContainer is a running single-node MongoDB without authentication.
type MongoContainer struct {
	testcontainers.Container

	// URI is a connection string reachable from the test process.
	URI string
}

// NewMongoContainer starts MongoDB. The caller terminates it.
//
//	mongo, err := testinfra.NewMongoContainer(ctx)
//	...
//	cfg.Database.URI = mongo.URI
func NewMongoContainer(ctx context.Context, opts ...Option) (*MongoContainer, error) {
	c, endpoint, err := startService(ctx, serviceSpec{
		name:     "mongo",
		port:     "27017/tcp",
		scheme:   "mongodb",
		readyLog: "Waiting for connections",
	}, applyOptions(DefaultMongoImage, "FASHINTEL_TEST_MONGO_IMAGE", opts))
	if err != nil {
		return nil, err
	}
	return &MongoContainer{Container: c, URI: endpoint + "/"}, nil
}

// StartMongo starts MongoDB for t, skipping without Docker and
// terminating on cleanup.
func StartMongo(t *testing.T) *MongoContainer {
	t.Helper()
	SkipIfNoDocker(t)

	ctx := context.Background()
	c, err := NewMongoContainer(ctx)
	if err != nil {
		t.Fatalf("start mongo: %v", err)
	}
	t.Cleanup(func() { CleanupContainer(t, ctx, c) })
	return c
}
