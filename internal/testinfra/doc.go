// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

// Package testinfra provides containers for integration tests.
//
// It uses testcontainers-go to run MongoDB and Redis in Docker so the
// catalog store and the redis result cache are exercised against real
// servers:
//
//	func TestCatalog(t *testing.T) {
//	    mongo := testinfra.StartMongo(t)
//	    cfg := config.DatabaseConfig{URI: mongo.URI, Name: "fashion_test", ...}
//	    db, err := database.New(ctx, &cfg, zerolog.Nop())
//	    ...
//	}
//
// Everything here is behind the integration build tag:
//
//	go test -tags integration ./...
//
// Tests skip when Docker is not available.
package testinfra
