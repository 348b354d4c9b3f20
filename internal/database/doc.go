// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

/*
Package database provides the MongoDB-backed catalog store.

The store holds four collections in one database (fashion_db by default):

  - products: canonical product documents, unique on product_id
  - feature_mappings: the categorical encoding table, one document
  - interactions: append-only user events
  - users: accounts, read to resolve usernames to user ids

Every call is bounded by the client's connect, socket and server selection
timeouts. Failures to reach the store are wrapped with ErrStorageUnavailable
so callers can tell them apart from query errors:

	n, err := db.CountProducts(ctx)
	if database.IsStorageUnavailable(err) {
	    // log with error_category=storage_unavailable
	}

Catalog reads used on the request path (FindProducts, FindProduct,
FindUserByUsername) run through a gobreaker circuit breaker. Once it opens,
calls fail immediately with ErrStorageUnavailable until the store recovers.

DB implements recommend.Catalog and the ingest.Store interface.
*/
package database
