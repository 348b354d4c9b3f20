// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

/*
Package models defines the documents and API envelopes shared across Fashintel.

Document Models (MongoDB, database fashion_db):
  - Product: catalog document in products, unique on product_id
  - FeatureMappingDocument: the single document in feature_mappings
  - Interaction: append-only event in interactions
  - User: account document in users (read-only here)

API Models:
  - APIResponse: standard response wrapper
  - APIError: error details
  - Metadata: response metadata (timestamp, query time)
  - PaginationInfo: page-based listing metadata

BSON tags follow the collection schema; JSON tags follow the HTTP API. The
two differ only where a field is internal (ObjectIDs are never serialized to
clients except on interactions).
*/
package models
