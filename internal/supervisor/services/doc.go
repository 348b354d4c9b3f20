// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

// Package services adapts server components to suture.Service.
//
//   - HTTPServerService: ListenAndServe, then readiness drain and graceful Shutdown
//   - IngestService: one startup ingestion, retried only while MongoDB is unreachable
//   - ReloadService: reloads the model artifact on an interval
package services
