// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

// Package recommend serves product recommendations from a pre-trained
// factorization model.
//
// # Architecture
//
// A serving cycle has three parts:
//
//   - ArtifactLoader: loads the model artifact (factorization model, user and
//     item index maps, user x item interaction matrix) from the versioned
//     artifact store and caches it process-wide until invalidated
//   - Scorer: ranks products for one user and joins them against the live
//     catalog
//   - Engine: ties the loader, the scorer and an optional result cache
//     together for the HTTP layer and the CLI
//
// # Strategies
//
// The scorer chooses one Strategy per call:
//
//   - ColdStart: the user is unknown to the model or has no non-zero
//     interactions. Items are ranked by column sums of the interaction matrix
//     and only the first topN ranked items are joined; catalog misses leave
//     holes that are not backfilled.
//   - WarmStart: items are ranked by the model's predicted score. Up to
//     2*topN candidates are joined in rank order and the walk stops after
//     topN catalog hits.
//
// Ties keep ascending item index order in both strategies.
//
// # Failure Handling
//
// Scoring never returns an error to its caller. Malformed artifacts, index
// errors, prediction errors and catalog failures are logged and produce an
// empty recommendation list. Callers must read an empty list as "no
// recommendations available".
//
// # Thread Safety
//
// Artifacts are immutable after load and shared between goroutines. The
// loader serializes reloads with singleflight, so concurrent requests after an
// invalidation trigger a single read of the artifact file.
//
// # Usage
//
//	store, _ := storage.NewStore(cfg.Recommend.ModelDir)
//	loader := recommend.NewArtifactLoader(store, cfg.Recommend.ModelName, logger)
//	engine, _ := recommend.NewEngine(cfg, loader, catalog, resultCache, logger)
//
//	resp := engine.Recommend(ctx, "alice_2bd806c9", 8)
package recommend
