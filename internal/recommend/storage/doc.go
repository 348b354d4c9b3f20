// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

// Package storage persists versioned model artifacts on local disk.
//
// An artifact is any gob-encodable value (the recommend package stores its
// factorization model, index maps and interaction matrix as one value).
// Each saved version is written as a single file:
//
//	filename: {name}_v{version}.gob.gz
//
//	structure:
//	  - Metadata (ArtifactMetadata)
//	  - CompressedData (gzip-compressed gob-encoded artifact)
//
// The SHA-256 checksum of the uncompressed payload is recorded in the
// metadata and verified on every load, so a truncated or hand-edited file is
// reported as ErrCorrupt instead of being decoded into a half-filled value.
//
// # Versions
//
// Versions increase monotonically per name. Loading version 0 means "latest":
// the store rescans its directory first, so artifacts written by another
// process (the fashctl CLI, an external trainer) are picked up without a
// restart.
//
//	store, err := storage.NewStore("/var/lib/fashintel/models")
//	if err != nil {
//	    return err
//	}
//
//	var art recommend.Artifact
//	meta, err := store.Load(ctx, "recommender", 0, &art)
//
// Old versions can be removed with Prune, which keeps the newest N.
//
// # Thread Safety
//
// Store methods are safe for concurrent use within one process. Files are
// written to a temporary name and renamed into place, so readers in other
// processes never observe a partially written artifact.
package storage
