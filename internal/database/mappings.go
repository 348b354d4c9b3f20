// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tomtom215/fashintel/internal/models"
)

// CountMappings returns the number of feature mapping documents.
func (db *DB) CountMappings(ctx context.Context) (int64, error) {
	start := time.Now()
	n, err := db.collection(MappingsCollection).CountDocuments(ctx, bson.D{})
	if err = db.observe("count", MappingsCollection, start, err); err != nil {
		return 0, fmt.Errorf("count feature mappings: %w", err)
	}
	return n, nil
}

// InsertMappings stores the feature mapping table as a single document.
func (db *DB) InsertMappings(ctx context.Context, mappings map[string]map[string]int) error {
	doc := models.FeatureMappingDocument{
		Mappings:  mappings,
		CreatedAt: time.Now().UTC(),
	}

	start := time.Now()
	_, err := db.collection(MappingsCollection).InsertOne(ctx, doc)
	if err = db.observe("insert", MappingsCollection, start, err); err != nil {
		return fmt.Errorf("insert feature mappings: %w", err)
	}
	return nil
}

// LatestMappings returns the most recently inserted mapping document, or ErrNotFound.
func (db *DB) LatestMappings(ctx context.Context) (*models.FeatureMappingDocument, error) {
	start := time.Now()
	var doc models.FeatureMappingDocument
	err := db.collection(MappingsCollection).
		FindOne(ctx, bson.D{}, options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}})).
		Decode(&doc)
	if err = db.observe("find_one", MappingsCollection, start, err); err != nil {
		return nil, fmt.Errorf("latest feature mappings: %w", err)
	}
	return &doc, nil
}
