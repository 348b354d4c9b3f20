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
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tomtom215/fashintel/internal/models"
	"github.com/tomtom215/fashintel/internal/recommend"
)

// InsertInteraction appends an interaction record. A zero timestamp is set
// to the current UTC time. It returns the new document id.
func (db *DB) InsertInteraction(ctx context.Context, in *models.Interaction) (string, error) {
	if in.Timestamp.IsZero() {
		in.Timestamp = time.Now().UTC()
	}
	if in.ProductAttributes == nil {
		in.ProductAttributes = models.Attributes{}
	}

	start := time.Now()
	res, err := db.collection(InteractionsCollection).InsertOne(ctx, in)
	if err = db.observe("insert", InteractionsCollection, start, err); err != nil {
		return "", fmt.Errorf("insert interaction: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		in.ID = oid
		return oid.Hex(), nil
	}
	return fmt.Sprint(res.InsertedID), nil
}

// CountInteractions returns the number of logged interactions.
func (db *DB) CountInteractions(ctx context.Context) (int64, error) {
	start := time.Now()
	n, err := db.collection(InteractionsCollection).CountDocuments(ctx, bson.D{})
	if err = db.observe("count", InteractionsCollection, start, err); err != nil {
		return 0, fmt.Errorf("count interactions: %w", err)
	}
	return n, nil
}

// ListInteractions streams interactions with a timestamp at or after since
// (all of them when since is zero) in insertion order and returns them in
// the shape the matrix builder consumes.
func (db *DB) ListInteractions(ctx context.Context, since time.Time) ([]recommend.Interaction, error) {
	filter := bson.D{}
	if !since.IsZero() {
		filter = bson.D{{Key: "timestamp", Value: bson.D{{Key: "$gte", Value: since}}}}
	}

	start := time.Now()
	cursor, err := db.collection(InteractionsCollection).Find(ctx, filter,
		options.Find().
			SetSort(bson.D{{Key: "_id", Value: 1}}).
			SetProjection(bson.D{
				{Key: "user_id", Value: 1},
				{Key: "product_id", Value: 1},
				{Key: "interaction_type", Value: 1},
				{Key: "timestamp", Value: 1},
			}),
	)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", db.observe("find", InteractionsCollection, start, err))
	}
	defer closeCursor(ctx, cursor)

	var out []recommend.Interaction
	for cursor.Next(ctx) {
		var doc models.Interaction
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode interaction: %w", err)
		}
		out = append(out, recommend.Interaction{
			UserID:    doc.UserID,
			ProductID: doc.ProductID,
			Type:      recommend.InteractionType(doc.InteractionType),
			Timestamp: doc.Timestamp,
		})
	}
	if err = db.observe("find", InteractionsCollection, start, cursor.Err()); err != nil {
		return nil, fmt.Errorf("iterate interactions: %w", err)
	}
	return out, nil
}

// EnsureInteractionIndexes creates the lookup indexes on the interactions collection.
func (db *DB) EnsureInteractionIndexes(ctx context.Context) error {
	start := time.Now()
	_, err := db.collection(InteractionsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "product_id", Value: 1}}},
	})
	if err = db.observe("create_index", InteractionsCollection, start, err); err != nil {
		return fmt.Errorf("create interaction indexes: %w", err)
	}
	return nil
}

func closeCursor(ctx context.Context, cursor *mongo.Cursor) {
	_ = cursor.Close(ctx) //nolint:errcheck // best-effort cleanup
}
