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

// FindUserByUsername returns the account with username, or ErrNotFound.
func (db *DB) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return guarded(db.breaker, func() (*models.User, error) {
		start := time.Now()
		var u models.User
		err := db.collection(UsersCollection).
			FindOne(ctx, bson.D{{Key: "username", Value: username}}).
			Decode(&u)
		if err = db.observe("find_one", UsersCollection, start, err); err != nil {
			return nil, fmt.Errorf("find user %q: %w", username, err)
		}
		return &u, nil
	})
}

// UserIDExists reports whether any account already uses userID.
func (db *DB) UserIDExists(ctx context.Context, userID string) (bool, error) {
	start := time.Now()
	n, err := db.collection(UsersCollection).CountDocuments(ctx,
		bson.D{{Key: "user_id", Value: userID}},
		options.Count().SetLimit(1),
	)
	if err = db.observe("count", UsersCollection, start, err); err != nil {
		return false, fmt.Errorf("check user id: %w", err)
	}
	return n > 0, nil
}
