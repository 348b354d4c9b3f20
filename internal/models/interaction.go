// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Interaction is an append-only user event in the interactions collection.
type Interaction struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID            string             `bson:"user_id" json:"user_id"`
	ProductID         string             `bson:"product_id" json:"product_id"`
	InteractionType   string             `bson:"interaction_type" json:"interaction_type"`
	Timestamp         time.Time          `bson:"timestamp" json:"timestamp"`
	ProductAttributes Attributes         `bson:"product_attributes" json:"product_attributes,omitempty"`
}

// InteractionRequest is the body of POST /api/v1/interactions.
type InteractionRequest struct {
	UserID            string     `json:"user_id" validate:"required,max=128"`
	ProductID         string     `json:"product_id" validate:"required,max=128,product_id"`
	InteractionType   string     `json:"interaction_type" validate:"required,interaction_type"`
	ProductAttributes Attributes `json:"product_attributes,omitempty"`
}

// User is an account document in the users collection. This service only
// reads it to resolve a username to its stable user id.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Username  string             `bson:"username" json:"username"`
	UserID    string             `bson:"user_id" json:"user_id"`
	UserType  string             `bson:"user_type,omitempty" json:"user_type,omitempty"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	CreatedAt time.Time          `bson:"created_at,omitempty" json:"created_at,omitempty"`
}
