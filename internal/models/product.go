// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog document in the products collection.
//
// Top-level attribute fields are lowercased dataset values. Attributes holds
// the same values plus their integer encodings under "encoded_<feature>";
// the product's category is Attributes["category"] (the dataset's sub_category).
type Product struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ProductID          string             `bson:"product_id" json:"product_id"`
	Title              string             `bson:"title" json:"title"`
	ImageURL           string             `bson:"image_url" json:"image_url"`
	URL                string             `bson:"url" json:"url"`
	Attributes         Attributes         `bson:"product_attributes" json:"product_attributes"`
	Brand              string             `bson:"brand" json:"brand"`
	SleeveLength       string             `bson:"sleeve_length" json:"sleeve_length"`
	Occasion           string             `bson:"occasion" json:"occasion"`
	Fit                string             `bson:"fit" json:"fit"`
	Neck               string             `bson:"neck" json:"neck"`
	WaistRise          string             `bson:"waist_rise" json:"waist_rise"`
	Closure            string             `bson:"closure" json:"closure"`
	PrintOrPatternType string             `bson:"print_or_pattern_type" json:"print_or_pattern_type"`
	Shape              string             `bson:"shape" json:"shape"`
	Length             string             `bson:"length" json:"length"`
	Collar             string             `bson:"collar" json:"collar"`
}

// Attributes is the product_attributes sub-document.
type Attributes map[string]interface{}

// String returns the string attribute key, or "" when absent or not a string.
func (a Attributes) String(key string) string {
	if v, ok := a[key].(string); ok {
		return v
	}
	return ""
}

// Int returns the integer attribute key, or 0. BSON decodes numbers as
// int32, int64 or float64 depending on how they were written.
func (a Attributes) Int(key string) int {
	switch v := a[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// Category returns the product category.
func (p *Product) Category() string {
	return p.Attributes.String("category")
}

// Color returns the product color.
func (p *Product) Color() string {
	return p.Attributes.String("color")
}

// ProductSummary is the projection returned by ingestion: one row per
// persisted product.
type ProductSummary struct {
	ProductID string `bson:"product_id" json:"product_id"`
	Category  string `bson:"category" json:"category"`
	Brand     string `bson:"brand" json:"brand"`
	Color     string `bson:"color" json:"color"`
}

// ProductFilter selects products for catalog listings.
type ProductFilter struct {
	// Search is matched case-insensitively as a literal substring of the title.
	Search string
	// Category matches product_attributes.category exactly.
	Category string
	Page     int
	PerPage  int
}

// ProductPage is one page of a catalog listing.
type ProductPage struct {
	Products   []Product      `json:"products"`
	Categories []string       `json:"categories,omitempty"`
	Pagination PaginationInfo `json:"pagination"`
}

// FeatureMappingDocument is the single document in the feature_mappings collection.
type FeatureMappingDocument struct {
	ID        primitive.ObjectID        `bson:"_id,omitempty" json:"-"`
	Mappings  map[string]map[string]int `bson:"mappings" json:"mappings"`
	CreatedAt time.Time                 `bson:"created_at,omitempty" json:"created_at,omitempty"`
}
