// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package database

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tomtom215/fashintel/internal/models"
	"github.com/tomtom215/fashintel/internal/recommend"
)

// DefaultCategories is returned by Categories when the catalog has none.
var DefaultCategories = []string{"t-shirt", "saree", "shirt"}

const productIDIndex = "product_id_unique"

// listingProjection is the field set used by catalog listings.
var listingProjection = bson.D{
	{Key: "product_id", Value: 1},
	{Key: "title", Value: 1},
	{Key: "product_attributes", Value: 1},
	{Key: "brand", Value: 1},
	{Key: "image_url", Value: 1},
}

// catalogProjection is the field set needed to render a recommendation.
var catalogProjection = bson.D{
	{Key: "product_id", Value: 1},
	{Key: "title", Value: 1},
	{Key: "brand", Value: 1},
	{Key: "image_url", Value: 1},
	{Key: "product_attributes.category", Value: 1},
	{Key: "product_attributes.color", Value: 1},
}

// CountProducts returns the number of documents in the products collection.
func (db *DB) CountProducts(ctx context.Context) (int64, error) {
	start := time.Now()
	n, err := db.collection(ProductsCollection).CountDocuments(ctx, bson.D{})
	if err = db.observe("count", ProductsCollection, start, err); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// ProductSummaries returns product_id, category, brand and color for every product.
func (db *DB) ProductSummaries(ctx context.Context) ([]models.ProductSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "product_id", Value: 1},
			{Key: "category", Value: "$product_attributes.category"},
			{Key: "brand", Value: 1},
			{Key: "color", Value: "$product_attributes.color"},
		}}},
	}

	start := time.Now()
	cursor, err := db.collection(ProductsCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("project products: %w", db.observe("aggregate", ProductsCollection, start, err))
	}
	summaries := []models.ProductSummary{}
	err = cursor.All(ctx, &summaries)
	if err = db.observe("aggregate", ProductsCollection, start, err); err != nil {
		return nil, fmt.Errorf("decode product summaries: %w", err)
	}
	return summaries, nil
}

// UpsertProduct writes p by product_id with $set. It reports whether a new
// document was inserted (as opposed to an existing one being updated).
func (db *DB) UpsertProduct(ctx context.Context, p *models.Product) (bool, error) {
	if p.ProductID == "" {
		return false, fmt.Errorf("upsert product: empty product_id")
	}

	start := time.Now()
	res, err := db.collection(ProductsCollection).UpdateOne(ctx,
		bson.D{{Key: "product_id", Value: p.ProductID}},
		bson.D{{Key: "$set", Value: p}},
		options.Update().SetUpsert(true),
	)
	if err = db.observe("upsert", ProductsCollection, start, err); err != nil {
		return false, fmt.Errorf("upsert product %s: %w", p.ProductID, err)
	}
	return res.UpsertedCount > 0, nil
}

// EnsureProductIndex creates the unique index on product_id.
func (db *DB) EnsureProductIndex(ctx context.Context) error {
	start := time.Now()
	_, err := db.collection(ProductsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "product_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName(productIDIndex),
	})
	if err = db.observe("create_index", ProductsCollection, start, err); err != nil {
		return fmt.Errorf("create product_id index: %w", err)
	}
	return nil
}

// FindProducts returns the catalog entries for ids, keyed by product id.
// Ids with no document are absent from the result. Reads go through the
// circuit breaker when it is enabled.
func (db *DB) FindProducts(ctx context.Context, ids []string) (map[string]recommend.CatalogProduct, error) {
	found := make(map[string]recommend.CatalogProduct, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	products, err := guarded(db.breaker, func() ([]models.Product, error) {
		start := time.Now()
		cursor, err := db.collection(ProductsCollection).Find(ctx,
			bson.D{{Key: "product_id", Value: bson.D{{Key: "$in", Value: ids}}}},
			options.Find().SetProjection(catalogProjection),
		)
		if err != nil {
			return nil, db.observe("find", ProductsCollection, start, err)
		}
		var out []models.Product
		err = cursor.All(ctx, &out)
		return out, db.observe("find", ProductsCollection, start, err)
	})
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}

	for i := range products {
		p := &products[i]
		found[p.ProductID] = recommend.CatalogProduct{
			ProductID: p.ProductID,
			Title:     p.Title,
			Category:  p.Category(),
			Brand:     p.Brand,
			Color:     p.Color(),
			ImageURL:  p.ImageURL,
		}
	}
	return found, nil
}

// FindProduct returns the product with productID, or ErrNotFound.
func (db *DB) FindProduct(ctx context.Context, productID string) (*models.Product, error) {
	return guarded(db.breaker, func() (*models.Product, error) {
		start := time.Now()
		var p models.Product
		err := db.collection(ProductsCollection).
			FindOne(ctx, bson.D{{Key: "product_id", Value: productID}}).
			Decode(&p)
		if err = db.observe("find_one", ProductsCollection, start, err); err != nil {
			return nil, fmt.Errorf("find product %s: %w", productID, err)
		}
		return &p, nil
	})
}

// ListProducts returns one page of products matching filter and the total
// number of matches.
//
//nolint:gocritic // filter passed by value is acceptable for this read operation
func (db *DB) ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, int64, error) {
	query := productQuery(filter)
	page, perPage := normalizePage(filter.Page, filter.PerPage)

	start := time.Now()
	coll := db.collection(ProductsCollection)
	total, err := coll.CountDocuments(ctx, query)
	if err = db.observe("count", ProductsCollection, start, err); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	start = time.Now()
	cursor, err := coll.Find(ctx, query, options.Find().
		SetProjection(listingProjection).
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64((page-1)*perPage)).
		SetLimit(int64(perPage)),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", db.observe("find", ProductsCollection, start, err))
	}
	products := []models.Product{}
	err = cursor.All(ctx, &products)
	if err = db.observe("find", ProductsCollection, start, err); err != nil {
		return nil, 0, fmt.Errorf("decode products: %w", err)
	}
	return products, total, nil
}

// Categories returns the sorted distinct product categories, or
// DefaultCategories when there are none.
func (db *DB) Categories(ctx context.Context) ([]string, error) {
	start := time.Now()
	values, err := db.collection(ProductsCollection).Distinct(ctx, "product_attributes.category", bson.D{})
	if err = db.observe("distinct", ProductsCollection, start, err); err != nil {
		return nil, fmt.Errorf("distinct categories: %w", err)
	}
	return categoriesFrom(values), nil
}

// productQuery builds the listing filter. Search is matched as a literal,
// case-insensitive substring of the title.
//
//nolint:gocritic // filter passed by value is acceptable here
func productQuery(filter models.ProductFilter) bson.D {
	query := bson.D{}
	if filter.Search != "" {
		query = append(query, bson.E{Key: "title", Value: bson.D{
			{Key: "$regex", Value: regexp.QuoteMeta(filter.Search)},
			{Key: "$options", Value: "i"},
		}})
	}
	if filter.Category != "" {
		query = append(query, bson.E{Key: "product_attributes.category", Value: filter.Category})
	}
	return query
}

// normalizePage clamps page to at least 1 and perPage to 1..100 (default 20).
func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	switch {
	case perPage < 1:
		perPage = 20
	case perPage > 100:
		perPage = 100
	}
	return page, perPage
}

func categoriesFrom(values []interface{}) []string {
	cats := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			cats = append(cats, s)
		}
	}
	if len(cats) == 0 {
		return append([]string(nil), DefaultCategories...)
	}
	sort.Strings(cats)
	return cats
}
