// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package recommend

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

// fakeCatalog implements Catalog from an in-memory product table.
type fakeCatalog struct {
	products map[string]CatalogProduct
	err      error
	calls    atomic.Int32
}

func newFakeCatalog(ids ...string) *fakeCatalog {
	c := &fakeCatalog{products: make(map[string]CatalogProduct)}
	for _, id := range ids {
		c.products[id] = CatalogProduct{
			ProductID: id,
			Title:     "Title " + id,
			Category:  "shirt",
			Brand:     "brand-" + id,
			Color:     "blue",
			ImageURL:  "/images/" + id + ".jpg",
		}
	}
	return c
}

func (c *fakeCatalog) FindProducts(_ context.Context, ids []string) (map[string]CatalogProduct, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	out := make(map[string]CatalogProduct)
	for _, id := range ids {
		if p, ok := c.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (c *fakeCatalog) without(ids ...string) *fakeCatalog {
	for _, id := range ids {
		delete(c.products, id)
	}
	return c
}

// failingPredictor always fails.
type failingPredictor struct{ items int }

func (p failingPredictor) Predict(int) ([]float64, error) { return nil, errors.New("model exploded") }
func (p failingPredictor) NumItems() int                  { return p.items }

// testArtifact builds a small, consistent artifact:
//
//	items p0..p4, users alice(0) bob(1) carol(2)
//	alice: p1=5 p3=1    bob: nothing    carol: p2=3 p1=2
//	popularity: p1=7 p2=3 p3=1 p0=0 p4=0
//	predictions (all users): p1=.9 p3=.7 p2=.5 p4=.3 p0=.1
func testArtifact(t *testing.T) *Artifact {
	t.Helper()

	users, err := NewIndexMap([]string{"alice", "bob", "carol"})
	if err != nil {
		t.Fatalf("NewIndexMap(users) error = %v", err)
	}
	items, err := NewIndexMap([]string{"p0", "p1", "p2", "p3", "p4"})
	if err != nil {
		t.Fatalf("NewIndexMap(items) error = %v", err)
	}

	b := NewMatrixBuilder(3, 5)
	mustAdd(t, b, 0, 1, 5)
	mustAdd(t, b, 0, 3, 1)
	mustAdd(t, b, 2, 2, 3)
	mustAdd(t, b, 2, 1, 2)

	return &Artifact{
		Model: &FactorizationModel{
			UserFactors: [][]float64{{1}, {1}, {1}},
			ItemFactors: [][]float64{{0.1}, {0.9}, {0.5}, {0.7}, {0.3}},
		},
		Users:        users,
		Items:        items,
		Interactions: b.Build(),
	}
}

func mustAdd(t *testing.T, b *MatrixBuilder, r, c int, v float64) {
	t.Helper()
	if err := b.Add(r, c, v); err != nil {
		t.Fatalf("Add(%d, %d) error = %v", r, c, err)
	}
}

func productIDs(recs []Recommendation) []string {
	ids := make([]string, len(recs))
	for i, r := range recs {
		ids[i] = r.ProductID
	}
	return ids
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
