// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package ingest

import (
	"context"
	"sync"

	"github.com/tomtom215/fashintel/internal/models"
)

// memoryStore is an in-memory Store keyed like the products collection.
type memoryStore struct {
	mu        sync.Mutex
	products  map[string]*models.Product
	order     []string
	mappings  []map[string]map[string]int
	indexed   bool
	failWith  error
	failOnOp  string
	upsertOps int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{products: make(map[string]*models.Product)}
}

func (s *memoryStore) fail(op string) error {
	if s.failOnOp == op {
		return s.failWith
	}
	return nil
}

func (s *memoryStore) CountProducts(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("count_products"); err != nil {
		return 0, err
	}
	return int64(len(s.products)), nil
}

func (s *memoryStore) CountMappings(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.mappings)), nil
}

func (s *memoryStore) ProductSummaries(context.Context) ([]models.ProductSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ProductSummary, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, Summarize(s.products[id]))
	}
	return out, nil
}

func (s *memoryStore) InsertMappings(_ context.Context, m map[string]map[string]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("insert_mappings"); err != nil {
		return err
	}
	s.mappings = append(s.mappings, m)
	return nil
}

func (s *memoryStore) UpsertProduct(_ context.Context, p *models.Product) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsertOps++
	if err := s.fail("upsert"); err != nil {
		return false, err
	}
	_, exists := s.products[p.ProductID]
	s.products[p.ProductID] = p
	if !exists {
		s.order = append(s.order, p.ProductID)
	}
	return !exists, nil
}

func (s *memoryStore) EnsureProductIndex(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indexed = true
	return nil
}
