// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package recommend

import (
	"fmt"
)

// BuildInteractionData turns logged interactions into index maps and a
// weighted user x item matrix suitable for packing into an artifact.
//
// Items are indexed in catalog order first, followed by products that only
// appear in interactions (first-seen order). Users are indexed in first-seen
// order. Repeated interactions on the same pair sum their weights. Entries
// with an empty id or unknown type are skipped.
func BuildInteractionData(interactions []Interaction, catalogItemIDs []string) (*DatasetMapping, *SparseMatrix, error) {
	itemIDs := make([]string, 0, len(catalogItemIDs))
	seenItems := make(map[string]struct{}, len(catalogItemIDs))
	addItem := func(id string) {
		if _, ok := seenItems[id]; ok || id == "" {
			return
		}
		seenItems[id] = struct{}{}
		itemIDs = append(itemIDs, id)
	}
	for _, id := range catalogItemIDs {
		addItem(id)
	}

	var userIDs []string
	seenUsers := make(map[string]struct{})
	for _, in := range interactions {
		if !usable(in) {
			continue
		}
		addItem(in.ProductID)
		if _, ok := seenUsers[in.UserID]; !ok {
			seenUsers[in.UserID] = struct{}{}
			userIDs = append(userIDs, in.UserID)
		}
	}

	users, err := NewIndexMap(userIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("user index: %w", err)
	}
	items, err := NewIndexMap(itemIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("item index: %w", err)
	}

	b := NewMatrixBuilder(users.Len(), items.Len())
	for _, in := range interactions {
		if !usable(in) {
			continue
		}
		u, _ := users.Index(in.UserID)
		i, _ := items.Index(in.ProductID)
		if err := b.Add(u, i, in.Type.Weight()); err != nil {
			return nil, nil, err
		}
	}

	return &DatasetMapping{Users: users, Items: items}, b.Build(), nil
}

//nolint:gocritic // Interaction passed by value is acceptable here
func usable(in Interaction) bool {
	return in.UserID != "" && in.ProductID != "" && in.Type.Valid()
}
