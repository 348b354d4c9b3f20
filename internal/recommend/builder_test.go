// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package recommend

import (
	"testing"
)

func TestBuildInteractionData(t *testing.T) {
	t.Parallel()

	interactions := []Interaction{
		{UserID: "u1", ProductID: "p2", Type: InteractionPurchase},
		{UserID: "u1", ProductID: "p2", Type: InteractionClick},
		{UserID: "u2", ProductID: "p9", Type: InteractionLike},
		{UserID: "u3", ProductID: "p1", Type: InteractionDislike},
		{UserID: "", ProductID: "p1", Type: InteractionClick},
		{UserID: "u4", ProductID: "p1", Type: "wishlist"},
	}

	mapping, matrix, err := BuildInteractionData(interactions, []string{"p1", "p2", "p3"})
	if err != nil {
		t.Fatalf("BuildInteractionData() error = %v", err)
	}

	if got := mapping.Items.IDs(); !equalIDs(got, []string{"p1", "p2", "p3", "p9"}) {
		t.Errorf("items = %v, want catalog order then first seen", got)
	}
	if got := mapping.Users.IDs(); !equalIDs(got, []string{"u1", "u2", "u3"}) {
		t.Errorf("users = %v", got)
	}
	if matrix.Rows != 3 || matrix.Cols != 4 {
		t.Fatalf("shape = %dx%d, want 3x4", matrix.Rows, matrix.Cols)
	}
	if got := matrix.At(0, 1); got != 6 {
		t.Errorf("u1/p2 weight = %v, want 6", got)
	}
	if got := matrix.At(1, 3); got != 2 {
		t.Errorf("u2/p9 weight = %v, want 2", got)
	}
	// A dislike maps the user but leaves the row empty, so they stay cold.
	u3, _ := mapping.Users.Index("u3")
	if matrix.RowNonZero(u3) != 0 {
		t.Errorf("u3 row has %d non-zero entries, want 0", matrix.RowNonZero(u3))
	}
	if SelectStrategy("u3", mapping.Users, matrix).Kind() != StrategyColdStart {
		t.Error("u3 should be served cold start")
	}
}

func TestBuildInteractionData_Empty(t *testing.T) {
	t.Parallel()

	mapping, matrix, err := BuildInteractionData(nil, nil)
	if err != nil {
		t.Fatalf("BuildInteractionData() error = %v", err)
	}
	if mapping.Users.Len() != 0 || mapping.Items.Len() != 0 || matrix.NonZero() != 0 {
		t.Error("expected empty mapping and matrix")
	}
	if err := matrix.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestInteractionType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typ    InteractionType
		weight float64
		valid  bool
	}{
		{InteractionPurchase, 5, true},
		{InteractionCart, 3, true},
		{InteractionLike, 2, true},
		{InteractionClick, 1, true},
		{InteractionDislike, 0, true},
		{"wishlist", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		if got := tt.typ.Weight(); got != tt.weight {
			t.Errorf("%q.Weight() = %v, want %v", tt.typ, got, tt.weight)
		}
		if got := tt.typ.Valid(); got != tt.valid {
			t.Errorf("%q.Valid() = %v, want %v", tt.typ, got, tt.valid)
		}
	}
	if len(InteractionTypes) != 5 {
		t.Errorf("InteractionTypes has %d entries, want 5", len(InteractionTypes))
	}
}
