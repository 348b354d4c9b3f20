// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package recommend

import (
	"math"
	"testing"
)

func TestSelectStrategy(t *testing.T) {
	t.Parallel()

	art := testArtifact(t)
	tests := []struct {
		userID string
		want   Strategy
	}{
		{"alice", WarmStart{UserIndex: 0}},
		{"carol", WarmStart{UserIndex: 2}},
		{"bob", ColdStart{}},     // known user with an empty row
		{"mallory", ColdStart{}}, // unknown user
		{"", ColdStart{}},
	}
	for _, tt := range tests {
		if got := SelectStrategy(tt.userID, art.Users, art.Interactions); got != tt.want {
			t.Errorf("SelectStrategy(%q) = %#v, want %#v", tt.userID, got, tt.want)
		}
	}
}

func TestSelectStrategy_UserBeyondMatrixRows(t *testing.T) {
	t.Parallel()

	art := testArtifact(t)
	users, err := NewIndexMapFromIndices(map[string]int{"late": 9})
	if err != nil {
		t.Fatalf("NewIndexMapFromIndices() error = %v", err)
	}
	if got := SelectStrategy("late", users, art.Interactions); got.Kind() != StrategyColdStart {
		t.Errorf("SelectStrategy() = %v, want cold start", got.Kind())
	}
}

func candidateIDs(cs []Candidate) []string {
	ids := make([]string, len(cs))
	for i, c := range cs {
		ids[i] = c.ProductID
	}
	return ids
}

func TestColdStart_Rank(t *testing.T) {
	t.Parallel()

	art := testArtifact(t)
	tests := []struct {
		name string
		topN int
		want []string
	}{
		{"top two by popularity", 2, []string{"p1", "p2"}},
		{"zero popularity ties keep index order", 5, []string{"p1", "p2", "p3", "p0", "p4"}},
		{"top n above item count", 50, []string{"p1", "p2", "p3", "p0", "p4"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ColdStart{}.Rank(nil, art.Items, art.Interactions, tt.topN)
			if err != nil {
				t.Fatalf("Rank() error = %v", err)
			}
			if ids := candidateIDs(got); !equalIDs(ids, tt.want) {
				t.Errorf("Rank() = %v, want %v", ids, tt.want)
			}
		})
	}
}

func TestColdStart_RankSkipsUnmappedBeforeCut(t *testing.T) {
	t.Parallel()

	art := testArtifact(t)
	// p1 (the most popular column) is not in the item map.
	items, err := NewIndexMapFromIndices(map[string]int{"p0": 0, "p2": 2, "p3": 3, "p4": 4})
	if err != nil {
		t.Fatalf("NewIndexMapFromIndices() error = %v", err)
	}

	got, err := ColdStart{}.Rank(nil, items, art.Interactions, 2)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if ids := candidateIDs(got); !equalIDs(ids, []string{"p2", "p3"}) {
		t.Errorf("Rank() = %v, want [p2 p3]", ids)
	}
	if got[0].Score != 3 {
		t.Errorf("score = %v, want 3", got[0].Score)
	}
}

func TestColdStart_RankMalformedMatrix(t *testing.T) {
	t.Parallel()

	art := testArtifact(t)
	bad := &SparseMatrix{Rows: 1, Cols: 2, RowPtr: []int{0, 1}, ColIdx: []int{5}, Values: []float64{1}}
	if _, err := (ColdStart{}).Rank(nil, art.Items, bad, 3); err == nil {
		t.Error("Rank() on malformed matrix should fail")
	}
}

func TestWarmStart_Rank(t *testing.T) {
	t.Parallel()

	art := testArtifact(t)
	tests := []struct {
		name string
		topN int
		want []string
	}{
		{"window is twice top n", 2, []string{"p1", "p3", "p2", "p4"}},
		{"window clipped to item count", 4, []string{"p1", "p3", "p2", "p4", "p0"}},
		{"single", 1, []string{"p1", "p3"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := WarmStart{UserIndex: 0}.Rank(art.Model, art.Items, art.Interactions, tt.topN)
			if err != nil {
				t.Fatalf("Rank() error = %v", err)
			}
			if ids := candidateIDs(got); !equalIDs(ids, tt.want) {
				t.Errorf("Rank() = %v, want %v", ids, tt.want)
			}
		})
	}
}

func TestWarmStart_RankErrors(t *testing.T) {
	t.Parallel()

	art := testArtifact(t)
	if _, err := (WarmStart{UserIndex: 0}).Rank(failingPredictor{items: 5}, art.Items, art.Interactions, 2); err == nil {
		t.Error("Rank() with failing predictor should fail")
	}
	if _, err := (WarmStart{UserIndex: 0}).Rank(nil, art.Items, art.Interactions, 2); err == nil {
		t.Error("Rank() without model should fail")
	}
	if _, err := (WarmStart{UserIndex: 99}).Rank(art.Model, art.Items, art.Interactions, 2); err == nil {
		t.Error("Rank() with out of range user should fail")
	}
}

func TestRankDescending(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		scores []float64
		want   []int
	}{
		{"distinct", []float64{1, 3, 2}, []int{1, 2, 0}},
		{"ties keep ascending index", []float64{2, 5, 2, 5, 2}, []int{1, 3, 0, 2, 4}},
		{"nan sorts last", []float64{math.NaN(), 1, 2}, []int{2, 1, 0}},
		{"negative scores", []float64{-1, -0.5, -2}, []int{1, 0, 2}},
		{"empty", nil, []int{}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rankDescending(tt.scores)
			if len(got) != len(tt.want) {
				t.Fatalf("rankDescending() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("rankDescending() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}
