// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package recommend

import (
	"fmt"
	"math"
	"sort"
)

// StrategyKind names a scoring strategy.
type StrategyKind string

const (
	// StrategyColdStart ranks by global popularity.
	StrategyColdStart StrategyKind = "cold_start"
	// StrategyWarmStart ranks by model prediction.
	StrategyWarmStart StrategyKind = "warm_start"
)

// WarmStartOverfetch is the candidate window multiplier for warm-start ranking.
const WarmStartOverfetch = 2

// Strategy is the per-request scoring decision. It is one of ColdStart or
// WarmStart and is chosen once per call by SelectStrategy.
type Strategy interface {
	// Kind returns the strategy name.
	Kind() StrategyKind

	// Rank returns the ordered candidates to join against the catalog.
	Rank(model Predictor, items *IndexMap, matrix *SparseMatrix, topN int) ([]Candidate, error)

	strategy()
}

// Candidate is a ranked item awaiting the catalog join.
type Candidate struct {
	ItemIndex int
	ProductID string
	Score     float64
}

// ColdStart ranks items by the column sums of the interaction matrix.
type ColdStart struct{}

// WarmStart ranks items by the model's predictions for one user.
type WarmStart struct {
	UserIndex int
}

func (ColdStart) strategy() {}
func (WarmStart) strategy() {}

// Kind implements Strategy.
func (ColdStart) Kind() StrategyKind { return StrategyColdStart }

// Kind implements Strategy.
func (WarmStart) Kind() StrategyKind { return StrategyWarmStart }

// SelectStrategy chooses warm start when userID is known to the model and has
// at least one non-zero interaction, and cold start otherwise.
func SelectStrategy(userID string, users *IndexMap, matrix *SparseMatrix) Strategy {
	idx, ok := users.Index(userID)
	if !ok || matrix.RowNonZero(idx) == 0 {
		return ColdStart{}
	}
	return WarmStart{UserIndex: idx}
}

// Rank returns at most topN mapped items by descending popularity.
// Unmapped item indices are skipped before the cut, so holes left by later
// catalog misses are never backfilled.
func (ColdStart) Rank(_ Predictor, items *IndexMap, matrix *SparseMatrix, topN int) ([]Candidate, error) {
	if err := matrix.Validate(); err != nil {
		return nil, err
	}

	popularity := matrix.ColumnSums()
	order := rankDescending(popularity)

	out := make([]Candidate, 0, min(topN, len(order)))
	for _, idx := range order {
		if len(out) == topN {
			break
		}
		id, ok := items.ID(idx)
		if !ok {
			continue
		}
		out = append(out, Candidate{ItemIndex: idx, ProductID: id, Score: popularity[idx]})
	}
	return out, nil
}

// Rank returns up to WarmStartOverfetch*topN items by descending predicted
// score. The catalog join walks them in order and stops at topN hits.
func (w WarmStart) Rank(model Predictor, items *IndexMap, _ *SparseMatrix, topN int) ([]Candidate, error) {
	if model == nil {
		return nil, fmt.Errorf("warm start without a model")
	}

	scores, err := model.Predict(w.UserIndex)
	if err != nil {
		return nil, fmt.Errorf("predict user %d: %w", w.UserIndex, err)
	}
	if len(scores) != model.NumItems() {
		return nil, fmt.Errorf("prediction has %d scores for %d items", len(scores), model.NumItems())
	}

	order := rankDescending(scores)
	window := min(WarmStartOverfetch*topN, len(order))

	out := make([]Candidate, 0, window)
	for _, idx := range order[:window] {
		id, ok := items.ID(idx)
		if !ok {
			continue
		}
		out = append(out, Candidate{ItemIndex: idx, ProductID: id, Score: scores[idx]})
	}
	return out, nil
}

// rankDescending returns indices of scores ordered by descending value.
// Ties keep ascending index order and NaN scores sort last.
func rankDescending(scores []float64) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		sa, sb := scores[order[a]], scores[order[b]]
		switch {
		case math.IsNaN(sa):
			return false
		case math.IsNaN(sb):
			return true
		default:
			return sa > sb
		}
	})
	return order
}
