// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package recommend

import (
	"encoding/gob"
	"fmt"
)

// Predictor is the black-box interface of a trained model.
type Predictor interface {
	// Predict scores every item index for the user at userIndex.
	// The returned slice is indexed by item index.
	Predict(userIndex int) ([]float64, error)

	// NumItems returns the size of the item space Predict scores.
	NumItems() int
}

// FactorizationModel is a biased matrix factorization model:
//
//	score(u, i) = GlobalBias + UserBiases[u] + ItemBiases[i] + dot(UserFactors[u], ItemFactors[i])
//
// It is produced by an external trainer and only evaluated here.
type FactorizationModel struct {
	GlobalBias  float64
	UserBiases  []float64
	ItemBiases  []float64
	UserFactors [][]float64
	ItemFactors [][]float64
}

// Validate checks that the bias and factor dimensions agree.
func (m *FactorizationModel) Validate() error {
	if m == nil {
		return fmt.Errorf("nil factorization model")
	}
	if len(m.UserBiases) != 0 && len(m.UserBiases) != len(m.UserFactors) {
		return fmt.Errorf("user biases (%d) do not match user factors (%d)", len(m.UserBiases), len(m.UserFactors))
	}
	if len(m.ItemBiases) != 0 && len(m.ItemBiases) != len(m.ItemFactors) {
		return fmt.Errorf("item biases (%d) do not match item factors (%d)", len(m.ItemBiases), len(m.ItemFactors))
	}

	rank := -1
	check := func(kind string, vectors [][]float64) error {
		for i, v := range vectors {
			if rank < 0 {
				rank = len(v)
			}
			if len(v) != rank {
				return fmt.Errorf("%s factor %d has %d components, want %d", kind, i, len(v), rank)
			}
		}
		return nil
	}
	if err := check("user", m.UserFactors); err != nil {
		return err
	}
	return check("item", m.ItemFactors)
}

// NumItems implements Predictor.
func (m *FactorizationModel) NumItems() int {
	return len(m.ItemFactors)
}

// NumUsers returns the number of users the model was fitted on.
func (m *FactorizationModel) NumUsers() int {
	return len(m.UserFactors)
}

// Predict implements Predictor.
func (m *FactorizationModel) Predict(userIndex int) ([]float64, error) {
	if userIndex < 0 || userIndex >= len(m.UserFactors) {
		return nil, fmt.Errorf("user index %d out of range [0, %d)", userIndex, len(m.UserFactors))
	}

	userVec := m.UserFactors[userIndex]
	base := m.GlobalBias
	if len(m.UserBiases) > 0 {
		base += m.UserBiases[userIndex]
	}

	scores := make([]float64, len(m.ItemFactors))
	for i, itemVec := range m.ItemFactors {
		if len(itemVec) != len(userVec) {
			return nil, fmt.Errorf("item %d has rank %d, user has rank %d", i, len(itemVec), len(userVec))
		}
		s := base
		if len(m.ItemBiases) > 0 {
			s += m.ItemBiases[i]
		}
		for k, u := range userVec {
			s += u * itemVec[k]
		}
		scores[i] = s
	}
	return scores, nil
}

// Register gob types for serialization.
//
//nolint:gochecknoinits // gob.Register must be called in init for type registration
func init() {
	gob.Register(&FactorizationModel{})
}
