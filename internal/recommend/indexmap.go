// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package recommend

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sort"
)

// IndexMap is an immutable bidirectional mapping between external ids
// (user ids or product ids) and dense matrix indices.
//
// Both directions are built together at construction and never mutated, so
// a lookup in one direction always agrees with the other.
type IndexMap struct {
	toIndex map[string]int
	toID    map[int]string
}

// NewIndexMap assigns indices 0..n-1 to ids in the given order.
// Duplicate or empty ids are rejected.
func NewIndexMap(ids []string) (*IndexMap, error) {
	forward := make(map[string]int, len(ids))
	for i, id := range ids {
		forward[id] = i
		if len(forward) != i+1 {
			return nil, fmt.Errorf("duplicate id %q at position %d", id, i)
		}
	}
	return NewIndexMapFromIndices(forward)
}

// NewIndexMapFromIndices builds an IndexMap from an explicit id -> index table.
// Indices must be non-negative and unique, but need not be contiguous.
func NewIndexMapFromIndices(forward map[string]int) (*IndexMap, error) {
	m := &IndexMap{
		toIndex: make(map[string]int, len(forward)),
		toID:    make(map[int]string, len(forward)),
	}
	for id, idx := range forward {
		if id == "" {
			return nil, fmt.Errorf("empty id mapped to index %d", idx)
		}
		if idx < 0 {
			return nil, fmt.Errorf("negative index %d for id %q", idx, id)
		}
		if other, dup := m.toID[idx]; dup {
			return nil, fmt.Errorf("index %d mapped to both %q and %q", idx, other, id)
		}
		m.toIndex[id] = idx
		m.toID[idx] = id
	}
	return m, nil
}

// Index returns the matrix index of id.
func (m *IndexMap) Index(id string) (int, bool) {
	if m == nil {
		return 0, false
	}
	idx, ok := m.toIndex[id]
	return idx, ok
}

// ID returns the external id stored at idx.
func (m *IndexMap) ID(idx int) (string, bool) {
	if m == nil {
		return "", false
	}
	id, ok := m.toID[idx]
	return id, ok
}

// Len returns the number of mapped ids.
func (m *IndexMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.toIndex)
}

// MaxIndex returns the largest mapped index, or -1 for an empty map.
func (m *IndexMap) MaxIndex() int {
	if m == nil {
		return -1
	}
	maxIdx := -1
	for idx := range m.toID {
		if idx > maxIdx {
			maxIdx = idx
		}
	}
	return maxIdx
}

// IDs returns all ids ordered by index.
func (m *IndexMap) IDs() []string {
	if m == nil {
		return nil
	}
	indices := make([]int, 0, len(m.toID))
	for idx := range m.toID {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	ids := make([]string, len(indices))
	for i, idx := range indices {
		ids[i] = m.toID[idx]
	}
	return ids
}

// GobEncode writes only the forward table; the reverse table is rebuilt on decode.
func (m *IndexMap) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(m.toIndex); err != nil {
		return nil, fmt.Errorf("encode index map: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode restores the map and validates it.
func (m *IndexMap) GobDecode(data []byte) error {
	var forward map[string]int
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&forward); err != nil {
		return fmt.Errorf("decode index map: %w", err)
	}
	rebuilt, err := NewIndexMapFromIndices(forward)
	if err != nil {
		return fmt.Errorf("invalid index map: %w", err)
	}
	*m = *rebuilt
	return nil
}

// DatasetMapping bundles the user and item index maps of a trained model.
type DatasetMapping struct {
	Users *IndexMap
	Items *IndexMap
}
