// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package recommend

import (
	"errors"
	"fmt"
	"sort"
)

// ErrMalformedMatrix is returned when a sparse matrix fails its structural checks.
var ErrMalformedMatrix = errors.New("malformed interaction matrix")

// SparseMatrix is a user x item interaction matrix in compressed sparse row form.
//
// Row r's entries live in ColIdx[RowPtr[r]:RowPtr[r+1]] with matching Values.
// Fields are exported for gob encoding; treat a loaded matrix as read-only.
type SparseMatrix struct {
	Rows   int
	Cols   int
	RowPtr []int
	ColIdx []int
	Values []float64
}

// Validate checks the CSR invariants.
func (m *SparseMatrix) Validate() error {
	if m == nil {
		return fmt.Errorf("%w: nil matrix", ErrMalformedMatrix)
	}
	if m.Rows < 0 || m.Cols < 0 {
		return fmt.Errorf("%w: negative shape %dx%d", ErrMalformedMatrix, m.Rows, m.Cols)
	}
	if len(m.RowPtr) != m.Rows+1 {
		return fmt.Errorf("%w: row pointer length %d, want %d", ErrMalformedMatrix, len(m.RowPtr), m.Rows+1)
	}
	if len(m.ColIdx) != len(m.Values) {
		return fmt.Errorf("%w: %d column indices for %d values", ErrMalformedMatrix, len(m.ColIdx), len(m.Values))
	}
	if m.RowPtr[0] != 0 || m.RowPtr[m.Rows] != len(m.Values) {
		return fmt.Errorf("%w: row pointers do not span the value array", ErrMalformedMatrix)
	}
	for r := 0; r < m.Rows; r++ {
		if m.RowPtr[r] > m.RowPtr[r+1] {
			return fmt.Errorf("%w: row pointer decreases at row %d", ErrMalformedMatrix, r)
		}
	}
	for i, c := range m.ColIdx {
		if c < 0 || c >= m.Cols {
			return fmt.Errorf("%w: column %d out of range at entry %d", ErrMalformedMatrix, c, i)
		}
	}
	return nil
}

// RowNonZero returns the number of non-zero entries in row r.
// Rows outside the matrix have none.
func (m *SparseMatrix) RowNonZero(r int) int {
	if m == nil || r < 0 || r >= m.Rows {
		return 0
	}
	n := 0
	for i := m.RowPtr[r]; i < m.RowPtr[r+1]; i++ {
		if m.Values[i] != 0 {
			n++
		}
	}
	return n
}

// ColumnSums returns the sum of every column, indexed by column.
func (m *SparseMatrix) ColumnSums() []float64 {
	sums := make([]float64, m.Cols)
	for i, c := range m.ColIdx {
		sums[c] += m.Values[i]
	}
	return sums
}

// At returns the value stored at (r, c), or 0.
func (m *SparseMatrix) At(r, c int) float64 {
	if m == nil || r < 0 || r >= m.Rows {
		return 0
	}
	for i := m.RowPtr[r]; i < m.RowPtr[r+1]; i++ {
		if m.ColIdx[i] == c {
			return m.Values[i]
		}
	}
	return 0
}

// NonZero returns the total number of stored entries.
func (m *SparseMatrix) NonZero() int {
	return len(m.Values)
}

// MatrixBuilder accumulates (row, col, value) triples into a SparseMatrix.
// Repeated coordinates are summed.
type MatrixBuilder struct {
	rows, cols int
	cells      map[[2]int]float64
}

// NewMatrixBuilder creates a builder for a rows x cols matrix.
func NewMatrixBuilder(rows, cols int) *MatrixBuilder {
	return &MatrixBuilder{
		rows:  rows,
		cols:  cols,
		cells: make(map[[2]int]float64),
	}
}

// Add accumulates value at (r, c).
func (b *MatrixBuilder) Add(r, c int, value float64) error {
	if r < 0 || r >= b.rows || c < 0 || c >= b.cols {
		return fmt.Errorf("cell (%d, %d) outside %dx%d matrix", r, c, b.rows, b.cols)
	}
	b.cells[[2]int{r, c}] += value
	return nil
}

// Build produces the CSR matrix. Cells that sum to zero are not stored.
func (b *MatrixBuilder) Build() *SparseMatrix {
	keys := make([][2]int, 0, len(b.cells))
	for k, v := range b.cells {
		if v != 0 {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})

	m := &SparseMatrix{
		Rows:   b.rows,
		Cols:   b.cols,
		RowPtr: make([]int, b.rows+1),
		ColIdx: make([]int, len(keys)),
		Values: make([]float64, len(keys)),
	}
	for i, k := range keys {
		m.RowPtr[k[0]+1]++
		m.ColIdx[i] = k[1]
		m.Values[i] = b.cells[k]
	}
	for r := 0; r < b.rows; r++ {
		m.RowPtr[r+1] += m.RowPtr[r]
	}
	return m
}
