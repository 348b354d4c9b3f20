// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/tomtom215/fashintel/internal/features"
)

var (
	// ErrSourceUnavailable is returned when the dataset file cannot be opened.
	ErrSourceUnavailable = errors.New("dataset source unavailable")

	// ErrEmptyDataset is returned when the dataset has no data rows.
	ErrEmptyDataset = errors.New("dataset is empty")
)

// Dataset is a parsed CSV table.
type Dataset struct {
	Columns []string
	Rows    []features.Row
}

// HasColumn reports whether the header contains name.
func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// ColumnEmpty reports whether every row is missing a value for name.
func (d *Dataset) ColumnEmpty(name string) bool {
	for _, row := range d.Rows {
		if _, ok := row.Value(name); ok {
			return false
		}
	}
	return true
}

// ReadDataset reads the CSV file at path. The first record is the header.
func ReadDataset(path string) (*Dataset, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s not found", ErrSourceUnavailable, path)
		}
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	return parseDataset(f)
}

func parseDataset(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyDataset
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	ds := &Dataset{Columns: columns}
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}
		row := make(features.Row, len(columns))
		for i, v := range record {
			if i >= len(columns) {
				break
			}
			if !features.IsMissing(v) {
				row[columns[i]] = strings.TrimSpace(v)
			}
		}
		ds.Rows = append(ds.Rows, row)
	}

	if len(ds.Rows) == 0 {
		return nil, ErrEmptyDataset
	}
	return ds, nil
}
