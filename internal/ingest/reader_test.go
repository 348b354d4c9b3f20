// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return path
}

func TestReadDataset(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, "\ufeffid,brand,color\n1,Acme,Blue\n2,,NaN\n3,Zed\n")
	ds, err := ReadDataset(path)
	if err != nil {
		t.Fatalf("ReadDataset() error = %v", err)
	}

	if len(ds.Columns) != 3 || ds.Columns[0] != "id" {
		t.Errorf("Columns = %v, want BOM stripped", ds.Columns)
	}
	if len(ds.Rows) != 3 {
		t.Fatalf("len(Rows) = %d, want 3", len(ds.Rows))
	}
	if got := ds.Rows[0]["brand"]; got != "Acme" {
		t.Errorf("row 0 brand = %q", got)
	}
	if _, ok := ds.Rows[1].Value("brand"); ok {
		t.Error("empty cell should be missing")
	}
	if _, ok := ds.Rows[1].Value("color"); ok {
		t.Error("NaN cell should be missing")
	}
	if _, ok := ds.Rows[2].Value("color"); ok {
		t.Error("short record should leave trailing columns missing")
	}
	if !ds.HasColumn("color") || ds.HasColumn("pattern") {
		t.Error("HasColumn mismatch")
	}
	if !ds.ColumnEmpty("pattern") || ds.ColumnEmpty("brand") {
		t.Error("ColumnEmpty mismatch")
	}
}

func TestReadDataset_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr error
	}{
		{
			name:    "missing file",
			path:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.csv") },
			wantErr: ErrSourceUnavailable,
		},
		{
			name:    "empty file",
			path:    func(t *testing.T) string { return writeCSV(t, "") },
			wantErr: ErrEmptyDataset,
		},
		{
			name:    "header only",
			path:    func(t *testing.T) string { return writeCSV(t, "id,brand\n") },
			wantErr: ErrEmptyDataset,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ReadDataset(tt.path(t))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ReadDataset() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseDataset_QuotedFields(t *testing.T) {
	t.Parallel()

	ds, err := parseDataset(strings.NewReader("id,preprocessed_product_details\n7,\"soft, breathable cotton\"\n"))
	if err != nil {
		t.Fatalf("parseDataset() error = %v", err)
	}
	if got := ds.Rows[0]["preprocessed_product_details"]; got != "soft, breathable cotton" {
		t.Errorf("quoted field = %q", got)
	}
}
