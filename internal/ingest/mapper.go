// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package ingest

import (
	"fmt"

	"github.com/tomtom215/fashintel/internal/features"
	"github.com/tomtom215/fashintel/internal/models"
)

// Dedupe keeps the first row for every id and returns the kept rows with the
// number dropped. Rows without an id are kept; they are skipped later.
func Dedupe(rows []features.Row) ([]features.Row, int) {
	seen := make(map[string]struct{}, len(rows))
	kept := make([]features.Row, 0, len(rows))
	nullSeen := false
	for _, row := range rows {
		id, ok := row.Value("id")
		if !ok {
			// Missing ids compare equal to each other when deduplicating.
			if nullSeen {
				continue
			}
			nullSeen = true
			kept = append(kept, row)
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		kept = append(kept, row)
	}
	return kept, len(rows) - len(kept)
}

// Fill returns a copy of row where every categorical column that is missing
// holds features.Unknown.
func Fill(row features.Row) features.Row {
	filled := make(features.Row, len(row)+len(features.Categorical))
	for k, v := range row {
		filled[k] = v
	}
	for _, col := range features.Categorical {
		if _, ok := row.Value(col); !ok {
			filled[col] = features.Unknown
		}
	}
	return filled
}

// MissingImportant returns the important attributes missing from the raw row.
func MissingImportant(raw features.Row) []string {
	var missing []string
	for _, col := range features.Important {
		if _, ok := raw.Value(col); !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

// BuildProduct converts a filled dataset row into its catalog document.
// The row must have an id.
func BuildProduct(row features.Row, m features.Mappings) *models.Product {
	id := row["id"]
	lower := func(col string) string {
		return features.Normalize(row.ValueOr(col, features.Unknown))
	}

	attrs := make(models.Attributes, 2*len(features.Categorical)+2)
	for _, col := range features.Categorical {
		attrs[col] = lower(col)
		attrs["encoded_"+col] = m.Encode(col, row.ValueOr(col, features.Unknown))
	}
	attrs["category"] = lower("sub_category")
	attrs["encoded_category"] = m.Encode("sub_category", row.ValueOr("sub_category", features.Unknown))

	return &models.Product{
		ProductID: id,
		Title: fmt.Sprintf("%s %s (%s, %s, %s)",
			row.ValueOr("brand", features.Unknown),
			row.ValueOr("sub_category", features.Unknown),
			row.ValueOr("color", features.Unknown),
			row.ValueOr("fit", features.Unknown),
			row.ValueOr("occasion", features.Unknown),
		),
		ImageURL:           "/images/" + id + ".jpg",
		URL:                "#",
		Attributes:         attrs,
		Brand:              lower("brand"),
		SleeveLength:       lower("sleeve_length"),
		Occasion:           lower("occasion"),
		Fit:                lower("fit"),
		Neck:               lower("neck"),
		WaistRise:          lower("waist_rise"),
		Closure:            lower("closure"),
		PrintOrPatternType: lower("print_or_pattern_type"),
		Shape:              lower("shape"),
		Length:             lower("length"),
		Collar:             lower("collar"),
	}
}

// Summarize returns the listing projection of p.
func Summarize(p *models.Product) models.ProductSummary {
	return models.ProductSummary{
		ProductID: p.ProductID,
		Category:  p.Category(),
		Brand:     p.Brand,
		Color:     p.Color(),
	}
}
