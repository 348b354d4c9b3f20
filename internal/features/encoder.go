// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

// Package features builds and applies the categorical attribute encoding
// used for catalog products.
//
// Every categorical feature gets its own code table. Codes are assigned from 1
// in ascending order of the lowercased value strings; 0 is reserved for
// unknown or unseen values. The tables are derived once from the full dataset
// and persisted as a single document, so codes never change for the lifetime
// of that document.
//
// Example:
//
//	m := features.BuildMappings(rows, features.Categorical)
//	code := m.Encode("color", "Navy Blue") // 0 if "navy blue" was never seen
package features

import (
	"sort"
	"strings"
)

// Unknown is the sentinel that replaces missing categorical values.
const Unknown = "unknown"

// Categorical lists the categorical dataset columns in encoding order.
var Categorical = []string{
	"main_category",
	"sub_category",
	"material",
	"color",
	"occasion",
	"brand",
	"title",
	"fit",
	"sleeve_length",
	"neck",
	"waist_rise",
	"closure",
	"print_or_pattern_type",
	"shape",
	"length",
	"collar",
	"preprocessed_product_details",
}

// Important lists the attributes whose absence is reported as a data-quality warning.
var Important = []string{"fit", "occasion", "color", "material", "brand"}

// Row is a single raw dataset record keyed by column name.
// Missing cells are absent from the map.
type Row map[string]string

// Value returns the raw value of column and whether it is present.
func (r Row) Value(column string) (string, bool) {
	v, ok := r[column]
	if !ok || IsMissing(v) {
		return "", false
	}
	return v, true
}

// ValueOr returns the raw value of column, or fallback when it is missing.
func (r Row) ValueOr(column, fallback string) string {
	if v, ok := r.Value(column); ok {
		return v
	}
	return fallback
}

// missingMarkers are cell contents treated as missing data.
var missingMarkers = map[string]struct{}{
	"":         {},
	"nan":      {},
	"-nan":     {},
	"na":       {},
	"n/a":      {},
	"#n/a":     {},
	"<na>":     {},
	"null":     {},
	"none":     {},
	"#n/a n/a": {},
}

// IsMissing reports whether a raw cell value represents missing data.
func IsMissing(v string) bool {
	_, ok := missingMarkers[strings.ToLower(strings.TrimSpace(v))]
	return ok
}

// Normalize lowercases a raw categorical value.
func Normalize(v string) string {
	return strings.ToLower(v)
}

// Mappings holds one code table per categorical feature: value -> code.
type Mappings map[string]map[string]int

// BuildMappings derives the code tables for features from rows.
// Missing cells do not contribute values, so an all-missing column yields an
// empty table and every lookup against it resolves to 0.
func BuildMappings(rows []Row, featureNames []string) Mappings {
	m := make(Mappings, len(featureNames))

	for _, feature := range featureNames {
		seen := make(map[string]struct{})
		for _, row := range rows {
			v, ok := row.Value(feature)
			if !ok {
				continue
			}
			seen[Normalize(v)] = struct{}{}
		}

		values := make([]string, 0, len(seen))
		for v := range seen {
			values = append(values, v)
		}
		sort.Strings(values)

		table := make(map[string]int, len(values))
		for i, v := range values {
			table[v] = i + 1
		}
		m[feature] = table
	}

	return m
}

// Encode returns the code of value within feature. Values are lowercased
// before lookup. Unknown features and unseen values resolve to 0.
func (m Mappings) Encode(feature, value string) int {
	table, ok := m[feature]
	if !ok {
		return 0
	}
	return table[Normalize(value)]
}

// Cardinality returns the number of distinct values known for feature.
func (m Mappings) Cardinality(feature string) int {
	return len(m[feature])
}

// Equal reports whether two mapping sets are identical.
func (m Mappings) Equal(other Mappings) bool {
	if len(m) != len(other) {
		return false
	}
	for feature, table := range m {
		otherTable, ok := other[feature]
		if !ok || len(table) != len(otherTable) {
			return false
		}
		for v, code := range table {
			if otherTable[v] != code {
				return false
			}
		}
	}
	return true
}
