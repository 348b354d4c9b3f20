// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package recommend

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/fashintel/internal/metrics"
)

// Empty result reasons, used for logging and metrics.
const (
	ReasonArtifactUnavailable = "artifact_unavailable"
	ReasonInvalidTopN         = "invalid_top_n"
	ReasonScoringError        = "scoring_error"
	ReasonCatalogError        = "catalog_error"
	ReasonNoMatches           = "no_matches"
)

// Result is the outcome of one scoring call.
type Result struct {
	Recommendations []Recommendation
	Strategy        StrategyKind

	// EmptyReason is set when Recommendations is empty.
	EmptyReason string

	// CatalogMisses counts ranked candidates absent from the catalog.
	CatalogMisses int
}

// Scorer ranks products for a user and joins them against the catalog.
// It never returns an error: failures are logged and yield an empty result.
type Scorer struct {
	catalog Catalog
	logger  zerolog.Logger
}

// NewScorer creates a scorer that joins against catalog.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewScorer(catalog Catalog, logger zerolog.Logger) *Scorer {
	return &Scorer{
		catalog: catalog,
		logger:  logger.With().Str("component", "scorer").Logger(),
	}
}

// Recommend returns at most topN recommendations for userID.
func (s *Scorer) Recommend(ctx context.Context, userID string, topN int, model Predictor, mapping *DatasetMapping, matrix *SparseMatrix) []Recommendation {
	return s.Score(ctx, userID, topN, model, mapping, matrix).Recommendations
}

// Score is Recommend with the strategy and diagnostics attached.
func (s *Scorer) Score(ctx context.Context, userID string, topN int, model Predictor, mapping *DatasetMapping, matrix *SparseMatrix) Result {
	logger := s.logger.With().Str("user_id", userID).Int("top_n", topN).Logger()

	if topN <= 0 {
		return Result{Recommendations: []Recommendation{}, EmptyReason: ReasonInvalidTopN}
	}
	if model == nil || mapping == nil || mapping.Users == nil || mapping.Items == nil || matrix == nil {
		logger.Warn().Msg("no model artifact available for scoring")
		return Result{Recommendations: []Recommendation{}, EmptyReason: ReasonArtifactUnavailable}
	}

	if err := matrix.Validate(); err != nil {
		logger.Error().Err(err).Msg("interaction matrix rejected")
		return Result{Recommendations: []Recommendation{}, EmptyReason: ReasonScoringError}
	}

	strategy := SelectStrategy(userID, mapping.Users, matrix)
	res := Result{Recommendations: []Recommendation{}, Strategy: strategy.Kind()}
	logger = logger.With().Str("strategy", string(strategy.Kind())).Logger()

	candidates, err := rankSafely(strategy, model, mapping.Items, matrix, topN)
	if err != nil {
		logger.Error().Err(err).Msg("scoring failed")
		res.EmptyReason = ReasonScoringError
		return res
	}
	if len(candidates) == 0 {
		res.EmptyReason = ReasonNoMatches
		return res
	}

	recs, misses, err := s.join(ctx, candidates, topN)
	res.CatalogMisses = misses
	if err != nil {
		logger.Error().Err(err).Msg("catalog lookup failed")
		res.EmptyReason = ReasonCatalogError
		return res
	}
	if misses > 0 {
		metrics.CatalogMisses.Add(float64(misses))
		logger.Debug().Int("catalog_misses", misses).Msg("ranked products missing from catalog")
	}

	res.Recommendations = recs
	if len(recs) == 0 {
		res.EmptyReason = ReasonNoMatches
	}
	return res
}

// rankSafely converts a panic from a malformed artifact into an error.
func rankSafely(strategy Strategy, model Predictor, items *IndexMap, matrix *SparseMatrix, topN int) (candidates []Candidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("ranking panicked: %v", r)
		}
	}()
	return strategy.Rank(model, items, matrix, topN)
}

// join resolves candidates against the catalog in rank order, keeping at most
// topN hits. Misses are dropped.
func (s *Scorer) join(ctx context.Context, candidates []Candidate, topN int) ([]Recommendation, int, error) {
	if s.catalog == nil {
		return nil, 0, errors.New("no catalog configured")
	}

	ids := make([]string, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ProductID
	}
	found, err := s.catalog.FindProducts(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	recs := make([]Recommendation, 0, min(topN, len(candidates)))
	misses := 0
	for _, c := range candidates {
		if len(recs) == topN {
			break
		}
		p, ok := found[c.ProductID]
		if !ok {
			misses++
			continue
		}
		recs = append(recs, newRecommendation(c, p))
	}
	return recs, misses, nil
}

//nolint:gocritic // CatalogProduct passed by value is acceptable here
func newRecommendation(c Candidate, p CatalogProduct) Recommendation {
	return Recommendation{
		ProductID: c.ProductID,
		Title:     orDefault(p.Title, DefaultTitle),
		Category:  orDefault(p.Category, DefaultValue),
		Brand:     orDefault(p.Brand, DefaultValue),
		Color:     orDefault(p.Color, DefaultValue),
		ImageURL:  orDefault(p.ImageURL, DefaultImageURL),
		Score:     c.Score,
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
