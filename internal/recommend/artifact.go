// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package recommend

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/fashintel/internal/metrics"
	"github.com/tomtom215/fashintel/internal/recommend/storage"
)

// ArtifactMetadata describes a stored artifact version.
type ArtifactMetadata = storage.ArtifactMetadata

var (
	// ErrArtifactUnavailable is returned when no valid artifact can be loaded.
	ErrArtifactUnavailable = errors.New("model artifact unavailable")

	// ErrArtifactNotFound and ErrArtifactCorrupt re-export the store
	// sentinels so callers need not import the storage package.
	ErrArtifactNotFound = storage.ErrNotFound
	ErrArtifactCorrupt  = storage.ErrCorrupt
)

// Artifact bundles everything the scorer needs from offline training.
type Artifact struct {
	Model        *FactorizationModel
	Users        *IndexMap
	Items        *IndexMap
	Interactions *SparseMatrix
}

// Validate checks that the model, index maps and matrix agree on dimensions.
func (a *Artifact) Validate() error {
	if a.Model == nil || a.Users == nil || a.Items == nil || a.Interactions == nil {
		return errors.New("artifact is missing a component")
	}
	if err := a.Model.Validate(); err != nil {
		return fmt.Errorf("model: %w", err)
	}
	if err := a.Interactions.Validate(); err != nil {
		return fmt.Errorf("interactions: %w", err)
	}
	if maxItem := a.Items.MaxIndex(); maxItem >= a.Model.NumItems() || maxItem >= a.Interactions.Cols {
		return fmt.Errorf("item index %d outside model (%d items) or matrix (%d columns)",
			maxItem, a.Model.NumItems(), a.Interactions.Cols)
	}
	if maxUser := a.Users.MaxIndex(); maxUser >= a.Model.NumUsers() {
		return fmt.Errorf("user index %d outside model (%d users)", maxUser, a.Model.NumUsers())
	}
	return nil
}

// Mapping returns the artifact's index maps.
func (a *Artifact) Mapping() *DatasetMapping {
	return &DatasetMapping{Users: a.Users, Items: a.Items}
}

// LoadedArtifact is an artifact together with its store metadata.
type LoadedArtifact struct {
	*Artifact
	Metadata ArtifactMetadata
	LoadedAt time.Time
}

// ArtifactStore is the subset of storage.Store the loader reads from.
type ArtifactStore interface {
	Load(ctx context.Context, name string, version int, target interface{}) (*storage.ArtifactMetadata, error)
}

// ArtifactSaver is the subset of storage.Store used to publish artifacts.
type ArtifactSaver interface {
	Save(ctx context.Context, name string, version int, data interface{}, meta storage.ArtifactMetadata) (*storage.ArtifactMetadata, error)
}

// ArtifactLoader loads the latest artifact once and shares it process-wide
// until Invalidate or Reload is called.
type ArtifactLoader struct {
	store  ArtifactStore
	name   string
	logger zerolog.Logger

	mu           sync.RWMutex
	current      *LoadedArtifact
	lastErr      error
	lastAttempt  time.Time
	lastLoadedAt time.Time

	group    singleflight.Group
	loads    atomic.Int64
	failures atomic.Int64
}

// NewArtifactLoader creates a loader for the artifact family name.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewArtifactLoader(store ArtifactStore, name string, logger zerolog.Logger) *ArtifactLoader {
	return &ArtifactLoader{
		store:  store,
		name:   name,
		logger: logger.With().Str("component", "artifact_loader").Str("artifact", name).Logger(),
	}
}

// Load returns the cached artifact or loads the latest version.
func (l *ArtifactLoader) Load(ctx context.Context) (*LoadedArtifact, error) {
	if cur := l.Current(); cur != nil {
		return cur, nil
	}
	return l.load(ctx)
}

// Reload loads the latest version even if one is cached. On failure the
// previously loaded artifact stays in service.
func (l *ArtifactLoader) Reload(ctx context.Context) (*LoadedArtifact, error) {
	return l.load(ctx)
}

func (l *ArtifactLoader) load(ctx context.Context) (*LoadedArtifact, error) {
	v, err, shared := l.group.Do("load", func() (interface{}, error) {
		return l.loadFromStore(ctx)
	})
	if shared {
		l.logger.Debug().Msg("joined in-flight artifact load")
	}
	if err != nil {
		return nil, err
	}
	return v.(*LoadedArtifact), nil
}

func (l *ArtifactLoader) loadFromStore(ctx context.Context) (*LoadedArtifact, error) {
	start := time.Now()
	l.loads.Add(1)

	var art Artifact
	meta, err := l.store.Load(ctx, l.name, 0, &art)
	if err == nil {
		err = art.Validate()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastAttempt = time.Now()

	if err != nil {
		l.failures.Add(1)
		l.lastErr = err
		metrics.RecordArtifactLoad(0, time.Since(start), err)
		l.logger.Error().Err(err).Msg("failed to load model artifact")
		return nil, fmt.Errorf("%w: %w", ErrArtifactUnavailable, err)
	}

	loaded := &LoadedArtifact{
		Artifact: &art,
		Metadata: *meta,
		LoadedAt: l.lastAttempt,
	}
	prev := l.current
	l.current = loaded
	l.lastErr = nil
	l.lastLoadedAt = loaded.LoadedAt
	metrics.RecordArtifactLoad(meta.Version, time.Since(start), nil)

	event := l.logger.Info().
		Int("version", meta.Version).
		Int("users", art.Users.Len()).
		Int("items", art.Items.Len()).
		Int("interactions", art.Interactions.NonZero()).
		Dur("duration", time.Since(start))
	if prev != nil {
		event = event.Int("previous_version", prev.Metadata.Version)
	}
	event.Msg("model artifact loaded")

	return loaded, nil
}

// LoadModel returns the model, index maps and interaction matrix of the
// current artifact. All three are nil when no artifact can be loaded.
func (l *ArtifactLoader) LoadModel(ctx context.Context) (Predictor, *DatasetMapping, *SparseMatrix) {
	art, err := l.Load(ctx)
	if err != nil {
		return nil, nil, nil
	}
	return art.Model, art.Mapping(), art.Interactions
}

// Invalidate drops the cached artifact; the next Load reads the store again.
func (l *ArtifactLoader) Invalidate() {
	l.mu.Lock()
	l.current = nil
	l.mu.Unlock()
	l.logger.Debug().Msg("artifact cache invalidated")
}

// Current returns the cached artifact without loading.
func (l *ArtifactLoader) Current() *LoadedArtifact {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// LoaderStatus reports the loader state.
type LoaderStatus struct {
	Loaded       bool
	Metadata     *ArtifactMetadata
	LastLoadedAt time.Time
	LastAttempt  time.Time
	LastError    error
	Loads        int64
	Failures     int64
}

// Status returns a snapshot of the loader state.
func (l *ArtifactLoader) Status() LoaderStatus {
	l.mu.RLock()
	defer l.mu.RUnlock()

	st := LoaderStatus{
		Loaded:       l.current != nil,
		LastLoadedAt: l.lastLoadedAt,
		LastAttempt:  l.lastAttempt,
		LastError:    l.lastErr,
		Loads:        l.loads.Load(),
		Failures:     l.failures.Load(),
	}
	if l.current != nil {
		meta := l.current.Metadata
		st.Metadata = &meta
	}
	return st
}

// SaveArtifact validates art and publishes it as the next version of name.
// Counts in meta are filled from the artifact.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func SaveArtifact(ctx context.Context, store ArtifactSaver, name string, art *Artifact, meta ArtifactMetadata) (*ArtifactMetadata, error) {
	if err := art.Validate(); err != nil {
		return nil, fmt.Errorf("invalid artifact: %w", err)
	}

	meta.UserCount = art.Users.Len()
	meta.ItemCount = art.Items.Len()
	meta.InteractionCount = art.Interactions.NonZero()
	if len(art.Model.ItemFactors) > 0 {
		meta.Rank = len(art.Model.ItemFactors[0])
	}
	if meta.TrainedAt.IsZero() {
		meta.TrainedAt = time.Now().UTC()
	}
	return store.Save(ctx, name, 0, art, meta)
}

//nolint:gochecknoinits // gob.Register must be called in init for type registration
func init() {
	gob.Register(&Artifact{})
	gob.Register(&IndexMap{})
	gob.Register(&SparseMatrix{})
}
