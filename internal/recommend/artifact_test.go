// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package recommend

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/fashintel/internal/recommend/storage"
)

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return store
}

func TestArtifact_Validate(t *testing.T) {
	t.Parallel()

	if err := testArtifact(t).Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(a *Artifact)
	}{
		{"missing model", func(a *Artifact) { a.Model = nil }},
		{"missing users", func(a *Artifact) { a.Users = nil }},
		{"item index beyond model", func(a *Artifact) {
			a.Model.ItemFactors = a.Model.ItemFactors[:3]
		}},
		{"user index beyond model", func(a *Artifact) {
			a.Model.UserFactors = a.Model.UserFactors[:1]
		}},
		{"matrix narrower than items", func(a *Artifact) {
			a.Interactions = NewMatrixBuilder(3, 2).Build()
		}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a := testArtifact(t)
			tt.mutate(a)
			if err := a.Validate(); err == nil {
				t.Error("Validate() expected error")
			}
		})
	}
}

func TestSaveArtifact_RoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	meta, err := SaveArtifact(ctx, store, "recommender", testArtifact(t), ArtifactMetadata{Source: "test"})
	if err != nil {
		t.Fatalf("SaveArtifact() error = %v", err)
	}
	if meta.Version != 1 || meta.UserCount != 3 || meta.ItemCount != 5 || meta.InteractionCount != 4 || meta.Rank != 1 {
		t.Errorf("SaveArtifact() meta = %+v", meta)
	}

	loader := NewArtifactLoader(store, "recommender", zerolog.Nop())
	model, mapping, matrix := loader.LoadModel(ctx)
	if model == nil || mapping == nil || matrix == nil {
		t.Fatal("LoadModel() returned nil component")
	}
	if id, ok := mapping.Items.ID(3); !ok || id != "p3" {
		t.Errorf("Items.ID(3) = %q, %v", id, ok)
	}
	if matrix.At(0, 1) != 5 {
		t.Errorf("matrix.At(0, 1) = %v, want 5", matrix.At(0, 1))
	}
	scores, err := model.Predict(0)
	if err != nil || len(scores) != 5 {
		t.Fatalf("Predict() = %v, %v", scores, err)
	}
}

func TestSaveArtifact_RejectsInvalid(t *testing.T) {
	t.Parallel()

	art := testArtifact(t)
	art.Items = nil
	if _, err := SaveArtifact(context.Background(), newTestStore(t), "recommender", art, ArtifactMetadata{}); err == nil {
		t.Error("SaveArtifact() expected error")
	}
}

func TestArtifactLoader_MissingArtifactIsAllNil(t *testing.T) {
	t.Parallel()

	loader := NewArtifactLoader(newTestStore(t), "recommender", zerolog.Nop())
	model, mapping, matrix := loader.LoadModel(context.Background())
	if model != nil || mapping != nil || matrix != nil {
		t.Errorf("LoadModel() = %v, %v, %v, want all nil", model, mapping, matrix)
	}

	_, err := loader.Load(context.Background())
	if !errors.Is(err, ErrArtifactUnavailable) || !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Load() error = %v, want ErrArtifactUnavailable wrapping ErrNotFound", err)
	}
	if st := loader.Status(); st.Loaded || st.Failures != 2 || st.LastError == nil {
		t.Errorf("Status() = %+v", st)
	}
}

func TestArtifactLoader_CorruptArtifactIsAllNil(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	if err := os.WriteFile(filepath.Join(store.Dir(), "recommender_v1.gob.gz"), []byte("garbage"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	loader := NewArtifactLoader(store, "recommender", zerolog.Nop())
	model, mapping, matrix := loader.LoadModel(context.Background())
	if model != nil || mapping != nil || matrix != nil {
		t.Error("LoadModel() on corrupt artifact should return all nil")
	}
}

// countingStore wraps a store and counts loads.
type countingStore struct {
	ArtifactStore
	loads atomic.Int32
}

func (c *countingStore) Load(ctx context.Context, name string, version int, target interface{}) (*storage.ArtifactMetadata, error) {
	c.loads.Add(1)
	return c.ArtifactStore.Load(ctx, name, version, target)
}

func TestArtifactLoader_CachesUntilInvalidated(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	if _, err := SaveArtifact(ctx, store, "recommender", testArtifact(t), ArtifactMetadata{}); err != nil {
		t.Fatalf("SaveArtifact() error = %v", err)
	}

	counting := &countingStore{ArtifactStore: store}
	loader := NewArtifactLoader(counting, "recommender", zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := loader.Load(ctx); err != nil {
				t.Errorf("Load() error = %v", err)
			}
		}()
	}
	wg.Wait()
	first := counting.loads.Load()
	if first < 1 || first > 16 {
		t.Fatalf("store loads = %d", first)
	}

	for i := 0; i < 5; i++ {
		if _, err := loader.Load(ctx); err != nil {
			t.Fatalf("Load() error = %v", err)
		}
	}
	if got := counting.loads.Load(); got != first {
		t.Errorf("cached Load() hit the store: %d loads, want %d", got, first)
	}

	if _, err := SaveArtifact(ctx, store, "recommender", testArtifact(t), ArtifactMetadata{}); err != nil {
		t.Fatalf("SaveArtifact() error = %v", err)
	}
	loader.Invalidate()
	art, err := loader.Load(ctx)
	if err != nil {
		t.Fatalf("Load() after Invalidate error = %v", err)
	}
	if art.Metadata.Version != 2 {
		t.Errorf("Load() after Invalidate version = %d, want 2", art.Metadata.Version)
	}
}

func TestArtifactLoader_FailedReloadKeepsCurrent(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	if _, err := SaveArtifact(ctx, store, "recommender", testArtifact(t), ArtifactMetadata{}); err != nil {
		t.Fatalf("SaveArtifact() error = %v", err)
	}
	loader := NewArtifactLoader(store, "recommender", zerolog.Nop())
	if _, err := loader.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if err := os.WriteFile(filepath.Join(store.Dir(), "recommender_v2.gob.gz"), []byte("garbage"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := loader.Reload(ctx); err == nil {
		t.Fatal("Reload() of corrupt version should fail")
	}
	cur := loader.Current()
	if cur == nil || cur.Metadata.Version != 1 {
		t.Errorf("Current() after failed reload = %+v, want v1", cur)
	}
}
