// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testPayload struct {
	Factors [][]float64
	IDs     map[string]int
}

func samplePayload() testPayload {
	return testPayload{
		Factors: [][]float64{{0.1, 0.2}, {0.3, 0.4}},
		IDs:     map[string]int{"p1": 0, "p2": 1},
	}
}

func TestNewStore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		setup func(t *testing.T) string
	}{
		{
			name: "creates directory if not exists",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "nested", "models")
			},
		},
		{
			name: "uses existing directory",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := tt.setup(t)
			store, err := NewStore(dir)
			if err != nil {
				t.Fatalf("NewStore() error = %v", err)
			}
			if store.Dir() != dir {
				t.Errorf("Dir() = %q, want %q", store.Dir(), dir)
			}
		})
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	t.Parallel()

	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	ctx := context.Background()

	trained := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	saved, err := store.Save(ctx, "recommender", 1, samplePayload(), ArtifactMetadata{
		TrainedAt: trained,
		UserCount: 3,
		ItemCount: 2,
	})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if saved.Checksum == "" || saved.SizeBytes == 0 {
		t.Errorf("Save() metadata missing checksum or size: %+v", saved)
	}

	var got testPayload
	meta, err := store.Load(ctx, "recommender", 1, &got)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if meta.Name != "recommender" || meta.Version != 1 {
		t.Errorf("Load() meta = %s v%d, want recommender v1", meta.Name, meta.Version)
	}
	if !meta.TrainedAt.Equal(trained) {
		t.Errorf("TrainedAt = %v, want %v", meta.TrainedAt, trained)
	}
	if meta.Checksum != saved.Checksum {
		t.Errorf("Checksum = %s, want %s", meta.Checksum, saved.Checksum)
	}
	if len(got.Factors) != 2 || got.Factors[1][1] != 0.4 {
		t.Errorf("Factors = %v", got.Factors)
	}
	if got.IDs["p2"] != 1 {
		t.Errorf("IDs = %v", got.IDs)
	}
}

func TestStore_SaveAllocatesVersion(t *testing.T) {
	t.Parallel()

	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		meta, err := store.Save(ctx, "recommender", 0, samplePayload(), ArtifactMetadata{})
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if meta.Version != want {
			t.Errorf("Save() version = %d, want %d", meta.Version, want)
		}
	}

	if v, ok := store.LatestVersion("recommender"); !ok || v != 3 {
		t.Errorf("LatestVersion() = %d, %v, want 3, true", v, ok)
	}
}

func TestStore_LoadLatestSeesExternalWrites(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	reader, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	writer, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	ctx := context.Background()

	if _, err := writer.Save(ctx, "recommender", 0, samplePayload(), ArtifactMetadata{Source: "first"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := writer.Save(ctx, "recommender", 0, samplePayload(), ArtifactMetadata{Source: "second"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	var got testPayload
	meta, err := reader.Load(ctx, "recommender", 0, &got)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if meta.Version != 2 || meta.Source != "second" {
		t.Errorf("Load(latest) = v%d %q, want v2 %q", meta.Version, meta.Source, "second")
	}
}

func TestStore_LoadErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	ctx := context.Background()

	var got testPayload
	if _, err := store.Load(ctx, "missing", 0, &got); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load(missing latest) error = %v, want ErrNotFound", err)
	}
	if _, err := store.Load(ctx, "missing", 4, &got); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load(missing v4) error = %v, want ErrNotFound", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "broken_v1.gob.gz"), []byte("not a gob"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := store.Load(ctx, "broken", 0, &got); !errors.Is(err, ErrCorrupt) {
		t.Errorf("Load(broken) error = %v, want ErrCorrupt", err)
	}
}

func TestStore_LoadCancelledContext(t *testing.T) {
	t.Parallel()

	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var got testPayload
	if _, err := store.Load(ctx, "recommender", 0, &got); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestStore_SaveRejectsBadNames(t *testing.T) {
	t.Parallel()

	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	for _, name := range []string{"", "../escape", "a/b", ".hidden"} {
		if _, err := store.Save(context.Background(), name, 1, samplePayload(), ArtifactMetadata{}); err == nil {
			t.Errorf("Save(%q) expected error", name)
		}
	}
}

func TestStore_ListDeletePrune(t *testing.T) {
	t.Parallel()

	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if _, err := store.Save(ctx, "recommender", 0, samplePayload(), ArtifactMetadata{}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}
	if _, err := store.Save(ctx, "other", 0, samplePayload(), ArtifactMetadata{}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	metas, err := store.List(ctx, "recommender")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(metas) != 4 || metas[0].Version != 1 || metas[3].Version != 4 {
		t.Fatalf("List() = %d entries, want versions 1..4", len(metas))
	}

	if err := store.Delete(ctx, "recommender", 4); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if v, _ := store.LatestVersion("recommender"); v != 3 {
		t.Errorf("LatestVersion() after delete = %d, want 3", v)
	}
	if err := store.Delete(ctx, "recommender", 4); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete(again) error = %v, want ErrNotFound", err)
	}

	removed, err := store.Prune(ctx, "recommender", 1)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if removed != 2 {
		t.Errorf("Prune() removed = %d, want 2", removed)
	}
	metas, _ = store.List(ctx, "recommender")
	if len(metas) != 1 || metas[0].Version != 3 {
		t.Errorf("after Prune() = %+v, want only v3", metas)
	}
	if v, ok := store.LatestVersion("other"); !ok || v != 1 {
		t.Errorf("Prune() touched other artifact: %d, %v", v, ok)
	}
}

func TestStore_Stat(t *testing.T) {
	t.Parallel()

	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	ctx := context.Background()

	if _, err := store.Save(ctx, "recommender", 0, samplePayload(), ArtifactMetadata{ItemCount: 2}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	meta, err := store.Stat(ctx, "recommender", 0)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if meta.ItemCount != 2 || meta.Version != 1 {
		t.Errorf("Stat() = %+v", meta)
	}
}

func TestParseArtifactFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		name    string
		version int
		ok      bool
	}{
		{"recommender_v1", "recommender", 1, true},
		{"my_model_v12", "my_model", 12, true},
		{"recommender_v0", "", 0, false},
		{"recommender", "", 0, false},
		{"_v3", "", 0, false},
		{"recommender_vx", "", 0, false},
	}
	for _, tt := range tests {
		name, version, ok := parseArtifactFilename(tt.in)
		if name != tt.name || version != tt.version || ok != tt.ok {
			t.Errorf("parseArtifactFilename(%q) = %q, %d, %v, want %q, %d, %v",
				tt.in, name, version, ok, tt.name, tt.version, tt.ok)
		}
	}
}
