// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

const artifactExt = ".gob.gz"

var (
	// ErrNotFound is returned when no artifact exists for a name or version.
	ErrNotFound = errors.New("artifact not found")

	// ErrCorrupt is returned when an artifact file cannot be decoded or its
	// checksum does not match.
	ErrCorrupt = errors.New("artifact corrupt")
)

// ArtifactMetadata describes one stored artifact version.
type ArtifactMetadata struct {
	// Name is the artifact family name (e.g., "recommender").
	Name string `json:"name"`

	// Version is the artifact version (monotonically increasing per name).
	Version int `json:"version"`

	// TrainedAt is when the model inside the artifact was trained.
	TrainedAt time.Time `json:"trained_at"`

	// SavedAt is when the artifact was written.
	SavedAt time.Time `json:"saved_at"`

	UserCount        int `json:"user_count"`
	ItemCount        int `json:"item_count"`
	InteractionCount int `json:"interaction_count"`
	Rank             int `json:"rank"`

	// Checksum is the SHA-256 of the uncompressed payload.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed payload size.
	SizeBytes int64 `json:"size_bytes"`

	// Source records where the artifact came from (trainer name, CLI command).
	Source string `json:"source,omitempty"`
}

// storedFile is the on-disk format.
type storedFile struct {
	Metadata       ArtifactMetadata
	CompressedData []byte
}

// Store manages artifact files in one directory.
type Store struct {
	baseDir string
	mu      sync.RWMutex

	// latest version per name
	versions map[string]int
}

// NewStore opens (and creates if needed) an artifact store at baseDir.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil { //nolint:gosec // 0750 is acceptable for model storage
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	s := &Store{
		baseDir:  baseDir,
		versions: make(map[string]int),
	}
	if err := s.rescan(); err != nil {
		return nil, fmt.Errorf("scan existing artifacts: %w", err)
	}
	return s, nil
}

// Dir returns the store directory.
func (s *Store) Dir() string {
	return s.baseDir
}

// rescan rebuilds the latest-version table from the directory contents.
// Caller must hold the write lock or be the constructor.
func (s *Store) rescan() error {
	found, err := s.scanVersions()
	if err != nil {
		return err
	}
	versions := make(map[string]int, len(found))
	for name, vs := range found {
		versions[name] = vs[len(vs)-1]
	}
	s.versions = versions
	return nil
}

// scanVersions lists every version per name, ascending.
func (s *Store) scanVersions() (map[string][]int, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, err
	}

	found := make(map[string][]int)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), artifactExt) {
			continue
		}
		name, version, ok := parseArtifactFilename(strings.TrimSuffix(entry.Name(), artifactExt))
		if !ok {
			continue
		}
		found[name] = append(found[name], version)
	}
	for _, vs := range found {
		sort.Ints(vs)
	}
	return found, nil
}

// parseArtifactFilename splits "recommender_v3" into ("recommender", 3).
func parseArtifactFilename(base string) (name string, version int, ok bool) {
	idx := strings.LastIndex(base, "_v")
	if idx <= 0 {
		return "", 0, false
	}
	version, err := strconv.Atoi(base[idx+2:])
	if err != nil || version <= 0 {
		return "", 0, false
	}
	return base[:idx], version, true
}

// Save writes data as version of name. A version of 0 allocates the next
// version number. The stored metadata is returned.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *Store) Save(ctx context.Context, name string, version int, data interface{}, meta ArtifactMetadata) (*ArtifactMetadata, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if version == 0 {
		if err := s.rescan(); err != nil {
			return nil, fmt.Errorf("scan artifacts: %w", err)
		}
		version = s.versions[name] + 1
	}

	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(data); err != nil {
		return nil, fmt.Errorf("encode artifact: %w", err)
	}
	sum := sha256.Sum256(raw.Bytes())

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw.Bytes()); err != nil {
		return nil, fmt.Errorf("compress artifact: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return nil, fmt.Errorf("finalize compression: %w", err)
	}

	meta.Name = name
	meta.Version = version
	meta.Checksum = hex.EncodeToString(sum[:])
	meta.SizeBytes = int64(compressed.Len())
	meta.SavedAt = time.Now().UTC()

	tmp, err := os.CreateTemp(s.baseDir, ".tmp-"+name+"-*")
	if err != nil {
		return nil, fmt.Errorf("create artifact file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() //nolint:errcheck // no-op after successful rename

	sf := storedFile{Metadata: meta, CompressedData: compressed.Bytes()}
	if err := gob.NewEncoder(tmp).Encode(sf); err != nil {
		_ = tmp.Close() //nolint:errcheck // write error takes precedence
		return nil, fmt.Errorf("write artifact file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close artifact file: %w", err)
	}
	if err := os.Rename(tmpName, s.artifactPath(name, version)); err != nil {
		return nil, fmt.Errorf("publish artifact file: %w", err)
	}

	if version > s.versions[name] {
		s.versions[name] = version
	}
	return &meta, nil
}

// Load decodes the artifact name at version into target.
// Version 0 loads the latest version found on disk.
func (s *Store) Load(ctx context.Context, name string, version int, target interface{}) (*ArtifactMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if version == 0 {
		s.mu.Lock()
		err := s.rescan()
		latest, ok := s.versions[name]
		s.mu.Unlock()
		if err != nil {
			return nil, fmt.Errorf("scan artifacts: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		version = latest
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sf, err := s.readFile(name, version)
	if err != nil {
		return nil, err
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, fmt.Errorf("%w: decompress: %w", ErrCorrupt, err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	raw, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("%w: read payload: %w", ErrCorrupt, err)
	}

	sum := sha256.Sum256(raw)
	if got := hex.EncodeToString(sum[:]); got != sf.Metadata.Checksum {
		return nil, fmt.Errorf("%w: checksum mismatch: expected %s, got %s", ErrCorrupt, sf.Metadata.Checksum, got)
	}

	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(target); err != nil {
		return nil, fmt.Errorf("%w: decode payload: %w", ErrCorrupt, err)
	}
	return &sf.Metadata, nil
}

// Stat returns the metadata of an artifact version without decoding its payload.
// Version 0 means latest.
func (s *Store) Stat(ctx context.Context, name string, version int) (*ArtifactMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if version == 0 {
		if err := s.rescan(); err != nil {
			return nil, fmt.Errorf("scan artifacts: %w", err)
		}
		latest, ok := s.versions[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		version = latest
	}

	sf, err := s.readFile(name, version)
	if err != nil {
		return nil, err
	}
	return &sf.Metadata, nil
}

func (s *Store) readFile(name string, version int) (*storedFile, error) {
	f, err := os.Open(s.artifactPath(name, version)) //nolint:gosec // path is built from a validated name
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s v%d", ErrNotFound, name, version)
		}
		return nil, fmt.Errorf("open artifact file: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // error on close after read is not actionable

	var sf storedFile
	if err := gob.NewDecoder(f).Decode(&sf); err != nil {
		return nil, fmt.Errorf("%w: read %s v%d: %w", ErrCorrupt, name, version, err)
	}
	return &sf, nil
}

// LatestVersion returns the latest known version of name.
func (s *Store) LatestVersion(name string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.versions[name]
	return v, ok
}

// List returns the metadata of every stored version of name, oldest first.
// Unreadable files are skipped.
func (s *Store) List(ctx context.Context, name string) ([]ArtifactMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	found, err := s.scanVersions()
	if err != nil {
		return nil, fmt.Errorf("scan artifacts: %w", err)
	}

	metas := make([]ArtifactMetadata, 0, len(found[name]))
	for _, v := range found[name] {
		sf, err := s.readFile(name, v)
		if err != nil {
			continue
		}
		metas = append(metas, sf.Metadata)
	}
	return metas, nil
}

// Delete removes one artifact version.
func (s *Store) Delete(ctx context.Context, name string, version int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.artifactPath(name, version)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s v%d", ErrNotFound, name, version)
		}
		return fmt.Errorf("delete artifact: %w", err)
	}
	return s.rescan()
}

// Prune removes old versions of name, keeping the newest keep versions.
// It returns the number of files removed.
func (s *Store) Prune(ctx context.Context, name string, keep int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if keep < 1 {
		keep = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	found, err := s.scanVersions()
	if err != nil {
		return 0, fmt.Errorf("scan artifacts: %w", err)
	}
	vs := found[name]

	removed := 0
	for i := 0; i < len(vs)-keep; i++ {
		if err := os.Remove(s.artifactPath(name, vs[i])); err == nil {
			removed++
		}
	}
	return removed, s.rescan()
}

func (s *Store) artifactPath(name string, version int) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s_v%d%s", name, version, artifactExt))
}

func validateName(name string) error {
	if name == "" {
		return errors.New("artifact name is required")
	}
	if strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("invalid artifact name %q", name)
	}
	return nil
}

//nolint:gochecknoinits // gob.Register must be called in init for type registration
func init() {
	gob.Register(ArtifactMetadata{})
	gob.Register(storedFile{})
}
