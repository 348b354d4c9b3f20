// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/fashintel/internal/recommend"
	"github.com/tomtom215/fashintel/internal/recommend/storage"
)

var (
	inspectVersion  int
	inspectValidate bool

	buildModelPath string
	buildOutPath   string
	buildSince     time.Duration

	pruneKeep int
)

var artifactCmd = &cobra.Command{
	Use:   "artifact",
	Short: "Manage model artifacts",
}

var artifactInspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "List stored artifact versions",
	Long: `Prints the metadata of every stored version, or of --version only.
With --validate the latest version is fully loaded and checked.`,
	RunE: runArtifactInspect,
}

var artifactBuildCmd = &cobra.Command{
	Use:   "build-matrix",
	Short: "Build the interaction matrix and publish an artifact",
	Long: `Reads the interactions collection and the catalog, indexes users and
items, and builds the weighted user x item matrix.

Without --model the index maps and matrix entries are exported as JSON for
an offline trainer. With --model the trained factors are packed together
with the matrix and saved as the next artifact version.`,
	RunE: runArtifactBuild,
}

var artifactPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the newest artifact versions",
	RunE:  runArtifactPrune,
}

func init() {
	artifactInspectCmd.Flags().IntVar(&inspectVersion, "version", 0, "show one version (default all)")
	artifactInspectCmd.Flags().BoolVar(&inspectValidate, "validate", false, "load and validate the latest version")

	artifactBuildCmd.Flags().StringVar(&buildModelPath, "model", "", "trained model JSON to publish")
	artifactBuildCmd.Flags().StringVar(&buildOutPath, "out", "", "export file when --model is not set (default stdout)")
	artifactBuildCmd.Flags().DurationVar(&buildSince, "since", 0, "only use interactions newer than this (default all)")

	artifactPruneCmd.Flags().IntVar(&pruneKeep, "keep", 3, "versions to keep")

	artifactCmd.AddCommand(artifactInspectCmd, artifactBuildCmd, artifactPruneCmd)
	rootCmd.AddCommand(artifactCmd)
}

func openArtifactStore() (*storage.Store, error) {
	store, err := storage.NewStore(cfg.Recommend.ModelDir)
	if err != nil {
		return nil, fmt.Errorf("open artifact store %s: %w", cfg.Recommend.ModelDir, err)
	}
	return store, nil
}

func runArtifactInspect(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	store, err := openArtifactStore()
	if err != nil {
		return err
	}
	name := cfg.Recommend.ModelName

	if inspectValidate {
		loaded, err := recommend.NewArtifactLoader(store, name, cliLogger()).Load(ctx)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), loaded.Metadata)
	}

	if inspectVersion > 0 {
		meta, err := store.Stat(ctx, name, inspectVersion)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), meta)
	}

	metas, err := store.List(ctx, name)
	if err != nil {
		return err
	}
	if len(metas) == 0 {
		return fmt.Errorf("%w: no versions of %q in %s", recommend.ErrArtifactNotFound, name, store.Dir())
	}
	return printJSON(cmd.OutOrStdout(), metas)
}

func runArtifactBuild(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer closeDB(ctx, db)

	var since time.Time
	if buildSince > 0 {
		since = time.Now().Add(-buildSince)
	}
	interactions, err := db.ListInteractions(ctx, since)
	if err != nil {
		return err
	}
	summaries, err := db.ProductSummaries(ctx)
	if err != nil {
		return err
	}
	catalogIDs := make([]string, 0, len(summaries))
	for _, s := range summaries {
		catalogIDs = append(catalogIDs, s.ProductID)
	}

	mapping, matrix, err := recommend.BuildInteractionData(interactions, catalogIDs)
	if err != nil {
		return fmt.Errorf("build interaction matrix: %w", err)
	}
	logger := cliLogger()
	logger.Info().
		Int("interactions", len(interactions)).
		Int("users", mapping.Users.Len()).
		Int("items", mapping.Items.Len()).
		Int("non_zero", matrix.NonZero()).
		Msg("interaction matrix built")

	if buildModelPath == "" {
		export := newMatrixExport(mapping, matrix)
		if buildOutPath == "" {
			return printJSON(cmd.OutOrStdout(), export)
		}
		return writeJSONFile(buildOutPath, export)
	}

	model, err := readModelFile(buildModelPath)
	if err != nil {
		return err
	}
	store, err := openArtifactStore()
	if err != nil {
		return err
	}
	art := &recommend.Artifact{
		Model:        model,
		Users:        mapping.Users,
		Items:        mapping.Items,
		Interactions: matrix,
	}
	meta, err := recommend.SaveArtifact(ctx, store, cfg.Recommend.ModelName, art, recommend.ArtifactMetadata{
		Name:   cfg.Recommend.ModelName,
		Source: "fashctl build-matrix",
	})
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), meta)
}

func runArtifactPrune(cmd *cobra.Command, _ []string) error {
	if pruneKeep < 1 {
		return errors.New("--keep must be at least 1")
	}
	store, err := openArtifactStore()
	if err != nil {
		return err
	}
	removed, err := store.Prune(cmd.Context(), cfg.Recommend.ModelName, pruneKeep)
	if err != nil {
		return err
	}
	cmd.Printf("removed %d version(s)\n", removed)
	return nil
}

// modelFile is the trainer's output format.
type modelFile struct {
	GlobalBias  float64     `json:"global_bias"`
	UserBiases  []float64   `json:"user_biases"`
	ItemBiases  []float64   `json:"item_biases"`
	UserFactors [][]float64 `json:"user_factors"`
	ItemFactors [][]float64 `json:"item_factors"`
}

func readModelFile(path string) (*recommend.FactorizationModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	var mf modelFile
	if err := json.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("decode model %s: %w", path, err)
	}
	model := &recommend.FactorizationModel{
		GlobalBias:  mf.GlobalBias,
		UserBiases:  mf.UserBiases,
		ItemBiases:  mf.ItemBiases,
		UserFactors: mf.UserFactors,
		ItemFactors: mf.ItemFactors,
	}
	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("model %s: %w", path, err)
	}
	return model, nil
}

// matrixExport is the trainer's input format. Entries are [row, col, weight].
type matrixExport struct {
	Users   []string     `json:"users"`
	Items   []string     `json:"items"`
	Rows    int          `json:"rows"`
	Cols    int          `json:"cols"`
	Entries [][3]float64 `json:"entries"`
}

func newMatrixExport(mapping *recommend.DatasetMapping, m *recommend.SparseMatrix) *matrixExport {
	out := &matrixExport{
		Users:   mapping.Users.IDs(),
		Items:   mapping.Items.IDs(),
		Rows:    m.Rows,
		Cols:    m.Cols,
		Entries: make([][3]float64, 0, m.NonZero()),
	}
	for r := 0; r < m.Rows; r++ {
		for i := m.RowPtr[r]; i < m.RowPtr[r+1]; i++ {
			out.Entries = append(out.Entries, [3]float64{float64(r), float64(m.ColIdx[i]), m.Values[i]})
		}
	}
	return out
}
