// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/fashintel/internal/ingest"
)

var ingestPath string

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest the product dataset into MongoDB",
	Long: `Reads the dataset CSV, builds the attribute mappings and upserts every
product. Nothing is written when the catalog is already populated.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestPath, "path", "", "dataset CSV (default DATASET_PATH)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ingestPath != "" {
		cfg.Dataset.Path = ingestPath
	}

	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer closeDB(ctx, db)

	res, err := ingest.NewPipeline(&cfg.Dataset, db, cliLogger()).Run(ctx)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	if err := printJSON(cmd.OutOrStdout(), res.Stats); err != nil {
		return err
	}
	switch {
	case !res.Success:
		return errors.New("dataset produced no catalog")
	case res.Skipped:
		cmd.PrintErrln("catalog already populated, nothing ingested")
	default:
		cmd.PrintErrf("ingested %d products\n", len(res.Products))
	}
	return nil
}
