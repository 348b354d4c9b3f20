// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/fashintel/internal/recommend"
	"github.com/tomtom215/fashintel/internal/recommend/storage"
)

var (
	recommendUser string
	recommendTopN int
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Print recommendations for a user",
	Long: `Loads the latest model artifact and scores it for --user, joining the
results against the MongoDB catalog. The result cache is not used.`,
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().StringVar(&recommendUser, "user", "", "user id (required)")
	recommendCmd.Flags().IntVar(&recommendTopN, "top-n", 0, "number of recommendations (default RECOMMEND_DEFAULT_TOP_N)")
	_ = recommendCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if recommendTopN < 0 {
		return errors.New("--top-n must be positive")
	}

	engineCfg := recommend.DefaultConfig()
	engineCfg.Artifact.Dir = cfg.Recommend.ModelDir
	engineCfg.Artifact.Name = cfg.Recommend.ModelName
	if cfg.Recommend.DefaultTopN > 0 {
		engineCfg.Limits.DefaultTopN = cfg.Recommend.DefaultTopN
	}
	if cfg.Recommend.MaxTopN >= engineCfg.Limits.DefaultTopN {
		engineCfg.Limits.MaxTopN = cfg.Recommend.MaxTopN
	}
	engineCfg.Cache.Enabled = false

	store, err := storage.NewStore(engineCfg.Artifact.Dir)
	if err != nil {
		return fmt.Errorf("open artifact store: %w", err)
	}

	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer closeDB(ctx, db)

	logger := cliLogger()
	loader := recommend.NewArtifactLoader(store, engineCfg.Artifact.Name, logger)
	if _, err := loader.Load(ctx); err != nil {
		return fmt.Errorf("load model artifact: %w", err)
	}

	engine, err := recommend.NewEngine(engineCfg, loader, db, nil, logger)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), engine.Recommend(ctx, recommendUser, recommendTopN))
}
