// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tomtom215/fashintel/internal/config"
	"github.com/tomtom215/fashintel/internal/database"
	"github.com/tomtom215/fashintel/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	cfg        *config.Config
	configPath string
	logLevel   string
	modelDir   string
)

var rootCmd = &cobra.Command{
	Use:   "fashctl",
	Short: "Operate the Fashintel recommendation engine",
	Long: `fashctl talks to the same MongoDB catalog and artifact directory as the
server. Configuration comes from config.yaml (or --config) and the
environment, exactly as for the server.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: CONFIG_PATH, then ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&modelDir, "model-dir", "", "override MODEL_DIR")
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.LoadFile(configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if logLevel != "" {
		loaded.Logging.Level = logLevel
	}
	if modelDir != "" {
		loaded.Recommend.ModelDir = modelDir
	}
	cfg = loaded

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    "console",
		Service:   "fashctl",
		Timestamp: true,
		Output:    cmd.ErrOrStderr(),
	})
	return nil
}

func cliLogger() zerolog.Logger {
	return logging.Logger().With().Str("component", "fashctl").Logger()
}

// openDB connects to the catalog store. The caller closes it with closeDB.
func openDB(ctx context.Context) (*database.DB, error) {
	db, err := database.New(ctx, &cfg.Database, cliLogger())
	if err != nil {
		return nil, fmt.Errorf("connect to catalog store: %w", err)
	}
	return db, nil
}

func closeDB(ctx context.Context, db *database.DB) {
	if err := db.Close(ctx); err != nil {
		logger := cliLogger()
		logger.Warn().Err(err).Msg("Error closing database")
	}
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// writeJSONFile writes v as indented JSON to path.
func writeJSONFile(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
