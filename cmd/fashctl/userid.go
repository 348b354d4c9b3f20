// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package main

import (
	"github.com/spf13/cobra"

	"github.com/tomtom215/fashintel/internal/identity"
)

var (
	userIDUsername string
	userIDOffline  bool
)

var userIDCmd = &cobra.Command{
	Use:   "user-id",
	Short: "Derive the user id for a username",
	Long: `Prints the id the sign-up flow would assign to --username. Candidates
already present in the users collection are skipped. With --offline the
store is not consulted and the first candidate is printed.`,
	RunE: runUserID,
}

func init() {
	userIDCmd.Flags().StringVar(&userIDUsername, "username", "", "username (required)")
	userIDCmd.Flags().BoolVar(&userIDOffline, "offline", false, "do not check the users collection")
	_ = userIDCmd.MarkFlagRequired("username")
	rootCmd.AddCommand(userIDCmd)
}

func runUserID(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	var checker identity.Checker
	if !userIDOffline {
		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer closeDB(ctx, db)
		checker = db
	}

	id, err := identity.Generate(ctx, userIDUsername, checker)
	if err != nil {
		return err
	}
	cmd.Println(id)
	return nil
}
