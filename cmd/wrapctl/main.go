// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

// Command wrapctl is the MALWrapped operator CLI. It computes stats from
// exported list JSON without touching the MAL API and prints OAuth
// authorization URLs for manual testing.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomtom215/malwrapped/internal/logging"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "wrapctl",
	Short:         "MALWrapped operator tool",
	Long:          "wrapctl computes year-in-review stats from exported MyAnimeList list JSON and helps test the OAuth flow.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the wrapctl version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

var logLevel string

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentPreRun = func(*cobra.Command, []string) {
		cfg := logging.DefaultConfig()
		cfg.Level = logLevel
		cfg.Format = "console"
		logging.Init(cfg)
	}
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
