// Package cmd provides Cobra CLI commands for walcache.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bnema/walcache/internal/cli"
	"github.com/bnema/walcache/internal/domain/build"
)

var (
	app       *cli.App
	buildInfo build.Info
	rootCmd   = &cobra.Command{
		Use:   "walcache",
		Short: "Cached color scheme generation for wallpaper collections",
		Long: `walcache - compute terminal color schemes from wallpapers, once.

Palettes are extracted by pluggable backends (ImageMagick by default) and
stored in a content-addressed cache, so re-running a theme switch or a batch
over the same images costs a lookup instead of a quantization.

Features:
  - Batch processing with a worker pool and per-backend fallback
  - Cache keyed by image content, backend and generation parameters
  - Size, age and popularity based eviction plus deduplication
  - Palette scoring to pick the most readable wallpapers of a directory
  - Backend benchmarking and cache statistics export`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that don't need app context
			switch cmd.Name() {
			case "help", "completion", "gen-docs", "about":
				return nil
			}

			var err error
			app, err = cli.NewApp(cmd.Context(), buildInfo)
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
	}
)

// Execute runs the root command. An interrupt cancels the running command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if app != nil {
			_ = app.Close()
		}
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// SetBuildInfo sets the build information (called from main.go before Execute).
func SetBuildInfo(info build.Info) {
	buildInfo = info
}
