// Package main provides the entry point for the graph-tracer CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"graph-tracer/internal/backend"
	"graph-tracer/internal/config"
	"graph-tracer/internal/extract"
	"graph-tracer/internal/version"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for graph-tracer.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graphtrace",
		Short: "Extract numeric curves from datasheet graph images",
		Long: `graph-tracer recovers the numeric curves behind raster plots in
semiconductor datasheets. Curves are segmented by color, corrected for grid
skew, mapped into the graph's logical units, and emitted as ordered (x, y)
sequences ready for SPICE model fitting.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().String("config", "", "Config file path (default: XDG config dir)")

	// Add subcommands
	cmd.AddCommand(NewDetectCmd())
	cmd.AddCommand(NewExtractCmd())
	cmd.AddCommand(NewBatchCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration and builds the logger shared by all commands.
func setup(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, logger, err
	}
	return cfg, logger, nil
}

// newOrchestrator assembles the full backend stack behind the stable
// extraction contract.
func newOrchestrator(cfg config.Config, logger *slog.Logger) *extract.Orchestrator {
	return extract.NewOrchestrator(
		backend.Stack(cfg, logger),
		extract.WithProbeTimeout(time.Duration(cfg.Backends.ProbeTimeout)),
		extract.WithLogger(logger),
	)
}
