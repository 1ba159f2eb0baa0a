//-------------------------------------------------------------------------
//
// pgEdge Retail Data Generator
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for pgedge-retailgen.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-retailgen/internal/config"
	"github.com/pgEdge/pgedge-retailgen/internal/datasets"
	"github.com/pgEdge/pgedge-retailgen/internal/logging"
	"github.com/pgEdge/pgedge-retailgen/pkg/version"
)

var (
	// Global flags
	cfgFile  string
	logLevel string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "pgedge-retailgen",
		Short: "Synthetic retail data warehouse generator",
		Long: `pgedge-retailgen generates synthetic retail data warehouse datasets:
customer, product, store, payment and date dimensions, sales facts, and
newline-delimited order events for streaming pipelines.

Generated files can be copied to a remote host over SFTP with the upload
command, or loaded into a PostgreSQL star schema with generate --load.
Runs are reproducible: the same seed produces the same tables.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./pgedge-retailgen.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(datasetsCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(uploadCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			logging.Warn().
				Str("signal", sig.String()).
				Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List available datasets",
	Long: `List all datasets that can be generated, with the files each one
writes under its output directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("Available datasets:")
		for _, ds := range datasets.All() {
			cmd.Println()
			cmd.Printf("  %-12s - %s\n", ds.Name(), ds.Description())
			for _, f := range ds.Files() {
				cmd.Printf("                   %s\n", f)
			}
		}
		cmd.Println()
		cmd.Println("Use 'pgedge-retailgen generate <dataset>' to generate one.")
	},
}
