// Package main provides the entry point for the degree tracker CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/degree-tracker/internal/config"
	"github.com/jonathan/degree-tracker/internal/logging"
)

var (
	configPath string
	verbose    bool
	logLevel   string

	// Set by the root PersistentPreRunE before any subcommand runs.
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "degree_tracker",
	Short: "Degree requirements tracker",
	Long: `Degree tracker extracts degree requirements from university catalog pages,
parses transcripts and course lists, and reports which requirements a student
has fulfilled, planned, or is still missing.

Configuration is read from --config (JSON or YAML) and DEGREE_TRACKER_* environment variables.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON or YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed debug information")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
}

// setup loads configuration and builds the logger shared by every command.
func setup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("log-level") {
		loaded.LogLevel = logLevel
	}
	if cmd.Flags().Changed("verbose") {
		loaded.Verbose = verbose
	}
	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded

	logger, err = logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Verbose: cfg.Verbose,
		File:    cfg.LogFile,
		Console: cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	err := rootCmd.Execute()
	if logger != nil {
		_ = logger.Sync()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
