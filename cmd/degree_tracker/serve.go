package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/spf13/cobra"

	"github.com/jonathan/degree-tracker/internal/db"
	"github.com/jonathan/degree-tracker/internal/server"
)

var (
	servePort   int
	serveUseLLM bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for parsing courses, extracting requirements, and running audits.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (defaults to config port, 8080)")
	serveCmd.Flags().BoolVar(&serveUseLLM, "use-llm", false, "Use Gemini to extract requirements from pages the pattern extractor cannot parse")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	port := cfg.Port
	if cmd.Flags().Changed("port") {
		port = servePort
	}

	strategy, err := cfg.Strategy()
	if err != nil {
		return err
	}

	client, err := newLLMClient(cmd.Context(), serveUseLLM)
	if err != nil {
		return err
	}
	defer closeLLM(client)

	serverCfg := server.Config{
		Port:         port,
		Logger:       logger,
		FetchOptions: cfg.FetchOptions(),
		Strategy:     strategy,
		Concurrency:  cfg.FetchConcurrency,
		LLM:          client,
	}

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(cmd.Context(), cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()
		if err := database.Migrate(cmd.Context()); err != nil {
			return err
		}
		logger.Info("report storage enabled")
		serverCfg.Store = database
	} else {
		logger.Info("report storage disabled", zap.String("hint", "set DATABASE_URL to persist audits"))
	}

	srv, err := server.New(serverCfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}
