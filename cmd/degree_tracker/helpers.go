package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/jonathan/degree-tracker/internal/catalog"
	"github.com/jonathan/degree-tracker/internal/fetch"
	"github.com/jonathan/degree-tracker/internal/llm"
	"github.com/jonathan/degree-tracker/internal/matching"
)

// resolveStrategy returns the named strategy, falling back to the configured one.
func resolveStrategy(name string) (matching.Strategy, error) {
	if name == "" {
		return cfg.Strategy()
	}
	return matching.StrategyByName(name)
}

func newFetcher() *fetch.Fetcher {
	return fetch.New(cfg.FetchOptions(), logger)
}

// newLLMClient returns a Gemini client when enabled. The caller closes it.
func newLLMClient(ctx context.Context, enabled bool) (llm.Client, error) {
	if !enabled {
		return nil, nil
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("--use-llm requires an API key (set GEMINI_API_KEY or api_key in config)")
	}
	llmCfg := cfg.LLMConfig()
	llmCfg.Logger = logger
	client, err := llm.NewClient(ctx, llmCfg, cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return client, nil
}

func closeLLM(client llm.Client) {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		logger.Warn("failed to close LLM client", zap.Error(err))
	}
}

// loadRegistry returns the built-in programs.
func loadRegistry() (*catalog.Registry, error) {
	registry, err := catalog.DefaultRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to load built-in programs: %w", err)
	}
	return registry, nil
}

// writeJSON writes v as indented JSON to path, creating parent directories.
func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
