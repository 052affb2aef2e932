// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/jonathan/degree-tracker/internal/fetch"
	"github.com/jonathan/degree-tracker/internal/llm"
	"github.com/jonathan/degree-tracker/internal/matching"
)

// EnvPrefix prefixes every environment override, e.g. DEGREE_TRACKER_PORT.
const EnvPrefix = "DEGREE_TRACKER"

// Config represents the configuration loaded from a JSON or YAML file and the environment.
// All fields are optional; missing values use defaults or CLI flags.
type Config struct {
	// Fetching
	ProxyURL         string        `mapstructure:"proxy_url" json:"proxy_url,omitempty"`                 // CORS passthrough endpoint
	UseProxy         bool          `mapstructure:"use_proxy" json:"use_proxy,omitempty"`                 // Route catalog fetches through ProxyURL
	UseBrowser       bool          `mapstructure:"use_browser" json:"use_browser,omitempty"`             // Use headless browser for script-rendered catalogs
	FetchTimeout     time.Duration `mapstructure:"fetch_timeout" json:"fetch_timeout,omitempty"`         // Per-request timeout
	FetchConcurrency int           `mapstructure:"fetch_concurrency" json:"fetch_concurrency,omitempty"` // Parallel fetches in a batch

	// Matching
	MatchingStrategy string `mapstructure:"matching_strategy" json:"matching_strategy,omitempty"` // fuzzy or exact

	// Services
	APIKey           string `mapstructure:"api_key" json:"api_key,omitempty"`                     // Gemini API key for LLM extraction
	LLMModel         string `mapstructure:"llm_model" json:"llm_model,omitempty"`                 // Gemini model name
	AnalyzerEndpoint string `mapstructure:"analyzer_endpoint" json:"analyzer_endpoint,omitempty"` // Comment-analysis service base URL
	Port             int    `mapstructure:"port" json:"port,omitempty"`                           // HTTP server port
	DatabaseURL      string `mapstructure:"database_url" json:"database_url,omitempty"`           // Postgres URL for stored reports; empty disables

	// Logging
	LogLevel string `mapstructure:"log_level" json:"log_level,omitempty"` // debug, info, warn, error
	LogFile  string `mapstructure:"log_file" json:"log_file,omitempty"`   // Rotated JSON log file; empty disables
	Verbose  bool   `mapstructure:"verbose" json:"verbose,omitempty"`     // Print detailed debug information
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		ProxyURL:         fetch.DefaultProxyURL,
		FetchTimeout:     fetch.DefaultTimeout,
		FetchConcurrency: 4,
		MatchingStrategy: matching.StrategyFuzzy,
		LLMModel:         llm.DefaultModel,
		Port:             8080,
		LogLevel:         "info",
	}
}

// LoadConfig loads configuration from a JSON or YAML file, with environment overrides.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}
	return Load(path)
}

// Load reads defaults, then the file at path if one is given, then
// DEGREE_TRACKER_* environment variables. GEMINI_API_KEY also sets api_key
// and DATABASE_URL sets database_url.
func Load(path string) (*Config, error) {
	v := viper.New()

	d := Defaults()
	v.SetDefault("proxy_url", d.ProxyURL)
	v.SetDefault("use_proxy", d.UseProxy)
	v.SetDefault("use_browser", d.UseBrowser)
	v.SetDefault("fetch_timeout", d.FetchTimeout)
	v.SetDefault("fetch_concurrency", d.FetchConcurrency)
	v.SetDefault("matching_strategy", d.MatchingStrategy)
	v.SetDefault("api_key", d.APIKey)
	v.SetDefault("llm_model", d.LLMModel)
	v.SetDefault("analyzer_endpoint", d.AnalyzerEndpoint)
	v.SetDefault("port", d.Port)
	v.SetDefault("database_url", d.DatabaseURL)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("verbose", d.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("api_key", EnvPrefix+"_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("database_url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL")

	if path != "" {
		// Resolve path relative to current directory if not absolute
		if !filepath.IsAbs(path) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get current directory: %w", err)
			}
			path = filepath.Join(cwd, path)
		}
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.UseProxy && c.ProxyURL == "" {
		return fmt.Errorf("config error: 'use_proxy' requires 'proxy_url'")
	}

	// Validate numeric ranges
	if c.FetchTimeout < 0 {
		return fmt.Errorf("config error: 'fetch_timeout' must be non-negative")
	}
	if c.FetchConcurrency < 0 {
		return fmt.Errorf("config error: 'fetch_concurrency' must be non-negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}

	if c.MatchingStrategy != "" {
		if _, err := matching.StrategyByName(c.MatchingStrategy); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}
	if c.LogLevel != "" {
		if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("config error: invalid 'log_level': %w", err)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.ProxyURL == "" {
		result.ProxyURL = defaults.ProxyURL
	}
	if result.MatchingStrategy == "" {
		result.MatchingStrategy = defaults.MatchingStrategy
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.LLMModel == "" {
		result.LLMModel = defaults.LLMModel
	}
	if result.AnalyzerEndpoint == "" {
		result.AnalyzerEndpoint = defaults.AnalyzerEndpoint
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFile == "" {
		result.LogFile = defaults.LogFile
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Numeric fields: use default if zero
	if result.FetchTimeout == 0 {
		result.FetchTimeout = defaults.FetchTimeout
	}
	if result.FetchConcurrency == 0 {
		result.FetchConcurrency = defaults.FetchConcurrency
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// FetchOptions converts the fetch settings into fetch.Options.
func (c *Config) FetchOptions() *fetch.Options {
	opts := fetch.DefaultOptions()
	if c.FetchTimeout > 0 {
		opts.Timeout = c.FetchTimeout
		opts.BrowserTimeout = c.FetchTimeout
	}
	if c.ProxyURL != "" {
		opts.ProxyURL = c.ProxyURL
	}
	opts.UseProxy = c.UseProxy
	opts.UseBrowser = c.UseBrowser
	return opts
}

// LLMConfig returns the Gemini client settings.
func (c *Config) LLMConfig() *llm.Config {
	return llm.DefaultConfig().WithModel(c.LLMModel)
}

// Strategy returns the configured matching strategy, fuzzy when unset.
func (c *Config) Strategy() (matching.Strategy, error) {
	return matching.StrategyByName(c.MatchingStrategy)
}
