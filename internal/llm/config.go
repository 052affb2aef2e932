// Package llm wraps the Gemini API for the one task the tracker hands to a
// model: turning catalog page text into structured requirements.
package llm

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Defaults for requirement extraction. Catalog pages are long but the output
// is a flat list, so a fast model with a modest output budget is enough.
const (
	DefaultModel           = "gemini-2.5-flash"
	DefaultTemperature     = 0.1
	DefaultMaxOutputTokens = 8192
	DefaultRequestTimeout  = 60 * time.Second
)

// Config holds model settings for a client. Zero fields take the defaults.
type Config struct {
	Model           string
	Temperature     float32
	MaxOutputTokens int32
	RequestTimeout  time.Duration
	Logger          *zap.Logger
}

// DefaultConfig returns the extraction defaults.
func DefaultConfig() *Config {
	return &Config{
		Model:           DefaultModel,
		Temperature:     DefaultTemperature,
		MaxOutputTokens: DefaultMaxOutputTokens,
		RequestTimeout:  DefaultRequestTimeout,
	}
}

// WithModel returns a copy of c that uses model.
func (c *Config) WithModel(model string) *Config {
	out := *c.withDefaults()
	if model != "" {
		out.Model = model
	}
	return &out
}

// Validate rejects settings the API would refuse.
func (c *Config) Validate() error {
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %.2f", c.Temperature)
	}
	if c.MaxOutputTokens < 0 {
		return fmt.Errorf("max output tokens must not be negative, got %d", c.MaxOutputTokens)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request timeout must not be negative, got %s", c.RequestTimeout)
	}
	return nil
}

// withDefaults returns a copy of c with zero fields filled in. A nil c gives DefaultConfig.
func (c *Config) withDefaults() *Config {
	d := DefaultConfig()
	if c == nil {
		d.Logger = zap.NewNop()
		return d
	}
	out := *c
	if out.Model == "" {
		out.Model = d.Model
	}
	if out.Temperature == 0 {
		out.Temperature = d.Temperature
	}
	if out.MaxOutputTokens == 0 {
		out.MaxOutputTokens = d.MaxOutputTokens
	}
	if out.RequestTimeout == 0 {
		out.RequestTimeout = d.RequestTimeout
	}
	if out.Logger == nil {
		out.Logger = zap.NewNop()
	}
	return &out
}
