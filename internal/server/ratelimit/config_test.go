package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRuleFor(t *testing.T) {
	cfg := &Config{DefaultLimit: 1000, DefaultWindow: time.Minute, Rules: DefaultRules()}

	tests := []struct {
		name      string
		path      string
		method    string
		wantPath  string
		wantLimit int
	}{
		{name: "health unlimited", path: "/health", method: "GET", wantPath: "/health", wantLimit: 0},
		{name: "metrics unlimited", path: "/metrics", method: "GET", wantPath: "/metrics", wantLimit: 0},
		{name: "metrics post is not exempt", path: "/metrics", method: "POST", wantLimit: 1000},
		{name: "analyze exact", path: "/analyze", method: "POST", wantPath: "/analyze", wantLimit: 30},
		{name: "import beats prefix", path: "/programs/import", method: "POST", wantPath: "/programs/import", wantLimit: 30},
		{name: "evaluate by prefix", path: "/programs/northeastern-cs/evaluate", method: "POST", wantPath: "/programs/", wantLimit: 300},
		{name: "delete falls through prefix", path: "/programs/northeastern-cs", method: "DELETE", wantLimit: 1000},
		{name: "reads use default", path: "/programs", method: "GET", wantLimit: 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cfg.ruleFor(tt.path, tt.method)
			assert.Equal(t, tt.wantPath, got.Path)
			assert.Equal(t, tt.wantLimit, got.Limit)
		})
	}
}

func TestRuleFor_LongestPrefixWins(t *testing.T) {
	cfg := &Config{Rules: []Rule{
		{Path: "/programs/", Method: "POST", Limit: 300, Window: time.Minute},
		{Path: "/programs/imports/", Method: "POST", Limit: 10, Window: time.Minute},
	}}
	assert.Equal(t, 10, cfg.ruleFor("/programs/imports/batch", "POST").Limit)
	assert.Equal(t, 300, cfg.ruleFor("/programs/x/evaluate", "POST").Limit)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("DEGREE_TRACKER_RATE_LIMIT_DEFAULT_LIMIT", "50")
	t.Setenv("DEGREE_TRACKER_RATE_LIMIT_DEFAULT_WINDOW", "30s")
	t.Setenv("DEGREE_TRACKER_RATE_LIMIT_IDLE_TIMEOUT", "10m")
	t.Setenv("DEGREE_TRACKER_RATE_LIMIT_EXEMPT", "10.0.0.1, 10.0.0.2,")
	t.Setenv("DEGREE_TRACKER_RATE_LIMIT_BLOCKED", "192.168.1.9")

	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 50, cfg.DefaultLimit)
	assert.Equal(t, 30*time.Second, cfg.DefaultWindow)
	assert.Equal(t, 5*time.Minute, cfg.CleanupInterval)
	assert.Equal(t, 10*time.Minute, cfg.IdleTimeout)
	assert.Equal(t, map[string]bool{"10.0.0.1": true, "10.0.0.2": true}, cfg.Exempt)
	assert.True(t, cfg.Blocked["192.168.1.9"])
	assert.Equal(t, DefaultRules(), cfg.Rules)
}

func TestLoadConfig_BadLimitKeepsDefault(t *testing.T) {
	t.Setenv("DEGREE_TRACKER_RATE_LIMIT_DEFAULT_LIMIT", "lots")
	assert.Equal(t, 1000, LoadConfig().DefaultLimit)
}

func TestLoadConfig_Disabled(t *testing.T) {
	t.Setenv("DEGREE_TRACKER_RATE_LIMIT_ENABLED", "false")
	assert.False(t, LoadConfig().Enabled)
}
