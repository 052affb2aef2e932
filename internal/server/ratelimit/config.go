package ratelimit

import (
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes the rate limit environment variables, e.g.
// DEGREE_TRACKER_RATE_LIMIT_DEFAULT_LIMIT.
const EnvPrefix = "DEGREE_TRACKER_RATE_LIMIT"

// LoadConfig reads rate limits from the environment on top of DefaultConfig
// and DefaultRules. EXEMPT and BLOCKED take comma-separated client IPs.
func LoadConfig() *Config {
	d := DefaultConfig()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetDefault("enabled", d.Enabled)
	v.SetDefault("default_limit", d.DefaultLimit)
	v.SetDefault("default_window", d.DefaultWindow)
	v.SetDefault("cleanup_interval", d.CleanupInterval)
	v.SetDefault("idle_timeout", DefaultIdleTimeout)
	v.SetDefault("exempt", "")
	v.SetDefault("blocked", "")

	if !v.GetBool("enabled") {
		return &Config{Enabled: false}
	}

	cfg := &Config{
		Enabled:         true,
		DefaultLimit:    v.GetInt("default_limit"),
		DefaultWindow:   v.GetDuration("default_window"),
		CleanupInterval: v.GetDuration("cleanup_interval"),
		IdleTimeout:     v.GetDuration("idle_timeout"),
		Exempt:          clientSet(v.GetString("exempt")),
		Blocked:         clientSet(v.GetString("blocked")),
		Rules:           DefaultRules(),
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = d.DefaultLimit
	}
	if cfg.DefaultWindow <= 0 {
		cfg.DefaultWindow = d.DefaultWindow
	}
	return cfg
}

func clientSet(list string) map[string]bool {
	set := make(map[string]bool)
	for _, id := range strings.Split(list, ",") {
		if id = strings.TrimSpace(id); id != "" {
			set[id] = true
		}
	}
	return set
}
