package ratelimit

import (
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Rule limits one method on a path. A path ending in "/" covers every path
// under it.
type Rule struct {
	Path   string
	Method string
	Limit  int           // requests per Window; zero or less is unlimited
	Window time.Duration
	Burst  int // defaults to Limit
}

// unlimited routes are probes and scrapes.
var unlimited = map[string]bool{
	"GET /health":  true,
	"GET /metrics": true,
}

// DefaultRules returns the per-route limits for the API. Anything not listed
// gets the config default.
func DefaultRules() []Rule {
	return []Rule{
		// Fetch catalog pages, possibly through a browser.
		{Path: "/analyze", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/analyze/stream", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/programs/import", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},

		// CPU only.
		{Path: "/courses/parse", Method: "POST", Limit: 300, Window: time.Minute, Burst: 30},
		{Path: "/requirements/extract", Method: "POST", Limit: 300, Window: time.Minute, Burst: 30},
		{Path: "/programs/", Method: "POST", Limit: 300, Window: time.Minute, Burst: 30},
	}
}

// ruleFor picks the rule for a request: exact path first, then the longest
// matching prefix, then the default.
func (c *Config) ruleFor(path, method string) Rule {
	if unlimited[method+" "+path] {
		return Rule{Path: path, Method: method}
	}

	var best *Rule
	for i := range c.Rules {
		r := &c.Rules[i]
		if r.Method != method {
			continue
		}
		if r.Path == path {
			return *r
		}
		if strings.HasSuffix(r.Path, "/") && strings.HasPrefix(path, r.Path) {
			if best == nil || len(r.Path) > len(best.Path) {
				best = r
			}
		}
	}
	if best != nil {
		return *best
	}
	return Rule{Method: method, Limit: c.DefaultLimit, Window: c.DefaultWindow}
}

func (r Rule) interval() time.Duration {
	return r.Window / time.Duration(r.Limit)
}

func (r Rule) refill() rate.Limit {
	if r.Window <= 0 {
		return rate.Inf
	}
	return rate.Every(r.interval())
}

func (r Rule) burst() int {
	if r.Burst > 0 {
		return r.Burst
	}
	return r.Limit
}
