// Package ratelimit throttles API clients per route. Each client gets one
// token bucket per rule it hits; idle buckets are swept in the background.
package ratelimit

import (
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultIdleTimeout is how long an unused bucket survives a sweep.
const DefaultIdleTimeout = time.Hour

// Info describes a client's standing after one request.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled       bool
	DefaultLimit  int
	DefaultWindow time.Duration

	// CleanupInterval is the sweep period; zero disables sweeping.
	CleanupInterval time.Duration
	// IdleTimeout drops buckets unused for this long. Zero means DefaultIdleTimeout.
	IdleTimeout time.Duration

	Exempt  map[string]bool // client IDs never limited
	Blocked map[string]bool // client IDs always refused
	Rules   []Rule
}

// DefaultConfig is used when NewLimiter gets nil.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		Exempt:          map[string]bool{},
		Blocked:         map[string]bool{},
	}
}

type visitor struct {
	limiter  *rate.Limiter
	limit    int
	interval time.Duration // time to earn one token
	lastSeen time.Time
}

// Limiter tracks buckets for every client and route.
type Limiter struct {
	cfg *Config
	now func() time.Time

	mu       sync.Mutex
	visitors map[string]*visitor

	stop     chan struct{}
	stopOnce sync.Once
}

// NewLimiter creates a limiter. A nil config uses DefaultConfig. The caller
// must call Stop to end the sweeper.
func NewLimiter(cfg *Config) *Limiter {
	return newLimiter(cfg, time.Now)
}

func newLimiter(cfg *Config, now func() time.Time) *Limiter {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	l := &Limiter{
		cfg:      cfg,
		now:      now,
		visitors: make(map[string]*visitor),
	}
	if cfg.Enabled && cfg.CleanupInterval > 0 {
		l.stop = make(chan struct{})
		go l.sweepEvery(cfg.CleanupInterval)
	}
	return l
}

// Allow spends one token for clientID on the route and reports whether the
// request may proceed.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	switch {
	case !l.cfg.Enabled, l.cfg.Exempt[clientID]:
		return true, Info{Allowed: true}
	case l.cfg.Blocked[clientID]:
		return false, Info{}
	}

	rule := l.cfg.ruleFor(path, method)
	if rule.Limit <= 0 {
		return true, Info{Allowed: true}
	}

	// Prefix rules share one bucket across the paths they cover.
	scope := rule.Path
	if scope == "" {
		scope = path
	}

	now := l.now()
	v := l.visitor(clientID+" "+method+" "+scope, rule, now)
	allowed := v.limiter.AllowN(now, 1)
	return allowed, v.info(allowed, now)
}

func (l *Limiter) visitor(key string, rule Rule, now time.Time) *visitor {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{
			limiter:  rate.NewLimiter(rule.refill(), rule.burst()),
			limit:    rule.Limit,
			interval: rule.interval(),
		}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v
}

func (v *visitor) info(allowed bool, now time.Time) Info {
	tokens := v.limiter.TokensAt(now)
	info := Info{
		Allowed:   allowed,
		Limit:     v.limit,
		Remaining: max(0, int(math.Floor(tokens))),
		ResetTime: now,
	}

	if missing := float64(v.limiter.Burst()) - tokens; missing > 0 {
		info.ResetTime = now.Add(time.Duration(missing * float64(v.interval)))
	}
	if !allowed {
		info.RetryAfter = time.Duration((1 - tokens) * float64(v.interval))
	}
	return info
}

// Len reports how many buckets are live.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

func (l *Limiter) sweepEvery(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.sweep()
		case <-l.stop:
			return
		}
	}
}

// sweep drops buckets idle past the timeout.
func (l *Limiter) sweep() {
	idle := l.cfg.IdleTimeout
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	cutoff := l.now().Add(-idle)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, key)
		}
	}
}

// Stop ends the sweeper. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		if l.stop != nil {
			close(l.stop)
		}
	})
}
