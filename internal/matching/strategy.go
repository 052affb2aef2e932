// Package matching reconciles a student's course list against degree requirements.
package matching

import (
	"fmt"
	"strings"

	"github.com/jonathan/degree-tracker/internal/parsing"
)

// Strategy decides whether a student's course code satisfies a code listed on a requirement.
type Strategy interface {
	Match(studentCode, requirementCode string) bool
	Name() string
}

const (
	// StrategyFuzzy accepts equal codes and codes that contain one another
	StrategyFuzzy = "fuzzy"
	// StrategyExact accepts only codes with equal canonical forms
	StrategyExact = "exact"
)

// Fuzzy treats codes as equal when their canonical forms are equal or either
// contains the other. It tolerates lab and cross-listing suffixes, and it
// accepts "CS 250" for "CS 2500".
type Fuzzy struct{}

// Match implements Strategy.
func (Fuzzy) Match(studentCode, requirementCode string) bool {
	return parsing.CodesMatch(studentCode, requirementCode)
}

// Name implements Strategy.
func (Fuzzy) Name() string { return StrategyFuzzy }

// Exact treats codes as equal only when their canonical forms are equal.
type Exact struct{}

// Match implements Strategy.
func (Exact) Match(studentCode, requirementCode string) bool {
	return parsing.CodesEqual(studentCode, requirementCode)
}

// Name implements Strategy.
func (Exact) Name() string { return StrategyExact }

// StrategyByName returns the strategy registered under name. An empty name selects Fuzzy.
func StrategyByName(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", StrategyFuzzy:
		return Fuzzy{}, nil
	case StrategyExact:
		return Exact{}, nil
	default:
		return nil, fmt.Errorf("unknown matching strategy %q: must be %s or %s", name, StrategyFuzzy, StrategyExact)
	}
}
