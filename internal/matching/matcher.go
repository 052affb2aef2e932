package matching

import (
	"strings"

	"github.com/jonathan/degree-tracker/internal/progress"
	"github.com/jonathan/degree-tracker/internal/types"
)

// Matcher evaluates requirements against a course list with one Strategy.
// It holds no state beyond the strategy, so it is safe for concurrent use.
type Matcher struct {
	strategy Strategy
}

// New creates a Matcher. A nil strategy selects Fuzzy.
func New(strategy Strategy) *Matcher {
	if strategy == nil {
		strategy = Fuzzy{}
	}
	return &Matcher{strategy: strategy}
}

// Strategy returns the strategy the matcher compares codes with.
func (m *Matcher) Strategy() Strategy {
	return m.strategy
}

// Match determines which courses satisfy req and the resulting status.
//
// With listed course codes, a course matches when the strategy accepts its code
// against any listed code. Without them, a course matches when its title and
// the requirement description contain one another, case-insensitively.
//
// The requirement counts as fulfilled when completed credits reach its target
// OR any completed course matches, even under target. Planned and in-progress
// matches only make it planned. Placeholder requirements are never fulfilled.
// A zero-credit requirement with no completed match stays missing rather than
// being fulfilled by 0 >= 0.
func (m *Matcher) Match(req types.Requirement, courses []types.Course) types.MatchResult {
	result := types.MatchResult{
		Requirement:    req.Clone(),
		MatchedCourses: []types.Course{},
		Status:         types.StatusMissing,
	}

	if !req.NeedsReview {
		for _, c := range courses {
			if m.courseMatches(req, c) {
				result.MatchedCourses = append(result.MatchedCourses, c)
			}
		}
	}

	completed := 0
	for _, c := range result.MatchedCourses {
		if c.IsCompleted() {
			completed++
			result.FulfilledCredits += c.Credits
		} else {
			result.PlannedCredits += c.Credits
		}
	}

	switch {
	case req.NeedsReview:
		// Unparsed source: nothing to compare against.
	case completed > 0:
		// Reaching the credit target implies a completed match, and a
		// zero-credit requirement still needs one.
		result.Fulfilled = true
		result.Status = types.StatusFulfilled
	case len(result.MatchedCourses) > 0:
		result.Status = types.StatusPlanned
	}

	// Status values are fixed above, so SetStatus cannot fail.
	_ = result.Requirement.SetStatus(result.Status)
	return result
}

func (m *Matcher) courseMatches(req types.Requirement, c types.Course) bool {
	if len(req.MatchingCourses) > 0 {
		for _, code := range req.MatchingCourses {
			if m.strategy.Match(c.Code, code) {
				return true
			}
		}
		return false
	}
	return textOverlap(c.Title, req.Description)
}

// textOverlap is the case-insensitive mutual substring test. Empty strings never overlap.
func textOverlap(title, description string) bool {
	t := strings.ToLower(strings.TrimSpace(title))
	d := strings.ToLower(strings.TrimSpace(description))
	if t == "" || d == "" {
		return false
	}
	return strings.Contains(t, d) || strings.Contains(d, t)
}

// Evaluate re-evaluates every requirement of p against courses and returns an
// updated copy. p is not modified; repeated calls give identical results.
func (m *Matcher) Evaluate(p types.Program, courses []types.Course) types.Program {
	out := p.Clone()
	for _, reqs := range out.Requirements {
		for i := range reqs {
			reqs[i] = m.Match(reqs[i], courses).Requirement
		}
	}
	return out
}

// EvaluateResults matches every requirement of p in category order.
func (m *Matcher) EvaluateResults(p types.Program, courses []types.Course) []types.MatchResult {
	reqs := p.AllRequirements()
	results := make([]types.MatchResult, 0, len(reqs))
	for _, req := range reqs {
		results = append(results, m.Match(req, courses))
	}
	return results
}

// Analyze matches each requirement and partitions the results into fulfilled,
// planned and missing, with credit totals capped per requirement.
func (m *Matcher) Analyze(reqs []types.Requirement, courses []types.Course) types.AnalysisResult {
	analysis := types.AnalysisResult{
		Fulfilled: []types.MatchResult{},
		Planned:   []types.MatchResult{},
		Missing:   []types.MatchResult{},
	}

	results := make([]types.MatchResult, 0, len(reqs))
	for _, req := range reqs {
		r := m.Match(req, courses)
		results = append(results, r)

		switch r.Status {
		case types.StatusFulfilled:
			analysis.Fulfilled = append(analysis.Fulfilled, r)
		case types.StatusPlanned:
			analysis.Planned = append(analysis.Planned, r)
		default:
			analysis.Missing = append(analysis.Missing, r)
		}
	}

	totals := progress.Credits(results)
	analysis.TotalCreditsRequired = totals.Required
	analysis.TotalCreditsFulfilled = totals.Fulfilled
	return analysis
}
