// Package steps declares the stages of a requirements audit and the order
// constraints between them.
package steps

import (
	"fmt"
	"slices"
)

// Step names.
const (
	ExtractRequirements = "extract_requirements"
	ParseCourses        = "parse_courses"
	MatchRequirements   = "match_requirements"
	SummarizeProgress   = "summarize_progress"
	ValidateReport      = "validate_report"
)

// Step categories.
const (
	CategoryIngestion = "ingestion"
	CategoryMatching  = "matching"
	CategoryReporting = "reporting"
)

// Step is one audit stage. A step may start once every step in After is done.
type Step struct {
	Name     string
	Category string
	After    []string
}

// graph lists the audit stages in a valid execution order.
var graph = []Step{
	{Name: ExtractRequirements, Category: CategoryIngestion},
	{Name: ParseCourses, Category: CategoryIngestion},
	{Name: MatchRequirements, Category: CategoryMatching, After: []string{ExtractRequirements, ParseCourses}},
	{Name: SummarizeProgress, Category: CategoryReporting, After: []string{MatchRequirements}},
	{Name: ValidateReport, Category: CategoryReporting, After: []string{SummarizeProgress}},
}

// Completed is the set of steps that have finished in a run.
type Completed map[string]bool

// DependencyError reports a step started before its prerequisites finished.
type DependencyError struct {
	Step    string
	Missing []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("step %s: missing dependencies: %v", e.Step, e.Missing)
}

// All returns every step in execution order.
func All() []Step {
	out := make([]Step, len(graph))
	for i, s := range graph {
		s.After = slices.Clone(s.After)
		out[i] = s
	}
	return out
}

// Lookup returns the named step.
func Lookup(name string) (Step, bool) {
	i := slices.IndexFunc(graph, func(s Step) bool { return s.Name == name })
	if i < 0 {
		return Step{}, false
	}
	return graph[i], true
}

// CategoryOf returns the category of a step, or "" for unknown names.
func CategoryOf(name string) string {
	s, _ := Lookup(name)
	return s.Category
}

// InOrder returns the completed steps in execution order.
func (c Completed) InOrder() []string {
	out := make([]string, 0, len(c))
	for _, s := range graph {
		if c[s.Name] {
			out = append(out, s.Name)
		}
	}
	return out
}

// Check returns a *DependencyError when a prerequisite of name is not done.
func Check(done Completed, name string) error {
	s, ok := Lookup(name)
	if !ok {
		return fmt.Errorf("unknown step: %s", name)
	}
	var missing []string
	for _, dep := range s.After {
		if !done[dep] {
			missing = append(missing, dep)
		}
	}
	if len(missing) > 0 {
		return &DependencyError{Step: name, Missing: missing}
	}
	return nil
}

// Frontier splits the unfinished steps into those ready to start and those
// still waiting, both in execution order.
func Frontier(done Completed) (ready, blocked []string) {
	for _, s := range graph {
		switch {
		case done[s.Name]:
		case Check(done, s.Name) == nil:
			ready = append(ready, s.Name)
		default:
			blocked = append(blocked, s.Name)
		}
	}
	return ready, blocked
}
