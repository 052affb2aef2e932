package types

import (
	"fmt"
	"sort"
	"strings"
)

// ProgramType classifies a program of study.
type ProgramType string

const (
	// ProgramMajor is a primary degree program
	ProgramMajor ProgramType = "major"
	// ProgramMinor is a secondary program
	ProgramMinor ProgramType = "minor"
	// ProgramConcentration is a specialization within a major
	ProgramConcentration ProgramType = "concentration"
)

// ParseProgramType converts a raw string into a ProgramType.
func ParseProgramType(s string) (ProgramType, error) {
	switch ProgramType(strings.ToLower(strings.TrimSpace(s))) {
	case ProgramMajor:
		return ProgramMajor, nil
	case ProgramMinor:
		return ProgramMinor, nil
	case ProgramConcentration:
		return ProgramConcentration, nil
	default:
		return "", fmt.Errorf("invalid program type %q: must be one of major, minor, concentration", s)
	}
}

// Program is a degree program with its requirements grouped by category.
type Program struct {
	ID            string                   `json:"id"`
	Name          string                   `json:"name"`
	University    string                   `json:"university"`
	Type          ProgramType              `json:"type"`
	TotalCredits  float64                  `json:"total_credits,omitempty"`
	SourceURL     string                   `json:"source_url,omitempty"`
	Requirements  map[string][]Requirement `json:"requirements"`
	CategoryOrder []string                 `json:"category_order"` // Iteration order for Requirements
}

// Categories returns category names in a stable order: CategoryOrder first,
// then any categories missing from it in the order they are found.
func (p Program) Categories() []string {
	seen := make(map[string]bool, len(p.Requirements))
	out := make([]string, 0, len(p.Requirements))
	for _, c := range p.CategoryOrder {
		if _, ok := p.Requirements[c]; ok && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	if len(out) == len(p.Requirements) {
		return out
	}
	// Requirements entries not listed in CategoryOrder: sort for determinism
	rest := make([]string, 0)
	for c := range p.Requirements {
		if !seen[c] {
			rest = append(rest, c)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// AllRequirements flattens every category in Categories order.
func (p Program) AllRequirements() []Requirement {
	var out []Requirement
	for _, c := range p.Categories() {
		out = append(out, p.Requirements[c]...)
	}
	return out
}

// Clone returns a deep copy of the program.
func (p Program) Clone() Program {
	out := p
	out.CategoryOrder = append([]string{}, p.CategoryOrder...)
	out.Requirements = make(map[string][]Requirement, len(p.Requirements))
	for c, reqs := range p.Requirements {
		copied := make([]Requirement, len(reqs))
		for i, r := range reqs {
			copied[i] = r.Clone()
		}
		out.Requirements[c] = copied
	}
	return out
}
