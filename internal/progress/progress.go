// Package progress aggregates matched requirements into completion counts,
// credit totals and grade point averages.
package progress

import (
	"math"

	"github.com/jonathan/degree-tracker/internal/types"
)

// Progress is a completed-of-total requirement count.
type Progress struct {
	Completed  int `json:"completed"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"` // round(100*Completed/Total), 0 when Total is 0
}

// CreditTotals compares required credits with credits earned toward them.
type CreditTotals struct {
	Required  float64 `json:"required"`
	Fulfilled float64 `json:"fulfilled"`
}

// CategoryProgress is the progress of one requirement category.
type CategoryProgress struct {
	Category string `json:"category"`
	Progress
}

// ProgramProgress is the progress of one program, overall and per category.
type ProgramProgress struct {
	ProgramID  string             `json:"program_id"`
	Name       string             `json:"name"`
	Type       types.ProgramType  `json:"type"`
	Overall    Progress           `json:"overall"`
	Categories []CategoryProgress `json:"categories"`
}

// Percentage returns round(100*completed/total) clamped to [0, 100], and 0
// when total is not positive.
func Percentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	pct := int(math.Round(100 * float64(completed) / float64(total)))
	return min(max(pct, 0), 100)
}

// Count counts fulfilled requirements.
func Count(reqs []types.Requirement) Progress {
	p := Progress{Total: len(reqs)}
	for _, r := range reqs {
		if r.Fulfilled() {
			p.Completed++
		}
	}
	p.Percentage = Percentage(p.Completed, p.Total)
	return p
}

// Credits sums the credits of every result as required, and the credits of
// fulfilled results as earned. Each earned contribution is capped at the
// requirement's own credits, so surplus on one requirement never counts twice.
func Credits(results []types.MatchResult) CreditTotals {
	var totals CreditTotals
	for _, r := range results {
		totals.Required += r.Requirement.Credits
		if r.Fulfilled {
			totals.Fulfilled += math.Min(r.FulfilledCredits, r.Requirement.Credits)
		}
	}
	return totals
}

// ForProgram reports the progress of an evaluated program, per category in
// the program's category order.
func ForProgram(p types.Program) ProgramProgress {
	out := ProgramProgress{
		ProgramID:  p.ID,
		Name:       p.Name,
		Type:       p.Type,
		Overall:    Count(p.AllRequirements()),
		Categories: make([]CategoryProgress, 0, len(p.Requirements)),
	}
	for _, c := range p.Categories() {
		out.Categories = append(out.Categories, CategoryProgress{
			Category: c,
			Progress: Count(p.Requirements[c]),
		})
	}
	return out
}

// Overall combines the requirement counts of several evaluated programs.
func Overall(programs []types.Program) Progress {
	var p Progress
	for _, prog := range programs {
		c := Count(prog.AllRequirements())
		p.Completed += c.Completed
		p.Total += c.Total
	}
	p.Percentage = Percentage(p.Completed, p.Total)
	return p
}
