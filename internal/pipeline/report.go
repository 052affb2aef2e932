package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/degree-tracker/internal/ingestion"
	"github.com/jonathan/degree-tracker/internal/progress"
	"github.com/jonathan/degree-tracker/internal/schemas"
	"github.com/jonathan/degree-tracker/internal/types"
)

// SourceSummary describes what one requirement source produced.
type SourceSummary struct {
	Source       string `json:"source"`
	Method       string `json:"method,omitempty"`
	Requirements int    `json:"requirements"`
	Error        string `json:"error,omitempty"`

	// Set for sources that were read successfully.
	University string `json:"university,omitempty"`
	FetchMode  string `json:"fetch_mode,omitempty"`
	Digest     string `json:"digest,omitempty"`
}

func summarize(source, method string, reqs []types.Requirement, prov *ingestion.Provenance) SourceSummary {
	s := SourceSummary{Source: source, Method: method, Requirements: len(reqs)}
	if prov != nil {
		s.University = prov.University
		s.FetchMode = prov.FetchMode
		s.Digest = prov.Digest
	}
	return s
}

// Report is the exported result of an audit run.
type Report struct {
	RunID       uuid.UUID             `json:"run_id"`
	GeneratedAt time.Time             `json:"generated_at"`
	Strategy    string                `json:"strategy"`
	Sources     []SourceSummary       `json:"sources"`
	CourseCount int                   `json:"course_count"`
	Analysis    types.AnalysisResult  `json:"analysis"`
	Progress    progress.Progress     `json:"progress"`
	Credits     progress.CreditTotals `json:"credits"`
	Steps       []string              `json:"steps,omitempty"`
}

func newReport(runID uuid.UUID, now time.Time, strategy string, sources []SourceSummary, courseCount int, analysis types.AnalysisResult) *Report {
	if sources == nil {
		sources = []SourceSummary{}
	}

	var reqs []types.Requirement
	for _, group := range [][]types.MatchResult{analysis.Fulfilled, analysis.Planned, analysis.Missing} {
		for _, res := range group {
			reqs = append(reqs, res.Requirement)
		}
	}

	return &Report{
		RunID:       runID,
		GeneratedAt: now.UTC(),
		Strategy:    strategy,
		Sources:     sources,
		CourseCount: courseCount,
		Analysis:    analysis,
		Progress:    progress.Count(reqs),
		Credits: progress.CreditTotals{
			Required:  analysis.TotalCreditsRequired,
			Fulfilled: analysis.TotalCreditsFulfilled,
		},
	}
}

// Validate checks the report against the audit report schema.
func (r *Report) Validate() error {
	return schemas.ValidateDocument(schemas.AuditReport, r)
}
