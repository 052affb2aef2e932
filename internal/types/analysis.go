package types

// MatchResult is the outcome of matching one requirement against a course list.
// MatchedCourses holds copies; mutating them does not affect the caller's list.
type MatchResult struct {
	Requirement      Requirement       `json:"requirement"`
	MatchedCourses   []Course          `json:"matched_courses"`
	FulfilledCredits float64           `json:"fulfilled_credits"`
	PlannedCredits   float64           `json:"planned_credits"`
	Fulfilled        bool              `json:"fulfilled"`
	Status           RequirementStatus `json:"status"`
}

// SourceError records a failure to read one source in a batch. The batch continues.
type SourceError struct {
	Source  string `json:"source"`
	Message string `json:"message"`
}

// AnalysisResult partitions matched requirements and totals their credits.
// It is derived on demand and never persisted.
type AnalysisResult struct {
	Fulfilled             []MatchResult `json:"fulfilled"`
	Planned               []MatchResult `json:"planned"`
	Missing               []MatchResult `json:"missing"`
	TotalCreditsRequired  float64       `json:"total_credits_required"`
	TotalCreditsFulfilled float64       `json:"total_credits_fulfilled"`
	SourceErrors          []SourceError `json:"source_errors,omitempty"`
}

// TotalRequirements returns the number of requirements across all partitions.
func (a AnalysisResult) TotalRequirements() int {
	return len(a.Fulfilled) + len(a.Planned) + len(a.Missing)
}
