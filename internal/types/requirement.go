package types

import (
	"encoding/json"
	"fmt"
)

// RequirementStatus is the tri-state standing of a requirement against a course list.
type RequirementStatus string

const (
	// StatusMissing means no completed or planned course satisfies the requirement
	StatusMissing RequirementStatus = "missing"
	// StatusPlanned means only planned or in-progress courses satisfy it
	StatusPlanned RequirementStatus = "planned"
	// StatusFulfilled means a completed course satisfies it
	StatusFulfilled RequirementStatus = "fulfilled"
)

// PlaceholderNote is attached to the sentinel requirement emitted when extraction finds nothing.
const PlaceholderNote = "Manual review recommended - automated extraction may be incomplete"

// GeneralRequirementCategory is the category given to requirements extracted from free text.
const GeneralRequirementCategory = "General Requirement"

// Requirement is a single degree-audit line item.
//
// The fulfilled/planned flags are derived from one unexported status value, so
// at most one of them can be true. Use SetStatus to change it.
type Requirement struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Category        string   `json:"category,omitempty"`
	Credits         float64  `json:"credits"`
	MatchingCourses []string `json:"matching_courses"`
	Source          string   `json:"source,omitempty"` // URL or file the requirement was extracted from
	Note            string   `json:"note,omitempty"`
	NeedsReview     bool     `json:"needs_review,omitempty"` // Placeholder: extraction found nothing structured

	status RequirementStatus
}

// NewPlaceholderRequirement returns the sentinel emitted when a source yields no
// structured requirements. Callers must treat it as "unparsed", not as zero requirements.
func NewPlaceholderRequirement(source string) Requirement {
	return Requirement{
		Name:            GeneralRequirementCategory,
		Description:     "Requirements extracted from provided website",
		Category:        GeneralRequirementCategory,
		Credits:         0,
		MatchingCourses: []string{},
		Source:          source,
		Note:            PlaceholderNote,
		NeedsReview:     true,
	}
}

// Status returns the requirement's tri-state status. The zero value is missing.
func (r Requirement) Status() RequirementStatus {
	if r.status == "" {
		return StatusMissing
	}
	return r.status
}

// SetStatus sets the tri-state status. Unknown values are rejected.
func (r *Requirement) SetStatus(s RequirementStatus) error {
	switch s {
	case StatusMissing, StatusPlanned, StatusFulfilled:
		r.status = s
		return nil
	default:
		return fmt.Errorf("invalid requirement status %q", s)
	}
}

// Fulfilled reports whether a completed course satisfies the requirement.
func (r Requirement) Fulfilled() bool {
	return r.status == StatusFulfilled
}

// Planned reports whether only planned or in-progress courses satisfy the requirement.
func (r Requirement) Planned() bool {
	return r.status == StatusPlanned
}

// Clone returns a copy that shares no slices with r.
func (r Requirement) Clone() Requirement {
	out := r
	out.MatchingCourses = append([]string{}, r.MatchingCourses...)
	return out
}

type requirementJSON struct {
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	Category        string            `json:"category,omitempty"`
	Credits         float64           `json:"credits"`
	MatchingCourses []string          `json:"matching_courses"`
	Source          string            `json:"source,omitempty"`
	Note            string            `json:"note,omitempty"`
	NeedsReview     bool              `json:"needs_review,omitempty"`
	Fulfilled       bool              `json:"fulfilled"`
	Planned         bool              `json:"planned"`
	Status          RequirementStatus `json:"status,omitempty"`
}

// MarshalJSON encodes the status as both the fulfilled/planned flags and a status string.
func (r Requirement) MarshalJSON() ([]byte, error) {
	courses := r.MatchingCourses
	if courses == nil {
		courses = []string{}
	}
	return json.Marshal(requirementJSON{
		Name:            r.Name,
		Description:     r.Description,
		Category:        r.Category,
		Credits:         r.Credits,
		MatchingCourses: courses,
		Source:          r.Source,
		Note:            r.Note,
		NeedsReview:     r.NeedsReview,
		Fulfilled:       r.Fulfilled(),
		Planned:         r.Planned(),
		Status:          r.Status(),
	})
}

// UnmarshalJSON decodes a requirement. The status may be given as the
// fulfilled/planned flags, the status string, or both; documents where they
// disagree are rejected.
func (r *Requirement) UnmarshalJSON(data []byte) error {
	var raw struct {
		requirementJSON
		Fulfilled *bool `json:"fulfilled"`
		Planned   *bool `json:"planned"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	fulfilled := raw.Fulfilled != nil && *raw.Fulfilled
	planned := raw.Planned != nil && *raw.Planned
	if fulfilled && planned {
		return fmt.Errorf("requirement %q cannot be both fulfilled and planned", raw.Name)
	}

	status := raw.Status
	switch {
	case status == "" && fulfilled:
		status = StatusFulfilled
	case status == "" && planned:
		status = StatusPlanned
	case status == "":
		status = StatusMissing
	case raw.Fulfilled != nil && *raw.Fulfilled != (status == StatusFulfilled),
		raw.Planned != nil && *raw.Planned != (status == StatusPlanned):
		return fmt.Errorf("requirement %q: status %q disagrees with fulfilled=%t planned=%t",
			raw.Name, status, fulfilled, planned)
	}

	*r = Requirement{
		Name:            raw.Name,
		Description:     raw.Description,
		Category:        raw.Category,
		Credits:         raw.Credits,
		MatchingCourses: raw.MatchingCourses,
		Source:          raw.Source,
		Note:            raw.Note,
		NeedsReview:     raw.NeedsReview,
	}
	return r.SetStatus(status)
}
