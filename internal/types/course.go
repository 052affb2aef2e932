// Package types provides type definitions for structured data used throughout the degree-tracker system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// CourseStatus is the lifecycle state of a course on a student's record.
type CourseStatus string

const (
	// CourseCompleted is a course the student has finished
	CourseCompleted CourseStatus = "completed"
	// CoursePlanned is a course scheduled for a future term
	CoursePlanned CourseStatus = "planned"
	// CourseInProgress is a course the student is currently taking
	CourseInProgress CourseStatus = "in-progress"
)

// ParseCourseStatus converts a raw string into a CourseStatus.
// Matching is case-insensitive; an empty string is rejected.
func ParseCourseStatus(s string) (CourseStatus, error) {
	switch CourseStatus(strings.ToLower(strings.TrimSpace(s))) {
	case CourseCompleted:
		return CourseCompleted, nil
	case CoursePlanned:
		return CoursePlanned, nil
	case CourseInProgress:
		return CourseInProgress, nil
	default:
		return "", fmt.Errorf("invalid course status %q: must be one of completed, planned, in-progress", s)
	}
}

// Valid reports whether s is one of the known statuses.
func (s CourseStatus) Valid() bool {
	return s == CourseCompleted || s == CoursePlanned || s == CourseInProgress
}

// Course is a single course on a student's record.
type Course struct {
	ID       uuid.UUID    `json:"id"`
	Code     string       `json:"code"` // Canonical "SUBJECT NUMBER" form, e.g. "CS 3000"
	Title    string       `json:"title"`
	Credits  float64      `json:"credits"`
	Status   CourseStatus `json:"status"`
	Semester string       `json:"semester,omitempty"`
	Grade    string       `json:"grade,omitempty"`
	Category string       `json:"category,omitempty"` // Display category derived from the subject prefix
}

// IsCompleted reports whether the course counts toward fulfillment.
func (c Course) IsCompleted() bool {
	return c.Status == CourseCompleted
}

// InvalidCourseError reports a course record with an unknown status or
// non-positive credits.
type InvalidCourseError struct {
	Code   string
	Field  string
	Reason string
}

func (e *InvalidCourseError) Error() string {
	return fmt.Sprintf("invalid course %q: %s %s", e.Code, e.Field, e.Reason)
}

// Validate checks that the status is known and credits are positive.
func (c Course) Validate() error {
	if !c.Status.Valid() {
		return &InvalidCourseError{Code: c.Code, Field: "status",
			Reason: fmt.Sprintf("%q must be one of completed, planned, in-progress", c.Status)}
	}
	if !(c.Credits > 0) {
		return &InvalidCourseError{Code: c.Code, Field: "credits",
			Reason: fmt.Sprintf("%g must be greater than 0", c.Credits)}
	}
	return nil
}

// ValidateCourses validates every course, naming the index of the first bad one.
func ValidateCourses(courses []Course) error {
	for i, c := range courses {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("courses[%d]: %w", i, err)
		}
	}
	return nil
}

// UnmarshalJSON decodes a course and rejects it when Validate fails. The
// status is matched case-insensitively.
func (c *Course) UnmarshalJSON(data []byte) error {
	type plain Course
	var raw plain
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if status, err := ParseCourseStatus(string(raw.Status)); err == nil {
		raw.Status = status
	}
	if err := Course(raw).Validate(); err != nil {
		return err
	}
	*c = Course(raw)
	return nil
}
