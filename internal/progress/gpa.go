package progress

import (
	"sort"
	"strings"

	"github.com/jonathan/degree-tracker/internal/types"
)

// gradePoints is the Northeastern letter grade scale.
var gradePoints = map[string]float64{
	"A":  4.000,
	"A-": 3.667,
	"B+": 3.333,
	"B":  3.000,
	"B-": 2.667,
	"C+": 2.333,
	"C":  2.000,
	"C-": 1.667,
	"D+": 1.333,
	"D":  1.000,
	"D-": 0.667,
	"F":  0.000,
}

// nonGPAGrades are recorded on a transcript but carry no quality points.
var nonGPAGrades = map[string]bool{
	"I": true, "IP": true, "S": true, "U": true, "X": true, "P": true, "W": true, "AU": true,
}

// GradePoints returns the quality points for a letter grade. ok is false for
// non-GPA and unknown grades.
func GradePoints(grade string) (float64, bool) {
	g := strings.ToUpper(strings.TrimSpace(grade))
	if nonGPAGrades[g] {
		return 0, false
	}
	pts, ok := gradePoints[g]
	return pts, ok
}

// GPAResult is a credit-weighted grade point average.
type GPAResult struct {
	GPA           float64        `json:"gpa"`
	QualityPoints float64        `json:"quality_points"`
	GradedCredits float64        `json:"graded_credits"`
	GradedCourses int            `json:"graded_courses"`
	Distribution  map[string]int `json:"distribution"` // Grade -> course count, non-GPA grades included
	NonGPACourses int            `json:"non_gpa_courses"`
}

// GPA computes the credit-weighted average over completed courses with a
// letter grade. ok is false when no graded credits exist.
func GPA(courses []types.Course) (float64, bool) {
	r := GPABreakdown(courses)
	return r.GPA, r.GradedCredits > 0
}

// GPABreakdown computes the GPA along with the grade distribution of completed courses.
func GPABreakdown(courses []types.Course) GPAResult {
	r := GPAResult{Distribution: make(map[string]int)}
	for _, c := range courses {
		if !c.IsCompleted() || strings.TrimSpace(c.Grade) == "" {
			continue
		}
		grade := strings.ToUpper(strings.TrimSpace(c.Grade))
		r.Distribution[grade]++

		pts, ok := GradePoints(grade)
		if !ok {
			r.NonGPACourses++
			continue
		}
		r.QualityPoints += pts * c.Credits
		r.GradedCredits += c.Credits
		r.GradedCourses++
	}
	if r.GradedCredits > 0 {
		r.GPA = r.QualityPoints / r.GradedCredits
	}
	return r
}

// Grades returns the grades present in a distribution, best first.
func (r GPAResult) Grades() []string {
	grades := make([]string, 0, len(r.Distribution))
	for g := range r.Distribution {
		grades = append(grades, g)
	}
	sort.Slice(grades, func(i, j int) bool {
		pi, oki := GradePoints(grades[i])
		pj, okj := GradePoints(grades[j])
		if oki != okj {
			return oki
		}
		if pi != pj {
			return pi > pj
		}
		return grades[i] < grades[j]
	})
	return grades
}
