package matching

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/degree-tracker/internal/types"
)

func course(code, title string, credits float64, status types.CourseStatus) types.Course {
	return types.Course{Code: code, Title: title, Credits: credits, Status: status}
}

func TestMatch_ExplicitCourseFulfilled(t *testing.T) {
	req := types.Requirement{Name: "Algorithms", MatchingCourses: []string{"CS 3000"}, Credits: 4}
	courses := []types.Course{course("CS 3000", "Algorithms and Data", 4, types.CourseCompleted)}

	got := New(nil).Match(req, courses)
	assert.True(t, got.Fulfilled)
	assert.Equal(t, 4.0, got.FulfilledCredits)
	assert.Equal(t, types.StatusFulfilled, got.Status)
	assert.True(t, got.Requirement.Fulfilled())
	assert.False(t, got.Requirement.Planned())
	require.Len(t, got.MatchedCourses, 1)
	assert.Equal(t, "CS 3000", got.MatchedCourses[0].Code)
}

func TestMatch_Statuses(t *testing.T) {
	req := types.Requirement{Name: "Fundamentals", MatchingCourses: []string{"CS 2500", "CS 2501"}, Credits: 5}

	tests := []struct {
		name          string
		courses       []types.Course
		wantStatus    types.RequirementStatus
		wantFulfilled bool
		wantDone      float64
		wantPlanned   float64
	}{
		{
			name:       "no courses",
			wantStatus: types.StatusMissing,
		},
		{
			name:       "unrelated course",
			courses:    []types.Course{course("MATH 1341", "Calculus 1", 4, types.CourseCompleted)},
			wantStatus: types.StatusMissing,
		},
		{
			name:        "planned only",
			courses:     []types.Course{course("CS 2500", "Fundies", 4, types.CoursePlanned)},
			wantStatus:  types.StatusPlanned,
			wantPlanned: 4,
		},
		{
			name:        "in progress counts as planned",
			courses:     []types.Course{course("cs2500", "Fundies", 4, types.CourseInProgress)},
			wantStatus:  types.StatusPlanned,
			wantPlanned: 4,
		},
		{
			name: "completed under target is still fulfilled",
			courses: []types.Course{
				course("CS 2501", "Lab", 1, types.CourseCompleted),
				course("CS 2500", "Fundies", 4, types.CoursePlanned),
			},
			wantStatus:    types.StatusFulfilled,
			wantFulfilled: true,
			wantDone:      1,
			wantPlanned:   4,
		},
		{
			name: "completed at target",
			courses: []types.Course{
				course("CS 2500", "Fundies", 4, types.CourseCompleted),
				course("CS 2501", "Lab", 1, types.CourseCompleted),
			},
			wantStatus:    types.StatusFulfilled,
			wantFulfilled: true,
			wantDone:      5,
		},
	}

	m := New(Fuzzy{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Match(req, tt.courses)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantStatus, got.Requirement.Status())
			assert.Equal(t, tt.wantFulfilled, got.Fulfilled)
			assert.Equal(t, tt.wantDone, got.FulfilledCredits)
			assert.Equal(t, tt.wantPlanned, got.PlannedCredits)
			assert.False(t, got.Requirement.Fulfilled() && got.Requirement.Planned())
		})
	}
}

func TestMatch_TextFallback(t *testing.T) {
	m := New(nil)

	req := types.Requirement{Description: "Linear Algebra", Credits: 4}
	got := m.Match(req, []types.Course{
		course("MATH 2331", "linear algebra", 4, types.CourseCompleted),
		course("MATH 1341", "Calculus 1", 4, types.CourseCompleted),
	})
	assert.True(t, got.Fulfilled)
	require.Len(t, got.MatchedCourses, 1)
	assert.Equal(t, "MATH 2331", got.MatchedCourses[0].Code)

	// Either string may contain the other.
	req = types.Requirement{Description: "Algebra", Credits: 4}
	got = m.Match(req, []types.Course{course("MATH 2331", "Linear Algebra", 4, types.CourseCompleted)})
	assert.True(t, got.Fulfilled)

	// Empty description or title never matches.
	req = types.Requirement{Description: "  ", Credits: 4}
	got = m.Match(req, []types.Course{course("MATH 2331", "Linear Algebra", 4, types.CourseCompleted)})
	assert.Equal(t, types.StatusMissing, got.Status)

	req = types.Requirement{Description: "Linear Algebra", Credits: 4}
	got = m.Match(req, []types.Course{course("MATH 2331", "", 4, types.CourseCompleted)})
	assert.Empty(t, got.MatchedCourses)
}

func TestMatch_PlaceholderNeverFulfilled(t *testing.T) {
	placeholder := types.NewPlaceholderRequirement("https://example.edu")
	courses := []types.Course{
		course("CS 3000", "Requirements extracted from provided website", 4, types.CourseCompleted),
	}

	got := New(nil).Match(placeholder, courses)
	assert.False(t, got.Fulfilled)
	assert.Equal(t, types.StatusMissing, got.Status)
	assert.Empty(t, got.MatchedCourses)
	assert.True(t, got.Requirement.NeedsReview)
}

func TestMatch_ZeroCreditNeedsACompletedCourse(t *testing.T) {
	req := types.Requirement{Name: "Co-op Seminar", MatchingCourses: []string{"COOP 3945"}, Credits: 0}

	got := New(nil).Match(req, nil)
	assert.False(t, got.Fulfilled)
	assert.Equal(t, types.StatusMissing, got.Status)

	got = New(nil).Match(req, []types.Course{course("COOP 3945", "Co-op Reflection", 1, types.CourseCompleted)})
	assert.True(t, got.Fulfilled)
}

func TestMatch_StrategyDecidesLooseCodes(t *testing.T) {
	req := types.Requirement{MatchingCourses: []string{"CS 2500"}, Credits: 4}
	courses := []types.Course{course("CS 250", "Intro", 4, types.CourseCompleted)}

	assert.True(t, New(Fuzzy{}).Match(req, courses).Fulfilled, "fuzzy accepts the known false positive")
	assert.False(t, New(Exact{}).Match(req, courses).Fulfilled)
}

func TestMatch_LowercaseCodeInDescriptionFallsBackToTitle(t *testing.T) {
	// Codes in a description are only picked up in upper case, so this
	// requirement lists none and matches on title text.
	req := types.Requirement{Description: "cs 3000 Algorithms", Credits: 8}

	got := New(nil).Match(req, []types.Course{course("CS 3000", "Algorithms", 4, types.CourseCompleted)})
	assert.True(t, got.Fulfilled)

	got = New(nil).Match(req, []types.Course{course("CS 3000", "Intro to Theory", 4, types.CourseCompleted)})
	assert.False(t, got.Fulfilled, "code alone does not match without a listed code")
}

func TestMatch_EquivalentCodesAreEqual(t *testing.T) {
	variants := []string{"CS 3000", "CS3000", "cs 3000", "Cs  3000"}
	for _, strategy := range []Strategy{Fuzzy{}, Exact{}} {
		m := New(strategy)
		for _, reqCode := range variants {
			for _, studentCode := range variants {
				req := types.Requirement{MatchingCourses: []string{reqCode}, Credits: 4}
				got := m.Match(req, []types.Course{course(studentCode, "", 4, types.CourseCompleted)})
				assert.True(t, got.Fulfilled, "%s: %q vs %q", strategy.Name(), studentCode, reqCode)
			}
		}
	}
}

func TestMatch_Idempotent(t *testing.T) {
	req := types.Requirement{Name: "Core", MatchingCourses: []string{"CS 1800", "CS 2500"}, Credits: 8}
	courses := []types.Course{
		course("CS 1800", "Discrete", 4, types.CourseCompleted),
		course("CS 2500", "Fundies", 4, types.CoursePlanned),
	}

	m := New(nil)
	first := m.Match(req, courses)
	second := m.Match(first.Requirement, courses)
	if diff := cmp.Diff(first, second, cmp.AllowUnexported(types.Requirement{})); diff != "" {
		t.Errorf("Match not idempotent (-first +second):\n%s", diff)
	}
}

func TestMatch_CopiesCourses(t *testing.T) {
	courses := []types.Course{course("CS 1800", "Discrete", 4, types.CourseCompleted)}
	got := New(nil).Match(types.Requirement{MatchingCourses: []string{"CS 1800"}, Credits: 4}, courses)

	got.MatchedCourses[0].Title = "changed"
	assert.Equal(t, "Discrete", courses[0].Title)
}

func TestEvaluate(t *testing.T) {
	program := types.Program{
		ID: "neu-cs-bs",
		Requirements: map[string][]types.Requirement{
			"Core": {
				{Name: "CS 1800 - Discrete Structures", MatchingCourses: []string{"CS 1800"}, Credits: 4},
				{Name: "CS 3000 - Algorithms", MatchingCourses: []string{"CS 3000"}, Credits: 4},
			},
			"Mathematics": {
				{Name: "MATH 1341 - Calculus 1", MatchingCourses: []string{"MATH 1341"}, Credits: 4},
			},
		},
		CategoryOrder: []string{"Core", "Mathematics"},
	}
	courses := []types.Course{
		course("CS 1800", "Discrete", 4, types.CourseCompleted),
		course("MATH 1341", "Calculus", 4, types.CoursePlanned),
	}

	m := New(nil)
	evaluated := m.Evaluate(program, courses)

	assert.True(t, evaluated.Requirements["Core"][0].Fulfilled())
	assert.Equal(t, types.StatusMissing, evaluated.Requirements["Core"][1].Status())
	assert.True(t, evaluated.Requirements["Mathematics"][0].Planned())

	// Input untouched.
	assert.Equal(t, types.StatusMissing, program.Requirements["Core"][0].Status())

	again := m.Evaluate(evaluated, courses)
	if diff := cmp.Diff(evaluated, again, cmp.AllowUnexported(types.Requirement{})); diff != "" {
		t.Errorf("Evaluate not idempotent (-first +second):\n%s", diff)
	}

	// Dropping the course re-evaluates back to missing.
	cleared := m.Evaluate(evaluated, nil)
	assert.Equal(t, types.StatusMissing, cleared.Requirements["Core"][0].Status())
}

func TestEvaluateResults_CategoryOrder(t *testing.T) {
	program := types.Program{
		Requirements: map[string][]types.Requirement{
			"B": {{Name: "b", MatchingCourses: []string{"CS 2000"}, Credits: 4}},
			"A": {{Name: "a", MatchingCourses: []string{"CS 1000"}, Credits: 4}},
		},
		CategoryOrder: []string{"B", "A"},
	}

	results := New(nil).EvaluateResults(program, nil)
	require.Len(t, results, 2)
	assert.Equal(t, "b", results[0].Requirement.Name)
	assert.Equal(t, "a", results[1].Requirement.Name)
}

func TestAnalyze(t *testing.T) {
	reqs := []types.Requirement{
		{Name: "Electives", MatchingCourses: []string{"CS 4100", "DS 4400"}, Credits: 8},
		{Name: "Writing", MatchingCourses: []string{"ENGW 1111"}, Credits: 4},
		{Name: "Capstone", MatchingCourses: []string{"CS 4500"}, Credits: 4},
		types.NewPlaceholderRequirement("https://example.edu"),
	}
	courses := []types.Course{
		course("CS 4100", "AI", 5, types.CourseCompleted),
		course("DS 4400", "ML", 5, types.CourseCompleted),
		course("ENGW 1111", "Writing", 4, types.CoursePlanned),
	}

	got := New(nil).Analyze(reqs, courses)

	require.Len(t, got.Fulfilled, 1)
	assert.Equal(t, 10.0, got.Fulfilled[0].FulfilledCredits, "reported uncapped")
	require.Len(t, got.Planned, 1)
	assert.Equal(t, "Writing", got.Planned[0].Requirement.Name)
	require.Len(t, got.Missing, 2)
	assert.Equal(t, 4, got.TotalRequirements())

	assert.Equal(t, 16.0, got.TotalCreditsRequired)
	assert.Equal(t, 8.0, got.TotalCreditsFulfilled, "aggregate capped at the requirement's credits")
}

func TestAnalyze_Empty(t *testing.T) {
	got := New(nil).Analyze(nil, nil)
	want := types.AnalysisResult{
		Fulfilled: []types.MatchResult{},
		Planned:   []types.MatchResult{},
		Missing:   []types.MatchResult{},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty(), cmp.AllowUnexported(types.Requirement{})); diff != "" {
		t.Errorf("Analyze(nil) mismatch (-want +got):\n%s", diff)
	}
}
