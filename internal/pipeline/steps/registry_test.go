package steps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll_OrderRespectsDependencies(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range All() {
		for _, dep := range s.After {
			assert.True(t, seen[dep], "%s runs before its dependency %s", s.Name, dep)
		}
		seen[s.Name] = true
	}
	assert.Len(t, seen, 5)
}

func TestAll_ReturnsCopy(t *testing.T) {
	all := All()
	all[2].After[0] = "mutated"

	s, ok := Lookup(MatchRequirements)
	require.True(t, ok)
	assert.Equal(t, []string{ExtractRequirements, ParseCourses}, s.After)
}

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		step string
		want string
	}{
		{ExtractRequirements, CategoryIngestion},
		{ParseCourses, CategoryIngestion},
		{MatchRequirements, CategoryMatching},
		{SummarizeProgress, CategoryReporting},
		{ValidateReport, CategoryReporting},
		{"render_pdf", ""},
	}
	for _, tt := range tests {
		t.Run(tt.step, func(t *testing.T) {
			assert.Equal(t, tt.want, CategoryOf(tt.step))
		})
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name        string
		done        Completed
		step        string
		wantMissing []string
	}{
		{name: "no dependencies", step: ExtractRequirements},
		{
			name:        "match waits for both branches",
			done:        Completed{ExtractRequirements: true},
			step:        MatchRequirements,
			wantMissing: []string{ParseCourses},
		},
		{
			name: "match ready",
			done: Completed{ExtractRequirements: true, ParseCourses: true},
			step: MatchRequirements,
		},
		{
			name:        "validate needs summary",
			done:        Completed{MatchRequirements: true},
			step:        ValidateReport,
			wantMissing: []string{SummarizeProgress},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.done, tt.step)
			if tt.wantMissing == nil {
				assert.NoError(t, err)
				return
			}
			var depErr *DependencyError
			require.ErrorAs(t, err, &depErr)
			assert.Equal(t, tt.step, depErr.Step)
			assert.Equal(t, tt.wantMissing, depErr.Missing)
			assert.Contains(t, err.Error(), "missing dependencies")
		})
	}
}

func TestCheck_UnknownStep(t *testing.T) {
	err := Check(nil, "rank_courses")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown step")
}

func TestFrontier(t *testing.T) {
	ready, blocked := Frontier(nil)
	assert.Equal(t, []string{ExtractRequirements, ParseCourses}, ready)
	assert.Equal(t, []string{MatchRequirements, SummarizeProgress, ValidateReport}, blocked)

	ready, blocked = Frontier(Completed{ExtractRequirements: true, ParseCourses: true})
	assert.Equal(t, []string{MatchRequirements}, ready)
	assert.Equal(t, []string{SummarizeProgress, ValidateReport}, blocked)

	all := Completed{}
	for _, s := range All() {
		all[s.Name] = true
	}
	ready, blocked = Frontier(all)
	assert.Empty(t, ready)
	assert.Empty(t, blocked)
}

func TestCompleted_InOrder(t *testing.T) {
	done := Completed{SummarizeProgress: true, ParseCourses: true, MatchRequirements: true, ExtractRequirements: true}
	assert.Equal(t, []string{ExtractRequirements, ParseCourses, MatchRequirements, SummarizeProgress}, done.InOrder())
	assert.Empty(t, Completed{}.InOrder())
}
