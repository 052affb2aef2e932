package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProgramType(t *testing.T) {
	got, err := ParseProgramType("Minor")
	require.NoError(t, err)
	assert.Equal(t, ProgramMinor, got)

	_, err = ParseProgramType("certificate")
	assert.Error(t, err)
}

func TestProgram_CategoriesOrder(t *testing.T) {
	p := Program{
		Requirements: map[string][]Requirement{
			"writing":     {{Name: "ENGW 1111"}},
			"core":        {{Name: "CS 1800"}, {Name: "CS 2500"}},
			"mathematics": {{Name: "MATH 1341"}},
		},
		CategoryOrder: []string{"core", "mathematics", "unknown"},
	}

	assert.Equal(t, []string{"core", "mathematics", "writing"}, p.Categories())

	all := p.AllRequirements()
	require.Len(t, all, 4)
	assert.Equal(t, "CS 1800", all[0].Name)
	assert.Equal(t, "ENGW 1111", all[3].Name)
}

func TestProgram_Clone(t *testing.T) {
	p := Program{
		Requirements:  map[string][]Requirement{"core": {{Name: "CS 1800", MatchingCourses: []string{"CS 1800"}}}},
		CategoryOrder: []string{"core"},
	}
	c := p.Clone()
	require.NoError(t, c.Requirements["core"][0].SetStatus(StatusFulfilled))
	c.Requirements["core"][0].MatchingCourses[0] = "CS 9999"

	assert.False(t, p.Requirements["core"][0].Fulfilled())
	assert.Equal(t, "CS 1800", p.Requirements["core"][0].MatchingCourses[0])
}
