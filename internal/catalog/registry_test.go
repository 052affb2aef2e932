package catalog

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/degree-tracker/internal/types"
)

func TestBuiltinPrograms(t *testing.T) {
	programs, err := BuiltinPrograms()
	require.NoError(t, err)
	require.Len(t, programs, 4)

	cs := programs[0]
	assert.Equal(t, "northeastern-cs", cs.ID)
	assert.Equal(t, types.ProgramMajor, cs.Type)
	assert.Equal(t, 134.0, cs.TotalCredits)
	assert.Equal(t, []string{"Core Computer Science", "Mathematics", "Supporting", "Writing", "Additional"}, cs.CategoryOrder)
	assert.Len(t, cs.Requirements["Core Computer Science"], 10)

	first := cs.Requirements["Core Computer Science"][0]
	assert.Equal(t, "CS 1800 - Discrete Structures", first.Name)
	assert.Equal(t, []string{"CS 1800"}, first.MatchingCourses)
	assert.Equal(t, "Core Computer Science", first.Category)
	assert.Equal(t, types.StatusMissing, first.Status())

	science := cs.Requirements["Supporting"][1]
	assert.Contains(t, science.MatchingCourses, "BIOL")

	for _, p := range programs {
		for _, c := range p.Categories() {
			assert.NotEmpty(t, p.Requirements[c], "%s/%s", p.ID, c)
		}
	}

	byID := map[string]types.ProgramType{}
	for _, p := range programs {
		byID[p.ID] = p.Type
	}
	assert.Equal(t, map[string]types.ProgramType{
		"northeastern-cs":               "major",
		"northeastern-ai-concentration": "concentration",
		"northeastern-ds-minor":         "minor",
		"northeastern-math-minor":       "minor",
	}, byID)
}

func TestLoadPrograms_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad type", "programs:\n  - name: X\n    type: degree\n", "invalid program type"},
		{"missing name", "programs:\n  - id: x\n    type: major\n", "has no name"},
		{"unknown key", "programs:\n  - name: X\n    type: major\n    colour: red\n", "colour"},
		{"duplicate id", "programs:\n  - {id: a, name: A, type: major}\n  - {id: a, name: B, type: minor}\n", "duplicate program id"},
		{"duplicate category", "programs:\n  - name: A\n    type: major\n    categories:\n      - {name: Core}\n      - {name: Core}\n", "duplicate category"},
		{"not yaml", "programs: [", "decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadPrograms([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadPrograms_GeneratesIDAndCanonicalizesCodes(t *testing.T) {
	doc := `
programs:
  - name: Computer Science BS
    university: Northeastern University
    type: Major
    categories:
      - name: Core
        requirements:
          - {name: Algorithms, credits: 4, courses: [cs3000]}
`
	programs, err := LoadPrograms([]byte(doc))
	require.NoError(t, err)
	require.Len(t, programs, 1)
	assert.Equal(t, "northeastern-university-computer-science-bs-major", programs[0].ID)
	assert.Equal(t, []string{"CS 3000"}, programs[0].Requirements["Core"][0].MatchingCourses)
}

func TestProgramID(t *testing.T) {
	assert.Equal(t, "northeastern-university-mathematics-minor-minor",
		ProgramID("Mathematics Minor", "Northeastern University", types.ProgramMinor))
	assert.Equal(t, "unc-charlotte-data-science-ms-major",
		ProgramID("  Data Science (M.S.)  ", "UNC Charlotte", types.ProgramMajor))
}

func TestRegistry(t *testing.T) {
	r, err := DefaultRegistry()
	require.NoError(t, err)

	assert.Len(t, r.List(""), 4)
	minors := r.List(types.ProgramMinor)
	require.Len(t, minors, 2)
	assert.Equal(t, "northeastern-ds-minor", minors[0].ID)
	assert.Empty(t, r.List(types.ProgramType("certificate")))

	p, err := r.Get("northeastern-math-minor")
	require.NoError(t, err)
	assert.Equal(t, "Mathematics Minor", p.Name)

	_, err = r.Get("nope")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "nope", nf.ID)

	assert.True(t, r.Remove("northeastern-math-minor"))
	assert.False(t, r.Remove("northeastern-math-minor"))
	assert.Len(t, r.List(""), 3)
}

func TestRegistry_ReturnsCopies(t *testing.T) {
	r, err := DefaultRegistry()
	require.NoError(t, err)

	p, err := r.Get("northeastern-cs")
	require.NoError(t, err)
	require.NoError(t, p.Requirements["Writing"][0].SetStatus(types.StatusFulfilled))
	p.Requirements["Writing"][0].MatchingCourses[0] = "XX 0000"

	again, err := r.Get("northeastern-cs")
	require.NoError(t, err)
	assert.False(t, again.Requirements["Writing"][0].Fulfilled())
	assert.Equal(t, "ENGW 1111", again.Requirements["Writing"][0].MatchingCourses[0])
}

func TestRegistry_AddReplacesByID(t *testing.T) {
	r := NewRegistry()
	id := r.Add(types.Program{Name: "Physics Minor", University: "Northeastern University", Type: types.ProgramMinor})
	assert.Equal(t, "northeastern-university-physics-minor-minor", id)

	r.Add(types.Program{ID: id, Name: "Physics Minor (2026)", Type: types.ProgramMinor})
	list := r.List("")
	require.Len(t, list, 1)
	assert.Equal(t, "Physics Minor (2026)", list[0].Name)
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.Add(types.Program{ID: string(rune('a' + i)), Name: "P", Type: types.ProgramMajor})
		}()
		go func() {
			defer wg.Done()
			_ = r.List(types.ProgramMajor)
		}()
	}
	wg.Wait()
	assert.Len(t, r.List(""), 20)
}
