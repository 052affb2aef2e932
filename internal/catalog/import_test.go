package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/degree-tracker/internal/fetch"
	"github.com/jonathan/degree-tracker/internal/types"
)

type stubFetcher struct {
	html  string
	err   error
	calls []string
}

func (s *stubFetcher) Fetch(_ context.Context, url string) (*fetch.Result, error) {
	s.calls = append(s.calls, url)
	if s.err != nil {
		return nil, s.err
	}
	return &fetch.Result{URL: url, HTML: s.html}, nil
}

const csRequirementsPage = `
<div class="program-requirements">
    <h2>Computer Science BS Requirements</h2>
    <h3>Core Courses</h3>
    <p>CS 1800 Discrete Structures (4 credits)</p>
    <p>CS 2500 Fundamentals of Computer Science 1 (4 credits)</p>
    <h3>AI Concentration</h3>
    <p>CS 4100 Artificial Intelligence (4 credits)</p>
</div>`

const neuURL = "https://catalog.northeastern.edu/undergraduate/computer-information-science/computer-science/bscs/"

func TestImporter_Import(t *testing.T) {
	f := &stubFetcher{html: csRequirementsPage}
	p, err := NewImporter(f, nil).Import(context.Background(), neuURL, types.ProgramMajor)
	require.NoError(t, err)

	assert.Equal(t, []string{neuURL}, f.calls)
	assert.Equal(t, "northeastern-university-computer-science-bs-major", p.ID)
	assert.Equal(t, "Computer Science BS", p.Name)
	assert.Equal(t, "Northeastern University", p.University)
	assert.Equal(t, types.ProgramMajor, p.Type)
	assert.Equal(t, neuURL, p.SourceURL)
	assert.Equal(t, 12.0, p.TotalCredits)
	assert.Equal(t, []string{"Core Courses", "AI Concentration"}, p.CategoryOrder)
	require.Len(t, p.Requirements["Core Courses"], 2)
	assert.Equal(t, []string{"CS 2500"}, p.Requirements["Core Courses"][1].MatchingCourses)
}

func TestImporter_DefaultsToMajor(t *testing.T) {
	p, err := NewImporter(&stubFetcher{html: csRequirementsPage}, nil).Import(context.Background(), neuURL, "")
	require.NoError(t, err)
	assert.Equal(t, types.ProgramMajor, p.Type)
}

func TestImporter_UnsupportedDomain(t *testing.T) {
	f := &stubFetcher{html: csRequirementsPage}
	_, err := NewImporter(f, nil).Import(context.Background(), "https://www.example.edu/cs", types.ProgramMajor)
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrUnsupportedDomain)
	assert.Contains(t, err.Error(), "www.example.edu")
	var ie *ImportError
	assert.ErrorAs(t, err, &ie)
	assert.Empty(t, f.calls, "unsupported hosts are never fetched")
}

func TestImporter_InvalidType(t *testing.T) {
	_, err := NewImporter(&stubFetcher{}, nil).Import(context.Background(), neuURL, types.ProgramType("degree"))
	assert.ErrorContains(t, err, "invalid program type")
}

func TestImporter_FetchError(t *testing.T) {
	cause := &fetch.Error{URL: neuURL, Status: 503, Reason: "HTTP status 503"}
	_, err := NewImporter(&stubFetcher{err: cause}, nil).Import(context.Background(), neuURL, types.ProgramMinor)
	require.Error(t, err)

	var fe *fetch.Error
	assert.ErrorAs(t, err, &fe)
	assert.Contains(t, err.Error(), neuURL)
}

func TestImporter_FallsBackToFreeText(t *testing.T) {
	page := `<h1>Physics Minor</h1><p>Complete 8 credits in Physics including PHYS 1151 and PHYS 1155.</p>`
	p, err := NewImporter(&stubFetcher{html: page}, nil).Import(context.Background(), "https://catalog.umd.edu/physics-minor", types.ProgramMinor)
	require.NoError(t, err)

	assert.Equal(t, "Physics Minor", p.Name)
	assert.Equal(t, "University of Maryland", p.University)
	assert.Equal(t, []string{types.GeneralRequirementCategory}, p.CategoryOrder)
	reqs := p.Requirements[types.GeneralRequirementCategory]
	require.Len(t, reqs, 1)
	assert.Equal(t, 8.0, reqs[0].Credits)
	assert.Equal(t, []string{"PHYS 1151", "PHYS 1155"}, reqs[0].MatchingCourses)
	assert.Equal(t, 8.0, p.TotalCredits)
}

func TestImporter_EmptyPageYieldsPlaceholder(t *testing.T) {
	p, err := NewImporter(&stubFetcher{html: "<div>No requirements found</div>"}, nil).
		Import(context.Background(), "https://bulletin.uncc.edu/preview_program.php?poid=1", types.ProgramMajor)
	require.NoError(t, err)

	assert.Equal(t, UnknownProgramName, p.Name)
	assert.Equal(t, "unc-charlotte-unknown-program-major", p.ID)
	reqs := p.AllRequirements()
	require.Len(t, reqs, 1)
	assert.True(t, reqs[0].NeedsReview)
}

func TestImporter_ImportInto(t *testing.T) {
	r := NewRegistry()
	p, err := NewImporter(&stubFetcher{html: csRequirementsPage}, nil).ImportInto(context.Background(), r, neuURL, types.ProgramMajor)
	require.NoError(t, err)

	got, err := r.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Computer Science BS", got.Name)

	_, err = NewImporter(&stubFetcher{err: errors.New("boom")}, nil).ImportInto(context.Background(), r, neuURL, types.ProgramMajor)
	assert.Error(t, err)
	assert.Len(t, r.List(""), 1)
}
