package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/degree-tracker/internal/fetch"
	"github.com/jonathan/degree-tracker/internal/ingestion"
	"github.com/jonathan/degree-tracker/internal/matching"
	"github.com/jonathan/degree-tracker/internal/pipeline/steps"
	"github.com/jonathan/degree-tracker/internal/types"
)

const catalogPage = `<html><body>
<main>
<h2>Computer Science BS</h2>
<p>Complete 4 credits in Algorithms including CS 3000.</p>
<p>Students must take 8 credits of Mathematics including MATH 1341 and MATH 1342.</p>
</main>
</body></html>`

var fixedNow = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

func catalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/cs", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(catalogPage))
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeTranscript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transcript.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

type eventRecorder struct {
	mu     sync.Mutex
	events []ProgressEvent
}

func (r *eventRecorder) record(e ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func TestRun_EndToEnd(t *testing.T) {
	srv := catalogServer(t)
	transcript := writeTranscript(t, "code,title,credits,status\nCS 3000,Algorithms,4,completed\n")
	rec := &eventRecorder{}

	report, err := Run(context.Background(), Options{
		RequirementURLs: []string{srv.URL + "/cs", srv.URL + "/missing"},
		Courses: []types.Course{
			{Code: "MATH 1341", Title: "Calculus 1", Credits: 4, Status: types.CoursePlanned},
		},
		TranscriptPath: transcript,
		Fetcher:        fetch.New(nil, nil),
		OnProgress:     rec.record,
		Now:            func() time.Time { return fixedNow },
	})
	require.NoError(t, err)

	assert.Equal(t, fixedNow, report.GeneratedAt)
	assert.Equal(t, matching.StrategyFuzzy, report.Strategy)
	assert.Equal(t, 2, report.CourseCount)

	require.Len(t, report.Sources, 2)
	assert.Equal(t, srv.URL+"/cs", report.Sources[0].Source)
	assert.Equal(t, ingestion.MethodRegex, report.Sources[0].Method)
	assert.Equal(t, 2, report.Sources[0].Requirements)
	assert.Equal(t, fetch.ModeDirect, report.Sources[0].FetchMode)
	assert.Regexp(t, `^sha256:[0-9a-f]{64}$`, report.Sources[0].Digest)
	assert.Contains(t, report.Sources[1].Error, "404")
	assert.Empty(t, report.Sources[1].Digest)

	analysis := report.Analysis
	require.Len(t, analysis.Fulfilled, 1)
	assert.Equal(t, []string{"CS 3000"}, analysis.Fulfilled[0].Requirement.MatchingCourses)
	require.Len(t, analysis.Planned, 1)
	assert.Empty(t, analysis.Missing)
	require.Len(t, analysis.SourceErrors, 1)
	assert.Equal(t, srv.URL+"/missing", analysis.SourceErrors[0].Source)

	assert.Equal(t, 1, report.Progress.Completed)
	assert.Equal(t, 2, report.Progress.Total)
	assert.Equal(t, 50, report.Progress.Percentage)
	assert.Equal(t, 12.0, report.Credits.Required)
	assert.Equal(t, 4.0, report.Credits.Fulfilled)

	assert.Equal(t, []string{
		steps.ExtractRequirements, steps.ParseCourses, steps.MatchRequirements,
		steps.SummarizeProgress, steps.ValidateReport,
	}, report.Steps)
	assert.NoError(t, report.Validate())

	require.Len(t, rec.events, 5)
	ingest := []string{rec.events[0].Step, rec.events[1].Step}
	assert.ElementsMatch(t, []string{steps.ExtractRequirements, steps.ParseCourses}, ingest)
	assert.Equal(t, steps.MatchRequirements, rec.events[2].Step)
	assert.Equal(t, steps.SummarizeProgress, rec.events[3].Step)
	assert.Equal(t, steps.ValidateReport, rec.events[4].Step)
	for _, e := range rec.events {
		assert.Equal(t, report.RunID.String(), e.RunID)
		assert.Equal(t, steps.CategoryOf(e.Step), e.Category)
	}
}

func TestRun_InlineTextAndFiles(t *testing.T) {
	dir := t.TempDir()
	reqFile := filepath.Join(dir, "writing.txt")
	require.NoError(t, os.WriteFile(reqFile, []byte("Complete 4 credits in Writing including ENGW 1111.\n"), 0o644))

	report, err := Run(context.Background(), Options{
		RequirementsText: "Complete 4 credits in Algorithms including CS 3000.",
		RequirementFiles: []string{reqFile, filepath.Join(dir, "missing.txt")},
		Courses: []types.Course{
			{Code: "cs3000", Title: "Algorithms", Credits: 4, Status: types.CourseCompleted},
		},
		Strategy: matching.Exact{},
	})
	require.NoError(t, err)

	assert.Equal(t, matching.StrategyExact, report.Strategy)
	require.Len(t, report.Sources, 3)
	assert.Equal(t, reqFile, report.Sources[0].Source)
	assert.NotEmpty(t, report.Sources[1].Error)
	assert.Equal(t, InlineSource, report.Sources[2].Source)
	assert.NotEmpty(t, report.Sources[0].Digest)
	assert.Empty(t, report.Sources[2].Digest)

	assert.Len(t, report.Analysis.Fulfilled, 1)
	assert.Len(t, report.Analysis.Missing, 1)
	require.Len(t, report.Analysis.SourceErrors, 1)
	assert.Contains(t, report.Analysis.SourceErrors[0].Message, "file not found")
}

func TestRun_PlaceholderOnlyIsMissing(t *testing.T) {
	report, err := Run(context.Background(), Options{
		RequirementsText: "Talk to your advisor about degree requirements.",
		Courses:          []types.Course{{Code: "CS 3000", Title: "Algorithms", Credits: 4, Status: types.CourseCompleted}},
	})
	require.NoError(t, err)

	require.Len(t, report.Sources, 1)
	assert.Equal(t, ingestion.MethodPlaceholder, report.Sources[0].Method)
	require.Len(t, report.Analysis.Missing, 1)
	assert.True(t, report.Analysis.Missing[0].Requirement.NeedsReview)
	assert.Zero(t, report.Progress.Percentage)
}

func TestRun_Errors(t *testing.T) {
	_, err := Run(context.Background(), Options{})
	assert.ErrorIs(t, err, ErrNoRequirementSources)

	_, err = Run(context.Background(), Options{
		RequirementsText: "Complete 4 credits in Algorithms including CS 3000.",
		TranscriptPath:   filepath.Join(t.TempDir(), "nope.csv"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "failed to read transcript")
}

func TestRun_RejectsInvalidCourses(t *testing.T) {
	_, err := Run(context.Background(), Options{
		RequirementsText: "Complete 4 credits in Algorithms including CS 3000.",
		Courses: []types.Course{
			{Code: "CS 3000", Title: "Algorithms", Credits: 4, Status: "done"},
		},
	})
	var ce *types.InvalidCourseError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "status", ce.Field)
}

func TestRun_CanceledContext(t *testing.T) {
	srv := catalogServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, Options{
		RequirementURLs: []string{srv.URL + "/cs"},
		Fetcher:         fetch.New(nil, nil),
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewReport_EmptySources(t *testing.T) {
	analysis := matching.New(nil).Analyze(nil, nil)
	report := newReport([16]byte{1}, fixedNow, matching.StrategyFuzzy, nil, 0, analysis)

	assert.NotNil(t, report.Sources)
	assert.Zero(t, report.Progress.Total)
	assert.NoError(t, report.Validate())
}
