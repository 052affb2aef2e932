// Package pipeline provides the high-level orchestration for a requirements audit:
// requirement sources and a course record in, a schema-checked report out.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/degree-tracker/internal/fetch"
	"github.com/jonathan/degree-tracker/internal/ingestion"
	"github.com/jonathan/degree-tracker/internal/llm"
	"github.com/jonathan/degree-tracker/internal/matching"
	"github.com/jonathan/degree-tracker/internal/parsing"
	"github.com/jonathan/degree-tracker/internal/pipeline/steps"
	"github.com/jonathan/degree-tracker/internal/types"
)

// InlineSource names requirements given as text rather than a URL or file.
const InlineSource = "inline"

// ErrNoRequirementSources is returned when a run has nothing to extract requirements from.
var ErrNoRequirementSources = errors.New("no requirement sources provided")

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Options holds configuration for an audit run
type Options struct {
	// Requirement sources. At least one must be set.
	RequirementURLs  []string
	RequirementsText string
	RequirementFiles []string

	// Course record: explicit courses, a transcript file, or both.
	Courses          []types.Course
	TranscriptPath   string
	TranscriptFormat string // "" detects from the file

	Strategy    matching.Strategy // nil uses fuzzy matching
	Fetcher     ingestion.PageFetcher
	Concurrency int
	LLM         llm.Client
	Logger      *zap.Logger
	OnProgress  ProgressCallback

	// Now stamps the report; nil uses time.Now.
	Now func() time.Time
}

// requirementsBranchResult holds the outputs from the requirements branch
type requirementsBranchResult struct {
	Requirements []types.Requirement
	Sources      []SourceSummary
	Errors       []types.SourceError
}

// run carries per-run state shared by the concurrent branches.
type run struct {
	id     uuid.UUID
	opts   *Options
	logger *zap.Logger

	mu   sync.Mutex
	done steps.Completed
}

// emitProgress calls the progress callback if configured
func (r *run) emitProgress(step, message string, content any) {
	if r.opts.OnProgress == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opts.OnProgress(ProgressEvent{
		Step:     step,
		Category: steps.CategoryOf(step),
		Message:  message,
		RunID:    r.id.String(),
		Content:  content,
	})
}

func (r *run) complete(step, message string, content any) {
	r.mu.Lock()
	r.done[step] = true
	r.mu.Unlock()
	r.logger.Debug("step completed", zap.String("step", step), zap.String("run_id", r.id.String()))
	r.emitProgress(step, message, content)
}

func (r *run) require(step string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return steps.Check(r.done, step)
}

func (r *run) completed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done.InOrder()
}

// Run extracts requirements and loads the course record concurrently, then
// matches them and returns a validated report.
//
// A failing requirement source is recorded in the report and never stops the
// run. A course record that cannot be read fails the run.
func Run(ctx context.Context, opts Options) (*Report, error) {
	if len(opts.RequirementURLs) == 0 && opts.RequirementsText == "" && len(opts.RequirementFiles) == 0 {
		return nil, ErrNoRequirementSources
	}
	if err := types.ValidateCourses(opts.Courses); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Fetcher == nil {
		opts.Fetcher = fetch.New(nil, opts.Logger)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	r := &run{id: uuid.New(), opts: &opts, logger: opts.Logger, done: steps.Completed{}}
	r.logger.Info("starting audit run",
		zap.String("run_id", r.id.String()),
		zap.Int("urls", len(opts.RequirementURLs)),
		zap.Int("files", len(opts.RequirementFiles)))

	var reqResult requirementsBranchResult
	var courses []types.Course

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		res, err := r.runRequirementsBranch(gCtx)
		if err != nil {
			return fmt.Errorf("requirements branch failed: %w", err)
		}
		reqResult = res
		return nil
	})

	g.Go(func() error {
		res, err := r.runCoursesBranch()
		if err != nil {
			return fmt.Errorf("courses branch failed: %w", err)
		}
		courses = res
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := r.require(steps.MatchRequirements); err != nil {
		return nil, err
	}
	strategy := opts.Strategy
	if strategy == nil {
		strategy = matching.Fuzzy{}
	}
	analysis := matching.New(strategy).Analyze(reqResult.Requirements, courses)
	analysis.SourceErrors = reqResult.Errors
	r.complete(steps.MatchRequirements,
		fmt.Sprintf("Matched %d requirements against %d courses", analysis.TotalRequirements(), len(courses)),
		analysis)

	if err := r.require(steps.SummarizeProgress); err != nil {
		return nil, err
	}
	report := newReport(r.id, opts.Now(), strategy.Name(), reqResult.Sources, len(courses), analysis)
	r.complete(steps.SummarizeProgress,
		fmt.Sprintf("%d of %d requirements fulfilled (%d%%)",
			report.Progress.Completed, report.Progress.Total, report.Progress.Percentage),
		report.Progress)

	if err := r.require(steps.ValidateReport); err != nil {
		return nil, err
	}
	if err := report.Validate(); err != nil {
		return nil, fmt.Errorf("audit report failed validation: %w", err)
	}
	r.complete(steps.ValidateReport, "Report validated", nil)
	report.Steps = r.completed()

	r.logger.Info("audit run finished",
		zap.String("run_id", r.id.String()),
		zap.Int("fulfilled", len(analysis.Fulfilled)),
		zap.Int("planned", len(analysis.Planned)),
		zap.Int("missing", len(analysis.Missing)),
		zap.Int("source_errors", len(analysis.SourceErrors)))
	return report, nil
}

// runRequirementsBranch extracts requirements from every source. Per-source
// failures become SourceErrors; only cancellation fails the branch.
func (r *run) runRequirementsBranch(ctx context.Context) (requirementsBranchResult, error) {
	var res requirementsBranchResult

	if len(r.opts.RequirementURLs) > 0 {
		extractor := ingestion.NewExtractor(r.opts.Fetcher, &ingestion.ExtractorConfig{
			Concurrency: r.opts.Concurrency,
			LLM:         r.opts.LLM,
			Logger:      r.logger,
		})
		batch := extractor.ExtractFromURLs(ctx, r.opts.RequirementURLs)
		if err := ctx.Err(); err != nil {
			return res, err
		}
		for _, s := range batch.Sources {
			summary := summarize(s.Source, s.Method, s.Requirements, s.Provenance)
			if s.Err != nil {
				summary.Error = s.Err.Err.Error()
			}
			res.Sources = append(res.Sources, summary)
		}
		res.Requirements = append(res.Requirements, batch.Requirements()...)
		res.Errors = append(res.Errors, batch.Errors()...)
	}

	for _, path := range r.opts.RequirementFiles {
		reqs, prov, err := ingestion.ReadRequirementsFile(path)
		if err != nil {
			r.logger.Warn("requirement file failed", zap.String("path", path), zap.Error(err))
			res.Sources = append(res.Sources, SourceSummary{Source: path, Error: err.Error()})
			res.Errors = append(res.Errors, types.SourceError{Source: path, Message: err.Error()})
			continue
		}
		res.Sources = append(res.Sources, summarize(path, methodOf(reqs), reqs, prov))
		res.Requirements = append(res.Requirements, reqs...)
	}

	if r.opts.RequirementsText != "" {
		reqs := parsing.ExtractRequirements(r.opts.RequirementsText, InlineSource)
		res.Sources = append(res.Sources, summarize(InlineSource, methodOf(reqs), reqs, nil))
		res.Requirements = append(res.Requirements, reqs...)
	}

	r.complete(steps.ExtractRequirements,
		fmt.Sprintf("Extracted %d requirements from %d sources (%d failed)",
			len(res.Requirements), len(res.Sources), len(res.Errors)),
		res.Sources)
	return res, nil
}

// runCoursesBranch merges explicit courses with the transcript, if any.
func (r *run) runCoursesBranch() ([]types.Course, error) {
	courses := append([]types.Course{}, r.opts.Courses...)

	if r.opts.TranscriptPath != "" {
		parsed, _, err := ingestion.ReadCourseFile(r.opts.TranscriptPath, r.opts.TranscriptFormat)
		if err != nil {
			return nil, fmt.Errorf("failed to read transcript: %w", err)
		}
		courses = append(courses, parsed...)
	}

	r.complete(steps.ParseCourses, fmt.Sprintf("Loaded %d courses", len(courses)), len(courses))
	return courses, nil
}

func methodOf(reqs []types.Requirement) string {
	if len(reqs) == 1 && reqs[0].NeedsReview {
		return ingestion.MethodPlaceholder
	}
	return ingestion.MethodRegex
}
