package ingestion

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/degree-tracker/internal/llm"
	"github.com/jonathan/degree-tracker/internal/metrics"
	"github.com/jonathan/degree-tracker/internal/parsing"
	"github.com/jonathan/degree-tracker/internal/types"
)

// DefaultConcurrency bounds parallel fetches in a batch.
const DefaultConcurrency = 4

// Extraction methods, used as metric labels and in SourceResult.
const (
	MethodRegex       = "regex"
	MethodLLM         = "llm"
	MethodPlaceholder = "placeholder"
)

// SourceError is the failure of one source in a batch.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source %s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Record converts the error to its serializable form.
func (e *SourceError) Record() types.SourceError {
	return types.SourceError{Source: e.Source, Message: e.Err.Error()}
}

// SourceResult is what one source in a batch produced.
type SourceResult struct {
	Source       string
	Requirements []types.Requirement
	Method       string
	Provenance   *Provenance
	Err          *SourceError
}

// BatchResult holds per-source results in input order.
type BatchResult struct {
	Sources []SourceResult
}

// Requirements concatenates the requirements of every successful source in
// input order.
func (b BatchResult) Requirements() []types.Requirement {
	var out []types.Requirement
	for _, s := range b.Sources {
		out = append(out, s.Requirements...)
	}
	return out
}

// Errors returns the failure records in input order.
func (b BatchResult) Errors() []types.SourceError {
	var out []types.SourceError
	for _, s := range b.Sources {
		if s.Err != nil {
			out = append(out, s.Err.Record())
		}
	}
	return out
}

// ExtractorConfig configures an Extractor. Zero values use defaults.
type ExtractorConfig struct {
	Concurrency int
	// LLM, when set, is asked to extract requirements from pages where the
	// pattern extractor only finds the review placeholder.
	LLM    llm.Client
	Logger *zap.Logger
}

// Extractor pulls requirements from catalog URLs.
type Extractor struct {
	fetcher     PageFetcher
	concurrency int
	llm         llm.Client
	logger      *zap.Logger
}

// NewExtractor creates an Extractor. A nil config uses defaults.
func NewExtractor(f PageFetcher, cfg *ExtractorConfig) *Extractor {
	if cfg == nil {
		cfg = &ExtractorConfig{}
	}
	e := &Extractor{
		fetcher:     f,
		concurrency: cfg.Concurrency,
		llm:         cfg.LLM,
		logger:      cfg.Logger,
	}
	if e.concurrency <= 0 {
		e.concurrency = DefaultConcurrency
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	return e
}

// ExtractFromURL fetches one URL and extracts its requirements.
func (e *Extractor) ExtractFromURL(ctx context.Context, urlStr string) SourceResult {
	res := SourceResult{Source: urlStr}

	text, prov, err := IngestFromURL(ctx, e.fetcher, urlStr, e.logger)
	if err != nil {
		metrics.SourceFailures.Inc()
		e.logger.Warn("requirement source failed", zap.String("url", urlStr), zap.Error(err))
		res.Err = &SourceError{Source: urlStr, Err: err}
		return res
	}
	res.Provenance = prov
	res.Requirements, res.Method = e.extract(ctx, text, urlStr)

	metrics.RequirementsExtracted.WithLabelValues(res.Method).Add(float64(len(res.Requirements)))
	e.logger.Info("extracted requirements",
		zap.String("url", urlStr),
		zap.String("method", res.Method),
		zap.String("digest", prov.Digest),
		zap.Int("count", len(res.Requirements)))
	return res
}

// ExtractFromURLs runs ExtractFromURL over urls with bounded concurrency.
// A failing URL is recorded on its SourceResult and never stops the others.
func (e *Extractor) ExtractFromURLs(ctx context.Context, urls []string) BatchResult {
	results := make([]SourceResult, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, u := range urls {
		g.Go(func() error {
			results[i] = e.ExtractFromURL(gctx, u)
			return nil
		})
	}
	_ = g.Wait()

	return BatchResult{Sources: results}
}

// extract runs the pattern extractor and, when it finds nothing and an LLM
// client is configured, the LLM extractor.
func (e *Extractor) extract(ctx context.Context, text, source string) ([]types.Requirement, string) {
	reqs := parsing.ExtractRequirements(text, source)
	if !isPlaceholder(reqs) {
		return reqs, MethodRegex
	}
	if e.llm == nil {
		return reqs, MethodPlaceholder
	}

	llmReqs, err := parsing.ExtractRequirementsWithClient(ctx, e.llm, text, source)
	if err != nil {
		e.logger.Warn("LLM extraction failed, keeping placeholder", zap.String("url", source), zap.Error(err))
		return reqs, MethodPlaceholder
	}
	if isPlaceholder(llmReqs) {
		return llmReqs, MethodPlaceholder
	}
	return llmReqs, MethodLLM
}

func isPlaceholder(reqs []types.Requirement) bool {
	return len(reqs) == 1 && reqs[0].NeedsReview
}
