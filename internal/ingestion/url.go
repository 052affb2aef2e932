// Package ingestion reads requirement and course sources in one shot: local
// files, single catalog URLs, and batches of URLs with per-source isolation.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/jonathan/degree-tracker/internal/fetch"
)

var (
	// ErrInvalidURL is returned when URL is malformed
	ErrInvalidURL = errors.New("invalid URL")
	// ErrHTTPRequestFailed is returned when HTTP request fails
	ErrHTTPRequestFailed = errors.New("HTTP request failed")
	// ErrContentExtractionFailed is returned when content extraction fails
	ErrContentExtractionFailed = errors.New("content extraction failed")
)

// PageFetcher retrieves a page and its main text. *fetch.Fetcher implements it.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Result, error)
}

// IngestFromURL fetches one page and returns its cleaned main text with provenance.
func IngestFromURL(ctx context.Context, f PageFetcher, urlStr string, logger *zap.Logger) (string, *Provenance, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", nil, fmt.Errorf("%w: %q", ErrInvalidURL, urlStr)
	}

	result, err := f.Fetch(ctx, urlStr)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}

	cleanedText := CleanText(result.Text)
	logger.Debug("ingested url",
		zap.String("url", urlStr),
		zap.Int("html_bytes", len(result.HTML)),
		zap.Int("text_chars", len(cleanedText)))

	prov := newProvenance(urlStr, FormatHTML, cleanedText)
	prov.FetchMode = result.Mode
	prov.University = fetch.DetectCatalog(urlStr).University
	return cleanedText, prov, nil
}
