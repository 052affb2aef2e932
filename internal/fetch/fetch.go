// Package fetch retrieves catalog pages directly, through a CORS-proxy
// passthrough, or in a headless browser, and turns the HTML into text.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/degree-tracker/internal/metrics"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (compatible; DegreeTracker/1.0)"
	// DefaultProxyURL is an allorigins-style passthrough endpoint.
	DefaultProxyURL = "https://api.allorigins.win/get"
)

// Fetch modes, used as metric labels.
const (
	ModeDirect  = "direct"
	ModeProxy   = "proxy"
	ModeBrowser = "browser"
)

// Result is one retrieved page. Text is filled in by Fetcher.Fetch.
type Result struct {
	URL         string
	HTML        string
	Text        string
	ContentType string
	StatusCode  int
	Mode        string
}

// Error describes a page that could not be retrieved. Status is the upstream
// HTTP status when one was received.
type Error struct {
	URL    string
	Mode   string
	Status int
	Reason string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("fetch %s", e.URL)
	if e.Mode != "" && e.Mode != ModeDirect {
		msg += " via " + e.Mode
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Options configures a Fetcher.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string

	// ProxyURL is the passthrough endpoint used when UseProxy is set.
	ProxyURL string
	UseProxy bool

	// UseBrowser renders pages whose extracted text is too short in a
	// headless browser.
	UseBrowser     bool
	BrowserTimeout time.Duration
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() *Options {
	return &Options{
		Timeout:        DefaultTimeout,
		UserAgent:      DefaultUserAgent,
		ProxyURL:       DefaultProxyURL,
		BrowserTimeout: DefaultTimeout,
	}
}

// Fetcher retrieves catalog pages with the configured mode and fills in the
// extracted main text. It is safe for concurrent use.
type Fetcher struct {
	opts   *Options
	client *http.Client
	logger *zap.Logger
	render renderFunc
}

// New creates a Fetcher. Nil options use DefaultOptions and a nil logger
// discards output.
func New(opts *Options, logger *zap.Logger) *Fetcher {
	if opts == nil {
		opts = DefaultOptions()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		opts:   opts,
		client: &http.Client{Timeout: opts.Timeout},
		logger: logger,
		render: renderChrome,
	}
}

// Fetch retrieves urlStr and extracts its main text using the selectors of
// the catalog it belongs to. On an upstream HTTP error the partial Result is
// returned with the error.
func (f *Fetcher) Fetch(ctx context.Context, urlStr string) (*Result, error) {
	mode, get := ModeDirect, f.Direct
	if f.opts.UseProxy && f.opts.ProxyURL != "" {
		mode, get = ModeProxy, f.Proxy
	}

	start := time.Now()
	result, err := get(ctx, urlStr)
	observe(mode, start, err)
	if err != nil {
		f.logger.Warn("fetch failed", zap.String("url", urlStr), zap.String("mode", mode), zap.Error(err))
		return result, err
	}

	site := DetectCatalog(urlStr)
	if result.Text, err = site.extract(result.HTML); err != nil {
		return result, &Error{URL: urlStr, Mode: mode, Reason: "failed to extract text", Err: err}
	}
	f.logger.Debug("fetched page",
		zap.String("url", urlStr),
		zap.String("mode", mode),
		zap.Int("html_bytes", len(result.HTML)),
		zap.Int("text_bytes", len(result.Text)))

	if f.opts.UseBrowser && needsRender(result.Text) {
		f.renderInto(ctx, result, site)
	}
	return result, nil
}

// renderInto replaces result's content with the browser-rendered page when
// that yields more text. A failed render keeps the HTTP content.
func (f *Fetcher) renderInto(ctx context.Context, result *Result, site Catalog) {
	timeout := f.opts.BrowserTimeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	f.logger.Debug("rendering sparse page in browser", zap.String("url", result.URL), zap.Int("text_bytes", len(result.Text)))
	start := time.Now()
	html, err := f.render(ctx, result.URL, CatalogExpandSelectors(site), timeout)
	observe(ModeBrowser, start, err)
	if err != nil {
		f.logger.Warn("browser fallback failed, keeping HTTP content", zap.String("url", result.URL), zap.Error(err))
		return
	}

	text, err := site.extract(html)
	if err != nil || len(text) <= len(result.Text) {
		return
	}
	result.HTML, result.Text, result.Mode = html, text, ModeBrowser
}

func observe(mode string, start time.Time, err error) {
	metrics.FetchDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeError
	}
	metrics.FetchTotal.WithLabelValues(mode, outcome).Inc()
}
