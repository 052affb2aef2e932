package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// maxPageBytes caps how much of a response body is read.
const maxPageBytes = 10 << 20

// Direct retrieves urlStr with a plain GET.
func (f *Fetcher) Direct(ctx context.Context, urlStr string) (*Result, error) {
	if err := checkURL(urlStr); err != nil {
		return nil, err
	}
	return f.get(ctx, urlStr, urlStr, ModeDirect)
}

// allOrigins is the passthrough envelope: {"contents": "<html>", "status": {...}}.
type allOrigins struct {
	Contents string `json:"contents"`
	Status   struct {
		ContentType string `json:"content_type"`
		HTTPCode    int    `json:"http_code"`
	} `json:"status"`
}

// Proxy retrieves urlStr through the configured passthrough, which answers
// GET {proxy}?url={urlStr}.
func (f *Fetcher) Proxy(ctx context.Context, urlStr string) (*Result, error) {
	if err := checkURL(urlStr); err != nil {
		return nil, err
	}
	if f.opts.ProxyURL == "" {
		return nil, &Error{URL: urlStr, Mode: ModeProxy, Reason: "no proxy configured"}
	}
	endpoint, err := url.Parse(f.opts.ProxyURL)
	if err != nil {
		return nil, &Error{URL: urlStr, Mode: ModeProxy, Reason: "invalid proxy URL", Err: err}
	}
	q := endpoint.Query()
	q.Set("url", urlStr)
	endpoint.RawQuery = q.Encode()

	raw, err := f.get(ctx, urlStr, endpoint.String(), ModeProxy)
	if err != nil {
		return raw, err
	}

	var env allOrigins
	if err := json.Unmarshal([]byte(raw.HTML), &env); err != nil {
		return nil, &Error{URL: urlStr, Mode: ModeProxy, Reason: "invalid proxy response", Err: err}
	}
	result := &Result{
		URL:         urlStr,
		HTML:        env.Contents,
		ContentType: env.Status.ContentType,
		StatusCode:  env.Status.HTTPCode,
		Mode:        ModeProxy,
	}
	if result.StatusCode == 0 {
		result.StatusCode = http.StatusOK
	}
	if !isSuccess(result.StatusCode) {
		return result, statusError(urlStr, ModeProxy, result.StatusCode)
	}
	return result, nil
}

// get requests target and attributes any failure to urlStr.
func (f *Fetcher) get(ctx context.Context, urlStr, target, mode string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &Error{URL: urlStr, Mode: mode, Reason: "failed to create request", Err: err}
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	for k, v := range f.opts.Headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &Error{URL: urlStr, Mode: mode, Reason: "HTTP request failed", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, &Error{URL: urlStr, Mode: mode, Status: resp.StatusCode, Reason: "failed to read response body", Err: err}
	}

	result := &Result{
		URL:         urlStr,
		HTML:        string(body),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
		Mode:        mode,
	}
	if !isSuccess(resp.StatusCode) {
		return result, statusError(urlStr, mode, resp.StatusCode)
	}
	return result, nil
}

func isSuccess(status int) bool { return status >= 200 && status < 300 }

func statusError(urlStr, mode string, status int) *Error {
	return &Error{URL: urlStr, Mode: mode, Status: status, Reason: fmt.Sprintf("HTTP status %d", status)}
}

func checkURL(urlStr string) error {
	u, err := url.Parse(urlStr)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &Error{URL: urlStr, Reason: "invalid URL", Err: err}
	}
	return nil
}
