// Package commentanalysis is a client for a comment-analysis endpoint that
// summarizes a video's comments, plus the JSON snapshot exported from a reply.
package commentanalysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout covers comment retrieval plus the endpoint's own AI call.
const DefaultTimeout = 2 * time.Minute

// maxErrorBody caps how much of an error reply is read.
const maxErrorBody = 64 << 10

// APIError is a non-2xx reply from the analysis endpoint.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("analysis endpoint returned %d: %s", e.StatusCode, e.Message)
}

// Config configures a Client.
type Config struct {
	// Endpoint is the service base URL; requests go to {Endpoint}/analyze.
	Endpoint   string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client calls the analysis endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	logger   *zap.Logger
}

// NewClient creates a Client.
func NewClient(cfg Config) (*Client, error) {
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	if endpoint == "" {
		return nil, fmt.Errorf("analysis endpoint is required")
	}

	c := &Client{endpoint: endpoint, http: cfg.HTTPClient, logger: cfg.Logger}
	if c.http == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		c.http = &http.Client{Timeout: timeout}
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c, nil
}

type analyzeRequest struct {
	URL string `json:"url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Analyze asks the endpoint to analyze the comments of the video at videoURL.
// The URL is checked locally first; an invalid one never reaches the endpoint.
func (c *Client) Analyze(ctx context.Context, videoURL string) (*Response, error) {
	videoURL = strings.TrimSpace(videoURL)
	if err := ValidateVideoURL(videoURL); err != nil {
		return nil, fmt.Errorf("%w: %s", err, videoURL)
	}

	body, err := json.Marshal(analyzeRequest{URL: videoURL})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analysis request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var e errorResponse
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			apiErr.Message = e.Error
		}
		c.logger.Warn("comment analysis failed",
			zap.String("url", videoURL),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message))
		return nil, apiErr
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode analysis response: %w", err)
	}
	c.logger.Info("comment analysis complete",
		zap.String("url", videoURL),
		zap.Int("comments", out.CommentCount),
		zap.Int("video_ideas", len(out.VideoIdeas)),
		zap.Duration("elapsed", time.Since(start)))
	return &out, nil
}

// DecodeResponse reads a saved endpoint reply.
func DecodeResponse(r io.Reader) (*Response, error) {
	var out Response
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode analysis response: %w", err)
	}
	return &out, nil
}
