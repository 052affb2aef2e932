package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/jonathan/degree-tracker/internal/metrics"
)

// Client generates JSON documents from prompts.
type Client interface {
	// GenerateJSON returns the model's JSON answer with any code fence removed.
	GenerateJSON(ctx context.Context, prompt string) (string, error)
	// Model names the model answering requests.
	Model() string
	// Close releases any resources held by the client.
	Close() error
}

// ErrAPIKeyRequired is returned when a client is created without a key.
var ErrAPIKeyRequired = errors.New("API key is required")

// ErrEmptyResponse is returned when the model answers with no text.
var ErrEmptyResponse = errors.New("model returned no text")

// BlockedError is returned when the prompt or answer was blocked by the provider.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("response blocked: %s", e.Reason)
}

// GeminiClient implements Client for Google Gemini.
type GeminiClient struct {
	client *genai.Client
	cfg    *Config
}

// NewClient creates a Gemini client. A nil cfg uses DefaultConfig.
func NewClient(ctx context.Context, cfg *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid LLM config: %w", err)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, cfg: cfg}, nil
}

// GenerateJSON sends prompt with a JSON response type and returns the answer.
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	if c.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.RequestTimeout)
		defer cancel()
	}

	model := c.client.GenerativeModel(c.cfg.Model)
	model.SetTemperature(c.cfg.Temperature)
	model.SetMaxOutputTokens(c.cfg.MaxOutputTokens)
	model.ResponseMIMEType = "application/json"

	start := time.Now()
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err == nil {
		var text string
		if text, err = responseText(resp); err == nil {
			metrics.LLMRequests.WithLabelValues(metrics.OutcomeSuccess).Inc()
			c.cfg.Logger.Debug("model answered",
				zap.String("model", c.cfg.Model),
				zap.Int("prompt_chars", len(prompt)),
				zap.Int("answer_chars", len(text)),
				zap.Duration("duration", time.Since(start)))
			return CleanJSONBlock(text), nil
		}
	}

	metrics.LLMRequests.WithLabelValues(metrics.OutcomeError).Inc()
	c.cfg.Logger.Warn("model request failed",
		zap.String("model", c.cfg.Model),
		zap.Duration("duration", time.Since(start)),
		zap.Error(err))
	return "", fmt.Errorf("gemini %s: %w", c.cfg.Model, err)
}

// Model returns the configured model name.
func (c *GeminiClient) Model() string {
	return c.cfg.Model
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", ErrEmptyResponse
	}
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != genai.BlockReasonUnspecified {
		return "", &BlockedError{Reason: fmt.Sprint(fb.BlockReason)}
	}
	if len(resp.Candidates) == 0 {
		return "", ErrEmptyResponse
	}

	candidate := resp.Candidates[0]
	switch candidate.FinishReason {
	case genai.FinishReasonSafety, genai.FinishReasonRecitation:
		return "", &BlockedError{Reason: fmt.Sprint(candidate.FinishReason)}
	}
	if candidate.Content == nil {
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}
