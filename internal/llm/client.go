package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vertragscheck/vertragscheck/internal/config"
	"github.com/vertragscheck/vertragscheck/internal/metrics"
)

// Message is one chat-completions message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// UpstreamError reports a failed call to the model provider (transport
// error or non-2xx status). It never wraps the user's contract text.
type UpstreamError struct {
	StatusCode int
	Detail     string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("upstream returned %d: %s", e.StatusCode, e.Detail)
	}
	return "upstream request failed: " + e.Detail
}

// Client performs a single blocking chat-completions call per request.
// There are no retries or backoff: a transient upstream failure surfaces
// to the caller immediately.
type Client struct {
	httpClient  *http.Client
	endpoint    string
	apiKey      string
	model       string
	temperature float64
}

func NewClient(cfg config.OpenAIConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		endpoint:    normalizeEndpoint(cfg.BaseURL) + "/v1/chat/completions",
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}
}

// Configured reports whether an API key is present. The handler refuses
// to proceed without one instead of silently degrading.
func (c *Client) Configured() bool {
	return strings.TrimSpace(c.apiKey) != ""
}

// Complete sends messages upstream and returns the raw text of the first
// choice. Exactly one HTTP call is made.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	body, err := json.Marshal(map[string]any{
		"model":       c.model,
		"messages":    messages,
		"temperature": c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(c.apiKey))
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.LLMRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return "", &UpstreamError{Detail: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &UpstreamError{StatusCode: resp.StatusCode, Detail: err.Error()}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &UpstreamError{StatusCode: resp.StatusCode, Detail: upstreamDetail(respBody)}
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", &UpstreamError{StatusCode: resp.StatusCode, Detail: "unreadable response body"}
	}
	if result.Error != nil && strings.TrimSpace(result.Error.Message) != "" {
		return "", &UpstreamError{StatusCode: resp.StatusCode, Detail: result.Error.Message}
	}
	if len(result.Choices) == 0 {
		return "", &UpstreamError{StatusCode: resp.StatusCode, Detail: "empty choices"}
	}

	content := result.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", &UpstreamError{StatusCode: resp.StatusCode, Detail: "empty completion"}
	}
	return content, nil
}

// upstreamDetail extracts the provider's error message without echoing
// arbitrary response bodies into our own error output.
func upstreamDetail(body []byte) string {
	var envelope struct {
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	return "provider error"
}

func normalizeEndpoint(raw string) string {
	base := strings.TrimRight(strings.TrimSpace(raw), "/")
	base = strings.TrimSuffix(base, "/v1")
	if base == "" {
		base = "https://api.openai.com"
	}
	return base
}

// IsUpstreamError reports whether err is an UpstreamError.
func IsUpstreamError(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
