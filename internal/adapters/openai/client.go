// Package openai implements ports.Asker over the OpenAI Responses API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"qrsafe/internal/ports"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	webSearchTool  = "web_search_preview"
)

// Config configures the client. Zero values fall back to defaults.
type Config struct {
	APIKey       string
	BaseURL      string
	Timeout      time.Duration
	MaxAttempts  int
	InitialDelay time.Duration
}

// Client calls POST /responses. It retries rate limits and upstream
// outages with exponential backoff bounded by the request context.
type Client struct {
	apiKey       string
	baseURL      string
	httpClient   *http.Client
	maxAttempts  int
	initialDelay time.Duration
	logger       *slog.Logger
}

func New(cfg Config, logger *slog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("openai: API key not configured")
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		apiKey:       cfg.APIKey,
		baseURL:      strings.TrimRight(valueOrDefault(cfg.BaseURL, DefaultBaseURL), "/"),
		httpClient:   &http.Client{Timeout: orDuration(cfg.Timeout, 60*time.Second)},
		maxAttempts:  cfg.MaxAttempts,
		initialDelay: orDuration(cfg.InitialDelay, 2*time.Second),
		logger:       logger,
	}
	if c.maxAttempts <= 0 {
		c.maxAttempts = 1
	}
	return c, nil
}

var _ ports.Asker = (*Client)(nil)

type responsesRequest struct {
	Model string         `json:"model"`
	Input string         `json:"input"`
	Tools []responseTool `json:"tools,omitempty"`
}

type responseTool struct {
	Type string `json:"type"`
}

type responsesResponse struct {
	ID         string           `json:"id"`
	Status     string           `json:"status"`
	OutputText string           `json:"output_text"`
	Output     []responseOutput `json:"output"`
	Error      *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type responseOutput struct {
	Type    string            `json:"type"`
	Role    string            `json:"role"`
	Content []responseContent `json:"content"`
}

type responseContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Ask sends req.Prompt to req.Model, enabling web search when requested.
func (c *Client) Ask(ctx context.Context, req ports.AskRequest) (string, error) {
	payload := responsesRequest{Model: req.Model, Input: req.Prompt}
	if req.WebSearch {
		payload.Tools = []responseTool{{Type: webSearchTool}}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", newProviderError(ErrorInternal, 0, "marshal request", err)
	}

	start := time.Now()
	raw, err := c.doWithRetry(ctx, func() ([]byte, error) { return c.post(ctx, body) })
	if err != nil {
		c.logger.WarnContext(ctx, "openai request failed",
			"model", req.Model,
			"web_search", req.WebSearch,
			"category", GetCategory(err),
			"error", err,
		)
		return "", err
	}
	c.logger.DebugContext(ctx, "openai request completed",
		"model", req.Model,
		"web_search", req.WebSearch,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return parseResponse(raw)
}

func (c *Client) post(ctx context.Context, body []byte) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/responses", bytes.NewReader(body))
	if err != nil {
		return nil, newProviderError(ErrorInternal, 0, "create request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransport(err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode, b)
	}
	return b, nil
}

func (c *Client) doWithRetry(ctx context.Context, attempt func() ([]byte, error)) ([]byte, error) {
	delay := c.initialDelay
	for i := 0; ; i++ {
		b, err := attempt()
		if err == nil || !IsRetryable(err) || i == c.maxAttempts-1 {
			return b, err
		}
		c.logger.DebugContext(ctx, "retrying openai request", "attempt", i+1, "delay", delay, "error", err)
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, classifyTransport(ctx.Err())
		case <-t.C:
		}
		if delay < 30*time.Second {
			delay *= 2
		}
	}
}

func parseResponse(raw []byte) (string, error) {
	var env responsesResponse
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", newProviderError(ErrorBadData, http.StatusOK, "decode response", err)
	}
	if env.Error != nil {
		return "", newProviderError(ErrorBadData, http.StatusOK, fmt.Sprintf("%s: %s", env.Error.Code, env.Error.Message), nil)
	}
	if text := extractText(env); text != "" {
		return text, nil
	}
	return "", newProviderError(ErrorBadData, http.StatusOK, fmt.Sprintf("empty response (status %q)", env.Status), nil)
}

// extractText prefers the aggregated output_text, then the assistant
// message content blocks.
func extractText(env responsesResponse) string {
	if strings.TrimSpace(env.OutputText) != "" {
		return env.OutputText
	}
	var parts []string
	for _, o := range env.Output {
		if o.Type != "message" {
			continue
		}
		for _, c := range o.Content {
			if c.Type == "output_text" && strings.TrimSpace(c.Text) != "" {
				parts = append(parts, c.Text)
			}
		}
	}
	return strings.Join(parts, "\n")
}

func valueOrDefault(val, def string) string {
	if val != "" {
		return val
	}
	return def
}

func orDuration(v, d time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return d
}
