// Package openai adapts OpenAI's chat completion API to the generic LLM
// Client contract (C3, spec §4.3).
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/flavorgraph/sous-chef/internal/ports/outbound"
	apperrors "github.com/flavorgraph/sous-chef/pkg/errors"
	"go.uber.org/zap"
)

// Client implements outbound.LLMClient against OpenAI's chat completions API.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient creates a new OpenAI LLM client. apiKey must be non-empty; the
// caller (container bootstrap) is responsible for falling back to
// heuristic-only mode when no key is configured (spec §6.2).
func NewClient(apiKey, model string, timeout time.Duration, logger *zap.Logger) *Client {
	if model == "" {
		model = "gpt-4o-mini"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	logger.Info("openai LLM client initialized", zap.String("model", model))

	return &Client{
		apiKey:  apiKey,
		baseURL: "https://api.openai.com/v1",
		model:   model,
		client:  &http.Client{Timeout: timeout},
		logger:  logger.Named("openai-client"),
	}
}

// Name identifies the provider for logging/metrics.
func (c *Client) Name() string { return "openai" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete issues a single prompt/response completion via OpenAI's chat
// completions endpoint (spec §4.3). Never retries internally.
func (c *Client) Complete(ctx context.Context, prompt string, opts outbound.CompletionOptions) (string, error) {
	temperature := opts.Temperature
	if temperature == 0 {
		temperature = 0.7
	}
	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}

	reqBody := chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
	if opts.ResponseFormat == "json" {
		reqBody.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", apperrors.NewLLMTimeoutError(c.Name(), err)
		}
		return "", apperrors.NewLLMUnavailableError(c.Name(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.NewLLMUnavailableError(c.Name(), err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", apperrors.NewLLMUnavailableError(c.Name(), fmt.Errorf("openai returned %d: %s", resp.StatusCode, string(body)))
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", apperrors.NewLLMUnavailableError(c.Name(), fmt.Errorf("failed to unmarshal response: %w", err))
	}
	if chatResp.Error != nil {
		return "", apperrors.NewLLMUnavailableError(c.Name(), fmt.Errorf("openai error: %s", chatResp.Error.Message))
	}
	if len(chatResp.Choices) == 0 {
		return "", apperrors.NewLLMUnavailableError(c.Name(), fmt.Errorf("openai returned no choices"))
	}

	content := chatResp.Choices[0].Message.Content
	c.logger.Debug("openai completion succeeded", zap.Int("prompt_len", len(prompt)), zap.Int("response_len", len(content)))

	return content, nil
}
