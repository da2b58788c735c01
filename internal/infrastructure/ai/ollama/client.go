// Package ollama adapts Ollama's local inference API to the generic LLM
// Client contract (C3, spec §4.3).
package ollama

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

// Client implements outbound.LLMClient against a local Ollama server.
type Client struct {
	baseURL string
	model   string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient creates a new Ollama LLM client.
func NewClient(baseURL, model string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	logger.Info("ollama LLM client initialized",
		zap.String("base_url", baseURL),
		zap.String("model", model),
		zap.Duration("timeout", timeout))

	return &Client{
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: timeout},
		logger:  logger.Named("ollama-client"),
	}
}

// Name identifies the provider for logging/metrics.
func (c *Client) Name() string { return "ollama" }

type generateRequest struct {
	Model   string                 `json:"model"`
	Prompt  string                 `json:"prompt"`
	Stream  bool                   `json:"stream"`
	Format  string                 `json:"format,omitempty"`
	Options map[string]interface{} `json:"options,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// HealthCheck verifies the Ollama service is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	endpoint := c.baseURL + "/api/tags"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama health check failed with status %d", resp.StatusCode)
	}

	c.logger.Debug("ollama health check passed")
	return nil
}

// Complete issues a single prompt/response completion via Ollama's
// /api/generate endpoint (spec §4.3). Never retries internally.
func (c *Client) Complete(ctx context.Context, prompt string, opts outbound.CompletionOptions) (string, error) {
	if err := c.HealthCheck(ctx); err != nil {
		return "", apperrors.NewLLMUnavailableError(c.Name(), err)
	}

	temperature := opts.Temperature
	if temperature == 0 {
		temperature = 0.7
	}
	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}

	reqBody := generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
		Options: map[string]interface{}{
			"temperature": temperature,
			"num_predict": maxTokens,
		},
	}
	if opts.ResponseFormat == "json" {
		reqBody.Format = "json"
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := c.baseURL + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

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
		return "", apperrors.NewLLMUnavailableError(c.Name(), fmt.Errorf("ollama returned %d: %s", resp.StatusCode, string(body)))
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", apperrors.NewLLMUnavailableError(c.Name(), fmt.Errorf("failed to unmarshal response: %w", err))
	}

	c.logger.Debug("ollama completion succeeded", zap.Int("prompt_len", len(prompt)), zap.Int("response_len", len(genResp.Response)))

	return genResp.Response, nil
}
