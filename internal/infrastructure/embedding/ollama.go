package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/flavorgraph/sous-chef/pkg/errors"
)

// modelDimensions is the per-model embedding width table (spec §4.1),
// grounded on agentoven-agentoven's embeddings/ollama.go driver.
var modelDimensions = map[string]int{
	"nomic-embed-text":  768,
	"mxbai-embed-large": 1024,
	"all-minilm":        384,
	"all-minilm:l6-v2":  384,
}

// OllamaDriver implements outbound.EmbeddingProvider against Ollama's batch
// /api/embed endpoint.
type OllamaDriver struct {
	endpoint string
	model    string
	dims     int
	client   *http.Client
}

// NewOllamaDriver constructs an Ollama embedding driver for model, defaulting
// to the reference deployment's 768-dim all-mpnet-base-v2 equivalent.
func NewOllamaDriver(endpoint, model string) *OllamaDriver {
	if endpoint == "" {
		endpoint = "http://localhost:11434"
	}
	dims, ok := modelDimensions[model]
	if !ok {
		dims = 768
	}
	return &OllamaDriver{
		endpoint: endpoint,
		model:    model,
		dims:     dims,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Name identifies the driver for logging/metrics.
func (d *OllamaDriver) Name() string { return "ollama" }

// Dimension returns the vector width this model produces.
func (d *OllamaDriver) Dimension() int { return d.dims }

type ollamaEmbedRequest struct {
	Model string `json:"model"`
	Input any    `json:"input"`
}

type ollamaEmbedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// Embed returns the embedding for a single piece of text (spec §4.1).
func (d *OllamaDriver) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, apperrors.NewInvalidInputError("embedding input must not be empty")
	}
	vectors, err := d.embedAll(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch embeds multiple texts in a single round-trip.
func (d *OllamaDriver) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	return d.embedAll(ctx, texts)
}

func (d *OllamaDriver) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	body, err := json.Marshal(ollamaEmbedRequest{Model: d.model, Input: texts})
	if err != nil {
		return nil, apperrors.NewEmbeddingUnavailableError(d.Name(), err)
	}

	endpoint := d.endpoint + "/api/embed"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.NewEmbeddingUnavailableError(d.Name(), err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, apperrors.NewEmbeddingUnavailableError(d.Name(), err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewEmbeddingUnavailableError(d.Name(), err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewEmbeddingUnavailableError(d.Name(), fmt.Errorf("ollama embed API returned %d: %s", resp.StatusCode, string(respBody)))
	}

	var result ollamaEmbedResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, apperrors.NewEmbeddingUnavailableError(d.Name(), err)
	}
	if len(result.Embeddings) != len(texts) {
		return nil, apperrors.NewEmbeddingUnavailableError(d.Name(), fmt.Errorf("expected %d embeddings, got %d", len(texts), len(result.Embeddings)))
	}
	return result.Embeddings, nil
}
