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

// openaiModelDimensions gives the native output width of each supported
// OpenAI embedding model, before any dimensions truncation is applied.
var openaiModelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// OpenAIDriver implements outbound.EmbeddingProvider against OpenAI's
// /v1/embeddings endpoint.
type OpenAIDriver struct {
	apiKey  string
	baseURL string
	model   string
	dims    int
	client  *http.Client
}

// NewOpenAIDriver constructs an OpenAI embedding driver. When dims is 0 the
// model's native width is used; a non-zero dims requests OpenAI's
// server-side truncation via the "dimensions" request field (supported by
// the text-embedding-3-* family only).
func NewOpenAIDriver(apiKey, model string, dims int) *OpenAIDriver {
	if model == "" {
		model = "text-embedding-3-small"
	}
	native, ok := openaiModelDimensions[model]
	if !ok {
		native = 1536
	}
	if dims <= 0 {
		dims = native
	}
	return &OpenAIDriver{
		apiKey:  apiKey,
		baseURL: "https://api.openai.com/v1",
		model:   model,
		dims:    dims,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Name identifies the driver for logging/metrics.
func (d *OpenAIDriver) Name() string { return "openai" }

// Dimension returns the configured vector width.
func (d *OpenAIDriver) Dimension() int { return d.dims }

type openaiEmbedRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Dimensions int      `json:"dimensions,omitempty"`
}

type openaiEmbedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Embed returns the embedding for a single piece of text.
func (d *OpenAIDriver) Embed(ctx context.Context, text string) ([]float32, error) {
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
func (d *OpenAIDriver) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	return d.embedAll(ctx, texts)
}

func (d *OpenAIDriver) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	reqBody := openaiEmbedRequest{Model: d.model, Input: texts}
	native, ok := openaiModelDimensions[d.model]
	if ok && d.dims != native {
		reqBody.Dimensions = d.dims
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, apperrors.NewEmbeddingUnavailableError(d.Name(), err)
	}

	endpoint := d.baseURL + "/embeddings"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.NewEmbeddingUnavailableError(d.Name(), err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+d.apiKey)

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
		return nil, apperrors.NewEmbeddingUnavailableError(d.Name(), fmt.Errorf("openai embeddings API returned %d: %s", resp.StatusCode, string(respBody)))
	}

	var result openaiEmbedResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, apperrors.NewEmbeddingUnavailableError(d.Name(), err)
	}
	if result.Error != nil {
		return nil, apperrors.NewEmbeddingUnavailableError(d.Name(), fmt.Errorf("openai error: %s", result.Error.Message))
	}
	if len(result.Data) != len(texts) {
		return nil, apperrors.NewEmbeddingUnavailableError(d.Name(), fmt.Errorf("expected %d embeddings, got %d", len(texts), len(result.Data)))
	}

	vectors := make([][]float32, len(result.Data))
	for _, item := range result.Data {
		vectors[item.Index] = item.Embedding
	}
	return vectors, nil
}
