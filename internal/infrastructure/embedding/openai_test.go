package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenAIDriver(t *testing.T, handler http.HandlerFunc) *OpenAIDriver {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	d := NewOpenAIDriver("test-key", "text-embedding-3-small", 0)
	d.baseURL = server.URL
	return d
}

func TestOpenAIDriver_Embed(t *testing.T) {
	d := newTestOpenAIDriver(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openaiEmbedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"grilled salmon"}, req.Input)

		json.NewEncoder(w).Encode(openaiEmbedResponse{
			Data: []struct {
				Embedding []float32 `json:"embedding"`
				Index     int       `json:"index"`
			}{
				{Embedding: make([]float32, 1536), Index: 0},
			},
		})
	})

	vec, err := d.Embed(context.Background(), "grilled salmon")
	require.NoError(t, err)
	assert.Len(t, vec, 1536)
	assert.Equal(t, "openai", d.Name())
	assert.Equal(t, 1536, d.Dimension())
}

func TestOpenAIDriver_TruncatedDimensions(t *testing.T) {
	d := newTestOpenAIDriver(t, func(w http.ResponseWriter, r *http.Request) {
		var req openaiEmbedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 768, req.Dimensions)

		json.NewEncoder(w).Encode(openaiEmbedResponse{
			Data: []struct {
				Embedding []float32 `json:"embedding"`
				Index     int       `json:"index"`
			}{
				{Embedding: make([]float32, 768), Index: 0},
			},
		})
	})
	d2 := NewOpenAIDriver("test-key", "text-embedding-3-small", 768)
	d2.baseURL = d.baseURL

	vec, err := d2.Embed(context.Background(), "chicken soup")
	require.NoError(t, err)
	assert.Len(t, vec, 768)
}

func TestOpenAIDriver_EmbedBatch_PreservesOrder(t *testing.T) {
	d := newTestOpenAIDriver(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(openaiEmbedResponse{
			Data: []struct {
				Embedding []float32 `json:"embedding"`
				Index     int       `json:"index"`
			}{
				{Embedding: []float32{2}, Index: 1},
				{Embedding: []float32{1}, Index: 0},
			},
		})
	})

	vectors, err := d.EmbedBatch(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, []float32{1}, vectors[0])
	assert.Equal(t, []float32{2}, vectors[1])
}

func TestOpenAIDriver_APIError(t *testing.T) {
	d := newTestOpenAIDriver(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(openaiEmbedResponse{
			Error: &struct {
				Message string `json:"message"`
			}{Message: "invalid api key"},
		})
	})

	_, err := d.Embed(context.Background(), "fails")
	assert.Error(t, err)
}

func TestOpenAIDriver_EmbedBatch_Empty(t *testing.T) {
	d := NewOpenAIDriver("key", "text-embedding-3-small", 0)
	vectors, err := d.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vectors)
}

func TestOpenAIDriver_Embed_EmptyInput(t *testing.T) {
	d := NewOpenAIDriver("key", "text-embedding-3-small", 0)
	_, err := d.Embed(context.Background(), "")
	assert.Error(t, err)
}

func TestOpenAIDriver_DefaultsModelAndDimension(t *testing.T) {
	d := NewOpenAIDriver("key", "", 0)
	assert.Equal(t, "text-embedding-3-small", d.model)
	assert.Equal(t, 1536, d.Dimension())
}
