package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/flavorgraph/sous-chef/internal/ports/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestComplete_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			w.WriteHeader(http.StatusOK)
		case "/api/generate":
			var req generateRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "llama3", req.Model)
			json.NewEncoder(w).Encode(generateResponse{Response: "soup recommendation", Done: true})
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "llama3", 5*time.Second, zaptest.NewLogger(t))
	out, err := c.Complete(context.Background(), "what should I cook", outbound.CompletionOptions{})
	require.NoError(t, err)
	assert.Equal(t, "soup recommendation", out)
	assert.Equal(t, "ollama", c.Name())
}

func TestComplete_HealthCheckFails_ReturnsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "llama3", 5*time.Second, zaptest.NewLogger(t))
	_, err := c.Complete(context.Background(), "prompt", outbound.CompletionOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unavailable")
}

func TestComplete_JSONResponseFormat_SetsFormatField(t *testing.T) {
	var captured generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			w.WriteHeader(http.StatusOK)
		case "/api/generate":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			json.NewEncoder(w).Encode(generateResponse{Response: "{}", Done: true})
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "llama3", 5*time.Second, zaptest.NewLogger(t))
	_, err := c.Complete(context.Background(), "prompt", outbound.CompletionOptions{ResponseFormat: "json"})
	require.NoError(t, err)
	assert.Equal(t, "json", captured.Format)
}

func TestNewClient_DefaultsBaseURL(t *testing.T) {
	c := NewClient("", "llama3", 0, zaptest.NewLogger(t))
	assert.Equal(t, "http://localhost:11434", c.baseURL)
}
