package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/flavorgraph/sous-chef/internal/ports/outbound"
	"github.com/flavorgraph/sous-chef/pkg/healthcheck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type stubLLMClient struct {
	name string
	resp string
	err  error
}

func (s *stubLLMClient) Name() string { return s.name }

func (s *stubLLMClient) Complete(ctx context.Context, prompt string, opts outbound.CompletionOptions) (string, error) {
	return s.resp, s.err
}

func TestCircuitBreakerClient_Success_PassesThrough(t *testing.T) {
	inner := &stubLLMClient{name: "stub", resp: "hello"}
	c := NewCircuitBreakerClient(inner, "test-model", healthcheck.DefaultCircuitBreakerConfig(), zaptest.NewLogger(t))

	out, err := c.Complete(context.Background(), "prompt", outbound.CompletionOptions{})
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
	assert.Equal(t, "stub", c.Name())
}

func TestCircuitBreakerClient_InnerError_PropagatedWhileClosed(t *testing.T) {
	wantErr := errors.New("boom")
	inner := &stubLLMClient{name: "stub", err: wantErr}
	c := NewCircuitBreakerClient(inner, "test-model", healthcheck.DefaultCircuitBreakerConfig(), zaptest.NewLogger(t))

	_, err := c.Complete(context.Background(), "prompt", outbound.CompletionOptions{})
	assert.ErrorIs(t, err, wantErr)
}

func TestCircuitBreakerClient_TripsAfterThreshold(t *testing.T) {
	inner := &stubLLMClient{name: "stub", err: errors.New("boom")}
	cfg := healthcheck.CircuitBreakerConfig{FailureThreshold: 2, SuccessThreshold: 1, Timeout: 0}
	c := NewCircuitBreakerClient(inner, "test-model", cfg, zaptest.NewLogger(t))

	for i := 0; i < 2; i++ {
		_, _ = c.Complete(context.Background(), "prompt", outbound.CompletionOptions{})
	}

	_, err := c.Complete(context.Background(), "prompt", outbound.CompletionOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unavailable")
}
