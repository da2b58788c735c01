// Package ai wires the LLM driver adapters behind a shared circuit breaker
// so repeated provider failures within a request burst short-circuit to an
// immediate LLMUnavailable instead of paying the full HTTP timeout on every
// call (spec §4.3).
package ai

import (
	"context"
	"time"

	"github.com/flavorgraph/sous-chef/internal/infrastructure/monitoring"
	"github.com/flavorgraph/sous-chef/internal/ports/outbound"
	apperrors "github.com/flavorgraph/sous-chef/pkg/errors"
	"github.com/flavorgraph/sous-chef/pkg/healthcheck"
	"go.uber.org/zap"
)

// CircuitBreakerClient decorates an outbound.LLMClient with a
// pkg/healthcheck.CircuitBreaker and structured AI-request logging.
type CircuitBreakerClient struct {
	inner outbound.LLMClient
	cb    *healthcheck.CircuitBreaker
	model string
	log   *monitoring.Logger
}

// NewCircuitBreakerClient wraps inner with a circuit breaker using cfg, or
// the teacher's default configuration if cfg is the zero value. model is
// used only for AI-request log lines.
func NewCircuitBreakerClient(inner outbound.LLMClient, model string, cfg healthcheck.CircuitBreakerConfig, logger *zap.Logger) *CircuitBreakerClient {
	if cfg.FailureThreshold == 0 {
		cfg = healthcheck.DefaultCircuitBreakerConfig()
	}
	return &CircuitBreakerClient{
		inner: inner,
		cb:    healthcheck.NewCircuitBreaker(inner.Name(), cfg),
		model: model,
		log:   &monitoring.Logger{Logger: logger.Named("llm-client")},
	}
}

// Name identifies the wrapped provider for logging/metrics.
func (c *CircuitBreakerClient) Name() string { return c.inner.Name() }

// Complete runs the wrapped client's Complete through the circuit breaker.
func (c *CircuitBreakerClient) Complete(ctx context.Context, prompt string, opts outbound.CompletionOptions) (string, error) {
	start := time.Now()
	result, err := c.cb.Execute(func() (interface{}, error) {
		return c.inner.Complete(ctx, prompt, opts)
	})
	if err != nil {
		if !c.cb.IsAllowingRequests() {
			wrapped := apperrors.NewLLMUnavailableError(c.Name(), err)
			c.log.AIRequestLogger(ctx, c.Name(), c.model, "complete", time.Since(start), wrapped)
			return "", wrapped
		}
		c.log.AIRequestLogger(ctx, c.Name(), c.model, "complete", time.Since(start), err)
		return "", err
	}
	c.log.AIRequestLogger(ctx, c.Name(), c.model, "complete", time.Since(start), nil)
	return result.(string), nil
}
