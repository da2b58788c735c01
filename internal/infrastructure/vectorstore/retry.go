// Package vectorstore provides the Vector Store Client (C2) drivers — an
// in-memory brute-force store for development/tests and a pgvector-backed
// store for production — behind a shared retry policy, grounded on
// agentoven-agentoven/control-plane/internal/vectorstore.
package vectorstore

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/flavorgraph/sous-chef/internal/ports/outbound"
	apperrors "github.com/flavorgraph/sous-chef/pkg/errors"
)

// retrySearch retries a transient search failure up to 3 times with
// exponential backoff (base 100ms, factor 2, jitter ±25%), surfacing
// VectorStoreUnavailable once retries are exhausted (spec §4.2).
func retrySearch(ctx context.Context, collection string, fn func() ([]outbound.VectorSearchResult, error)) ([]outbound.VectorSearchResult, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.Multiplier = 2
	b.RandomizationFactor = 0.25
	bo := backoff.WithMaxRetries(backoff.WithContext(b, ctx), 3)

	var results []outbound.VectorSearchResult
	var lastErr error
	op := func() error {
		r, err := fn()
		if err != nil {
			lastErr = err
			return err
		}
		results = r
		return nil
	}

	if err := backoff.Retry(op, bo); err != nil {
		return nil, apperrors.NewVectorStoreUnavailableError(collection, lastErr)
	}
	return results, nil
}
