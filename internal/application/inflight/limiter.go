// Package inflight enforces the service-wide admission limit of spec §5:
// requests beyond max_inflight_requests are rejected outright, with no
// internal queue, grounded on mchmarny-cloud-native-stack/pkg/server's
// rate.Limiter-gated middleware pattern.
package inflight

import (
	"context"

	"github.com/flavorgraph/sous-chef/internal/domain/search"
	"github.com/flavorgraph/sous-chef/internal/ports/inbound"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Service is the C8 collaborator this decorator wraps.
type Service interface {
	Recommend(ctx context.Context, req inbound.RecommendationRequest) (inbound.RecommendationResponse, error)
}

// LimitedService rejects requests once the admission token bucket sized to
// max_inflight_requests is empty, rather than queuing them. It counts
// admissions, not requests still running: a request that has not finished
// does not hold a token.
type LimitedService struct {
	inner   Service
	limiter *rate.Limiter
	logger  *zap.Logger
}

// New wraps inner with an admission gate sized to maxInflight. The limiter
// is configured with a burst equal to maxInflight and refills at the same
// rate per second, so a burst of up to maxInflight requests is admitted
// immediately and arrivals faster than maxInflight per second are
// rejected. How many admitted requests are still running is not tracked.
func New(inner Service, maxInflight int, logger *zap.Logger) *LimitedService {
	if maxInflight < 1 {
		maxInflight = 1
	}
	return &LimitedService{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(maxInflight), maxInflight),
		logger:  logger.Named("inflight-limiter"),
	}
}

// Recommend admits the request if under the inflight limit, otherwise
// rejects it immediately with an error-shaped response (spec §5).
func (l *LimitedService) Recommend(ctx context.Context, req inbound.RecommendationRequest) (inbound.RecommendationResponse, error) {
	if !l.limiter.Allow() {
		l.logger.Warn("rejecting request: inflight limit exceeded")
		return inbound.RecommendationResponse{
			Recommendations: []search.Recommendation{},
			QueryAnalysis:   search.QueryAnalysis{},
			TotalResults:    0,
			Status:          "error: too many inflight requests",
		}, nil
	}
	return l.inner.Recommend(ctx, req)
}
