// Package inbound defines the interfaces the application exposes to driving
// adapters — here, a single conversational recommendation use case.
package inbound

import (
	"context"

	"github.com/flavorgraph/sous-chef/internal/domain/conversation"
	"github.com/flavorgraph/sous-chef/internal/domain/search"
)

// RecommendationService is the primary port: given a dialogue, produce
// ranked recipe recommendations plus a diagnostic analysis (spec §4.8).
type RecommendationService interface {
	Recommend(ctx context.Context, req RecommendationRequest) (RecommendationResponse, error)
}

// RecommendationRequest carries the conversation and any explicit
// preferences the caller already knows about (spec §4.8).
type RecommendationRequest struct {
	ConversationHistory conversation.Dialogue
	MaxResults          int // default 10, must be in [1, 50]
	Collections         []string // optional whitelist restricting the plan
	UserPreferences     *search.Preferences
}

// RecommendationResponse is the full result of one Recommend call.
type RecommendationResponse struct {
	Recommendations []search.Recommendation
	QueryAnalysis   search.QueryAnalysis
	TotalResults    int
	Status          string
}
