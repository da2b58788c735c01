// Package orchestrator implements the Recommendation Orchestrator (C8): it
// sequences the Conversation Analyzer, Query Planner, Search Executor, and
// Preference Filter into the single `recommend` operation exposed to
// callers, degrading to an error-shaped response rather than panicking.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/flavorgraph/sous-chef/internal/domain/conversation"
	"github.com/flavorgraph/sous-chef/internal/domain/search"
	"github.com/flavorgraph/sous-chef/internal/application/filter"
	"github.com/flavorgraph/sous-chef/internal/ports/inbound"
	"go.uber.org/zap"
)

const (
	defaultMaxResults = 10
	minMaxResults     = 1
	maxMaxResults     = 50
	defaultKPerQuery  = 2

	// DefaultRequestTimeout is the per-request wall-clock budget (spec §5).
	DefaultRequestTimeout = 30 * time.Second
)

// ConversationAnalyzer is the C4 collaborator.
type ConversationAnalyzer interface {
	Analyze(ctx context.Context, dialogue conversation.Dialogue) (conversation.Intent, error)
}

// QueryPlanner is the C5 collaborator.
type QueryPlanner interface {
	Plan(ctx context.Context, dialogue conversation.Dialogue, intent conversation.Intent) search.QueryPlan
}

// SearchExecutor is the C6 collaborator.
type SearchExecutor interface {
	Execute(ctx context.Context, plan search.QueryPlan, kPerQuery int) []search.Recommendation
}

// Orchestrator implements inbound.RecommendationService (C8).
type Orchestrator struct {
	analyzer      ConversationAnalyzer
	planner       QueryPlanner
	executor      SearchExecutor
	logger        *zap.Logger
	timeout       time.Duration
	heuristicOnly bool
}

// New constructs an Orchestrator. The container passes
// config.HeuristicOnly() as heuristicOnly, true when no LLM API key is
// configured — the system still runs, and every response is flagged
// degraded.
func New(analyzer ConversationAnalyzer, planner QueryPlanner, executor SearchExecutor, heuristicOnly bool, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		analyzer:      analyzer,
		planner:       planner,
		executor:      executor,
		logger:        logger.Named("orchestrator"),
		timeout:       DefaultRequestTimeout,
		heuristicOnly: heuristicOnly,
	}
}

// Recommend runs the eight-step pipeline (spec §4.8). It never returns an
// error: any failure, including a panic from a collaborator, is captured
// and surfaced as an error-shaped RecommendationResponse instead.
func (o *Orchestrator) Recommend(ctx context.Context, req inbound.RecommendationRequest) (resp inbound.RecommendationResponse, _ error) {
	t0 := time.Now()

	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("recommend panicked", zap.Any("recover", r))
			resp = o.errorResponse(fmt.Sprintf("%v", r), t0)
		}
	}()

	if req.ConversationHistory.Len() == 0 {
		return o.errorResponse("conversation_history must not be empty", t0), nil
	}

	maxResults := req.MaxResults
	if maxResults == 0 {
		maxResults = defaultMaxResults
	}
	if maxResults < minMaxResults {
		maxResults = minMaxResults
	}
	if maxResults > maxMaxResults {
		maxResults = maxMaxResults
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	intent, err := o.analyzer.Analyze(ctx, req.ConversationHistory)
	if err != nil {
		return o.errorResponse(err.Error(), t0), nil
	}

	plan := o.planner.Plan(ctx, req.ConversationHistory, intent)

	if len(req.Collections) > 0 {
		plan = plan.Restrict(req.Collections)
		if plan.IsEmpty() {
			return inbound.RecommendationResponse{
				Recommendations: nil,
				QueryAnalysis:   o.queryAnalysis(intent, plan, t0),
				TotalResults:    0,
				Status:          "success",
			}, nil
		}
	}

	hits := o.executor.Execute(ctx, plan, defaultKPerQuery)

	if req.UserPreferences != nil {
		hits = filter.Filter(hits, *req.UserPreferences)
	}

	totalResults := len(hits)
	if maxResults < len(hits) {
		hits = hits[:maxResults]
	}

	return inbound.RecommendationResponse{
		Recommendations: hits,
		QueryAnalysis:   o.queryAnalysis(intent, plan, t0),
		TotalResults:    totalResults,
		Status:          "success",
	}, nil
}

func (o *Orchestrator) queryAnalysis(intent conversation.Intent, plan search.QueryPlan, t0 time.Time) search.QueryAnalysis {
	generatedQueries := make(map[string][]string, len(plan.Collections()))
	for _, name := range plan.Collections() {
		generatedQueries[name] = plan.Queries(name)
	}
	return search.QueryAnalysis{
		DetectedPreferences:  intent.Preferences(),
		DetectedRestrictions: intent.Restrictions(),
		MealContext:          intent.MealContext(),
		GeneratedQueries:     generatedQueries,
		CollectionsSearched:  plan.Collections(),
		ProcessingTimeMS:     time.Since(t0).Milliseconds(),
		DegradedMode:         o.heuristicOnly,
	}
}

func (o *Orchestrator) errorResponse(message string, t0 time.Time) inbound.RecommendationResponse {
	return inbound.RecommendationResponse{
		Recommendations: []search.Recommendation{},
		QueryAnalysis: search.QueryAnalysis{
			ProcessingTimeMS: time.Since(t0).Milliseconds(),
			DegradedMode:     o.heuristicOnly,
		},
		TotalResults: 0,
		Status:       "error: " + message,
	}
}
