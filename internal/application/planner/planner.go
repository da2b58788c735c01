// Package planner implements the Query Planner (C5): it turns a dialogue
// and its analyzed Intent into a QueryPlan covering all eight fixed
// collections, preferring an LLM call but always falling back to static,
// intent-customized queries rather than failing the request.
package planner

import (
	"context"
	"strconv"
	"strings"

	"github.com/flavorgraph/sous-chef/internal/application/llmjson"
	"github.com/flavorgraph/sous-chef/internal/domain/ai"
	"github.com/flavorgraph/sous-chef/internal/domain/conversation"
	"github.com/flavorgraph/sous-chef/internal/domain/search"
	"github.com/flavorgraph/sous-chef/internal/ports/outbound"
	"go.uber.org/zap"
)

// Planner implements the C5 contract.
type Planner struct {
	llm    outbound.LLMClient
	logger *zap.Logger
}

// New constructs a Planner. llm may be nil, in which case every call
// degrades straight to the static fallback plan.
func New(llm outbound.LLMClient, logger *zap.Logger) *Planner {
	return &Planner{llm: llm, logger: logger.Named("planner")}
}

// Plan builds a QueryPlan from dialogue and intent (spec §4.5). The
// returned plan always covers all eight fixed collections.
func (p *Planner) Plan(ctx context.Context, dialogue conversation.Dialogue, intent conversation.Intent) search.QueryPlan {
	if p.llm != nil {
		if plan, ok := p.planWithLLM(ctx, dialogue, intent); ok {
			return customize(plan, intent, dialogue)
		}
	}
	return customize(search.NewQueryPlan(nil), intent, dialogue)
}

func (p *Planner) planWithLLM(ctx context.Context, dialogue conversation.Dialogue, intent conversation.Intent) (search.QueryPlan, bool) {
	prompt := buildPrompt(dialogue, intent)

	req, err := ai.NewCompletionRequest("planner", "query-planning", prompt, ai.ProviderType(p.llm.Name()), "")
	if err != nil {
		p.logger.Warn("could not build completion request, falling back to static plan", zap.Error(err))
		return search.QueryPlan{}, false
	}
	if err := req.StartProcessing(); err != nil {
		p.logger.Warn("could not start completion request, falling back to static plan", zap.Error(err))
		return search.QueryPlan{}, false
	}

	raw, err := p.llm.Complete(ctx, prompt, outbound.CompletionOptions{Temperature: 0.3, MaxTokens: 600, ResponseFormat: "json"})
	if err != nil {
		_ = req.Fail(err.Error())
		p.logRequest(req, "LLM unavailable during query planning, falling back to static plan")
		return search.QueryPlan{}, false
	}

	var parsed map[string][]string
	if err := llmjson.Decode(raw, &parsed); err != nil {
		_ = req.Fail(err.Error())
		p.logRequest(req, "LLM returned non-JSON query plan, falling back to static plan")
		return search.QueryPlan{}, false
	}
	_ = req.Complete(ai.NewCompletionResponse(raw, nil, ai.FinishReasonStop))
	p.logRequest(req, "query planning completed")

	return search.NewQueryPlan(parsed), true
}

// customize applies the last-mile, intent-driven fallback customization
// (spec §4.5 step 4): when a collection still holds its generic static
// fallback pair and the detected intent names a matching preference, swap
// in a more specific pair. This runs even on LLM success — the LLM may
// itself have fallen back to generic wording for a collection it had
// nothing better to say about. A rule is skipped for a collection the
// user has explicitly negated (e.g. "no salads"), the same negation this
// package's prompt already asks the LLM to honor.
func customize(plan search.QueryPlan, intent conversation.Intent, dialogue conversation.Dialogue) search.QueryPlan {
	type rule struct {
		collection  string
		triggers    []string
		replacement []string
	}
	rules := []rule{
		{
			collection:  "quick-light",
			triggers:    []string{"healthy"},
			replacement: []string{"healthy quick meals", "nutritious light dishes"},
		},
		{
			collection:  "fresh-cold",
			triggers:    []string{"healthy"},
			replacement: []string{"healthy salads", "fresh vegetable dishes"},
		},
		{
			collection:  "desserts-sweets",
			triggers:    []string{"sweet", "dessert"},
			replacement: []string{"sweet desserts", "indulgent treats"},
		},
	}

	overrides := make(map[string][]string)
	for _, r := range rules {
		if hasNegation(dialogue, r.collection) {
			continue
		}
		if !slicesEqual(plan.Queries(r.collection), search.FallbackQueries(r.collection)) {
			continue
		}
		for _, t := range r.triggers {
			if intent.HasPreference(t) {
				overrides[r.collection] = r.replacement
				break
			}
		}
	}
	if len(overrides) == 0 {
		return plan
	}

	raw := make(map[string][]string, len(search.Names))
	for _, name := range search.Names {
		if override, ok := overrides[name]; ok {
			raw[name] = override
			continue
		}
		raw[name] = plan.Queries(name)
	}
	return search.NewQueryPlan(raw)
}

// logRequest observes a CompletionRequest's lifecycle: it reports the
// purpose, provider, terminal status, and elapsed time, or (for a failed
// request) the failure reason. outbound.LLMClient.Complete reports only a
// raw string, never token usage or a finish reason, so those accessors on
// CompletionRequest/CompletionResponse aren't logged here — logging them
// would print the same fabricated zero/"stop" value on every call.
func (p *Planner) logRequest(req *ai.CompletionRequest, msg string) {
	fields := []zap.Field{
		zap.String("request_id", req.ID()),
		zap.String("purpose", req.Purpose()),
		zap.String("provider", string(req.Provider())),
		zap.String("status", string(req.Status())),
	}
	if completed := req.CompletedAt(); completed != nil {
		fields = append(fields, zap.Duration("duration", completed.Sub(req.CreatedAt())))
	}
	if req.Status() == ai.RequestStatusFailed {
		fields = append(fields, zap.String("error", req.ErrorMessage()))
	}
	p.logger.Info(msg, fields...)
}

func slicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// buildPrompt restates the latest user message, summarizes Intent, lists
// every collection with its description, and instructs the LLM to emit one
// to two queries per collection as a flat JSON object (spec §4.5 step 1).
// If the latest message contains an explicit negation of a collection's
// theme, the prompt asks the model to omit that collection's queries — a
// best-effort hint only, never enforced post hoc (spec §4.5, §9).
func buildPrompt(dialogue conversation.Dialogue, intent conversation.Intent) string {
	var b strings.Builder
	b.WriteString("You are planning vector-database search queries for a recipe recommendation system.\n")

	if latest := dialogue.LastUserMessage(); latest != "" {
		b.WriteString("Latest user message: ")
		b.WriteString(latest)
		b.WriteByte('\n')
	}

	b.WriteString("Detected intent:\n")
	if prefs := intent.Preferences(); len(prefs) > 0 {
		b.WriteString("  preferences: " + strings.Join(prefs, ", ") + "\n")
	}
	if restr := intent.Restrictions(); len(restr) > 0 {
		b.WriteString("  restrictions: " + strings.Join(restr, ", ") + "\n")
	}
	if mc := intent.MealContext(); mc != "" && mc != "none" {
		b.WriteString("  meal_context: " + mc + "\n")
	}

	b.WriteString("\nThe recipe collections, each with a one-line description:\n")
	for _, name := range search.Names {
		b.WriteString("  " + strconv.Quote(name) + ": " + search.Description(name) + "\n")
	}

	if hasNegation(dialogue, "fresh-cold") {
		b.WriteString("\nThe user explicitly does not want salads or cold dishes; omit queries for \"fresh-cold\" if reasonable.\n")
	}

	b.WriteString("\nRespond with only a JSON object mapping every collection name above to an array of 1-2 search query strings.")
	return b.String()
}

var negationKeywords = map[string][]string{
	"fresh-cold": {"no salad", "not salad", "no salads", "skip salad", "without salad"},
}

func hasNegation(dialogue conversation.Dialogue, collection string) bool {
	latest := dialogue.LastUserMessage()
	if latest == "" {
		return false
	}
	content := strings.ToLower(latest)
	for _, kw := range negationKeywords[collection] {
		if strings.Contains(content, kw) {
			return true
		}
	}
	return false
}
