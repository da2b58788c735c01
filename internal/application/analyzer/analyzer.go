// Package analyzer implements the Conversation Analyzer (C4): it extracts
// structured intent from a dialogue, preferring an LLM call but always
// degrading to a keyword heuristic rather than failing the request.
package analyzer

import (
	"context"
	"strings"

	"github.com/flavorgraph/sous-chef/internal/domain/ai"
	"github.com/flavorgraph/sous-chef/internal/domain/conversation"
	"github.com/flavorgraph/sous-chef/internal/application/llmjson"
	"github.com/flavorgraph/sous-chef/internal/ports/outbound"
	"go.uber.org/zap"
)

const maxDialogueMessages = 10
const heuristicWindow = 5

// Analyzer implements the C4 contract.
type Analyzer struct {
	llm    outbound.LLMClient
	logger *zap.Logger
}

// New constructs an Analyzer. llm may be nil, in which case every call
// degrades straight to the heuristic path.
func New(llm outbound.LLMClient, logger *zap.Logger) *Analyzer {
	return &Analyzer{llm: llm, logger: logger.Named("analyzer")}
}

type intentJSON struct {
	Preferences          []string    `json:"preferences"`
	Restrictions         []string    `json:"restrictions"`
	MealContext          interface{} `json:"meal_context"`
	CookingPreferences   []string    `json:"cooking_preferences"`
	IngredientsMentioned []string    `json:"ingredients_mentioned"`
	CuisinePreferences   []string    `json:"cuisine_preferences"`
}

// Analyze extracts an Intent from dialogue (spec §4.4).
func (a *Analyzer) Analyze(ctx context.Context, dialogue conversation.Dialogue) (conversation.Intent, error) {
	if dialogue.Len() == 0 {
		return conversation.EmptyIntent(), nil
	}

	truncated := dialogue.Last(maxDialogueMessages)

	if a.llm != nil {
		intent, ok := a.analyzeWithLLM(ctx, truncated)
		if ok {
			return intent, nil
		}
	}

	return a.analyzeHeuristically(truncated), nil
}

func (a *Analyzer) analyzeWithLLM(ctx context.Context, messages []conversation.Message) (conversation.Intent, bool) {
	prompt := buildPrompt(messages)

	req, err := ai.NewCompletionRequest("analyzer", "intent-analysis", prompt, ai.ProviderType(a.llm.Name()), "")
	if err != nil {
		a.logger.Warn("could not build completion request, falling back to heuristics", zap.Error(err))
		return conversation.Intent{}, false
	}
	if err := req.StartProcessing(); err != nil {
		a.logger.Warn("could not start completion request, falling back to heuristics", zap.Error(err))
		return conversation.Intent{}, false
	}

	raw, err := a.llm.Complete(ctx, prompt, outbound.CompletionOptions{Temperature: 0.1, MaxTokens: 400, ResponseFormat: "json"})
	if err != nil {
		_ = req.Fail(err.Error())
		a.logRequest(req, "LLM unavailable during intent analysis, falling back to heuristics")
		return conversation.Intent{}, false
	}

	var parsed intentJSON
	if err := llmjson.Decode(raw, &parsed); err != nil {
		_ = req.Fail(err.Error())
		a.logRequest(req, "LLM returned non-JSON intent, falling back to heuristics")
		return conversation.Intent{}, false
	}
	if !hasUsableFields(parsed) {
		_ = req.Fail("LLM response had no usable fields")
		a.logRequest(req, "LLM returned an intent with no usable fields, falling back to heuristics")
		return conversation.Intent{}, false
	}
	_ = req.Complete(ai.NewCompletionResponse(raw, nil, ai.FinishReasonStop))
	a.logRequest(req, "intent analysis completed")

	mealContext := coerceMealContext(parsed.MealContext)

	return conversation.NewIntent(conversation.IntentFields{
		Preferences:          parsed.Preferences,
		Restrictions:         parsed.Restrictions,
		MealContext:          mealContext,
		CookingPreferences:   parsed.CookingPreferences,
		IngredientsMentioned: parsed.IngredientsMentioned,
		CuisinePreferences:   parsed.CuisinePreferences,
	}), true
}

// hasUsableFields reports whether the LLM's JSON carried at least one
// non-empty field (spec §4.4 step 5): a well-formed but entirely empty
// object is not a usable intent and should fall back to the heuristic
// path rather than produce an all-empty Intent.
func hasUsableFields(p intentJSON) bool {
	if len(p.Preferences) > 0 || len(p.Restrictions) > 0 || len(p.CookingPreferences) > 0 ||
		len(p.IngredientsMentioned) > 0 || len(p.CuisinePreferences) > 0 {
		return true
	}
	switch mc := p.MealContext.(type) {
	case string:
		return mc != "" && mc != "none"
	case []interface{}:
		for _, item := range mc {
			if s, ok := item.(string); ok && s != "" {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// logRequest observes a CompletionRequest's lifecycle: it reports the
// purpose, provider, terminal status, and elapsed time, or (for a failed
// request) the failure reason. outbound.LLMClient.Complete reports only a
// raw string, never token usage or a finish reason, so those accessors on
// CompletionRequest/CompletionResponse aren't logged here — logging them
// would print the same fabricated zero/"stop" value on every call.
func (a *Analyzer) logRequest(req *ai.CompletionRequest, msg string) {
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
	a.logger.Info(msg, fields...)
}

// coerceMealContext handles models that emit meal_context as a JSON list
// instead of a string (spec §4.4 step 4).
func coerceMealContext(v interface{}) string {
	switch mc := v.(type) {
	case string:
		return mc
	case []interface{}:
		parts := make([]string, 0, len(mc))
		for _, item := range mc {
			if s, ok := item.(string); ok && s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

var heuristicPreferences = []string{"spicy", "sweet", "healthy", "comfort"}
var heuristicRestrictions = []string{"vegan", "vegetarian", "gluten-free", "dairy-free"}
var heuristicMealContexts = []string{"breakfast", "lunch", "dinner", "snack"}

func (a *Analyzer) analyzeHeuristically(messages []conversation.Message) conversation.Intent {
	window := messages
	if len(window) > heuristicWindow {
		window = window[len(window)-heuristicWindow:]
	}

	var text strings.Builder
	for _, m := range window {
		text.WriteString(strings.ToLower(m.Content()))
		text.WriteByte(' ')
	}
	haystack := text.String()

	var preferences, restrictions []string
	mealContext := "none"

	for _, p := range heuristicPreferences {
		if strings.Contains(haystack, p) {
			preferences = append(preferences, p)
		}
	}
	for _, r := range heuristicRestrictions {
		if strings.Contains(haystack, r) {
			restrictions = append(restrictions, r)
		}
	}
	for _, mc := range heuristicMealContexts {
		if strings.Contains(haystack, mc) {
			mealContext = mc
			break
		}
	}

	return conversation.NewIntent(conversation.IntentFields{
		Preferences:  preferences,
		Restrictions: restrictions,
		MealContext:  mealContext,
	})
}

func buildPrompt(messages []conversation.Message) string {
	var b strings.Builder
	b.WriteString("You are analyzing a cooking conversation to extract structured user intent.\n")
	b.WriteString("Conversation:\n")
	for _, m := range messages {
		b.WriteString(string(m.Role()))
		b.WriteString(": ")
		b.WriteString(m.Content())
		b.WriteByte('\n')
	}
	b.WriteString("\nRespond with only a JSON object with these fields: ")
	b.WriteString(`preferences (array of strings), restrictions (array of strings), ` +
		`meal_context (one of breakfast, lunch, dinner, snack, dessert, none), ` +
		`cooking_preferences (array of strings), ingredients_mentioned (array of strings), ` +
		`cuisine_preferences (array of strings).`)
	return b.String()
}
