package conversation

import "sort"

// Intent is the structured output of the Conversation Analyzer (C4).
// Fields are sets by construction: duplicates collapse, order is not
// meaningful.
type Intent struct {
	preferences          map[string]struct{}
	restrictions         map[string]struct{}
	mealContext          string
	cookingPreferences   map[string]struct{}
	ingredientsMentioned map[string]struct{}
	cuisinePreferences   map[string]struct{}
}

// IntentFields are the raw values used to construct an Intent; kept
// separate from Intent itself so callers (JSON decoding, heuristics) can
// build one without reaching into unexported state.
type IntentFields struct {
	Preferences          []string
	Restrictions         []string
	MealContext          string
	CookingPreferences   []string
	IngredientsMentioned []string
	CuisinePreferences   []string
}

// NewIntent constructs an Intent, deduplicating every set field.
func NewIntent(f IntentFields) Intent {
	return Intent{
		preferences:          toSet(f.Preferences),
		restrictions:         toSet(f.Restrictions),
		mealContext:          f.MealContext,
		cookingPreferences:   toSet(f.CookingPreferences),
		ingredientsMentioned: toSet(f.IngredientsMentioned),
		cuisinePreferences:   toSet(f.CuisinePreferences),
	}
}

// EmptyIntent returns an Intent with all sets empty and meal context "none",
// the value used for an empty dialogue (spec §4.4 edge case).
func EmptyIntent() Intent {
	return NewIntent(IntentFields{MealContext: "none"})
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		set[v] = struct{}{}
	}
	return set
}

// fromSet returns the set's members in sorted order so that callers
// downstream of map iteration (JSON encoding, response assembly) see a
// deterministic ordering for a given set of inputs (spec §8 P9).
func fromSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Preferences returns the detected preferences (e.g. "spicy", "healthy").
func (i Intent) Preferences() []string { return fromSet(i.preferences) }

// HasPreference reports whether a given preference was detected.
func (i Intent) HasPreference(p string) bool { _, ok := i.preferences[p]; return ok }

// Restrictions returns the detected dietary restrictions.
func (i Intent) Restrictions() []string { return fromSet(i.restrictions) }

// MealContext returns the detected meal context, or "" if none was set
// (callers should treat "" and "none" equivalently).
func (i Intent) MealContext() string { return i.mealContext }

// CookingPreferences returns preferences about cooking method/effort.
func (i Intent) CookingPreferences() []string { return fromSet(i.cookingPreferences) }

// IngredientsMentioned returns ingredients the user named explicitly.
func (i Intent) IngredientsMentioned() []string { return fromSet(i.ingredientsMentioned) }

// CuisinePreferences returns detected cuisine preferences.
func (i Intent) CuisinePreferences() []string { return fromSet(i.cuisinePreferences) }
