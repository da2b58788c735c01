// Package filter implements the Preference Filter (C7): a coarse,
// substring-based dietary-restriction blocklist applied after ranking.
// preferred_cuisines and max_cooking_time are recognized but not yet
// enforced (spec §4.7, §9).
package filter

import (
	"strings"

	"github.com/flavorgraph/sous-chef/internal/domain/search"
)

// blocklists maps each recognized dietary restriction to the ingredient
// substrings that disqualify a recipe (spec §4.7, case-insensitive).
var blocklists = map[string][]string{
	"vegan":       {"meat", "chicken", "beef", "pork", "fish", "egg", "dairy", "milk", "cheese"},
	"vegetarian":  {"meat", "chicken", "beef", "pork", "fish"},
	"gluten-free": {"wheat", "flour", "barley", "rye", "bread", "pasta"},
	"dairy-free":  {"milk", "cheese", "butter", "cream", "yogurt"},
	"nut-free":    {"peanut", "almond", "walnut", "cashew", "pecan", "hazelnut", "pistachio"},
}

// Filter applies the C7 contract: drop any recommendation whose
// original-data ingredients match a blocklisted substring for a restriction
// the caller set. Surviving items keep their relative order.
func Filter(recommendations []search.Recommendation, prefs search.Preferences) []search.Recommendation {
	if len(prefs.DietaryRestrictions) == 0 {
		return recommendations
	}

	out := make([]search.Recommendation, 0, len(recommendations))
	for _, r := range recommendations {
		if violatesAnyRestriction(r, prefs.DietaryRestrictions) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func violatesAnyRestriction(r search.Recommendation, restrictions []string) bool {
	ingredients := originalIngredients(r)
	if len(ingredients) == 0 {
		return false
	}
	haystack := strings.ToLower(strings.Join(ingredients, " "))

	for _, restriction := range restrictions {
		for _, blocked := range blocklists[restriction] {
			if strings.Contains(haystack, blocked) {
				return true
			}
		}
	}
	return false
}

func originalIngredients(r search.Recommendation) []string {
	originalData, ok := r.Metadata["original_data"].(map[string]interface{})
	if !ok {
		return nil
	}
	ingredients, ok := originalData["ingredients"].([]string)
	if !ok {
		return nil
	}
	return ingredients
}
