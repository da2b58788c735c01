package search

// Hit is a single vector-search result for one query against one collection
// (C6 output, pre-filter). It carries enough recipe data for C7/C8 to act on
// without a second lookup.
type Hit struct {
	RecipeID           string
	Collection         string
	SimilarityScore    float64
	Confidence         float64
	Title              string
	Summary            string
	IngredientsPreview []string
	Query              string
}

// Recommendation is a single ranked, filtered recipe surfaced to the caller
// (C8 output). Metadata holds the recipe's classified-recipes corpus entry
// (empty when the corpus has none for it).
type Recommendation struct {
	RecipeID           string
	Title              string
	Collection         string
	Summary            string
	IngredientsPreview []string
	SimilarityScore    float64
	Metadata           map[string]interface{}
}

// Preferences are the dietary constraints the Preference Filter (C7) applies
// after ranking.
type Preferences struct {
	DietaryRestrictions []string
	PreferredCuisines   []string
	MaxCookingTimeMins  int
}

// QueryAnalysis is the diagnostic summary returned alongside recommendations
// describing what the pipeline understood and did (spec §4.8 step 8).
type QueryAnalysis struct {
	DetectedPreferences  []string
	DetectedRestrictions []string
	MealContext          string
	GeneratedQueries      map[string][]string
	CollectionsSearched   []string
	ProcessingTimeMS      int64
	DegradedMode          bool
}
