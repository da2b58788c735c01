// Package recipe contains the core domain logic for recipe reference data.
// Recipes here are process-lifetime, read-only entities loaded from the
// classified-recipes corpus; unlike a mutable aggregate root, nothing in
// this package ever persists a write.
package recipe

import "github.com/flavorgraph/sous-chef/pkg/errors"

// Recipe is a single classified recipe as surfaced by the recommendation
// pipeline. It carries only the fields the core reads (spec §3 and §6.3);
// the embedding itself lives in the vector store, never here.
type Recipe struct {
	id           string
	title        string
	collection   string
	summary      string
	ingredients  []string
	instructions string
	confidence   float64
}

// New validates and constructs a Recipe. ingredients is the full,
// unfiltered ingredient list from the classified-recipes corpus;
// IngredientsPreview derives from it rather than being supplied separately.
func New(id, title, collection, summary string, ingredients []string, instructions string, confidence float64) (*Recipe, error) {
	if id == "" {
		return nil, errors.NewInvalidInputError("recipe_id must not be empty")
	}
	if title == "" {
		return nil, errors.NewInvalidInputError("recipe title must not be empty")
	}
	if collection == "" {
		return nil, errors.NewInvalidInputError("recipe collection must not be empty")
	}
	if len(summary) > 500 {
		summary = summary[:500]
	}
	return &Recipe{
		id:           id,
		title:        title,
		collection:   collection,
		summary:      summary,
		ingredients:  ingredients,
		instructions: instructions,
		confidence:   confidence,
	}, nil
}

// ID returns the stable, globally unique recipe identifier.
func (r *Recipe) ID() string { return r.id }

// Title returns the recipe title.
func (r *Recipe) Title() string { return r.title }

// Collection returns the collection this recipe belongs to.
func (r *Recipe) Collection() string { return r.collection }

// Summary returns the LLM-generated ingestion-time summary (≤500 chars).
func (r *Recipe) Summary() string { return r.summary }

// Ingredients returns the full, unfiltered ingredient list.
func (r *Recipe) Ingredients() []string { return r.ingredients }

// IngredientsPreview returns the first five ingredients, as surfaced on a
// Hit/Recommendation.
func (r *Recipe) IngredientsPreview() []string { return firstN(r.ingredients, 5) }

// Instructions returns the recipe's preparation instructions.
func (r *Recipe) Instructions() string { return r.instructions }

// Confidence returns the classifier confidence recorded at ingestion time.
func (r *Recipe) Confidence() float64 { return r.confidence }

func firstN(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
