// Package outbound defines the interfaces the application core uses to
// reach external systems (secondary/driven adapters): the embedding
// provider, the vector store, the LLM, and the classified-recipes corpus.
package outbound

import (
	"context"

	"github.com/flavorgraph/sous-chef/internal/domain/recipe"
)

// EmbeddingProvider turns text into a fixed-dimension vector (C1).
type EmbeddingProvider interface {
	// Embed returns the embedding for a single piece of text.
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch embeds multiple texts in one round-trip where the
	// underlying driver supports it.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	// Dimension returns the vector width this provider produces.
	Dimension() int
	// Name identifies the provider for logging/metrics.
	Name() string
}

// VectorSearchResult is one nearest-neighbor match from a vector store
// query, before it is lifted into a search.Hit.
type VectorSearchResult struct {
	RecipeID           string
	Title              string
	Summary            string
	IngredientsPreview []string
	Score              float64
	Confidence         float64
}

// VectorStoreClient performs similarity search against one of the eight
// fixed collections (C2).
type VectorStoreClient interface {
	// Search returns up to k nearest neighbors of queryVector within
	// collection, ordered by descending similarity.
	Search(ctx context.Context, collection string, queryVector []float32, k int) ([]VectorSearchResult, error)
	// CollectionExists reports whether collection has been provisioned in
	// the store (spec §4.2).
	CollectionExists(ctx context.Context, collection string) (bool, error)
	// CollectionSize returns the number of vectors stored in collection.
	CollectionSize(ctx context.Context, collection string) (int, error)
	// HealthCheck reports whether the store is reachable. It does not
	// check that the fixed collections exist.
	HealthCheck(ctx context.Context) error
}

// CompletionOptions tune a single LLM completion call (spec §4.3).
type CompletionOptions struct {
	Temperature    float64
	MaxTokens      int
	ResponseFormat string // "free" (default) or "json"
	TimeoutMS      int    // default 30000
}

// LLMClient issues a single prompt/response completion (C3). It never
// retries internally; retry and fallback policy lives in the caller.
type LLMClient interface {
	Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error)
	// Name identifies the provider for logging/metrics.
	Name() string
}

// ClassifiedRecipeStore loads the process-lifetime corpus of classified
// recipes used to hydrate Hit/Recommendation fields not carried by the
// vector store response.
type ClassifiedRecipeStore interface {
	Load(ctx context.Context) ([]*recipe.Recipe, error)
}
