// Package executor implements the Search Executor (C6): it fans a query
// plan out into bounded-concurrency embed-then-search work items, dedupes
// and ranks the resulting hits, and attaches classified-recipes metadata.
package executor

import (
	"context"
	"sort"
	"sync"

	"github.com/flavorgraph/sous-chef/internal/domain/recipe"
	"github.com/flavorgraph/sous-chef/internal/domain/search"
	"github.com/flavorgraph/sous-chef/internal/ports/outbound"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxParallelSearches bounds concurrent work items when the caller
// does not override it (spec §4.6, §6.5 max_parallel_searches).
const DefaultMaxParallelSearches = 16

// Executor implements the C6 contract.
type Executor struct {
	embedder    outbound.EmbeddingProvider
	store       outbound.VectorStoreClient
	recipes     map[string]*recipe.Recipe
	maxParallel int
	logger      *zap.Logger
}

// New constructs an Executor. recipes is the classified-recipes corpus
// loaded once at startup, keyed by recipe_id; it may be nil or incomplete —
// a recipe missing from it still surfaces, with empty metadata.
func New(embedder outbound.EmbeddingProvider, store outbound.VectorStoreClient, recipes map[string]*recipe.Recipe, maxParallel int, logger *zap.Logger) *Executor {
	if maxParallel <= 0 {
		maxParallel = DefaultMaxParallelSearches
	}
	return &Executor{
		embedder:    embedder,
		store:       store,
		recipes:     recipes,
		maxParallel: maxParallel,
		logger:      logger.Named("executor"),
	}
}

type workItem struct {
	collection string
	query      string
}

// Execute fans plan out into (collection, query) work items, each bounded
// to kPerQuery hits, and returns the deduplicated, ranked sequence of
// Recommendations (spec §4.6). A work item failure is skipped and logged;
// total failure returns an empty, non-error sequence.
func (e *Executor) Execute(ctx context.Context, plan search.QueryPlan, kPerQuery int) []search.Recommendation {
	items := buildWorkItems(plan)
	if len(items) == 0 {
		return nil
	}

	var mu sync.Mutex
	var hits []search.Hit

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.maxParallel)

	for _, item := range items {
		item := item
		g.Go(func() error {
			itemHits, ok := e.runWorkItem(gctx, item, kPerQuery)
			if !ok {
				return nil
			}
			mu.Lock()
			hits = append(hits, itemHits...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // runWorkItem never returns an error; failures are logged and skipped

	deduped := dedupe(hits)
	sortHits(deduped)
	return e.toRecommendations(deduped)
}

func buildWorkItems(plan search.QueryPlan) []workItem {
	var items []workItem
	for _, collection := range plan.Collections() {
		for _, query := range plan.Queries(collection) {
			items = append(items, workItem{collection: collection, query: query})
		}
	}
	return items
}

// runWorkItem embeds the query and searches one collection. It never
// returns an error — embedding and vector-store failures are logged and
// the item is skipped, per spec §4.6's failure-handling rules.
func (e *Executor) runWorkItem(ctx context.Context, item workItem, k int) ([]search.Hit, bool) {
	vector, err := e.embedder.Embed(ctx, item.query)
	if err != nil {
		e.logger.Warn("embedding failed for query, skipping",
			zap.String("collection", item.collection), zap.String("query", item.query), zap.Error(err))
		return nil, false
	}

	results, err := e.store.Search(ctx, item.collection, vector, k)
	if err != nil {
		e.logger.Warn("vector search failed, skipping",
			zap.String("collection", item.collection), zap.String("query", item.query), zap.Error(err))
		return nil, false
	}

	hits := make([]search.Hit, len(results))
	for i, r := range results {
		hits[i] = search.Hit{
			RecipeID:           r.RecipeID,
			Collection:         item.collection,
			SimilarityScore:    r.Score,
			Confidence:         r.Confidence,
			Title:              r.Title,
			Summary:            r.Summary,
			IngredientsPreview: r.IngredientsPreview,
			Query:              item.query,
		}
	}
	return hits, true
}

// dedupe keeps, for each recipe_id, the hit with the highest
// similarity_score, tie-broken by higher confidence then lexicographic
// recipe_id (spec §4.6 step 4).
func dedupe(hits []search.Hit) []search.Hit {
	best := make(map[string]search.Hit, len(hits))
	for _, h := range hits {
		current, ok := best[h.RecipeID]
		if !ok || betterHit(h, current) {
			best[h.RecipeID] = h
		}
	}
	out := make([]search.Hit, 0, len(best))
	for _, h := range best {
		out = append(out, h)
	}
	return out
}

func betterHit(candidate, current search.Hit) bool {
	if candidate.SimilarityScore != current.SimilarityScore {
		return candidate.SimilarityScore > current.SimilarityScore
	}
	if candidate.Confidence != current.Confidence {
		return candidate.Confidence > current.Confidence
	}
	return candidate.RecipeID < current.RecipeID
}

// sortHits orders hits by similarity_score descending, with ties broken by
// lexicographic recipe_id so output is stable-ordered (spec §4.6 step 5).
func sortHits(hits []search.Hit) {
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].SimilarityScore != hits[j].SimilarityScore {
			return hits[i].SimilarityScore > hits[j].SimilarityScore
		}
		return hits[i].RecipeID < hits[j].RecipeID
	})
}

func (e *Executor) toRecommendations(hits []search.Hit) []search.Recommendation {
	out := make([]search.Recommendation, len(hits))
	for i, h := range hits {
		out[i] = search.Recommendation{
			RecipeID:           h.RecipeID,
			Title:              h.Title,
			Collection:         h.Collection,
			Summary:            h.Summary,
			IngredientsPreview: h.IngredientsPreview,
			SimilarityScore:    h.SimilarityScore,
			Metadata:           e.metadataFor(h.RecipeID),
		}
	}
	return out
}

// metadataFor attaches the classified-recipes corpus entry for recipeID, or
// an empty map if the recipe is missing from the corpus — a Hit is never
// dropped for lacking metadata (spec §4.6 step 6).
func (e *Executor) metadataFor(recipeID string) map[string]interface{} {
	r, ok := e.recipes[recipeID]
	if !ok {
		return map[string]interface{}{}
	}
	return map[string]interface{}{
		"original_data": map[string]interface{}{
			"ingredients":  r.Ingredients(),
			"instructions": r.Instructions(),
		},
	}
}
