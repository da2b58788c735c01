package vectorstore

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/flavorgraph/sous-chef/internal/domain/search"
	"github.com/flavorgraph/sous-chef/internal/ports/outbound"
	apperrors "github.com/flavorgraph/sous-chef/pkg/errors"
	"go.uber.org/zap"
)

// vectorDoc is one embedded vector plus the recipe fields a Hit needs,
// keyed by collection.
type vectorDoc struct {
	recipeID           string
	title              string
	summary            string
	ingredientsPreview []string
	confidence         float64
	vector             []float32
}

// EmbeddedStore is an in-memory, brute-force cosine-similarity vector store
// for the eight fixed collections. Suitable for development, tests, and the
// property-test suite; not for production scale.
type EmbeddedStore struct {
	mu     sync.RWMutex
	docs   map[string][]vectorDoc // collection -> docs
	logger *zap.Logger
}

// NewEmbeddedStore creates an in-memory vector store with the eight fixed
// collections pre-provisioned empty, so CollectionExists is true for all of
// them even before any recipe is loaded.
func NewEmbeddedStore(logger *zap.Logger) *EmbeddedStore {
	docs := make(map[string][]vectorDoc, len(search.Names))
	for _, name := range search.Names {
		docs[name] = nil
	}
	return &EmbeddedStore{
		docs:   docs,
		logger: logger.Named("embedded-vectorstore"),
	}
}

// Load appends one recipe's vector to collection, keeping anything already
// loaded there; a collection not yet present is created.
func (s *EmbeddedStore) Load(collection string, recipeID, title, summary string, ingredientsPreview []string, confidence float64, vector []float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[collection] = append(s.docs[collection], vectorDoc{
		recipeID:           recipeID,
		title:              title,
		summary:            summary,
		ingredientsPreview: ingredientsPreview,
		confidence:         confidence,
		vector:             vector,
	})
}

// Search returns up to k nearest neighbors of queryVector within collection
// by cosine similarity, ordered descending (spec §4.2). An unknown
// collection fails immediately with CollectionMissing; it is not retried.
func (s *EmbeddedStore) Search(ctx context.Context, collection string, queryVector []float32, k int) ([]outbound.VectorSearchResult, error) {
	if exists, _ := s.CollectionExists(ctx, collection); !exists {
		return nil, apperrors.NewCollectionMissingError(collection)
	}
	return retrySearch(ctx, collection, func() ([]outbound.VectorSearchResult, error) {
		return s.search(collection, queryVector, k), nil
	})
}

func (s *EmbeddedStore) search(collection string, queryVector []float32, k int) []outbound.VectorSearchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := s.docs[collection]
	type scored struct {
		doc   vectorDoc
		score float64
	}
	scoredDocs := make([]scored, 0, len(docs))
	for _, d := range docs {
		if len(d.vector) != len(queryVector) {
			continue
		}
		scoredDocs = append(scoredDocs, scored{doc: d, score: cosineSimilarity(queryVector, d.vector)})
	}

	sort.Slice(scoredDocs, func(i, j int) bool {
		return scoredDocs[i].score > scoredDocs[j].score
	})

	if k > len(scoredDocs) {
		k = len(scoredDocs)
	}
	results := make([]outbound.VectorSearchResult, k)
	for i := 0; i < k; i++ {
		d := scoredDocs[i].doc
		results[i] = outbound.VectorSearchResult{
			RecipeID:           d.recipeID,
			Title:              d.title,
			Summary:            d.summary,
			IngredientsPreview: d.ingredientsPreview,
			Score:              scoredDocs[i].score,
			Confidence:         d.confidence,
		}
	}
	return results
}

// CollectionExists reports whether collection is known to the store. The
// eight fixed collections exist from construction, even while empty.
func (s *EmbeddedStore) CollectionExists(_ context.Context, collection string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.docs[collection]
	return ok, nil
}

// CollectionSize returns the number of vectors loaded into collection.
func (s *EmbeddedStore) CollectionSize(_ context.Context, collection string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs[collection]), nil
}

// HealthCheck always succeeds — the embedded store has no external
// dependency to fail.
func (s *EmbeddedStore) HealthCheck(_ context.Context) error { return nil }

func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
