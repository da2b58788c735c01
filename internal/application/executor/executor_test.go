package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/flavorgraph/sous-chef/internal/domain/recipe"
	"github.com/flavorgraph/sous-chef/internal/domain/search"
	"github.com/flavorgraph/sous-chef/internal/ports/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type stubEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}
	return []float32{0, 0}, nil
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := s.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (s *stubEmbedder) Dimension() int { return 2 }
func (s *stubEmbedder) Name() string   { return "stub" }

type stubStore struct {
	results map[string][]outbound.VectorSearchResult
	err     error
}

func (s *stubStore) Search(ctx context.Context, collection string, queryVector []float32, k int) ([]outbound.VectorSearchResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.results[collection], nil
}

func (s *stubStore) CollectionExists(ctx context.Context, collection string) (bool, error) { return true, nil }
func (s *stubStore) CollectionSize(ctx context.Context, collection string) (int, error)     { return 0, nil }
func (s *stubStore) HealthCheck(ctx context.Context) error                                  { return nil }

func planWith(t *testing.T, overrides map[string][]string) search.QueryPlan {
	t.Helper()
	return search.NewQueryPlan(overrides)
}

func TestExecute_DedupesByRecipeIDKeepingHighestScore(t *testing.T) {
	embedder := &stubEmbedder{}
	store := &stubStore{results: map[string][]outbound.VectorSearchResult{
		"quick-light": {
			{RecipeID: "r1", Title: "Quick One", Score: 0.5},
		},
		"protein-mains": {
			{RecipeID: "r1", Title: "Quick One", Score: 0.9},
		},
	}}
	plan := planWith(t, map[string][]string{
		"quick-light":   {"fast meal"},
		"protein-mains": {"fast meal"},
	})

	e := New(embedder, store, nil, 4, zaptest.NewLogger(t))
	recs := e.Execute(context.Background(), plan, 5)

	require.Len(t, recs, 1)
	assert.Equal(t, "r1", recs[0].RecipeID)
	assert.Equal(t, 0.9, recs[0].SimilarityScore)
}

func TestExecute_ScoreTieOrderedByRecipeID(t *testing.T) {
	embedder := &stubEmbedder{}
	store := &stubStore{results: map[string][]outbound.VectorSearchResult{
		"quick-light": {
			{RecipeID: "r2", Score: 0.7, Confidence: 0.5},
			{RecipeID: "r1", Score: 0.7, Confidence: 0.9},
		},
	}}
	plan := planWith(t, map[string][]string{"quick-light": {"q"}})

	e := New(embedder, store, nil, 4, zaptest.NewLogger(t))
	recs := e.Execute(context.Background(), plan, 5)

	require.Len(t, recs, 2)
	assert.Equal(t, "r1", recs[0].RecipeID, "on a score tie the lexicographically smaller recipe_id should rank first")
}

func TestExecute_SortsDescendingBySimilarityScore(t *testing.T) {
	embedder := &stubEmbedder{}
	store := &stubStore{results: map[string][]outbound.VectorSearchResult{
		"quick-light": {
			{RecipeID: "low", Score: 0.2},
			{RecipeID: "high", Score: 0.8},
			{RecipeID: "mid", Score: 0.5},
		},
	}}
	plan := planWith(t, map[string][]string{"quick-light": {"q"}})

	e := New(embedder, store, nil, 4, zaptest.NewLogger(t))
	recs := e.Execute(context.Background(), plan, 5)

	require.Len(t, recs, 3)
	assert.Equal(t, []string{"high", "mid", "low"}, []string{recs[0].RecipeID, recs[1].RecipeID, recs[2].RecipeID})
}

func TestExecute_EmbeddingFailure_SkipsQueryContinues(t *testing.T) {
	embedder := &stubEmbedder{err: errors.New("embedding provider down")}
	store := &stubStore{}
	plan := planWith(t, map[string][]string{"quick-light": {"q"}})

	e := New(embedder, store, nil, 4, zaptest.NewLogger(t))
	recs := e.Execute(context.Background(), plan, 5)
	assert.Empty(t, recs)
}

func TestExecute_VectorStoreFailure_ReturnsEmptyNotError(t *testing.T) {
	embedder := &stubEmbedder{}
	store := &stubStore{err: errors.New("store unreachable")}
	plan := planWith(t, map[string][]string{"quick-light": {"q"}})

	e := New(embedder, store, nil, 4, zaptest.NewLogger(t))
	recs := e.Execute(context.Background(), plan, 5)
	assert.Empty(t, recs)
}

func TestExecute_AttachesClassifiedRecipeMetadata(t *testing.T) {
	embedder := &stubEmbedder{}
	store := &stubStore{results: map[string][]outbound.VectorSearchResult{
		"quick-light": {{RecipeID: "r1", Score: 0.9}},
	}}
	plan := planWith(t, map[string][]string{"quick-light": {"q"}})

	r1, err := recipe.New("r1", "Quick One", "quick-light", "a quick meal", []string{"chicken", "rice"}, "cook it", 0.9)
	require.NoError(t, err)
	recipes := map[string]*recipe.Recipe{"r1": r1}

	e := New(embedder, store, recipes, 4, zaptest.NewLogger(t))
	recs := e.Execute(context.Background(), plan, 5)

	require.Len(t, recs, 1)
	original, ok := recs[0].Metadata["original_data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, []string{"chicken", "rice"}, original["ingredients"])
}

func TestExecute_MissingRecipeFromCorpus_StillReturnsHitWithEmptyMetadata(t *testing.T) {
	embedder := &stubEmbedder{}
	store := &stubStore{results: map[string][]outbound.VectorSearchResult{
		"quick-light": {{RecipeID: "unknown-recipe", Score: 0.9}},
	}}
	plan := planWith(t, map[string][]string{"quick-light": {"q"}})

	e := New(embedder, store, nil, 4, zaptest.NewLogger(t))
	recs := e.Execute(context.Background(), plan, 5)

	require.Len(t, recs, 1)
	assert.Empty(t, recs[0].Metadata)
}
