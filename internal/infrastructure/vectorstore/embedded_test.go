package vectorstore

import (
	"context"
	"testing"

	"github.com/flavorgraph/sous-chef/internal/domain/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestEmbeddedStore_CollectionsPreProvisioned(t *testing.T) {
	s := NewEmbeddedStore(zaptest.NewLogger(t))
	for _, name := range search.Names {
		exists, err := s.CollectionExists(context.Background(), name)
		require.NoError(t, err)
		assert.True(t, exists, "collection %s should be pre-provisioned", name)

		size, err := s.CollectionSize(context.Background(), name)
		require.NoError(t, err)
		assert.Zero(t, size)
	}
}

func TestEmbeddedStore_UnknownCollection(t *testing.T) {
	s := NewEmbeddedStore(zaptest.NewLogger(t))
	exists, err := s.CollectionExists(context.Background(), "not-a-real-collection")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = s.Search(context.Background(), "not-a-real-collection", []float32{1, 0}, 5)
	assert.Error(t, err)
}

func TestEmbeddedStore_SearchRanksByCosineSimilarity(t *testing.T) {
	s := NewEmbeddedStore(zaptest.NewLogger(t))
	s.Load("quick-light", "r1", "Exact match", "", nil, 0.9, []float32{1, 0})
	s.Load("quick-light", "r2", "Orthogonal", "", nil, 0.9, []float32{0, 1})
	s.Load("quick-light", "r3", "Near match", "", nil, 0.9, []float32{0.9, 0.1})

	results, err := s.Search(context.Background(), "quick-light", []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "r1", results[0].RecipeID)
	assert.Equal(t, "r3", results[1].RecipeID)
	assert.Equal(t, "r2", results[2].RecipeID)
	assert.InDelta(t, 1.0, results[0].Score, 0.0001)
}

func TestEmbeddedStore_SearchTruncatesToK(t *testing.T) {
	s := NewEmbeddedStore(zaptest.NewLogger(t))
	s.Load("plant-based", "r1", "One", "", nil, 0.5, []float32{1, 0})
	s.Load("plant-based", "r2", "Two", "", nil, 0.5, []float32{0.9, 0.1})

	results, err := s.Search(context.Background(), "plant-based", []float32{1, 0}, 1)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestEmbeddedStore_SearchSkipsMismatchedDimensions(t *testing.T) {
	s := NewEmbeddedStore(zaptest.NewLogger(t))
	s.Load("fresh-cold", "r1", "Wrong dims", "", nil, 0.5, []float32{1, 0, 0})
	s.Load("fresh-cold", "r2", "Right dims", "", nil, 0.5, []float32{1, 0})

	results, err := s.Search(context.Background(), "fresh-cold", []float32{1, 0}, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "r2", results[0].RecipeID)
}

func TestEmbeddedStore_HealthCheck(t *testing.T) {
	s := NewEmbeddedStore(zaptest.NewLogger(t))
	assert.NoError(t, s.HealthCheck(context.Background()))
}

func TestCosineSimilarity_ZeroVector(t *testing.T) {
	assert.Equal(t, 0.0, cosineSimilarity([]float32{0, 0}, []float32{1, 1}))
}
