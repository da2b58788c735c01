package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func writeTestCorpus(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "classified_recipes.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad_LocalPath_ParsesEntries(t *testing.T) {
	path := writeTestCorpus(t, `{
		"r1": {"title": "Chicken Soup", "collection": "comfort-cooked", "confidence": 0.9, "ingredients": ["chicken", "carrot"], "instructions": "simmer"},
		"r2": {"title": "Tofu Stir Fry", "collection": "plant-based", "confidence": 0.8, "ingredients": ["tofu", "soy sauce"], "instructions": "stir fry"}
	}`)

	l := NewLoader(path, zaptest.NewLogger(t))
	recipes, err := l.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, recipes, 2)

	byID := ToMap(recipes)
	require.Contains(t, byID, "r1")
	assert.Equal(t, "Chicken Soup", byID["r1"].Title())
	assert.Equal(t, []string{"chicken", "carrot"}, byID["r1"].Ingredients())
}

func TestLoad_MalformedEntry_SkippedNotFatal(t *testing.T) {
	path := writeTestCorpus(t, `{
		"r1": {"title": "", "collection": "comfort-cooked", "confidence": 0.9, "ingredients": [], "instructions": ""},
		"r2": {"title": "Valid", "collection": "plant-based", "confidence": 0.8, "ingredients": ["tofu"], "instructions": "cook"}
	}`)

	l := NewLoader(path, zaptest.NewLogger(t))
	recipes, err := l.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "r2", recipes[0].ID())
}

func TestLoad_MissingFile_ReturnsError(t *testing.T) {
	l := NewLoader(filepath.Join(t.TempDir(), "does-not-exist.json"), zaptest.NewLogger(t))
	_, err := l.Load(context.Background())
	assert.Error(t, err)
}

func TestLoad_MalformedJSON_ReturnsError(t *testing.T) {
	path := writeTestCorpus(t, `not json`)
	l := NewLoader(path, zaptest.NewLogger(t))
	_, err := l.Load(context.Background())
	assert.Error(t, err)
}

func TestParseS3URI(t *testing.T) {
	bucket, key, err := parseS3URI("s3://my-bucket/path/to/recipes.json")
	require.NoError(t, err)
	assert.Equal(t, "my-bucket", bucket)
	assert.Equal(t, "path/to/recipes.json", key)

	_, _, err = parseS3URI("s3://missing-key")
	assert.Error(t, err)
}
