package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfigFile(t, `
vector_store:
  url: "postgres://localhost:5432/sous_chef"
recipes:
  classified_path: "/data/classified_recipes.json"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.ModelName)
	assert.Equal(t, "all-mpnet-base-v2", cfg.Embedding.ModelName)
	assert.Equal(t, 768, cfg.Embedding.Dimension)
	assert.Equal(t, 16, cfg.Runtime.MaxParallelSearches)
	assert.Equal(t, 64, cfg.Runtime.MaxInflightRequests)
	assert.Equal(t, 2, cfg.Runtime.KPerQuery)
}

func TestLoad_MissingVectorStoreURL_ReturnsError(t *testing.T) {
	path := writeConfigFile(t, `
recipes:
  classified_path: "/data/classified_recipes.json"
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingClassifiedRecipesPath_ReturnsError(t *testing.T) {
	path := writeConfigFile(t, `
vector_store:
  url: "postgres://localhost:5432/sous_chef"
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_VectorStoreDSN_SatisfiesRequirement(t *testing.T) {
	path := writeConfigFile(t, `
vector_store:
  dsn: "postgres://localhost:5432/sous_chef"
recipes:
  classified_path: "/data/classified_recipes.json"
`)
	_, err := Load(path)
	assert.NoError(t, err)
}

func TestHeuristicOnly_TrueWhenNoAPIKey(t *testing.T) {
	cfg := &Config{}
	assert.True(t, cfg.HeuristicOnly())

	cfg.LLM.APIKey = "sk-test"
	assert.False(t, cfg.HeuristicOnly())
}

func TestIsProduction(t *testing.T) {
	cfg := &Config{App: AppConfig{Environment: "production"}}
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
}
