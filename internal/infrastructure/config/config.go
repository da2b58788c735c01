// Package config provides centralized configuration management
// using Viper for configuration loading and validation
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	LLM         LLMConfig         `mapstructure:"llm"`
	Embedding   EmbeddingConfig   `mapstructure:"embedding"`
	VectorStore VectorStoreConfig `mapstructure:"vector_store"`
	Recipes     RecipesConfig     `mapstructure:"recipes"`
	Runtime     RuntimeConfig     `mapstructure:"runtime"`
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
}

// LLMConfig contains the C3 LLM provider configuration. APIKey is optional —
// its absence puts the service into heuristic-only (degraded) mode rather
// than failing startup (spec §6.2/§6.5).
type LLMConfig struct {
	Provider       string        `mapstructure:"provider"`
	APIKey         string        `mapstructure:"api_key"`
	ModelName      string        `mapstructure:"model_name"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// EmbeddingConfig contains the C1 embedding provider configuration.
type EmbeddingConfig struct {
	Provider  string `mapstructure:"provider"`
	ModelName string `mapstructure:"model_name"`
	Endpoint  string `mapstructure:"endpoint"`
	APIKey    string `mapstructure:"api_key"`
	Dimension int    `mapstructure:"dimension"`
}

// VectorStoreConfig contains the C2 vector store client configuration.
type VectorStoreConfig struct {
	Driver string `mapstructure:"driver"`
	URL    string `mapstructure:"url"`
	DSN    string `mapstructure:"dsn"`
}

// RecipesConfig points at the classified-recipes corpus (spec §6.3), either
// a local filesystem path or an s3://bucket/key URI.
type RecipesConfig struct {
	ClassifiedPath string `mapstructure:"classified_path"`
}

// RuntimeConfig contains the concurrency/resource-model knobs of spec §5.
type RuntimeConfig struct {
	MaxParallelSearches int           `mapstructure:"max_parallel_searches"`
	MaxInflightRequests int           `mapstructure:"max_inflight_requests"`
	RequestTimeout      time.Duration `mapstructure:"request_timeout"`
	KPerQuery           int           `mapstructure:"k_per_query"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/sous-chef")
	}

	// Enable environment variable override
	v.SetEnvPrefix("SOUSCHEF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist, we have defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// Unmarshal configuration
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "json")

	// LLM defaults
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.model_name", "gemini-2.5-flash")
	v.SetDefault("llm.request_timeout", "10s")

	// Embedding defaults
	v.SetDefault("embedding.provider", "ollama")
	v.SetDefault("embedding.model_name", "all-mpnet-base-v2")
	v.SetDefault("embedding.endpoint", "http://localhost:11434")
	v.SetDefault("embedding.dimension", 768)

	// Vector store defaults
	v.SetDefault("vector_store.driver", "pgvector")

	// Runtime defaults
	v.SetDefault("runtime.max_parallel_searches", 16)
	v.SetDefault("runtime.max_inflight_requests", 64)
	v.SetDefault("runtime.request_timeout", "30s")
	v.SetDefault("runtime.k_per_query", 2)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.VectorStore.URL == "" && c.VectorStore.DSN == "" {
		return fmt.Errorf("vector_store.url (or vector_store.dsn) is required")
	}

	if c.Recipes.ClassifiedPath == "" {
		return fmt.Errorf("recipes.classified_path is required")
	}

	if c.Runtime.MaxParallelSearches < 1 {
		return fmt.Errorf("runtime.max_parallel_searches must be at least 1")
	}

	if c.Runtime.MaxInflightRequests < 1 {
		return fmt.Errorf("runtime.max_inflight_requests must be at least 1")
	}

	return nil
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// HeuristicOnly reports whether the LLM provider is unconfigured, meaning
// the service must run in heuristic-only (degraded) mode (spec §6.2).
func (c *Config) HeuristicOnly() bool {
	return c.LLM.APIKey == ""
}
