// Package container provides dependency injection using Uber FX
// This implements the Dependency Inversion Principle from SOLID
package container

import (
	"context"
	"fmt"
	"time"

	"github.com/flavorgraph/sous-chef/internal/application/analyzer"
	"github.com/flavorgraph/sous-chef/internal/application/executor"
	"github.com/flavorgraph/sous-chef/internal/application/inflight"
	"github.com/flavorgraph/sous-chef/internal/application/orchestrator"
	"github.com/flavorgraph/sous-chef/internal/application/planner"
	"github.com/flavorgraph/sous-chef/internal/domain/recipe"
	"github.com/flavorgraph/sous-chef/internal/infrastructure/ai"
	"github.com/flavorgraph/sous-chef/internal/infrastructure/ai/ollama"
	"github.com/flavorgraph/sous-chef/internal/infrastructure/ai/openai"
	"github.com/flavorgraph/sous-chef/internal/infrastructure/config"
	"github.com/flavorgraph/sous-chef/internal/infrastructure/corpus"
	"github.com/flavorgraph/sous-chef/internal/infrastructure/embedding"
	"github.com/flavorgraph/sous-chef/internal/infrastructure/vectorstore"
	"github.com/flavorgraph/sous-chef/internal/ports/inbound"
	"github.com/flavorgraph/sous-chef/internal/ports/outbound"
	"github.com/flavorgraph/sous-chef/pkg/healthcheck"
	"github.com/flavorgraph/sous-chef/pkg/logger"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides all dependency injection modules for the recommendation
// service (no HTTP transport — spec §6.4 exposes inbound.RecommendationService
// as a directly constructible Go value, not a network API).
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	EmbeddingModule,
	VectorStoreModule,
	LLMModule,
	CorpusModule,
	PipelineModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.IsDevelopment(),
		})
	},
)

// EmbeddingModule provides the C1 embedding provider registry and selects
// the configured driver. Startup fails fast if the selected driver cannot
// be resolved or is unreachable (spec §7: EmbeddingUnavailable is fatal at
// startup, recoverable per-item thereafter).
var EmbeddingModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) *embedding.Registry {
		reg := embedding.NewRegistry(log)
		reg.Register(embedding.NewOllamaDriver(cfg.Embedding.Endpoint, cfg.Embedding.ModelName))
		reg.Register(embedding.NewOpenAIDriver(cfg.Embedding.APIKey, cfg.Embedding.ModelName, cfg.Embedding.Dimension))
		return reg
	},
	func(cfg *config.Config, reg *embedding.Registry) (outbound.EmbeddingProvider, error) {
		driver, err := reg.Get(cfg.Embedding.Provider)
		if err != nil {
			return nil, fmt.Errorf("embedding provider %q not available: %w", cfg.Embedding.Provider, err)
		}
		return driver, nil
	},
)

// VectorStoreModule provides the C2 vector store client. Startup fails fast
// if the store is unreachable (spec §7).
var VectorStoreModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (outbound.VectorStoreClient, error) {
		switch cfg.VectorStore.Driver {
		case "embedded":
			return vectorstore.NewEmbeddedStore(log), nil
		case "pgvector", "":
			dsn := cfg.VectorStore.DSN
			if dsn == "" {
				dsn = cfg.VectorStore.URL
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return vectorstore.NewPgvectorStore(ctx, dsn, cfg.Embedding.Dimension, log)
		default:
			return nil, fmt.Errorf("unknown vector_store.driver: %s", cfg.VectorStore.Driver)
		}
	},
)

// LLMModule provides the C3 LLM client wrapped in a circuit breaker. When no
// API key is configured the client is nil and the container records
// heuristic-only mode instead of failing startup (spec §6.2).
var LLMModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) outbound.LLMClient {
		if cfg.LLM.APIKey == "" {
			log.Warn("no llm_api_key configured — starting in heuristic-only mode")
			return nil
		}

		var inner outbound.LLMClient
		switch cfg.LLM.Provider {
		case "ollama":
			inner = ollama.NewClient(cfg.Embedding.Endpoint, cfg.LLM.ModelName, cfg.LLM.RequestTimeout, log)
		default:
			inner = openai.NewClient(cfg.LLM.APIKey, cfg.LLM.ModelName, cfg.LLM.RequestTimeout, log)
		}
		return ai.NewCircuitBreakerClient(inner, cfg.LLM.ModelName, healthcheck.DefaultCircuitBreakerConfig(), log)
	},
)

// CorpusModule loads the classified-recipes corpus once at startup (spec
// §6.3). Failure to load is a startup error.
var CorpusModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (map[string]*recipe.Recipe, error) {
		loader := corpus.NewLoader(cfg.Recipes.ClassifiedPath, log)
		recipes, err := loader.Load(context.Background())
		if err != nil {
			return nil, fmt.Errorf("load classified recipes: %w", err)
		}
		return corpus.ToMap(recipes), nil
	},
)

// PipelineModule wires C4-C8 and the inflight admission gate into the
// single inbound.RecommendationService.
var PipelineModule = fx.Provide(
	func(llm outbound.LLMClient, log *zap.Logger) *analyzer.Analyzer {
		return analyzer.New(llm, log)
	},
	func(llm outbound.LLMClient, log *zap.Logger) *planner.Planner {
		return planner.New(llm, log)
	},
	func(
		embedder outbound.EmbeddingProvider,
		store outbound.VectorStoreClient,
		recipes map[string]*recipe.Recipe,
		cfg *config.Config,
		log *zap.Logger,
	) *executor.Executor {
		return executor.New(embedder, store, recipes, cfg.Runtime.MaxParallelSearches, log)
	},
	func(
		a *analyzer.Analyzer,
		p *planner.Planner,
		e *executor.Executor,
		cfg *config.Config,
		log *zap.Logger,
	) *orchestrator.Orchestrator {
		return orchestrator.New(a, p, e, cfg.HeuristicOnly(), log)
	},
	func(o *orchestrator.Orchestrator, cfg *config.Config, log *zap.Logger) inbound.RecommendationService {
		return inflight.New(o, cfg.Runtime.MaxInflightRequests, log)
	},
)

// LifecycleModule registers startup/shutdown hooks
var LifecycleModule = fx.Invoke(RegisterLifecycleHooks)

// RegisterLifecycleHooks fails startup fast when the embedding provider or
// vector store is unreachable (spec §7), and flushes logs on shutdown.
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	embedder outbound.EmbeddingProvider,
	store outbound.VectorStoreClient,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("starting sous-chef recommendation service",
				zap.String("environment", cfg.App.Environment),
				zap.Bool("heuristic_only", cfg.HeuristicOnly()))

			if err := store.HealthCheck(ctx); err != nil {
				return fmt.Errorf("vector store unreachable at startup: %w", err)
			}

			if _, err := embedder.Embed(ctx, "startup health check"); err != nil {
				return fmt.Errorf("embedding provider unreachable at startup: %w", err)
			}

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down sous-chef recommendation service")
			if closer, ok := store.(interface{ Close() }); ok {
				closer.Close()
			}
			_ = log.Sync()
			return nil
		},
	})
}
