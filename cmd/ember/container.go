package main

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/davidbz/ember/internal/cache/memory"
	"github.com/davidbz/ember/internal/cache/redis"
	"github.com/davidbz/ember/internal/config"
	"github.com/davidbz/ember/internal/domain"
	"github.com/davidbz/ember/internal/embedding/lexical"
	embeddingopenai "github.com/davidbz/ember/internal/embedding/openai"
	"github.com/davidbz/ember/internal/http"
	"github.com/davidbz/ember/internal/http/middleware"
	"github.com/davidbz/ember/internal/llm/echo"
	llmopenai "github.com/davidbz/ember/internal/llm/openai"
	"github.com/davidbz/ember/internal/llm/registry"
	"github.com/davidbz/ember/internal/observability"
	"github.com/davidbz/ember/internal/retrieval"
	retrievalmemory "github.com/davidbz/ember/internal/retrieval/memory"
	"github.com/davidbz/ember/internal/retrieval/weaviate"
)

// documents is the configured document store. Both fields are nil when
// retrieval is disabled.
type documents struct {
	retriever domain.Retriever
	ingester  domain.Ingester
}

// buildContainer wires every component. Providers are lazy, so a command only
// connects to the backends it actually resolves.
func buildContainer() (*dig.Container, error) {
	container := dig.New()

	providers := []struct {
		name        string
		constructor interface{}
		opts        []dig.ProvideOption
	}{
		// Configuration
		{name: "config", constructor: config.Load},
		{name: "config dependencies", constructor: config.ParseDependenciesConfig},

		// Observability
		{name: "metrics", constructor: observability.NewMetrics},
		{name: "event bus", constructor: observability.NewEventBus, opts: []dig.ProvideOption{dig.As(new(domain.EventPublisher))}},

		// Cache
		{name: "embedding generator", constructor: provideEmbeddingGenerator},
		{name: "vector index", constructor: provideVectorIndex},
		{name: "semantic cache", constructor: provideSemanticCache},

		// Models
		{name: "llm registry", constructor: provideRegistry},
		{name: "models", constructor: provideModels},

		// Retrieval
		{name: "chunker", constructor: provideChunker},
		{name: "documents", constructor: provideDocuments},

		// Domain Services
		{name: "orchestrator", constructor: provideOrchestrator},

		// HTTP Layer
		{name: "middleware", constructor: middleware.BuildMiddlewareChain},
		{name: "HTTP handler", constructor: http.NewHandler},
		{name: "HTTP server", constructor: http.NewServer},
	}

	for _, p := range providers {
		if err := container.Provide(p.constructor, p.opts...); err != nil {
			return nil, fmt.Errorf("failed to provide %s: %w", p.name, err)
		}
	}

	return container, nil
}

// initLogging installs the process logger. One-shot commands stay quiet
// unless --verbose is set.
func initLogging(quiet bool) error {
	if quiet {
		observability.SetLogger(zap.NewNop())
		return nil
	}
	_, err := observability.InitLogger()
	return err
}

func provideEmbeddingGenerator(cfg *config.EmbeddingConfig) (domain.EmbeddingGenerator, error) {
	switch cfg.Backend {
	case config.BackendLexical:
		return lexical.NewGenerator(cfg.Lexical)
	case config.BackendOpenAI:
		return embeddingopenai.NewGenerator(cfg.OpenAI)
	default:
		return nil, fmt.Errorf("unknown embedding backend %q", cfg.Backend)
	}
}

func provideVectorIndex(
	cfg *config.CacheConfig,
	redisCfg *redis.Config,
	gen domain.EmbeddingGenerator,
) (domain.VectorIndex, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return memory.NewIndex(), nil
	case config.BackendRedis:
		ctx := context.Background()
		client, err := redis.NewClient(ctx, *redisCfg)
		if err != nil {
			return nil, err
		}
		index, err := redis.NewVectorIndex(ctx, client, redisCfg.IndexName, gen.Dimension())
		if err != nil {
			closeRedis(client)
			return nil, err
		}
		return index, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

func closeRedis(client *goredis.Client) {
	if err := client.Close(); err != nil {
		observability.FromContext(context.Background()).Warn("failed to close redis client", observability.Error(err))
	}
}

func provideSemanticCache(
	cfg *config.CacheConfig,
	gen domain.EmbeddingGenerator,
	index domain.VectorIndex,
) *domain.SemanticCacheService {
	return domain.NewSemanticCacheService(gen, index, cfg.DistanceThreshold)
}

// provideRegistry registers every backend that can be built from the
// configuration. Echo needs nothing; OpenAI needs an API key.
func provideRegistry(cfg *config.LLMConfig, openaiCfg *llmopenai.Config) (*registry.Registry, error) {
	reg := registry.NewRegistry()

	if err := reg.Register(echo.NewModels()); err != nil {
		return nil, fmt.Errorf("failed to register echo models: %w", err)
	}

	if openaiCfg.APIKey != "" {
		models, err := llmopenai.NewModels(*openaiCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI models: %w", err)
		}
		if err := reg.Register(models); err != nil {
			return nil, fmt.Errorf("failed to register OpenAI models: %w", err)
		}
	}

	observability.FromContext(context.Background()).Info("llm backends registered",
		observability.Any("backends", reg.List()),
		observability.String("selected", cfg.Backend))

	return reg, nil
}

func provideModels(cfg *config.LLMConfig, reg *registry.Registry) (domain.Models, error) {
	return reg.Suite(cfg.Backend)
}

func provideChunker(cfg *retrieval.Config) (*retrieval.Chunker, error) {
	return retrieval.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
}

func provideDocuments(
	cfg *retrieval.Config,
	weaviateCfg *weaviate.Config,
	gen domain.EmbeddingGenerator,
	chunker *retrieval.Chunker,
) (*documents, error) {
	switch cfg.Backend {
	case retrieval.BackendNone:
		return &documents{retriever: nil, ingester: nil}, nil
	case retrieval.BackendMemory:
		store, err := retrievalmemory.NewStore(gen, chunker, cfg.TopK)
		if err != nil {
			return nil, err
		}
		return &documents{retriever: store, ingester: store}, nil
	case retrieval.BackendWeaviate:
		client, err := weaviate.NewClient(*weaviateCfg)
		if err != nil {
			return nil, err
		}
		store, err := weaviate.NewStore(context.Background(), client, weaviateCfg.Class, gen, chunker, cfg.TopK)
		if err != nil {
			return nil, err
		}
		return &documents{retriever: store, ingester: store}, nil
	default:
		return nil, fmt.Errorf("unknown retriever backend %q", cfg.Backend)
	}
}

// provideOrchestrator builds the orchestrator and brings it to a serving state:
// the seed file is loaded, the docs directory ingested and the retriever bound.
func provideOrchestrator(
	cache *domain.SemanticCacheService,
	models domain.Models,
	publisher domain.EventPublisher,
	cfg *domain.OrchestratorConfig,
	cacheCfg *config.CacheConfig,
	retrievalCfg *retrieval.Config,
	docs *documents,
) (*domain.Orchestrator, error) {
	orchestrator, err := domain.NewOrchestrator(cache, models, publisher, *cfg)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	logger := observability.FromContext(ctx)

	if cacheCfg.SeedFile != "" {
		if err := cache.LoadFromFile(ctx, cacheCfg.SeedFile); err != nil {
			return nil, fmt.Errorf("failed to seed cache: %w", err)
		}
		n, _ := cache.Len(ctx)
		logger.Info("cache seeded",
			observability.String("path", cacheCfg.SeedFile),
			observability.Int("entries", n))
	}

	if retrievalCfg.DocsDir != "" && docs.ingester != nil {
		files, chunks, err := retrieval.IngestDir(ctx, docs.ingester, retrievalCfg.DocsDir)
		if err != nil {
			return nil, fmt.Errorf("failed to ingest documents: %w", err)
		}
		logger.Info("documents ingested",
			observability.String("dir", retrievalCfg.DocsDir),
			observability.Int("files", files),
			observability.Int("chunks", chunks))
	}

	if docs.retriever != nil {
		orchestrator.BindRetriever(docs.retriever)
	} else {
		logger.Warn("no retriever configured, cache misses will fail")
	}

	return orchestrator, nil
}
