package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"

	"github.com/davidbz/ember/internal/cache/redis"
	"github.com/davidbz/ember/internal/domain"
	"github.com/davidbz/ember/internal/embedding/lexical"
	embeddingopenai "github.com/davidbz/ember/internal/embedding/openai"
	llmopenai "github.com/davidbz/ember/internal/llm/openai"
	"github.com/davidbz/ember/internal/retrieval"
	"github.com/davidbz/ember/internal/retrieval/weaviate"
)

// Backend names shared by the cache, embedding and LLM selectors.
const (
	BackendMemory  = "memory"
	BackendRedis   = "redis"
	BackendOpenAI  = "openai"
	BackendLexical = "lexical"
	BackendEcho    = "echo"
)

// Config represents the service configuration.
type Config struct {
	Server       ServerConfig
	CORS         CORSConfig
	Cache        CacheConfig
	Redis        redis.Config
	Orchestrator domain.OrchestratorConfig
	LLM          LLMConfig
	OpenAI       llmopenai.Config
	Embedding    EmbeddingConfig
	Retrieval    retrieval.Config
	Weaviate     weaviate.Config
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int `env:"SERVER_PORT"          envDefault:"8080"`
	ReadTimeout  int `env:"SERVER_READ_TIMEOUT"  envDefault:"30"`
	WriteTimeout int `env:"SERVER_WRITE_TIMEOUT" envDefault:"120"`
}

// CORSConfig contains CORS policy settings.
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"   envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS"   envSeparator:"," envDefault:"GET,POST,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS"   envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"                  envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE"                            envDefault:"86400"`
}

// CacheConfig contains semantic cache settings.
type CacheConfig struct {
	DistanceThreshold float64 `env:"CACHE_DISTANCE_THRESHOLD" envDefault:"0.1"`
	Backend           string  `env:"CACHE_BACKEND"            envDefault:"memory"`
	SeedFile          string  `env:"CACHE_SEED_FILE"`
	// Dir confines the files named by the cache save/load endpoints.
	Dir               string  `env:"CACHE_DIR"                envDefault:"cache"`
}

// LLMConfig selects the model suite.
type LLMConfig struct {
	Backend string `env:"LLM_BACKEND" envDefault:"openai"`
}

// EmbeddingConfig selects and configures the embedding generator.
type EmbeddingConfig struct {
	Backend string `env:"EMBEDDING_BACKEND" envDefault:"openai"`
	OpenAI  embeddingopenai.Config
	Lexical lexical.Config
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out

	Server       *ServerConfig
	CORS         *CORSConfig
	Cache        *CacheConfig
	Redis        *redis.Config
	Orchestrator *domain.OrchestratorConfig
	LLM          *LLMConfig
	OpenAI       *llmopenai.Config
	Embedding    *EmbeddingConfig
	Retrieval    *retrieval.Config
	Weaviate     *weaviate.Config
}

// Load loads environment files and parses configuration.
func Load() (*Config, error) {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects unknown backends and out-of-range values.
func (c *Config) Validate() error {
	if c.Cache.DistanceThreshold < 0 || c.Cache.DistanceThreshold > 2 {
		return fmt.Errorf("CACHE_DISTANCE_THRESHOLD must be within [0, 2], got %v", c.Cache.DistanceThreshold)
	}
	if err := oneOf("CACHE_BACKEND", c.Cache.Backend, BackendMemory, BackendRedis); err != nil {
		return err
	}
	if err := oneOf("LLM_BACKEND", c.LLM.Backend, BackendOpenAI, BackendEcho); err != nil {
		return err
	}
	if err := oneOf("EMBEDDING_BACKEND", c.Embedding.Backend, BackendOpenAI, BackendLexical); err != nil {
		return err
	}
	if err := oneOf("RETRIEVER_BACKEND", c.Retrieval.Backend,
		retrieval.BackendMemory, retrieval.BackendWeaviate, retrieval.BackendNone); err != nil {
		return err
	}
	if err := c.Orchestrator.Validate(); err != nil {
		return fmt.Errorf("invalid orchestrator config: %w", err)
	}
	return nil
}

func oneOf(name, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %v, got %q", name, allowed, value)
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		Out:          dig.Out{},
		Server:       &cfg.Server,
		CORS:         &cfg.CORS,
		Cache:        &cfg.Cache,
		Redis:        &cfg.Redis,
		Orchestrator: &cfg.Orchestrator,
		LLM:          &cfg.LLM,
		OpenAI:       &cfg.OpenAI,
		Embedding:    &cfg.Embedding,
		Retrieval:    &cfg.Retrieval,
		Weaviate:     &cfg.Weaviate,
	}
}
