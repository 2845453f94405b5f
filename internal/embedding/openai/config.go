package openai

// Config holds configuration for OpenAI embedding generator.
// Connection settings are shared with the chat models.
type Config struct {
	APIKey     string `env:"OPENAI_API_KEY"`
	BaseURL    string `env:"OPENAI_BASE_URL"`
	Model      string `env:"CACHE_EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`
	Timeout    int    `env:"OPENAI_TIMEOUT"        envDefault:"60"` // seconds
	MaxRetries int    `env:"OPENAI_MAX_RETRIES"    envDefault:"3"`
}
