package openai

// Config contains OpenAI chat model configuration.
// Connection fields map to OpenAI SDK options:
//   - APIKey: Maps to option.WithAPIKey()
//   - BaseURL: Maps to option.WithBaseURL()
//   - Timeout: Maps to option.WithRequestTimeout() (in seconds)
//   - MaxRetries: Maps to option.WithMaxRetries()
type Config struct {
	APIKey      string  `env:"OPENAI_API_KEY"`
	BaseURL     string  `env:"OPENAI_BASE_URL"`
	Timeout     int     `env:"OPENAI_TIMEOUT"      envDefault:"60"`
	MaxRetries  int     `env:"OPENAI_MAX_RETRIES"  envDefault:"3"`
	ChatModel   string  `env:"OPENAI_CHAT_MODEL"   envDefault:"gpt-4o"`
	GraderModel string  `env:"OPENAI_GRADER_MODEL"` // defaults to ChatModel
	Temperature float64 `env:"OPENAI_TEMPERATURE"  envDefault:"0"`
	Product     string  `env:"ASSISTANT_PRODUCT"   envDefault:"product"`
}
