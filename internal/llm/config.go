package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderGemini     = "gemini"
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderOpenRouter = "openrouter"
	ProviderOllama     = "ollama"
	ProviderMock       = "mock"
)

type Config struct {
	Provider string

	Gemini     GeminiConfig
	OpenAI     OpenAIConfig
	Anthropic  AnthropicConfig
	OpenRouter OpenRouterConfig
	Ollama     OllamaConfig

	Retry RetryConfig

	// Timeout bounds one question fetch, retries included.
	Timeout time.Duration
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string // proxies and tests
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // any OpenAI-compatible endpoint
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// OllamaConfig needs no key; ServerURL is the local daemon.
type OllamaConfig struct {
	ServerURL string
	Model     string
}

// RetryConfig shapes the exponential backoff in WithRetry.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig targets Gemini Flash, the model the quiz was first built on.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderGemini,
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.5-flash"},
		Ollama:     OllamaConfig{ServerURL: "http://localhost:11434", Model: "llama3.1"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 45 * time.Second,
	}
}

// discovery is the order in which Discover looks at well-known variables.
var discovery = []struct {
	env   string
	apply func(*Config, string)
}{
	{"GEMINI_API_KEY", func(c *Config, v string) { c.Provider, c.Gemini.APIKey = ProviderGemini, v }},
	{"OPENAI_API_KEY", func(c *Config, v string) { c.Provider, c.OpenAI.APIKey = ProviderOpenAI, v }},
	{"ANTHROPIC_API_KEY", func(c *Config, v string) { c.Provider, c.Anthropic.APIKey = ProviderAnthropic, v }},
	{"OPENROUTER_API_KEY", func(c *Config, v string) { c.Provider, c.OpenRouter.APIKey = ProviderOpenRouter, v }},
	{"OLLAMA_HOST", func(c *Config, v string) { c.Provider, c.Ollama.ServerURL = ProviderOllama, v }},
}

// Discover switches base to the first provider whose vendor variable
// (GEMINI_API_KEY, OPENAI_API_KEY, ...) is set. It reports false and
// returns base untouched when none is.
func Discover(base Config) (Config, bool) {
	for _, d := range discovery {
		if v := os.Getenv(d.env); v != "" {
			cfg := base
			d.apply(&cfg, v)
			return cfg, true
		}
	}
	return base, false
}

// Validate reports a missing credential for the selected provider, naming
// the variable that would supply it.
func (c Config) Validate() error {
	var missing string
	switch c.Provider {
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			missing = "BIBLIZ_LLM_GEMINI_API_KEY"
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			missing = "BIBLIZ_LLM_OPENAI_API_KEY"
		}
	case ProviderAnthropic:
		if c.Anthropic.APIKey == "" {
			missing = "BIBLIZ_LLM_ANTHROPIC_API_KEY"
		}
	case ProviderOpenRouter:
		if c.OpenRouter.APIKey == "" {
			missing = "BIBLIZ_LLM_OPENROUTER_API_KEY"
		}
	case ProviderOllama:
		if c.Ollama.ServerURL == "" {
			missing = "BIBLIZ_LLM_OLLAMA_SERVER_URL"
		}
	case ProviderMock:
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if missing != "" {
		return fmt.Errorf("%s is required for the %s provider", missing, c.Provider)
	}
	return nil
}
