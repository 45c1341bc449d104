package llm

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/abhisek/bibliz/internal/store"
)

// NewProvider builds the configured provider and stacks the decorators on
// top: callers talk to retry, retry talks to logging, logging talks to the
// SDK. Every attempt is therefore recorded, not only the final one.
//
// A provider without credentials falls back to whatever Discover finds in
// the environment.
func NewProvider(ctx context.Context, cfg Config, events store.EventRecorder, log *zap.Logger) (Provider, error) {
	if cfg.Validate() != nil {
		if found, ok := Discover(cfg); ok {
			cfg = found
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Provider == ProviderMock {
		return NewMockProvider(), nil
	}

	base, err := newBase(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}
	return WithRetry(WithLogging(base, cfg.Provider, events, log), cfg.Retry, log), nil
}

func newBase(ctx context.Context, cfg Config) (Provider, error) {
	switch cfg.Provider {
	case ProviderGemini:
		return NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg.OpenAI)
	case ProviderAnthropic:
		return NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenRouter:
		return NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderOllama:
		return NewOllamaProvider(cfg.Ollama, &http.Client{Timeout: cfg.Timeout})
	}
	return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
}
