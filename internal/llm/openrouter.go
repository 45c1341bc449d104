package llm

import (
	"fmt"
	"net/http"
	"time"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterProvider is an OpenAIProvider aimed at OpenRouter. Model IDs
// are "vendor/model" and are passed through unchanged.
type OpenRouterProvider struct {
	*OpenAIProvider
}

func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}
	base := cfg.BaseURL
	if base == "" {
		base = defaultOpenRouterBaseURL
	}

	// OpenRouter attributes traffic through these two headers.
	client := &http.Client{
		Timeout: 2 * time.Minute,
		Transport: attributionTransport{
			next:    http.DefaultTransport,
			referer: "https://github.com/abhisek/bibliz",
			title:   "Bibliz",
		},
	}
	inner, err := newChatProvider(cfg.APIKey, base, cfg.Model, client)
	if err != nil {
		return nil, err
	}
	return &OpenRouterProvider{OpenAIProvider: inner}, nil
}

type attributionTransport struct {
	next    http.RoundTripper
	referer string
	title   string
}

func (t attributionTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.Header.Set("HTTP-Referer", t.referer)
	r.Header.Set("X-Title", t.title)
	return t.next.RoundTrip(r)
}
