package llm

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRouterProvider(t *testing.T) {
	var referer, title string
	url := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		referer = r.Header.Get("HTTP-Referer")
		title = r.Header.Get("X-Title")
		writeJSON(w, http.StatusOK, chatCompletion(batchJSON, "stop"))
	})

	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or-test", Model: "google/gemini-2.5-flash", BaseURL: url})
	require.NoError(t, err)
	assert.Equal(t, "google/gemini-2.5-flash", p.ModelID())

	resp, err := p.Generate(context.Background(), batchRequest())
	require.NoError(t, err)
	assert.JSONEq(t, batchJSON, string(resp.Content))
	assert.Equal(t, "Bibliz", title)
	assert.Contains(t, referer, "bibliz")
}

func TestOpenRouterProvider_Config(t *testing.T) {
	_, err := NewOpenRouterProvider(OpenRouterConfig{Model: "google/gemini-2.5-flash"})
	assert.Error(t, err)

	// Aliases are an OpenAI convenience; OpenRouter IDs pass through.
	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "k", Model: "gpt-mini"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-mini", p.ModelID())
}
