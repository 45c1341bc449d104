package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// OllamaProvider implements Provider against a local Ollama server through
// langchaingo. Ollama has no native schema support, so the schema is sent
// in the system prompt and the reply is requested in JSON mode.
type OllamaProvider struct {
	model llms.Model
	name  string
}

// NewOllamaProvider creates a provider for the configured server and model.
func NewOllamaProvider(cfg OllamaConfig, httpClient *http.Client) (*OllamaProvider, error) {
	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("ollama server URL is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("ollama model is required")
	}

	opts := []ollama.Option{
		ollama.WithServerURL(cfg.ServerURL),
		ollama.WithModel(cfg.Model),
	}
	if httpClient != nil {
		opts = append(opts, ollama.WithHTTPClient(httpClient))
	}

	client, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create Ollama client: %w", err)
	}
	return &OllamaProvider{model: client, name: cfg.Model}, nil
}

func (p *OllamaProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var opts []llms.CallOption
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}
	if req.Temperature > 0 {
		opts = append(opts, llms.WithTemperature(req.Temperature))
	}
	if req.Schema != nil {
		opts = append(opts, llms.WithJSONMode())
	}

	resp, err := p.model.GenerateContent(ctx, buildOllamaMessages(req), opts...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &ErrProviderUnavailable{Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &ErrInvalidResponse{
			Err: fmt.Errorf("no choices in Ollama response"),
		}
	}

	choice := resp.Choices[0]
	stop := stopEnd
	if choice.StopReason == "length" {
		stop = stopMaxTokens
	}
	usage := Usage{
		InputTokens:  generationInt(choice.GenerationInfo, "PromptTokens"),
		OutputTokens: generationInt(choice.GenerationInfo, "CompletionTokens"),
	}
	return finish(req, json.RawMessage(strings.TrimSpace(choice.Content)), stop, p.name, usage)
}

func (p *OllamaProvider) ModelID() string {
	return p.name
}

func buildOllamaMessages(req Request) []llms.MessageContent {
	var out []llms.MessageContent

	system := req.System
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			system = strings.TrimSpace(system + "\n\nRespond only with JSON matching this schema:\n" + string(def))
		}
	}
	if system != "" {
		out = append(out, llms.TextParts(llms.ChatMessageTypeSystem, system))
	}

	for _, m := range req.Messages {
		role := llms.ChatMessageTypeHuman
		if m.Role == RoleAssistant {
			role = llms.ChatMessageTypeAI
		}
		out = append(out, llms.TextParts(role, m.Content))
	}
	return out
}

func generationInt(info map[string]any, key string) int {
	switch v := info[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
