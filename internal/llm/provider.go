// Package llm is a provider-neutral client for structured JSON generation.
// Anthropic, OpenAI, Gemini, OpenRouter and Ollama sit behind Provider, with
// retry and event logging added as decorators.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one structured reply per call.
type Provider interface {
	// Generate sends req and returns the reply. With req.Schema set the
	// Content has already been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the configured model, before any provider-side aliasing.
	ModelID() string
}

type Request struct {
	System   string
	Messages []Message

	// Schema requests structured output. Providers use their native
	// mechanism and validate the reply locally as well.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the provider default.
	Temperature float64
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// Schema is a named JSON Schema. Name is kebab-case, e.g. "question-batch";
// Anthropic and OpenAI both surface it to the model.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

type Response struct {
	Content json.RawMessage
	Usage   Usage

	// Model is what the provider reports having served, which may be a
	// dated snapshot of ModelID.
	Model string

	// StopReason is "end" or "max_tokens".
	StopReason string
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

const (
	stopEnd       = "end"
	stopMaxTokens = "max_tokens"
)

// finish turns a provider reply into a Response. A truncated reply is an
// error no matter what it contains; otherwise the content must match
// req.Schema when one was given.
func finish(req Request, content json.RawMessage, stop, model string, usage Usage) (*Response, error) {
	if stop == stopMaxTokens {
		return nil, &ErrMaxTokensExceeded{Content: content}
	}
	if err := validateResponse(req.Schema, content); err != nil {
		return nil, err
	}
	if usage.TotalTokens == 0 {
		usage.TotalTokens = usage.InputTokens + usage.OutputTokens
	}
	return &Response{Content: content, Usage: usage, Model: model, StopReason: stop}, nil
}
