package llm

import (
	"regexp"
	"strings"
)

// ModelCost is USD per million tokens.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost prices a single call or an aggregate of calls.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*c.InputPerMTok + float64(outputTokens)*c.OutputPerMTok) / 1e6
}

var dateSuffix = regexp.MustCompile(`-\d{8}$`)

// LookupCost finds pricing for a model as reported by a provider. It
// accepts OpenRouter style "vendor/model" IDs and dated snapshots such as
// "claude-haiku-4-5-20251001". Unknown models return nil.
func LookupCost(modelID string) *ModelCost {
	id := strings.ToLower(strings.TrimSpace(modelID))
	if i := strings.LastIndex(id, "/"); i >= 0 {
		id = id[i+1:]
	}
	for _, cand := range []string{id, dateSuffix.ReplaceAllString(id, "")} {
		if c, ok := modelCosts[cand]; ok {
			return &c
		}
	}
	return nil
}

// Prices as published by each vendor, 2026-02.
var modelCosts = map[string]ModelCost{
	"claude-3-5-haiku":  {0.8, 4},
	"claude-haiku-4-5":  {1, 5},
	"claude-sonnet-4-5": {3, 15},
	"claude-opus-4-5":   {5, 25},

	"gpt-4o":       {2.5, 10},
	"gpt-4o-mini":  {0.15, 0.6},
	"gpt-4.1":      {2, 8},
	"gpt-4.1-mini": {0.4, 1.6},
	"gpt-4.1-nano": {0.1, 0.4},
	"gpt-5":        {1.25, 10},
	"gpt-5-mini":   {0.25, 2},
	"gpt-5-nano":   {0.05, 0.4},

	"gemini-2.0-flash":      {0.1, 0.4},
	"gemini-2.5-flash":      {0.3, 2.5},
	"gemini-2.5-flash-lite": {0.1, 0.4},
	"gemini-2.5-pro":        {1.25, 10},
	"gemini-flash-latest":   {0.3, 2.5},

	// Local models cost nothing per token.
	"llama3.1": {0, 0},
	"llama3.2": {0, 0},
}
