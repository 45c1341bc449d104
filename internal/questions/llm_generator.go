package questions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/abhisek/bibliz/internal/llm"
	"github.com/abhisek/bibliz/internal/quiz"
)

// ErrEmptyBatch is returned when the provider answered with no questions.
var ErrEmptyBatch = errors.New("received invalid data from question source: no questions")

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config

	mu    sync.Mutex
	asked map[string][]string // topic -> question texts, oldest first
}

var _ Generator = (*LLMGenerator)(nil)

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg, asked: map[string][]string{}}
}

// batchOutput is the raw LLM response before validation.
type batchOutput struct {
	Questions []quiz.Question `json:"questions"`
}

// Generate produces up to n validated questions.
func (g *LLMGenerator) Generate(ctx context.Context, topicID string, difficulty quiz.Difficulty, lang quiz.Language, n int) ([]quiz.Question, error) {
	if n < 1 {
		return nil, fmt.Errorf("batch size must be positive, got %d", n)
	}
	if !difficulty.Valid() {
		return nil, fmt.Errorf("unknown difficulty %q", difficulty)
	}
	if !lang.Valid() {
		return nil, fmt.Errorf("unsupported language %q", lang)
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeQuestionBatch)
	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(topicID, difficulty, lang, n, g.prior(topicID), g.config.MaxPriorQuestions)},
		},
		Schema:      BatchSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw batchOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}
	if len(raw.Questions) == 0 {
		return nil, ErrEmptyBatch
	}

	qs := uniqueQuestions(raw.Questions)
	if len(qs) > n {
		qs = qs[:n]
	}
	for i := range qs {
		qs[i].Text = strings.TrimSpace(qs[i].Text)
		for _, v := range g.config.Validators {
			if verr := v.Validate(qs[i]); verr != nil {
				verr.Index = i
				return nil, verr
			}
		}
	}

	g.remember(topicID, qs)
	return qs, nil
}

func (g *LLMGenerator) prior(topic string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.asked[topic]...)
}

func (g *LLMGenerator) remember(topic string, qs []quiz.Question) {
	g.mu.Lock()
	defer g.mu.Unlock()
	list := g.asked[topic]
	for _, q := range qs {
		list = append(list, q.Text)
	}
	if limit := g.config.MaxPriorQuestions; limit > 0 && len(list) > limit {
		list = list[len(list)-limit:]
	}
	g.asked[topic] = list
}
