// Package questions generates bible-trivia question batches with an LLM.
package questions

import (
	"context"

	"github.com/abhisek/bibliz/internal/quiz"
)

// Generator produces multiple-choice question batches.
type Generator interface {
	// Generate asks for n questions on topicID at the given difficulty,
	// written in lang. Every returned question has passed the configured
	// validators. The result may be shorter than n when the source returned
	// too few usable questions; callers enforce the batch size.
	Generate(ctx context.Context, topicID string, difficulty quiz.Difficulty, lang quiz.Language, n int) ([]quiz.Question, error)
}
