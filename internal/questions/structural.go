package questions

import (
	"fmt"
	"strings"

	"github.com/abhisek/bibliz/internal/quiz"
)

const maxQuestionLen = 500

// StructuralValidator checks the question text and the answer index.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q quiz.Question) *ValidationError {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return &ValidationError{Validator: v.Name(), Message: "question is empty"}
	}
	if len(text) > maxQuestionLen {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("question exceeds %d characters", maxQuestionLen)}
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= quiz.OptionsPerQuestion {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("correctAnswerIndex %d outside 0-%d", q.CorrectIndex, quiz.OptionsPerQuestion-1),
		}
	}
	return nil
}

// OptionsValidator checks there are exactly four distinct, non-empty options.
type OptionsValidator struct{}

func (v *OptionsValidator) Name() string { return "options" }

func (v *OptionsValidator) Validate(q quiz.Question) *ValidationError {
	if len(q.Options) != quiz.OptionsPerQuestion {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("expected %d options, got %d", quiz.OptionsPerQuestion, len(q.Options)),
		}
	}
	seen := make(map[string]bool, len(q.Options))
	for i, o := range q.Options {
		key := strings.ToLower(strings.TrimSpace(o))
		if key == "" {
			return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("option %d is empty", i+1)}
		}
		if seen[key] {
			return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("option %q repeated", o)}
		}
		seen[key] = true
	}
	return nil
}
