package questions

import (
	"fmt"

	"github.com/abhisek/bibliz/internal/quiz"
)

// Validator vets one generated question. The generator shares validators
// across goroutines, so they must not keep state.
type Validator interface {
	Name() string
	Validate(q quiz.Question) *ValidationError
}

// ValidationError rejects a batch. Index is the 0-based position of the
// offending question.
type ValidationError struct {
	Validator string
	Index     int
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: question %d: %s", e.Validator, e.Index+1, e.Message)
}
