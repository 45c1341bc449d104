package questions

import "github.com/abhisek/bibliz/internal/llm"

// BatchSchema is the reply shape requested from every provider: an object
// holding the question list, since structured output modes reject a bare
// top-level array. Option count and index range are left to the
// validators; not every provider accepts those keywords.
var BatchSchema = &llm.Schema{
	Name:        "bible-quiz-batch",
	Description: "A batch of multiple-choice bible trivia questions",
	Definition: object(map[string]any{
		"questions": described(map[string]any{
			"type":  "array",
			"items": object(questionProps, "question", "options", "correctAnswerIndex"),
		}, "The quiz questions, in the order they will be asked"),
	}, "questions"),
}

var questionProps = map[string]any{
	"question": described(map[string]any{"type": "string"},
		"The text of the quiz question."),
	"options": described(map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"An array of 4 possible string answers."),
	"correctAnswerIndex": described(map[string]any{"type": "integer"},
		"The index (0 to 3) of the correct answer in the options array."),
}

// object is a closed JSON Schema object with every listed key required.
func object(props map[string]any, required ...string) map[string]any {
	req := make([]any, len(required))
	for i, r := range required {
		req[i] = r
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             req,
		"additionalProperties": false,
	}
}

func described(def map[string]any, desc string) map[string]any {
	def["description"] = desc
	return def
}
