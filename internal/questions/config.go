package questions

import "time"

type Config struct {
	// Validators are applied in order to every question that survives
	// deduplication.
	Validators []Validator

	MaxTokens   int
	Temperature float64

	// Timeout caps a whole Generate call. Zero leaves only the caller's
	// deadline.
	Timeout time.Duration

	// MaxPriorQuestions caps the "do not repeat" list in the prompt.
	MaxPriorQuestions int
}

// DefaultConfig uses a temperature of 0.8, warm enough to vary questions
// between blocks on the same topic.
func DefaultConfig() Config {
	return Config{
		Validators:        []Validator{&StructuralValidator{}, &OptionsValidator{}},
		MaxTokens:         4096,
		Temperature:       0.8,
		Timeout:           45 * time.Second,
		MaxPriorQuestions: 15,
	}
}
