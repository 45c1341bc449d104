package questions

import (
	"fmt"
	"strings"

	"github.com/abhisek/bibliz/internal/quiz"
)

const systemPrompt = `You are a bible scholar writing trivia questions for a quiz game.

Rules:
- Base every question on the "Nuova Riveduta" translation of the Bible.
- Write the questions and all options in the requested language.
- Each question has exactly 4 options and exactly one of them is correct.
- correctAnswerIndex is the 0-based position (0 to 3) of the correct option.
- Distractors must be plausible: names, places and events from the same part of the Bible.
- Vary the position of the correct option across the batch.
- Match the requested difficulty: easy questions cover well-known stories, hard questions need close reading.
- Do not repeat a question within the batch or from the "already asked" list.`

// buildUserMessage constructs the user message for one batch request.
func buildUserMessage(topic string, difficulty quiz.Difficulty, lang quiz.Language, n int, prior []string, maxPrior int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate a block of exactly %d unique multiple-choice questions.\n", n)
	fmt.Fprintf(&b, "Topic: %q\n", topic)
	fmt.Fprintf(&b, "Difficulty: %s\n", difficulty)
	fmt.Fprintf(&b, "Language: %s (%s)\n", lang.Name(), lang)

	b.WriteString("\nAlready asked on this topic:\n")
	b.WriteString(priorList(prior, maxPrior))

	return b.String()
}
