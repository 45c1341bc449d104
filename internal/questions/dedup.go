package questions

import (
	"strconv"
	"strings"

	"github.com/abhisek/bibliz/internal/quiz"
)

// uniqueQuestions keeps the first of any questions whose text differs only
// in case or spacing.
func uniqueQuestions(qs []quiz.Question) []quiz.Question {
	seen := make(map[string]struct{}, len(qs))
	out := make([]quiz.Question, 0, len(qs))
	for _, q := range qs {
		key := strings.Join(strings.Fields(strings.ToLower(q.Text)), " ")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, q)
	}
	return out
}

// priorList renders the last limit prior questions as a numbered list for
// the prompt, or "None".
func priorList(prior []string, limit int) string {
	if limit > 0 && len(prior) > limit {
		prior = prior[len(prior)-limit:]
	}
	if len(prior) == 0 {
		return "None"
	}
	lines := make([]string, len(prior))
	for i, q := range prior {
		lines[i] = strconv.Itoa(i+1) + ". " + q
	}
	return strings.Join(lines, "\n")
}
