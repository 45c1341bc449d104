package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/bibliz/internal/llm"
	"github.com/abhisek/bibliz/internal/questions"
	"github.com/abhisek/bibliz/internal/quiz"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview LLM-generated questions for a topic (no database)",
	Long: `Generate one question batch and answer it on stdin.

This is a stateless developer tool: no database, no history, no event log.
Useful for evaluating question quality per topic, language and difficulty.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().String("topic", "", "Topic name, e.g. Genesis (required)")
	previewCmd.Flags().String("difficulty", "medium", "Difficulty: easy, medium or hard")
	previewCmd.Flags().String("language", "en", "Question language: it, en, pt, es, fr or de")
	previewCmd.Flags().Int("count", 5, "Number of questions to generate")
	_ = previewCmd.MarkFlagRequired("topic")
}

func runPreview(cmd *cobra.Command, args []string) error {
	topicVal, _ := cmd.Flags().GetString("topic")
	diffVal, _ := cmd.Flags().GetString("difficulty")
	langVal, _ := cmd.Flags().GetString("language")
	count, _ := cmd.Flags().GetInt("count")

	topic, err := resolveTopic(topicVal)
	if err != nil {
		return err
	}
	difficulty, err := quiz.ParseDifficulty(diffVal)
	if err != nil {
		return err
	}
	lang, err := quiz.ParseLanguage(langVal)
	if err != nil {
		return err
	}
	if count < 1 {
		return fmt.Errorf("--count must be at least 1")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// No event recorder: nothing is persisted.
	ctx := cmd.Context()
	provider, err := llm.NewProvider(ctx, cfg.LLMConfig(), nil, nil)
	if err != nil {
		return fmt.Errorf("LLM provider: %w", err)
	}
	gen := questions.New(provider, cfg.QuestionsConfig())

	fmt.Printf("Topic: %s %s (%s, %s)\n", topic.Icon, topic.ID, difficulty, lang.Name())
	fmt.Printf("Generating %d questions...\n\n", count)

	batch, err := fetchPreview(ctx, gen, topic.ID, difficulty, lang, count)
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(os.Stdin)
	var correct int
	for i, q := range batch {
		fmt.Printf("── Question %d/%d ──\n", i+1, len(batch))
		fmt.Println(q.Text)
		for j, opt := range q.Options {
			fmt.Printf("  %c) %s\n", 'A'+j, opt)
		}

		fmt.Print("\nYour answer: ")
		if !scanner.Scan() {
			fmt.Println("\n(input closed)")
			break
		}
		choice, ok := parseChoice(scanner.Text(), len(q.Options))
		if !ok {
			fmt.Printf("(skipped) Answer: %c\n\n", 'A'+q.CorrectIndex)
			continue
		}

		if choice == q.CorrectIndex {
			correct++
			fmt.Println("\033[32m✓ Correct!\033[0m")
		} else {
			fmt.Printf("\033[31m✗ Wrong.\033[0m Answer: %c) %s\n", 'A'+q.CorrectIndex, q.Options[q.CorrectIndex])
		}
		fmt.Println()
	}

	next, note := quiz.NextDifficulty(difficulty, correct, count)
	fmt.Printf("── Summary: %d/%d correct, %d points ──\n", correct, count, quiz.ScoreFor(correct, difficulty))
	if note != quiz.NotificationNone {
		fmt.Printf("%s Next block: %s\n", note.Message(), next)
	}
	return nil
}

// fetchPreview generates one batch and holds it to the same size rule as a
// real session: a short batch is a failed fetch.
func fetchPreview(ctx context.Context, gen questions.Generator, topicID string, d quiz.Difficulty, lang quiz.Language, count int) ([]quiz.Question, error) {
	qs, err := gen.Generate(ctx, topicID, d, lang, count)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	batch, err := quiz.IngestBatch(qs, count)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	return batch, nil
}

// parseChoice accepts a letter (a-d) or a 1-based number.
func parseChoice(s string, n int) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	if len(s) == 1 && s[0] >= 'a' && int(s[0]-'a') < n {
		return int(s[0] - 'a'), true
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 1 && v <= n {
		return v - 1, true
	}
	return 0, false
}

// resolveTopic finds a topic by exact name, then by case-insensitive prefix.
func resolveTopic(val string) (quiz.Topic, error) {
	if t, ok := quiz.LookupTopic(val); ok {
		return t, nil
	}

	var matches []quiz.Topic
	for _, t := range quiz.Topics() {
		if strings.HasPrefix(strings.ToLower(t.ID), strings.ToLower(val)) {
			matches = append(matches, t)
		}
	}

	switch len(matches) {
	case 0:
		return quiz.Topic{}, fmt.Errorf("no topic found for %q (see `bibliz topics`)", val)
	case 1:
		return matches[0], nil
	default:
		var ids []string
		for _, t := range matches {
			ids = append(ids, t.ID)
		}
		return quiz.Topic{}, fmt.Errorf("multiple topics match %q: %s", val, strings.Join(ids, ", "))
	}
}
