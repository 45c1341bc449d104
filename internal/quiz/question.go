package quiz

import (
	"fmt"
	"time"
)

// OptionsPerQuestion is the number of answer options every question carries.
const OptionsPerQuestion = 4

// NoAnswer marks an answer recorded because the countdown ran out.
const NoAnswer = -1

// Question is a single multiple-choice question.
type Question struct {
	Text         string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctAnswerIndex"`
}

// Answer records the outcome of one question in a batch.
type Answer struct {
	Selected int  `json:"selected"`
	Correct  bool `json:"correct"`
}

// SessionResult is the history entry for one completed batch.
type SessionResult struct {
	TopicID    string     `json:"topic"`
	Score      int        `json:"score"`
	Correct    int        `json:"correct"`
	Total      int        `json:"total"`
	Difficulty Difficulty `json:"difficulty"`
	Timestamp  time.Time  `json:"date"`
}

// Percent returns the share of correct answers, rounded to a whole percent.
func (r SessionResult) Percent() int {
	return Percent(r.Correct, r.Total)
}

// Percent returns correct/total as a rounded whole percentage.
func Percent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return (correct*100 + total/2) / total
}

// ShortBatchError is returned when the question source yields fewer
// questions than a batch needs.
type ShortBatchError struct {
	Got  int
	Want int
}

func (e *ShortBatchError) Error() string {
	return fmt.Sprintf("question source returned only %d questions, expected %d", e.Got, e.Want)
}

// IngestBatch enforces the batch size on a fetched question list. Fewer than
// n questions is an error; extra questions are dropped, keeping source order.
func IngestBatch(qs []Question, n int) ([]Question, error) {
	if len(qs) < n {
		return nil, &ShortBatchError{Got: len(qs), Want: n}
	}
	batch := make([]Question, n)
	copy(batch, qs[:n])
	return batch, nil
}
