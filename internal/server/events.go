package server

import (
	"context"
	"fmt"

	"github.com/abhisek/bibliz/internal/quiz"
)

// Event types accepted by POST /api/events.
const (
	EventSelectLanguage   = "select_language"
	EventSelectDifficulty = "select_difficulty"
	EventSelectTopic      = "select_topic"
	EventSelectAnswer     = "select_answer"
	EventAdvance          = "advance"
	EventTimeExpired      = "time_expired"
	EventPlayAgain        = "play_again"
	EventBackToTopics     = "back_to_topics"
	EventViewHistory      = "view_history"
	EventClearHistory     = "clear_history"
	EventCancelFetch      = "cancel_fetch"
	EventDismissError     = "dismiss_error"
)

// Event is the request body of POST /api/events. Only the field matching
// Type is read.
type Event struct {
	Type       string `json:"type"`
	Language   string `json:"language,omitempty"`
	Topic      string `json:"topic,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	Index      *int   `json:"index,omitempty"`
}

// BadEventError reports a malformed event body.
type BadEventError struct {
	Type   string
	Reason string
}

func (e *BadEventError) Error() string {
	if e.Type == "" {
		return "bad event: " + e.Reason
	}
	return fmt.Sprintf("bad %s event: %s", e.Type, e.Reason)
}

// Func translates the event into the machine call it stands for.
func (e Event) Func() (EventFunc, error) {
	switch e.Type {
	case EventSelectLanguage:
		lang, err := quiz.ParseLanguage(e.Language)
		if err != nil {
			return nil, &BadEventError{Type: e.Type, Reason: err.Error()}
		}
		return func(_ context.Context, m *quiz.Machine) (quiz.Effect, error) {
			return m.SelectLanguage(lang)
		}, nil

	case EventSelectDifficulty:
		d, err := quiz.ParseDifficulty(e.Difficulty)
		if err != nil {
			return nil, &BadEventError{Type: e.Type, Reason: err.Error()}
		}
		return func(_ context.Context, m *quiz.Machine) (quiz.Effect, error) {
			return m.SelectDifficultyPreset(d)
		}, nil

	case EventSelectTopic:
		if _, ok := quiz.LookupTopic(e.Topic); !ok {
			return nil, &BadEventError{Type: e.Type, Reason: fmt.Sprintf("unknown topic %q", e.Topic)}
		}
		topic := e.Topic
		return func(_ context.Context, m *quiz.Machine) (quiz.Effect, error) {
			return m.SelectTopic(topic)
		}, nil

	case EventSelectAnswer:
		if e.Index == nil {
			return nil, &BadEventError{Type: e.Type, Reason: "index is required"}
		}
		index := *e.Index
		return func(_ context.Context, m *quiz.Machine) (quiz.Effect, error) {
			return m.SelectAnswer(index)
		}, nil

	case EventAdvance:
		return func(ctx context.Context, m *quiz.Machine) (quiz.Effect, error) {
			return m.AdvanceQuestion(ctx)
		}, nil

	case EventTimeExpired:
		return func(_ context.Context, m *quiz.Machine) (quiz.Effect, error) {
			return m.TimeExpired()
		}, nil

	case EventPlayAgain:
		return func(_ context.Context, m *quiz.Machine) (quiz.Effect, error) {
			return m.PlayAgain()
		}, nil

	case EventBackToTopics:
		return func(_ context.Context, m *quiz.Machine) (quiz.Effect, error) {
			return m.BackToTopics()
		}, nil

	case EventViewHistory:
		return func(_ context.Context, m *quiz.Machine) (quiz.Effect, error) {
			return m.ViewHistory()
		}, nil

	case EventClearHistory:
		return clearHistory, nil

	case EventCancelFetch:
		return func(_ context.Context, m *quiz.Machine) (quiz.Effect, error) {
			return m.CancelFetch(), nil
		}, nil

	case EventDismissError:
		return func(_ context.Context, m *quiz.Machine) (quiz.Effect, error) {
			m.DismissError()
			return quiz.Effect{}, nil
		}, nil

	case "":
		return nil, &BadEventError{Reason: "type is required"}
	default:
		return nil, &BadEventError{Type: e.Type, Reason: "unknown event type"}
	}
}

func clearHistory(ctx context.Context, m *quiz.Machine) (quiz.Effect, error) {
	return m.ClearHistory(ctx)
}
