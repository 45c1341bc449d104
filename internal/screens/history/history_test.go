package history

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/bibliz/internal/quiz"
	"github.com/abhisek/bibliz/internal/screen"
)

func historySnap(n int) quiz.Snapshot {
	results := make([]quiz.SessionResult, n)
	for i := range results {
		results[i] = quiz.SessionResult{
			TopicID:    "Acts of the Apostles",
			Score:      10 * (i + 1),
			Correct:    i % 6,
			Total:      5,
			Difficulty: quiz.Easy,
			Timestamp:  time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		}
	}
	return quiz.Snapshot{Screen: quiz.ScreenHistory, History: results}
}

func press(s *HistoryScreen, code rune, text string) tea.Cmd {
	_, cmd := s.Update(tea.KeyPressMsg{Code: code, Text: text})
	return cmd
}

func TestEmptyHistory(t *testing.T) {
	s := New(historySnap(0))
	if !strings.Contains(s.View(100, 30), "No quizzes played yet") {
		t.Error("expected empty message")
	}
	press(s, 'c', "c")
	if s.confirming {
		t.Error("clear must not be offered on an empty history")
	}
	for _, h := range s.KeyHints() {
		if h.Key == "C" {
			t.Error("clear hint must be hidden on an empty history")
		}
	}
}

func TestRowsRendered(t *testing.T) {
	view := New(historySnap(2)).View(120, 30)
	for _, want := range []string{"Acts of the Apostles", "easy", "20", "1/5"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestClearNeedsConfirmation(t *testing.T) {
	s := New(historySnap(3))

	if cmd := press(s, 'c', "c"); cmd != nil {
		t.Fatal("c should only open the confirmation")
	}
	if !strings.Contains(s.View(100, 30), "Delete all history?") {
		t.Error("expected confirmation dialog")
	}

	if cmd := press(s, 'n', "n"); cmd != nil {
		t.Error("n should cancel without clearing")
	}
	if s.confirming {
		t.Error("dialog should close on n")
	}

	press(s, 'c', "c")
	cmd := press(s, 'y', "y")
	if cmd == nil {
		t.Fatal("y should clear")
	}
	if _, ok := cmd().(screen.ClearHistoryMsg); !ok {
		t.Fatalf("expected ClearHistoryMsg, got %T", cmd())
	}
}

func TestEscGoesBackToTopics(t *testing.T) {
	s := New(historySnap(1))
	cmd := press(s, tea.KeyEscape, "")
	if _, ok := cmd().(screen.BackToTopicsMsg); !ok {
		t.Fatalf("expected BackToTopicsMsg, got %T", cmd())
	}
}

func TestEscClosesConfirmFirst(t *testing.T) {
	s := New(historySnap(1))
	press(s, 'c', "c")
	if cmd := press(s, tea.KeyEscape, ""); cmd != nil {
		t.Error("esc in dialog should only close it")
	}
}

func TestStateMsgClampsSelection(t *testing.T) {
	s := New(historySnap(5))
	for i := 0; i < 4; i++ {
		press(s, tea.KeyDown, "")
	}
	s.Update(screen.StateMsg{Snapshot: historySnap(0)})
	if s.selected != 0 {
		t.Errorf("expected selection reset, got %d", s.selected)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Psalms and Proverbs", 8); got != "Psalms …" {
		t.Errorf("truncate = %q", got)
	}
}
