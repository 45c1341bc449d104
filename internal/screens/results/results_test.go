package results

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/bibliz/internal/quiz"
	"github.com/abhisek/bibliz/internal/screen"
)

func resultSnap() quiz.Snapshot {
	return quiz.Snapshot{
		Screen:            quiz.ScreenResults,
		Difficulty:        quiz.Hard,
		Notification:      quiz.NotificationIncreased,
		TotalScore:        140,
		BlockScore:        80,
		BlockCorrect:      4,
		QuestionsPerBlock: 5,
	}
}

func TestViewShowsScores(t *testing.T) {
	view := New(resultSnap()).View(100, 40)
	for _, want := range []string{"4 / 5 correct", "(80%)", "Block score:", "80", "140", "Difficulty increased", "Next block: hard"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestViewWithoutNotification(t *testing.T) {
	snap := resultSnap()
	snap.Notification = quiz.NotificationNone
	view := New(snap).View(100, 40)
	if strings.Contains(view, "Difficulty increased") || strings.Contains(view, "decreased") {
		t.Error("no difficulty message expected")
	}
}

func TestMenuIntents(t *testing.T) {
	tests := []struct {
		downs int
		want  tea.Msg
	}{
		{0, screen.PlayAgainMsg{}},
		{1, screen.BackToTopicsMsg{}},
		{2, screen.ViewHistoryMsg{}},
	}
	for _, tt := range tests {
		s := New(resultSnap())
		for i := 0; i < tt.downs; i++ {
			s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
		}
		_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
		if cmd == nil {
			t.Fatalf("downs=%d: expected a command", tt.downs)
		}
		if got := cmd(); got != tt.want {
			t.Errorf("downs=%d: expected %T, got %T", tt.downs, tt.want, got)
		}
	}
}

func TestLoadingDisablesMenu(t *testing.T) {
	snap := resultSnap()
	snap.Loading = true
	s := New(snap)

	if _, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("menu should be disabled while the next block loads")
	}
	if !strings.Contains(s.View(100, 40), "Preparing the next block") {
		t.Error("expected loading hint")
	}
}
