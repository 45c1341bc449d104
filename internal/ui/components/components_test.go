package components

import (
	"image/color"
	"strings"
	"testing"

	"github.com/abhisek/bibliz/internal/quiz"
	"github.com/abhisek/bibliz/internal/ui/theme"
)

func TestTimerColor(t *testing.T) {
	tests := []struct {
		remaining, limit int
		want             color.Color
	}{
		{20, 20, theme.Success},
		{11, 20, theme.Success},
		{10, 20, theme.Warning},
		{6, 20, theme.Warning},
		{5, 20, theme.Error},
		{0, 20, theme.Error},
		{3, 0, theme.Error},
	}
	for _, tt := range tests {
		if got := TimerColor(tt.remaining, tt.limit); got != tt.want {
			t.Errorf("TimerColor(%d, %d) = %v, want %v", tt.remaining, tt.limit, got, tt.want)
		}
	}
}

func TestTimerBarSuffix(t *testing.T) {
	view := NewTimerBar(7, 20, 40).View()
	if !strings.Contains(view, " 7s") {
		t.Errorf("expected seconds suffix in %q", view)
	}
}

func TestMultiChoiceMarksAnswer(t *testing.T) {
	v := &quiz.QuizView{
		Options:      []string{"Jonah", "Job", "Joel", "Amos"},
		Answered:     true,
		Selected:     2,
		CorrectIndex: 0,
	}
	view := NewMultiChoice(v, 0).View()
	if !strings.Contains(view, "A)  Jonah  ✓") {
		t.Error("correct option should be ticked")
	}
	if !strings.Contains(view, "C)  Joel  ✗") {
		t.Error("wrong pick should be crossed")
	}
	if strings.Contains(view, "▸") {
		t.Error("cursor hidden once answered")
	}
}

func TestLabel(t *testing.T) {
	if Label(0) != "A" || Label(3) != "D" || Label(4) != "5" {
		t.Errorf("unexpected labels %q %q %q", Label(0), Label(3), Label(4))
	}
}
