// Package play is the question screen of a running batch.
package play

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/bibliz/internal/quiz"
	"github.com/abhisek/bibliz/internal/screen"
	"github.com/abhisek/bibliz/internal/ui/components"
	"github.com/abhisek/bibliz/internal/ui/layout"
	"github.com/abhisek/bibliz/internal/ui/theme"
)

// PlayScreen shows one question, its options and the countdown.
type PlayScreen struct {
	snap   quiz.Snapshot
	cursor int
	index  int // question the cursor belongs to
}

var _ screen.Screen = (*PlayScreen)(nil)
var _ screen.KeyHintProvider = (*PlayScreen)(nil)

// New creates the play screen from the first quiz snapshot.
func New(snap quiz.Snapshot) *PlayScreen {
	return &PlayScreen{snap: snap}
}

func (s *PlayScreen) Init() tea.Cmd {
	return nil
}

func (s *PlayScreen) Title() string {
	if s.snap.Topic == nil {
		return "Quiz"
	}
	return s.snap.Topic.ID
}

func (s *PlayScreen) KeyHints() []layout.KeyHint {
	if v := s.snap.Quiz; v != nil && v.Answered {
		label := "Next"
		if v.Index == v.Total-1 {
			label = "Results"
		}
		return []layout.KeyHint{{Key: "Enter", Description: label}}
	}
	return []layout.KeyHint{
		{Key: "A-D", Description: "Answer"},
		{Key: "↑↓", Description: "Move"},
		{Key: "Enter", Description: "Confirm"},
	}
}

func (s *PlayScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.StateMsg:
		s.snap = msg.Snapshot
		if v := s.snap.Quiz; v != nil && v.Index != s.index {
			s.index = v.Index
			s.cursor = 0
		}
		return s, nil

	case tea.KeyPressMsg:
		return s, s.handleKey(msg.String())
	}
	return s, nil
}

func (s *PlayScreen) handleKey(key string) tea.Cmd {
	v := s.snap.Quiz
	if v == nil {
		return nil
	}

	if v.Answered {
		switch key {
		case "enter", "space", "n":
			return screen.Send(screen.AdvanceMsg{})
		}
		return nil
	}

	switch key {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
		return nil
	case "down", "j":
		if s.cursor < len(v.Options)-1 {
			s.cursor++
		}
		return nil
	case "enter":
		return screen.Send(screen.SelectAnswerMsg{Index: s.cursor})
	}

	if i, ok := optionIndex(key); ok && i < len(v.Options) {
		s.cursor = i
		return screen.Send(screen.SelectAnswerMsg{Index: i})
	}
	return nil
}

// optionIndex maps 1-4 and a-d to an option.
func optionIndex(key string) (int, bool) {
	if len(key) != 1 {
		return 0, false
	}
	c := key[0]
	switch {
	case c >= '1' && c <= '9':
		return int(c - '1'), true
	case c >= 'a' && c <= 'i':
		return int(c - 'a'), true
	}
	return 0, false
}

func (s *PlayScreen) View(width, height int) string {
	v := s.snap.Quiz
	if v == nil {
		return ""
	}

	inner := min(width-4, 72)
	var b strings.Builder

	info := fmt.Sprintf("Question %d / %d", v.Index+1, v.Total)
	score := fmt.Sprintf("Score %d", s.snap.TotalScore)
	gap := max(1, inner-lipgloss.Width(info)-lipgloss.Width(score))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(info))
	b.WriteString(strings.Repeat(" ", gap))
	b.WriteString(theme.Muted.Render(score))
	b.WriteString("\n")

	b.WriteString(renderDots(v))
	b.WriteString("\n\n")

	b.WriteString(components.NewTimerBar(v.TimeRemaining, v.TimeLimit, inner).View())
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().Width(inner).Foreground(theme.Text).Bold(true).Render(v.Text))
	b.WriteString("\n\n")

	b.WriteString(components.NewMultiChoice(v, s.cursor).View())

	if v.Answered {
		b.WriteString("\n")
		b.WriteString(renderVerdict(v))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

// renderDots shows one marker per question: answered ones green or red,
// the current one highlighted.
func renderDots(v *quiz.QuizView) string {
	var parts []string
	for i := 0; i < v.Total; i++ {
		switch {
		case i < len(v.Results) && v.Results[i]:
			parts = append(parts, theme.Correct.Render("●"))
		case i < len(v.Results):
			parts = append(parts, theme.Incorrect.Render("●"))
		case i == v.Index:
			parts = append(parts, theme.Selected.Render("◉"))
		default:
			parts = append(parts, theme.Muted.Render("○"))
		}
	}
	return strings.Join(parts, " ")
}

func renderVerdict(v *quiz.QuizView) string {
	switch {
	case v.Selected == quiz.NoAnswer:
		return theme.Incorrect.Render("Time's up! ") +
			theme.Muted.Render("The answer was "+components.Label(v.CorrectIndex)+".")
	case v.Selected == v.CorrectIndex:
		return theme.Correct.Render("Correct!")
	default:
		return theme.Incorrect.Render("Not quite. ") +
			theme.Muted.Render("The answer was "+components.Label(v.CorrectIndex)+".")
	}
}
