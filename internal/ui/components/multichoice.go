package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/bibliz/internal/quiz"
	"github.com/abhisek/bibliz/internal/ui/theme"
)

var optionLabels = []string{"A", "B", "C", "D"}

// MultiChoice renders the options of a quiz question. Before the
// question is answered the cursor row is highlighted; afterwards the
// correct option is green and a wrong pick red.
type MultiChoice struct {
	Options      []string
	Cursor       int
	Answered     bool
	Selected     int
	CorrectIndex int
}

// NewMultiChoice builds the view for v, keeping the cursor position.
func NewMultiChoice(v *quiz.QuizView, cursor int) MultiChoice {
	return MultiChoice{
		Options:      v.Options,
		Cursor:       cursor,
		Answered:     v.Answered,
		Selected:     v.Selected,
		CorrectIndex: v.CorrectIndex,
	}
}

// Label returns the letter shown for option i.
func Label(i int) string {
	if i >= 0 && i < len(optionLabels) {
		return optionLabels[i]
	}
	return fmt.Sprint(i + 1)
}

// View renders one option per line.
func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.Options {
		prefix := "  "
		if !m.Answered && i == m.Cursor {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, Label(i), opt)

		var style lipgloss.Style
		switch {
		case m.Answered && i == m.CorrectIndex:
			style = theme.Correct
			line += "  ✓"
		case m.Answered && i == m.Selected:
			style = theme.Incorrect
			line += "  ✗"
		case m.Answered:
			style = theme.Muted
		case i == m.Cursor:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
