package results

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

// ResultsScreen shows the score of the batch just completed.
type ResultsScreen struct {
	snap quiz.Snapshot
	menu components.Menu
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New creates the results screen.
func New(snap quiz.Snapshot) *ResultsScreen {
	return &ResultsScreen{
		snap: snap,
		menu: components.NewMenu([]components.MenuItem{
			{Label: "Play again", Detail: "same topic", Action: func() tea.Cmd { return screen.Send(screen.PlayAgainMsg{}) }},
			{Label: "Choose another topic", Action: func() tea.Cmd { return screen.Send(screen.BackToTopicsMsg{}) }},
			{Label: "History", Action: func() tea.Cmd { return screen.Send(screen.ViewHistoryMsg{}) }},
		}),
	}
}

func (s *ResultsScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultsScreen) Title() string {
	return "Results"
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.StateMsg:
		s.snap = msg.Snapshot
		return s, nil
	case tea.KeyPressMsg:
		if s.snap.Loading {
			return s, nil
		}
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ResultsScreen) View(width, height int) string {
	snap := s.snap
	var b strings.Builder

	b.WriteString(theme.Title.Render("Block complete!"))
	b.WriteString("\n\n")

	ratio := fmt.Sprintf("%d / %d correct  (%d%%)", snap.BlockCorrect, snap.QuestionsPerBlock, snap.Percent())
	b.WriteString(theme.Body.Bold(true).Render(ratio))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("%s %s\n",
		theme.Muted.Render("Block score:"),
		lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(fmt.Sprint(snap.BlockScore))))
	b.WriteString(fmt.Sprintf("%s %s\n",
		theme.Muted.Render("Total score:"),
		lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(fmt.Sprint(snap.TotalScore))))
	b.WriteString("\n")

	if msg := snap.Notification.Message(); msg != "" {
		color := theme.Success
		if snap.Notification == quiz.NotificationDecreased {
			color = theme.Warning
		}
		b.WriteString(lipgloss.NewStyle().Foreground(color).Bold(true).Render(msg))
		b.WriteString("\n")
	}
	b.WriteString(theme.Hint.Render("Next block: " + snap.Difficulty.String()))
	b.WriteString("\n\n")

	if snap.Loading {
		b.WriteString(theme.Hint.Render("Preparing the next block..."))
	} else {
		b.WriteString(s.menu.View())
	}

	card := theme.Card.Width(min(width-4, 56)).Align(lipgloss.Center).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
