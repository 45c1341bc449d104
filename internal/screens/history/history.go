package history

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/bibliz/internal/quiz"
	"github.com/abhisek/bibliz/internal/screen"
	"github.com/abhisek/bibliz/internal/ui/layout"
	"github.com/abhisek/bibliz/internal/ui/theme"
)

// HistoryScreen lists past blocks, most recent first.
type HistoryScreen struct {
	results    []quiz.SessionResult
	selected   int
	confirming bool
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a HistoryScreen.
func New(snap quiz.Snapshot) *HistoryScreen {
	return &HistoryScreen{results: snap.History}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return nil
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	if s.confirming {
		return []layout.KeyHint{
			{Key: "Y", Description: "Delete all"},
			{Key: "N", Description: "Keep"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Topics"},
	}
	if len(s.results) > 0 {
		hints = append(hints, layout.KeyHint{Key: "C", Description: "Clear"})
	}
	return hints
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.StateMsg:
		s.results = msg.Snapshot.History
		if s.selected >= len(s.results) {
			s.selected = max(0, len(s.results)-1)
		}
		return s, nil

	case tea.KeyPressMsg:
		return s, s.handleKey(msg.String())
	}
	return s, nil
}

func (s *HistoryScreen) handleKey(key string) tea.Cmd {
	if s.confirming {
		switch key {
		case "y", "Y":
			s.confirming = false
			return screen.Send(screen.ClearHistoryMsg{})
		case "n", "N", "esc":
			s.confirming = false
		}
		return nil
	}

	switch key {
	case "esc", "b":
		return screen.Send(screen.BackToTopicsMsg{})
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.results)-1 {
			s.selected++
		}
	case "c", "C":
		if len(s.results) > 0 {
			s.confirming = true
		}
	}
	return nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.confirming {
		return renderConfirm(width, height, len(s.results))
	}
	if len(s.results) == 0 {
		return layout.Centered(width, theme.Hint, "\n\n  No quizzes played yet. Pick a topic to begin!")
	}

	var b strings.Builder
	b.WriteString("\n")

	header := fmt.Sprintf("  %-18s %-22s %-8s %6s %8s", "Date", "Topic", "Level", "Score", "Correct")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Bold(true).Render(header)))
	b.WriteString("\n")

	// Keep the selected row on screen.
	rows := max(1, height-4)
	start := 0
	if s.selected >= rows {
		start = s.selected - rows + 1
	}
	end := min(len(s.results), start+rows)

	for i := start; i < end; i++ {
		r := s.results[i]
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "> "
			style = style.Foreground(theme.Primary).Bold(true)
		}
		line := fmt.Sprintf("%s%-18s %-22s %-8s %6d %8s",
			prefix,
			r.Timestamp.Local().Format("Jan 02 2006 15:04"),
			truncate(r.TopicID, 22),
			r.Difficulty,
			r.Score,
			fmt.Sprintf("%d/%d", r.Correct, r.Total),
		)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	return b.String()
}

func renderConfirm(width, height, n int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Delete all history?"))
	b.WriteString("\n")
	b.WriteString(theme.Muted.Render(fmt.Sprintf("%d results will be removed. This cannot be undone.", n)))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render("[Y] Yes, delete"))
	b.WriteString("   ")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Render("[N] No, keep"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
