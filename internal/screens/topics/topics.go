package topics

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/bibliz/internal/quiz"
	"github.com/abhisek/bibliz/internal/screen"
	"github.com/abhisek/bibliz/internal/ui/components"
	"github.com/abhisek/bibliz/internal/ui/layout"
	"github.com/abhisek/bibliz/internal/ui/theme"
)

// TopicsScreen lists the topic catalogue and the difficulty preset.
// While a batch is being generated it shows a spinner instead.
type TopicsScreen struct {
	menu     components.Menu
	spinner  spinner.Model
	spinning bool
	snap     quiz.Snapshot
}

var _ screen.Screen = (*TopicsScreen)(nil)
var _ screen.KeyHintProvider = (*TopicsScreen)(nil)

// New creates the topic picker.
func New(snap quiz.Snapshot) *TopicsScreen {
	var items []components.MenuItem
	for _, t := range quiz.Topics() {
		id := t.ID
		items = append(items, components.MenuItem{
			Label:  t.Icon + "  " + t.ID,
			Action: func() tea.Cmd { return screen.Send(screen.SelectTopicMsg{TopicID: id}) },
		})
	}
	s := &TopicsScreen{
		menu: components.NewMenu(items),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Primary)),
		),
		snap: snap,
	}
	if snap.Topic != nil {
		for i, t := range quiz.Topics() {
			if t.ID == snap.Topic.ID {
				s.menu.Selected = i
			}
		}
	}
	return s
}

func (s *TopicsScreen) Init() tea.Cmd {
	return s.syncSpinner()
}

func (s *TopicsScreen) Title() string {
	return "Choose a Topic"
}

func (s *TopicsScreen) KeyHints() []layout.KeyHint {
	if s.snap.Loading {
		return []layout.KeyHint{
			{Key: "H", Description: "History"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Topic"},
		{Key: "←→", Description: "Difficulty"},
		{Key: "Enter", Description: "Start"},
		{Key: "H", Description: "History"},
	}
	if s.snap.Error != "" {
		hints = append(hints, layout.KeyHint{Key: "Esc", Description: "Dismiss"})
	}
	return hints
}

// syncSpinner starts the spinner when a fetch begins. The tick chain
// stops by itself once ticks are no longer forwarded.
func (s *TopicsScreen) syncSpinner() tea.Cmd {
	if s.snap.Loading && !s.spinning {
		s.spinning = true
		return s.spinner.Tick
	}
	if !s.snap.Loading {
		s.spinning = false
	}
	return nil
}

func (s *TopicsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.StateMsg:
		s.snap = msg.Snapshot
		return s, s.syncSpinner()

	case spinner.TickMsg:
		if !s.spinning {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *TopicsScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "h", "H":
		return s, screen.Send(screen.ViewHistoryMsg{})
	}
	if s.snap.Loading {
		return s, nil
	}

	switch msg.String() {
	case "esc":
		if s.snap.Error != "" {
			return s, screen.Send(screen.DismissErrorMsg{})
		}
		return s, nil
	case "left":
		return s, s.shiftDifficulty(-1)
	case "right", "tab":
		return s, s.shiftDifficulty(1)
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *TopicsScreen) shiftDifficulty(delta int) tea.Cmd {
	levels := quiz.Difficulties()
	i := s.snap.Difficulty.Index() + delta
	if i < 0 || i >= len(levels) {
		return nil
	}
	return screen.Send(screen.SelectDifficultyMsg{Difficulty: levels[i]})
}

func (s *TopicsScreen) View(width, height int) string {
	if s.snap.Loading {
		topic := ""
		if s.snap.Topic != nil {
			topic = s.snap.Topic.ID
		}
		msg := fmt.Sprintf("%s Preparing %d questions on %s...", s.spinner.View(), s.snap.QuestionsPerBlock, topic)
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Text).Render(msg))
	}

	var b strings.Builder
	b.WriteString("\n")

	if s.snap.Error != "" {
		b.WriteString(layout.Centered(width, lipgloss.NewStyle().Foreground(theme.Error).Bold(true),
			"Could not load questions: "+s.snap.Error))
		b.WriteString("\n\n")
	}

	b.WriteString(layout.Centered(width, theme.Body, "Difficulty  "+renderDifficulty(s.snap.Difficulty)))
	b.WriteString("\n")
	if s.snap.TotalScore > 0 {
		b.WriteString(layout.Centered(width, theme.Hint, fmt.Sprintf("Total score so far: %d", s.snap.TotalScore)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.menu.View()))
	return b.String()
}

func renderDifficulty(current quiz.Difficulty) string {
	var parts []string
	for _, d := range quiz.Difficulties() {
		label := strings.ToUpper(d.String())
		if d == current {
			parts = append(parts, theme.ButtonActive.Render(label))
		} else {
			parts = append(parts, theme.ButtonInactive.Render(label))
		}
	}
	return strings.Join(parts, " ")
}
