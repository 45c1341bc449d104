package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/bibliz/internal/quiz"
	"github.com/abhisek/bibliz/internal/screen"
	"github.com/abhisek/bibliz/internal/ui/components"
	"github.com/abhisek/bibliz/internal/ui/layout"
	"github.com/abhisek/bibliz/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 500 * time.Millisecond
	phase2End    = 1500 * time.Millisecond
	totalDur     = 2500 * time.Millisecond
)

const bookArt = `    ________   ________
   /        \ /        \
  |  ~~~~~~  |  ~~~~~~  |
  |  ~~~~~~  |  ~~~~~~  |
  |  ~~~~~~  |  ~~~~~~  |
   \________/ \________/`

var sparkleFrames = []string{"✦", "✧"}

type tickMsg time.Time

// WelcomeScreen plays a short intro and then asks for the quiz language.
type WelcomeScreen struct {
	menu      components.Menu
	elapsed   time.Duration
	tickCount int
	chosen    bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)
var _ screen.KeyHintProvider = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen with the cursor on current.
func New(current quiz.Language) *WelcomeScreen {
	w := &WelcomeScreen{}
	var items []components.MenuItem
	selected := 0
	for i, lang := range quiz.Languages() {
		items = append(items, components.MenuItem{
			Label:  lang.Native(),
			Detail: string(lang),
			Action: func() tea.Cmd { return w.choose(lang) },
		})
		if lang == current {
			selected = i
		}
	}
	w.menu = components.NewMenu(items)
	w.menu.Selected = selected
	return w
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) KeyHints() []layout.KeyHint {
	if !w.ready() {
		return []layout.KeyHint{{Key: "any key", Description: "Skip"}}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Language"},
		{Key: "Enter", Description: "Start"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) ready() bool {
	return w.elapsed >= totalDur
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tick()

	case tea.KeyPressMsg:
		if !w.ready() {
			w.elapsed = totalDur
			return w, nil
		}
		var cmd tea.Cmd
		w.menu, cmd = w.menu.Update(msg)
		return w, cmd
	}

	return w, nil
}

// choose emits the language intent once.
func (w *WelcomeScreen) choose(lang quiz.Language) tea.Cmd {
	if w.chosen {
		return nil
	}
	w.chosen = true
	return screen.Send(screen.SelectLanguageMsg{Language: lang})
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	rendered := lipgloss.NewStyle().Foreground(theme.Primary).Render(bookArt)

	if w.elapsed >= phase1End {
		sparkle := sparkleFrames[w.tickCount%len(sparkleFrames)]
		s1 := lipgloss.NewStyle().Foreground(theme.Accent).Render(sparkle)
		s2 := lipgloss.NewStyle().Foreground(theme.Secondary).Render(sparkle)

		lines := strings.Split(rendered, "\n")
		lines[0] = s1 + "  " + lines[0] + "  " + s2
		if len(lines) > 3 {
			lines[3] = s2 + "  " + lines[3] + "  " + s1
		}
		rendered = strings.Join(lines, "\n")
	}
	sections = append(sections, rendered)

	if w.elapsed >= phase2End {
		sections = append(sections, "", RenderBanner(width), "")
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render("How well do you know the Scriptures?"))
	}

	if w.ready() {
		sections = append(sections, "", theme.Hint.Render("Choose your language"), "")
		sections = append(sections, w.menu.View())
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}
