package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/bibliz/internal/ui/theme"
)

// MenuItem is one selectable line. Detail is shown dimmed after the label.
type MenuItem struct {
	Label    string
	Detail   string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list navigated with arrows or j/k. Disabled items
// are skipped by the cursor.
type Menu struct {
	Items    []MenuItem
	Selected int
}

func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1}
	m.Selected = max(m.step(-1, 1), 0)
	return m
}

// step walks from i in direction dir and returns the first enabled index,
// or -1.
func (m Menu) step(i, dir int) int {
	for i += dir; i >= 0 && i < len(m.Items); i += dir {
		if !m.Items[i].Disabled {
			return i
		}
	}
	return -1
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if i := m.step(m.Selected, -1); i >= 0 {
			m.Selected = i
		}
	case "down", "j":
		if i := m.step(m.Selected, 1); i >= 0 {
			m.Selected = i
		}
	case "home", "g":
		m.Selected = max(m.step(-1, 1), 0)
	case "enter":
		if m.Selected < 0 || m.Selected >= len(m.Items) {
			break
		}
		if it := m.Items[m.Selected]; it.Action != nil && !it.Disabled {
			return m, it.Action()
		}
	}
	return m, nil
}

func (m Menu) View() string {
	var b strings.Builder
	for i, it := range m.Items {
		var detail string
		if it.Detail != "" {
			detail = "  " + theme.Muted.Render(it.Detail)
		}
		switch {
		case it.Disabled:
			b.WriteString(theme.Muted.Render("    " + it.Label))
		case i == m.Selected:
			b.WriteString(theme.Selected.Render("  ▸ "+it.Label) + detail)
		default:
			b.WriteString(theme.Unselected.Render("    "+it.Label) + detail)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
