package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/bibliz/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label   string
	Percent float64
	Suffix  string
	Color   color.Color
	Width   int
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	suffix := ""
	if p.Suffix != "" {
		suffix = lipgloss.NewStyle().Foreground(theme.TextDim).Render("  " + p.Suffix)
	}

	barWidth := p.Width - lipgloss.Width(result) - lipgloss.Width(suffix)
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Percent)
	filled = max(0, min(filled, barWidth))

	fill := p.Color
	if fill == nil {
		fill = theme.Secondary
	}

	result += lipgloss.NewStyle().Background(fill).Render(strings.Repeat(" ", filled))
	result += theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled))
	return result + suffix
}

// TimerColor picks the countdown colour: green above half the limit,
// yellow above a quarter, red below.
func TimerColor(remaining, limit int) color.Color {
	if limit <= 0 {
		return theme.Error
	}
	switch pct := float64(remaining) / float64(limit); {
	case pct > 0.5:
		return theme.Success
	case pct > 0.25:
		return theme.Warning
	default:
		return theme.Error
	}
}

// NewTimerBar builds the per-question countdown bar.
func NewTimerBar(remaining, limit, width int) ProgressBar {
	pct := 0.0
	if limit > 0 {
		pct = float64(remaining) / float64(limit)
	}
	return ProgressBar{
		Percent: pct,
		Suffix:  fmt.Sprintf("%2ds", remaining),
		Color:   TimerColor(remaining, limit),
		Width:   width,
	}
}
