// Package layout draws the frame shared by every screen: a header bar
// with the running score, the screen body and a footer of key hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/bibliz/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24
)

// KeyHint is one "key description" pair in the footer.
type KeyHint struct {
	Key         string
	Description string
}

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

func RenderMinSizeMessage(width, height int) string {
	msg := fmt.Sprintf("Terminal too small.\n\nResize to at least %d x %d\n\nCurrent: %d x %d",
		MinWidth, MinHeight, width, height)
	return lipgloss.NewStyle().
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Align(lipgloss.Center).
		Render(msg)
}

// Centered renders text across the full width in the given style.
func Centered(width int, style lipgloss.Style, text string) string {
	return style.Width(width).Align(lipgloss.Center).Render(text)
}

// HeaderStatus is the right-hand side of the header. Empty strings are
// left out; the score is always shown.
type HeaderStatus struct {
	Score      int
	Difficulty string
	Language   string
}

func (h HeaderStatus) render() string {
	var parts []string
	if h.Language != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.TextDim).Render(strings.ToUpper(h.Language)))
	}
	if h.Difficulty != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Secondary).Render(h.Difficulty))
	}
	parts = append(parts, lipgloss.NewStyle().Foreground(theme.Primary).Render(fmt.Sprintf("✦ %d", h.Score)))
	return strings.Join(parts, "   ")
}

func bar(width int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// RenderHeader puts the app name on the left, the screen title in the
// middle and the status on the right.
func RenderHeader(title string, status HeaderStatus, width int) string {
	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  Bibliz")
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	right := status.render()

	inner := max(width-4, 0) // border and padding
	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)

	gapL := max((inner-cw)/2-lw, 1)
	gapR := max(inner-lw-gapL-cw-rw, 1)

	return bar(width, left+strings.Repeat(" ", gapL)+center+strings.Repeat(" ", gapR)+right)
}

func RenderFooter(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = key.Render(h.Key) + " " + desc.Render(h.Description)
	}
	return bar(width, "  "+strings.Join(parts, "   "))
}

// RenderFrame stacks header, body and footer, sizing the body to fill
// whatever height the bars leave.
func RenderFrame(header, content, footer string, width, height int) string {
	bodyHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(bodyHeight).Render(content)
	return header + "\n" + body + "\n" + footer
}
