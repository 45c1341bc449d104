// Package theme holds the palette and the shared lipgloss styles.
package theme

import "charm.land/lipgloss/v2"

// Parchment gold on a night sky.
var (
	Primary   = lipgloss.Color("#D4A72C")
	Secondary = lipgloss.Color("#60A5FA")
	Accent    = lipgloss.Color("#C084FC")
	Success   = lipgloss.Color("#22C55E")
	Warning   = lipgloss.Color("#EAB308")
	Error     = lipgloss.Color("#EF4444")
	Text      = lipgloss.Color("#F8FAFC")
	TextDim   = lipgloss.Color("#94A3B8")
	BgDark    = lipgloss.Color("#0B1120")
	BgCard    = lipgloss.Color("#1E293B")
	Border    = lipgloss.Color("#334155")
)

var (
	Title = lipgloss.NewStyle().Foreground(Primary).Bold(true).Align(lipgloss.Center)
	Body  = lipgloss.NewStyle().Foreground(Text)
	Hint  = lipgloss.NewStyle().Foreground(TextDim).Italic(true)
	Muted = lipgloss.NewStyle().Foreground(TextDim)

	// Card frames a question or a summary.
	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	Selected   = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	Unselected = lipgloss.NewStyle().Foreground(Text)
	Correct    = lipgloss.NewStyle().Foreground(Success).Bold(true)
	Incorrect  = lipgloss.NewStyle().Foreground(Error).Bold(true)

	ProgressEmpty = lipgloss.NewStyle().Background(Border)

	// Buttons render the difficulty picker.
	ButtonActive   = lipgloss.NewStyle().Background(Primary).Foreground(BgDark).Bold(true).Padding(0, 2)
	ButtonInactive = lipgloss.NewStyle().Foreground(TextDim).Padding(0, 2)
)
