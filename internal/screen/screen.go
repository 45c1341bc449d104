// Package screen holds the contract between the app and its screens.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/bibliz/internal/quiz"
	"github.com/abhisek/bibliz/internal/ui/layout"
)

// Screen is one page of the TUI. The app owns the header and footer, so
// View draws only the body within width x height.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View(width, height int) string
	Title() string
}

// KeyHintProvider lets a screen replace the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StateMsg delivers the latest machine snapshot to the active screen.
type StateMsg struct {
	Snapshot quiz.Snapshot
}

// Intents. Screens never touch the machine; they emit one of these and
// the app applies it.
type (
	SelectLanguageMsg   struct{ Language quiz.Language }
	SelectDifficultyMsg struct{ Difficulty quiz.Difficulty }
	SelectTopicMsg      struct{ TopicID string }
	SelectAnswerMsg     struct{ Index int }
	AdvanceMsg          struct{}
	PlayAgainMsg        struct{}
	BackToTopicsMsg     struct{}
	ViewHistoryMsg      struct{}
	ClearHistoryMsg     struct{}
	DismissErrorMsg     struct{}
)

// Send wraps msg in a command.
func Send(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
