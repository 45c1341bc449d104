// Package router keeps the TUI on the screen the quiz machine is in.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/bibliz/internal/quiz"
	"github.com/abhisek/bibliz/internal/screen"
)

// BuildFunc creates the screen for a snapshot's Screen.
type BuildFunc func(quiz.Snapshot) screen.Screen

// Router owns the active screen. The machine decides navigation; the
// router only swaps screens when the snapshot says so.
type Router struct {
	build   BuildFunc
	current quiz.Screen
	active  screen.Screen
}

// New builds the screen for snap. Init is left to the caller.
func New(build BuildFunc, snap quiz.Snapshot) *Router {
	return &Router{build: build, current: snap.Screen, active: build(snap)}
}

// Sync moves to snap. A new screen is built and initialised when the
// machine changed screens; otherwise the active one receives a StateMsg.
func (r *Router) Sync(snap quiz.Snapshot) tea.Cmd {
	if snap.Screen != r.current {
		r.current = snap.Screen
		r.active = r.build(snap)
		return r.active.Init()
	}
	return r.Update(screen.StateMsg{Snapshot: snap})
}

// Current is the machine screen the active screen renders.
func (r *Router) Current() quiz.Screen {
	return r.current
}

func (r *Router) Active() screen.Screen {
	return r.active
}

// Update forwards msg to the active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	r.active, cmd = r.active.Update(msg)
	return cmd
}

func (r *Router) View(width, height int) string {
	return r.active.View(width, height)
}
