package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/bibliz/internal/questions"
	"github.com/abhisek/bibliz/internal/quiz"
	"github.com/abhisek/bibliz/internal/router"
	"github.com/abhisek/bibliz/internal/screen"
	"github.com/abhisek/bibliz/internal/screens/history"
	"github.com/abhisek/bibliz/internal/screens/play"
	"github.com/abhisek/bibliz/internal/screens/results"
	"github.com/abhisek/bibliz/internal/screens/topics"
	"github.com/abhisek/bibliz/internal/screens/welcome"
	"github.com/abhisek/bibliz/internal/ui/layout"
)

// Options holds dependencies for the TUI.
type Options struct {
	Machine   *quiz.Machine
	Generator questions.Generator
	Logger    *zap.Logger
}

// fetchDoneMsg carries a generated batch back into the update loop.
type fetchDoneMsg struct {
	Generation uint64
	Questions  []quiz.Question
	Err        error
}

// countdownTickMsg is one countdown unit for the arming identified by Token.
type countdownTickMsg struct {
	Token uint64
}

// AppModel is the root Bubble Tea model. It owns the quiz machine: every
// intent, fetch result and tick is applied here, on the update loop.
type AppModel struct {
	ctx     context.Context
	machine *quiz.Machine
	gen     questions.Generator
	log     *zap.Logger

	router *router.Router
	width  int
	height int
}

// newAppModel creates an AppModel showing the machine's current screen.
func newAppModel(ctx context.Context, opts Options) AppModel {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	snap := opts.Machine.Snapshot()
	return AppModel{
		ctx:     ctx,
		machine: opts.Machine,
		gen:     opts.Generator,
		log:     log.Named("tui"),
		router:  router.New(screenFor, snap),
	}
}

func screenFor(snap quiz.Snapshot) screen.Screen {
	switch snap.Screen {
	case quiz.ScreenTopicSelect:
		return topics.New(snap)
	case quiz.ScreenQuiz:
		return play.New(snap)
	case quiz.ScreenResults:
		return results.New(snap)
	case quiz.ScreenHistory:
		return history.New(snap)
	default:
		return welcome.New(snap.Language)
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case fetchDoneMsg:
		if msg.Err != nil {
			m.log.Warn("question fetch failed", zap.Uint64("generation", msg.Generation), zap.Error(msg.Err))
		}
		return m, m.apply(m.machine.ResolveFetch(msg.Generation, msg.Questions, msg.Err), nil)

	case countdownTickMsg:
		return m, m.apply(m.machine.Tick(msg.Token), nil)

	case screen.SelectLanguageMsg:
		return m, m.apply(m.machine.SelectLanguage(msg.Language))
	case screen.SelectDifficultyMsg:
		return m, m.apply(m.machine.SelectDifficultyPreset(msg.Difficulty))
	case screen.SelectTopicMsg:
		return m, m.apply(m.machine.SelectTopic(msg.TopicID))
	case screen.SelectAnswerMsg:
		return m, m.apply(m.machine.SelectAnswer(msg.Index))
	case screen.AdvanceMsg:
		return m, m.apply(m.machine.AdvanceQuestion(m.ctx))
	case screen.PlayAgainMsg:
		return m, m.apply(m.machine.PlayAgain())
	case screen.BackToTopicsMsg:
		return m, m.apply(m.machine.BackToTopics())
	case screen.ViewHistoryMsg:
		return m, m.apply(m.machine.ViewHistory())
	case screen.ClearHistoryMsg:
		return m, m.apply(m.machine.ClearHistory(m.ctx))
	case screen.DismissErrorMsg:
		m.machine.DismissError()
		return m, m.apply(quiz.Effect{}, nil)
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// apply runs the effects of one machine event and brings the screens up
// to date with the new state.
func (m *AppModel) apply(eff quiz.Effect, err error) tea.Cmd {
	if err != nil {
		if !errors.Is(err, quiz.ErrInvalidEvent) {
			m.log.Error("quiz event failed", zap.Error(err))
		} else {
			m.log.Debug("ignored event", zap.Error(err))
		}
	}

	var cmds []tea.Cmd
	if eff.Fetch != nil {
		cmds = append(cmds, m.fetch(*eff.Fetch))
	}
	if eff.TimerToken != 0 {
		token := eff.TimerToken
		cmds = append(cmds, tea.Tick(quiz.TickInterval, func(time.Time) tea.Msg {
			return countdownTickMsg{Token: token}
		}))
	}

	cmds = append(cmds, m.router.Sync(m.machine.Snapshot()))
	return tea.Batch(cmds...)
}

func (m *AppModel) fetch(req quiz.FetchRequest) tea.Cmd {
	ctx, gen, log := m.ctx, m.gen, m.log
	return func() tea.Msg {
		log.Debug("fetching questions",
			zap.Uint64("generation", req.Generation),
			zap.String("topic", req.TopicID),
			zap.Stringer("difficulty", req.Difficulty),
			zap.String("language", string(req.Language)),
		)
		qs, err := gen.Generate(ctx, req.TopicID, req.Difficulty, req.Language, req.Count)
		return fetchDoneMsg{Generation: req.Generation, Questions: qs, Err: err}
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	status := layout.HeaderStatus{Score: m.machine.Snapshot().TotalScore}
	if m.router.Current() != quiz.ScreenWelcome {
		status.Difficulty = m.machine.Difficulty().String()
		status.Language = string(m.machine.Language())
	}
	header := layout.RenderHeader(active.Title(), status, m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	} else {
		footerHints = []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	}
	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(newAppModel(ctx, opts), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
