package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/bibliz/internal/quiz"
	"github.com/abhisek/bibliz/internal/screen"
	"github.com/abhisek/bibliz/internal/screens/history"
	"github.com/abhisek/bibliz/internal/screens/play"
	"github.com/abhisek/bibliz/internal/screens/results"
	"github.com/abhisek/bibliz/internal/screens/topics"
	"github.com/abhisek/bibliz/internal/screens/welcome"
)

type fakeGenerator struct {
	calls int
	err   error
}

func (g *fakeGenerator) Generate(_ context.Context, topicID string, _ quiz.Difficulty, _ quiz.Language, n int) ([]quiz.Question, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	qs := make([]quiz.Question, n)
	for i := range qs {
		qs[i] = quiz.Question{
			Text:         fmt.Sprintf("%s question %d?", topicID, i+1),
			Options:      []string{"one", "two", "three", "four"},
			CorrectIndex: 0,
		}
	}
	return qs, nil
}

func newTestModel(t *testing.T, gen *fakeGenerator) AppModel {
	t.Helper()
	settings := quiz.DefaultSettings()
	settings.QuestionsPerBlock = 2
	m := newAppModel(context.Background(), Options{
		Machine:   quiz.New(context.Background(), settings, nil),
		Generator: gen,
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(AppModel)
}

func update(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(AppModel), cmd
}

// collect runs cmd and any nested batches, returning the messages that
// arrive within a short window. Countdown and spinner ticks scheduled
// further out are dropped.
func collect(cmd tea.Cmd) []tea.Msg {
	out := make(chan tea.Msg, 64)
	var run func(tea.Cmd)
	run = func(c tea.Cmd) {
		if c == nil {
			return
		}
		go func() {
			msg := c()
			if batch, ok := msg.(tea.BatchMsg); ok {
				for _, sub := range batch {
					run(sub)
				}
				return
			}
			out <- msg
		}()
	}
	run(cmd)

	var msgs []tea.Msg
	timeout := time.After(200 * time.Millisecond)
	for {
		select {
		case msg := <-out:
			msgs = append(msgs, msg)
		case <-timeout:
			return msgs
		}
	}
}

func findFetch(t *testing.T, cmd tea.Cmd) fetchDoneMsg {
	t.Helper()
	for _, msg := range collect(cmd) {
		if done, ok := msg.(fetchDoneMsg); ok {
			return done
		}
	}
	t.Fatal("expected a fetchDoneMsg")
	return fetchDoneMsg{}
}

// startQuiz drives the model from welcome into the first question.
func startQuiz(t *testing.T, m AppModel) AppModel {
	t.Helper()
	m, _ = update(t, m, screen.SelectLanguageMsg{Language: quiz.English})
	m, cmd := update(t, m, screen.SelectTopicMsg{TopicID: "Genesis"})
	m, _ = update(t, m, findFetch(t, cmd))
	return m
}

func TestStartsOnWelcome(t *testing.T) {
	m := newTestModel(t, &fakeGenerator{})
	if _, ok := m.router.Active().(*welcome.WelcomeScreen); !ok {
		t.Fatalf("expected welcome screen, got %T", m.router.Active())
	}
}

func TestLanguageThenTopicStartsQuiz(t *testing.T) {
	gen := &fakeGenerator{}
	m := newTestModel(t, gen)

	m, _ = update(t, m, screen.SelectLanguageMsg{Language: quiz.German})
	if _, ok := m.router.Active().(*topics.TopicsScreen); !ok {
		t.Fatalf("expected topics screen, got %T", m.router.Active())
	}
	if m.machine.Language() != quiz.German {
		t.Errorf("expected German, got %s", m.machine.Language())
	}

	m, cmd := update(t, m, screen.SelectTopicMsg{TopicID: "Exodus"})
	if !m.machine.Loading() {
		t.Fatal("expected machine to be loading")
	}
	if _, ok := m.router.Active().(*topics.TopicsScreen); !ok {
		t.Fatalf("expected to stay on topics while loading, got %T", m.router.Active())
	}

	done := findFetch(t, cmd)
	if gen.calls != 1 {
		t.Fatalf("expected 1 generate call, got %d", gen.calls)
	}
	if len(done.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(done.Questions))
	}

	m, _ = update(t, m, done)
	if _, ok := m.router.Active().(*play.PlayScreen); !ok {
		t.Fatalf("expected play screen, got %T", m.router.Active())
	}
	if !m.machine.TimerArmed() {
		t.Error("expected the countdown to be armed")
	}
}

func TestFetchErrorStaysOnTopics(t *testing.T) {
	m := newTestModel(t, &fakeGenerator{err: errors.New("provider down")})
	m, _ = update(t, m, screen.SelectLanguageMsg{Language: quiz.English})
	m, cmd := update(t, m, screen.SelectTopicMsg{TopicID: "Genesis"})
	m, _ = update(t, m, findFetch(t, cmd))

	snap := m.machine.Snapshot()
	if snap.Screen != quiz.ScreenTopicSelect {
		t.Fatalf("expected topics, got %s", snap.Screen)
	}
	if snap.Error == "" {
		t.Error("expected an error message")
	}

	m, _ = update(t, m, screen.DismissErrorMsg{})
	if m.machine.Snapshot().Error != "" {
		t.Error("expected error to be dismissed")
	}
}

func TestStaleTickIgnored(t *testing.T) {
	m := startQuiz(t, newTestModel(t, &fakeGenerator{}))
	before := m.machine.Snapshot().Quiz.TimeRemaining

	m, cmd := update(t, m, countdownTickMsg{Token: 9999})
	if cmd != nil {
		for _, msg := range collect(cmd) {
			if _, ok := msg.(countdownTickMsg); ok {
				t.Error("stale tick must not reschedule")
			}
		}
	}
	if got := m.machine.Snapshot().Quiz.TimeRemaining; got != before {
		t.Errorf("expected %d remaining, got %d", before, got)
	}
}

func TestBlockCompletesToResults(t *testing.T) {
	m := startQuiz(t, newTestModel(t, &fakeGenerator{}))

	for i := 0; i < 2; i++ {
		m, _ = update(t, m, screen.SelectAnswerMsg{Index: 0})
		m, _ = update(t, m, screen.AdvanceMsg{})
	}

	if _, ok := m.router.Active().(*results.ResultsScreen); !ok {
		t.Fatalf("expected results screen, got %T", m.router.Active())
	}
	snap := m.machine.Snapshot()
	if snap.BlockCorrect != 2 {
		t.Errorf("expected 2 correct, got %d", snap.BlockCorrect)
	}
	if len(snap.History) != 1 {
		t.Errorf("expected 1 history entry, got %d", len(snap.History))
	}

	m, _ = update(t, m, screen.ViewHistoryMsg{})
	if _, ok := m.router.Active().(*history.HistoryScreen); !ok {
		t.Fatalf("expected history screen, got %T", m.router.Active())
	}

	m, _ = update(t, m, screen.ClearHistoryMsg{})
	if len(m.machine.History()) != 0 {
		t.Error("expected history to be cleared")
	}

	m, _ = update(t, m, screen.BackToTopicsMsg{})
	if _, ok := m.router.Active().(*topics.TopicsScreen); !ok {
		t.Fatalf("expected topics screen, got %T", m.router.Active())
	}
}

func TestInvalidIntentIgnored(t *testing.T) {
	m := newTestModel(t, &fakeGenerator{})
	m, _ = update(t, m, screen.SelectAnswerMsg{Index: 1})
	if m.machine.Screen() != quiz.ScreenWelcome {
		t.Errorf("expected welcome, got %s", m.machine.Screen())
	}
}

func TestViewRendersActiveScreen(t *testing.T) {
	m := newTestModel(t, &fakeGenerator{})
	m, _ = update(t, m, screen.SelectLanguageMsg{Language: quiz.English})

	if v := m.View(); v.Content == nil {
		t.Fatal("expected view content")
	}
	if content := m.router.View(100, 30); !strings.Contains(content, "Genesis") {
		t.Error("expected topic list in view")
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := newTestModel(t, &fakeGenerator{})
	_, cmd := update(t, m, tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected QuitMsg")
	}
}
