package quiz

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory HistoryStore that counts saves.
type memStore struct {
	results []SessionResult
	saves   int
}

func (s *memStore) Load(context.Context) []SessionResult {
	return append([]SessionResult(nil), s.results...)
}

func (s *memStore) Save(_ context.Context, results []SessionResult) {
	s.results = append([]SessionResult(nil), results...)
	s.saves++
}

var fixedNow = time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)

func sampleQuestions(n int) []Question {
	qs := make([]Question, n)
	for i := range qs {
		qs[i] = Question{
			Text:         fmt.Sprintf("Question %d?", i+1),
			Options:      []string{"A", "B", "C", "D"},
			CorrectIndex: i % OptionsPerQuestion,
		}
	}
	return qs
}

func newTestMachine(t *testing.T, store *memStore) *Machine {
	t.Helper()
	settings := DefaultSettings()
	settings.TimeLimit = 3 * time.Second
	return New(context.Background(), settings, store, WithClock(func() time.Time { return fixedNow }))
}

// startQuiz drives the machine from welcome into a loaded batch on topic.
func startQuiz(t *testing.T, m *Machine, topic string, qs []Question) Effect {
	t.Helper()
	_, err := m.SelectLanguage(English)
	require.NoError(t, err)
	eff, err := m.SelectTopic(topic)
	require.NoError(t, err)
	require.NotNil(t, eff.Fetch)
	return m.ResolveFetch(eff.Fetch.Generation, qs, nil)
}

// playBatch answers every question of the current batch with correctCount
// right answers followed by wrong ones, then advances past the last.
func playBatch(t *testing.T, m *Machine, correctCount int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; m.Screen() == ScreenQuiz; i++ {
		q := m.batch[m.current]
		idx := (q.CorrectIndex + 1) % OptionsPerQuestion
		if i < correctCount {
			idx = q.CorrectIndex
		}
		_, err := m.SelectAnswer(idx)
		require.NoError(t, err)
		_, err = m.AdvanceQuestion(ctx)
		require.NoError(t, err)
	}
}

func TestMachine_StartsOnWelcomeWithDefaults(t *testing.T) {
	m := newTestMachine(t, &memStore{})
	snap := m.Snapshot()
	assert.Equal(t, ScreenWelcome, snap.Screen)
	assert.Equal(t, Italian, snap.Language)
	assert.Equal(t, Medium, snap.Difficulty)
	assert.Equal(t, 5, snap.QuestionsPerBlock)
}

func TestMachine_LoadsHistoryAtStartup(t *testing.T) {
	store := &memStore{results: []SessionResult{{TopicID: "Genesis", Score: 30}}}
	m := newTestMachine(t, store)
	assert.Len(t, m.History(), 1)
}

func TestMachine_SelectLanguage(t *testing.T) {
	m := newTestMachine(t, &memStore{})

	_, err := m.SelectLanguage(Language("xx"))
	assert.ErrorIs(t, err, ErrInvalidEvent)

	_, err = m.SelectLanguage(German)
	require.NoError(t, err)
	assert.Equal(t, ScreenTopicSelect, m.Screen())
	assert.Equal(t, German, m.Language())

	_, err = m.SelectLanguage(French)
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestMachine_SelectTopicRequestsFetch(t *testing.T) {
	m := newTestMachine(t, &memStore{})
	_, _ = m.SelectLanguage(Spanish)
	_, err := m.SelectDifficultyPreset(Hard)
	require.NoError(t, err)

	eff, err := m.SelectTopic("Exodus")
	require.NoError(t, err)
	require.NotNil(t, eff.Fetch)
	assert.Equal(t, FetchRequest{
		Generation: eff.Fetch.Generation,
		TopicID:    "Exodus",
		Difficulty: Hard,
		Language:   Spanish,
		Count:      5,
	}, *eff.Fetch)
	assert.True(t, m.Loading())

	// Re-entry while loading is rejected.
	_, err = m.SelectTopic("Genesis")
	assert.ErrorIs(t, err, ErrInvalidEvent)
	_, err = m.SelectDifficultyPreset(Easy)
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestMachine_UnknownTopic(t *testing.T) {
	m := newTestMachine(t, &memStore{})
	_, _ = m.SelectLanguage(English)
	_, err := m.SelectTopic("Leviticus Trivia Deluxe")
	assert.ErrorIs(t, err, ErrInvalidEvent)
	assert.False(t, m.Loading())
}

func TestMachine_FetchTruncatesToBatchSize(t *testing.T) {
	m := newTestMachine(t, &memStore{})
	qs := sampleQuestions(8)
	eff := startQuiz(t, m, "Genesis", qs)

	assert.NotZero(t, eff.TimerToken)
	assert.Equal(t, ScreenQuiz, m.Screen())
	assert.False(t, m.Loading())
	require.Len(t, m.batch, 5)
	for i := range m.batch {
		assert.Equal(t, qs[i].Text, m.batch[i].Text)
	}
}

func TestMachine_ShortBatchReturnsToTopics(t *testing.T) {
	for _, got := range []int{0, 1, 4} {
		t.Run(fmt.Sprintf("%d questions", got), func(t *testing.T) {
			m := newTestMachine(t, &memStore{})
			eff := startQuiz(t, m, "Genesis", sampleQuestions(got))

			assert.Zero(t, eff.TimerToken)
			snap := m.Snapshot()
			assert.Equal(t, ScreenTopicSelect, snap.Screen)
			assert.False(t, snap.Loading)
			assert.Contains(t, snap.Error, "expected 5")
			assert.Nil(t, snap.Quiz)
		})
	}
}

func TestMachine_FetchErrorReturnsToTopics(t *testing.T) {
	m := newTestMachine(t, &memStore{})
	_, _ = m.SelectLanguage(English)
	eff, _ := m.SelectTopic("Gospels")

	m.ResolveFetch(eff.Fetch.Generation, nil, errors.New("network down"))
	snap := m.Snapshot()
	assert.Equal(t, ScreenTopicSelect, snap.Screen)
	assert.Equal(t, "network down", snap.Error)
	assert.False(t, snap.Loading)

	m.DismissError()
	assert.Empty(t, m.Snapshot().Error)
}

func TestMachine_StaleFetchIgnored(t *testing.T) {
	m := newTestMachine(t, &memStore{})
	_, _ = m.SelectLanguage(English)
	eff, _ := m.SelectTopic("Gospels")
	m.CancelFetch()
	assert.False(t, m.Loading())

	m.ResolveFetch(eff.Fetch.Generation, sampleQuestions(5), nil)
	assert.Equal(t, ScreenTopicSelect, m.Screen())

	next, err := m.SelectTopic("Epistles")
	require.NoError(t, err)
	assert.Greater(t, next.Fetch.Generation, eff.Fetch.Generation)

	// The old generation still cannot land on the new fetch.
	m.ResolveFetch(eff.Fetch.Generation, sampleQuestions(5), nil)
	assert.True(t, m.Loading())

	m.ResolveFetch(next.Fetch.Generation, sampleQuestions(5), nil)
	assert.Equal(t, ScreenQuiz, m.Screen())
}

func TestMachine_SelectAnswerIsFinal(t *testing.T) {
	m := newTestMachine(t, &memStore{})
	startQuiz(t, m, "Genesis", sampleQuestions(5))

	// Question 1 has correct index 0.
	_, err := m.SelectAnswer(2)
	require.NoError(t, err)
	_, err = m.SelectAnswer(0)
	require.NoError(t, err)

	v := m.Snapshot().Quiz
	require.NotNil(t, v)
	assert.True(t, v.Answered)
	assert.Equal(t, 2, v.Selected)
	assert.Equal(t, 0, v.CorrectIndex)
	assert.Equal(t, []bool{false}, v.Results)
	assert.False(t, m.TimerArmed())
}

func TestMachine_SelectAnswerOutOfRange(t *testing.T) {
	m := newTestMachine(t, &memStore{})
	startQuiz(t, m, "Genesis", sampleQuestions(5))

	_, err := m.SelectAnswer(4)
	assert.ErrorIs(t, err, ErrInvalidEvent)
	assert.False(t, m.Snapshot().Quiz.Answered)
}

func TestMachine_CorrectIndexHiddenUntilAnswered(t *testing.T) {
	m := newTestMachine(t, &memStore{})
	startQuiz(t, m, "Genesis", sampleQuestions(5))

	v := m.Snapshot().Quiz
	assert.Equal(t, -1, v.CorrectIndex)
	assert.Equal(t, NoAnswer, v.Selected)
	assert.Equal(t, 3, v.TimeRemaining)
}

func TestMachine_AdvanceRequiresAnswer(t *testing.T) {
	m := newTestMachine(t, &memStore{})
	startQuiz(t, m, "Genesis", sampleQuestions(5))

	_, err := m.AdvanceQuestion(context.Background())
	assert.ErrorIs(t, err, ErrInvalidEvent)
	assert.Equal(t, 0, m.Snapshot().Quiz.Index)
}

func TestMachine_TimeoutRecordsIncorrect(t *testing.T) {
	m := newTestMachine(t, &memStore{})
	eff := startQuiz(t, m, "Genesis", sampleQuestions(5))

	tok := eff.TimerToken
	for i := 0; i < 2; i++ {
		next := m.Tick(tok)
		assert.Equal(t, tok, next.TimerToken)
	}
	last := m.Tick(tok)
	assert.Zero(t, last.TimerToken)

	v := m.Snapshot().Quiz
	assert.True(t, v.Answered)
	assert.Equal(t, NoAnswer, v.Selected)
	assert.Equal(t, []bool{false}, v.Results)

	// A selection after the timeout changes nothing.
	_, err := m.SelectAnswer(0)
	require.NoError(t, err)
	assert.Equal(t, []bool{false}, m.Snapshot().Quiz.Results)
}

func TestMachine_TicksAfterAnswerAreIgnored(t *testing.T) {
	m := newTestMachine(t, &memStore{})
	eff := startQuiz(t, m, "Genesis", sampleQuestions(5))

	_, _ = m.SelectAnswer(0)
	remaining := m.Snapshot().Quiz.TimeRemaining
	next := m.Tick(eff.TimerToken)
	assert.Zero(t, next.TimerToken)
	assert.Equal(t, remaining, m.Snapshot().Quiz.TimeRemaining)
}

func TestMachine_AdvanceRearmsWithFreshToken(t *testing.T) {
	m := newTestMachine(t, &memStore{})
	eff := startQuiz(t, m, "Genesis", sampleQuestions(5))

	_, _ = m.SelectAnswer(0)
	next, err := m.AdvanceQuestion(context.Background())
	require.NoError(t, err)
	assert.NotZero(t, next.TimerToken)
	assert.NotEqual(t, eff.TimerToken, next.TimerToken)

	// The previous question's token cannot drive the new countdown.
	m.Tick(eff.TimerToken)
	assert.Equal(t, 3, m.Snapshot().Quiz.TimeRemaining)
}

func TestMachine_TimeExpiredEvent(t *testing.T) {
	m := newTestMachine(t, &memStore{})
	startQuiz(t, m, "Genesis", sampleQuestions(5))

	_, err := m.TimeExpired()
	require.NoError(t, err)
	assert.False(t, m.TimerArmed())
	assert.True(t, m.Snapshot().Quiz.Answered)
}

func TestMachine_TimeoutsStillCompleteBatch(t *testing.T) {
	store := &memStore{}
	m := newTestMachine(t, store)
	startQuiz(t, m, "Genesis", sampleQuestions(5))

	for m.Screen() == ScreenQuiz {
		_, err := m.TimeExpired()
		require.NoError(t, err)
		_, err = m.AdvanceQuestion(context.Background())
		require.NoError(t, err)
	}

	snap := m.Snapshot()
	assert.Equal(t, ScreenResults, snap.Screen)
	assert.Equal(t, 0, snap.BlockCorrect)
	assert.Equal(t, Easy, snap.Difficulty)
	require.Len(t, store.results, 1)
	assert.Equal(t, 5, store.results[0].Total)
}

func TestMachine_WorkedExample(t *testing.T) {
	store := &memStore{}
	m := newTestMachine(t, store)
	startQuiz(t, m, "Genesis", sampleQuestions(5))

	playBatch(t, m, 4)

	snap := m.Snapshot()
	assert.Equal(t, ScreenResults, snap.Screen)
	assert.Equal(t, 4, snap.BlockCorrect)
	assert.Equal(t, 80, snap.BlockScore)
	assert.Equal(t, 80, snap.TotalScore)
	assert.Equal(t, 80, snap.Percent())
	assert.Equal(t, Hard, snap.Difficulty)
	assert.Equal(t, NotificationIncreased, snap.Notification)
	assert.False(t, m.TimerArmed())

	require.Len(t, store.results, 1)
	assert.Equal(t, SessionResult{
		TopicID:    "Genesis",
		Score:      80,
		Correct:    4,
		Total:      5,
		Difficulty: Medium,
		Timestamp:  fixedNow,
	}, store.results[0])
}

func TestMachine_SmallBlockMissesDoNotPromote(t *testing.T) {
	settings := DefaultSettings()
	settings.QuestionsPerBlock = 2
	m := New(context.Background(), settings, &memStore{}, WithClock(func() time.Time { return fixedNow }))
	startQuiz(t, m, "Genesis", sampleQuestions(2))

	playBatch(t, m, 0)

	snap := m.Snapshot()
	require.Equal(t, ScreenResults, snap.Screen)
	assert.Equal(t, 0, snap.BlockCorrect)
	assert.Equal(t, Medium, snap.Difficulty)
	assert.Equal(t, NotificationNone, snap.Notification)
}

func TestMachine_PlayAgainKeepsScoreAndDifficulty(t *testing.T) {
	m := newTestMachine(t, &memStore{})
	startQuiz(t, m, "Genesis", sampleQuestions(5))
	playBatch(t, m, 4) // medium -> hard, 80 points

	eff, err := m.PlayAgain()
	require.NoError(t, err)
	require.NotNil(t, eff.Fetch)
	assert.Equal(t, Hard, eff.Fetch.Difficulty)
	assert.Equal(t, "Genesis", eff.Fetch.TopicID)
	assert.Equal(t, NotificationNone, m.Snapshot().Notification)
	assert.Equal(t, ScreenResults, m.Screen())

	m.ResolveFetch(eff.Fetch.Generation, sampleQuestions(5), nil)
	playBatch(t, m, 2) // hard, 2 correct: 60 points, unchanged

	snap := m.Snapshot()
	assert.Equal(t, 60, snap.BlockScore)
	assert.Equal(t, 140, snap.TotalScore)
	assert.Equal(t, Hard, snap.Difficulty)
	assert.Equal(t, NotificationNone, snap.Notification)
}

func TestMachine_NewTopicResetsScore(t *testing.T) {
	m := newTestMachine(t, &memStore{})
	startQuiz(t, m, "Genesis", sampleQuestions(5))
	playBatch(t, m, 5)
	assert.Equal(t, 100, m.Snapshot().TotalScore)

	_, err := m.BackToTopics()
	require.NoError(t, err)
	eff, err := m.SelectTopic("Exodus")
	require.NoError(t, err)
	assert.Equal(t, 0, m.Snapshot().TotalScore)

	// Difficulty survives the topic change.
	assert.Equal(t, Medium, eff.Fetch.Difficulty)
}

func TestMachine_PlayAgainFailureReturnsToTopics(t *testing.T) {
	m := newTestMachine(t, &memStore{})
	startQuiz(t, m, "Genesis", sampleQuestions(5))
	playBatch(t, m, 3)

	eff, _ := m.PlayAgain()
	m.ResolveFetch(eff.Fetch.Generation, sampleQuestions(2), nil)
	assert.Equal(t, ScreenTopicSelect, m.Screen())
	assert.NotEmpty(t, m.Snapshot().Error)
}

func TestMachine_HistoryNavigation(t *testing.T) {
	m := newTestMachine(t, &memStore{})
	_, _ = m.SelectLanguage(English)

	_, err := m.ViewHistory()
	require.NoError(t, err)
	assert.Equal(t, ScreenHistory, m.Screen())

	_, err = m.BackToTopics()
	require.NoError(t, err)
	assert.Equal(t, ScreenTopicSelect, m.Screen())

	// From results, history still returns to topic selection.
	eff, _ := m.SelectTopic("Genesis")
	m.ResolveFetch(eff.Fetch.Generation, sampleQuestions(5), nil)
	playBatch(t, m, 1)
	_, err = m.ViewHistory()
	require.NoError(t, err)
	assert.Len(t, m.Snapshot().History, 1)
	_, _ = m.BackToTopics()
	assert.Equal(t, ScreenTopicSelect, m.Screen())
}

func TestMachine_ViewHistoryCancelsPendingFetch(t *testing.T) {
	m := newTestMachine(t, &memStore{})
	startQuiz(t, m, "Genesis", sampleQuestions(5))
	playBatch(t, m, 2)

	eff, _ := m.PlayAgain()
	_, err := m.ViewHistory()
	require.NoError(t, err)
	assert.False(t, m.Loading())

	m.ResolveFetch(eff.Fetch.Generation, sampleQuestions(5), nil)
	assert.Equal(t, ScreenHistory, m.Screen())
}

func TestMachine_ClearHistory(t *testing.T) {
	store := &memStore{results: []SessionResult{{TopicID: "Genesis"}, {TopicID: "Exodus"}}}
	m := newTestMachine(t, store)
	_, _ = m.SelectLanguage(English)

	_, err := m.ClearHistory(context.Background())
	assert.ErrorIs(t, err, ErrInvalidEvent)

	_, _ = m.ViewHistory()
	_, err = m.ClearHistory(context.Background())
	require.NoError(t, err)
	assert.Empty(t, m.History())
	assert.Empty(t, store.results)
	assert.Equal(t, 1, store.saves)

	// A fresh machine over the same store sees the empty list.
	reloaded := newTestMachine(t, store)
	assert.Empty(t, reloaded.History())
}

func TestMachine_HistoryIsMostRecentFirst(t *testing.T) {
	store := &memStore{}
	m := newTestMachine(t, store)
	startQuiz(t, m, "Genesis", sampleQuestions(5))
	playBatch(t, m, 2)

	_, _ = m.BackToTopics()
	eff, _ := m.SelectTopic("Revelation")
	m.ResolveFetch(eff.Fetch.Generation, sampleQuestions(5), nil)
	playBatch(t, m, 3)

	h := m.History()
	require.Len(t, h, 2)
	assert.Equal(t, "Revelation", h[0].TopicID)
	assert.Equal(t, "Genesis", h[1].TopicID)
	assert.Equal(t, 2, store.saves)
}

func TestMachine_InvalidEventsLeaveStateUntouched(t *testing.T) {
	m := newTestMachine(t, &memStore{})
	before := m.Snapshot()

	_, err := m.SelectAnswer(0)
	assert.ErrorIs(t, err, ErrInvalidEvent)
	_, err = m.PlayAgain()
	assert.ErrorIs(t, err, ErrInvalidEvent)
	_, err = m.BackToTopics()
	assert.ErrorIs(t, err, ErrInvalidEvent)
	_, err = m.AdvanceQuestion(context.Background())
	assert.ErrorIs(t, err, ErrInvalidEvent)

	assert.Equal(t, before, m.Snapshot())
}

func TestScreenString(t *testing.T) {
	assert.Equal(t, "topics", ScreenTopicSelect.String())
	b, err := ScreenResults.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "results", string(b))
}
