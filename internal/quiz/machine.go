package quiz

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidEvent is returned when an event does not apply to the current
// state. The state is left untouched.
var ErrInvalidEvent = errors.New("event not valid in current state")

// Screen identifies which view the machine is in.
type Screen int

const (
	ScreenWelcome Screen = iota
	ScreenTopicSelect
	ScreenQuiz
	ScreenResults
	ScreenHistory
)

var screenNames = map[Screen]string{
	ScreenWelcome:     "welcome",
	ScreenTopicSelect: "topics",
	ScreenQuiz:        "quiz",
	ScreenResults:     "results",
	ScreenHistory:     "history",
}

func (s Screen) String() string {
	if n, ok := screenNames[s]; ok {
		return n
	}
	return fmt.Sprintf("screen(%d)", int(s))
}

// MarshalText encodes the screen by name.
func (s Screen) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Phase is the sub-state of the current question.
type Phase int

const (
	PhaseUnanswered Phase = iota
	PhaseAnswered
)

// Settings are the fixed parameters of a machine.
type Settings struct {
	QuestionsPerBlock int
	TimeLimit         time.Duration
	Language          Language
	Difficulty        Difficulty
}

// DefaultSettings returns five questions per block, twenty seconds per
// question, Italian and medium difficulty.
func DefaultSettings() Settings {
	return Settings{
		QuestionsPerBlock: 5,
		TimeLimit:         20 * time.Second,
		Language:          Italian,
		Difficulty:        Medium,
	}
}

// HistoryStore loads and saves the full result history. Implementations
// absorb their own failures: Load returns an empty list when nothing can
// be read and Save never reports an error to the machine.
type HistoryStore interface {
	Load(ctx context.Context) []SessionResult
	Save(ctx context.Context, results []SessionResult)
}

// FetchRequest asks the owner to generate a question batch. The result must
// be handed back through ResolveFetch with the same Generation.
type FetchRequest struct {
	Generation uint64
	TopicID    string
	Difficulty Difficulty
	Language   Language
	Count      int
}

// Effect lists the side effects an event requires from the owner.
type Effect struct {
	// Fetch is set when a question batch must be generated.
	Fetch *FetchRequest

	// TimerToken is non-zero when the countdown is live: the owner must call
	// Tick(TimerToken) after one TickInterval.
	TimerToken uint64
}

// Option configures a Machine.
type Option func(*Machine)

// WithClock overrides the time source used to stamp results.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// Machine is the quiz session state machine. It is not safe for concurrent
// use: the owner serializes events, fetch results and ticks.
type Machine struct {
	settings Settings
	store    HistoryStore
	now      func() time.Time

	screen     Screen
	language   Language
	topic      Topic
	difficulty Difficulty

	batch     []Question
	current   int
	answers   []Answer
	phase     Phase
	countdown Countdown

	totalScore   int
	blockScore   int
	blockCorrect int
	notification Notification

	loading    bool
	generation uint64
	errMsg     string

	history []SessionResult
}

// New creates a machine on the welcome screen and loads history from store.
func New(ctx context.Context, settings Settings, store HistoryStore, opts ...Option) *Machine {
	def := DefaultSettings()
	if settings.QuestionsPerBlock < 1 {
		settings.QuestionsPerBlock = def.QuestionsPerBlock
	}
	if settings.TimeLimit < TickInterval {
		settings.TimeLimit = def.TimeLimit
	}
	if !settings.Language.Valid() {
		settings.Language = def.Language
	}
	if !settings.Difficulty.Valid() {
		settings.Difficulty = def.Difficulty
	}

	m := &Machine{
		settings:   settings,
		store:      store,
		now:        time.Now,
		screen:     ScreenWelcome,
		language:   settings.Language,
		difficulty: settings.Difficulty,
		countdown:  NewCountdown(int(settings.TimeLimit / TickInterval)),
	}
	for _, opt := range opts {
		opt(m)
	}
	if store != nil {
		m.history = store.Load(ctx)
	}
	return m
}

// SelectLanguage picks the language and moves to topic selection.
func (m *Machine) SelectLanguage(lang Language) (Effect, error) {
	if m.screen != ScreenWelcome {
		return Effect{}, m.invalid("select language")
	}
	if !lang.Valid() {
		return Effect{}, fmt.Errorf("%w: unsupported language %q", ErrInvalidEvent, lang)
	}
	m.language = lang
	m.screen = ScreenTopicSelect
	return Effect{}, nil
}

// SelectDifficultyPreset sets the tier used for the next fetch.
func (m *Machine) SelectDifficultyPreset(d Difficulty) (Effect, error) {
	if m.screen != ScreenTopicSelect || m.loading {
		return Effect{}, m.invalid("select difficulty")
	}
	if !d.Valid() {
		return Effect{}, fmt.Errorf("%w: unknown difficulty %q", ErrInvalidEvent, d)
	}
	m.difficulty = d
	return Effect{}, nil
}

// SelectTopic starts a new run on topic id: the running score resets and a
// batch is requested at the current difficulty.
func (m *Machine) SelectTopic(id string) (Effect, error) {
	if m.screen != ScreenTopicSelect || m.loading {
		return Effect{}, m.invalid("select topic")
	}
	t, ok := LookupTopic(id)
	if !ok {
		return Effect{}, fmt.Errorf("%w: unknown topic %q", ErrInvalidEvent, id)
	}
	m.topic = t
	m.totalScore = 0
	return m.beginFetch(), nil
}

// PlayAgain requests another batch for the same topic at the current
// difficulty. The running score carries over.
func (m *Machine) PlayAgain() (Effect, error) {
	if m.screen != ScreenResults || m.loading || m.topic.ID == "" {
		return Effect{}, m.invalid("play again")
	}
	return m.beginFetch(), nil
}

// ResolveFetch delivers the outcome of the fetch tagged generation. Results
// for any other generation, or arriving when no fetch is outstanding, are
// dropped.
func (m *Machine) ResolveFetch(generation uint64, qs []Question, err error) Effect {
	if !m.loading || generation != m.generation {
		return Effect{}
	}
	m.loading = false

	var batch []Question
	if err == nil {
		batch, err = IngestBatch(qs, m.settings.QuestionsPerBlock)
	}
	if err != nil {
		m.batch = nil
		m.errMsg = err.Error()
		m.screen = ScreenTopicSelect
		return Effect{}
	}

	m.batch = batch
	m.current = 0
	m.answers = make([]Answer, 0, len(batch))
	m.screen = ScreenQuiz
	return m.armQuestion()
}

// CancelFetch abandons the outstanding fetch; its result will be ignored.
func (m *Machine) CancelFetch() Effect {
	if m.loading {
		m.generation++
		m.loading = false
	}
	return Effect{}
}

// SelectAnswer answers the current question. Answering an already answered
// question is a no-op.
func (m *Machine) SelectAnswer(index int) (Effect, error) {
	if m.screen != ScreenQuiz {
		return Effect{}, m.invalid("select answer")
	}
	if m.phase != PhaseUnanswered {
		return Effect{}, nil
	}
	q := m.batch[m.current]
	if index < 0 || index >= len(q.Options) {
		return Effect{}, fmt.Errorf("%w: option %d out of range", ErrInvalidEvent, index)
	}
	m.record(Answer{Selected: index, Correct: index == q.CorrectIndex})
	return Effect{}, nil
}

// Tick delivers one countdown unit for the arming identified by token.
func (m *Machine) Tick(token uint64) Effect {
	if m.screen != ScreenQuiz || m.phase != PhaseUnanswered {
		return Effect{}
	}
	expired, live := m.countdown.Tick(token)
	if expired {
		m.record(Answer{Selected: NoAnswer, Correct: false})
		return Effect{}
	}
	if live {
		return Effect{TimerToken: token}
	}
	return Effect{}
}

// TimeExpired forces the current question to time out.
func (m *Machine) TimeExpired() (Effect, error) {
	if m.screen != ScreenQuiz {
		return Effect{}, m.invalid("time expired")
	}
	if m.phase == PhaseUnanswered {
		m.record(Answer{Selected: NoAnswer, Correct: false})
	}
	return Effect{}, nil
}

// AdvanceQuestion moves past an answered question. After the last question
// the batch is scored, recorded in history and the difficulty adjusted.
func (m *Machine) AdvanceQuestion(ctx context.Context) (Effect, error) {
	if m.screen != ScreenQuiz {
		return Effect{}, m.invalid("advance question")
	}
	if m.phase != PhaseAnswered {
		return Effect{}, fmt.Errorf("%w: question not answered yet", ErrInvalidEvent)
	}
	if m.current < len(m.batch)-1 {
		m.current++
		return m.armQuestion(), nil
	}
	m.complete(ctx)
	return Effect{}, nil
}

// BackToTopics returns to topic selection, abandoning any pending fetch.
func (m *Machine) BackToTopics() (Effect, error) {
	if m.screen != ScreenResults && m.screen != ScreenHistory {
		return Effect{}, m.invalid("back to topics")
	}
	m.CancelFetch()
	m.screen = ScreenTopicSelect
	return Effect{}, nil
}

// ViewHistory shows the history list, abandoning any pending fetch.
func (m *Machine) ViewHistory() (Effect, error) {
	if m.screen != ScreenTopicSelect && m.screen != ScreenResults {
		return Effect{}, m.invalid("view history")
	}
	m.CancelFetch()
	m.screen = ScreenHistory
	return Effect{}, nil
}

// ClearHistory empties the history and saves the empty list.
func (m *Machine) ClearHistory(ctx context.Context) (Effect, error) {
	if m.screen != ScreenHistory {
		return Effect{}, m.invalid("clear history")
	}
	m.history = []SessionResult{}
	m.save(ctx)
	return Effect{}, nil
}

// DismissError clears the last generation error.
func (m *Machine) DismissError() {
	m.errMsg = ""
}

func (m *Machine) beginFetch() Effect {
	m.generation++
	m.loading = true
	m.errMsg = ""
	m.notification = NotificationNone
	return Effect{Fetch: &FetchRequest{
		Generation: m.generation,
		TopicID:    m.topic.ID,
		Difficulty: m.difficulty,
		Language:   m.language,
		Count:      m.settings.QuestionsPerBlock,
	}}
}

func (m *Machine) armQuestion() Effect {
	m.phase = PhaseUnanswered
	return Effect{TimerToken: m.countdown.Arm()}
}

// record moves the current question to answered. Every path out of the
// unanswered phase goes through here, which is what disarms the countdown.
func (m *Machine) record(a Answer) {
	m.countdown.Disarm()
	m.answers = append(m.answers, a)
	m.phase = PhaseAnswered
}

func (m *Machine) complete(ctx context.Context) {
	correct := 0
	for _, a := range m.answers {
		if a.Correct {
			correct++
		}
	}
	n := m.settings.QuestionsPerBlock

	m.blockCorrect = correct
	m.blockScore = ScoreFor(correct, m.difficulty)
	m.totalScore += m.blockScore

	result := SessionResult{
		TopicID:    m.topic.ID,
		Score:      m.blockScore,
		Correct:    correct,
		Total:      n,
		Difficulty: m.difficulty,
		Timestamp:  m.now().UTC(),
	}
	m.history = append([]SessionResult{result}, m.history...)
	m.save(ctx)

	m.difficulty, m.notification = NextDifficulty(m.difficulty, correct, n)
	m.countdown.Disarm()
	m.batch = nil
	m.screen = ScreenResults
}

func (m *Machine) save(ctx context.Context) {
	if m.store != nil {
		m.store.Save(ctx, m.history)
	}
}

func (m *Machine) invalid(event string) error {
	if m.loading {
		return fmt.Errorf("%w: %s while loading", ErrInvalidEvent, event)
	}
	return fmt.Errorf("%w: %s on %s screen", ErrInvalidEvent, event, m.screen)
}

// Screen returns the current screen.
func (m *Machine) Screen() Screen { return m.screen }

// Loading reports whether a fetch is outstanding.
func (m *Machine) Loading() bool { return m.loading }

// Difficulty returns the tier the next batch will use.
func (m *Machine) Difficulty() Difficulty { return m.difficulty }

// Language returns the selected language.
func (m *Machine) Language() Language { return m.language }

// Settings returns the machine's fixed parameters.
func (m *Machine) Settings() Settings { return m.settings }

// TimerArmed reports whether the countdown expects ticks.
func (m *Machine) TimerArmed() bool { return m.countdown.Armed() }

// History returns a copy of the result history, most recent first.
func (m *Machine) History() []SessionResult {
	out := make([]SessionResult, len(m.history))
	copy(out, m.history)
	return out
}
