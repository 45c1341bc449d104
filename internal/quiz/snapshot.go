package quiz

// Snapshot is a read-only view of the machine for rendering.
type Snapshot struct {
	Screen            Screen          `json:"screen"`
	Language          Language        `json:"language"`
	Topic             *Topic          `json:"topic,omitempty"`
	Difficulty        Difficulty      `json:"difficulty"`
	Loading           bool            `json:"loading"`
	Error             string          `json:"error,omitempty"`
	Notification      Notification    `json:"notification,omitempty"`
	TotalScore        int             `json:"totalScore"`
	BlockScore        int             `json:"blockScore"`
	BlockCorrect      int             `json:"blockCorrect"`
	QuestionsPerBlock int             `json:"questionsPerBlock"`
	Quiz              *QuizView       `json:"quiz,omitempty"`
	History           []SessionResult `json:"history,omitempty"`
}

// QuizView describes the question being played. CorrectIndex stays -1
// until the question is answered.
type QuizView struct {
	Index         int      `json:"index"`
	Total         int      `json:"total"`
	Text          string   `json:"question"`
	Options       []string `json:"options"`
	Answered      bool     `json:"answered"`
	Selected      int      `json:"selected"`
	CorrectIndex  int      `json:"correctIndex"`
	TimeRemaining int      `json:"timeRemaining"`
	TimeLimit     int      `json:"timeLimit"`
	Results       []bool   `json:"results"`
}

// Percent returns the block's correct share as a whole percentage.
func (s Snapshot) Percent() int {
	return Percent(s.BlockCorrect, s.QuestionsPerBlock)
}

// Snapshot captures the current state.
func (m *Machine) Snapshot() Snapshot {
	s := Snapshot{
		Screen:            m.screen,
		Language:          m.language,
		Difficulty:        m.difficulty,
		Loading:           m.loading,
		Error:             m.errMsg,
		Notification:      m.notification,
		TotalScore:        m.totalScore,
		BlockScore:        m.blockScore,
		BlockCorrect:      m.blockCorrect,
		QuestionsPerBlock: m.settings.QuestionsPerBlock,
	}
	if m.topic.ID != "" {
		t := m.topic
		s.Topic = &t
	}

	if m.screen == ScreenQuiz && m.current < len(m.batch) {
		q := m.batch[m.current]
		v := &QuizView{
			Index:         m.current,
			Total:         len(m.batch),
			Text:          q.Text,
			Options:       append([]string(nil), q.Options...),
			Selected:      NoAnswer,
			CorrectIndex:  -1,
			TimeRemaining: m.countdown.Remaining(),
			TimeLimit:     m.countdown.Limit(),
			Results:       make([]bool, len(m.answers)),
		}
		for i, a := range m.answers {
			v.Results[i] = a.Correct
		}
		if m.phase == PhaseAnswered && len(m.answers) > m.current {
			v.Answered = true
			v.Selected = m.answers[m.current].Selected
			v.CorrectIndex = q.CorrectIndex
		}
		s.Quiz = v
	}

	if m.screen == ScreenHistory {
		s.History = m.History()
	}
	return s
}
