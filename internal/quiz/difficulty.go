package quiz

import (
	"fmt"
	"slices"
	"strings"
)

// Difficulty is a question difficulty tier. Tiers are strictly ordered from
// easiest to hardest; see Difficulties.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// MinQuestionsPerBlock is the smallest batch for which the promotion and
// demotion ranges of NextDifficulty are disjoint.
const MinQuestionsPerBlock = 4

// PointsPerCorrect is the base score of one correct answer on the easiest tier.
const PointsPerCorrect = 10

// difficulties lists the tiers in ascending order.
var difficulties = []Difficulty{Easy, Medium, Hard}

// Difficulties returns all tiers, easiest first.
func Difficulties() []Difficulty {
	return slices.Clone(difficulties)
}

// Index returns the 0-based position of d in ascending order, or -1 if d is
// not a known tier.
func (d Difficulty) Index() int {
	return slices.Index(difficulties, d)
}

// Valid reports whether d is a known tier.
func (d Difficulty) Valid() bool {
	return d.Index() >= 0
}

func (d Difficulty) String() string {
	return string(d)
}

// ParseDifficulty parses a tier name, case-insensitively.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("invalid difficulty %q: must be one of easy, medium, hard", s)
	}
	return d, nil
}

// Notification is the user-facing outcome of a difficulty adjustment.
type Notification string

const (
	NotificationNone      Notification = ""
	NotificationIncreased Notification = "difficulty_increased"
	NotificationDecreased Notification = "difficulty_decreased"
)

// Message returns the English text for the notification.
func (n Notification) Message() string {
	switch n {
	case NotificationIncreased:
		return "Great job! Difficulty increased."
	case NotificationDecreased:
		return "Difficulty decreased. Keep practicing!"
	default:
		return ""
	}
}

// NextDifficulty computes the tier for the next batch after a batch of n
// questions with correct right answers.
//
// A batch scoring n-2 or n-1 promotes one tier; a batch scoring 0 or 1
// demotes one tier. Any other count, or a move past either end of the
// tier list, leaves the tier unchanged and yields NotificationNone. A
// perfect batch (n of n) does not promote.
//
// Below MinQuestionsPerBlock the two ranges meet. A promoting count must
// then lie above the demotion range and a demoting count below the
// promotion range, so a count claimed by both moves nothing.
func NextDifficulty(current Difficulty, correct, n int) (Difficulty, Notification) {
	idx := current.Index()
	if idx < 0 {
		return current, NotificationNone
	}

	promote := (correct == n-2 || correct == n-1) && correct > 1
	demote := (correct == 0 || correct == 1) && correct < n-2

	highest := len(difficulties) - 1
	switch {
	case promote && idx < highest:
		return difficulties[idx+1], NotificationIncreased
	case demote && idx > 0:
		return difficulties[idx-1], NotificationDecreased
	}
	return current, NotificationNone
}

// ScoreFor returns the score of a completed batch: each correct answer is
// worth PointsPerCorrect multiplied by the 1-based tier position.
func ScoreFor(correct int, d Difficulty) int {
	idx := d.Index()
	if idx < 0 {
		idx = 0
	}
	return correct * PointsPerCorrect * (idx + 1)
}
