// Package quiz decides when to interrupt viewing with a comprehension check
// and grades the answer.
package quiz

import (
	"errors"
	"fmt"
)

// DefaultEvery is the number of fully viewed videos between quizzes.
const DefaultEvery = 5

var (
	ErrNoSelection     = errors.New("no answer selected")
	ErrAlreadyAnswered = errors.New("question already answered")
	ErrOptionRange     = errors.New("option out of range")
)

// Tracker counts fully viewed videos for one app session.
type Tracker struct {
	every int
	count int
}

// NewTracker fires every n views. Non-positive n falls back to DefaultEvery.
func NewTracker(n int) *Tracker {
	if n <= 0 {
		n = DefaultEvery
	}
	return &Tracker{every: n}
}

// Record counts one completed video and reports whether a quiz is due.
func (t *Tracker) Record() bool {
	t.count++
	return t.count%t.every == 0
}

// Count returns the number of recorded views.
func (t *Tracker) Count() int { return t.count }

// Every returns the quiz interval.
func (t *Tracker) Every() int { return t.every }

// Question is a multiple-choice check.
type Question struct {
	ID      string
	Prompt  string
	Options []string
	Correct string
}

// Piaget is the stock question shown after every interval.
var Piaget = Question{
	ID:     "piaget-formal-operational",
	Prompt: "According to Piaget's theory, during which stage do children develop abstract reasoning?",
	Options: []string{
		"Sensorimotor stage",
		"Preoperational stage",
		"Concrete operational stage",
		"Formal operational stage",
	},
	Correct: "Formal operational stage",
}

// Attempt walks one question through select, check and continue.
type Attempt struct {
	Question Question
	selected int
	answered bool
}

// NewAttempt starts an attempt with nothing selected.
func NewAttempt(q Question) *Attempt {
	return &Attempt{Question: q, selected: -1}
}

// Select picks option i. It is ignored once the attempt is checked.
func (a *Attempt) Select(i int) error {
	if a.answered {
		return ErrAlreadyAnswered
	}
	if i < 0 || i >= len(a.Question.Options) {
		return fmt.Errorf("%w: %d", ErrOptionRange, i)
	}
	a.selected = i
	return nil
}

// Selected returns the selected option index, or -1.
func (a *Attempt) Selected() int { return a.selected }

// Answered reports whether Check succeeded.
func (a *Attempt) Answered() bool { return a.answered }

// Check grades the selection.
func (a *Attempt) Check() (Result, error) {
	if a.answered {
		return Result{}, ErrAlreadyAnswered
	}
	if a.selected < 0 {
		return Result{}, ErrNoSelection
	}
	a.answered = true
	return a.Result(), nil
}

// Result returns the grade. It is only meaningful after Check.
func (a *Attempt) Result() Result {
	var answer string
	if a.selected >= 0 {
		answer = a.Question.Options[a.selected]
	}
	return Result{
		QuestionID: a.Question.ID,
		Answer:     answer,
		Correct:    answer == a.Question.Correct,
		Expected:   a.Question.Correct,
	}
}

// Result is a graded answer.
type Result struct {
	QuestionID string
	Answer     string
	Expected   string
	Correct    bool
}

// Feedback is the message shown after checking.
func (r Result) Feedback() string {
	if r.Correct {
		return "Correct! Great job."
	}
	return fmt.Sprintf("Not quite. The correct answer is %q.", r.Expected)
}

// IsCorrectOption reports whether option i is the right answer. Used to
// highlight the correct option after checking.
func (q Question) IsCorrectOption(i int) bool {
	return i >= 0 && i < len(q.Options) && q.Options[i] == q.Correct
}
