// Package quiz holds the client-side state machine for one quiz
// attempt: setup → in progress → result, with a per-question
// unanswered/answered sub-phase. The flow never talks to the backend
// itself; the quiz screen issues the remote calls and feeds responses
// back in, so every transition here is synchronous and deterministic.
package quiz

import (
	"errors"
	"time"

	"github.com/HeoJaeryoung/aice-project/internal/api"
)

// Phase is the top-level position of the quiz flow.
type Phase int

const (
	PhaseSetup      Phase = iota // choosing topic, difficulty, count
	PhaseInProgress              // one question visible at a time
	PhaseResult                  // final score shown
)

// Difficulties are the accepted difficulty levels, in display order.
var Difficulties = []string{"easy", "medium", "hard"}

// QuestionCounts are the selectable session sizes.
var QuestionCounts = []int{3, 5, 10}

var (
	// ErrEmptySession rejects a created session carrying no questions;
	// the flow stays in setup.
	ErrEmptySession = errors.New("session has no questions")

	// ErrAnswered rejects selection changes and resubmission once the
	// current question is answered.
	ErrAnswered = errors.New("question already answered")

	// ErrNoSelection rejects submission without a selected option.
	ErrNoSelection = errors.New("no option selected")

	// ErrNotInProgress rejects question operations outside the
	// in-progress phase.
	ErrNotInProgress = errors.New("quiz not in progress")
)

// Flow is the transient state of a single quiz attempt. Fields are
// exported for rendering; mutation goes through the methods so the
// phase invariants hold.
type Flow struct {
	Phase Phase

	// Topics is static reference data fetched once outside the state
	// machine; Reset retains it.
	Topics []api.Topic

	SessionID string
	Questions []api.SessionQuestion

	// Index is the current question position within Questions.
	Index int

	// Selected is the lowercase option label ("a".."d"), or "" while
	// nothing is selected.
	Selected string

	// Result holds the grading of the current question between
	// submission and advancing; nil means unanswered.
	Result *api.AnswerResult

	CorrectCount int

	// QuestionStart is when the current question was first shown.
	QuestionStart time.Time

	// QuizStart is when the attempt entered in-progress.
	QuizStart time.Time

	// TotalSeconds is the whole-attempt duration, fixed on entering
	// the result phase.
	TotalSeconds int
}

// New creates a Flow in the setup phase with the given topic catalog.
func New(topics []api.Topic) *Flow {
	return &Flow{
		Phase:  PhaseSetup,
		Topics: topics,
	}
}

// Begin transitions setup → in progress using a session created by the
// backend. A session with no questions is rejected and the flow stays
// in setup, so the caller surfaces it as a setup-time failure.
func (f *Flow) Begin(sess *api.SessionCreateResponse) error {
	if len(sess.Questions) == 0 {
		return ErrEmptySession
	}

	now := time.Now()
	f.Phase = PhaseInProgress
	f.SessionID = sess.SessionID
	f.Questions = sess.Questions
	f.Index = 0
	f.Selected = ""
	f.Result = nil
	f.CorrectCount = 0
	f.QuizStart = now
	f.QuestionStart = now
	f.TotalSeconds = 0
	return nil
}

// Current returns the question on display, or nil outside in-progress.
func (f *Flow) Current() *api.SessionQuestion {
	if f.Phase != PhaseInProgress || f.Index >= len(f.Questions) {
		return nil
	}
	return &f.Questions[f.Index]
}

// Answered reports whether the current question's sub-phase is
// answered. Debouncing duplicate submissions keys off this, not off a
// loading flag.
func (f *Flow) Answered() bool {
	return f.Result != nil
}

// Select records the chosen option, overwriting any previous selection.
// Selection is a pure local mutation and is locked once answered.
func (f *Flow) Select(option string) error {
	if f.Phase != PhaseInProgress {
		return ErrNotInProgress
	}
	if f.Answered() {
		return ErrAnswered
	}
	switch option {
	case "a", "b", "c", "d":
		f.Selected = option
		return nil
	}
	return errors.New("invalid option " + option)
}

// CanSubmit reports whether a submission may be issued: in progress,
// an option selected, not yet answered.
func (f *Flow) CanSubmit() bool {
	return f.Phase == PhaseInProgress && f.Selected != "" && !f.Answered()
}

// SubmitCheck validates the submission preconditions, returning the
// specific local validation error when they fail.
func (f *Flow) SubmitCheck() error {
	if f.Phase != PhaseInProgress {
		return ErrNotInProgress
	}
	if f.Answered() {
		return ErrAnswered
	}
	if f.Selected == "" {
		return ErrNoSelection
	}
	return nil
}

// ElapsedSeconds is the time the current question has been on display,
// in whole seconds, floor-rounded.
func (f *Flow) ElapsedSeconds() int {
	return int(time.Since(f.QuestionStart).Seconds())
}

// RecordResult installs the backend's grading for the current question,
// moving its sub-phase to answered and accumulating the correct count.
// A result arriving for an already-answered question is dropped, so the
// count can never double.
func (f *Flow) RecordResult(res *api.AnswerResult) {
	if f.Phase != PhaseInProgress || f.Answered() {
		return
	}
	f.Result = res
	if res.IsCorrect {
		f.CorrectCount++
	}
}

// IsLast reports whether the current question is the final one.
func (f *Flow) IsLast() bool {
	return f.Index >= len(f.Questions)-1
}

// Advance moves past an answered question: to the next question with a
// fresh sub-phase and timer, or — after the last question — to the
// result phase, fixing the attempt's total duration. Returns true when
// the flow entered the result phase.
func (f *Flow) Advance() bool {
	if f.Phase != PhaseInProgress || !f.Answered() {
		return false
	}

	if f.IsLast() {
		f.Phase = PhaseResult
		f.TotalSeconds = int(time.Since(f.QuizStart).Seconds())
		return true
	}

	f.Index++
	f.Selected = ""
	f.Result = nil
	f.QuestionStart = time.Now()
	return false
}

// Accuracy is the final score in percent. Defined as 0 for an attempt
// with no questions.
func (f *Flow) Accuracy() float64 {
	if len(f.Questions) == 0 {
		return 0
	}
	return float64(f.CorrectCount) / float64(len(f.Questions)) * 100
}

// Reset returns result → setup, clearing all transient counters while
// retaining the topic catalog.
func (f *Flow) Reset() {
	*f = Flow{
		Phase:  PhaseSetup,
		Topics: f.Topics,
	}
}
