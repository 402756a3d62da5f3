package quiz

import (
	"errors"
	"testing"
	"time"

	"github.com/HeoJaeryoung/aice-project/internal/api"
)

func makeSession(n int) *api.SessionCreateResponse {
	qs := make([]api.SessionQuestion, n)
	for i := range qs {
		qs[i] = api.SessionQuestion{
			QuestionID:   i + 1,
			QuestionText: "question",
			OptionA:      "A", OptionB: "B", OptionC: "C", OptionD: "D",
		}
	}
	return &api.SessionCreateResponse{SessionID: "s1", Questions: qs}
}

func TestBeginRejectsEmptySession(t *testing.T) {
	f := New(nil)
	err := f.Begin(&api.SessionCreateResponse{SessionID: "s1"})
	if !errors.Is(err, ErrEmptySession) {
		t.Fatalf("expected ErrEmptySession, got %v", err)
	}
	if f.Phase != PhaseSetup {
		t.Fatalf("flow left setup on rejected session: phase %d", f.Phase)
	}
}

func TestBeginStartsFirstQuestion(t *testing.T) {
	f := New(nil)
	if err := f.Begin(makeSession(3)); err != nil {
		t.Fatal(err)
	}
	if f.Phase != PhaseInProgress {
		t.Fatalf("phase = %d, want in progress", f.Phase)
	}
	if q := f.Current(); q == nil || q.QuestionID != 1 {
		t.Fatalf("current = %+v, want question 1", q)
	}
	if f.Answered() {
		t.Fatal("fresh question reported as answered")
	}
}

func TestSelectLockedAfterAnswer(t *testing.T) {
	f := New(nil)
	if err := f.Begin(makeSession(1)); err != nil {
		t.Fatal(err)
	}

	if err := f.Select("b"); err != nil {
		t.Fatal(err)
	}
	if err := f.Select("c"); err != nil {
		t.Fatalf("reselect before answering should succeed, got %v", err)
	}
	if f.Selected != "c" {
		t.Fatalf("selected = %q, want c", f.Selected)
	}

	f.RecordResult(&api.AnswerResult{IsCorrect: true})
	if err := f.Select("a"); !errors.Is(err, ErrAnswered) {
		t.Fatalf("expected ErrAnswered, got %v", err)
	}
	if f.Selected != "c" {
		t.Fatalf("selection changed after answering: %q", f.Selected)
	}
}

func TestSelectRejectsUnknownOption(t *testing.T) {
	f := New(nil)
	if err := f.Begin(makeSession(1)); err != nil {
		t.Fatal(err)
	}
	if err := f.Select("e"); err == nil {
		t.Fatal("expected error for option e")
	}
}

func TestSubmitCheck(t *testing.T) {
	f := New(nil)
	if err := f.SubmitCheck(); !errors.Is(err, ErrNotInProgress) {
		t.Fatalf("expected ErrNotInProgress, got %v", err)
	}

	if err := f.Begin(makeSession(1)); err != nil {
		t.Fatal(err)
	}
	if err := f.SubmitCheck(); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}

	if err := f.Select("a"); err != nil {
		t.Fatal(err)
	}
	if err := f.SubmitCheck(); err != nil {
		t.Fatalf("expected submit to be allowed, got %v", err)
	}
	if !f.CanSubmit() {
		t.Fatal("CanSubmit false with a selection on an unanswered question")
	}

	f.RecordResult(&api.AnswerResult{IsCorrect: false})
	if err := f.SubmitCheck(); !errors.Is(err, ErrAnswered) {
		t.Fatalf("expected ErrAnswered, got %v", err)
	}
}

func TestRecordResultIgnoresDuplicates(t *testing.T) {
	f := New(nil)
	if err := f.Begin(makeSession(1)); err != nil {
		t.Fatal(err)
	}

	f.RecordResult(&api.AnswerResult{IsCorrect: true})
	f.RecordResult(&api.AnswerResult{IsCorrect: true})
	if f.CorrectCount != 1 {
		t.Fatalf("correct count = %d after duplicate result, want 1", f.CorrectCount)
	}
}

func TestAdvanceThroughSession(t *testing.T) {
	f := New(nil)
	if err := f.Begin(makeSession(2)); err != nil {
		t.Fatal(err)
	}

	// Advancing an unanswered question is a no-op.
	if f.Advance() {
		t.Fatal("advance succeeded on unanswered question")
	}
	if f.Index != 0 {
		t.Fatalf("index moved to %d without an answer", f.Index)
	}

	if err := f.Select("a"); err != nil {
		t.Fatal(err)
	}
	f.RecordResult(&api.AnswerResult{IsCorrect: true})
	if f.Advance() {
		t.Fatal("entered result phase with one question remaining")
	}
	if f.Index != 1 || f.Selected != "" || f.Answered() {
		t.Fatalf("next question not reset: index=%d selected=%q answered=%v",
			f.Index, f.Selected, f.Answered())
	}

	if !f.IsLast() {
		t.Fatal("IsLast false on final question")
	}
	f.RecordResult(&api.AnswerResult{IsCorrect: false})
	if !f.Advance() {
		t.Fatal("advance past last question did not finish")
	}
	if f.Phase != PhaseResult {
		t.Fatalf("phase = %d, want result", f.Phase)
	}
}

func TestAccuracy(t *testing.T) {
	f := New(nil)
	if got := f.Accuracy(); got != 0 {
		t.Fatalf("accuracy of empty flow = %v, want 0", got)
	}

	if err := f.Begin(makeSession(5)); err != nil {
		t.Fatal(err)
	}
	answers := []bool{true, false, true, false, true}
	for i, correct := range answers {
		f.RecordResult(&api.AnswerResult{IsCorrect: correct})
		done := f.Advance()
		if done != (i == len(answers)-1) {
			t.Fatalf("question %d: done = %v", i, done)
		}
	}
	if got := f.Accuracy(); got != 60 {
		t.Fatalf("accuracy = %v, want 60", got)
	}
	if f.CorrectCount != 3 {
		t.Fatalf("correct count = %d, want 3", f.CorrectCount)
	}
}

func TestElapsedSecondsFloors(t *testing.T) {
	f := New(nil)
	if err := f.Begin(makeSession(1)); err != nil {
		t.Fatal(err)
	}
	f.QuestionStart = time.Now().Add(-2900 * time.Millisecond)
	if got := f.ElapsedSeconds(); got != 2 {
		t.Fatalf("elapsed = %d, want 2", got)
	}
}

func TestResetKeepsTopics(t *testing.T) {
	topics := []api.Topic{{TopicID: 1, Name: "Machine Learning"}}
	f := New(topics)
	if err := f.Begin(makeSession(2)); err != nil {
		t.Fatal(err)
	}
	f.RecordResult(&api.AnswerResult{IsCorrect: true})
	f.Advance()
	f.RecordResult(&api.AnswerResult{IsCorrect: true})
	f.Advance()

	f.Reset()
	if f.Phase != PhaseSetup {
		t.Fatalf("phase after reset = %d, want setup", f.Phase)
	}
	if f.CorrectCount != 0 || f.SessionID != "" || len(f.Questions) != 0 {
		t.Fatalf("reset left transient state: %+v", f)
	}
	if len(f.Topics) != 1 || f.Topics[0].TopicID != 1 {
		t.Fatalf("reset dropped topics: %+v", f.Topics)
	}
}
