// Package quiz implements the quiz session screen: topic and
// difficulty setup, one question at a time with graded feedback, and
// the final score view.
package quiz

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/HeoJaeryoung/aice-project/internal/api"
	flow "github.com/HeoJaeryoung/aice-project/internal/quiz"
	"github.com/HeoJaeryoung/aice-project/internal/router"
	"github.com/HeoJaeryoung/aice-project/internal/screen"
	"github.com/HeoJaeryoung/aice-project/internal/ui/components"
	"github.com/HeoJaeryoung/aice-project/internal/ui/layout"
)

// errWriter receives best-effort warnings; swapped out in tests.
var errWriter io.Writer = os.Stderr

// setup wizard steps
const (
	stepTopic = iota
	stepDifficulty
	stepCount
)

// QuizScreen drives one quiz attempt against the backend.
type QuizScreen struct {
	client *api.Client
	flow   *flow.Flow

	setupStep int
	topicSel  int
	diffSel   int
	countSel  int

	options components.OptionList

	loadingTopics bool
	creating      bool
	submitting    bool
	ending        bool
	confirmQuit   bool

	// serverResult is the backend's closing summary, shown alongside
	// the locally tracked score once it arrives.
	serverResult *api.SessionResult

	errMsg string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.EscapeHandler = (*QuizScreen)(nil)

// New creates a quiz screen. The flow starts empty; Init fetches the
// topic catalog.
func New(client *api.Client) *QuizScreen {
	return &QuizScreen{
		client:        client,
		loadingTopics: true,
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	return s.loadTopics()
}

func (s *QuizScreen) Title() string {
	return "Quiz"
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.flow == nil {
		return nil
	}
	switch s.flow.Phase {
	case flow.PhaseInProgress:
		if s.confirmQuit {
			return []layout.KeyHint{
				{Key: "Y", Description: "Leave quiz"},
				{Key: "N", Description: "Keep going"},
			}
		}
		if s.flow.Answered() {
			return []layout.KeyHint{
				{Key: "Enter", Description: "Continue"},
			}
		}
		return []layout.KeyHint{
			{Key: "A-D/↑↓", Description: "Choose"},
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Leave"},
		}
	case flow.PhaseResult:
		return []layout.KeyHint{
			{Key: "R", Description: "Try again"},
			{Key: "Esc", Description: "Home"},
		}
	default:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "Enter", Description: "Next"},
			{Key: "Esc", Description: "Back"},
		}
	}
}

// HandleEscape intercepts Esc for in-screen navigation: stepping the
// setup wizard back and confirming before leaving a live quiz.
func (s *QuizScreen) HandleEscape() (tea.Cmd, bool) {
	if s.flow == nil {
		return nil, false
	}
	switch s.flow.Phase {
	case flow.PhaseSetup:
		if s.setupStep > 0 {
			s.setupStep--
			return nil, true
		}
		return nil, false
	case flow.PhaseInProgress:
		if s.confirmQuit {
			s.confirmQuit = false
		} else {
			s.confirmQuit = true
		}
		return nil, true
	}
	return nil, false
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case topicsLoadedMsg:
		return s.handleTopicsLoaded(msg)

	case sessionCreatedMsg:
		return s.handleSessionCreated(msg)

	case answerGradedMsg:
		return s.handleAnswerGraded(msg)

	case sessionEndedMsg:
		s.ending = false
		if msg.Err == nil {
			s.serverResult = msg.Result
		}
		return s, nil

	case timerTickMsg:
		if s.flow != nil && s.flow.Phase == flow.PhaseInProgress {
			return s, tickCmd()
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s, nil
}

func (s *QuizScreen) handleTopicsLoaded(msg topicsLoadedMsg) (screen.Screen, tea.Cmd) {
	s.loadingTopics = false
	if msg.Err != nil {
		s.errMsg = api.Message(msg.Err, "Could not load topics.")
		return s, nil
	}
	s.flow = flow.New(msg.Topics)
	return s, nil
}

func (s *QuizScreen) handleSessionCreated(msg sessionCreatedMsg) (screen.Screen, tea.Cmd) {
	s.creating = false
	if msg.Err != nil {
		s.errMsg = api.Message(msg.Err, "Could not start the quiz.")
		return s, nil
	}
	if err := s.flow.Begin(msg.Session); err != nil {
		s.errMsg = "No questions available for this selection."
		return s, nil
	}
	s.errMsg = ""
	s.rebuildOptions()
	return s, tickCmd()
}

func (s *QuizScreen) handleAnswerGraded(msg answerGradedMsg) (screen.Screen, tea.Cmd) {
	s.submitting = false
	if msg.Err != nil {
		s.errMsg = api.Message(msg.Err, "Could not submit the answer.")
		return s, nil
	}

	// Drop gradings that raced past an advance.
	cur := s.flow.Current()
	if cur == nil || cur.QuestionID != msg.QuestionID {
		return s, nil
	}

	s.errMsg = ""
	s.flow.RecordResult(msg.Result)
	s.options.Lock(strings.ToLower(msg.Result.CorrectAnswer))
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.flow == nil {
		if s.errMsg != "" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return s, nil
	}

	if s.confirmQuit {
		switch msg.String() {
		case "y", "Y":
			s.confirmQuit = false
			return s, s.leaveQuiz()
		case "n", "N":
			s.confirmQuit = false
		}
		return s, nil
	}

	switch s.flow.Phase {
	case flow.PhaseSetup:
		return s.handleSetupKey(msg)
	case flow.PhaseInProgress:
		return s.handleQuestionKey(msg)
	case flow.PhaseResult:
		return s.handleResultKey(msg)
	}
	return s, nil
}

func (s *QuizScreen) handleSetupKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.loadingTopics || s.creating {
		return s, nil
	}

	sel, max := s.setupSelection()
	switch msg.String() {
	case "up", "k":
		if *sel > 0 {
			*sel--
		}
	case "down", "j":
		if *sel < max-1 {
			*sel++
		}
	case "enter":
		if s.setupStep < stepCount {
			s.setupStep++
			return s, nil
		}
		return s.createSession()
	}
	return s, nil
}

// setupSelection returns the cursor for the current wizard step and the
// number of entries it ranges over. The topic step has an extra "all
// topics" entry at the top.
func (s *QuizScreen) setupSelection() (*int, int) {
	switch s.setupStep {
	case stepTopic:
		return &s.topicSel, len(s.flow.Topics) + 1
	case stepDifficulty:
		return &s.diffSel, len(flow.Difficulties)
	default:
		return &s.countSel, len(flow.QuestionCounts)
	}
}

func (s *QuizScreen) handleQuestionKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.flow.Answered() {
		// Any confirm key moves on; everything else is ignored while
		// the feedback is showing.
		switch msg.String() {
		case "enter", " ":
			return s.advance()
		}
		return s, nil
	}

	if msg.String() == "enter" {
		if s.flow.Selected == "" {
			// First Enter confirms the highlighted option.
			s.options, _ = s.options.Update(msg)
			s.syncSelection()
			return s, nil
		}
		return s.submitAnswer()
	}

	if s.submitting {
		return s, nil
	}

	var cmd tea.Cmd
	s.options, cmd = s.options.Update(msg)
	s.syncSelection()
	return s, cmd
}

func (s *QuizScreen) handleResultKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "r", "R":
		s.flow.Reset()
		s.setupStep = stepTopic
		s.serverResult = nil
		s.errMsg = ""
		return s, nil
	case "enter":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return s, nil
}

// syncSelection mirrors the option list's chosen label into the flow.
func (s *QuizScreen) syncSelection() {
	if s.options.Chosen != "" && s.options.Chosen != s.flow.Selected {
		_ = s.flow.Select(s.options.Chosen)
	}
}

func (s *QuizScreen) rebuildOptions() {
	q := s.flow.Current()
	if q == nil {
		return
	}
	opts := make([]components.Option, 0, 4)
	for _, label := range []string{"a", "b", "c", "d"} {
		opts = append(opts, components.Option{Label: label, Text: q.Option(label)})
	}
	s.options = components.NewOptionList(opts)
}

// advance moves past the answered question, closing the session after
// the last one.
func (s *QuizScreen) advance() (screen.Screen, tea.Cmd) {
	done := s.flow.Advance()
	if !done {
		s.rebuildOptions()
		return s, nil
	}

	s.ending = true
	return s, s.endSession()
}

// selectedTopicID returns the chosen topic, or 0 for all topics.
func (s *QuizScreen) selectedTopicID() int {
	if s.topicSel == 0 {
		return 0
	}
	return s.flow.Topics[s.topicSel-1].TopicID
}

func (s *QuizScreen) loadTopics() tea.Cmd {
	client := s.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		resp, err := client.Topics(ctx)
		if err != nil {
			return topicsLoadedMsg{Err: err}
		}
		return topicsLoadedMsg{Topics: resp.Topics}
	}
}

func (s *QuizScreen) createSession() (screen.Screen, tea.Cmd) {
	if s.creating {
		return s, nil
	}
	s.creating = true
	s.errMsg = ""

	client := s.client
	topicID := s.selectedTopicID()
	difficulty := flow.Difficulties[s.diffSel]
	count := flow.QuestionCounts[s.countSel]

	return s, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		sess, err := client.CreateSession(ctx, topicID, difficulty, count)
		return sessionCreatedMsg{Session: sess, Err: err}
	}
}

func (s *QuizScreen) submitAnswer() (screen.Screen, tea.Cmd) {
	if s.submitting {
		return s, nil
	}
	if err := s.flow.SubmitCheck(); err != nil {
		return s, nil
	}
	s.submitting = true
	s.errMsg = ""

	client := s.client
	q := s.flow.Current()
	answer := s.flow.Selected
	elapsed := s.flow.ElapsedSeconds()

	return s, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		res, err := client.SubmitAnswer(ctx, q.QuestionID, answer, elapsed)
		return answerGradedMsg{QuestionID: q.QuestionID, Result: res, Err: err}
	}
}

// endSession closes the session on the backend. The local score is
// already final; the server summary only enriches the result view.
func (s *QuizScreen) endSession() tea.Cmd {
	client := s.client
	sessionID := s.flow.SessionID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		res, err := client.EndSession(ctx, sessionID)
		return sessionEndedMsg{Result: res, Err: err}
	}
}

// leaveQuiz abandons a live quiz: the session is closed best-effort and
// the screen pops regardless of the outcome.
func (s *QuizScreen) leaveQuiz() tea.Cmd {
	client := s.client
	sessionID := s.flow.SessionID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if _, err := client.EndSession(ctx, sessionID); err != nil {
			fmt.Fprintln(errWriter, "Warning: could not close session:", err)
		}
		return router.PopScreenMsg{}
	}
}

// tickCmd returns a 1-second tick command.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}
