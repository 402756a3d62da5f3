package quiz

import (
	"time"

	"github.com/HeoJaeryoung/aice-project/internal/api"
)

// topicsLoadedMsg is sent when the topic catalog fetch completes.
type topicsLoadedMsg struct {
	Topics []api.Topic
	Err    error
}

// sessionCreatedMsg is sent when the backend has opened a session.
type sessionCreatedMsg struct {
	Session *api.SessionCreateResponse
	Err     error
}

// answerGradedMsg carries the grading for a submitted answer. The
// question ID guards against a stale response landing on a later
// question.
type answerGradedMsg struct {
	QuestionID int
	Result     *api.AnswerResult
	Err        error
}

// sessionEndedMsg is sent when the close-session call completes.
type sessionEndedMsg struct {
	Result *api.SessionResult
	Err    error
}

// timerTickMsg is sent every second to refresh the elapsed display.
type timerTickMsg time.Time
