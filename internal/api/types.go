package api

// User is the account record returned by the auth endpoints.
type User struct {
	UserID           int     `json:"user_id"`
	Email            string  `json:"email"`
	Name             string  `json:"name"`
	IsActive         bool    `json:"is_active"`
	IsVerified       bool    `json:"is_verified"`
	SubscriptionTier string  `json:"subscription_tier"`
	CreatedAt        string  `json:"created_at"`
	LastLoginAt      *string `json:"last_login_at"`
}

// AuthResponse is returned by both register and login.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

// Topic is a study topic available for quiz sessions.
type Topic struct {
	TopicID      int     `json:"topic_id"`
	Name         string  `json:"name"`
	Code         *string `json:"code"`
	Description  *string `json:"description"`
	DisplayOrder int     `json:"display_order"`
}

// TopicListResponse wraps the topic catalog.
type TopicListResponse struct {
	Topics []Topic `json:"topics"`
	Count  int     `json:"count"`
}

// SessionQuestion is a question as served inside a quiz session.
// It deliberately carries no correct answer or explanation; those only
// arrive in the AnswerResult after submission.
type SessionQuestion struct {
	QuestionID   int    `json:"question_id"`
	QuestionText string `json:"question_text"`
	OptionA      string `json:"option_a"`
	OptionB      string `json:"option_b"`
	OptionC      string `json:"option_c"`
	OptionD      string `json:"option_d"`
	Difficulty   string `json:"difficulty"`
}

// Option returns the text for a lowercase option label ("a".."d").
func (q SessionQuestion) Option(label string) string {
	switch label {
	case "a":
		return q.OptionA
	case "b":
		return q.OptionB
	case "c":
		return q.OptionC
	case "d":
		return q.OptionD
	}
	return ""
}

// AnswerResult is the grading response for a single submitted answer.
type AnswerResult struct {
	IsCorrect     bool    `json:"is_correct"`
	CorrectAnswer string  `json:"correct_answer"`
	UserAnswer    string  `json:"user_answer"`
	Explanation   *string `json:"explanation"`
	QuestionID    int     `json:"question_id"`
}

// SessionCreateResponse is returned when a new study session is opened.
type SessionCreateResponse struct {
	SessionID     string            `json:"session_id"`
	Topic         Topic             `json:"topic"`
	Difficulty    string            `json:"difficulty"`
	QuestionCount int               `json:"question_count"`
	Questions     []SessionQuestion `json:"questions"`
	StartedAt     string            `json:"started_at"`
}

// SessionResult is returned when a session is closed.
type SessionResult struct {
	SessionID          string   `json:"session_id"`
	Status             string   `json:"status"`
	QuestionsAttempted int      `json:"questions_attempted"`
	CorrectAnswers     int      `json:"correct_answers"`
	AccuracyRate       *float64 `json:"accuracy_rate"`
	DurationSeconds    *int     `json:"duration_seconds"`
	EndedAt            string   `json:"ended_at"`
}

// Session is a past (or active) study session record.
type Session struct {
	SessionID          string   `json:"session_id"`
	TopicID            *int     `json:"topic_id"`
	TopicName          *string  `json:"topic_name"`
	Difficulty         *string  `json:"difficulty"`
	QuestionCount      int      `json:"question_count"`
	Status             string   `json:"status"`
	StartedAt          string   `json:"started_at"`
	EndedAt            *string  `json:"ended_at"`
	DurationSeconds    *int     `json:"duration_seconds"`
	QuestionsAttempted int      `json:"questions_attempted"`
	CorrectAnswers     int      `json:"correct_answers"`
	AccuracyRate       *float64 `json:"accuracy_rate"`
}

// StudyHistoryResponse is the aggregate session history.
type StudyHistoryResponse struct {
	Sessions        []Session `json:"sessions"`
	TotalSessions   int       `json:"total_sessions"`
	TotalQuestions  int       `json:"total_questions"`
	TotalCorrect    int       `json:"total_correct"`
	OverallAccuracy *float64  `json:"overall_accuracy"`
}

// QuestionWithAnswer is the full solution view of a question, available
// only outside an active session (mistake review, solution lookup).
type QuestionWithAnswer struct {
	QuestionID    int     `json:"question_id"`
	TopicID       *int    `json:"topic_id"`
	QuestionText  string  `json:"question_text"`
	OptionA       string  `json:"option_a"`
	OptionB       string  `json:"option_b"`
	OptionC       string  `json:"option_c"`
	OptionD       string  `json:"option_d"`
	Difficulty    string  `json:"difficulty"`
	CorrectAnswer string  `json:"correct_answer"`
	Explanation   *string `json:"explanation"`
	TopicName     *string `json:"topic_name"`
	CreatedAt     string  `json:"created_at"`
}

// MistakeNote is a persisted record of a previously wrong answer.
type MistakeNote struct {
	NoteID         int                `json:"note_id"`
	Question       QuestionWithAnswer `json:"question"`
	MistakeCount   int                `json:"mistake_count"`
	FirstMistakeAt string             `json:"first_mistake_at"`
	LastMistakeAt  string             `json:"last_mistake_at"`
	ReviewCount    int                `json:"review_count"`
	LastReviewAt   *string            `json:"last_review_at"`
	Mastered       bool               `json:"mastered"`
}

// MistakeListResponse wraps the mistake notebook.
type MistakeListResponse struct {
	Mistakes []MistakeNote `json:"mistakes"`
	Count    int           `json:"count"`
}

// DashboardSummary holds the top-level study statistics.
type DashboardSummary struct {
	TotalQuestions        int      `json:"total_questions"`
	TotalCorrect          int      `json:"total_correct"`
	AccuracyRate          *float64 `json:"accuracy_rate"`
	TotalSessions         int      `json:"total_sessions"`
	TotalStudyTimeSeconds int      `json:"total_study_time_seconds"`
	CurrentStreak         int      `json:"current_streak"`
	MistakeCount          int      `json:"mistake_count"`
}

// TopicStat is per-topic accuracy.
type TopicStat struct {
	TopicID        int      `json:"topic_id"`
	TopicName      string   `json:"topic_name"`
	TopicCode      *string  `json:"topic_code"`
	TotalQuestions int      `json:"total_questions"`
	CorrectAnswers int      `json:"correct_answers"`
	AccuracyRate   *float64 `json:"accuracy_rate"`
}

// TopicStatsResponse wraps per-topic statistics.
type TopicStatsResponse struct {
	Stats []TopicStat `json:"stats"`
	Count int         `json:"count"`
}

// DailyStat is one day in the weekly histogram.
type DailyStat struct {
	Date           string   `json:"date"`
	QuestionsCount int      `json:"questions_count"`
	CorrectCount   int      `json:"correct_count"`
	AccuracyRate   *float64 `json:"accuracy_rate"`
}

// WeeklyStatsResponse is the last week of daily activity.
type WeeklyStatsResponse struct {
	DailyStats      []DailyStat `json:"daily_stats"`
	TotalQuestions  int         `json:"total_questions"`
	TotalCorrect    int         `json:"total_correct"`
	AverageAccuracy *float64    `json:"average_accuracy"`
}
