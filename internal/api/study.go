package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// topic_id 0 means all topics and is omitted from the payload.
type sessionCreateRequest struct {
	TopicID       int    `json:"topic_id,omitempty"`
	Difficulty    string `json:"difficulty"`
	QuestionCount int    `json:"question_count"`
}

// CreateSession opens a new study session. The backend selects and
// orders the questions; the client never generates or reorders them.
func (c *Client) CreateSession(ctx context.Context, topicID int, difficulty string, questionCount int) (*SessionCreateResponse, error) {
	var resp SessionCreateResponse
	err := c.doValidated(ctx, http.MethodPost, "/study/sessions", nil,
		sessionCreateRequest{TopicID: topicID, Difficulty: difficulty, QuestionCount: questionCount},
		&resp, sessionCreateSchema)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// EndSession closes a session, transitioning its status to completed.
func (c *Client) EndSession(ctx context.Context, sessionID string) (*SessionResult, error) {
	var resp SessionResult
	path := fmt.Sprintf("/study/sessions/%s", url.PathEscape(sessionID))
	if err := c.do(ctx, http.MethodPut, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// History returns recent sessions plus aggregate totals.
func (c *Client) History(ctx context.Context, limit int) (*StudyHistoryResponse, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var resp StudyHistoryResponse
	if err := c.do(ctx, http.MethodGet, "/study/history", q, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Mistakes returns mistake notes. mastered filters by mastered state
// when non-nil.
func (c *Client) Mistakes(ctx context.Context, limit, offset int, mastered *bool) (*MistakeListResponse, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	if mastered != nil {
		q.Set("mastered", strconv.FormatBool(*mastered))
	}
	var resp MistakeListResponse
	if err := c.do(ctx, http.MethodGet, "/study/mistakes", q, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
