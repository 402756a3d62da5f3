package api

import (
	"context"
	"fmt"
	"net/http"
)

type answerRequest struct {
	UserAnswer       string `json:"user_answer"`
	TimeSpentSeconds *int   `json:"time_spent_seconds,omitempty"`
}

// Topics returns the topic catalog. Topics are static reference data;
// callers fetch them once and reuse them for the program's lifetime.
func (c *Client) Topics(ctx context.Context) (*TopicListResponse, error) {
	var resp TopicListResponse
	if err := c.do(ctx, http.MethodGet, "/questions/topics", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SubmitAnswer grades one answer. answer is the lowercase option label
// ("a".."d"); timeSpent is whole seconds, negative means unknown.
func (c *Client) SubmitAnswer(ctx context.Context, questionID int, answer string, timeSpent int) (*AnswerResult, error) {
	req := answerRequest{UserAnswer: answer}
	if timeSpent >= 0 {
		req.TimeSpentSeconds = &timeSpent
	}
	var resp AnswerResult
	path := fmt.Sprintf("/questions/%d/answer", questionID)
	if err := c.do(ctx, http.MethodPost, path, nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Solution returns the full answered view of a question, including the
// correct option and explanation.
func (c *Client) Solution(ctx context.Context, questionID int) (*QuestionWithAnswer, error) {
	var resp QuestionWithAnswer
	path := fmt.Sprintf("/questions/%d/solution", questionID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
