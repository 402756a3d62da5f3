package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestClient_BearerAndRequestID(t *testing.T) {
	var gotAuth, gotReqID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		_ = json.NewEncoder(w).Encode(User{UserID: 1, Email: "a@b.com", Name: "A"})
	}))
	defer server.Close()

	c := New(server.URL, WithTokenSource(staticToken("tok-123")))
	user, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", user.Email)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.NotEmpty(t, gotReqID)
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(TopicListResponse{})
	}))
	defer server.Close()

	c := New(server.URL, WithTokenSource(staticToken("")))
	_, err := c.Topics(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClient_ErrorDetail(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
	}{
		{"string detail", 400, `{"detail":"Invalid credentials"}`, "Invalid credentials"},
		{"no detail", 500, `{}`, ""},
		{"not json", 502, `bad gateway`, ""},
		{"structured detail", 422, `{"detail":[{"loc":["body","email"]}]}`, `[{"loc":["body","email"]}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := New(server.URL)
			_, err := c.Login(context.Background(), "a@b.com", "wrong")
			require.Error(t, err)

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantDetail, apiErr.Detail)
		})
	}
}

func TestClient_UnauthorizedHook(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Token expired"}`))
	}))
	defer server.Close()

	hookCalled := false
	c := New(server.URL, WithUnauthorizedHook(func() { hookCalled = true }))

	_, err := c.Me(context.Background())
	require.Error(t, err)
	assert.True(t, hookCalled)
	assert.True(t, IsUnauthorized(err))
}

func TestClient_Unreachable(t *testing.T) {
	// Closed server: connection refused.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	c := New(server.URL)
	_, err := c.Topics(context.Background())
	require.Error(t, err)

	var unreachable *ErrUnreachable
	assert.ErrorAs(t, err, &unreachable)
	assert.False(t, IsUnauthorized(err))
}

func TestClient_Login_RejectsMalformedAuthResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing token", `{"token_type":"bearer","user":{"user_id":1,"email":"a@b.com","name":"A"}}`},
		{"empty token", `{"access_token":"","token_type":"bearer","user":{"user_id":1,"email":"a@b.com","name":"A"}}`},
		{"missing user", `{"access_token":"tok","token_type":"bearer"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := New(server.URL)
			_, err := c.Login(context.Background(), "a@b.com", "pw")
			require.Error(t, err)

			var invalid *ErrInvalidResponse
			assert.ErrorAs(t, err, &invalid)
		})
	}
}

func TestClient_CreateSession(t *testing.T) {
	var gotBody sessionCreateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/study/sessions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{
			"session_id": "sess-1",
			"topic": {"topic_id": 1, "name": "Pandas"},
			"difficulty": "medium",
			"question_count": 2,
			"questions": [
				{"question_id": 10, "question_text": "Q1", "option_a": "1", "option_b": "2", "option_c": "3", "option_d": "4", "difficulty": "medium"},
				{"question_id": 11, "question_text": "Q2", "option_a": "1", "option_b": "2", "option_c": "3", "option_d": "4", "difficulty": "medium"}
			],
			"started_at": "2026-01-01T00:00:00Z"
		}`))
	}))
	defer server.Close()

	c := New(server.URL)
	sess, err := c.CreateSession(context.Background(), 1, "medium", 2)
	require.NoError(t, err)

	assert.Equal(t, sessionCreateRequest{TopicID: 1, Difficulty: "medium", QuestionCount: 2}, gotBody)
	assert.Equal(t, "sess-1", sess.SessionID)
	require.Len(t, sess.Questions, 2)
	assert.Equal(t, "2", sess.Questions[0].Option("b"))
}

func TestClient_SubmitAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/questions/10/answer", r.URL.Path)

		var body answerRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "c", body.UserAnswer)
		require.NotNil(t, body.TimeSpentSeconds)
		assert.Equal(t, 7, *body.TimeSpentSeconds)

		_, _ = w.Write([]byte(`{"is_correct": false, "correct_answer": "a", "user_answer": "c", "explanation": "because", "question_id": 10}`))
	}))
	defer server.Close()

	c := New(server.URL)
	res, err := c.SubmitAnswer(context.Background(), 10, "c", 7)
	require.NoError(t, err)
	assert.False(t, res.IsCorrect)
	assert.Equal(t, "a", res.CorrectAnswer)
	require.NotNil(t, res.Explanation)
	assert.Equal(t, "because", *res.Explanation)
}

func TestClient_Mistakes_Query(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"mistakes": [], "count": 0}`))
	}))
	defer server.Close()

	c := New(server.URL)
	mastered := false
	_, err := c.Mistakes(context.Background(), 50, 0, &mastered)
	require.NoError(t, err)
	assert.Equal(t, "limit=50&mastered=false", gotQuery)
}

func TestClient_EndSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/study/sessions/sess-1", r.URL.Path)
		_, _ = w.Write([]byte(`{"session_id": "sess-1", "status": "completed", "questions_attempted": 5, "correct_answers": 3, "accuracy_rate": 60.0, "duration_seconds": 42, "ended_at": "2026-01-01T00:01:00Z"}`))
	}))
	defer server.Close()

	c := New(server.URL)
	res, err := c.EndSession(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "completed", res.Status)
	assert.Equal(t, 3, res.CorrectAnswers)
}
