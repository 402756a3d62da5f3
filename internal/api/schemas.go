package api

// authResponseSchema guards the credential payload: a malformed auth
// response must never be persisted as a token.
var authResponseSchema = &Schema{
	Name: "auth_response",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"access_token", "token_type", "user"},
		"properties": map[string]any{
			"access_token": map[string]any{"type": "string", "minLength": 1},
			"token_type":   map[string]any{"type": "string"},
			"user": map[string]any{
				"type":     "object",
				"required": []any{"user_id", "email", "name"},
				"properties": map[string]any{
					"user_id": map[string]any{"type": "integer"},
					"email":   map[string]any{"type": "string"},
					"name":    map[string]any{"type": "string"},
				},
			},
		},
	},
}

// sessionCreateSchema guards the session payload the quiz flow is built
// on: the session id and at least the question list must be present and
// questions must not leak answers.
var sessionCreateSchema = &Schema{
	Name: "session_create",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"session_id", "questions"},
		"properties": map[string]any{
			"session_id": map[string]any{"type": "string", "minLength": 1},
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []any{"question_id", "question_text", "option_a", "option_b", "option_c", "option_d"},
				},
			},
		},
	},
}
