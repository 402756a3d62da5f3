package api

import (
	"context"
	"net/http"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new account and returns its first credential.
func (c *Client) Register(ctx context.Context, email, password, name string) (*AuthResponse, error) {
	var resp AuthResponse
	err := c.doValidated(ctx, http.MethodPost, "/auth/register", nil,
		registerRequest{Email: email, Password: password, Name: name}, &resp, authResponseSchema)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login exchanges credentials for a bearer token and user record.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	err := c.doValidated(ctx, http.MethodPost, "/auth/login", nil,
		loginRequest{Email: email, Password: password}, &resp, authResponseSchema)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me returns the user identified by the attached bearer token.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout notifies the backend that token is being discarded. The token
// travels explicitly because callers clear their local credential before
// this call lands. Best-effort; local state never depends on it.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.doBearer(ctx, http.MethodPost, "/auth/logout", nil, nil, nil, token)
}
