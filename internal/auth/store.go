package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/HeoJaeryoung/aice-project/internal/api"
)

// Status is the store's lifecycle position.
type Status int

const (
	StatusUninitialized Status = iota // before CheckAuth has run
	StatusChecking                    // CheckAuth in progress
	StatusAuthenticated
	StatusUnauthenticated
)

// ErrInFlight is returned when a Login, Register or CheckAuth call is
// issued while another one is still running. Overlapping calls are
// rejected rather than raced: the store serializes by refusal, so a
// stale call can never overwrite a fresh result.
var ErrInFlight = errors.New("auth operation already in flight")

// Store holds the process-wide credential state: the current user, the
// bearer token, and the lifecycle flags views gate on. It implements
// api.TokenSource so the client attaches the token automatically.
type Store struct {
	client *api.Client
	tokens *TokenFile

	mu          sync.Mutex
	status      Status
	initialized bool
	busy        bool
	user        *api.User
	token       string
	lastErr     string
}

// NewStore creates a Store persisting tokens through tokens.
// Wire the store into the api.Client via WithTokenSource before use.
func NewStore(client *api.Client, tokens *TokenFile) *Store {
	return &Store{
		client: client,
		tokens: tokens,
		status: StatusUninitialized,
	}
}

// Token implements api.TokenSource.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Status returns the current lifecycle status.
func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Authenticated reports whether a valid credential is loaded.
func (s *Store) Authenticated() bool {
	return s.Status() == StatusAuthenticated
}

// Initialized reports whether CheckAuth (or a login) has completed at
// least once. Views must not render auth-gated content before this.
func (s *Store) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// User returns the current user record, or nil when unauthenticated.
func (s *Store) User() *api.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Err returns the last user-facing error message, or "".
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// ClearError clears only the error field.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = ""
}

// begin claims the single in-flight slot. Callers must pair it with
// release via defer.
func (s *Store) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrInFlight
	}
	s.busy = true
	s.lastErr = ""
	return nil
}

func (s *Store) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
}

// Login exchanges credentials for a token. On success the token is
// persisted before Login returns, so a restart mid-session still
// authenticates. On failure the store stays unauthenticated with a
// user-facing error, and the error is returned so the caller can decide
// whether to navigate.
func (s *Store) Login(ctx context.Context, email, password string) error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.release()

	resp, err := s.client.Login(ctx, email, password)
	if err != nil {
		s.fail(api.Message(err, "Login failed. Please try again."))
		return err
	}

	s.adopt(resp)
	return nil
}

// Register creates an account. Same persistence and error contract as
// Login, against the register endpoint.
func (s *Store) Register(ctx context.Context, email, password, name string) error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.release()

	resp, err := s.client.Register(ctx, email, password, name)
	if err != nil {
		s.fail(api.Message(err, "Registration failed. Please try again."))
		return err
	}

	s.adopt(resp)
	return nil
}

// Logout clears the persisted token and resets the credential. It does
// not wait on the backend: the server-side logout notification is
// fire-and-forget relative to local state clearing. The initialized
// flag survives.
func (s *Store) Logout() {
	if err := s.tokens.Clear(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to clear token file: %v\n", err)
	}

	s.mu.Lock()
	token := s.token
	s.user = nil
	s.token = ""
	s.status = StatusUnauthenticated
	s.mu.Unlock()

	// The notification carries the token it is revoking, captured before
	// the clear above emptied the store's TokenSource.
	if token != "" {
		go func() { _ = s.client.Logout(context.Background(), token) }()
	}
}

// CheckAuth rehydrates the credential from the persisted token at
// startup. A missing token resolves to unauthenticated without a
// network call. A present token is verified against the identity
// endpoint; any failure discards the token and credential together, so
// a half-valid credential can never survive. Every path through
// CheckAuth ends with initialized set.
func (s *Store) CheckAuth(ctx context.Context) {
	if err := s.begin(); err != nil {
		return
	}
	defer s.release()

	s.mu.Lock()
	s.status = StatusChecking
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.initialized = true
		s.mu.Unlock()
	}()

	token := s.tokens.Load()
	if token == "" {
		s.mu.Lock()
		s.status = StatusUnauthenticated
		s.user = nil
		s.token = ""
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	user, err := s.client.Me(ctx)
	if err != nil {
		if clearErr := s.tokens.Clear(); clearErr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to clear token file: %v\n", clearErr)
		}
		s.mu.Lock()
		s.status = StatusUnauthenticated
		s.user = nil
		s.token = ""
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	s.status = StatusAuthenticated
	s.user = user
	s.mu.Unlock()
}

// HandleUnauthorized is the client-level 401 hook: discard the
// persisted token and credential so the next render lands on login.
// When a live session dies this way, the message explains why the user
// finds themselves back on the sign-in form.
func (s *Store) HandleUnauthorized() {
	_ = s.tokens.Clear()
	s.mu.Lock()
	s.user = nil
	s.token = ""
	if s.status == StatusAuthenticated {
		s.status = StatusUnauthenticated
		s.lastErr = "Session expired. Please sign in again."
	}
	s.mu.Unlock()
}

// adopt installs a fresh credential, persisting the token first.
func (s *Store) adopt(resp *api.AuthResponse) {
	if err := s.tokens.Save(resp.AccessToken); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to persist token: %v\n", err)
	}

	s.mu.Lock()
	user := resp.User
	s.user = &user
	s.token = resp.AccessToken
	s.status = StatusAuthenticated
	s.initialized = true
	s.mu.Unlock()
}

// fail records a user-facing error, leaving the store unauthenticated.
func (s *Store) fail(msg string) {
	s.mu.Lock()
	s.lastErr = msg
	if s.status != StatusAuthenticated {
		s.status = StatusUnauthenticated
	}
	s.mu.Unlock()
}
