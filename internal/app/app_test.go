package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HeoJaeryoung/aice-project/internal/api"
	"github.com/HeoJaeryoung/aice-project/internal/auth"
	"github.com/HeoJaeryoung/aice-project/internal/screens/home"
	"github.com/HeoJaeryoung/aice-project/internal/screens/login"
)

const authBody = `{
	"access_token": "tok-abc",
	"token_type": "bearer",
	"user": {"user_id": 7, "email": "a@b.com", "name": "Ana", "is_active": true, "is_verified": true, "subscription_tier": "free", "created_at": "2026-01-01T00:00:00Z", "last_login_at": null}
}`

// noopMsg stands in for any message a screen command might deliver.
type noopMsg struct{}

// newTestDeps wires a client and store against a backend that accepts
// the login and answers 401 to everything else.
func newTestDeps(t *testing.T) (*api.Client, *auth.Store) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/login" {
			_, _ = w.Write([]byte(authBody))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": "Could not validate credentials"}`))
	}))
	t.Cleanup(server.Close)

	tokens := auth.NewTokenFile(filepath.Join(t.TempDir(), "token"))
	var store *auth.Store
	client := api.New(server.URL,
		api.WithTokenSource(api.TokenSourceFunc(func() string { return store.Token() })),
		api.WithUnauthorizedHook(func() { store.HandleUnauthorized() }),
	)
	store = auth.NewStore(client, tokens)
	return client, store
}

func TestSessionExpiryRedirectsToLogin(t *testing.T) {
	client, store := newTestDeps(t)
	require.NoError(t, store.Login(context.Background(), "a@b.com", "pw"))

	m := newAppModel(Options{Client: client, Store: store})
	_, ok := m.router.Active().(*home.HomeScreen)
	require.True(t, ok, "authenticated start lands on home")

	// An auth-gated request dies with 401; the client hook clears the
	// credential before the error message reaches the screen.
	_, err := client.Summary(context.Background())
	require.Error(t, err)
	require.False(t, store.Authenticated())

	// The next message through Update swaps the stack to login.
	model, _ := m.Update(noopMsg{})
	m = model.(AppModel)

	_, ok = m.router.Active().(*login.LoginScreen)
	require.True(t, ok, "expired session lands on login")
	assert.Equal(t, 1, m.router.Depth())
	assert.Equal(t, "Session expired. Please sign in again.", store.Err())
}

func TestUnauthenticatedStartStaysOnLogin(t *testing.T) {
	client, store := newTestDeps(t)

	m := newAppModel(Options{Client: client, Store: store})
	before := m.router.Active()
	_, ok := before.(*login.LoginScreen)
	require.True(t, ok)

	// No credential, but the login screen is already active: the stack
	// is left alone rather than rebuilt on every message.
	model, _ := m.Update(noopMsg{})
	m = model.(AppModel)
	assert.Same(t, before, m.router.Active())
}
