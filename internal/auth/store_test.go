package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HeoJaeryoung/aice-project/internal/api"
)

const (
	goodAuthBody = `{
		"access_token": "tok-abc",
		"token_type": "bearer",
		"user": {"user_id": 7, "email": "a@b.com", "name": "Ana", "is_active": true, "is_verified": true, "subscription_tier": "free", "created_at": "2026-01-01T00:00:00Z", "last_login_at": null}
	}`
	goodUserBody = `{"user_id": 7, "email": "a@b.com", "name": "Ana", "is_active": true, "is_verified": true, "subscription_tier": "free", "created_at": "2026-01-01T00:00:00Z", "last_login_at": null}`
)

// newStore builds a Store wired to a test server, with the token file
// in a temp dir.
func newStore(t *testing.T, handler http.Handler) (*Store, *TokenFile) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	tokens := NewTokenFile(filepath.Join(t.TempDir(), "token"))

	var store *Store
	client := api.New(server.URL,
		api.WithTokenSource(api.TokenSourceFunc(func() string { return store.Token() })),
	)
	store = NewStore(client, tokens)
	return store, tokens
}

func TestLogin_Success(t *testing.T) {
	store, tokens := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		_, _ = w.Write([]byte(goodAuthBody))
	}))

	require.NoError(t, store.Login(context.Background(), "a@b.com", "pw"))

	assert.Equal(t, StatusAuthenticated, store.Status())
	assert.True(t, store.Initialized())
	assert.Empty(t, store.Err())
	require.NotNil(t, store.User())
	assert.Equal(t, "Ana", store.User().Name)

	// Token persisted synchronously.
	assert.Equal(t, "tok-abc", tokens.Load())
}

func TestLogin_Failure(t *testing.T) {
	store, tokens := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": "Invalid credentials"}`))
	}))

	err := store.Login(context.Background(), "a@b.com", "wrong")
	require.Error(t, err)

	assert.Equal(t, StatusUnauthenticated, store.Status())
	assert.Equal(t, "Invalid credentials", store.Err())
	assert.Nil(t, store.User())
	assert.Empty(t, tokens.Load())
}

func TestRegister_Success(t *testing.T) {
	store, tokens := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/register", r.URL.Path)
		_, _ = w.Write([]byte(goodAuthBody))
	}))

	require.NoError(t, store.Register(context.Background(), "a@b.com", "pw", "Ana"))
	assert.Equal(t, StatusAuthenticated, store.Status())
	assert.Equal(t, "tok-abc", tokens.Load())
}

func TestLogout(t *testing.T) {
	logoutAuth := make(chan string, 1)
	store, tokens := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/logout" {
			logoutAuth <- r.Header.Get("Authorization")
			return
		}
		_, _ = w.Write([]byte(goodAuthBody))
	}))

	require.NoError(t, store.Login(context.Background(), "a@b.com", "pw"))
	require.Equal(t, "tok-abc", tokens.Load())

	store.Logout()

	assert.Equal(t, StatusUnauthenticated, store.Status())
	assert.Nil(t, store.User())
	assert.Empty(t, store.Token())
	assert.Empty(t, tokens.Load())
	// initialized survives logout.
	assert.True(t, store.Initialized())

	// The fire-and-forget server notification still carries the revoked
	// token, even though the local credential is already gone.
	select {
	case got := <-logoutAuth:
		assert.Equal(t, "Bearer tok-abc", got)
	case <-time.After(time.Second):
		t.Fatal("backend logout never fired")
	}
}

func TestCheckAuth_NoToken(t *testing.T) {
	calls := 0
	store, _ := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	store.CheckAuth(context.Background())

	assert.Equal(t, StatusUnauthenticated, store.Status())
	assert.True(t, store.Initialized())
	// No backend call without a persisted token.
	assert.Zero(t, calls)
}

func TestCheckAuth_ValidToken(t *testing.T) {
	var gotAuth string
	store, tokens := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/me", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(goodUserBody))
	}))
	require.NoError(t, tokens.Save("tok-abc"))

	store.CheckAuth(context.Background())

	assert.Equal(t, "Bearer tok-abc", gotAuth)
	assert.Equal(t, StatusAuthenticated, store.Status())
	assert.True(t, store.Initialized())
	require.NotNil(t, store.User())
	assert.Equal(t, "a@b.com", store.User().Email)
	// The token survives as the only persisted value.
	assert.Equal(t, "tok-abc", tokens.Load())
}

func TestCheckAuth_ExpiredToken(t *testing.T) {
	store, tokens := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": "Token expired"}`))
	}))
	require.NoError(t, tokens.Save("tok-old"))

	store.CheckAuth(context.Background())

	assert.Equal(t, StatusUnauthenticated, store.Status())
	assert.True(t, store.Initialized())
	assert.Nil(t, store.User())
	assert.Empty(t, store.Token())
	// The stale token is discarded together with the credential.
	assert.Empty(t, tokens.Load())
}

func TestCheckAuth_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused

	tokens := NewTokenFile(filepath.Join(t.TempDir(), "token"))
	require.NoError(t, tokens.Save("tok-abc"))

	var store *Store
	client := api.New(server.URL,
		api.WithTokenSource(api.TokenSourceFunc(func() string { return store.Token() })),
	)
	store = NewStore(client, tokens)

	store.CheckAuth(context.Background())

	assert.Equal(t, StatusUnauthenticated, store.Status())
	assert.True(t, store.Initialized())
	assert.Empty(t, tokens.Load())
}

func TestOverlappingCalls_Rejected(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	store, _ := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entered <- struct{}{}
		<-release
		_, _ = w.Write([]byte(goodAuthBody))
	}))

	first := make(chan error, 1)
	go func() {
		first <- store.Login(context.Background(), "a@b.com", "pw")
	}()

	// Once the handler signals, the first call provably holds the
	// in-flight slot, so the second must be rejected.
	<-entered
	assert.ErrorIs(t, store.Login(context.Background(), "a@b.com", "pw"), ErrInFlight)

	close(release)
	require.NoError(t, <-first)
	assert.Equal(t, StatusAuthenticated, store.Status())
}

func TestClearError(t *testing.T) {
	store, _ := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail": "nope"}`))
	}))

	_ = store.Login(context.Background(), "a@b.com", "pw")
	require.NotEmpty(t, store.Err())

	store.ClearError()
	assert.Empty(t, store.Err())
	// Only the error field changes.
	assert.Equal(t, StatusUnauthenticated, store.Status())
}

func TestHandleUnauthorized(t *testing.T) {
	store, tokens := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(goodAuthBody))
	}))
	require.NoError(t, store.Login(context.Background(), "a@b.com", "pw"))

	store.HandleUnauthorized()

	assert.Equal(t, StatusUnauthenticated, store.Status())
	assert.Empty(t, tokens.Load())
	assert.Nil(t, store.User())
}

func TestTokenFile_DefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AICE_TOKEN_FILE", filepath.Join(dir, "nested", "token"))

	p, err := DefaultTokenPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "nested", "token"), p)

	// Parent dir is created.
	info, err := os.Stat(filepath.Dir(p))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestTokenFile_Roundtrip(t *testing.T) {
	tf := NewTokenFile(filepath.Join(t.TempDir(), "token"))

	assert.Empty(t, tf.Load())
	require.NoError(t, tf.Save("tok-xyz"))
	assert.Equal(t, "tok-xyz", tf.Load())

	info, err := os.Stat(filepath.Join(filepath.Dir(tf.path), "token"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, tf.Clear())
	assert.Empty(t, tf.Load())
	// Clearing twice is fine.
	require.NoError(t, tf.Clear())
}
