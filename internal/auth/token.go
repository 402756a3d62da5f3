package auth

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TokenFile persists the bearer token — the single value that survives
// a restart. Everything else is rebuilt via CheckAuth and fresh fetches.
type TokenFile struct {
	path string
}

// NewTokenFile creates a TokenFile at path.
func NewTokenFile(path string) *TokenFile {
	return &TokenFile{path: path}
}

// DefaultTokenPath resolves the token file path in priority order:
// 1. AICE_TOKEN_FILE environment variable
// 2. $XDG_CONFIG_HOME/aice/token
// 3. ~/.config/aice/token
func DefaultTokenPath() (string, error) {
	if p := os.Getenv("AICE_TOKEN_FILE"); p != "" {
		return p, ensureDir(p)
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}

	p := filepath.Join(configHome, "aice", "token")
	return p, ensureDir(p)
}

// ensureDir creates the parent directory of path if it doesn't exist.
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

// Load returns the persisted token, or "" when none is stored.
func (t *TokenFile) Load() string {
	data, err := os.ReadFile(t.path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Save writes the token with owner-only permissions.
func (t *TokenFile) Save(token string) error {
	if err := ensureDir(t.path); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(t.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

// Clear removes the persisted token. Missing file is not an error.
func (t *TokenFile) Clear() error {
	err := os.Remove(t.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}
