// Package session persists the signed-in state of the CLI between runs.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ddanilov/daybook/internal/common"
	"github.com/ddanilov/daybook/internal/filex"
)

const (
	appName     = "daybook"
	sessionFile = "session.json"
)

// Session is the persisted sign-in state: the bearer token plus the
// identity it belongs to.
type Session struct {
	AccessToken string `json:"access_token"`
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
}

// Active reports whether a token is present. Expiry is decided by the
// server; a stale token simply gets 401 and the user signs in again.
func (s *Session) Active() bool {
	return s != nil && s.AccessToken != ""
}

func path() (string, error) {
	dir, err := filex.EnsureConfigDir(appName)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, sessionFile), nil
}

// Load reads the persisted session. A missing file means signed out and
// returns common.ErrUnauthorized.
func Load() (*Session, error) {
	p, err := path()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("reading session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing session: %w", err)
	}
	if !s.Active() {
		return nil, common.ErrUnauthorized
	}
	return &s, nil
}

// Save persists the session with user-only permissions.
func Save(s *Session) error {
	p, err := path()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	if err := os.WriteFile(p, data, 0o600); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}

// Clear signs out by removing the persisted session.
func Clear() error {
	p, err := path()
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session: %w", err)
	}
	return nil
}
