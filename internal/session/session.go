// Package session holds the bearer token and the logged-in user for the
// storefront client. A Session is a TokenSource for the API client.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"storefront/internal/domain"
)

// ErrNotLoggedIn is returned when a flow needs a user and none is set
var ErrNotLoggedIn = errors.New("not logged in")

// Session is safe for concurrent use
type Session struct {
	mu    sync.RWMutex
	token string
	user  *domain.User
}

type stored struct {
	Token string       `json:"token"`
	User  *domain.User `json:"usuario,omitempty"`
}

// New creates a session, optionally seeded with a token
func New(token string) *Session {
	return &Session{token: token}
}

// Token implements apiclient.TokenSource
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the logged-in user
func (s *Session) User() (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.User{}, ErrNotLoggedIn
	}
	return *s.user, nil
}

// SetLogin records a successful login
func (s *Session) SetLogin(token string, user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	if user != nil {
		u := *user
		s.user = &u
	}
}

// SetUser replaces the user, e.g. after a user-info refresh
func (s *Session) SetUser(user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user == nil {
		s.user = nil
		return
	}
	u := *user
	s.user = &u
}

// Clear logs out
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
}

// Authenticated reports whether a token is held
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// IsAdmin reports whether the logged-in user is an administrator
func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.IsAdmin()
}

// Save writes the session to path with owner-only permissions
func (s *Session) Save(path string) error {
	s.mu.RLock()
	buf, err := json.Marshal(stored{Token: s.token, User: s.user})
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(path, buf, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Load reads a session saved with Save. A missing file yields an empty
// session.
func Load(path string) (*Session, error) {
	buf, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return New(""), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var st stored
	if err := json.Unmarshal(buf, &st); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &Session{token: st.Token, user: st.User}, nil
}

// Remove deletes a saved session file
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
