// Package auth loads the persisted sign-in session and exposes it as an
// explicit value threaded into every store that needs the current user.
//
// There is no ambient provider: components that need the user id or the
// bearer credential receive a *Session at construction time. A nil or
// expired session resolves to the anonymous credential.
package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Session is the active sign-in session for one user.
type Session struct {
	// UserID is the authenticated user's identifier.
	UserID string

	// AccessToken is the bearer credential for record store calls.
	AccessToken string

	// ExpiresAt is when the access token stops being valid.
	ExpiresAt time.Time

	now func() time.Time
}

// tokenFile matches the JSON the auth provider persists on sign-in.
type tokenFile struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
	User        struct {
		ID string `json:"id"`
	} `json:"user"`
}

// Load reads a session from the token file at path. A missing file means
// no session and returns (nil, nil).
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read token file %s: %w", path, err)
	}

	var stored tokenFile
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("parse token file %s: %w", path, err)
	}
	if stored.AccessToken == "" || stored.User.ID == "" {
		return nil, nil
	}

	return &Session{
		UserID:      stored.User.ID,
		AccessToken: stored.AccessToken,
		ExpiresAt:   time.Unix(stored.ExpiresAt, 0),
	}, nil
}

// Token implements postgrest.TokenSource. It returns the access token while
// the session is valid, and "" once it has expired so callers fall back to
// the anonymous credential.
func (s *Session) Token() string {
	if s == nil || s.AccessToken == "" {
		return ""
	}
	if !s.ExpiresAt.IsZero() && !s.clock().Before(s.ExpiresAt) {
		return ""
	}
	return s.AccessToken
}

// Valid reports whether the session carries a usable credential.
func (s *Session) Valid() bool {
	return s.Token() != ""
}

func (s *Session) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}
