// Package profile implements public profiles: a claimed username plus the
// read-side aggregation of a user's historical task activity.
package profile

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/annumhq/annum/internal/postgrest"
	"github.com/annumhq/annum/task"
)

// Table is the record store table holding profile rows.
const Table = "profiles"

var (
	// ErrProfileNotFound is returned when no profile matches a lookup.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrInvalidUsername is returned when a username fails format checks.
	ErrInvalidUsername = errors.New("username must be 3-20 letters, digits, or underscores")

	// ErrUsernameTaken is returned when the requested username is claimed
	// by another user.
	ErrUsernameTaken = errors.New("username already taken")
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)

// Profile is one user's public identity.
type Profile struct {
	// ID is the owning user's identifier.
	ID string `json:"id"`

	// Username is the claimed public handle, stored lowercase.
	Username string `json:"username"`

	// CreatedAt is when the profile row was created.
	CreatedAt time.Time `json:"created_at"`
}

// ValidateUsername checks the username format before any remote call.
func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("%w: %q", ErrInvalidUsername, username)
	}
	return nil
}

// Store is the record store façade for profiles and their activity.
type Store struct {
	api   *postgrest.Client
	tasks *task.Store
}

// NewStore creates a profile store over the record store client.
func NewStore(api *postgrest.Client) *Store {
	return &Store{api: api, tasks: task.NewStore(api)}
}

// ByUsername looks a profile up by its public handle.
func (s *Store) ByUsername(ctx context.Context, username string) (*Profile, error) {
	query := postgrest.NewQuery().
		Eq("username", strings.ToLower(username)).
		Limit(1)
	var profiles []Profile
	if err := s.api.List(ctx, Table, query, &profiles); err != nil {
		return nil, fmt.Errorf("look up profile %q: %w", username, err)
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrProfileNotFound, username)
	}
	return &profiles[0], nil
}

// ByID looks a profile up by user id.
func (s *Store) ByID(ctx context.Context, id string) (*Profile, error) {
	var found Profile
	err := s.api.GetByID(ctx, Table, id, &found)
	if errors.Is(err, postgrest.ErrNotFound) {
		return nil, fmt.Errorf("%w: id %s", ErrProfileNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("look up profile id %s: %w", id, err)
	}
	return &found, nil
}

// ClaimUsername validates and claims a username for the user, lowercased.
// A uniqueness conflict on the username surfaces as ErrUsernameTaken; any
// other store failure passes through untouched.
func (s *Store) ClaimUsername(ctx context.Context, userID, username string) (*Profile, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}

	record := map[string]any{
		"id":       userID,
		"username": strings.ToLower(username),
	}
	var claimed []Profile
	if err := s.api.Upsert(ctx, Table, record, &claimed); err != nil {
		if postgrest.IsConflict(err) {
			return nil, fmt.Errorf("%w: %q", ErrUsernameTaken, strings.ToLower(username))
		}
		return nil, fmt.Errorf("claim username: %w", err)
	}
	if len(claimed) == 0 {
		return nil, fmt.Errorf("claim username: store returned no row")
	}
	return &claimed[0], nil
}

// Activity returns a user's tasks with recorded time in the inclusive date
// range, for aggregation into day logs.
func (s *Store) Activity(ctx context.Context, userID, from, to string) ([]task.Task, error) {
	return s.tasks.LoggedBetween(ctx, userID, from, to)
}
