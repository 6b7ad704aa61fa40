package session

import (
	"context"
	"fmt"
	"time"

	"github.com/annumhq/annum/internal/postgrest"
)

// Store is the record store façade for the task_sessions table.
type Store struct {
	api *postgrest.Client
}

// NewStore creates a session store over the record store client.
func NewStore(api *postgrest.Client) *Store {
	return &Store{api: api}
}

// FindOpen returns the most recently started open session for a task, or
// nil when the task has none.
func (s *Store) FindOpen(ctx context.Context, taskID string) (*Session, error) {
	query := postgrest.NewQuery().
		Eq("task_id", taskID).
		IsNull("ended_at").
		OrderDesc("started_at").
		Limit(1)
	var sessions []Session
	if err := s.api.List(ctx, Table, query, &sessions); err != nil {
		return nil, fmt.Errorf("find open session: %w", err)
	}
	if len(sessions) == 0 {
		return nil, nil
	}
	return &sessions[0], nil
}

// Open creates a new open session for a task starting at startedAt.
func (s *Store) Open(ctx context.Context, taskID, userID string, startedAt time.Time) (Session, error) {
	record := map[string]any{
		"task_id":    taskID,
		"user_id":    userID,
		"started_at": startedAt.UTC().Format(time.RFC3339Nano),
	}
	var created []Session
	if err := s.api.Insert(ctx, Table, record, &created); err != nil {
		return Session{}, fmt.Errorf("open session: %w", err)
	}
	if len(created) == 0 {
		return Session{}, fmt.Errorf("open session: store returned no row")
	}
	return created[0], nil
}

// Close stamps the end timestamp and elapsed duration on a session.
func (s *Store) Close(ctx context.Context, id string, endedAt time.Time, durationMS int64) error {
	query := postgrest.NewQuery().Eq("id", id)
	patch := map[string]any{
		"ended_at":    endedAt.UTC().Format(time.RFC3339Nano),
		"duration_ms": durationMS,
	}
	if err := s.api.Update(ctx, Table, query, patch, nil); err != nil {
		return fmt.Errorf("close session %s: %w", id, err)
	}
	return nil
}
