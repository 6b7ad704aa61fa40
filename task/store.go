package task

import (
	"context"
	"fmt"
	"time"

	"github.com/annumhq/annum/internal/postgrest"
)

// Patch describes a partial update to a task row.
// Nil pointers mean "don't update this field".
type Patch struct {
	Title       *string
	Status      *Status
	DurationMS  *int64
	CompletedAt *time.Time
}

// Fields returns the sparse field map sent to the record store.
func (p Patch) Fields() map[string]any {
	fields := make(map[string]any)
	if p.Title != nil {
		fields["title"] = *p.Title
	}
	if p.Status != nil {
		fields["status"] = *p.Status
	}
	if p.DurationMS != nil {
		fields["total_duration_ms"] = *p.DurationMS
	}
	if p.CompletedAt != nil {
		fields["completed_at"] = p.CompletedAt.UTC().Format(time.RFC3339)
	}
	return fields
}

// Store is the record store façade for the tasks table.
type Store struct {
	api *postgrest.Client
}

// NewStore creates a task store over the record store client.
func NewStore(api *postgrest.Client) *Store {
	return &Store{api: api}
}

// ForDate returns a user's tasks on one date, most recently created first.
func (s *Store) ForDate(ctx context.Context, userID, date string) ([]Task, error) {
	query := postgrest.NewQuery().
		Eq("user_id", userID).
		Eq("date", date).
		OrderDesc("created_at")
	var tasks []Task
	if err := s.api.List(ctx, Table, query, &tasks); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// DailyLog returns a user's tasks on one date ordered for log display:
// completion time ascending, tasks without one first.
func (s *Store) DailyLog(ctx context.Context, userID, date string) ([]Task, error) {
	query := postgrest.NewQuery().
		Eq("user_id", userID).
		Eq("date", date).
		OrderAscNullsFirst("completed_at")
	var tasks []Task
	if err := s.api.List(ctx, Table, query, &tasks); err != nil {
		return nil, fmt.Errorf("list daily log: %w", err)
	}
	return tasks, nil
}

// LoggedBetween returns a user's tasks with recorded time in the inclusive
// date range. An empty "to" leaves the range open-ended.
func (s *Store) LoggedBetween(ctx context.Context, userID, from, to string) ([]Task, error) {
	query := postgrest.NewQuery().
		Eq("user_id", userID).
		Gte("date", from)
	if to != "" {
		query = query.Lte("date", to)
	}
	query = query.Gt("total_duration_ms", 0).OrderDesc("date")

	var tasks []Task
	if err := s.api.List(ctx, Table, query, &tasks); err != nil {
		return nil, fmt.Errorf("list logged tasks: %w", err)
	}
	return tasks, nil
}

// Create inserts a pending task with zero duration and returns the stored row.
func (s *Store) Create(ctx context.Context, userID, title, date string) (Task, error) {
	record := map[string]any{
		"user_id":           userID,
		"title":             title,
		"status":            StatusPending,
		"total_duration_ms": 0,
		"date":              date,
	}
	var created []Task
	if err := s.api.Insert(ctx, Table, record, &created); err != nil {
		return Task{}, fmt.Errorf("create task: %w", err)
	}
	if len(created) == 0 {
		return Task{}, fmt.Errorf("create task: store returned no row")
	}
	return created[0], nil
}

// Patch applies a partial update by id and returns the stored row.
func (s *Store) Patch(ctx context.Context, id string, patch Patch) (Task, error) {
	query := postgrest.NewQuery().Eq("id", id)
	var updated []Task
	if err := s.api.Update(ctx, Table, query, patch.Fields(), &updated); err != nil {
		return Task{}, fmt.Errorf("update task %s: %w", id, err)
	}
	if len(updated) == 0 {
		return Task{}, fmt.Errorf("update task %s: %w", id, ErrTaskNotFound)
	}
	return updated[0], nil
}

// Delete removes a task row permanently. Sessions recorded against the task
// are left in place; they carry no ongoing cost.
func (s *Store) Delete(ctx context.Context, id string) error {
	query := postgrest.NewQuery().Eq("id", id)
	if err := s.api.Delete(ctx, Table, query); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return nil
}
