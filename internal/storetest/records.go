// Package storetest provides in-memory record stores and a minimal HTTP
// backend used by tests across the module.
package storetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/annumhq/annum/session"
	"github.com/annumhq/annum/task"
)

// TaskRecords is an in-memory task.Records implementation with failure
// injection for error-path tests.
type TaskRecords struct {
	mu    sync.Mutex
	rows  []task.Task
	clock func() time.Time

	// FailList, FailCreate, FailPatch, and FailDelete, when non-nil, make
	// the corresponding operation fail without touching stored rows.
	FailList   error
	FailCreate error
	FailPatch  error
	FailDelete error

	// FailPatchDuration, when non-nil, fails only patches that carry a
	// duration write; status-only patches still succeed. It isolates the
	// stop-succeeds, duration-write-fails interleaving.
	FailPatchDuration error
}

// NewTaskRecords returns an empty in-memory tasks table.
func NewTaskRecords() *TaskRecords {
	return &TaskRecords{clock: time.Now}
}

// SetClock overrides row-creation timestamps.
func (r *TaskRecords) SetClock(clock func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clock = clock
}

// Seed stores a row as-is, assigning an id when absent.
func (r *TaskRecords) Seed(t task.Task) task.Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = r.clock()
	}
	r.rows = append(r.rows, t)
	return t
}

// Row returns the stored row with the given id.
func (r *TaskRecords) Row(id string) (task.Task, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.ID == id {
			return row, true
		}
	}
	return task.Task{}, false
}

// ForDate implements task.Records.
func (r *TaskRecords) ForDate(ctx context.Context, userID, date string) ([]task.Task, error) {
	if r.FailList != nil {
		return nil, r.FailList
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []task.Task
	for _, row := range r.rows {
		if row.UserID == userID && row.Date == date {
			matched = append(matched, row)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched, nil
}

// Create implements task.Records.
func (r *TaskRecords) Create(ctx context.Context, userID, title, date string) (task.Task, error) {
	if r.FailCreate != nil {
		return task.Task{}, r.FailCreate
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	created := task.Task{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Status:    task.StatusPending,
		Date:      date,
		CreatedAt: r.clock(),
	}
	r.rows = append(r.rows, created)
	return created, nil
}

// Patch implements task.Records.
func (r *TaskRecords) Patch(ctx context.Context, id string, patch task.Patch) (task.Task, error) {
	if r.FailPatch != nil {
		return task.Task{}, r.FailPatch
	}
	if r.FailPatchDuration != nil && patch.DurationMS != nil {
		return task.Task{}, r.FailPatchDuration
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, row := range r.rows {
		if row.ID != id {
			continue
		}
		if patch.Title != nil {
			row.Title = *patch.Title
		}
		if patch.Status != nil {
			row.Status = *patch.Status
		}
		if patch.DurationMS != nil {
			row.DurationMS = *patch.DurationMS
		}
		if patch.CompletedAt != nil {
			completedAt := *patch.CompletedAt
			row.CompletedAt = &completedAt
		}
		r.rows[i] = row
		return row, nil
	}
	return task.Task{}, task.ErrTaskNotFound
}

// Delete implements task.Records.
func (r *TaskRecords) Delete(ctx context.Context, id string) error {
	if r.FailDelete != nil {
		return r.FailDelete
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.ID != id {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}

// SessionRecords is an in-memory timer.SessionStore implementation with
// failure injection.
type SessionRecords struct {
	mu   sync.Mutex
	rows []session.Session

	// FailFind, FailOpen, and FailClose, when non-nil, make the
	// corresponding operation fail.
	FailFind  error
	FailOpen  error
	FailClose error
}

// NewSessionRecords returns an empty in-memory sessions table.
func NewSessionRecords() *SessionRecords {
	return &SessionRecords{}
}

// Seed stores a row as-is, assigning an id when absent.
func (r *SessionRecords) Seed(s session.Session) session.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	r.rows = append(r.rows, s)
	return s
}

// Rows returns a copy of all stored sessions.
func (r *SessionRecords) Rows() []session.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]session.Session(nil), r.rows...)
}

// OpenSessions returns all sessions that have not been closed.
func (r *SessionRecords) OpenSessions() []session.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	var open []session.Session
	for _, row := range r.rows {
		if row.Open() {
			open = append(open, row)
		}
	}
	return open
}

// FindOpen implements timer.SessionStore.
func (r *SessionRecords) FindOpen(ctx context.Context, taskID string) (*session.Session, error) {
	if r.FailFind != nil {
		return nil, r.FailFind
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var newest *session.Session
	for i := range r.rows {
		row := r.rows[i]
		if row.TaskID != taskID || !row.Open() {
			continue
		}
		if newest == nil || row.StartedAt.After(newest.StartedAt) {
			found := row
			newest = &found
		}
	}
	return newest, nil
}

// Open implements timer.SessionStore.
func (r *SessionRecords) Open(ctx context.Context, taskID, userID string, startedAt time.Time) (session.Session, error) {
	if r.FailOpen != nil {
		return session.Session{}, r.FailOpen
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	created := session.Session{
		ID:        uuid.NewString(),
		TaskID:    taskID,
		UserID:    userID,
		StartedAt: startedAt,
	}
	r.rows = append(r.rows, created)
	return created, nil
}

// Close implements timer.SessionStore.
func (r *SessionRecords) Close(ctx context.Context, id string, endedAt time.Time, durationMS int64) error {
	if r.FailClose != nil {
		return r.FailClose
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, row := range r.rows {
		if row.ID != id {
			continue
		}
		if row.EndedAt != nil {
			return session.ErrSessionClosed
		}
		ended := endedAt
		duration := durationMS
		row.EndedAt = &ended
		row.DurationMS = &duration
		r.rows[i] = row
		return nil
	}
	return session.ErrSessionNotFound
}
