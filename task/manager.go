package task

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Records is the slice of the task store the manager needs.
type Records interface {
	ForDate(ctx context.Context, userID, date string) ([]Task, error)
	Create(ctx context.Context, userID, title, date string) (Task, error)
	Patch(ctx context.Context, id string, patch Patch) (Task, error)
	Delete(ctx context.Context, id string) error
}

// Manager maintains the in-memory list of one user's tasks for "today" and
// applies lifecycle operations against the record store.
//
// The list is only updated from a row the store returned after a successful
// write; a failed remote call leaves the list unchanged.
type Manager struct {
	records Records
	userID  string
	now     func() time.Time

	mu    sync.Mutex
	tasks []Task
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithNow overrides the wall-clock source, for tests.
func WithNow(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a manager for one user's tasks.
func NewManager(records Records, userID string, opts ...ManagerOption) *Manager {
	manager := &Manager{
		records: records,
		userID:  userID,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(manager)
	}
	return manager
}

// List refreshes and returns today's tasks, most recently created first.
// On a fetch error the previous in-memory list is retained.
func (m *Manager) List(ctx context.Context) ([]Task, error) {
	tasks, err := m.records.ForDate(ctx, m.userID, DateOf(m.now()))
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.tasks = tasks
	m.mu.Unlock()
	return m.snapshot(), nil
}

// Tasks returns a copy of the current in-memory list.
func (m *Manager) Tasks() []Task {
	return m.snapshot()
}

// Active returns the task currently in progress, or nil.
func (m *Manager) Active() *Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tasks {
		if t.Active() {
			active := t
			return &active
		}
	}
	return nil
}

// Get returns the in-memory task with the given id, or ErrTaskNotFound.
func (m *Manager) Get(id string) (*Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tasks {
		if t.ID == id {
			found := t
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
}

// Create validates the title, stores a pending task dated today, and
// prepends it to the in-memory list.
func (m *Manager) Create(ctx context.Context, title string) (*Task, error) {
	title = strings.TrimSpace(title)
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}

	created, err := m.records.Create(ctx, m.userID, title, DateOf(m.now()))
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.tasks = append([]Task{created}, m.tasks...)
	m.mu.Unlock()
	return &created, nil
}

// Start transitions the task to in_progress, first stopping any other task
// that is currently running. If stopping the running task fails, the start
// does not proceed.
func (m *Manager) Start(ctx context.Context, id string) (*Task, error) {
	if active := m.Active(); active != nil && active.ID != id {
		if _, err := m.Stop(ctx, active.ID); err != nil {
			return nil, fmt.Errorf("stop running task %s: %w", active.ID, err)
		}
	}
	return m.setStatus(ctx, id, StatusInProgress)
}

// Stop transitions the task back to pending.
func (m *Manager) Stop(ctx context.Context, id string) (*Task, error) {
	return m.setStatus(ctx, id, StatusPending)
}

// Complete transitions the task to completed and stamps the completion time.
// The transition is not reversible through this interface.
func (m *Manager) Complete(ctx context.Context, id string) (*Task, error) {
	status := StatusCompleted
	completedAt := m.now()
	return m.Update(ctx, id, Patch{Status: &status, CompletedAt: &completedAt})
}

// Remove deletes the task permanently and drops it from the in-memory list.
func (m *Manager) Remove(ctx context.Context, id string) error {
	if err := m.records.Delete(ctx, id); err != nil {
		return err
	}

	m.mu.Lock()
	kept := m.tasks[:0]
	for _, t := range m.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	m.tasks = kept
	m.mu.Unlock()
	return nil
}

// Update applies a partial field patch and folds the stored row back into
// the in-memory list. The timer engine uses this to persist accumulated
// duration at deactivation.
func (m *Manager) Update(ctx context.Context, id string, patch Patch) (*Task, error) {
	updated, err := m.records.Patch(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	for i, t := range m.tasks {
		if t.ID == id {
			m.tasks[i] = updated
			break
		}
	}
	m.mu.Unlock()
	return &updated, nil
}

func (m *Manager) setStatus(ctx context.Context, id string, status Status) (*Task, error) {
	return m.Update(ctx, id, Patch{Status: &status})
}

func (m *Manager) snapshot() []Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Task(nil), m.tasks...)
}
