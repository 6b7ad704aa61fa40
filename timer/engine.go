// Package timer implements the task-timer reconciliation engine.
//
// The engine keeps one task's visible elapsed time consistent with a
// server-persisted session record. Activation anchors a local wall-clock
// timestamp immediately so the display starts ticking with zero perceived
// latency; reconciliation with the session store happens afterwards and
// never blocks the display. Elapsed time is always recomputed from the
// absolute anchor, never accumulated from per-tick deltas, so a paused or
// hidden display resumes without drift.
package timer

import (
	"context"
	"sync"
	"time"

	"github.com/annumhq/annum/session"
	"github.com/annumhq/annum/task"
)

// State is the engine's binding state.
type State string

const (
	// StateIdle means no task is bound to the anchor slot.
	StateIdle State = "idle"

	// StateAnchoring means a task just became active locally and the
	// session record has not yet been confirmed with the store.
	StateAnchoring State = "anchoring"

	// StateRunning means the timer is ticking, on a confirmed session or
	// provisionally on the local anchor.
	StateRunning State = "running"

	// StateClosing means the task is leaving the active state and the
	// durable duration write is in flight.
	StateClosing State = "closing"
)

// SessionStore is the slice of the session record store the engine needs.
type SessionStore interface {
	FindOpen(ctx context.Context, taskID string) (*session.Session, error)
	Open(ctx context.Context, taskID, userID string, startedAt time.Time) (session.Session, error)
	Close(ctx context.Context, id string, endedAt time.Time, durationMS int64) error
}

// TaskUpdater persists the accumulated duration of record at deactivation.
// *task.Manager satisfies it.
type TaskUpdater interface {
	Update(ctx context.Context, id string, patch task.Patch) (*task.Task, error)
}

// Engine reconciles one task's accumulated duration with a live session.
// It holds exactly one mutable binding at a time: the active task's anchor
// timestamp plus the pre-session base duration.
type Engine struct {
	sessions SessionStore
	tasks    TaskUpdater
	userID   string
	now      func() time.Time
	detach   func(func())
	logf     func(format string, args ...any)

	mu        sync.Mutex
	state     State
	taskID    string
	sessionID string
	anchor    time.Time
	base      int64
	gen       uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithNow overrides the wall-clock source, for tests.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithDetach overrides how detached operations (reconciliation, session
// close) are scheduled. Tests pass a synchronous runner to make detached
// work deterministic.
func WithDetach(detach func(func())) Option {
	return func(e *Engine) { e.detach = detach }
}

// WithLogf sets the sink for swallowed bookkeeping errors.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(e *Engine) { e.logf = logf }
}

// NewEngine creates an idle engine for one user.
func NewEngine(sessions SessionStore, tasks TaskUpdater, userID string, opts ...Option) *Engine {
	engine := &Engine{
		sessions: sessions,
		tasks:    tasks,
		userID:   userID,
		now:      time.Now,
		detach:   func(fn func()) { go fn() },
		logf:     func(string, ...any) {},
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// State returns the engine's current binding state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// TaskID returns the bound task's id, or "" when idle.
func (e *Engine) TaskID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.taskID
}

// Activate binds the engine to a task that just became active. The local
// anchor is taken immediately; the visible timer may tick before any network
// call completes. Reconciliation with the session store runs detached.
//
// Callers must deactivate any previous binding first; activating over a live
// binding discards its anchor without writes.
func (e *Engine) Activate(ctx context.Context, t task.Task) {
	e.mu.Lock()
	if e.state != StateIdle && e.taskID == t.ID {
		e.mu.Unlock()
		return
	}
	e.state = StateAnchoring
	e.taskID = t.ID
	e.sessionID = ""
	e.base = t.DurationMS
	e.anchor = e.now()
	e.gen++
	gen := e.gen
	anchor := e.anchor
	e.mu.Unlock()

	e.detach(func() { e.reconcile(ctx, gen, t.ID, anchor) })
}

// Elapsed returns the presented elapsed time in milliseconds: the base
// duration plus time since the anchor, recomputed from the absolute anchor
// on every call. Idle engines report zero.
func (e *Engine) Elapsed() int64 {
	return e.ElapsedAt(e.now())
}

// ElapsedAt is Elapsed against a caller-supplied clock sample, for tick
// loops that already hold one.
func (e *Engine) ElapsedAt(now time.Time) int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateIdle {
		return 0
	}
	return e.base + sinceAnchor(e.anchor, now)
}

// Deactivate unbinds the engine: it computes the new accumulated total,
// durably writes it to the task row, and best-effort closes the open session
// record. The duration write is awaited and its failure surfaced; on failure
// the binding is kept so the write can be retried. The session close is
// detached and its failure swallowed.
func (e *Engine) Deactivate(ctx context.Context) (int64, error) {
	e.mu.Lock()
	if e.state == StateIdle {
		e.mu.Unlock()
		return 0, nil
	}
	e.state = StateClosing
	now := e.now()
	sessionElapsed := sinceAnchor(e.anchor, now)
	newTotal := e.base + sessionElapsed
	taskID := e.taskID
	e.mu.Unlock()

	if _, err := e.tasks.Update(ctx, taskID, task.Patch{DurationMS: &newTotal}); err != nil {
		e.mu.Lock()
		if e.taskID == taskID {
			e.state = StateRunning
		}
		e.mu.Unlock()
		return 0, err
	}

	e.mu.Lock()
	sessionID := e.sessionID
	e.gen++ // invalidate any reconciliation still in flight
	e.state = StateIdle
	e.taskID = ""
	e.sessionID = ""
	e.base = 0
	e.anchor = time.Time{}
	e.mu.Unlock()

	if sessionID != "" {
		e.detach(func() {
			if err := e.sessions.Close(ctx, sessionID, now, sessionElapsed); err != nil {
				e.logf("close session %s: %v", sessionID, err)
			}
		})
	}
	return newTotal, nil
}

// Drop clears the binding without any writes. Used when the bound task is
// deleted; any session row left open carries no ongoing cost.
func (e *Engine) Drop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gen++
	e.state = StateIdle
	e.taskID = ""
	e.sessionID = ""
	e.base = 0
	e.anchor = time.Time{}
}

// reconcile aligns the provisional local anchor with the authoritative
// session record. It adopts an existing open session's start timestamp, or
// opens a new session at the provisional anchor. Failures leave the local
// anchor ticking; duration correctness never depends on session bookkeeping.
func (e *Engine) reconcile(ctx context.Context, gen uint64, taskID string, anchor time.Time) {
	open, err := e.sessions.FindOpen(ctx, taskID)
	if err != nil {
		e.logf("find open session for task %s: %v", taskID, err)
		e.markRunning(gen)
		return
	}

	if open != nil {
		e.mu.Lock()
		if e.gen == gen {
			e.sessionID = open.ID
			e.anchor = open.StartedAt
			e.state = StateRunning
		}
		e.mu.Unlock()
		return
	}

	created, err := e.sessions.Open(ctx, taskID, e.userID, anchor)
	if err != nil {
		e.logf("open session for task %s: %v", taskID, err)
		e.markRunning(gen)
		return
	}

	e.mu.Lock()
	if e.gen != gen {
		e.mu.Unlock()
		// The binding was deactivated while the open was in flight.
		// Close the session immediately rather than leaving it open.
		if err := e.sessions.Close(ctx, created.ID, e.now(), 0); err != nil {
			e.logf("close stale session %s: %v", created.ID, err)
		}
		return
	}
	e.sessionID = created.ID
	e.state = StateRunning
	e.mu.Unlock()
}

func (e *Engine) markRunning(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gen == gen && e.state == StateAnchoring {
		e.state = StateRunning
	}
}

// sinceAnchor returns elapsed milliseconds, clamped at zero so a skewed
// anchor in the future never renders a negative duration.
func sinceAnchor(anchor, now time.Time) int64 {
	elapsed := now.Sub(anchor).Milliseconds()
	if elapsed < 0 {
		return 0
	}
	return elapsed
}
