// Package session implements timer session records: one contiguous interval
// during which a task was actively being timed.
//
// A task has at most one open session at a time. Session rows are
// bookkeeping only; a task's duration of record lives on the task row, so
// failures writing sessions never corrupt displayed totals.
package session

import "time"

// Table is the record store table holding session rows.
const Table = "task_sessions"

// Session is one open/closed timing interval for a task.
type Session struct {
	// ID is the opaque, server-assigned identifier.
	ID string `json:"id"`

	// TaskID identifies the task being timed.
	TaskID string `json:"task_id"`

	// UserID identifies the owning user.
	UserID string `json:"user_id"`

	// StartedAt is when the interval began.
	StartedAt time.Time `json:"started_at"`

	// EndedAt is when the interval closed (nil while open).
	EndedAt *time.Time `json:"ended_at,omitempty"`

	// DurationMS is the interval's elapsed milliseconds (nil while open).
	DurationMS *int64 `json:"duration_ms,omitempty"`
}

// Open reports whether the session has not yet been closed.
func (s Session) Open() bool {
	return s.EndedAt == nil
}
