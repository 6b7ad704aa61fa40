// Package task implements daily task records and the collection manager
// that maintains one user's tasks for a calendar date.
//
// A task is one unit of work for one user on one date. Its accumulated
// duration is the durable time-of-record: it lives on the task row and is
// only ever advanced at timer deactivation, never recomputed from session
// history.
package task

// Status represents the state of a task.
type Status string

const (
	// StatusPending indicates the task is waiting to be worked on.
	StatusPending Status = "pending"

	// StatusInProgress indicates the task is actively being timed.
	// At most one task per user may be in progress at any instant.
	StatusInProgress Status = "in_progress"

	// StatusCompleted indicates the task is finished. The transition is
	// one-way through this interface.
	StatusCompleted Status = "completed"
)

// ValidStatuses returns all valid status values.
func ValidStatuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusCompleted}
}

// IsValid returns true if the status is a known valid value.
func (s Status) IsValid() bool {
	for _, valid := range ValidStatuses() {
		if s == valid {
			return true
		}
	}
	return false
}

// MaxTitleLength is the maximum allowed length for a task title.
const MaxTitleLength = 100

// Table is the record store table holding task rows.
const Table = "tasks"
