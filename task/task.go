package task

import "time"

// DateLayout is the date-only format used for task calendar dates.
const DateLayout = "2006-01-02"

// Task represents one unit of work for one user on one calendar date.
type Task struct {
	// ID is the opaque, server-assigned identifier.
	ID string `json:"id"`

	// UserID identifies the owning user.
	UserID string `json:"user_id"`

	// Title is the short description of the task (max 100 chars).
	Title string `json:"title"`

	// Status is the current state of the task.
	Status Status `json:"status"`

	// DurationMS is the accumulated timed duration in milliseconds.
	// It never decreases except via explicit external edit.
	DurationMS int64 `json:"total_duration_ms"`

	// Date is the local calendar date the task belongs to.
	Date string `json:"date"`

	// CreatedAt is when the task was created.
	CreatedAt time.Time `json:"created_at"`

	// CompletedAt is when the task completed (nil while not completed).
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Active reports whether the task is currently being timed.
func (t Task) Active() bool {
	return t.Status == StatusInProgress
}

// DateOf returns the local calendar date of a moment in DateLayout form.
func DateOf(moment time.Time) string {
	return moment.Format(DateLayout)
}

// TotalDuration sums accumulated durations across tasks.
func TotalDuration(tasks []Task) int64 {
	var total int64
	for _, t := range tasks {
		total += t.DurationMS
	}
	return total
}
