package timer

import (
	"context"
	"fmt"

	"github.com/annumhq/annum/task"
)

// Coordinator sequences task status writes with engine activation and
// deactivation so that exactly one task ticks at a time.
//
// Ordering rules it enforces:
//   - starting task A while task B runs stops B (status write), deactivates
//     B's binding (duration write), and only then starts A — if stopping B
//     fails, A is not started;
//   - the old binding's duration write is issued before the new activation,
//     so no two tasks ever share one anchor.
type Coordinator struct {
	tasks  *task.Manager
	engine *Engine
}

// NewCoordinator binds a collection manager to a timer engine.
func NewCoordinator(tasks *task.Manager, engine *Engine) *Coordinator {
	return &Coordinator{tasks: tasks, engine: engine}
}

// Tasks returns the underlying collection manager.
func (c *Coordinator) Tasks() *task.Manager {
	return c.tasks
}

// Engine returns the underlying timer engine.
func (c *Coordinator) Engine() *Engine {
	return c.engine
}

// Start makes the task with the given id the single active task and anchors
// its timer.
func (c *Coordinator) Start(ctx context.Context, id string) (*task.Task, error) {
	if active := c.tasks.Active(); active != nil && active.ID != id {
		if _, err := c.tasks.Stop(ctx, active.ID); err != nil {
			return nil, fmt.Errorf("stop running task %s: %w", active.ID, err)
		}
	}

	// The engine can be bound to a task that is no longer in_progress: a
	// prior switch stopped it but failed the duration write, keeping the
	// binding so the accrued time is not lost. That binding must be
	// deactivated, not overwritten.
	if bound := c.engine.TaskID(); bound != "" && bound != id {
		if _, err := c.engine.Deactivate(ctx); err != nil {
			return nil, fmt.Errorf("persist duration for task %s: %w", bound, err)
		}
	}

	started, err := c.tasks.Start(ctx, id)
	if err != nil {
		return nil, err
	}
	c.engine.Activate(ctx, *started)
	return started, nil
}

// Stop transitions the task to pending and persists its accumulated
// duration. The duration write's failure is surfaced; session bookkeeping
// failures are not.
func (c *Coordinator) Stop(ctx context.Context, id string) (*task.Task, error) {
	stopped, err := c.tasks.Stop(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.engine.TaskID() == id {
		if _, err := c.engine.Deactivate(ctx); err != nil {
			return stopped, err
		}
	}
	return c.tasks.Get(id)
}

// Complete transitions the task to completed, stamps the completion time,
// and persists its accumulated duration.
func (c *Coordinator) Complete(ctx context.Context, id string) (*task.Task, error) {
	completed, err := c.tasks.Complete(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.engine.TaskID() == id {
		if _, err := c.engine.Deactivate(ctx); err != nil {
			return completed, err
		}
	}
	return c.tasks.Get(id)
}

// Remove deletes the task. Deleting the active task clears the anchor with
// no further writes; orphaned session rows are acceptable.
func (c *Coordinator) Remove(ctx context.Context, id string) error {
	if err := c.tasks.Remove(ctx, id); err != nil {
		return err
	}
	if c.engine.TaskID() == id {
		c.engine.Drop()
	}
	return nil
}

// Elapsed returns the display duration for a task: the live engine value
// for the bound task, the stored total otherwise.
func (c *Coordinator) Elapsed(t task.Task) int64 {
	if c.engine.TaskID() == t.ID {
		return c.engine.Elapsed()
	}
	return t.DurationMS
}
