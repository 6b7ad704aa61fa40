package task_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/annumhq/annum/internal/storetest"
	"github.com/annumhq/annum/task"
)

var errBackend = errors.New("backend unavailable")

func newManager(t *testing.T) (*task.Manager, *storetest.TaskRecords) {
	t.Helper()
	records := storetest.NewTaskRecords()
	manager := task.NewManager(records, "user-1")
	return manager, records
}

func TestCreateValidatesTitle(t *testing.T) {
	manager, _ := newManager(t)

	cases := []struct {
		name  string
		title string
	}{
		{name: "empty", title: ""},
		{name: "whitespace only", title: "   \t  "},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := manager.Create(context.Background(), tc.title)
			if !errors.Is(err, task.ErrEmptyTitle) {
				t.Fatalf("expected ErrEmptyTitle, got %v", err)
			}
		})
	}
}

func TestCreatePrependsMostRecentFirst(t *testing.T) {
	manager, _ := newManager(t)
	ctx := context.Background()

	first, err := manager.Create(ctx, "write report")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := manager.Create(ctx, "  review notes  ")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if second.Title != "review notes" {
		t.Fatalf("expected trimmed title, got %q", second.Title)
	}
	if second.Status != task.StatusPending || second.DurationMS != 0 {
		t.Fatalf("expected pending task with zero duration, got %+v", second)
	}

	tasks := manager.Tasks()
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].ID != second.ID || tasks[1].ID != first.ID {
		t.Fatal("expected most recent task first")
	}
}

func TestListFailureKeepsPreviousList(t *testing.T) {
	manager, records := newManager(t)
	ctx := context.Background()

	if _, err := manager.Create(ctx, "write report"); err != nil {
		t.Fatalf("create: %v", err)
	}

	records.FailList = errBackend
	if _, err := manager.List(ctx); !errors.Is(err, errBackend) {
		t.Fatalf("expected backend error, got %v", err)
	}

	tasks := manager.Tasks()
	if len(tasks) != 1 || tasks[0].Title != "write report" {
		t.Fatalf("expected previous list retained, got %+v", tasks)
	}
}

func TestStartEnforcesSingleActiveTask(t *testing.T) {
	manager, _ := newManager(t)
	ctx := context.Background()

	a, err := manager.Create(ctx, "task a")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	b, err := manager.Create(ctx, "task b")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := manager.Start(ctx, a.ID); err != nil {
		t.Fatalf("start a: %v", err)
	}
	if _, err := manager.Start(ctx, b.ID); err != nil {
		t.Fatalf("start b: %v", err)
	}

	var active int
	for _, item := range manager.Tasks() {
		if item.Active() {
			active++
			if item.ID != b.ID {
				t.Fatalf("expected task b active, got %s", item.Title)
			}
		}
	}
	if active != 1 {
		t.Fatalf("expected exactly one active task, got %d", active)
	}

	stopped, err := manager.Get(a.ID)
	if err != nil {
		t.Fatalf("get a: %v", err)
	}
	if stopped.Status != task.StatusPending {
		t.Fatalf("expected task a back to pending, got %s", stopped.Status)
	}
}

func TestStartAbortsWhenStopOldFails(t *testing.T) {
	manager, records := newManager(t)
	ctx := context.Background()

	a, err := manager.Create(ctx, "task a")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	b, err := manager.Create(ctx, "task b")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := manager.Start(ctx, a.ID); err != nil {
		t.Fatalf("start a: %v", err)
	}

	records.FailPatch = errBackend
	if _, err := manager.Start(ctx, b.ID); !errors.Is(err, errBackend) {
		t.Fatalf("expected backend error, got %v", err)
	}
	records.FailPatch = nil

	stillActive := manager.Active()
	if stillActive == nil || stillActive.ID != a.ID {
		t.Fatal("expected task a to remain the active task")
	}
	notStarted, err := manager.Get(b.ID)
	if err != nil {
		t.Fatalf("get b: %v", err)
	}
	if notStarted.Status != task.StatusPending {
		t.Fatalf("expected task b untouched, got %s", notStarted.Status)
	}
}

func TestCompleteStampsCompletionTime(t *testing.T) {
	fixed := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	records := storetest.NewTaskRecords()
	manager := task.NewManager(records, "user-1", task.WithNow(func() time.Time { return fixed }))
	ctx := context.Background()

	created, err := manager.Create(ctx, "task")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	completed, err := manager.Complete(ctx, created.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completed.Status != task.StatusCompleted {
		t.Fatalf("expected completed, got %s", completed.Status)
	}
	if completed.CompletedAt == nil || !completed.CompletedAt.Equal(fixed) {
		t.Fatalf("expected completion stamped at %v, got %v", fixed, completed.CompletedAt)
	}
}

func TestRemoveDropsFromList(t *testing.T) {
	manager, _ := newManager(t)
	ctx := context.Background()

	created, err := manager.Create(ctx, "task")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := manager.Remove(ctx, created.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(manager.Tasks()) != 0 {
		t.Fatal("expected empty list after remove")
	}
	if _, err := manager.Get(created.ID); !errors.Is(err, task.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestUpdateFailureLeavesListUnchanged(t *testing.T) {
	manager, records := newManager(t)
	ctx := context.Background()

	created, err := manager.Create(ctx, "task")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	records.FailPatch = errBackend
	duration := int64(90_000)
	if _, err := manager.Update(ctx, created.ID, task.Patch{DurationMS: &duration}); !errors.Is(err, errBackend) {
		t.Fatalf("expected backend error, got %v", err)
	}

	tasks := manager.Tasks()
	if tasks[0].DurationMS != 0 {
		t.Fatalf("expected duration unchanged, got %d", tasks[0].DurationMS)
	}
}
