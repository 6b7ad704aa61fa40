package profile_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/annumhq/annum/internal/postgrest"
	"github.com/annumhq/annum/internal/storetest"
	"github.com/annumhq/annum/profile"
)

func newTestStore(t *testing.T) (*profile.Store, *storetest.Server) {
	t.Helper()
	backend := storetest.NewServer()
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)
	return profile.NewStore(postgrest.NewClient(server.URL, "anon-key", nil)), backend
}

func TestStoreClaimUsername(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	claimed, err := store.ClaimUsername(ctx, "u-1", "Alice_99")
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if claimed.Username != "alice_99" {
		t.Fatalf("expected lowercased username, got %q", claimed.Username)
	}

	found, err := store.ByUsername(ctx, "ALICE_99")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if found.ID != "u-1" {
		t.Fatalf("expected u-1, got %q", found.ID)
	}
}

func TestStoreClaimUsernameReclaimByOwner(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := store.ClaimUsername(ctx, "u-1", "alice"); err != nil {
		t.Fatalf("first claim: %v", err)
	}
	claimed, err := store.ClaimUsername(ctx, "u-1", "wonderland")
	if err != nil {
		t.Fatalf("reclaim: %v", err)
	}
	if claimed.Username != "wonderland" {
		t.Fatalf("expected wonderland, got %q", claimed.Username)
	}
}

func TestStoreClaimUsernameTaken(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := store.ClaimUsername(ctx, "u-1", "alice"); err != nil {
		t.Fatalf("first claim: %v", err)
	}
	_, err := store.ClaimUsername(ctx, "u-2", "alice")
	if !errors.Is(err, profile.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestStoreClaimUsernameInvalid(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.ClaimUsername(context.Background(), "u-1", "a b")
	if !errors.Is(err, profile.ErrInvalidUsername) {
		t.Fatalf("expected ErrInvalidUsername, got %v", err)
	}
}

func TestStoreByUsernameNotFound(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.ByUsername(context.Background(), "nobody")
	if !errors.Is(err, profile.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestStoreActivity(t *testing.T) {
	store, backend := newTestStore(t)
	ctx := context.Background()

	backend.SeedRow("tasks", map[string]any{
		"id": "a", "user_id": "u-1", "date": "2026-08-27",
		"total_duration_ms": float64(60000), "created_at": "2026-08-27T09:00:00Z",
	})
	backend.SeedRow("tasks", map[string]any{
		"id": "b", "user_id": "u-1", "date": "2026-08-20",
		"total_duration_ms": float64(0), "created_at": "2026-08-20T09:00:00Z",
	})

	tasks, err := store.Activity(ctx, "u-1", "2026-08-01", "2026-08-31")
	if err != nil {
		t.Fatalf("activity: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != "a" {
		t.Fatalf("expected only the logged task, got %+v", tasks)
	}
}
