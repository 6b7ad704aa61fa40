package postgrest

import "testing"

func TestQueryEncode(t *testing.T) {
	cases := []struct {
		name  string
		query Query
		want  string
	}{
		{
			name:  "empty",
			query: NewQuery(),
			want:  "",
		},
		{
			name:  "single eq",
			query: NewQuery().Eq("user_id", "u-1"),
			want:  "user_id=eq.u-1",
		},
		{
			name: "filters order and limit",
			query: NewQuery().
				Eq("task_id", "t-1").
				IsNull("ended_at").
				OrderDesc("started_at").
				Limit(1),
			want: "task_id=eq.t-1&ended_at=is.null&order=started_at.desc&limit=1",
		},
		{
			name: "range predicates",
			query: NewQuery().
				Gte("date", "2026-01-01").
				Lte("date", "2026-12-31").
				Gt("total_duration_ms", 0),
			want: "date=gte.2026-01-01&date=lte.2026-12-31&total_duration_ms=gt.0",
		},
		{
			name:  "nulls first ordering",
			query: NewQuery().OrderAscNullsFirst("completed_at").OrderAsc("created_at"),
			want:  "order=completed_at.asc.nullsfirst,created_at.asc",
		},
		{
			name:  "value escaping",
			query: NewQuery().Gte("started_at", "2026-08-29T10:00:00+02:00"),
			want:  "started_at=gte.2026-08-29T10%3A00%3A00%2B02%3A00",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.query.Encode(); got != c.want {
				t.Fatalf("expected %q, got %q", c.want, got)
			}
		})
	}
}

func TestQueryBuilderDoesNotMutateReceiver(t *testing.T) {
	base := NewQuery().Eq("user_id", "u-1")
	withLimit := base.Limit(5)

	if got := base.Encode(); got != "user_id=eq.u-1" {
		t.Fatalf("base query changed: %q", got)
	}
	if got := withLimit.Encode(); got != "user_id=eq.u-1&limit=5" {
		t.Fatalf("derived query wrong: %q", got)
	}
}

func TestBranchedQueriesDoNotShareConditions(t *testing.T) {
	// Three predicates leave spare slice capacity, so a shared backing array
	// would let the second branch overwrite the first.
	base := NewQuery().
		Eq("user_id", "u-1").
		Gte("date", "2026-01-01").
		Lte("date", "2026-12-31")

	open := base.IsNull("ended_at")
	done := base.Eq("status", "completed")

	wantBase := "user_id=eq.u-1&date=gte.2026-01-01&date=lte.2026-12-31"
	if got := open.Encode(); got != wantBase+"&ended_at=is.null" {
		t.Fatalf("open branch wrong: %q", got)
	}
	if got := done.Encode(); got != wantBase+"&status=eq.completed" {
		t.Fatalf("done branch wrong: %q", got)
	}
	if got := base.Encode(); got != wantBase {
		t.Fatalf("base query changed: %q", got)
	}

	byDate := base.OrderAsc("date")
	byDuration := base.OrderDesc("total_duration_ms")
	if got := byDate.Encode(); got != wantBase+"&order=date.asc" {
		t.Fatalf("date ordering wrong: %q", got)
	}
	if got := byDuration.Encode(); got != wantBase+"&order=total_duration_ms.desc" {
		t.Fatalf("duration ordering wrong: %q", got)
	}
}
