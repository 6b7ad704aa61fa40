package profile

import (
	"testing"
	"time"

	"github.com/annumhq/annum/task"
)

func TestActivityLevel(t *testing.T) {
	cases := []struct {
		ms   int64
		want int
	}{
		{0, 0},
		{-500, 0},
		{1, 1},
		{29*60*1000 + 59999, 1},
		{30 * 60 * 1000, 2},
		{2*60*60*1000 - 1, 2},
		{2 * 60 * 60 * 1000, 3},
		{4*60*60*1000 - 1, 3},
		{4 * 60 * 60 * 1000, 4},
		{9 * 60 * 60 * 1000, 4},
	}
	for _, c := range cases {
		if got := ActivityLevel(c.ms); got != c.want {
			t.Errorf("ActivityLevel(%d): expected %d, got %d", c.ms, c.want, got)
		}
	}
}

func TestAggregate(t *testing.T) {
	tasks := []task.Task{
		{ID: "a", Date: "2026-08-27", DurationMS: 45 * 60 * 1000},
		{ID: "b", Date: "2026-08-27", DurationMS: 90 * 60 * 1000},
		{ID: "c", Date: "2026-08-25", DurationMS: 10 * 60 * 1000},
		{ID: "d", Date: "2026-08-24", DurationMS: 0},
	}

	summary := Aggregate(tasks)

	if summary.ActiveDays != 2 {
		t.Fatalf("expected 2 active days, got %d", summary.ActiveDays)
	}
	if want := int64(145 * 60 * 1000); summary.TotalMS != want {
		t.Fatalf("expected total %d, got %d", want, summary.TotalMS)
	}
	if len(summary.Days) != 2 {
		t.Fatalf("expected 2 day logs, got %d", len(summary.Days))
	}
	if summary.Days[0].Date != "2026-08-27" {
		t.Errorf("expected newest day first, got %s", summary.Days[0].Date)
	}
	if summary.Days[0].Tasks != 2 {
		t.Errorf("expected 2 tasks on 2026-08-27, got %d", summary.Days[0].Tasks)
	}
	if summary.Days[0].Level != 3 {
		t.Errorf("expected level 3 for 135m, got %d", summary.Days[0].Level)
	}
	if summary.Days[1].Level != 1 {
		t.Errorf("expected level 1 for 10m, got %d", summary.Days[1].Level)
	}
}

func TestAggregateEmpty(t *testing.T) {
	summary := Aggregate(nil)
	if summary.ActiveDays != 0 || summary.TotalMS != 0 || len(summary.Days) != 0 {
		t.Fatalf("expected empty summary, got %+v", summary)
	}
}

func TestLastNDays(t *testing.T) {
	now := time.Date(2026, 8, 29, 15, 0, 0, 0, time.UTC)
	from, to := LastNDays(now, 7)
	if from != "2026-08-23" {
		t.Errorf("expected from 2026-08-23, got %s", from)
	}
	if to != "2026-08-29" {
		t.Errorf("expected to 2026-08-29, got %s", to)
	}
}

func TestYearDays(t *testing.T) {
	now := time.Date(2026, 8, 29, 15, 0, 0, 0, time.UTC)
	from, to := YearDays(now)
	if from != "2026-01-01" {
		t.Errorf("expected from 2026-01-01, got %s", from)
	}
	if to != "2026-08-29" {
		t.Errorf("expected to 2026-08-29, got %s", to)
	}
}
