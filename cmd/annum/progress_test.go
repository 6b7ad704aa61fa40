package main

import (
	"strings"
	"testing"
	"time"

	"github.com/annumhq/annum/progress"
)

func TestRenderProgressPlain(t *testing.T) {
	stats := progress.Stats{
		Year:          2026,
		TotalDays:     365,
		DaysPassed:    241,
		DaysRemaining: 124,
		Percentage:    66.0,
	}

	output := renderProgress(stats, 5*time.Hour+30*time.Minute, false)
	if !strings.Contains(output, "2026: 66.0% complete") {
		t.Errorf("expected headline, got %q", output)
	}
	if !strings.Contains(output, "day 241 of 365, 124 days left, next day in 5h") {
		t.Errorf("expected day line, got %q", output)
	}
	if got := strings.Count(output, "▪"); got != 240 {
		t.Errorf("expected 240 passed dots, got %d", got)
	}
	if got := strings.Count(output, "●"); got != 1 {
		t.Errorf("expected 1 today dot, got %d", got)
	}
	if got := strings.Count(output, "·"); got != 365-241 {
		t.Errorf("expected %d future dots, got %d", 365-241, got)
	}
}

func TestWatchLinePlain(t *testing.T) {
	line := watchLine("write report", 3661000, false)
	if line != "write report  01:01:01" {
		t.Fatalf("unexpected watch line: %q", line)
	}
}
