package profile

import (
	"sort"
	"time"

	"github.com/annumhq/annum/task"
)

// Activity level thresholds, in logged milliseconds per day.
const (
	levelOneThreshold   = 30 * 60 * 1000
	levelTwoThreshold   = 2 * 60 * 60 * 1000
	levelThreeThreshold = 4 * 60 * 60 * 1000
)

// DayLog is one calendar day's aggregated activity.
type DayLog struct {
	// Date is the day in YYYY-MM-DD form.
	Date string

	// DurationMS is the total logged time across the day's tasks.
	DurationMS int64

	// Tasks is how many tasks recorded time that day.
	Tasks int

	// Level is the activity intensity bucket, 0 through 4.
	Level int
}

// Summary aggregates a stretch of days for display.
type Summary struct {
	// Days holds one entry per day with logged activity, newest first.
	Days []DayLog

	// TotalMS is the summed duration across Days.
	TotalMS int64

	// ActiveDays is how many days recorded any time.
	ActiveDays int
}

// ActivityLevel buckets a day's logged milliseconds into 0 through 4.
func ActivityLevel(ms int64) int {
	switch {
	case ms <= 0:
		return 0
	case ms < levelOneThreshold:
		return 1
	case ms < levelTwoThreshold:
		return 2
	case ms < levelThreeThreshold:
		return 3
	default:
		return 4
	}
}

// Aggregate folds task rows into per-day logs, newest first.
func Aggregate(tasks []task.Task) Summary {
	byDate := map[string]*DayLog{}
	for _, t := range tasks {
		if t.DurationMS <= 0 {
			continue
		}
		day := byDate[t.Date]
		if day == nil {
			day = &DayLog{Date: t.Date}
			byDate[t.Date] = day
		}
		day.DurationMS += t.DurationMS
		day.Tasks++
	}

	summary := Summary{Days: make([]DayLog, 0, len(byDate))}
	for _, day := range byDate {
		day.Level = ActivityLevel(day.DurationMS)
		summary.Days = append(summary.Days, *day)
		summary.TotalMS += day.DurationMS
		summary.ActiveDays++
	}
	sort.Slice(summary.Days, func(i, j int) bool {
		return summary.Days[i].Date > summary.Days[j].Date
	})
	return summary
}

// LastNDays returns the date range covering the n days ending at now,
// inclusive, in YYYY-MM-DD form.
func LastNDays(now time.Time, n int) (from, to string) {
	to = now.Format(task.DateLayout)
	from = now.AddDate(0, 0, -(n - 1)).Format(task.DateLayout)
	return from, to
}

// YearDays returns the date range covering now's calendar year so far.
func YearDays(now time.Time) (from, to string) {
	from = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()).Format(task.DateLayout)
	to = now.Format(task.DateLayout)
	return from, to
}
