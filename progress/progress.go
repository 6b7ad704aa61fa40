// Package progress implements year-progress arithmetic: how far through the
// calendar year a moment sits, and when the figures next change.
package progress

import (
	"math"
	"time"
)

// Stats describes how far a year has progressed at one moment.
type Stats struct {
	// Year is the calendar year.
	Year int

	// TotalDays is 365 or 366.
	TotalDays int

	// DaysPassed counts days elapsed including today.
	DaysPassed int

	// DaysRemaining counts days left after today.
	DaysRemaining int

	// Percentage is DaysPassed over TotalDays, rounded to one decimal.
	Percentage float64
}

// IsLeapYear reports whether year is a leap year.
func IsLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// DaysInYear returns the number of days in year.
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// DayOfYear returns the 1-based ordinal day of moment within its year.
func DayOfYear(moment time.Time) int {
	return moment.YearDay()
}

// StatsAt computes year progress at the given moment, in its location.
func StatsAt(moment time.Time) Stats {
	year := moment.Year()
	totalDays := DaysInYear(year)
	daysPassed := DayOfYear(moment)
	percentage := math.Round(float64(daysPassed)/float64(totalDays)*1000) / 10

	return Stats{
		Year:          year,
		TotalDays:     totalDays,
		DaysPassed:    daysPassed,
		DaysRemaining: totalDays - daysPassed,
		Percentage:    percentage,
	}
}

// UntilMidnight returns the duration from moment to the next local midnight,
// when DaysPassed next changes.
func UntilMidnight(moment time.Time) time.Duration {
	year, month, day := moment.Date()
	midnight := time.Date(year, month, day+1, 0, 0, 0, 0, moment.Location())
	return midnight.Sub(moment)
}
