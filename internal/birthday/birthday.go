// Package birthday computes countdowns to the next birthday.
//
// All arithmetic is done on civil dates in UTC, so daylight-saving shifts and
// the time of day never change a result. A February 29 birthday falls on
// March 1 in non-leap years.
package birthday

import (
	"fmt"
	"time"
)

// Next returns the next occurrence of birth's month and day on or after
// today's date.
func Next(birth, today time.Time) time.Time {
	t := civil(today)
	next := time.Date(t.Year(), birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC)
	if next.Before(t) {
		next = time.Date(t.Year()+1, birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC)
	}
	return next
}

// DaysUntil returns the whole days from today to the next birthday:
// 0 on the birthday itself, never more than 366.
func DaysUntil(birth, today time.Time) int {
	return int(Next(birth, today).Sub(civil(today)).Hours() / 24)
}

// Format renders the birthday as "15 July".
func Format(birth time.Time) string {
	return fmt.Sprintf("%d %s", birth.Day(), birth.Month())
}

func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
