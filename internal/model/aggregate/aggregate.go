// Package aggregate derives display values from a user's record list. All
// functions are pure: callers sample "now" once per pass and hand it in, so
// related values rendered together never skew against each other.
package aggregate

import (
	"time"

	"github.com/jinzhu/now"

	"siplog/internal/entity/user"
)

// Total sums all record amounts. Empty list sums to 0.
func Total(records []user.Record) float64 {
	total := 0.0
	for _, rec := range records {
		total += rec.Amount
	}
	return total
}

// Recent sums the amounts of records strictly after now - hoursAgo hours.
// A record exactly at the cutoff is excluded.
func Recent(records []user.Record, hoursAgo int, nowTime time.Time) float64 {
	cutoff := nowTime.Add(-time.Duration(hoursAgo) * time.Hour)
	total := 0.0
	for _, rec := range records {
		if cutoff.Before(rec.Created) {
			total += rec.Amount
		}
	}
	return total
}

// Today sums the amounts of records since the beginning of nowTime's day.
func Today(records []user.Record, nowTime time.Time) float64 {
	dayStart := now.New(nowTime).BeginningOfDay()
	total := 0.0
	for _, rec := range records {
		if !rec.Created.Before(dayStart) {
			total += rec.Amount
		}
	}
	return total
}

// MinutesSinceLast returns the whole minutes between nowTime and the last
// element of the list. The list is taken as-is: records are appended in
// chronological order and must not be re-sorted here. ok is false for an
// empty list.
func MinutesSinceLast(records []user.Record, nowTime time.Time) (minutes int, ok bool) {
	if len(records) == 0 {
		return 0, false
	}
	last := records[len(records)-1].Created
	return int(nowTime.Sub(last) / time.Minute), true
}

// WaitRemaining returns how many minutes of the cooldown are left after last,
// floored at 0.
func WaitRemaining(last time.Time, waitingMinutes int, nowTime time.Time) int {
	elapsed := int(nowTime.Sub(last) / time.Minute)
	remaining := waitingMinutes - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// WaitActive reports whether the "wait before your next entry" warning holds:
// at least one record exists and less than waitingMinutes have passed since
// the last one.
func WaitActive(records []user.Record, waitingMinutes int, nowTime time.Time) bool {
	minutes, ok := MinutesSinceLast(records, nowTime)
	return ok && minutes < waitingMinutes
}
