package user

import (
	"time"
)

// Record is one consumption entry. Records are append-only: they are always
// created with "now" as the timestamp, never edited and never backdated, so
// list order is chronological order.
type Record struct {
	Created time.Time `json:"timestamp"`
	Amount  float64   `json:"amount"`
}

func NewRecord(amount float64, now time.Time) Record {
	return Record{
		Created: now,
		Amount:  amount,
	}
}
