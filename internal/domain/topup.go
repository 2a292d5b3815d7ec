package domain

import "time"

// TopupLot is a discrete, purchased, expiring block of AI-usage credits.
// Once created only UsedCount changes, and it only increases. Expired lots
// are never deleted; they stop contributing to the balance but stay behind
// as an audit record.
type TopupLot struct {
	ID          string
	UserID      string
	Amount      int
	UsedCount   int
	PurchasedAt time.Time
	ExpiresAt   time.Time
}

// Available returns the unconsumed units left in the lot.
func (l TopupLot) Available() int {
	if n := l.Amount - l.UsedCount; n > 0 {
		return n
	}
	return 0
}

// Live reports whether the lot still counts toward the balance at now.
func (l TopupLot) Live(now time.Time) bool {
	return l.ExpiresAt.After(now)
}
