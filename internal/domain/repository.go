package domain

import (
	"context"
	"time"
)

// UserRepository defines access methods for users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdatePlan(ctx context.Context, id string, plan UserPlan) (*User, error)
}

// UsageEventRepository persists the append-only usage event log.
type UsageEventRepository interface {
	Insert(ctx context.Context, event *UsageEvent) error
	CountSince(ctx context.Context, userID, eventType string, since time.Time) (int, error)
}

// TopupRepository persists top-up credit lots.
type TopupRepository interface {
	// ListLive returns the user's unexpired lots ordered oldest purchase first.
	ListLive(ctx context.Context, userID string, now time.Time) ([]TopupLot, error)
	ListAll(ctx context.Context, userID string) ([]TopupLot, error)
	Insert(ctx context.Context, lot *TopupLot) error
	// AddUsed increments a lot's used count by n. Implementations must refuse
	// an increment that would push used count past the lot amount.
	AddUsed(ctx context.Context, lotID string, n int) error
}

// PaymentRepository persists purchase audit records.
type PaymentRepository interface {
	Insert(ctx context.Context, payment *Payment) error
}
