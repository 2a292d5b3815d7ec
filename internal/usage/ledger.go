package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"engmate/internal/domain"
)

// Ledger manages top-up credit lots: issuing them with the right expiry and
// consuming them oldest purchase first.
type Ledger struct {
	topups domain.TopupRepository
	logger zerolog.Logger
	now    func() time.Time
}

// NewLedger creates a ledger over the given lot repository.
func NewLedger(topups domain.TopupRepository, logger zerolog.Logger) *Ledger {
	return &Ledger{topups: topups, logger: logger, now: time.Now}
}

// Balance returns the user's total unexpired credit. A store fault reports
// zero: the balance may understate reality but never invents credit.
func (l *Ledger) Balance(ctx context.Context, userID string) int {
	lots, err := l.topups.ListLive(ctx, userID, l.now())
	if err != nil {
		l.logger.Error().Err(err).Str("user_id", userID).Msg("topup balance lookup failed")
		return 0
	}
	total := 0
	for _, lot := range lots {
		total += lot.Available()
	}
	return total
}

// IssueLot creates a new credit lot for the user. Subscriber lots expire with
// the current billing month so late purchases only supplement that month's
// allowance; free-plan lots are standalone purchases with a fixed 90-day
// shelf life.
func (l *Ledger) IssueLot(ctx context.Context, user *domain.User, amount int) (*domain.TopupLot, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidLotAmount
	}
	now := l.now()
	expires := now.AddDate(0, 0, 90)
	if user.HasSubscription() {
		expires = endOfMonth(now)
	}
	lot := &domain.TopupLot{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Amount:      amount,
		PurchasedAt: now,
		ExpiresAt:   expires,
	}
	if err := l.topups.Insert(ctx, lot); err != nil {
		return nil, fmt.Errorf("issue lot: %w", err)
	}
	return lot, nil
}

// Debit consumes count units across the user's live lots in purchase order.
// Consumption is opportunistic: a lot already debited stays debited even when
// the total falls short, and the call reports success only when the full
// count was taken.
func (l *Ledger) Debit(ctx context.Context, userID string, count int) bool {
	if count <= 0 {
		return true
	}
	lots, err := l.topups.ListLive(ctx, userID, l.now())
	if err != nil {
		l.logger.Error().Err(err).Str("user_id", userID).Msg("topup debit lookup failed")
		return false
	}

	remaining := count
	for _, lot := range lots {
		if remaining == 0 {
			break
		}
		take := lot.Available()
		if take == 0 {
			continue
		}
		if take > remaining {
			take = remaining
		}
		if err := l.topups.AddUsed(ctx, lot.ID, take); err != nil {
			l.logger.Error().Err(err).Str("lot_id", lot.ID).Msg("topup lot debit failed")
			continue
		}
		remaining -= take
	}

	if remaining > 0 {
		l.logger.Warn().
			Str("user_id", userID).
			Int("requested", count).
			Int("short", remaining).
			Msg("topup debit incomplete")
		return false
	}
	return true
}

// endOfMonth returns the last instant of now's calendar month.
func endOfMonth(now time.Time) time.Time {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return first.AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// startOfMonth returns the first instant of now's calendar month.
func startOfMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}
