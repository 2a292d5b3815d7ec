// Package usage implements the AI usage metering core: the per-request
// allow/deny decision, the budget debits behind it, and the free-tier
// session counters.
package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"engmate/internal/domain"
	"engmate/internal/i18n"
	"engmate/internal/quota"
)

// Decision is the outcome of a usage check.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Message string `json:"message"`
	Warning bool   `json:"warning,omitempty"`
}

// Metrics receives usage-decision observations. Implementations must be safe
// for concurrent use.
type Metrics interface {
	CheckAllowed(plan domain.UserPlan)
	CheckDenied(plan domain.UserPlan)
	TopupPurchased(units int)
	DebitShortfall()
}

// Tracker decides whether a user may run one more AI call and books
// successful calls against the right budget: admin (untracked), monthly base
// allowance, top-up credit, or the free daily counter.
type Tracker struct {
	events   domain.UsageEventRepository
	payments domain.PaymentRepository
	ledger   *Ledger
	sessions *SessionStore
	metrics  Metrics
	logger   zerolog.Logger
	now      func() time.Time
}

// NewTracker wires the tracker. metrics may be nil.
func NewTracker(
	events domain.UsageEventRepository,
	payments domain.PaymentRepository,
	ledger *Ledger,
	sessions *SessionStore,
	metrics Metrics,
	logger zerolog.Logger,
) *Tracker {
	return &Tracker{
		events:   events,
		payments: payments,
		ledger:   ledger,
		sessions: sessions,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

// CanUse decides whether the user may run one more AI-powered exercise.
// The check is a UX gate, not a security boundary; it mutates nothing.
func (t *Tracker) CanUse(ctx context.Context, user *domain.User, feature domain.FeatureType, locale string) Decision {
	switch {
	case user.IsAdmin():
		return t.allowed(user.Plan, Decision{Allowed: true, Message: i18n.AdminUnlimited(locale)})
	case user.HasSubscription():
		return t.canUseSubscriber(ctx, user, locale)
	default:
		return t.canUseFree(ctx, user, feature, locale)
	}
}

func (t *Tracker) canUseSubscriber(ctx context.Context, user *domain.User, locale string) Decision {
	limit := quota.BaseLimit(user.Plan)

	count, err := t.events.CountSince(ctx, user.ID, domain.UsageEventBaseAI, startOfMonth(t.now()))
	if err != nil {
		// Unverifiable subscription status stays usable: fail open.
		t.logger.Warn().Err(err).Str("user_id", user.ID).Msg("monthly usage count unavailable, allowing")
		return t.allowed(user.Plan, Decision{Allowed: true, Message: i18n.CheckUnavailable(locale)})
	}

	balance := t.ledger.Balance(ctx, user.ID)
	baseRemaining := limit - count
	if baseRemaining < 0 {
		baseRemaining = 0
	}
	total := baseRemaining + balance

	if total <= 0 {
		return t.denied(user.Plan, Decision{Message: i18n.MonthlyLimitReached(locale, limit)})
	}
	if count >= quota.WarningThreshold(user.Plan) {
		return t.allowed(user.Plan, Decision{
			Allowed: true,
			Warning: true,
			Message: i18n.SubscriberRemainingWarning(locale, total, baseRemaining, balance),
		})
	}
	return t.allowed(user.Plan, Decision{
		Allowed: true,
		Message: i18n.SubscriberRemaining(locale, total, baseRemaining, balance),
	})
}

func (t *Tracker) canUseFree(ctx context.Context, user *domain.User, feature domain.FeatureType, locale string) Decision {
	counter := t.sessions.Counter(user.ID)
	count := counter.Get(feature)
	if count < quota.FreeDailyLimit {
		return t.allowed(user.Plan, Decision{
			Allowed: true,
			Message: i18n.FreeRemaining(locale, quota.FreeDailyLimit-count),
		})
	}

	// Past the daily cap only purchased credit helps. Balance reads fail to
	// zero, so an unverifiable balance denies: unverified credit is never
	// granted for free.
	balance := t.ledger.Balance(ctx, user.ID)
	if balance > 0 {
		return t.allowed(user.Plan, Decision{Allowed: true, Message: i18n.TopupFunded(locale, balance)})
	}
	return t.denied(user.Plan, Decision{Message: i18n.FreeLimitReached(locale, quota.FreeDailyLimit)})
}

// Record books one successful AI call after the fact.
//
// Subscriber calls are a no-op here: the AI invocation call site records them
// through RecordBaseUsage immediately after a successful response, and
// exactly one of the two entry points may count a call.
func (t *Tracker) Record(ctx context.Context, user *domain.User, feature domain.FeatureType) {
	if user.IsAdmin() || user.HasSubscription() {
		return
	}

	counter := t.sessions.Counter(user.ID)
	if counter.Get(feature) < quota.FreeDailyLimit {
		counter.Increment(feature)
		return
	}
	if t.ledger.Debit(ctx, user.ID, 1) {
		// Top-up-funded usage stays invisible to the daily counter.
		return
	}
	if t.metrics != nil {
		t.metrics.DebitShortfall()
	}
	// No credit left: the counter may run past the nominal daily cap. That is
	// a benign artifact of callers recording without a fresh check.
	counter.Increment(feature)
}

// RecordBaseUsage appends a usage event against the subscriber's monthly base
// allowance. The AI invocation call site owns this write.
func (t *Tracker) RecordBaseUsage(ctx context.Context, user *domain.User, feature domain.FeatureType) error {
	if user.IsAdmin() {
		return nil
	}
	event := &domain.UsageEvent{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		EventType: domain.UsageEventBaseAI,
		Feature:   feature,
		CreatedAt: t.now(),
	}
	if err := t.events.Insert(ctx, event); err != nil {
		t.logger.Error().Err(err).Str("user_id", user.ID).Msg("usage event insert failed")
		return fmt.Errorf("record base usage: %w", err)
	}
	return nil
}

// TopupBalance returns the user's live top-up credit.
func (t *Tracker) TopupBalance(ctx context.Context, userID string) int {
	return t.ledger.Balance(ctx, userID)
}

// PurchaseTopup issues a credit lot and records the payment. The payment
// record is best-effort; a failed audit write never rolls back the lot.
func (t *Tracker) PurchaseTopup(ctx context.Context, user *domain.User, units int, price decimal.Decimal, locale string) (bool, string) {
	lot, err := t.ledger.IssueLot(ctx, user, units)
	if err != nil {
		t.logger.Error().Err(err).Str("user_id", user.ID).Msg("topup purchase failed")
		return false, i18n.PurchaseFailed(locale)
	}

	payment := &domain.Payment{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Kind:      domain.PaymentKindTopup,
		Units:     units,
		Price:     price,
		CreatedAt: t.now(),
	}
	if err := t.payments.Insert(ctx, payment); err != nil {
		t.logger.Error().Err(err).Str("lot_id", lot.ID).Msg("payment audit insert failed, lot kept")
	}

	if t.metrics != nil {
		t.metrics.TopupPurchased(units)
	}
	return true, i18n.PurchaseSuccess(locale, units, lot.ExpiresAt)
}

// MonthlySummary reports a subscriber's month-to-date usage standing.
// Count faults read as zero usage; the summary is informational only.
func (t *Tracker) MonthlySummary(ctx context.Context, user *domain.User) domain.UsageSummary {
	if !user.HasSubscription() {
		// Free accounts carry no monthly base allowance; the daily counters
		// are session state and only top-up credit persists between days.
		balance := t.ledger.Balance(ctx, user.ID)
		return domain.UsageSummary{
			TopupBalance:   balance,
			TotalRemaining: balance,
			Tier:           user.Plan,
		}
	}

	limit := quota.BaseLimit(user.Plan)
	count, err := t.events.CountSince(ctx, user.ID, domain.UsageEventBaseAI, startOfMonth(t.now()))
	if err != nil {
		t.logger.Warn().Err(err).Str("user_id", user.ID).Msg("monthly usage count unavailable for summary")
		count = 0
	}
	balance := t.ledger.Balance(ctx, user.ID)
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return domain.UsageSummary{
		Count:          count,
		Limit:          limit,
		Remaining:      remaining,
		TopupBalance:   balance,
		TotalRemaining: remaining + balance,
		Warning:        count >= quota.WarningThreshold(user.Plan),
		Tier:           user.Plan,
	}
}

func (t *Tracker) allowed(plan domain.UserPlan, d Decision) Decision {
	if t.metrics != nil {
		t.metrics.CheckAllowed(plan)
	}
	return d
}

func (t *Tracker) denied(plan domain.UserPlan, d Decision) Decision {
	if t.metrics != nil {
		t.metrics.CheckDenied(plan)
	}
	return d
}
