package usage

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"engmate/internal/domain"
)

type fakeTopupRepo struct {
	lots    []domain.TopupLot
	listErr error
	addErr  error
}

func (f *fakeTopupRepo) ListLive(_ context.Context, userID string, now time.Time) ([]domain.TopupLot, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.TopupLot
	for _, lot := range f.lots {
		if lot.UserID == userID && lot.Live(now) {
			out = append(out, lot)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PurchasedAt.Before(out[j].PurchasedAt) })
	return out, nil
}

func (f *fakeTopupRepo) ListAll(_ context.Context, userID string) ([]domain.TopupLot, error) {
	var out []domain.TopupLot
	for _, lot := range f.lots {
		if lot.UserID == userID {
			out = append(out, lot)
		}
	}
	return out, nil
}

func (f *fakeTopupRepo) Insert(_ context.Context, lot *domain.TopupLot) error {
	f.lots = append(f.lots, *lot)
	return nil
}

func (f *fakeTopupRepo) AddUsed(_ context.Context, lotID string, n int) error {
	if f.addErr != nil {
		return f.addErr
	}
	for i := range f.lots {
		if f.lots[i].ID == lotID {
			if f.lots[i].UsedCount+n > f.lots[i].Amount {
				return domain.ErrLotExhausted
			}
			f.lots[i].UsedCount += n
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeTopupRepo) lot(id string) domain.TopupLot {
	for _, lot := range f.lots {
		if lot.ID == id {
			return lot
		}
	}
	return domain.TopupLot{}
}

func newTestLedger(repo *fakeTopupRepo, clock *fakeClock) *Ledger {
	l := NewLedger(repo, zerolog.Nop())
	l.now = clock.now
	return l
}

func TestDebitConsumesOldestLotFirst(t *testing.T) {
	clock := newFakeClock()
	repo := &fakeTopupRepo{lots: []domain.TopupLot{
		{ID: "l2", UserID: "u1", Amount: 10, PurchasedAt: clock.t.AddDate(0, 0, -1), ExpiresAt: clock.t.AddDate(0, 0, 30)},
		{ID: "l1", UserID: "u1", Amount: 10, PurchasedAt: clock.t.AddDate(0, 0, -2), ExpiresAt: clock.t.AddDate(0, 0, 30)},
	}}
	ledger := newTestLedger(repo, clock)

	if !ledger.Debit(context.Background(), "u1", 15) {
		t.Fatal("expected full debit to succeed")
	}
	if got := repo.lot("l1").UsedCount; got != 10 {
		t.Fatalf("oldest lot used = %d, want 10", got)
	}
	if got := repo.lot("l2").UsedCount; got != 5 {
		t.Fatalf("newer lot used = %d, want 5", got)
	}
}

func TestBalanceExcludesExpiredLots(t *testing.T) {
	clock := newFakeClock()
	repo := &fakeTopupRepo{lots: []domain.TopupLot{
		{ID: "live", UserID: "u1", Amount: 10, UsedCount: 4, PurchasedAt: clock.t.AddDate(0, 0, -10), ExpiresAt: clock.t.AddDate(0, 0, 5)},
		{ID: "expired", UserID: "u1", Amount: 20, UsedCount: 1, PurchasedAt: clock.t.AddDate(0, 0, -100), ExpiresAt: clock.t.AddDate(0, 0, -1)},
	}}
	ledger := newTestLedger(repo, clock)

	if got := ledger.Balance(context.Background(), "u1"); got != 6 {
		t.Fatalf("balance = %d, want 6", got)
	}
}

func TestDebitShortfallKeepsPartialConsumption(t *testing.T) {
	clock := newFakeClock()
	repo := &fakeTopupRepo{lots: []domain.TopupLot{
		{ID: "l1", UserID: "u1", Amount: 7, PurchasedAt: clock.t.AddDate(0, 0, -2), ExpiresAt: clock.t.AddDate(0, 0, 30)},
		{ID: "l2", UserID: "u1", Amount: 5, PurchasedAt: clock.t.AddDate(0, 0, -1), ExpiresAt: clock.t.AddDate(0, 0, 30)},
	}}
	ledger := newTestLedger(repo, clock)

	if ledger.Debit(context.Background(), "u1", 20) {
		t.Fatal("expected debit beyond the balance to report failure")
	}
	// Opportunistic consumption: whatever was available stays consumed,
	// and no lot ever runs past its amount.
	for _, lot := range repo.lots {
		if lot.UsedCount != lot.Amount {
			t.Fatalf("lot %s used = %d, want %d", lot.ID, lot.UsedCount, lot.Amount)
		}
	}
	if got := ledger.Balance(context.Background(), "u1"); got != 0 {
		t.Fatalf("balance after shortfall = %d, want 0", got)
	}
}

func TestDebitFaultReportsFailure(t *testing.T) {
	clock := newFakeClock()
	repo := &fakeTopupRepo{listErr: errors.New("store down")}
	ledger := newTestLedger(repo, clock)

	if ledger.Debit(context.Background(), "u1", 1) {
		t.Fatal("expected debit to fail when the store is unavailable")
	}
}

func TestBalanceFaultReportsZero(t *testing.T) {
	clock := newFakeClock()
	repo := &fakeTopupRepo{listErr: errors.New("store down")}
	ledger := newTestLedger(repo, clock)

	if got := ledger.Balance(context.Background(), "u1"); got != 0 {
		t.Fatalf("balance on fault = %d, want 0", got)
	}
}

func TestIssueLotFreePlanExpiresInNinetyDays(t *testing.T) {
	clock := newFakeClock()
	repo := &fakeTopupRepo{}
	ledger := newTestLedger(repo, clock)
	user := &domain.User{ID: "u1", Plan: domain.UserPlanFree}

	lot, err := ledger.IssueLot(context.Background(), user, 50)
	if err != nil {
		t.Fatalf("IssueLot returned error: %v", err)
	}
	want := clock.t.AddDate(0, 0, 90)
	if !lot.ExpiresAt.Equal(want) {
		t.Fatalf("free lot expiry = %v, want %v", lot.ExpiresAt, want)
	}
	if got := ledger.Balance(context.Background(), "u1"); got != 50 {
		t.Fatalf("balance after purchase = %d, want 50", got)
	}
}

func TestIssueLotSubscriberExpiresWithCurrentMonth(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 9, 25, 14, 0, 0, 0, time.UTC)}
	repo := &fakeTopupRepo{}
	ledger := newTestLedger(repo, clock)
	user := &domain.User{ID: "u1", Plan: domain.UserPlanPremium}

	lot, err := ledger.IssueLot(context.Background(), user, 100)
	if err != nil {
		t.Fatalf("IssueLot returned error: %v", err)
	}
	// Last instant of September, not 90 days out.
	if lot.ExpiresAt.Month() != time.September || lot.ExpiresAt.Day() != 30 {
		t.Fatalf("subscriber lot expiry = %v, want end of September", lot.ExpiresAt)
	}
	startOfOctober := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	if !lot.ExpiresAt.Before(startOfOctober) {
		t.Fatalf("subscriber lot expiry %v spills into the next month", lot.ExpiresAt)
	}
}

func TestIssueLotRejectsNonPositiveAmount(t *testing.T) {
	ledger := newTestLedger(&fakeTopupRepo{}, newFakeClock())
	user := &domain.User{ID: "u1", Plan: domain.UserPlanFree}

	if _, err := ledger.IssueLot(context.Background(), user, 0); !errors.Is(err, domain.ErrInvalidLotAmount) {
		t.Fatalf("expected ErrInvalidLotAmount, got %v", err)
	}
}
