package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"engmate/internal/domain"
	"engmate/internal/middleware"
	"engmate/internal/usage"
)

type fakeUserRepo struct {
	users map[string]*domain.User
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) UpdatePlan(_ context.Context, id string, plan domain.UserPlan) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.Plan = plan
	return u, nil
}

type fakeEventRepo struct {
	events []domain.UsageEvent
}

func (f *fakeEventRepo) Insert(_ context.Context, event *domain.UsageEvent) error {
	f.events = append(f.events, *event)
	return nil
}

func (f *fakeEventRepo) CountSince(_ context.Context, userID, eventType string, since time.Time) (int, error) {
	count := 0
	for _, ev := range f.events {
		if ev.UserID == userID && ev.EventType == eventType && !ev.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

type fakeTopupRepo struct {
	lots []domain.TopupLot
}

func (f *fakeTopupRepo) ListLive(_ context.Context, userID string, now time.Time) ([]domain.TopupLot, error) {
	var out []domain.TopupLot
	for _, lot := range f.lots {
		if lot.UserID == userID && lot.Live(now) {
			out = append(out, lot)
		}
	}
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

type fakePaymentRepo struct {
	payments []domain.Payment
}

func (f *fakePaymentRepo) Insert(_ context.Context, payment *domain.Payment) error {
	f.payments = append(f.payments, *payment)
	return nil
}

type appFixture struct {
	app      *App
	users    *fakeUserRepo
	events   *fakeEventRepo
	topups   *fakeTopupRepo
	sessions *usage.SessionStore
}

func newAppFixture() *appFixture {
	users := &fakeUserRepo{users: map[string]*domain.User{
		"free-1":  {ID: "free-1", Email: "an@example.com", Role: domain.UserRoleUser, Plan: domain.UserPlanFree},
		"basic-1": {ID: "basic-1", Email: "binh@example.com", Role: domain.UserRoleUser, Plan: domain.UserPlanBasic},
	}}
	events := &fakeEventRepo{}
	topups := &fakeTopupRepo{}
	sessions := usage.NewSessionStore(nil)
	ledger := usage.NewLedger(topups, zerolog.Nop())
	tracker := usage.NewTracker(events, &fakePaymentRepo{}, ledger, sessions, nil, zerolog.Nop())
	return &appFixture{
		app:      NewApp(users, tracker, sessions, zerolog.Nop()),
		users:    users,
		events:   events,
		topups:   topups,
		sessions: sessions,
	}
}

func authedRequest(method, target, body, userID string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	if userID != "" {
		r = r.WithContext(middleware.ContextWithUserID(r.Context(), userID))
	}
	return r
}

func TestUsageCheckAllowsFreeUser(t *testing.T) {
	f := newAppFixture()

	rec := httptest.NewRecorder()
	f.app.UsageCheck(rec, authedRequest(http.MethodGet, "/v1/usage/check?feature=listening", "", "free-1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var d usage.Decision
	if err := json.NewDecoder(rec.Body).Decode(&d); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !d.Allowed {
		t.Fatalf("decision = %+v, want allowed", d)
	}
}

func TestUsageCheckRejectsUnknownFeature(t *testing.T) {
	f := newAppFixture()

	rec := httptest.NewRecorder()
	f.app.UsageCheck(rec, authedRequest(http.MethodGet, "/v1/usage/check?feature=grammar", "", "free-1"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUsageCheckRequiresIdentity(t *testing.T) {
	f := newAppFixture()

	rec := httptest.NewRecorder()
	f.app.UsageCheck(rec, authedRequest(http.MethodGet, "/v1/usage/check?feature=listening", "", ""))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestUsageCheckUnknownUser(t *testing.T) {
	f := newAppFixture()

	rec := httptest.NewRecorder()
	f.app.UsageCheck(rec, authedRequest(http.MethodGet, "/v1/usage/check?feature=listening", "", "ghost"))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestUsageRecordIncrementsFreeCounter(t *testing.T) {
	f := newAppFixture()

	rec := httptest.NewRecorder()
	f.app.UsageRecord(rec, authedRequest(http.MethodPost, "/v1/usage/record", `{"feature":"speaking"}`, "free-1"))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if got := f.sessions.Counter("free-1").Get(domain.FeatureSpeaking); got != 1 {
		t.Fatalf("speaking count = %d, want 1", got)
	}
}

func TestUsageSummary(t *testing.T) {
	f := newAppFixture()
	f.events.events = append(f.events.events, domain.UsageEvent{
		UserID:    "basic-1",
		EventType: domain.UsageEventBaseAI,
		Feature:   domain.FeatureReading,
		CreatedAt: time.Now(),
	})

	rec := httptest.NewRecorder()
	f.app.UsageSummary(rec, authedRequest(http.MethodGet, "/v1/usage/summary", "", "basic-1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var s domain.UsageSummary
	if err := json.NewDecoder(rec.Body).Decode(&s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.Count != 1 || s.Limit != 300 || s.Remaining != 299 {
		t.Fatalf("unexpected summary: %+v", s)
	}
}

func TestSessionLogoutClearsCounter(t *testing.T) {
	f := newAppFixture()
	f.sessions.Counter("free-1").Increment(domain.FeatureWriting)

	rec := httptest.NewRecorder()
	f.app.SessionLogout(rec, authedRequest(http.MethodPost, "/v1/session/logout", "", "free-1"))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if got := f.sessions.Counter("free-1").Get(domain.FeatureWriting); got != 0 {
		t.Fatalf("count after logout = %d, want 0", got)
	}
}

func TestTopupPurchaseAndBalance(t *testing.T) {
	f := newAppFixture()

	rec := httptest.NewRecorder()
	f.app.TopupPurchase(rec, authedRequest(http.MethodPost, "/v1/topups/purchase", `{"units":50,"price":"49000"}`, "free-1"))

	if rec.Code != http.StatusCreated {
		t.Fatalf("purchase status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	f.app.TopupBalance(rec, authedRequest(http.MethodGet, "/v1/topups/balance", "", "free-1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("balance status = %d, want 200", rec.Code)
	}
	var out struct {
		Balance int `json:"balance"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Balance != 50 {
		t.Fatalf("balance = %d, want 50", out.Balance)
	}
}

func TestTopupPurchaseValidation(t *testing.T) {
	f := newAppFixture()

	cases := []struct {
		name string
		body string
	}{
		{"zero units", `{"units":0,"price":"49000"}`},
		{"bad price", `{"units":10,"price":"gratis"}`},
		{"negative price", `{"units":10,"price":"-5"}`},
		{"bad json", `{`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			f.app.TopupPurchase(rec, authedRequest(http.MethodPost, "/v1/topups/purchase", tc.body, "free-1"))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
		})
	}
}
