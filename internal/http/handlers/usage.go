package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"engmate/internal/domain"
	"engmate/internal/middleware"
)

// UsageCheck answers whether the current user may run one more AI call for a
// feature. Read-only; nothing is debited here.
func (a *App) UsageCheck(w http.ResponseWriter, r *http.Request) {
	user, err := a.currentUser(r)
	if err != nil {
		a.userError(w, err)
		return
	}
	feature, err := domain.ParseFeature(r.URL.Query().Get("feature"))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "unknown feature")
		return
	}

	locale := middleware.LocaleFromContext(r.Context())
	decision := a.Tracker.CanUse(r.Context(), user, feature, locale)
	a.json(w, http.StatusOK, decision)
}

type recordUsageRequest struct {
	Feature string `json:"feature"`
}

// UsageRecord books one successful AI call against the user's budget.
func (a *App) UsageRecord(w http.ResponseWriter, r *http.Request) {
	user, err := a.currentUser(r)
	if err != nil {
		a.userError(w, err)
		return
	}
	var req recordUsageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	feature, err := domain.ParseFeature(req.Feature)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "unknown feature")
		return
	}

	a.Tracker.Record(r.Context(), user, feature)
	w.WriteHeader(http.StatusNoContent)
}

// UsageSummary reports the user's month-to-date standing.
func (a *App) UsageSummary(w http.ResponseWriter, r *http.Request) {
	user, err := a.currentUser(r)
	if err != nil {
		a.userError(w, err)
		return
	}
	a.json(w, http.StatusOK, a.Tracker.MonthlySummary(r.Context(), user))
}

// SessionLogout drops the user's in-process session state.
func (a *App) SessionLogout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user identity")
		return
	}
	a.Sessions.Clear(userID)
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) userError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrMissingUserIdentity):
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user identity")
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusUnauthorized, "unauthorized", "unknown user")
	default:
		a.error(w, http.StatusInternalServerError, "internal", "failed to load user")
	}
}
