package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"engmate/internal/middleware"
)

// TopupBalance returns the user's live top-up credit.
func (a *App) TopupBalance(w http.ResponseWriter, r *http.Request) {
	user, err := a.currentUser(r)
	if err != nil {
		a.userError(w, err)
		return
	}
	balance := a.Tracker.TopupBalance(r.Context(), user.ID)
	a.json(w, http.StatusOK, map[string]any{"balance": balance})
}

type purchaseTopupRequest struct {
	Units int    `json:"units"`
	Price string `json:"price"`
}

// TopupPurchase issues a credit lot after a completed payment.
func (a *App) TopupPurchase(w http.ResponseWriter, r *http.Request) {
	user, err := a.currentUser(r)
	if err != nil {
		a.userError(w, err)
		return
	}
	var req purchaseTopupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Units <= 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "units must be positive")
		return
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid price")
		return
	}

	locale := middleware.LocaleFromContext(r.Context())
	ok, msg := a.Tracker.PurchaseTopup(r.Context(), user, req.Units, price, locale)
	code := http.StatusCreated
	if !ok {
		code = http.StatusBadGateway
	}
	a.json(w, code, map[string]any{"success": ok, "message": msg})
}
