// Package handlers exposes the usage metering core over HTTP to the page tier.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"engmate/internal/domain"
	"engmate/internal/middleware"
	"engmate/internal/usage"
)

// App bundles the dependencies the HTTP handlers need.
type App struct {
	Users    domain.UserRepository
	Tracker  *usage.Tracker
	Sessions *usage.SessionStore
	Logger   zerolog.Logger
}

// NewApp creates the handler container.
func NewApp(users domain.UserRepository, tracker *usage.Tracker, sessions *usage.SessionStore, logger zerolog.Logger) *App {
	return &App{Users: users, Tracker: tracker, Sessions: sessions, Logger: logger}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, slug, msg string) {
	a.json(w, code, map[string]any{"error": slug, "message": msg})
}

// currentUser loads the authenticated user from the entitlement store.
func (a *App) currentUser(r *http.Request) (*domain.User, error) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		return nil, domain.ErrMissingUserIdentity
	}
	return a.Users.GetByID(r.Context(), userID)
}
