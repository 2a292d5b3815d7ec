package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"engmate/internal/http/handlers"
	"engmate/internal/infra"
	"engmate/internal/metrics"
	"engmate/internal/middleware"
)

// NewRouter wires the public HTTP surface: health and metrics unauthenticated,
// everything else behind the session JWT.
func NewRouter(app *handlers.App, cfg *infra.Config, lookup middleware.CountryLookup, gatherer prometheus.Gatherer) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(app.Logger))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute))
	r.Use(middleware.I18N(cfg.DefaultLocale, lookup))

	r.Get("/v1/healthz", app.Health)
	r.Method(stdhttp.MethodGet, "/metrics", metrics.Handler(gatherer))

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(cfg.JWTSecret))

		r.Route("/v1/usage", func(r chi.Router) {
			r.Get("/check", app.UsageCheck)
			r.Post("/record", app.UsageRecord)
			r.Get("/summary", app.UsageSummary)
		})

		r.Route("/v1/topups", func(r chi.Router) {
			r.Get("/balance", app.TopupBalance)
			r.Post("/purchase", app.TopupPurchase)
		})

		r.Post("/v1/session/logout", app.SessionLogout)
	})

	return r
}
