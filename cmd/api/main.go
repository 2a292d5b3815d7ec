package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"engmate/internal/adapter/repo"
	"engmate/internal/http/handlers"
	"engmate/internal/http/httpapi"
	"engmate/internal/infra"
	"engmate/internal/infra/geoip"
	"engmate/internal/metrics"
	"engmate/internal/middleware"
	"engmate/internal/usage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip unavailable, locale falls back to headers")
	}
	var lookup middleware.CountryLookup
	if resolver != nil {
		lookup = resolver.CountryCode
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	runner := infra.NewSQLRunner(dbpool, logger)
	users := repo.NewUserRepository(runner)
	events := repo.NewUsageEventRepository(runner)
	topups := repo.NewTopupRepository(runner)
	payments := repo.NewPaymentRepository(runner)

	ledger := usage.NewLedger(topups, logger)
	sessions := usage.NewSessionStore(nil)
	tracker := usage.NewTracker(events, payments, ledger, sessions, collector, logger)

	app := handlers.NewApp(users, tracker, sessions, logger)
	router := httpapi.NewRouter(app, cfg, lookup, registry)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
