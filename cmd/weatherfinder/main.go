package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/swelljoe/weatherfinder/internal/config"
	"github.com/swelljoe/weatherfinder/internal/db"
	"github.com/swelljoe/weatherfinder/internal/handlers"
	"github.com/swelljoe/weatherfinder/internal/observability"
	"github.com/swelljoe/weatherfinder/internal/weather"
	"github.com/swelljoe/weatherfinder/internal/widget"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		slog.Error("failed to load .env", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	if cfg.APIKey == "" {
		logger.Warn("OPENWEATHER_API_KEY is not set; lookups will fail upstream")
	}

	provider := newProvider(cfg, logger)
	newController := func() *widget.Controller {
		return widget.NewController(provider, metrics, logger)
	}

	// Lookup history is optional; the widget works without it.
	var history handlers.History
	if cfg.DBPath != "" {
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			logger.Warn("database unavailable, continuing without history", "path", cfg.DBPath, "error", err)
		} else {
			defer database.Close()
			history = database
			logger.Info("database connected", "path", cfg.DBPath)
		}
	}

	sessions := widget.NewSessions(newController, cfg.SessionTTL, clockwork.NewRealClock(), metrics)
	h := handlers.New(sessions, newController, history, handlers.Options{
		IconBaseURL:  cfg.IconBaseURL,
		HistoryLimit: cfg.HistoryLimit,
	}, logger)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           h.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go sessions.RunSweeper(ctx, time.Minute)

	go func() {
		logger.Info("server starting", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}

func newProvider(cfg *config.Config, logger *slog.Logger) weather.Provider {
	client := weather.NewClient(cfg.APIKey, cfg.ProviderBaseURL, cfg.ProviderTimeout)
	if cfg.RateLimit <= 0 {
		logger.Info("provider rate limiting disabled")
		return client
	}
	logger.Info("provider rate limiting enabled", "rps", cfg.RateLimit, "burst", cfg.RateBurst)
	return weather.NewRateLimitedProvider(client, cfg.RateLimit, cfg.RateBurst)
}
