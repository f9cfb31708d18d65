package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/redec10/river-monitor/internal/adapter/form"
	"github.com/redec10/river-monitor/internal/adapter/httpapi"
	"github.com/redec10/river-monitor/internal/adapter/sheets"
	"github.com/redec10/river-monitor/internal/adapter/telemetry"
	"github.com/redec10/river-monitor/internal/config"
	"github.com/redec10/river-monitor/internal/observability"
	"github.com/redec10/river-monitor/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	sheetClient := sheets.NewClient(cfg.SheetID, cfg.SheetTimeout, logger, metrics)
	loader := sheets.NewCachedLoader(sheetClient, cfg.SnapshotTTL, clock, metrics)

	submitter := form.NewClient(cfg.FormURL, form.Fields{
		RiverID:        cfg.FormFieldRiver,
		MunicipalityID: cfg.FormFieldMunicipality,
		Date:           cfg.FormFieldDate,
		Time:           cfg.FormFieldTime,
		Level:          cfg.FormFieldLevel,
	}, cfg.FormTimeout, logger, metrics)

	// Telemetry prefill is feature-flagged via TELEMETRY_URL.
	var fetcher httpapi.TelemetryFetcher
	if cfg.TelemetryURL != "" {
		fetcher = telemetry.NewScraper(cfg.TelemetryURL, cfg.TelemetryTimeout, logger, metrics)
		logger.Info("telemetry prefill enabled", "url", cfg.TelemetryURL)
	} else {
		logger.Info("telemetry prefill disabled")
	}

	sessions := session.NewStore(cfg.SessionTTL, clock)

	srv := httpapi.NewServer(cfg.HTTPAddr, cfg.AdminSecret, httpapi.Deps{
		Loader:    loader,
		Submitter: submitter,
		Telemetry: fetcher,
		Sessions:  sessions,
		Logger:    logger,
		Metrics:   metrics,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
