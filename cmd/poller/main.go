// The poller binary runs the scheduled telemetry ingestion loop standalone.
// It shares the scraper and form client with the dashboard server but needs
// no HTTP surface beyond what the server already exposes.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"github.com/redec10/river-monitor/internal/adapter/form"
	"github.com/redec10/river-monitor/internal/adapter/telemetry"
	"github.com/redec10/river-monitor/internal/config"
	"github.com/redec10/river-monitor/internal/observability"
	"github.com/redec10/river-monitor/internal/poller"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	if cfg.TelemetryURL == "" {
		logger.Error("TELEMETRY_URL is required for the poller")
		os.Exit(1)
	}

	stations, err := cfg.Stations()
	if err != nil {
		logger.Error("invalid station bindings", "error", err)
		os.Exit(1)
	}

	scraper := telemetry.NewScraper(cfg.TelemetryURL, cfg.TelemetryTimeout, logger, metrics)
	submitter := form.NewClient(cfg.FormURL, form.Fields{
		RiverID:        cfg.FormFieldRiver,
		MunicipalityID: cfg.FormFieldMunicipality,
		Date:           cfg.FormFieldDate,
		Time:           cfg.FormFieldTime,
		Level:          cfg.FormFieldLevel,
	}, cfg.FormTimeout, logger, metrics)

	p := poller.New(scraper, submitter, stations, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// One immediate cycle so a fresh deployment does not wait for the first
	// scheduled slot.
	if err := p.RunOnce(ctx); err != nil {
		logger.Error("initial polling cycle failed", "error", err)
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.PollSchedule, func() {
		if err := p.RunOnce(ctx); err != nil {
			logger.Error("polling cycle failed", "error", err)
		}
	}); err != nil {
		logger.Error("invalid poll schedule", "schedule", cfg.PollSchedule, "error", err)
		os.Exit(1)
	}

	logger.Info("poller started", "schedule", cfg.PollSchedule, "stations", len(stations))
	scheduler.Start()

	<-ctx.Done()
	logger.Info("shutting down")

	stopCtx := scheduler.Stop()
	<-stopCtx.Done()

	logger.Info("shutdown complete")
}
