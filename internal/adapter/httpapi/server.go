// Package httpapi exposes the monitoring dashboard API: public report,
// history, and export endpoints, administrator reading submission, and the
// operational health/readiness/metrics routes.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/redec10/river-monitor/internal/adapter/form"
	"github.com/redec10/river-monitor/internal/domain"
	"github.com/redec10/river-monitor/internal/observability"
	"github.com/redec10/river-monitor/internal/session"
)

// Loader supplies one dataset snapshot per render.
type Loader interface {
	Load(ctx context.Context) (domain.Dataset, error)
}

// Submitter posts reading batches to the external form endpoint.
type Submitter interface {
	SubmitBatch(ctx context.Context, entries []form.Entry) []form.Result
}

// TelemetryFetcher pre-fills the admin entry form from an external station.
type TelemetryFetcher interface {
	FetchLatest(ctx context.Context, stationRef string) (*domain.Observation, error)
}

// Deps are the collaborators the server routes requests to. Telemetry may be
// nil, which disables the prefill endpoint.
type Deps struct {
	Loader    Loader
	Submitter Submitter
	Telemetry TelemetryFetcher
	Sessions  *session.Store
	Logger    *slog.Logger
	Metrics   *observability.Metrics
}

// Server is the dashboard HTTP server.
type Server struct {
	httpServer  *http.Server
	deps        Deps
	adminSecret string
	validate    *validator.Validate
	ready       atomic.Bool
}

// NewServer creates the HTTP server and mounts all routes.
func NewServer(addr, adminSecret string, deps Deps) *Server {
	s := &Server{
		deps:        deps,
		adminSecret: adminSecret,
		validate:    validator.New(),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/report", s.handleReport)
		r.Get("/report/export.html", s.handleReportHTML)
		r.Get("/report/export.pdf", s.handleReportPDF)
		r.Get("/rivers", s.handleRivers)
		r.Get("/municipalities", s.handleMunicipalities)
		r.Get("/history", s.handleHistory)

		r.Post("/admin/login", s.handleLogin)
		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)
			r.Post("/admin/logout", s.handleLogout)
			r.Post("/admin/readings", s.handleSubmitReadings)
			r.Get("/admin/prefill", s.handlePrefill)
		})
	})

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.deps.Logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleReady reports ready once at least one dataset snapshot has loaded.
func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if !s.ready.Load() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  "no dataset snapshot loaded yet",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// loadDataset fetches the snapshot for one render. A fetch failure is fatal
// to the render: the caller must not fall back to partial tables.
func (s *Server) loadDataset(w http.ResponseWriter, r *http.Request) (domain.Dataset, bool) {
	ds, err := s.deps.Loader.Load(r.Context())
	if err != nil {
		s.deps.Logger.Error("dataset snapshot unavailable", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error": "data source unavailable: " + err.Error(),
		})
		return domain.Dataset{}, false
	}
	s.ready.Store(true)
	return ds, true
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.deps.Logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
