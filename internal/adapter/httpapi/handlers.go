package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/redec10/river-monitor/internal/domain"
	"github.com/redec10/river-monitor/internal/export"
)

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report, ok := s.buildReport(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleReportHTML(w http.ResponseWriter, r *http.Request) {
	report, ok := s.buildReport(w, r)
	if !ok {
		return
	}

	out, err := export.HTML(report)
	if err != nil {
		s.deps.Logger.Error("html export failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "export failed"})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="monitoring_report.html"`)
	w.Write(out) //nolint:errcheck // response write
}

func (s *Server) handleReportPDF(w http.ResponseWriter, r *http.Request) {
	report, ok := s.buildReport(w, r)
	if !ok {
		return
	}

	out, err := export.PDF(report)
	if err != nil {
		s.deps.Logger.Error("pdf export failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "export failed"})
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="monitoring_report.pdf"`)
	w.Write(out) //nolint:errcheck // response write
}

// buildReport loads a snapshot and runs one report pass, surfacing orphan
// municipalities to the log and metrics.
func (s *Server) buildReport(w http.ResponseWriter, r *http.Request) (domain.Report, bool) {
	ds, ok := s.loadDataset(w, r)
	if !ok {
		return domain.Report{}, false
	}

	report := domain.BuildReport(ds)
	s.deps.Metrics.ReportBuilds.Inc()
	s.deps.Metrics.OrphanMunicipality.Set(float64(len(report.Orphans)))
	for _, m := range report.Orphans {
		s.deps.Logger.Warn("municipality references unknown river",
			"municipality_id", m.ID,
			"municipality", m.Name,
			"river_id", m.RiverID,
		)
	}
	return report, true
}

func (s *Server) handleRivers(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.loadDataset(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rivers": ds.Rivers})
}

func (s *Server) handleMunicipalities(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.loadDataset(w, r)
	if !ok {
		return
	}

	riverID := r.URL.Query().Get("river_id")
	municipalities := ds.Municipalities
	if riverID != "" {
		municipalities = nil
		for _, m := range ds.Municipalities {
			if m.RiverID == riverID {
				municipalities = append(municipalities, m)
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"municipalities": municipalities})
}

// historyResponse carries both orderings: ascending for charting and
// descending for tabular display.
type historyResponse struct {
	River        domain.River          `json:"river"`
	Municipality domain.Municipality   `json:"municipality"`
	Status       *domain.StatusView    `json:"status,omitempty"`
	Percent      string                `json:"percent,omitempty"`
	Ascending    []domain.HistoryEntry `json:"ascending"`
	Descending   []domain.HistoryEntry `json:"descending"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	riverID := r.URL.Query().Get("river_id")
	municipalityID := r.URL.Query().Get("municipality_id")
	if riverID == "" || municipalityID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "river_id and municipality_id are required",
		})
		return
	}

	ds, ok := s.loadDataset(w, r)
	if !ok {
		return
	}

	var river *domain.River
	for i := range ds.Rivers {
		if ds.Rivers[i].ID == riverID {
			river = &ds.Rivers[i]
			break
		}
	}
	var municipality *domain.Municipality
	for i := range ds.Municipalities {
		if ds.Municipalities[i].RiverID == riverID && ds.Municipalities[i].ID == municipalityID {
			municipality = &ds.Municipalities[i]
			break
		}
	}
	if river == nil || municipality == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown river or municipality"})
		return
	}

	history := domain.BuildHistory(ds.Readings, riverID, municipalityID, municipality.Threshold)

	resp := historyResponse{
		River:        *river,
		Municipality: *municipality,
		Ascending:    history.Entries,
		Descending:   history.TableOrder(),
	}
	if status, ok := domain.CurrentStatus(ds.Readings, riverID, municipalityID, municipality.Threshold); ok {
		resp.Status = &status
		resp.Percent = domain.FormatPercent(status.Classification.Percent)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePrefill(w http.ResponseWriter, r *http.Request) {
	if s.deps.Telemetry == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "telemetry is not configured"})
		return
	}

	station := r.URL.Query().Get("station")
	if station == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "station is required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	obs, err := s.deps.Telemetry.FetchLatest(ctx, station)
	if err != nil {
		s.deps.Logger.Error("telemetry fetch failed", "station", station, "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "telemetry source unavailable"})
		return
	}
	if obs == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no observation available"})
		return
	}
	writeJSON(w, http.StatusOK, obs)
}
