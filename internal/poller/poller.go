// Package poller runs the unattended ingestion loop: on a fixed schedule it
// scrapes the configured telemetry stations and submits every observation it
// finds through the same form endpoint the administrators use.
package poller

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/redec10/river-monitor/internal/adapter/form"
	"github.com/redec10/river-monitor/internal/config"
	"github.com/redec10/river-monitor/internal/domain"
)

// Fetcher retrieves the latest observation of one telemetry station.
type Fetcher interface {
	FetchLatest(ctx context.Context, stationRef string) (*domain.Observation, error)
}

// Submitter posts reading batches to the form endpoint.
type Submitter interface {
	SubmitBatch(ctx context.Context, entries []form.Entry) []form.Result
}

// Poller scrapes each bound station and forwards whatever it finds. A
// station that yields nothing (offline gauge, empty page) is skipped, not
// treated as a failure.
type Poller struct {
	fetcher   Fetcher
	submitter Submitter
	stations  []config.Station
	logger    *slog.Logger
	ready     atomic.Bool
}

// New creates a Poller over the given station bindings.
func New(fetcher Fetcher, submitter Submitter, stations []config.Station, logger *slog.Logger) *Poller {
	return &Poller{
		fetcher:   fetcher,
		submitter: submitter,
		stations:  stations,
		logger:    logger,
	}
}

// Ready reports whether at least one polling cycle has completed.
func (p *Poller) Ready() bool {
	return p.ready.Load()
}

// RunOnce executes one polling cycle: fetch every station, then submit the
// collected observations as one batch. Individual station failures are
// logged and skipped so a single dead gauge cannot block the rest.
func (p *Poller) RunOnce(ctx context.Context) error {
	if len(p.stations) == 0 {
		p.logger.Warn("no stations configured, nothing to poll")
		p.ready.Store(true)
		return nil
	}

	entries := make([]form.Entry, 0, len(p.stations))
	for _, st := range p.stations {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		obs, err := p.fetcher.FetchLatest(ctx, st.Ref)
		if err != nil {
			p.logger.Error("station fetch failed",
				"station", st.Ref,
				"river_id", st.RiverID,
				"municipality_id", st.MunicipalityID,
				"error", err,
			)
			continue
		}
		if obs == nil {
			p.logger.Warn("station has no usable observation", "station", st.Ref)
			continue
		}

		level := obs.Level
		entries = append(entries, form.Entry{
			RiverID:        st.RiverID,
			MunicipalityID: st.MunicipalityID,
			Date:           obs.Date,
			Time:           obs.Time,
			Level:          &level,
		})
	}

	if len(entries) == 0 {
		p.logger.Warn("polling cycle produced no observations", "stations", len(p.stations))
		p.ready.Store(true)
		return nil
	}

	results := p.submitter.SubmitBatch(ctx, entries)
	submitted := 0
	for _, res := range results {
		if res.OK() {
			submitted++
		}
	}
	p.logger.Info("polling cycle finished",
		"stations", len(p.stations),
		"observed", len(entries),
		"submitted", submitted,
		"failed", len(entries)-submitted,
	)

	p.ready.Store(true)
	return nil
}
