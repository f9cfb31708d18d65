// Package telemetry scrapes water-level observations from external
// hydrological agency pages. Observations only pre-fill the admin entry
// form; they are never written to the dataset directly.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/redec10/river-monitor/internal/domain"
	"github.com/redec10/river-monitor/internal/observability"
)

// stationTimeLayout is the datetime format used by the agency station pages.
const stationTimeLayout = "02.01.2006 15:04"

// Scraper fetches station pages and extracts the most recent reading.
type Scraper struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewScraper creates a station scraper. baseURL is the station page endpoint;
// the station reference is appended as the hm_id query parameter.
func NewScraper(baseURL string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Scraper {
	return &Scraper{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		metrics:    metrics,
	}
}

// FetchLatest retrieves the newest valid observation for one station, or nil
// when the page has no usable rows. Levels pass through the same numeric
// coercion as spreadsheet values.
func (s *Scraper) FetchLatest(ctx context.Context, stationRef string) (*domain.Observation, error) {
	u := fmt.Sprintf("%s?hm_id=%s", s.baseURL, url.QueryEscape(stationRef))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		s.metrics.ScraperRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.metrics.ScraperRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("fetch station %s: %w", stationRef, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.metrics.ScraperRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("station %s: unexpected status %d", stationRef, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		s.metrics.ScraperRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("parse station page: %w", err)
	}

	obs := s.latestObservation(doc, stationRef)
	if obs == nil {
		s.metrics.ScraperRequests.WithLabelValues("empty").Inc()
		return nil, nil
	}

	s.metrics.ScraperRequests.WithLabelValues("success").Inc()
	return obs, nil
}

// latestObservation walks the station page's two-column (datetime, level)
// table and keeps the newest row that parses. Header rows and malformed rows
// are skipped, matching how agency pages mix headers into tbody.
func (s *Scraper) latestObservation(doc *goquery.Document, stationRef string) *domain.Observation {
	var (
		best     *domain.Observation
		bestTime time.Time
		skipped  int
	)

	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() != 2 {
			return
		}

		dateTimeStr := strings.TrimSpace(cells.Eq(0).Text())
		levelStr := strings.TrimSpace(cells.Eq(1).Text())

		if dateTimeStr == "" || !strings.Contains(dateTimeStr, ".") || !strings.Contains(dateTimeStr, ":") {
			skipped++
			return
		}

		ts, err := time.ParseInLocation(stationTimeLayout, dateTimeStr, time.UTC)
		if err != nil {
			skipped++
			return
		}

		level, ok := domain.ParseNumeric(levelStr)
		if !ok {
			skipped++
			return
		}

		if best == nil || ts.After(bestTime) {
			bestTime = ts
			best = &domain.Observation{
				Level: level,
				Date:  ts.Format("2006-01-02"),
				Time:  ts.Format("15:04"),
			}
		}
	})

	if skipped > 0 {
		s.logger.Debug("skipped malformed station rows", "station", stationRef, "skipped", skipped)
	}
	return best
}
