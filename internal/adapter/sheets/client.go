// Package sheets loads the three source tables (rivers, municipalities,
// readings) from a Google Sheets spreadsheet as CSV snapshots.
package sheets

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/redec10/river-monitor/internal/domain"
	"github.com/redec10/river-monitor/internal/observability"
)

// Tab names inside the spreadsheet. The sheet is maintained in Portuguese;
// these names are part of its external contract.
const (
	TabRivers         = "rios"
	TabMunicipalities = "municipios"
	TabReadings       = "leituras"
)

// Client fetches spreadsheet tabs over the gviz CSV endpoint. All tab
// fetches share one circuit breaker: when the spreadsheet is unreachable the
// breaker opens and renders fail fast instead of stacking up timeouts.
type Client struct {
	sheetID    string
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[][]string]
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a spreadsheet snapshot client.
func NewClient(sheetID string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	breaker := gobreaker.NewCircuitBreaker[[][]string](gobreaker.Settings{
		Name:        "sheets",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})

	return &Client{
		sheetID:    sheetID,
		baseURL:    "https://docs.google.com/spreadsheets/d",
		httpClient: &http.Client{Timeout: timeout},
		breaker:    breaker,
		logger:     logger,
		metrics:    metrics,
	}
}

// Load fetches all three tabs and assembles a dataset snapshot. Any fetch or
// parse failure is fatal to the snapshot: a partial dataset would render
// garbage tables downstream.
func (c *Client) Load(ctx context.Context) (domain.Dataset, error) {
	start := time.Now()

	rivers, err := c.loadRivers(ctx)
	if err != nil {
		c.metrics.SnapshotFetches.WithLabelValues("error").Inc()
		return domain.Dataset{}, err
	}
	municipalities, err := c.loadMunicipalities(ctx)
	if err != nil {
		c.metrics.SnapshotFetches.WithLabelValues("error").Inc()
		return domain.Dataset{}, err
	}
	readings, err := c.loadReadings(ctx)
	if err != nil {
		c.metrics.SnapshotFetches.WithLabelValues("error").Inc()
		return domain.Dataset{}, err
	}

	c.metrics.SnapshotFetches.WithLabelValues("success").Inc()
	c.metrics.SnapshotFetchDuration.Observe(time.Since(start).Seconds())

	c.logger.Debug("snapshot loaded",
		"rivers", len(rivers),
		"municipalities", len(municipalities),
		"readings", len(readings),
	)

	return domain.Dataset{
		Rivers:         rivers,
		Municipalities: municipalities,
		Readings:       readings,
	}, nil
}

func (c *Client) loadRivers(ctx context.Context) ([]domain.River, error) {
	table, err := c.fetchTab(ctx, TabRivers)
	if err != nil {
		return nil, err
	}

	var rivers []domain.River
	err = table.eachRow([]string{"id_rio", "nome_rio"}, func(get func(string) string) {
		rivers = append(rivers, domain.River{
			ID:   get("id_rio"),
			Name: get("nome_rio"),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("tab %s: %w", TabRivers, err)
	}
	return rivers, nil
}

func (c *Client) loadMunicipalities(ctx context.Context) ([]domain.Municipality, error) {
	table, err := c.fetchTab(ctx, TabMunicipalities)
	if err != nil {
		return nil, err
	}

	var municipalities []domain.Municipality
	err = table.eachRow([]string{"id_rio", "id_municipio", "nome_municipio"}, func(get func(string) string) {
		municipalities = append(municipalities, domain.Municipality{
			RiverID:   get("id_rio"),
			ID:        get("id_municipio"),
			Name:      get("nome_municipio"),
			Threshold: get("nivel_transbordo"),
			Source:    get("fonte"),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("tab %s: %w", TabMunicipalities, err)
	}
	return municipalities, nil
}

func (c *Client) loadReadings(ctx context.Context) ([]domain.Reading, error) {
	table, err := c.fetchTab(ctx, TabReadings)
	if err != nil {
		return nil, err
	}

	var readings []domain.Reading
	err = table.eachRow([]string{"id_rio", "id_municipio", "data", "hora"}, func(get func(string) string) {
		r := domain.Reading{
			RiverID:        get("id_rio"),
			MunicipalityID: get("id_municipio"),
			Date:           get("data"),
			Time:           get("hora"),
		}
		// Unparsable levels become missing rather than dropping the row.
		if v, ok := domain.ParseNumeric(get("nivel")); ok {
			r.Level = &v
		}
		readings = append(readings, r)
	})
	if err != nil {
		return nil, fmt.Errorf("tab %s: %w", TabReadings, err)
	}
	return readings, nil
}

// fetchTab downloads one tab as CSV through the circuit breaker.
func (c *Client) fetchTab(ctx context.Context, name string) (table, error) {
	rows, err := c.breaker.Execute(func() ([][]string, error) {
		return c.doFetch(ctx, name)
	})
	if err != nil {
		return table{}, fmt.Errorf("fetch tab %s: %w", name, err)
	}
	return newTable(rows)
}

func (c *Client) doFetch(ctx context.Context, name string) ([][]string, error) {
	u := fmt.Sprintf("%s/%s/gviz/tq?tqx=out:csv&sheet=%s", c.baseURL, url.PathEscape(c.sheetID), url.QueryEscape(name))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("sheets API error: status %d: %s", resp.StatusCode, body)
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rows, nil
}

// table wraps raw CSV rows with trimmed-header column lookup.
type table struct {
	colIdx map[string]int
	rows   [][]string
}

func newTable(rows [][]string) (table, error) {
	if len(rows) == 0 {
		return table{}, fmt.Errorf("empty table")
	}

	colIdx := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		colIdx[strings.TrimSpace(h)] = i
	}

	return table{colIdx: colIdx, rows: rows[1:]}, nil
}

// eachRow verifies the required columns exist, then invokes fn once per data
// row with a trimmed cell accessor. Absent optional columns read as empty.
func (t table) eachRow(required []string, fn func(get func(string) string)) error {
	for _, col := range required {
		if _, ok := t.colIdx[col]; !ok {
			return fmt.Errorf("missing column %q", col)
		}
	}

	for _, row := range t.rows {
		get := func(col string) string {
			idx, ok := t.colIdx[col]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}
		fn(get)
	}
	return nil
}
