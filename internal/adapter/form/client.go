// Package form submits new readings to the external Google Form that feeds
// the spreadsheet. The form is append-only: this is the only write path in
// the system.
package form

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redec10/river-monitor/internal/observability"
)

// Fields maps reading attributes to the form's entry.N field names.
type Fields struct {
	RiverID        string
	MunicipalityID string
	Date           string
	Time           string
	Level          string
}

// Entry is one reading to submit. A nil Level submits the empty-string
// sentinel meaning "no reading recorded".
type Entry struct {
	RiverID        string
	MunicipalityID string
	Date           string // YYYY-MM-DD
	Time           string // HH:MM
	Level          *float64
}

// Result is the outcome of one submission. Returning per-entry results lets
// the caller retry only the failed subset instead of resubmitting the batch.
type Result struct {
	Entry Entry  `json:"entry"`
	Err   string `json:"error,omitempty"`
}

// OK reports whether the submission succeeded.
func (r Result) OK() bool { return r.Err == "" }

// Client posts readings to the form endpoint.
type Client struct {
	formURL    string
	fields     Fields
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a form submission client.
func NewClient(formURL string, fields Fields, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		formURL:    formURL,
		fields:     fields,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		metrics:    metrics,
	}
}

// Submit posts one reading. Success is an HTTP 200 from the form endpoint;
// anything else is an error.
func (c *Client) Submit(ctx context.Context, e Entry) error {
	level := ""
	if e.Level != nil {
		level = strconv.FormatFloat(*e.Level, 'f', -1, 64)
	}

	payload := url.Values{
		c.fields.RiverID:        {e.RiverID},
		c.fields.MunicipalityID: {e.MunicipalityID},
		c.fields.Date:           {e.Date},
		c.fields.Time:           {e.Time},
		c.fields.Level:          {level},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.formURL, strings.NewReader(payload.Encode()))
	if err != nil {
		c.metrics.Submissions.WithLabelValues("error").Inc()
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.Submissions.WithLabelValues("error").Inc()
		return fmt.Errorf("submit reading: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.Submissions.WithLabelValues("error").Inc()
		return fmt.Errorf("form endpoint rejected reading: status %d", resp.StatusCode)
	}

	c.metrics.Submissions.WithLabelValues("success").Inc()
	return nil
}

// SubmitBatch posts each entry in order, one call per reading. A failed
// submission does not stop the batch; every entry gets a result.
func (c *Client) SubmitBatch(ctx context.Context, entries []Entry) []Result {
	results := make([]Result, 0, len(entries))
	for _, e := range entries {
		res := Result{Entry: e}
		if err := c.Submit(ctx, e); err != nil {
			c.logger.Warn("reading submission failed",
				"river_id", e.RiverID,
				"municipality_id", e.MunicipalityID,
				"date", e.Date,
				"time", e.Time,
				"error", err,
			)
			res.Err = err.Error()
		}
		results = append(results, res)
	}
	return results
}
