// Package config loads service settings from environment variables, with an
// optional .env file for local development. Values are resolved once at
// startup and are immutable thereafter; a missing required value fails fast.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all service settings.
type Config struct {
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"LOG_FORMAT" default:"json"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	// Spreadsheet snapshot source.
	SheetID      string        `envconfig:"SHEET_ID" required:"true"`
	SheetTimeout time.Duration `envconfig:"SHEET_TIMEOUT" default:"10s"`
	SnapshotTTL  time.Duration `envconfig:"SNAPSHOT_TTL" default:"60s"`

	// Reading submission form.
	FormURL               string        `envconfig:"FORM_URL" required:"true"`
	FormTimeout           time.Duration `envconfig:"FORM_TIMEOUT" default:"10s"`
	FormFieldRiver        string        `envconfig:"FORM_FIELD_RIVER" default:"entry.2045951420"`
	FormFieldMunicipality string        `envconfig:"FORM_FIELD_MUNICIPALITY" default:"entry.143224654"`
	FormFieldDate         string        `envconfig:"FORM_FIELD_DATE" default:"entry.2019012807"`
	FormFieldTime         string        `envconfig:"FORM_FIELD_TIME" default:"entry.795474044"`
	FormFieldLevel        string        `envconfig:"FORM_FIELD_LEVEL" default:"entry.718891381"`

	// Administrator access.
	AdminSecret string        `envconfig:"ADMIN_SECRET" required:"true"`
	SessionTTL  time.Duration `envconfig:"SESSION_TTL" default:"12h"`

	// Telemetry scraping (optional; prefill endpoint and poller are disabled
	// when TELEMETRY_URL is unset).
	TelemetryURL     string        `envconfig:"TELEMETRY_URL"`
	TelemetryTimeout time.Duration `envconfig:"TELEMETRY_TIMEOUT" default:"10s"`

	// Poller schedule and station bindings, e.g.
	// POLL_STATIONS="R1:M1:45902,R1:M2:45910".
	PollSchedule string   `envconfig:"POLL_SCHEDULE" default:"0 */6 * * *"`
	PollStations []string `envconfig:"POLL_STATIONS"`
}

// Station binds a telemetry station reference to the (river, municipality)
// pair its observations belong to.
type Station struct {
	RiverID        string
	MunicipalityID string
	Ref            string
}

// Load reads configuration from the environment, consulting a .env file
// first when present (existing environment variables win).
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if cfg.SnapshotTTL < 0 {
		return nil, errors.New("SNAPSHOT_TTL must not be negative")
	}
	if cfg.SessionTTL <= 0 {
		return nil, errors.New("SESSION_TTL must be positive")
	}
	if _, err := cfg.Stations(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Stations parses the POLL_STATIONS bindings. Each entry is
// "riverID:municipalityID:stationRef".
func (c *Config) Stations() ([]Station, error) {
	stations := make([]Station, 0, len(c.PollStations))
	for _, raw := range c.PollStations {
		parts := strings.SplitN(strings.TrimSpace(raw), ":", 3)
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
			return nil, fmt.Errorf("invalid POLL_STATIONS entry %q: want riverID:municipalityID:stationRef", raw)
		}
		stations = append(stations, Station{
			RiverID:        parts[0],
			MunicipalityID: parts[1],
			Ref:            parts[2],
		})
	}
	return stations, nil
}
