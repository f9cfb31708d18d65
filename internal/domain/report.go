package domain

import (
	"sort"
	"time"
)

// ReportRow is one summarized (river, municipality) entry in the general
// monitoring report: the latest and second-latest readings with their
// classification colors.
type ReportRow struct {
	RiverID        string `json:"river_id"`
	MunicipalityID string `json:"municipality_id"`
	River          string `json:"river"`
	Municipality   string `json:"municipality"`

	Threshold *float64 `json:"threshold,omitempty"`

	Previous *float64 `json:"previous,omitempty"`
	Latest   *float64 `json:"latest,omitempty"`

	// Date and Time identify the latest reading.
	Date string `json:"date"`
	Time string `json:"time"`

	Source string `json:"source,omitempty"`

	// Color and PreviousColor tag the latest and previous measurement cells
	// for styling. They are not displayed as text in the general report.
	Color         Color `json:"color"`
	PreviousColor Color `json:"previous_color"`
}

// Report is the consolidated output of one build pass over a dataset
// snapshot.
type Report struct {
	Rows []ReportRow `json:"rows"`

	// Orphans lists municipalities that reference a river id absent from the
	// rivers table. That is a configuration error in the spreadsheet; the
	// offending municipalities are excluded from Rows but surfaced here so
	// the operator can fix the sheet.
	Orphans []Municipality `json:"orphans,omitempty"`

	GeneratedAt time.Time `json:"generated_at"`
}

// BuildReport joins municipalities to rivers and produces one row per pair
// that has at least one reading. Pairs with zero readings are skipped
// entirely: an empty row carries no information. Row order follows the
// municipality order of the source table.
func BuildReport(ds Dataset) Report {
	rivers := make(map[string]River, len(ds.Rivers))
	for _, r := range ds.Rivers {
		rivers[r.ID] = r
	}

	report := Report{GeneratedAt: clock.Now()}

	for _, m := range ds.Municipalities {
		river, ok := rivers[m.RiverID]
		if !ok {
			report.Orphans = append(report.Orphans, m)
			continue
		}

		matches := FilterReadings(ds.Readings, m.RiverID, m.ID)
		if len(matches) == 0 {
			continue
		}
		SortReadings(matches)

		latest := matches[len(matches)-1]
		var previous *float64
		if len(matches) >= 2 {
			previous = matches[len(matches)-2].Level
		}

		threshold := parseOptional(m.Threshold)

		row := ReportRow{
			RiverID:        m.RiverID,
			MunicipalityID: m.ID,
			River:          river.Name,
			Municipality:   m.Name,
			Threshold:      threshold,
			Previous:       previous,
			Latest:         latest.Level,
			Date:           latest.Date,
			Time:           latest.Time,
			Source:         m.Source,
			Color:          Classify(latest.Level, threshold).Color,
			PreviousColor:  ColorGray,
		}
		if len(matches) >= 2 {
			row.PreviousColor = Classify(previous, threshold).Color
		}

		report.Rows = append(report.Rows, row)
	}

	return report
}

// FilterReadings selects the readings belonging to one (river, municipality)
// pair, preserving source order.
func FilterReadings(readings []Reading, riverID, municipalityID string) []Reading {
	var out []Reading
	for _, r := range readings {
		if r.RiverID == riverID && r.MunicipalityID == municipalityID {
			out = append(out, r)
		}
	}
	return out
}

// SortReadings orders readings ascending by (date, time), lexicographic.
// The sort is stable: readings tied on (date, time) keep their source order,
// which is what makes "latest" well-defined for duplicate timestamps.
func SortReadings(readings []Reading) {
	sort.SliceStable(readings, func(i, j int) bool {
		if readings[i].Date != readings[j].Date {
			return readings[i].Date < readings[j].Date
		}
		return readings[i].Time < readings[j].Time
	})
}
