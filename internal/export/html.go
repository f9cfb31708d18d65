// Package export serializes the consolidated report for download, as an
// HTML table and as a paginated PDF document. Both consume the report rows
// only; classification happened upstream and is carried in the color tags.
package export

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/redec10/river-monitor/internal/domain"
)

// htmlRow is the display-ready form of one report row: formatted strings and
// resolved cell backgrounds, no domain types left for the template to poke at.
type htmlRow struct {
	River        string
	Municipality string
	Threshold    string
	Previous     string
	PreviousBG   string
	Latest       string
	LatestBG     string
	Source       string
}

type htmlReport struct {
	GeneratedAt string
	Rows        []htmlRow
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>River Monitoring Report</title>
<style>
body { font-family: Arial, Helvetica, sans-serif; margin: 24px; }
h1 { font-size: 20px; }
p.generated { color: #666; font-size: 12px; }
table { border-collapse: collapse; width: 100%; }
th { background-color: #343a40; color: #fff; padding: 8px; text-align: left; }
td { border: 1px solid #dee2e6; padding: 8px; }
</style>
</head>
<body>
<h1>River Monitoring Report</h1>
<p class="generated">Generated at {{.GeneratedAt}}</p>
<table>
<thead>
<tr><th>River</th><th>Municipality</th><th>Overflow Threshold</th><th>Previous Reading</th><th>Latest Reading</th><th>Source</th></tr>
</thead>
<tbody>
{{- range .Rows}}
<tr><td>{{.River}}</td><td>{{.Municipality}}</td><td>{{.Threshold}}</td><td style="background-color: {{.PreviousBG}}">{{.Previous}}</td><td style="background-color: {{.LatestBG}}">{{.Latest}}</td><td>{{.Source}}</td></tr>
{{- end}}
</tbody>
</table>
</body>
</html>
`))

// HTML renders the report as a standalone HTML document with per-cell
// background colors matching the dashboard table.
func HTML(report domain.Report) ([]byte, error) {
	view := htmlReport{
		GeneratedAt: report.GeneratedAt.UTC().Format(time.RFC3339),
		Rows:        make([]htmlRow, 0, len(report.Rows)),
	}
	for _, row := range report.Rows {
		view.Rows = append(view.Rows, htmlRow{
			River:        row.River,
			Municipality: row.Municipality,
			Threshold:    domain.FormatLevel(row.Threshold),
			Previous:     domain.FormatLevel(row.Previous),
			PreviousBG:   row.PreviousColor.Background(),
			Latest:       domain.FormatLevel(row.Latest),
			LatestBG:     row.Color.Background(),
			Source:       row.Source,
		})
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("render html report: %w", err)
	}
	return buf.Bytes(), nil
}
