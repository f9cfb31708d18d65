package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redec10/river-monitor/internal/domain"
)

func fp(v float64) *float64 { return &v }

func testReport() domain.Report {
	return domain.Report{
		GeneratedAt: time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC),
		Rows: []domain.ReportRow{
			{
				River:         "Rio Itajai",
				Municipality:  "Blumenau",
				Threshold:     fp(300),
				Previous:      fp(120),
				Latest:        fp(350.5),
				Date:          "2024-01-02",
				Time:          "08:00",
				Source:        "Defesa Civil",
				Color:         domain.ColorRed,
				PreviousColor: domain.ColorGreen,
			},
			{
				River:         "Rio Una",
				Municipality:  "Palmares",
				Latest:        fp(42),
				Date:          "2024-01-03",
				Time:          "06:00",
				Color:         domain.ColorGray,
				PreviousColor: domain.ColorGray,
			},
		},
	}
}

func TestHTML(t *testing.T) {
	out, err := HTML(testReport())
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "River Monitoring Report")
	assert.Contains(t, html, "Generated at 2024-03-15T12:00:00Z")
	assert.Contains(t, html, "<td>Blumenau</td>")

	// Formatted measurements and their classification backgrounds.
	assert.Contains(t, html, `<td style="background-color: #f8d7da">350.50</td>`)
	assert.Contains(t, html, `<td style="background-color: #d4edda">120.00</td>`)

	// Missing threshold and previous reading render as dashes, neutral gray.
	assert.Contains(t, html, `<td style="background-color: #f2f2f2">-</td>`)
}

func TestHTML_EscapesCellContent(t *testing.T) {
	report := testReport()
	report.Rows[0].Municipality = `<script>alert("x")</script>`

	out, err := HTML(report)
	require.NoError(t, err)

	assert.NotContains(t, string(out), "<script>")
	assert.Contains(t, string(out), "&lt;script&gt;")
}

func TestPDF(t *testing.T) {
	out, err := PDF(testReport())
	require.NoError(t, err)

	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestPDF_ManyRowsPaginates(t *testing.T) {
	report := testReport()
	for i := 0; i < 80; i++ {
		report.Rows = append(report.Rows, report.Rows[0])
	}

	out, err := PDF(report)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestHexToRGB(t *testing.T) {
	r, g, b := hexToRGB("#d4edda")
	assert.Equal(t, []int{0xd4, 0xed, 0xda}, []int{r, g, b})

	r, g, b = hexToRGB("nonsense")
	assert.Equal(t, []int{242, 242, 242}, []int{r, g, b})
}
