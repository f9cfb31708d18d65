package export

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/redec10/river-monitor/internal/domain"
)

// Column widths in millimeters, sized for A4 landscape with 10mm margins.
var pdfColumns = []struct {
	title string
	width float64
}{
	{"River", 60},
	{"Municipality", 70},
	{"Latest Level", 45},
	{"Overflow Threshold", 50},
	{"Source", 52},
}

// PDF renders the report as a paginated A4 landscape document: title block,
// generation timestamp, and a grid table. The latest-level cell keeps its
// classification background so the PDF agrees with every other surface.
func PDF(report domain.Report) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "River Monitoring Report", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(100, 100, 100)
	generated := report.GeneratedAt.UTC().Format(time.RFC3339)
	pdf.CellFormat(0, 6, "Generated at "+generated, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	writeHeader(pdf)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	for _, row := range report.Rows {
		if pdf.GetY() > 180 {
			pdf.AddPage()
			writeHeader(pdf)
			pdf.SetFont("Helvetica", "", 10)
			pdf.SetTextColor(0, 0, 0)
		}

		r, g, b := hexToRGB(row.Color.Background())

		pdf.CellFormat(pdfColumns[0].width, 8, row.River, "1", 0, "L", false, 0, "")
		pdf.CellFormat(pdfColumns[1].width, 8, row.Municipality, "1", 0, "L", false, 0, "")
		pdf.SetFillColor(r, g, b)
		pdf.CellFormat(pdfColumns[2].width, 8, domain.FormatLevel(row.Latest), "1", 0, "R", true, 0, "")
		pdf.CellFormat(pdfColumns[3].width, 8, domain.FormatLevel(row.Threshold), "1", 0, "R", false, 0, "")
		pdf.CellFormat(pdfColumns[4].width, 8, row.Source, "1", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf report: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(52, 58, 64)
	pdf.SetTextColor(255, 255, 255)
	for i, col := range pdfColumns {
		ln := 0
		if i == len(pdfColumns)-1 {
			ln = 1
		}
		pdf.CellFormat(col.width, 8, col.title, "1", ln, "L", true, 0, "")
	}
}

// hexToRGB parses a #rrggbb color. Unparsable input falls back to the
// neutral light gray used for unknown classification colors.
func hexToRGB(hex string) (int, int, int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 242, 242, 242
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 242, 242, 242
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
