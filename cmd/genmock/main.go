// Command genmock generates a deterministic mock spreadsheet as three CSV
// files matching the source tabs (rios, municipios, leituras). The fixtures
// are useful for local development against a file-backed stub instead of the
// live spreadsheet, and deliberately include the messy values the loader has
// to cope with: comma decimals, blank levels, and a missing threshold.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock -days 7 -per-day 4
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/redec10/river-monitor/internal/domain"
)

var baseDate = time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

type mockMunicipality struct {
	riverID   string
	id        string
	name      string
	threshold float64 // 0 means no threshold defined
	source    string
	baseLevel float64
	swing     float64
}

var mockRivers = [][2]string{
	{"R1", "Itajai-Acu"},
	{"R2", "Itajai-Mirim"},
	{"R3", "Itapocu"},
}

var mockMunicipalities = []mockMunicipality{
	{riverID: "R1", id: "M1", name: "Blumenau", threshold: 800, source: "defesa civil", baseLevel: 420, swing: 500},
	{riverID: "R1", id: "M2", name: "Gaspar", threshold: 650, source: "regua local", baseLevel: 310, swing: 420},
	{riverID: "R2", id: "M3", name: "Brusque", threshold: 550, source: "estacao 45902", baseLevel: 260, swing: 380},
	{riverID: "R3", id: "M4", name: "Jaragua do Sul", threshold: 0, source: "voluntario", baseLevel: 180, swing: 200},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out", "", "output directory for the CSV fixtures")
	days := flag.Int("days", 7, "number of days of readings to generate")
	perDay := flag.Int("per-day", 4, "readings per municipality per day")
	flag.Parse()

	if *outDir == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	// Fixed seed keeps the fixtures reproducible across runs.
	rng := rand.New(rand.NewSource(20240301))

	if err := writeCSV(filepath.Join(*outDir, "rios.csv"), riverRows()); err != nil {
		return err
	}
	if err := writeCSV(filepath.Join(*outDir, "municipios.csv"), municipalityRows()); err != nil {
		return err
	}

	readings := readingRows(rng, *days, *perDay)
	if err := writeCSV(filepath.Join(*outDir, "leituras.csv"), readings); err != nil {
		return err
	}

	log.Printf("wrote %d rivers, %d municipalities, %d readings to %s",
		len(mockRivers), len(mockMunicipalities), len(readings)-1, *outDir)
	printStats(readings)
	return nil
}

func riverRows() [][]string {
	rows := [][]string{{"id_rio", "nome_rio"}}
	for _, r := range mockRivers {
		rows = append(rows, []string{r[0], r[1]})
	}
	return rows
}

func municipalityRows() [][]string {
	rows := [][]string{{"id_rio", "id_municipio", "nome_municipio", "nivel_transbordo", "fonte"}}
	for _, m := range mockMunicipalities {
		threshold := ""
		if m.threshold > 0 {
			// Comma decimal, the way the sheet's locale writes numbers.
			threshold = strings.ReplaceAll(fmt.Sprintf("%.1f", m.threshold), ".", ",")
		}
		rows = append(rows, []string{m.riverID, m.id, m.name, threshold, m.source})
	}
	return rows
}

func readingRows(rng *rand.Rand, days, perDay int) [][]string {
	rows := [][]string{{"id_rio", "id_municipio", "data", "hora", "nivel"}}

	for day := 0; day < days; day++ {
		date := baseDate.AddDate(0, 0, day).Format("2006-01-02")
		for slot := 0; slot < perDay; slot++ {
			hour := fmt.Sprintf("%02d:00", slot*24/perDay)
			for _, m := range mockMunicipalities {
				rows = append(rows, []string{m.riverID, m.id, date, hour, levelValue(rng, m)})
			}
		}
	}
	return rows
}

// levelValue produces a plausible raw cell: usually a comma-decimal number,
// occasionally blank or free text, which the loader must keep as an invalid
// reading rather than drop.
func levelValue(rng *rand.Rand, m mockMunicipality) string {
	switch r := rng.Float64(); {
	case r < 0.03:
		return ""
	case r < 0.05:
		return "sem leitura"
	default:
		level := m.baseLevel + rng.Float64()*m.swing
		return strings.ReplaceAll(fmt.Sprintf("%.2f", level), ".", ",")
	}
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	w.Flush()
	return w.Error()
}

// printStats classifies every generated reading against its municipality's
// threshold and prints the category distribution, a quick sanity check that
// the fixture exercises the whole scale.
func printStats(rows [][]string) {
	thresholds := make(map[string]string, len(mockMunicipalities))
	for _, m := range mockMunicipalities {
		if m.threshold > 0 {
			thresholds[m.id] = fmt.Sprintf("%.1f", m.threshold)
		}
	}

	counts := map[domain.Category]int{}
	for _, row := range rows[1:] {
		c := domain.ClassifyRaw(row[4], thresholds[row[1]])
		counts[c.Category]++
	}

	log.Println("category distribution:")
	for category, n := range counts {
		log.Printf("  %-12s %d", category, n)
	}
}
