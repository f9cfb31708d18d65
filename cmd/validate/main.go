// Command validate runs data integrity checks against a live spreadsheet:
// referential integrity between the three tabs, threshold and level
// parseability, and duplicate timestamps. It is meant for operators after
// editing the sheet, before the dashboard picks the changes up.
//
// Usage:
//
//	go run ./cmd/validate -sheet-id 1AbC...
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/redec10/river-monitor/internal/adapter/sheets"
	"github.com/redec10/river-monitor/internal/domain"
	"github.com/redec10/river-monitor/internal/observability"
)

// phase tracks pass/fail for one validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	sheetID := flag.String("sheet-id", "", "spreadsheet identifier to validate")
	timeout := flag.Duration("timeout", 30*time.Second, "fetch timeout")
	flag.Parse()

	if *sheetID == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*sheetID, *timeout); code != 0 {
		os.Exit(code)
	}
}

func run(sheetID string, timeout time.Duration) int {
	logger := observability.NewLogger("warn", "text")
	client := sheets.NewClient(sheetID, timeout, logger, observability.NewMetricsForTesting())

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	fmt.Println("=== Spreadsheet Integrity Validation ===")
	fmt.Println()

	ds, err := client.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load spreadsheet: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateReferences(ds),
		validateThresholds(ds),
		validateReadings(ds),
		validateDuplicates(ds),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d rivers, %d municipalities, %d readings\n",
		len(ds.Rivers), len(ds.Municipalities), len(ds.Readings))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if i >= 20 {
				fmt.Printf("  ... and %d more\n", len(p.errors)-i)
				break
			}
			fmt.Printf("  %s\n", e)
		}
	}

	if !allPassed {
		return 1
	}
	fmt.Println("\nAll checks passed.")
	return 0
}

// validateReferences checks that every municipality points at a known river
// and every reading points at a known (river, municipality) pair.
func validateReferences(ds domain.Dataset) *phase {
	p := &phase{name: "Referential integrity"}

	rivers := make(map[string]bool, len(ds.Rivers))
	for _, r := range ds.Rivers {
		if r.ID == "" {
			p.errorf("river %q has an empty id", r.Name)
			continue
		}
		if rivers[r.ID] {
			p.errorf("duplicate river id %q", r.ID)
		}
		rivers[r.ID] = true
	}

	pairs := make(map[[2]string]bool, len(ds.Municipalities))
	for _, m := range ds.Municipalities {
		if !rivers[m.RiverID] {
			p.errorf("municipality %s (%s) references unknown river %q", m.ID, m.Name, m.RiverID)
		}
		key := [2]string{m.RiverID, m.ID}
		if pairs[key] {
			p.errorf("duplicate municipality %s on river %s", m.ID, m.RiverID)
		}
		pairs[key] = true
	}

	for _, r := range ds.Readings {
		if !pairs[[2]string{r.RiverID, r.MunicipalityID}] {
			p.errorf("reading %s %s references unknown pair (%s, %s)",
				r.Date, r.Time, r.RiverID, r.MunicipalityID)
		}
	}
	return p
}

// validateThresholds checks that configured thresholds parse to positive
// numbers. An empty threshold is legal (the municipality renders gray).
func validateThresholds(ds domain.Dataset) *phase {
	p := &phase{name: "Threshold parseability"}
	for _, m := range ds.Municipalities {
		if m.Threshold == "" {
			continue
		}
		v, ok := domain.ParseNumeric(m.Threshold)
		if !ok {
			p.errorf("municipality %s (%s): unparsable threshold %q", m.ID, m.Name, m.Threshold)
			continue
		}
		if v <= 0 {
			p.errorf("municipality %s (%s): non-positive threshold %v", m.ID, m.Name, v)
		}
	}
	return p
}

// validateReadings reports invalid levels and malformed timestamps. Invalid
// levels are tolerated by the dashboard but worth surfacing to the operator.
func validateReadings(ds domain.Dataset) *phase {
	p := &phase{name: "Reading validity"}
	for _, r := range ds.Readings {
		if r.Level == nil {
			p.errorf("reading (%s, %s) %s %s has no usable level",
				r.RiverID, r.MunicipalityID, r.Date, r.Time)
		}
		if _, err := time.Parse("2006-01-02", r.Date); err != nil {
			p.errorf("reading (%s, %s): malformed date %q", r.RiverID, r.MunicipalityID, r.Date)
		}
		if _, err := time.Parse("15:04", r.Time); err != nil {
			p.errorf("reading (%s, %s): malformed time %q", r.RiverID, r.MunicipalityID, r.Time)
		}
	}
	return p
}

// validateDuplicates flags readings sharing a (pair, date, time) key. The
// dashboard resolves ties by source order, so duplicates are usually entry
// mistakes.
func validateDuplicates(ds domain.Dataset) *phase {
	p := &phase{name: "Duplicate timestamps"}
	seen := make(map[[4]string]bool, len(ds.Readings))
	for _, r := range ds.Readings {
		key := [4]string{r.RiverID, r.MunicipalityID, r.Date, r.Time}
		if seen[key] {
			p.errorf("duplicate reading (%s, %s) at %s %s",
				r.RiverID, r.MunicipalityID, r.Date, r.Time)
		}
		seen[key] = true
	}
	return p
}
