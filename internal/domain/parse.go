package domain

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumeric coerces a locale-formatted numeric string into a float.
// Both "." and "," are accepted as the decimal separator ("350,5" → 350.5).
// Empty, malformed, or non-finite input returns (0, false); it never errors,
// since a bad cell must degrade to a missing value rather than abort the
// dataset.
func ParseNumeric(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	raw = strings.ReplaceAll(raw, ",", ".")

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseOptional is ParseNumeric lifted to the pointer representation used by
// Reading.Level and threshold values.
func parseOptional(raw string) *float64 {
	v, ok := ParseNumeric(raw)
	if !ok {
		return nil
	}
	return &v
}

// FormatLevel renders a level with two decimal places, or a dash placeholder
// when the value is missing. Every display surface uses this so the report
// table, history, and exports agree byte-for-byte.
func FormatLevel(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

// FormatPercent renders a percentage-of-threshold with one decimal place,
// e.g. "116.8%". Empty when the percentage is missing.
func FormatPercent(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', 1, 64) + "%"
}
