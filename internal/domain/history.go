package domain

// HistoryEntry is one reading in the history view of a (river, municipality)
// pair, annotated with its own classification color. Every row is classified
// independently against the same threshold; the color of the latest reading
// is never reused for older rows.
type HistoryEntry struct {
	Date  string   `json:"date"`
	Time  string   `json:"time"`
	Level *float64 `json:"level"`
	Color Color    `json:"color"`
}

// History is the ordered reading history of one (river, municipality) pair.
// Entries are ascending by (date, time) for charting; TableOrder produces
// the descending order used for tabular display.
type History struct {
	RiverID        string         `json:"river_id"`
	MunicipalityID string         `json:"municipality_id"`
	Entries        []HistoryEntry `json:"entries"`
}

// TableOrder returns the entries newest-first. It is an exact reverse of
// Entries, so the two consumers always see the same rows.
func (h History) TableOrder() []HistoryEntry {
	out := make([]HistoryEntry, len(h.Entries))
	for i, e := range h.Entries {
		out[len(out)-1-i] = e
	}
	return out
}

// BuildHistory filters readings to the selected pair, orders them ascending
// by (date, time), and classifies each against the municipality's raw
// threshold value.
func BuildHistory(readings []Reading, riverID, municipalityID, thresholdRaw string) History {
	matches := FilterReadings(readings, riverID, municipalityID)
	SortReadings(matches)

	threshold := parseOptional(thresholdRaw)

	h := History{
		RiverID:        riverID,
		MunicipalityID: municipalityID,
		Entries:        make([]HistoryEntry, 0, len(matches)),
	}
	for _, r := range matches {
		h.Entries = append(h.Entries, HistoryEntry{
			Date:  r.Date,
			Time:  r.Time,
			Level: r.Level,
			Color: Classify(r.Level, threshold).Color,
		})
	}
	return h
}
