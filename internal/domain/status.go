package domain

// StatusView is the current situation of one (river, municipality) pair:
// the classification of its most recent reading.
type StatusView struct {
	Classification Classification `json:"classification"`
	Level          *float64       `json:"level"`
	Date           string         `json:"date"`
	Time           string         `json:"time"`
}

// CurrentStatus classifies the latest reading of the selected pair against
// the municipality's raw threshold. Returns false when the pair has no
// readings at all.
func CurrentStatus(readings []Reading, riverID, municipalityID, thresholdRaw string) (StatusView, bool) {
	matches := FilterReadings(readings, riverID, municipalityID)
	if len(matches) == 0 {
		return StatusView{}, false
	}
	SortReadings(matches)

	latest := matches[len(matches)-1]
	return StatusView{
		Classification: Classify(latest.Level, parseOptional(thresholdRaw)),
		Level:          latest.Level,
		Date:           latest.Date,
		Time:           latest.Time,
	}, true
}
