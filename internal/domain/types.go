package domain

// River is one monitored river. Maintained externally in the spreadsheet;
// read-only here.
type River struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Municipality is a monitored location on a river. The (RiverID, ID) pair is
// unique within the dataset; ID alone is not guaranteed to be.
type Municipality struct {
	RiverID string `json:"river_id"`
	ID      string `json:"id"`
	Name    string `json:"name"`

	// Threshold is the overflow threshold exactly as it appears in the
	// spreadsheet: a locale-formatted numeric string, possibly empty.
	// Parse with ParseNumeric at the point of use.
	Threshold string `json:"overflow_threshold,omitempty"`

	// Source is a free-text label naming where this municipality's readings
	// come from (a gauge station, an agency, a person).
	Source string `json:"source,omitempty"`
}

// Reading is one timestamped water-level observation for a (river,
// municipality) pair. The source does not guarantee uniqueness of
// (RiverID, MunicipalityID, Date, Time); duplicates are tolerated.
type Reading struct {
	RiverID        string `json:"river_id"`
	MunicipalityID string `json:"municipality_id"`
	Date           string `json:"date"` // YYYY-MM-DD
	Time           string `json:"time"` // HH:MM

	// Level is nil when the source value was missing or unparsable. The row
	// is kept so the reading still shows up (as invalid) in history views.
	Level *float64 `json:"level"`
}

// Dataset is one immutable snapshot of the three source tables, fetched once
// per render cycle.
type Dataset struct {
	Rivers         []River
	Municipalities []Municipality
	Readings       []Reading
}

// Observation is a candidate reading produced by an external telemetry
// source, used to pre-fill the admin entry form. It has not been submitted
// and carries no identity yet.
type Observation struct {
	Level float64 `json:"level"`
	Date  string  `json:"date"` // YYYY-MM-DD
	Time  string  `json:"time"` // HH:MM
}
