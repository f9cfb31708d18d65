package domain

// Category is the risk classification label shown to users.
type Category string

const (
	CategoryNormal      Category = "Normal"
	CategoryAlert       Category = "Alert"
	CategoryOverflow    Category = "Overflow"
	CategoryExtreme     Category = "Extreme hydrological risk"
	CategoryNoThreshold Category = "No threshold defined"
	CategoryInvalid     Category = "Invalid reading"
)

// Color is the classification color token. It is a semantic tag, not a
// display color; see [Color.Background] for the display mapping.
type Color string

const (
	ColorGreen  Color = "green"
	ColorOrange Color = "orange"
	ColorRed    Color = "red"
	ColorPurple Color = "purple"
	ColorGray   Color = "gray"
)

// Classification is the derived risk state of one (level, threshold) pair.
// It is computed on demand and never cached.
type Classification struct {
	Category Category `json:"category"`
	Color    Color    `json:"color"`

	// Percent is level/threshold*100. Nil for the gray states, where no
	// percentage is defined.
	Percent *float64 `json:"percent,omitempty"`

	Message string `json:"message"`
}

// Classify computes the risk classification of a reading level against a
// municipality's overflow threshold.
//
// A nil level is terminal: the reading is invalid regardless of the
// threshold. A nil or non-positive threshold means the municipality has no
// usable configuration. Otherwise the percentage of threshold is bucketed
// with half-open intervals evaluated in ascending order, first match wins:
// <85 Normal, <100 Alert, <=120 Overflow, >120 Extreme. The boundaries
// 85, 100, and 120 must stay exactly as they are: 120.0 is Overflow, not
// Extreme.
func Classify(level, threshold *float64) Classification {
	if level == nil {
		return Classification{
			Category: CategoryInvalid,
			Color:    ColorGray,
			Message:  "Invalid reading.",
		}
	}
	if threshold == nil || *threshold <= 0 {
		return Classification{
			Category: CategoryNoThreshold,
			Color:    ColorGray,
			Message:  "Municipality has no overflow threshold.",
		}
	}

	perc := (*level / *threshold) * 100

	switch {
	case perc < 85:
		return Classification{CategoryNormal, ColorGreen, &perc, "Level within normal range."}
	case perc < 100:
		return Classification{CategoryAlert, ColorOrange, &perc, "Warning: elevated level."}
	case perc <= 120:
		return Classification{CategoryOverflow, ColorRed, &perc, "River above overflow threshold."}
	default:
		return Classification{CategoryExtreme, ColorPurple, &perc, "Extremely critical level."}
	}
}

// ClassifyRaw classifies loosely-typed inputs, running both through
// ParseNumeric first. This is the entry point for values coming straight off
// the spreadsheet.
func ClassifyRaw(levelRaw, thresholdRaw string) Classification {
	return Classify(parseOptional(levelRaw), parseOptional(thresholdRaw))
}
