package domain

// Background maps a classification color token to the row-highlight
// background used by the report table, history rows, and HTML export. Total
// over all inputs: unrecognized tokens, including gray, fall back to neutral
// light gray.
func (c Color) Background() string {
	switch c {
	case ColorGreen:
		return "#d4edda"
	case ColorOrange:
		return "#fff3cd"
	case ColorRed:
		return "#f8d7da"
	case ColorPurple:
		return "#e2d6f3"
	default:
		return "#f2f2f2"
	}
}
