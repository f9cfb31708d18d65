package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumeric(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected float64
		ok       bool
	}{
		{"dot decimal", "350.5", 350.5, true},
		{"comma decimal", "350,5", 350.5, true},
		{"integer", "300", 300, true},
		{"negative", "-1,25", -1.25, true},
		{"surrounding whitespace", "  12,75  ", 12.75, true},
		{"empty", "", 0, false},
		{"whitespace only", "   ", 0, false},
		{"text", "n/a", 0, false},
		{"mixed separators", "1.234,5", 0, false},
		{"nan literal", "NaN", 0, false},
		{"inf literal", "Inf", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := ParseNumeric(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestFormatLevel(t *testing.T) {
	t.Run("two decimal places", func(t *testing.T) {
		v := 350.5
		assert.Equal(t, "350.50", FormatLevel(&v))
	})

	t.Run("missing value renders dash", func(t *testing.T) {
		assert.Equal(t, "-", FormatLevel(nil))
	})

	t.Run("round trip stays within half a cent", func(t *testing.T) {
		values := []float64{0, 0.004, 1.005, 123.456, 350.5, 9999.999}
		for _, v := range values {
			parsed, ok := ParseNumeric(FormatLevel(&v))
			require.True(t, ok)
			assert.InDelta(t, v, parsed, 0.005)
		}
	})
}

func TestFormatPercent(t *testing.T) {
	p := 116.83333333333333
	assert.Equal(t, "116.8%", FormatPercent(&p))
	assert.Equal(t, "", FormatPercent(nil))
}
