package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fp(v float64) *float64 { return &v }

func TestClassifyBoundaries(t *testing.T) {
	// Threshold 100 makes level and percentage coincide, so the cut points
	// can be probed directly.
	threshold := fp(100)

	tests := []struct {
		name     string
		level    float64
		category Category
		color    Color
	}{
		{"well below normal cut", 50, CategoryNormal, ColorGreen},
		{"just below alert cut", 84.999, CategoryNormal, ColorGreen},
		{"alert cut inclusive", 85, CategoryAlert, ColorOrange},
		{"just below overflow cut", 99.999, CategoryAlert, ColorOrange},
		{"overflow cut inclusive", 100, CategoryOverflow, ColorRed},
		{"upper overflow bound inclusive", 120, CategoryOverflow, ColorRed},
		{"just above upper overflow bound", 120.000001, CategoryExtreme, ColorPurple},
		{"far above threshold", 500, CategoryExtreme, ColorPurple},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Classify(fp(tt.level), threshold)
			assert.Equal(t, tt.category, result.Category)
			assert.Equal(t, tt.color, result.Color)
			require.NotNil(t, result.Percent)
			assert.InDelta(t, tt.level, *result.Percent, 1e-9)
		})
	}
}

func TestClassifyMissingInputs(t *testing.T) {
	t.Run("nil level is terminal", func(t *testing.T) {
		result := Classify(nil, fp(300))
		assert.Equal(t, CategoryInvalid, result.Category)
		assert.Equal(t, ColorGray, result.Color)
		assert.Nil(t, result.Percent)
		assert.Equal(t, "Invalid reading.", result.Message)
	})

	t.Run("nil level beats nil threshold", func(t *testing.T) {
		result := Classify(nil, nil)
		assert.Equal(t, CategoryInvalid, result.Category)
	})

	t.Run("nil threshold", func(t *testing.T) {
		result := Classify(fp(500), nil)
		assert.Equal(t, CategoryNoThreshold, result.Category)
		assert.Equal(t, ColorGray, result.Color)
		assert.Nil(t, result.Percent)
		assert.Equal(t, "Municipality has no overflow threshold.", result.Message)
	})

	t.Run("zero threshold", func(t *testing.T) {
		result := Classify(fp(500), fp(0))
		assert.Equal(t, CategoryNoThreshold, result.Category)
		assert.Nil(t, result.Percent)
	})

	t.Run("negative threshold", func(t *testing.T) {
		result := Classify(fp(500), fp(-10))
		assert.Equal(t, CategoryNoThreshold, result.Category)
	})
}

func TestClassifyRaw(t *testing.T) {
	t.Run("comma decimal level", func(t *testing.T) {
		result := ClassifyRaw("350,5", "300")
		assert.Equal(t, CategoryOverflow, result.Category)
		assert.Equal(t, ColorRed, result.Color)
		require.NotNil(t, result.Percent)
		assert.InDelta(t, 116.83, *result.Percent, 0.01)
	})

	t.Run("boundary level stays overflow", func(t *testing.T) {
		result := ClassifyRaw("1200", "1000")
		assert.Equal(t, CategoryOverflow, result.Category)
		require.NotNil(t, result.Percent)
		assert.Equal(t, 120.0, *result.Percent)
	})

	t.Run("unparsable level", func(t *testing.T) {
		result := ClassifyRaw("dry", "300")
		assert.Equal(t, CategoryInvalid, result.Category)
	})

	t.Run("unparsable threshold", func(t *testing.T) {
		result := ClassifyRaw("120", "unset")
		assert.Equal(t, CategoryNoThreshold, result.Category)
	})
}

func TestColorBackground(t *testing.T) {
	tests := []struct {
		color    Color
		expected string
	}{
		{ColorGreen, "#d4edda"},
		{ColorOrange, "#fff3cd"},
		{ColorRed, "#f8d7da"},
		{ColorPurple, "#e2d6f3"},
		{ColorGray, "#f2f2f2"},
		{Color("chartreuse"), "#f2f2f2"},
		{Color(""), "#f2f2f2"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.color.Background(), "color %q", tt.color)
	}
}
