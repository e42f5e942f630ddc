package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmericanOdds(t *testing.T) {
	tests := []struct {
		name        string
		probability float64
		expected    int
	}{
		{"even money", 50, 100},
		{"three to one favorite", 75, -300},
		{"three to one underdog", 25, 300},
		{"modest favorite", 60, -150},
		{"modest underdog", 40, 150},
		{"two to one favorite", 66.5, -199},
		{"heavy favorite saturates", 99.9, -10000},
		{"long shot saturates", 0.1, 10000},
		{"certainty", 100, -10000},
		{"impossibility", 0, 10000},
		{"negative probability treated as impossible", -4, 10000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AmericanOdds(tt.probability))
		})
	}
}

func TestFormatOdds(t *testing.T) {
	assert.Equal(t, "+100", FormatOdds(100))
	assert.Equal(t, "-110", FormatOdds(-110))
	assert.Equal(t, "+10000", FormatOdds(10000))
}

func TestOddsString(t *testing.T) {
	assert.Equal(t, "+100", OddsString(50))
	assert.Equal(t, "-9900", OddsString(99))
	assert.Equal(t, "+10000", OddsString(0.05))
}
