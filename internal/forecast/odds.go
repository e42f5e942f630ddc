package forecast

import (
	"fmt"
	"math"
)

// oddsSaturation bounds the American line for near-certain and near-zero
// probabilities so extreme softmax output stays printable.
const oddsSaturation = 10000

// AmericanOdds converts a probability percentage into an American line.
// Favorites (p > 50) price negative, underdogs positive, an even chance is
// +100, and the line saturates at +/-10000.
func AmericanOdds(p float64) int {
	switch {
	case p <= 0:
		return oddsSaturation
	case p >= 100:
		return -oddsSaturation
	case p > 50:
		line := -int(math.Round(p / (100 - p) * 100))
		if line < -oddsSaturation {
			return -oddsSaturation
		}
		return line
	case p < 50:
		line := int(math.Round((100 - p) / p * 100))
		if line > oddsSaturation {
			return oddsSaturation
		}
		return line
	default:
		return 100
	}
}

// FormatOdds renders an American line with its conventional explicit sign
func FormatOdds(line int) string {
	if line > 0 {
		return fmt.Sprintf("+%d", line)
	}
	return fmt.Sprintf("%d", line)
}

// OddsString is the one-step probability-to-line rendering used on boards
func OddsString(p float64) string {
	return FormatOdds(AmericanOdds(p))
}
