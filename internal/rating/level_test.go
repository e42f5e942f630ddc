package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLeagueLadderLookup(t *testing.T) {
	tests := []struct {
		name     string
		league   string
		expected int
	}{
		{name: "top professional league", league: "NHL", expected: 99},
		{name: "lowercase", league: "nhl", expected: 99},
		{name: "messy whitespace", league: "  NCAA   DI ", expected: 82},
		{name: "women's marker in parentheses", league: "SHL (women)", expected: 91},
		{name: "short women's marker", league: "Liiga (W)", expected: 88},
		{name: "trailing women word", league: "OHL women", expected: 80},
		{name: "junior league", league: "USHL", expected: 75},
		{name: "lowest ladder rung", league: "house", expected: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, ok := lookupLeagueTier(tt.league)
			assert.True(t, ok)
			assert.Equal(t, tt.expected, tier)
		})
	}
}

func TestLeagueLadderMiss(t *testing.T) {
	_, ok := lookupLeagueTier("beer league of narnia")
	assert.False(t, ok)

	_, ok = lookupLeagueTier("")
	assert.False(t, ok)
}

func TestLevelFromPointsBands(t *testing.T) {
	tests := []struct {
		name     string
		points   float64
		expected int
	}{
		{name: "zero points takes the lowest floor", points: 0, expected: 5},
		{name: "mid first band", points: 250, expected: 13},
		{name: "band boundary", points: 500, expected: 20},
		{name: "mid second band", points: 750, expected: 28},
		{name: "exact third boundary", points: 2000, expected: 55},
		{name: "mid fourth band", points: 2500, expected: 65},
		{name: "top band start", points: 4000, expected: 90},
		{name: "mid top band", points: 4500, expected: 95},
		{name: "ceiling", points: 5000, expected: 99},
		{name: "beyond ceiling", points: 8200, expected: 99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, levelFromPoints(tt.points))
		})
	}
}

func TestLevelRatingPrefersLadder(t *testing.T) {
	// Ladder tier wins even when league points disagree.
	assert.Equal(t, 99, levelRating("NHL", 0))

	// Unknown league falls back to points.
	assert.Equal(t, 65, levelRating("unknown league", 2500))

	// No league and no points still stays >= 1.
	assert.GreaterOrEqual(t, levelRating("", 0), 1)
}
