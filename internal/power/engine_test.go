package power

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/openrink/puckcast/internal/models"
)

func TestTeamOVRCurve(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		name     string
		avgScore float64
		expected int
	}{
		{name: "floor at 750", avgScore: 750, expected: 70},
		{name: "ceiling at 2950", avgScore: 2950, expected: 99},
		{name: "below floor clamps", avgScore: 120, expected: 70},
		{name: "zero clamps", avgScore: 0, expected: 70},
		{name: "above ceiling clamps", avgScore: 5000, expected: 99},
		{name: "midpoint", avgScore: 1850, expected: 85}, // 70 + 29*0.5 = 84.5 -> 85
		{name: "one quarter in", avgScore: 1300, expected: 77}, // 70 + 29*0.25 = 77.25
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, engine.TeamOVR(tt.avgScore))
		})
	}
}

func TestTeamOVRMonotone(t *testing.T) {
	engine := NewEngine()
	prev := 0
	for score := 0.0; score <= 3500; score += 50 {
		ovr := engine.TeamOVR(score)
		assert.GreaterOrEqual(t, ovr, prev, "OVR must never decrease as roster score grows")
		assert.GreaterOrEqual(t, ovr, 70)
		assert.LessOrEqual(t, ovr, 99)
		prev = ovr
	}
}

func TestDeriveOVRLeavesRanksAlone(t *testing.T) {
	engine := NewEngine()
	snapshot := &models.LeagueSnapshot{
		Season: "2025-26",
		Teams: []models.Team{
			{ID: uuid.New(), PowerRank: 2, AvgRosterScore: 2950, Classification: models.ClassificationLarge},
			{ID: uuid.New(), PowerRank: 1, AvgRosterScore: 800, Classification: models.ClassificationSmall},
		},
	}

	engine.DeriveOVR(snapshot)

	assert.Equal(t, 99, snapshot.Teams[0].OVR)
	assert.Equal(t, 71, snapshot.Teams[1].OVR) // 70 + 29*(50/2200) = 70.66 -> 71

	// The curated rank passes through verbatim, even when OVR disagrees.
	assert.Equal(t, 2, snapshot.Teams[0].PowerRank)
	assert.Equal(t, 1, snapshot.Teams[1].PowerRank)
}

func TestViewExposesRankOVRClassification(t *testing.T) {
	engine := NewEngine()
	teamID := uuid.New()
	snapshot := &models.LeagueSnapshot{
		Teams: []models.Team{
			{ID: teamID, PowerRank: 4, OVR: 88, Classification: models.ClassificationSmall},
		},
	}

	view := engine.View(snapshot)
	assert.Len(t, view, 1)
	assert.Equal(t, TeamPower{TeamID: teamID, Rank: 4, OVR: 88, Classification: models.ClassificationSmall}, view[0])
}

func TestRosterScores(t *testing.T) {
	players := []*models.Player{
		{Factors: models.FactorRecord{TotalPoints: 900}},
		{Factors: models.FactorRecord{TotalPoints: 1500}},
		{Factors: models.FactorRecord{TotalPoints: 600}},
	}

	avg, max, err := RosterScores(players)
	assert.NoError(t, err)
	assert.InDelta(t, 1000.0, avg, 1e-9)
	assert.Equal(t, 1500.0, max)
}

func TestRosterScoresEmptyRoster(t *testing.T) {
	_, _, err := RosterScores(nil)
	assert.ErrorIs(t, err, models.ErrNoRatedPlayers)
}
