package factors

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func newTestAggregator() *Aggregator {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewAggregator(logger)
}

func TestAggregateDuplicatesKeepMaximum(t *testing.T) {
	agg := newTestAggregator()
	playerID := uuid.New()

	records := agg.Aggregate([]Contribution{
		{PlayerID: playerID, Factor: FactorGoals, Value: 120},
		{PlayerID: playerID, Factor: FactorGoals, Value: 310},
		{PlayerID: playerID, Factor: FactorGoals, Value: 45},
	}, nil, nil)

	rec, ok := records[playerID]
	assert.True(t, ok)
	assert.Equal(t, 310.0, rec.GoalPoints)
	assert.Equal(t, 310.0, rec.TotalPoints)
}

func TestAggregateAppliesCapsAtRead(t *testing.T) {
	agg := newTestAggregator()
	playerID := uuid.New()

	records := agg.Aggregate([]Contribution{
		{PlayerID: playerID, Factor: FactorHeight, Value: 450},
		{PlayerID: playerID, Factor: FactorInternational, Value: 2500},
		{PlayerID: playerID, Factor: FactorWeight, Value: 149},
	}, nil, nil)

	rec := records[playerID]
	assert.Equal(t, 200.0, rec.HeightPoints, "height points cap at 200")
	assert.Equal(t, 1000.0, rec.InternationalPoints, "international points cap at 1000")
	assert.Equal(t, 149.0, rec.WeightPoints)
	assert.Equal(t, 200.0+1000.0+149.0, rec.TotalPoints)
}

func TestAggregateDefensiveDefaults(t *testing.T) {
	agg := newTestAggregator()

	tests := []struct {
		name  string
		value float64
	}{
		{name: "negative value", value: -50},
		{name: "NaN value", value: math.NaN()},
		{name: "positive infinity", value: math.Inf(1)},
		{name: "negative infinity", value: math.Inf(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			playerID := uuid.New()
			records := agg.Aggregate([]Contribution{
				{PlayerID: playerID, Factor: FactorDraft, Value: tt.value},
			}, nil, nil)

			rec := records[playerID]
			assert.Equal(t, 0.0, rec.DraftPoints)
			assert.Equal(t, 0.0, rec.TotalPoints)
		})
	}
}

func TestAggregateAbsentFactorsDefaultToZero(t *testing.T) {
	agg := newTestAggregator()
	playerID := uuid.New()

	records := agg.Aggregate([]Contribution{
		{PlayerID: playerID, Factor: FactorLeague, Value: 1200},
	}, nil, nil)

	rec := records[playerID]
	assert.Equal(t, 1200.0, rec.LeaguePoints)
	assert.Equal(t, 0.0, rec.HeightPoints)
	assert.Equal(t, 0.0, rec.ManualPoints)
	assert.Equal(t, 0.0, rec.WeeklyViewsDeltaPoints)
}

func TestAggregateIgnoresUnknownFactors(t *testing.T) {
	agg := newTestAggregator()
	playerID := uuid.New()

	records := agg.Aggregate([]Contribution{
		{PlayerID: playerID, Factor: Factor("mystery_source"), Value: 900},
		{PlayerID: playerID, Factor: FactorCamp, Value: 80},
	}, nil, nil)

	rec := records[playerID]
	assert.Equal(t, 80.0, rec.CampPoints)
	assert.Equal(t, 80.0, rec.TotalPoints)
}

func TestAggregateMergesSeasonRates(t *testing.T) {
	agg := newTestAggregator()
	playerID := uuid.New()

	current := []SeasonRates{{
		PlayerID:       playerID,
		GoalsPerGame:   0.5,
		AssistsPerGame: 0.6,
		GamesPlayed:    18,
	}}
	prior := []SeasonRates{{
		PlayerID:       playerID,
		GoalsPerGame:   0.4,
		AssistsPerGame: 0.3,
		GamesPlayed:    22,
	}}

	records := agg.Aggregate([]Contribution{
		{PlayerID: playerID, Factor: FactorGoals, Value: 200},
	}, current, prior)

	rec := records[playerID]
	assert.Equal(t, 0.5, rec.CurrentGoalsPerGame)
	assert.Equal(t, 0.6, rec.CurrentAssistsPerGame)
	assert.Equal(t, 18, rec.CurrentGamesPlayed)
	assert.Equal(t, 0.4, rec.PriorGoalsPerGame)
	assert.Equal(t, 22, rec.PriorGamesPlayed)
}

func TestAggregateRatesOnlyPlayerGetsRecord(t *testing.T) {
	agg := newTestAggregator()
	playerID := uuid.New()

	records := agg.Aggregate(nil, []SeasonRates{{
		PlayerID:     playerID,
		GoalsPerGame: 1.1,
		GamesPlayed:  10,
	}}, nil)

	rec, ok := records[playerID]
	assert.True(t, ok, "player with only rate lines still gets a canonical record")
	assert.Equal(t, 0.0, rec.TotalPoints)
	assert.Equal(t, 1.1, rec.CurrentGoalsPerGame)
}

func TestCapTableCoversAllFactors(t *testing.T) {
	for _, f := range All() {
		assert.Greater(t, Cap(f), 0.0, "factor %s must document a positive cap", f)
	}
	assert.Len(t, All(), 28)
}
