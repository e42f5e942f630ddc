package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimulateSeasonRejectsMismatchedInput(t *testing.T) {
	engine := newTestEngine()
	snap := leagueOf(20, nil, nil)

	forecasts, err := engine.Forecast(snap)
	assert.NoError(t, err)

	_, err = SimulateSeason(snap, forecasts[:10], SimulationConfig{Seed: 1})
	assert.Error(t, err)
}

func TestSimulateSeasonIsSeedDeterministic(t *testing.T) {
	engine := newTestEngine()
	snap := leagueOf(57, nil, nil)

	forecasts, err := engine.Forecast(snap)
	assert.NoError(t, err)

	cfg := SimulationConfig{Trials: 5000, Seed: 42}
	first, err := SimulateSeason(snap, forecasts, cfg)
	assert.NoError(t, err)
	second, err := SimulateSeason(snap, forecasts, cfg)
	assert.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSimulateSeasonTracksForecast(t *testing.T) {
	engine := newTestEngine()
	snap := leagueOf(57, nil, nil)

	forecasts, err := engine.Forecast(snap)
	assert.NoError(t, err)

	result, err := SimulateSeason(snap, forecasts, SimulationConfig{Trials: 20000, Seed: 7})
	assert.NoError(t, err)

	var expectedField float64
	for _, f := range forecasts {
		expectedField += f.EliteBid / 100
	}
	assert.InDelta(t, expectedField, result.MeanEliteField, 0.2)

	assert.Len(t, result.TitleFrequency, eliteContenderPool)
	assert.Less(t, result.MaxTitleDrift, 1.5,
		"sampled title shares should sit close to the analytic forecast")
}

func TestSimulateSeasonDefaultsTrials(t *testing.T) {
	engine := newTestEngine()
	snap := leagueOf(16, nil, nil)

	forecasts, err := engine.Forecast(snap)
	assert.NoError(t, err)

	result, err := SimulateSeason(snap, forecasts, SimulationConfig{Seed: 3})
	assert.NoError(t, err)
	assert.Equal(t, 10000, result.Trials)
}
