package forecast

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/openrink/puckcast/internal/models"
)

// SimulationConfig configures the calibration simulation
type SimulationConfig struct {
	Trials int
	Seed   int64
}

// SimulationResult summarizes sampled outcomes against the forecast. The
// simulation is a diagnostic: per-team Bernoulli draws for qualification
// and a categorical draw for the Elite title, never part of the forecast
// path itself.
type SimulationResult struct {
	Trials int `json:"trials"`

	// MeanEliteField is the average sampled Elite field size per trial.
	// The bid table is marginal, not joint, so this hovers near but not
	// exactly on the real field size of 8.
	MeanEliteField float64 `json:"mean_elite_field"`

	// TitleFrequency is each contender's sampled Elite title share in
	// percent, keyed by team id.
	TitleFrequency map[uuid.UUID]float64 `json:"title_frequency"`

	// MaxTitleDrift is the worst absolute gap between a contender's
	// sampled share and its forecast eliteChamp, in percentage points.
	MaxTitleDrift float64 `json:"max_title_drift"`
}

// SimulateSeason samples qualification and title outcomes from a computed
// forecast. Deterministic for a fixed non-zero seed.
func SimulateSeason(snapshot *models.LeagueSnapshot, forecasts []models.TournamentForecast, cfg SimulationConfig) (SimulationResult, error) {
	if len(forecasts) != len(snapshot.Teams) {
		return SimulationResult{}, fmt.Errorf("forecast count %d does not match snapshot teams %d",
			len(forecasts), len(snapshot.Teams))
	}
	if cfg.Trials <= 0 {
		cfg.Trials = 10000
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	// Elite title contenders in rank order with their softmax weights.
	type contender struct {
		teamID uuid.UUID
		weight float64
	}
	var contenders []contender
	var totalWeight float64
	for _, f := range forecasts {
		if f.PowerRank <= eliteContenderPool {
			w := winWeight(f.OVR)
			contenders = append(contenders, contender{teamID: f.TeamID, weight: w})
			totalWeight += w
		}
	}

	titleWins := make(map[uuid.UUID]int, len(contenders))
	fieldTotal := 0

	for trial := 0; trial < cfg.Trials; trial++ {
		for _, f := range forecasts {
			if rng.Float64()*100 < f.EliteBid {
				fieldTotal++
			}
		}

		if totalWeight > 0 {
			draw := rng.Float64() * totalWeight
			for _, c := range contenders {
				draw -= c.weight
				if draw <= 0 {
					titleWins[c.teamID]++
					break
				}
			}
		}
	}

	result := SimulationResult{
		Trials:         cfg.Trials,
		MeanEliteField: float64(fieldTotal) / float64(cfg.Trials),
		TitleFrequency: make(map[uuid.UUID]float64, len(contenders)),
	}

	for _, f := range forecasts {
		if f.PowerRank > eliteContenderPool {
			continue
		}
		freq := 100 * float64(titleWins[f.TeamID]) / float64(cfg.Trials)
		result.TitleFrequency[f.TeamID] = freq
		if drift := math.Abs(freq - f.EliteChamp); drift > result.MaxTitleDrift {
			result.MaxTitleDrift = drift
		}
	}

	return result, nil
}
