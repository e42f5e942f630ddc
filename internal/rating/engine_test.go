package rating

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/openrink/puckcast/internal/models"
)

func newTestEngine(t *testing.T, variant Variant) *Engine {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	engine, err := NewEngine(variant, logger)
	assert.NoError(t, err)
	return engine
}

func TestNewEngineRejectsUnknownVariant(t *testing.T) {
	logger := logrus.New()
	_, err := NewEngine(Variant("bayesian"), logger)
	assert.ErrorIs(t, err, models.ErrUnknownVariant)
}

func TestForwardPerformanceBlend(t *testing.T) {
	engine := newTestEngine(t, VariantDirect)

	rec := models.FactorRecord{
		CurrentGoalsPerGame:   0.5,
		CurrentAssistsPerGame: 0.6,
		PriorGoalsPerGame:     0.4,
		PriorAssistsPerGame:   0.3,
		CurrentGamesPlayed:    20,
		PriorGamesPlayed:      24,
	}

	// combined = 0.7*1.1 + 0.3*0.7 = 0.98, so round(98*0.98) = 96
	set := engine.Rate(rec, models.PositionForward, "")
	assert.Equal(t, 96, set.Performance)
}

func TestSkaterPerformanceThresholds(t *testing.T) {
	tests := []struct {
		name     string
		position models.Position
		rec      models.FactorRecord
		expected int
	}{
		{
			name:     "forward at elite rate saturates",
			position: models.PositionForward,
			rec: models.FactorRecord{
				CurrentGoalsPerGame:   0.9,
				CurrentAssistsPerGame: 0.8,
				CurrentGamesPlayed:    15,
			},
			expected: 99,
		},
		{
			name:     "defender saturates at the lower threshold",
			position: models.PositionDefender,
			rec: models.FactorRecord{
				CurrentGoalsPerGame:   0.5,
				CurrentAssistsPerGame: 0.7,
				CurrentGamesPlayed:    15,
			},
			expected: 99,
		},
		{
			name:     "defender below threshold scales by 0.8",
			position: models.PositionDefender,
			rec: models.FactorRecord{
				CurrentGoalsPerGame:   0.2,
				CurrentAssistsPerGame: 0.2,
				CurrentGamesPlayed:    15,
			},
			// combined = 0.7*0.4 = 0.28, round(98*0.28/0.8) = round(34.3) = 34
			expected: 34,
		},
		{
			name:     "no current season uses current weight on prior alone",
			position: models.PositionForward,
			rec: models.FactorRecord{
				PriorGoalsPerGame:   0.6,
				PriorAssistsPerGame: 0.4,
				PriorGamesPlayed:    20,
			},
			// combined = 0.7*1.0 = 0.7, round(98*0.7) = 69, not 0.3*1.0
			expected: 69,
		},
		{
			name:     "no games at all rates zero",
			position: models.PositionForward,
			rec:      models.FactorRecord{},
			expected: 0,
		},
	}

	engine := newTestEngine(t, VariantDirect)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := engine.Rate(tt.rec, tt.position, "")
			assert.Equal(t, tt.expected, set.Performance)
		})
	}
}

func TestGoaliePerformance(t *testing.T) {
	tests := []struct {
		name     string
		rec      models.FactorRecord
		expected int
	}{
		{
			name: "solid starter",
			rec: models.FactorRecord{
				CurrentGAA:         2.0,
				PriorGAA:           2.5,
				CurrentSavePct:     91,
				PriorSavePct:       90,
				CurrentGamesPlayed: 18,
				PriorGamesPlayed:   20,
			},
			// wGAA = 2.15 -> 55.96; wSVP = 90.7 -> 80.032; avg -> 68
			expected: 68,
		},
		{
			name: "leaky and low save percentage scores zero",
			rec: models.FactorRecord{
				CurrentGAA:         6.2,
				CurrentSavePct:     84,
				CurrentGamesPlayed: 12,
			},
			expected: 0,
		},
		{
			name: "shutout machine stays inside 99",
			rec: models.FactorRecord{
				CurrentGAA:         0,
				CurrentSavePct:     100,
				CurrentGamesPlayed: 10,
			},
			// gaa 98.1, svp 98.296, avg 98.198 -> 98
			expected: 98,
		},
		{
			name: "no current season falls back to prior rates unscaled",
			rec: models.FactorRecord{
				PriorGAA:         2.5,
				PriorSavePct:     90,
				PriorGamesPlayed: 22,
			},
			// gaa = 0.1 + 98*(1-0.5) = 49.1; svp = 0.1 + 98*(40/49.9) = 78.66; avg -> 64
			expected: 64,
		},
	}

	engine := newTestEngine(t, VariantDirect)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := engine.Rate(tt.rec, models.PositionGoalie, "")
			assert.Equal(t, tt.expected, set.Performance)
		})
	}
}

func TestVisibilityThresholds(t *testing.T) {
	tests := []struct {
		views    float64
		expected int
	}{
		{views: 15500, expected: 99},
		{views: 15000, expected: 99},
		{views: 50, expected: 0},
		{views: 99, expected: 0},
		{views: 7550, expected: 50}, // round(99*7450/14900)
		{views: 100, expected: 0},   // round(99*0/14900)
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, visibilityFromViews(tt.views), "views=%v", tt.views)
	}
}

func TestPhysicalRating(t *testing.T) {
	full := models.FactorRecord{HeightPoints: 200, WeightPoints: 150, BMIPoints: 250}
	assert.Equal(t, 99, physicalRating(full))

	half := models.FactorRecord{HeightPoints: 100, WeightPoints: 75, BMIPoints: 125}
	assert.Equal(t, 50, physicalRating(half)) // round(99*300/600)

	assert.Equal(t, 0, physicalRating(models.FactorRecord{}))
}

func TestAchievementsRating(t *testing.T) {
	assert.Equal(t, 99, achievementsFromPoints(1500))
	assert.Equal(t, 99, achievementsFromPoints(2400))
	assert.Equal(t, 50, achievementsFromPoints(750)) // round(99*750/1500)
	assert.Equal(t, 0, achievementsFromPoints(0))
}

func TestTrendingByPosition(t *testing.T) {
	rec := models.FactorRecord{
		WeeklyGoalDeltaPoints:   60,
		WeeklyAssistDeltaPoints: 40,
		WeeklyViewsDeltaPoints:  25,
	}

	// Skater: sum 125 of 250 -> round(99*0.5) = 50
	assert.Equal(t, 50, trendingDirect(rec, models.PositionForward))
	assert.Equal(t, 50, trendingDirect(rec, models.PositionDefender))

	// Goalie: views delta only, 25 of 50 -> 50
	assert.Equal(t, 50, trendingDirect(rec, models.PositionGoalie))

	saturated := models.FactorRecord{
		WeeklyGoalDeltaPoints:   150,
		WeeklyAssistDeltaPoints: 150,
		WeeklyViewsDeltaPoints:  50,
	}
	assert.Equal(t, 99, trendingDirect(saturated, models.PositionForward))
	assert.Equal(t, 99, trendingDirect(saturated, models.PositionGoalie))
}

func TestOverallBlendAndBounds(t *testing.T) {
	engine := newTestEngine(t, VariantDirect)

	// All-zero factors must stay in documented ranges, overall floors at 1.
	empty := engine.Rate(models.FactorRecord{}, models.PositionForward, "")
	for _, v := range empty.SubRatings() {
		assert.GreaterOrEqual(t, v, 0)
		assert.LessOrEqual(t, v, 99)
	}
	assert.Equal(t, 1, empty.Overall)
	assert.True(t, empty.InRange())

	// A maxed card blends to exactly 99 because the weights sum to 1.
	maxed := engine.Rate(models.FactorRecord{
		CurrentGoalsPerGame:   1.2,
		CurrentAssistsPerGame: 0.9,
		CurrentGamesPlayed:    20,
		LeaguePoints:          5000,
		ProfileViews:          20000,
		HeightPoints:          200,
		WeightPoints:          150,
		BMIPoints:             250,
		InternationalPoints:   1000,
		ManualPoints:          500,
		WeeklyGoalDeltaPoints: 150,
		WeeklyAssistDeltaPoints: 150,
	}, models.PositionForward, "")
	assert.Equal(t, 99, maxed.Overall)
	assert.True(t, maxed.InRange())
}

func TestTrendingHasNoOverallWeight(t *testing.T) {
	engine := newTestEngine(t, VariantDirect)

	quiet := models.FactorRecord{LeaguePoints: 2000, ProfileViews: 8000}
	loud := quiet
	loud.WeeklyGoalDeltaPoints = 150
	loud.WeeklyAssistDeltaPoints = 150

	a := engine.Rate(quiet, models.PositionForward, "")
	b := engine.Rate(loud, models.PositionForward, "")

	assert.Greater(t, b.Trending, a.Trending)
	assert.Equal(t, a.Overall, b.Overall, "trending feeds the badge, not the grade")
}

func TestRateIsDeterministic(t *testing.T) {
	engine := newTestEngine(t, VariantDirect)

	rec := models.FactorRecord{
		CurrentGoalsPerGame:   0.31,
		CurrentAssistsPerGame: 0.47,
		CurrentGamesPlayed:    17,
		PriorGoalsPerGame:     0.28,
		PriorAssistsPerGame:   0.4,
		PriorGamesPlayed:      21,
		LeaguePoints:          2750,
		ProfileViews:          4100,
		HeightPoints:          160,
		WeightPoints:          120,
		BMIPoints:             200,
		CommitmentPoints:      300,
	}

	first := engine.Rate(rec, models.PositionDefender, "ushl")
	second := engine.Rate(rec, models.PositionDefender, "ushl")
	assert.Equal(t, first, second)
}

func TestRateAllDirectMatchesRate(t *testing.T) {
	engine := newTestEngine(t, VariantDirect)

	players := []*models.Player{
		{
			ID:       uuid.New(),
			Position: models.PositionForward,
			League:   "NHL",
			Factors:  models.FactorRecord{CurrentGoalsPerGame: 0.4, CurrentGamesPlayed: 9},
		},
		{
			ID:       uuid.New(),
			Position: models.PositionGoalie,
			Factors:  models.FactorRecord{CurrentGAA: 2.2, CurrentSavePct: 92, CurrentGamesPlayed: 11},
		},
	}

	sets := engine.RateAll(players)
	assert.Len(t, sets, 2)
	for i, p := range players {
		expected := engine.Rate(p.Factors, p.Position, p.League)
		expected.PlayerID = p.ID
		assert.Equal(t, expected, sets[i])
	}
}
