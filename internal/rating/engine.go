// Package rating turns canonical factor records into the six sub-ratings
// and the overall card rating.
package rating

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/openrink/puckcast/internal/models"
)

// Variant selects the formula family for the Visibility, Achievements and
// Trending sub-ratings. Direct thresholds are canonical; the percentile
// curve is the earlier scheme, kept selectable because historical card
// output depends on it.
type Variant string

const (
	VariantDirect     Variant = "direct"
	VariantPercentile Variant = "percentile"
)

// Season-blend weights for performance rates. When a player has no
// current-season games the current component is omitted and the prior rate
// takes the current weight alone, so a missing season is discounted once,
// not twice.
const (
	weightCurrent = 0.7
	weightPrior   = 0.3
)

// Skater performance thresholds: the combined per-game rate at which the
// rating saturates at 99. Defenders produce less, so their scale divides by
// the lower threshold.
const (
	forwardEliteRate  = 1.0
	defenderEliteRate = 0.8
	performanceScale  = 98
)

// Goalie score pieces
const (
	goalieGAALimit    = 5.0
	goalieSVPFloor    = 88.0
	goalieScoreBase   = 0.1
	goalieScoreSpread = 98.0
)

// Direct-threshold saturation points
const (
	visibilityMinViews = 100
	visibilityMaxViews = 15000
	achievementsMax    = 1500
	trendingSkaterMax  = 250
	trendingGoalieMax  = 50
)

// Overall blend weights. Trending is deliberately weightless: it feeds the
// trending badge, not the composite grade.
const (
	overallWeightPerformance  = 0.03
	overallWeightLevel        = 0.70
	overallWeightVisibility   = 0.19
	overallWeightPhysical     = 0.05
	overallWeightAchievements = 0.03
	overallWeightTrending     = 0.00
)

// Engine computes rating sets. It is stateless across calls; the variant
// and logger are fixed at construction.
type Engine struct {
	variant Variant
	logger  *logrus.Logger
}

// NewEngine creates a rating engine for the given formula variant
func NewEngine(variant Variant, logger *logrus.Logger) (*Engine, error) {
	switch variant {
	case VariantDirect, VariantPercentile:
	default:
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownVariant, variant)
	}
	return &Engine{variant: variant, logger: logger}, nil
}

// Variant returns the formula variant the engine was built with
func (e *Engine) Variant() Variant {
	return e.variant
}

// Rate computes one player's rating set with the canonical direct-threshold
// formulas. Percentile-variant engines must use RateAll, which sees the
// whole population. Rate is deterministic: the caller stamps timestamps.
func (e *Engine) Rate(rec models.FactorRecord, pos models.Position, league string) models.RatingSet {
	set := models.RatingSet{
		Performance:  e.performance(rec, pos),
		Level:        levelRating(league, rec.LeaguePoints),
		Visibility:   visibilityFromViews(rec.ProfileViews),
		Physical:     physicalRating(rec),
		Achievements: achievementsFromPoints(rec.AchievementSum()),
		Trending:     trendingDirect(rec, pos),
		Variant:      string(VariantDirect),
	}
	set.Overall = overallRating(set)
	return set
}

// RateAll computes rating sets for a whole population in input order,
// honoring the engine's variant. The percentile variant replaces the
// Visibility, Achievements and Trending formulas with percentile-curve
// lookups against this population; everything else is identical.
func (e *Engine) RateAll(players []*models.Player) []models.RatingSet {
	sets := make([]models.RatingSet, len(players))

	var pop *population
	if e.variant == VariantPercentile {
		pop = buildPopulation(players)
	}

	for i, p := range players {
		set := e.Rate(p.Factors, p.Position, p.League)
		if pop != nil {
			set.Visibility = pop.visibilityRating(p.Factors.ProfileViews)
			set.Achievements = pop.achievementsRating(p.Factors.AchievementSum())
			set.Trending = pop.trendingRating(trendingInput(p.Factors, p.Position))
			set.Variant = string(VariantPercentile)
			set.Overall = overallRating(set)
		}
		set.PlayerID = p.ID
		sets[i] = set
	}

	return sets
}

// performance maps blended per-game rates to [0,99] by position
func (e *Engine) performance(rec models.FactorRecord, pos models.Position) int {
	switch pos {
	case models.PositionForward:
		return skaterPerformance(rec, forwardEliteRate)
	case models.PositionDefender:
		return skaterPerformance(rec, defenderEliteRate)
	case models.PositionGoalie:
		return goaliePerformance(rec)
	default:
		e.logger.WithField("position", pos).Warn("Unknown position, performance rated 0")
		return 0
	}
}

func skaterPerformance(rec models.FactorRecord, eliteRate float64) int {
	priorRate := rec.PriorGoalsPerGame + rec.PriorAssistsPerGame

	var combined float64
	if rec.HasCurrentSeason() {
		currentRate := rec.CurrentGoalsPerGame + rec.CurrentAssistsPerGame
		combined = weightCurrent*currentRate + weightPrior*priorRate
	} else {
		combined = weightCurrent * priorRate
	}

	if combined >= eliteRate {
		return 99
	}
	return clampInt(round(performanceScale*combined/eliteRate), 0, 99)
}

func goaliePerformance(rec models.FactorRecord) int {
	var wGAA, wSVP float64
	if rec.HasCurrentSeason() {
		wGAA = weightCurrent*rec.CurrentGAA + weightPrior*rec.PriorGAA
		wSVP = weightCurrent*rec.CurrentSavePct + weightPrior*rec.PriorSavePct
	} else {
		// GAA and save percentage carry absolute cutoffs, so a missing
		// current season falls back to the prior rates unscaled.
		wGAA = rec.PriorGAA
		wSVP = rec.PriorSavePct
	}

	var gaaScore float64
	if wGAA <= goalieGAALimit {
		gaaScore = goalieScoreBase + goalieScoreSpread*(1-wGAA/goalieGAALimit)
	}

	var svpScore float64
	if wSVP >= goalieSVPFloor {
		svpScore = goalieScoreBase + goalieScoreSpread*((wSVP-50)/49.9)
	}

	return clampInt(round((gaaScore+svpScore)/2), 0, 99)
}

// visibilityFromViews maps a raw view count onto [0,99]
func visibilityFromViews(views float64) int {
	if views < visibilityMinViews {
		return 0
	}
	if views >= visibilityMaxViews {
		return 99
	}
	return round(99 * (views - visibilityMinViews) / (visibilityMaxViews - visibilityMinViews))
}

// physicalRating maps the capped height/weight/bmi points onto [0,99].
// The divisor is the sum of the three caps (200+150+250).
func physicalRating(rec models.FactorRecord) int {
	return clampInt(round(99*rec.PhysicalSum()/600), 0, 99)
}

func achievementsFromPoints(sum float64) int {
	if sum >= achievementsMax {
		return 99
	}
	return clampInt(round(99*sum/achievementsMax), 0, 99)
}

func trendingDirect(rec models.FactorRecord, pos models.Position) int {
	input := trendingInput(rec, pos)
	limit := trendingLimit(pos)
	if input >= limit {
		return 99
	}
	return clampInt(round(99*input/limit), 0, 99)
}

// trendingInput selects the weekly-delta sum for skaters and the views
// delta alone for goalies
func trendingInput(rec models.FactorRecord, pos models.Position) float64 {
	if pos == models.PositionGoalie {
		return rec.WeeklyViewsDeltaPoints
	}
	return rec.TrendingSum()
}

func trendingLimit(pos models.Position) float64 {
	if pos == models.PositionGoalie {
		return trendingGoalieMax
	}
	return trendingSkaterMax
}

// overallRating blends the six sub-ratings into the [1,99] card grade
func overallRating(set models.RatingSet) int {
	blend := float64(set.Performance)*overallWeightPerformance +
		float64(set.Level)*overallWeightLevel +
		float64(set.Visibility)*overallWeightVisibility +
		float64(set.Physical)*overallWeightPhysical +
		float64(set.Achievements)*overallWeightAchievements +
		float64(set.Trending)*overallWeightTrending
	return clampInt(round(blend), 1, 99)
}

func round(v float64) int {
	return int(math.Round(v))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
