// Package factors merges raw per-player factor contributions from
// independent sources into one canonical capped record per player.
package factors

// Factor identifies one of the 28 per-player factor sources
type Factor string

const (
	// Physical
	FactorHeight Factor = "height"
	FactorWeight Factor = "weight"
	FactorBMI    Factor = "bmi"

	// Level
	FactorLeague Factor = "league"

	// Visibility
	FactorProfileViews Factor = "profile_views"

	// Achievements
	FactorInternational Factor = "international"
	FactorCommitment    Factor = "commitment"
	FactorDraft         Factor = "draft"
	FactorTournament    Factor = "tournament"
	FactorManual        Factor = "manual"

	// Trending weekly deltas
	FactorWeeklyGoalDelta   Factor = "weekly_goal_delta"
	FactorWeeklyAssistDelta Factor = "weekly_assist_delta"
	FactorWeeklyViewsDelta  Factor = "weekly_views_delta"

	// Skater production
	FactorGoals           Factor = "goals"
	FactorAssists         Factor = "assists"
	FactorPointStreak     Factor = "point_streak"
	FactorGameWinningGoal Factor = "game_winning_goal"
	FactorPowerPlay       Factor = "power_play"
	FactorShorthanded     Factor = "shorthanded"
	FactorPlusMinus       Factor = "plus_minus"
	FactorGamesPlayed     Factor = "games_played"

	// Goaltending
	FactorWins     Factor = "wins"
	FactorShutouts Factor = "shutouts"
	FactorSaves    Factor = "saves"

	// Exposure
	FactorCamp    Factor = "camp"
	FactorCombine Factor = "combine"
	FactorAward   Factor = "award"
	FactorCaptain Factor = "captain"
)

// factorCaps holds the documented hard maximum for each factor, applied at
// read time before any rating math sees the value.
var factorCaps = map[Factor]float64{
	FactorHeight:            200,
	FactorWeight:            150,
	FactorBMI:               250,
	FactorLeague:            5000,
	FactorProfileViews:      50000,
	FactorInternational:     1000,
	FactorCommitment:        600,
	FactorDraft:             800,
	FactorTournament:        600,
	FactorManual:            500,
	FactorWeeklyGoalDelta:   150,
	FactorWeeklyAssistDelta: 150,
	FactorWeeklyViewsDelta:  250,
	FactorGoals:             400,
	FactorAssists:           400,
	FactorPointStreak:       200,
	FactorGameWinningGoal:   150,
	FactorPowerPlay:         200,
	FactorShorthanded:       150,
	FactorPlusMinus:         200,
	FactorGamesPlayed:       100,
	FactorWins:              300,
	FactorShutouts:          250,
	FactorSaves:             300,
	FactorCamp:              250,
	FactorCombine:           200,
	FactorAward:             300,
	FactorCaptain:           100,
}

// Cap returns the documented maximum for a factor, or 0 for unknown factors
func Cap(f Factor) float64 {
	return factorCaps[f]
}

// Known reports whether the factor is one of the 28 documented sources
func Known(f Factor) bool {
	_, ok := factorCaps[f]
	return ok
}

// All returns the 28 documented factors in a stable order
func All() []Factor {
	return []Factor{
		FactorHeight, FactorWeight, FactorBMI,
		FactorLeague,
		FactorProfileViews,
		FactorInternational, FactorCommitment, FactorDraft, FactorTournament, FactorManual,
		FactorWeeklyGoalDelta, FactorWeeklyAssistDelta, FactorWeeklyViewsDelta,
		FactorGoals, FactorAssists, FactorPointStreak, FactorGameWinningGoal,
		FactorPowerPlay, FactorShorthanded, FactorPlusMinus, FactorGamesPlayed,
		FactorWins, FactorShutouts, FactorSaves,
		FactorCamp, FactorCombine, FactorAward, FactorCaptain,
	}
}
