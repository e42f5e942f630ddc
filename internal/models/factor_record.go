package models

// FactorRecord is the canonical per-player factor record: the 28 capped
// factor-point fields plus the raw per-game rates consumed by the
// performance rating. Values are already merged and clamped by the
// aggregator; downstream code never re-reads raw sources.
type FactorRecord struct {
	// Physical
	HeightPoints float64 `db:"height_points" json:"height_points"`
	WeightPoints float64 `db:"weight_points" json:"weight_points"`
	BMIPoints    float64 `db:"bmi_points" json:"bmi_points"`

	// Level
	LeaguePoints float64 `db:"league_points" json:"league_points"`

	// Visibility
	ProfileViews float64 `db:"profile_views" json:"profile_views"`

	// Achievements
	InternationalPoints float64 `db:"international_points" json:"international_points"`
	CommitmentPoints    float64 `db:"commitment_points" json:"commitment_points"`
	DraftPoints         float64 `db:"draft_points" json:"draft_points"`
	TournamentPoints    float64 `db:"tournament_points" json:"tournament_points"`
	ManualPoints        float64 `db:"manual_points" json:"manual_points"`

	// Trending (weekly deltas)
	WeeklyGoalDeltaPoints   float64 `db:"weekly_goal_delta_points" json:"weekly_goal_delta_points"`
	WeeklyAssistDeltaPoints float64 `db:"weekly_assist_delta_points" json:"weekly_assist_delta_points"`
	WeeklyViewsDeltaPoints  float64 `db:"weekly_views_delta_points" json:"weekly_views_delta_points"`

	// Skater production
	GoalPoints            float64 `db:"goal_points" json:"goal_points"`
	AssistPoints          float64 `db:"assist_points" json:"assist_points"`
	PointStreakPoints     float64 `db:"point_streak_points" json:"point_streak_points"`
	GameWinningGoalPoints float64 `db:"game_winning_goal_points" json:"game_winning_goal_points"`
	PowerPlayPoints       float64 `db:"power_play_points" json:"power_play_points"`
	ShorthandedPoints     float64 `db:"shorthanded_points" json:"shorthanded_points"`
	PlusMinusPoints       float64 `db:"plus_minus_points" json:"plus_minus_points"`
	GamesPlayedPoints     float64 `db:"games_played_points" json:"games_played_points"`

	// Goaltending
	WinPoints     float64 `db:"win_points" json:"win_points"`
	ShutoutPoints float64 `db:"shutout_points" json:"shutout_points"`
	SavePoints    float64 `db:"save_points" json:"save_points"`

	// Exposure
	CampPoints    float64 `db:"camp_points" json:"camp_points"`
	CombinePoints float64 `db:"combine_points" json:"combine_points"`
	AwardPoints   float64 `db:"award_points" json:"award_points"`
	CaptainPoints float64 `db:"captain_points" json:"captain_points"`

	// TotalPoints is the unweighted sum of all capped factor contributions.
	// Diagnostic on the player card; the service layer averages it into a
	// team's roster score. Never an input to the six sub-ratings.
	TotalPoints float64 `db:"total_points" json:"total_points"`

	// Raw per-game rates, performance rating inputs only
	CurrentGoalsPerGame   float64 `db:"current_goals_per_game" json:"current_goals_per_game"`
	CurrentAssistsPerGame float64 `db:"current_assists_per_game" json:"current_assists_per_game"`
	PriorGoalsPerGame     float64 `db:"prior_goals_per_game" json:"prior_goals_per_game"`
	PriorAssistsPerGame   float64 `db:"prior_assists_per_game" json:"prior_assists_per_game"`
	CurrentGAA            float64 `db:"current_gaa" json:"current_gaa"`
	PriorGAA              float64 `db:"prior_gaa" json:"prior_gaa"`
	CurrentSavePct        float64 `db:"current_save_pct" json:"current_save_pct"`
	PriorSavePct          float64 `db:"prior_save_pct" json:"prior_save_pct"`
	CurrentGamesPlayed    int     `db:"current_games_played" json:"current_games_played"`
	PriorGamesPlayed      int     `db:"prior_games_played" json:"prior_games_played"`
}

// HasCurrentSeason reports whether any current-season games are on record
func (f *FactorRecord) HasCurrentSeason() bool {
	return f.CurrentGamesPlayed > 0
}

// AchievementSum returns the combined achievement factor points
func (f *FactorRecord) AchievementSum() float64 {
	return f.InternationalPoints + f.CommitmentPoints + f.DraftPoints +
		f.TournamentPoints + f.ManualPoints
}

// PhysicalSum returns the combined physical factor points
func (f *FactorRecord) PhysicalSum() float64 {
	return f.HeightPoints + f.WeightPoints + f.BMIPoints
}

// TrendingSum returns the combined weekly-delta points for skaters
func (f *FactorRecord) TrendingSum() float64 {
	return f.WeeklyGoalDeltaPoints + f.WeeklyAssistDeltaPoints + f.WeeklyViewsDeltaPoints
}
