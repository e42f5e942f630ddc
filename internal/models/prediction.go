package models

import (
	"time"

	"github.com/google/uuid"
)

// GamePrediction pairs two teams with a predicted winner and a confidence
// derived from the OVR gap. Peripheral to the rating core; owned by the
// scheduling service layer.
type GamePrediction struct {
	ID                uuid.UUID `db:"id" json:"id" validate:"required,uuid4"`
	Season            string    `db:"season" json:"season" validate:"required"`
	HomeTeamID        uuid.UUID `db:"home_team_id" json:"home_team_id" validate:"required,uuid4"`
	AwayTeamID        uuid.UUID `db:"away_team_id" json:"away_team_id" validate:"required,uuid4"`
	PredictedWinnerID uuid.UUID `db:"predicted_winner_id" json:"predicted_winner_id" validate:"required,uuid4"`
	Confidence        float64   `db:"confidence" json:"confidence" validate:"gte=0,lte=1"`
	HomeWinProb       float64   `db:"home_win_prob" json:"home_win_prob" validate:"gte=0,lte=1"`
	PredictedAt       time.Time `db:"predicted_at" json:"predicted_at" validate:"required"`
}

// MeetsThreshold checks if the confidence meets the given threshold
func (g *GamePrediction) MeetsThreshold(threshold float64) bool {
	return g.Confidence >= threshold
}

// IsTossUp reports whether the matchup sits inside the coin-flip band
func (g *GamePrediction) IsTossUp() bool {
	return g.HomeWinProb > 0.45 && g.HomeWinProb < 0.55
}
