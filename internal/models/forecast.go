package models

import (
	"time"

	"github.com/google/uuid"
)

// TournamentForecast holds the six tournament probabilities for one team,
// each expressed as a percentage in [0,100] and paired with its American
// odds line. Exactly one division pair is live per the team's
// classification; the other pair is zero.
type TournamentForecast struct {
	TeamID         uuid.UUID      `db:"team_id" json:"team_id"`
	SnapshotID     uuid.UUID      `db:"snapshot_id" json:"snapshot_id"`
	Season         string         `db:"season" json:"season"`
	Classification Classification `db:"classification" json:"classification"`
	PowerRank      int            `db:"power_rank" json:"power_rank"`
	OVR            int            `db:"ovr" json:"ovr"`

	EliteBid               float64 `db:"elite_bid" json:"elite_bid"`
	EliteBidOdds           string  `db:"elite_bid_odds" json:"elite_bid_odds"`
	EliteChamp             float64 `db:"elite_champ" json:"elite_champ"`
	EliteChampOdds         string  `db:"elite_champ_odds" json:"elite_champ_odds"`
	LargeDivisionBid       float64 `db:"large_division_bid" json:"large_division_bid"`
	LargeDivisionBidOdds   string  `db:"large_division_bid_odds" json:"large_division_bid_odds"`
	LargeDivisionChamp     float64 `db:"large_division_champ" json:"large_division_champ"`
	LargeDivisionChampOdds string  `db:"large_division_champ_odds" json:"large_division_champ_odds"`
	SmallDivisionBid       float64 `db:"small_division_bid" json:"small_division_bid"`
	SmallDivisionBidOdds   string  `db:"small_division_bid_odds" json:"small_division_bid_odds"`
	SmallDivisionChamp     float64 `db:"small_division_champ" json:"small_division_champ"`
	SmallDivisionChampOdds string  `db:"small_division_champ_odds" json:"small_division_champ_odds"`

	ComputedAt time.Time `db:"computed_at" json:"computed_at"`
}

// DivisionBid returns the live division-bid probability for the team's own
// classification
func (f *TournamentForecast) DivisionBid() float64 {
	if f.Classification == ClassificationLarge {
		return f.LargeDivisionBid
	}
	return f.SmallDivisionBid
}

// DivisionChamp returns the live division-title probability for the team's
// own classification
func (f *TournamentForecast) DivisionChamp() float64 {
	if f.Classification == ClassificationLarge {
		return f.LargeDivisionChamp
	}
	return f.SmallDivisionChamp
}
