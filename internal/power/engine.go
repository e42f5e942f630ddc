// Package power derives team OVR from roster strength. The power rank
// itself arrives from the curated composite feed and is only ever passed
// through: consume, never derive.
package power

import (
	"math"

	"github.com/google/uuid"

	"github.com/openrink/puckcast/internal/models"
)

// OVR curve: floor 70 at a roster average of 750 points, ceiling 99 at
// 2950, linear between.
const (
	ovrBase    = 70.0
	ovrSpread  = 29.0
	scoreFloor = 750.0
	scoreRange = 2200.0
)

// TeamPower is the view of one team the probability engine consumes
type TeamPower struct {
	TeamID         uuid.UUID
	Rank           int
	OVR            int
	Classification models.Classification
}

// Engine derives team OVR values
type Engine struct{}

// NewEngine creates a power engine
func NewEngine() *Engine {
	return &Engine{}
}

// TeamOVR maps an average roster score onto the [70,99] band
func (e *Engine) TeamOVR(avgRosterScore float64) int {
	t := (avgRosterScore - scoreFloor) / scoreRange
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return int(math.Round(ovrBase + ovrSpread*t))
}

// DeriveOVR fills every team's OVR from its roster average, in place.
// Ranks and classifications are left untouched.
func (e *Engine) DeriveOVR(snapshot *models.LeagueSnapshot) {
	for i := range snapshot.Teams {
		snapshot.Teams[i].OVR = e.TeamOVR(snapshot.Teams[i].AvgRosterScore)
	}
}

// View exposes {rank, OVR, classification} per team for the probability
// engine, in snapshot order.
func (e *Engine) View(snapshot *models.LeagueSnapshot) []TeamPower {
	out := make([]TeamPower, len(snapshot.Teams))
	for i, t := range snapshot.Teams {
		out[i] = TeamPower{
			TeamID:         t.ID,
			Rank:           t.PowerRank,
			OVR:            t.OVR,
			Classification: t.Classification,
		}
	}
	return out
}

// RosterScores aggregates rated players into the average and maximum total
// points for one roster. Empty rosters are an error so a bad join upstream
// cannot silently zero a team's strength.
func RosterScores(players []*models.Player) (avg, max float64, err error) {
	if len(players) == 0 {
		return 0, 0, models.ErrNoRatedPlayers
	}

	var sum float64
	for _, p := range players {
		total := p.Factors.TotalPoints
		sum += total
		if total > max {
			max = total
		}
	}
	return sum / float64(len(players)), max, nil
}
