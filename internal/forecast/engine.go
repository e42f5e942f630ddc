// Package forecast turns one validated league snapshot into the six
// tournament probabilities per team: Elite bid and title, plus division bid
// and title for the team's own classification. The three tournaments are
// mutually exclusive, so every division figure is conditioned on missing
// Elite.
package forecast

import (
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/openrink/puckcast/internal/models"
)

const (
	// softmaxTemperature scales OVR inside the win model's exponent
	softmaxTemperature = 10.0

	// eliteFieldSize is how many teams qualify for the Elite tournament
	eliteFieldSize = 8

	// eliteContenderPool is the fixed softmax pool for the Elite title
	eliteContenderPool = 12

	// divisionContenderPool truncates each division's title softmax pool
	divisionContenderPool = 12

	eliteChampCeiling    = 35.0
	divisionChampCeiling = 25.0

	// probabilityFloor keeps long shots off exact zero
	probabilityFloor = 0.1

	// eliteChampFloor is the fixed title probability outside the pool
	eliteChampFloor = 0.1

	// missProbShortcut switches near-lock Elite teams to the simple
	// missProb*99% division bid instead of the conditional table
	missProbShortcut = 5.0

	// divisionBidNoise is the bid level below which the title probability
	// collapses to the floor
	divisionBidNoise = 1.0
)

// Engine computes tournament forecasts. Stateless across calls; every pass
// recomputes wholesale from the snapshot it is handed.
type Engine struct {
	logger *logrus.Logger
}

// NewEngine creates a forecast engine
func NewEngine(logger *logrus.Logger) *Engine {
	return &Engine{logger: logger}
}

// pools holds the softmax normalization constants for one snapshot,
// computed once and shared read-only across all teams in the pass.
type pools struct {
	eliteDenom float64
	byClass    map[models.Classification]*classPool
}

type classPool struct {
	// ordered non-Elite teams of the classification, best rank first
	teams []models.Team
	// softmax denominator over the first divisionContenderPool entries
	denom float64
}

// Forecast computes the six probabilities and their American lines for
// every team in the snapshot. The snapshot is validated first; a non-dense
// or duplicated rank sequence rejects the whole pass.
func (e *Engine) Forecast(snapshot *models.LeagueSnapshot) ([]models.TournamentForecast, error) {
	if err := snapshot.Validate(); err != nil {
		return nil, fmt.Errorf("failed to forecast snapshot: %w", err)
	}

	p := buildPools(snapshot)

	forecasts := make([]models.TournamentForecast, len(snapshot.Teams))
	for i, team := range snapshot.Teams {
		forecasts[i] = e.forecastTeam(snapshot, team, p)
	}

	e.logger.WithFields(logrus.Fields{
		"season": snapshot.Season,
		"teams":  len(snapshot.Teams),
	}).Debug("Computed tournament forecasts")

	return forecasts, nil
}

// buildPools derives the shared normalization constants: the Elite title
// softmax denominator over ranks 1..12 and, per classification, the
// ordered non-Elite team list with its own truncated denominator.
func buildPools(snapshot *models.LeagueSnapshot) *pools {
	byRank := make([]models.Team, len(snapshot.Teams))
	copy(byRank, snapshot.Teams)
	sort.Slice(byRank, func(i, j int) bool { return byRank[i].PowerRank < byRank[j].PowerRank })

	p := &pools{byClass: make(map[models.Classification]*classPool)}

	for i, team := range byRank {
		if i < eliteContenderPool {
			p.eliteDenom += winWeight(team.OVR)
		}

		if team.PowerRank > eliteFieldSize {
			pool, ok := p.byClass[team.Classification]
			if !ok {
				pool = &classPool{}
				p.byClass[team.Classification] = pool
			}
			if len(pool.teams) < divisionContenderPool {
				pool.denom += winWeight(team.OVR)
			}
			pool.teams = append(pool.teams, team)
		}
	}

	return p
}

func (e *Engine) forecastTeam(snapshot *models.LeagueSnapshot, team models.Team, p *pools) models.TournamentForecast {
	f := models.TournamentForecast{
		TeamID:         team.ID,
		SnapshotID:     snapshot.ID,
		Season:         snapshot.Season,
		Classification: team.Classification,
		PowerRank:      team.PowerRank,
		OVR:            team.OVR,
	}

	f.EliteBid = eliteBid(team.PowerRank)
	f.EliteChamp = e.eliteChamp(team, p)

	bid := e.divisionBid(team, f.EliteBid, p)
	champ := e.divisionChamp(team, bid, p)

	if team.Classification == models.ClassificationLarge {
		f.LargeDivisionBid = bid
		f.LargeDivisionChamp = champ
	} else {
		f.SmallDivisionBid = bid
		f.SmallDivisionChamp = champ
	}

	f.EliteBidOdds = OddsString(f.EliteBid)
	f.EliteChampOdds = OddsString(f.EliteChamp)
	f.LargeDivisionBidOdds = OddsString(f.LargeDivisionBid)
	f.LargeDivisionChampOdds = OddsString(f.LargeDivisionChamp)
	f.SmallDivisionBidOdds = OddsString(f.SmallDivisionBid)
	f.SmallDivisionChampOdds = OddsString(f.SmallDivisionChamp)

	return f
}

// eliteChamp applies the win-model softmax over the fixed 12-team pool.
// Outside the pool the title chance is a flat floor; inside it the share is
// capped so no single favorite prints as a lock.
func (e *Engine) eliteChamp(team models.Team, p *pools) float64 {
	if team.PowerRank > eliteContenderPool {
		return eliteChampFloor
	}
	share := 100 * winWeight(team.OVR) / p.eliteDenom
	return math.Min(share, eliteChampCeiling)
}

// divisionBid chains P(miss Elite) with the conditional qualification step
// table over the team's position among non-Elite classmates.
func (e *Engine) divisionBid(team models.Team, eliteBidPct float64, p *pools) float64 {
	missProb := 100 - eliteBidPct

	var bid float64
	if missProb < missProbShortcut {
		bid = missProb * 0.99
	} else {
		position := divisionPosition(team, p)
		bid = missProb * divisionMakeProb(position) / 100
	}

	return math.Max(bid, probabilityFloor)
}

// divisionPosition is the team's 1-based rank among same-classification
// teams excluding Elite qualifiers. Teams inside the Elite field take the
// slot they would hold in that list, counting only non-Elite classmates
// ranked above them.
func divisionPosition(team models.Team, p *pools) int {
	pool, ok := p.byClass[team.Classification]
	if !ok {
		return 1
	}
	position := 1
	for _, t := range pool.teams {
		if t.PowerRank < team.PowerRank {
			position++
		}
	}
	return position
}

// divisionChamp conditions the division title on making the division, with
// a softmax over the classification's truncated contender pool.
func (e *Engine) divisionChamp(team models.Team, divisionBid float64, p *pools) float64 {
	if divisionBid < divisionBidNoise {
		return probabilityFloor
	}

	pool, ok := p.byClass[team.Classification]
	if !ok || pool.denom == 0 {
		return probabilityFloor
	}

	winProb := winWeight(team.OVR) / pool.denom
	if winProb > 1 {
		winProb = 1
	}

	return math.Min(divisionBid*winProb, divisionChampCeiling)
}

func winWeight(ovr int) float64 {
	return math.Exp(float64(ovr) / softmaxTemperature)
}
