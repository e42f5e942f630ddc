package factors

import (
	"math"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/openrink/puckcast/internal/models"
)

// Contribution is one raw row from one factor source: a point value for a
// player under a single factor. Sources are independent and may overlap.
type Contribution struct {
	PlayerID uuid.UUID
	Factor   Factor
	Value    float64
}

// SeasonRates carries one player's raw per-game rates for a single season.
// SavePct is on a 0-100 scale.
type SeasonRates struct {
	PlayerID       uuid.UUID
	GoalsPerGame   float64
	AssistsPerGame float64
	GAA            float64
	SavePct        float64
	GamesPlayed    int
}

// Aggregator merges contributions into canonical factor records. It holds
// no state between calls; the logger is only used for source diagnostics.
type Aggregator struct {
	logger *logrus.Logger
}

// NewAggregator creates a factor aggregator
func NewAggregator(logger *logrus.Logger) *Aggregator {
	return &Aggregator{logger: logger}
}

// Aggregate merges raw contributions and season rates into one canonical
// record per player. Duplicate rows for the same (player, factor) keep the
// maximum value; absent factors default to 0; negative and non-finite
// values are treated as 0; caps are applied at read time. The output covers
// the union of players seen in contributions and rate lines.
func (a *Aggregator) Aggregate(contribs []Contribution, current, prior []SeasonRates) map[uuid.UUID]models.FactorRecord {
	merged := make(map[uuid.UUID]map[Factor]float64)

	for _, c := range contribs {
		if !Known(c.Factor) {
			a.logger.WithFields(logrus.Fields{
				"player_id": c.PlayerID,
				"factor":    c.Factor,
			}).Debug("Skipping contribution for unknown factor")
			continue
		}

		v := sanitize(c.Value)
		if v > Cap(c.Factor) {
			v = Cap(c.Factor)
		}

		points, ok := merged[c.PlayerID]
		if !ok {
			points = make(map[Factor]float64)
			merged[c.PlayerID] = points
		}
		if v > points[c.Factor] {
			points[c.Factor] = v
		}
	}

	curByPlayer := ratesByPlayer(current)
	priorByPlayer := ratesByPlayer(prior)

	records := make(map[uuid.UUID]models.FactorRecord, len(merged))
	for id, points := range merged {
		records[id] = buildRecord(points, curByPlayer[id], priorByPlayer[id])
	}

	// Players with rate lines but no factor rows still get a record; their
	// factor points are all zero by contract.
	for id := range curByPlayer {
		if _, ok := records[id]; !ok {
			records[id] = buildRecord(nil, curByPlayer[id], priorByPlayer[id])
		}
	}
	for id := range priorByPlayer {
		if _, ok := records[id]; !ok {
			records[id] = buildRecord(nil, nil, priorByPlayer[id])
		}
	}

	return records
}

// sanitize maps negative and non-finite source values to the defensive
// default of 0
func sanitize(v float64) float64 {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func ratesByPlayer(rates []SeasonRates) map[uuid.UUID]*SeasonRates {
	out := make(map[uuid.UUID]*SeasonRates, len(rates))
	for i := range rates {
		out[rates[i].PlayerID] = &rates[i]
	}
	return out
}

func buildRecord(points map[Factor]float64, cur, prior *SeasonRates) models.FactorRecord {
	get := func(f Factor) float64 { return points[f] }

	rec := models.FactorRecord{
		HeightPoints:            get(FactorHeight),
		WeightPoints:            get(FactorWeight),
		BMIPoints:               get(FactorBMI),
		LeaguePoints:            get(FactorLeague),
		ProfileViews:            get(FactorProfileViews),
		InternationalPoints:     get(FactorInternational),
		CommitmentPoints:        get(FactorCommitment),
		DraftPoints:             get(FactorDraft),
		TournamentPoints:        get(FactorTournament),
		ManualPoints:            get(FactorManual),
		WeeklyGoalDeltaPoints:   get(FactorWeeklyGoalDelta),
		WeeklyAssistDeltaPoints: get(FactorWeeklyAssistDelta),
		WeeklyViewsDeltaPoints:  get(FactorWeeklyViewsDelta),
		GoalPoints:              get(FactorGoals),
		AssistPoints:            get(FactorAssists),
		PointStreakPoints:       get(FactorPointStreak),
		GameWinningGoalPoints:   get(FactorGameWinningGoal),
		PowerPlayPoints:         get(FactorPowerPlay),
		ShorthandedPoints:       get(FactorShorthanded),
		PlusMinusPoints:         get(FactorPlusMinus),
		GamesPlayedPoints:       get(FactorGamesPlayed),
		WinPoints:               get(FactorWins),
		ShutoutPoints:           get(FactorShutouts),
		SavePoints:              get(FactorSaves),
		CampPoints:              get(FactorCamp),
		CombinePoints:           get(FactorCombine),
		AwardPoints:             get(FactorAward),
		CaptainPoints:           get(FactorCaptain),
	}

	for _, f := range All() {
		rec.TotalPoints += points[f]
	}

	if cur != nil {
		rec.CurrentGoalsPerGame = sanitize(cur.GoalsPerGame)
		rec.CurrentAssistsPerGame = sanitize(cur.AssistsPerGame)
		rec.CurrentGAA = sanitize(cur.GAA)
		rec.CurrentSavePct = sanitize(cur.SavePct)
		if cur.GamesPlayed > 0 {
			rec.CurrentGamesPlayed = cur.GamesPlayed
		}
	}
	if prior != nil {
		rec.PriorGoalsPerGame = sanitize(prior.GoalsPerGame)
		rec.PriorAssistsPerGame = sanitize(prior.AssistsPerGame)
		rec.PriorGAA = sanitize(prior.GAA)
		rec.PriorSavePct = sanitize(prior.SavePct)
		if prior.GamesPlayed > 0 {
			rec.PriorGamesPlayed = prior.GamesPlayed
		}
	}

	return rec
}
