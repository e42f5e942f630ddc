package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/openrink/puckcast/internal/config"
	"github.com/openrink/puckcast/internal/factors"
	"github.com/openrink/puckcast/internal/forecast"
	"github.com/openrink/puckcast/internal/logger"
	"github.com/openrink/puckcast/internal/metrics"
	"github.com/openrink/puckcast/internal/models"
	"github.com/openrink/puckcast/internal/power"
	"github.com/openrink/puckcast/internal/rating"
	"github.com/openrink/puckcast/internal/repository"
	"github.com/openrink/puckcast/internal/tracing"
)

// eliteContenderPool is the number of power ranks carrying elite-title mass
const eliteContenderPool = 12

// RecomputeResult summarizes one completed recompute pass
type RecomputeResult struct {
	SnapshotID   uuid.UUID
	Checksum     string
	Season       string
	PlayersRated int
	TeamsRanked  int
	Forecasts    int
	Pruned       int
	Duration     time.Duration
}

// ComputeService runs the full rating and forecast pipeline: aggregate raw
// factor rows, rate every player, roll ratings up to team OVRs, publish a
// validated snapshot, and forecast tournament probabilities from it. The
// pass is all-or-nothing: an invalid snapshot aborts before anything is
// persisted.
type ComputeService struct {
	repos          *repository.Repositories
	aggregator     *factors.Aggregator
	ratingEngine   *rating.Engine
	powerEngine    *power.Engine
	forecastEngine *forecast.Engine
	boardCache     *BoardCache
	cfg            *config.ComputeConfig
	log            *logrus.Logger
	computeLog     *logger.ComputeLogger
}

// NewComputeService creates a new compute service
func NewComputeService(
	repos *repository.Repositories,
	cfg *config.ComputeConfig,
	boardCache *BoardCache,
	log *logrus.Logger,
) (*ComputeService, error) {
	ratingEngine, err := rating.NewEngine(rating.Variant(cfg.RatingVariant), log)
	if err != nil {
		return nil, fmt.Errorf("failed to create rating engine: %w", err)
	}

	return &ComputeService{
		repos:          repos,
		aggregator:     factors.NewAggregator(log),
		ratingEngine:   ratingEngine,
		powerEngine:    power.NewEngine(),
		forecastEngine: forecast.NewEngine(log),
		boardCache:     boardCache,
		cfg:            cfg,
		log:            log,
		computeLog:     logger.NewComputeLogger(log),
	}, nil
}

// Variant returns the rating variant the service computes with
func (s *ComputeService) Variant() string {
	return string(s.ratingEngine.Variant())
}

// RunRecompute executes one full pass for the configured season
func (s *ComputeService) RunRecompute(ctx context.Context) (*RecomputeResult, error) {
	start := time.Now()
	season := s.cfg.Season

	ctx, seg := tracing.StartSubsegment(ctx, "recompute")

	result, err := s.runRecompute(ctx, season, start)
	if seg != nil {
		seg.Close(err)
	}
	if err != nil {
		metrics.RecordRecomputeFailure()
		return nil, err
	}
	return result, nil
}

func (s *ComputeService) runRecompute(ctx context.Context, season string, start time.Time) (*RecomputeResult, error) {
	players, err := s.repos.Player.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load players: %w", err)
	}
	teams, err := s.repos.Team.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load teams: %w", err)
	}

	s.computeLog.LogRecomputeStart(season, s.Variant(), len(players), len(teams), start)

	ratings, err := s.ratePlayers(ctx, season, players)
	if err != nil {
		return nil, err
	}

	if err := s.rollUpTeams(ctx, players, teams); err != nil {
		return nil, err
	}

	snapshot := &models.LeagueSnapshot{
		ID:      uuid.New(),
		Season:  season,
		TakenAt: start,
	}
	snapshot.Teams = make([]models.Team, len(teams))
	for i, t := range teams {
		snapshot.Teams[i] = *t
	}

	if err := snapshot.Validate(); err != nil {
		metrics.RecordSnapshotRejected()
		s.computeLog.LogRecomputeAbort(season, err.Error(), map[string]interface{}{
			"players_rated": len(ratings),
			"teams_loaded":  len(teams),
		})
		return nil, fmt.Errorf("snapshot validation failed: %w", err)
	}

	forecasts, err := s.forecastEngine.Forecast(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to compute forecasts: %w", err)
	}
	computedAt := time.Now()
	for i := range forecasts {
		forecasts[i].ComputedAt = computedAt
	}

	pruned, err := s.persist(ctx, snapshot, ratings, forecasts)
	if err != nil {
		return nil, err
	}

	s.recordForecastMetrics(forecasts)
	duration := time.Since(start)
	metrics.RecordRecomputePass(duration.Seconds(), len(ratings))

	s.boardCache.Clear()

	s.computeLog.LogSnapshotPublished(snapshot.ID.String(), season, snapshot.Checksum(), len(snapshot.Teams))
	s.computeLog.LogRecomputeComplete(season, snapshot.ID.String(),
		len(ratings), len(snapshot.Teams), len(forecasts), float64(duration.Milliseconds()))

	return &RecomputeResult{
		SnapshotID:   snapshot.ID,
		Checksum:     snapshot.Checksum(),
		Season:       season,
		PlayersRated: len(ratings),
		TeamsRanked:  len(snapshot.Teams),
		Forecasts:    len(forecasts),
		Pruned:       pruned,
		Duration:     duration,
	}, nil
}

// ratePlayers aggregates factor rows into canonical records, rates every
// player, and stamps the season onto the resulting sets
func (s *ComputeService) ratePlayers(ctx context.Context, season string, players []*models.Player) ([]models.RatingSet, error) {
	contribs, err := s.repos.Factor.ListContributions(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to load factor contributions: %w", err)
	}
	current, err := s.repos.Factor.ListSeasonRates(ctx, season, repository.RatePeriodCurrent)
	if err != nil {
		return nil, fmt.Errorf("failed to load current season rates: %w", err)
	}
	prior, err := s.repos.Factor.ListSeasonRates(ctx, season, repository.RatePeriodPrior)
	if err != nil {
		return nil, fmt.Errorf("failed to load prior season rates: %w", err)
	}

	records := s.aggregator.Aggregate(contribs, current, prior)
	for _, p := range players {
		p.Factors = records[p.ID]
	}

	ratings := s.ratingEngine.RateAll(players)
	computedAt := time.Now()
	for i := range ratings {
		ratings[i].Season = season
		ratings[i].ComputedAt = computedAt
		players[i].Ratings = &ratings[i]
		metrics.RecordRatingComputed(string(players[i].Position), ratings[i].Variant, ratings[i].Overall)
	}

	return ratings, nil
}

// rollUpTeams derives roster scores and OVR for every team from its rated
// players and writes the updated rows back. Teams with an empty roster keep
// their previous scores.
func (s *ComputeService) rollUpTeams(ctx context.Context, players []*models.Player, teams []*models.Team) error {
	byTeam := make(map[uuid.UUID][]*models.Player)
	for _, p := range players {
		byTeam[p.TeamID] = append(byTeam[p.TeamID], p)
	}

	for _, t := range teams {
		roster := byTeam[t.ID]
		if len(roster) == 0 {
			s.log.WithField("team", t.Name).Warn("Team has no rated players, keeping previous roster scores")
			continue
		}

		avg, max, err := power.RosterScores(roster)
		if err != nil {
			return fmt.Errorf("failed to score roster for team %s: %w", t.Name, err)
		}

		t.AvgRosterScore = avg
		t.MaxRosterScore = max
		t.OVR = s.powerEngine.TeamOVR(avg)

		if err := s.repos.Team.Update(ctx, t); err != nil {
			return fmt.Errorf("failed to update team %s: %w", t.Name, err)
		}
	}

	return nil
}

func (s *ComputeService) persist(ctx context.Context, snapshot *models.LeagueSnapshot, ratings []models.RatingSet, forecasts []models.TournamentForecast) (int, error) {
	if err := s.repos.Snapshot.Create(ctx, snapshot); err != nil {
		return 0, fmt.Errorf("failed to persist snapshot: %w", err)
	}
	if err := s.repos.Rating.SaveBatch(ctx, ratings); err != nil {
		return 0, fmt.Errorf("failed to persist ratings: %w", err)
	}
	if err := s.repos.Forecast.SaveBatch(ctx, forecasts); err != nil {
		return 0, fmt.Errorf("failed to persist forecasts: %w", err)
	}

	pruned, err := s.repos.Snapshot.Prune(ctx, snapshot.Season, s.cfg.SnapshotRetention)
	if err != nil {
		// Retention is housekeeping; the pass itself already succeeded.
		s.log.WithError(err).Warn("Failed to prune old snapshots")
		return 0, nil
	}
	return pruned, nil
}

func (s *ComputeService) recordForecastMetrics(forecasts []models.TournamentForecast) {
	eliteMass := 0.0
	for _, f := range forecasts {
		metrics.RecordForecastComputed(string(f.Classification))
		if f.PowerRank <= eliteContenderPool {
			eliteMass += f.EliteChamp
		}
	}
	metrics.UpdateEliteChampMass(eliteMass)
}

// ForecastSnapshot computes forecasts for an externally supplied snapshot
// without touching the database. Used by the offline recompute mode. OVRs
// are derived in place when the snapshot carries roster scores but no OVR.
func (s *ComputeService) ForecastSnapshot(snapshot *models.LeagueSnapshot) ([]models.TournamentForecast, error) {
	if err := snapshot.Validate(); err != nil {
		metrics.RecordSnapshotRejected()
		return nil, err
	}

	needOVR := false
	for _, t := range snapshot.Teams {
		if t.OVR == 0 && t.AvgRosterScore > 0 {
			needOVR = true
			break
		}
	}
	if needOVR {
		s.powerEngine.DeriveOVR(snapshot)
	}

	forecasts, err := s.forecastEngine.Forecast(snapshot)
	if err != nil {
		return nil, err
	}
	computedAt := time.Now()
	for i := range forecasts {
		forecasts[i].ComputedAt = computedAt
	}
	return forecasts, nil
}

// CaptureTrendingBaseline archives the current weekly-delta factor rows so
// next week's trending values measure against this week's state
func (s *ComputeService) CaptureTrendingBaseline(ctx context.Context) (int, error) {
	archived, err := s.repos.Factor.CaptureWeeklyBaseline(ctx, s.cfg.Season)
	if err != nil {
		return 0, fmt.Errorf("failed to capture trending baseline: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"season":   s.cfg.Season,
		"archived": archived,
	}).Info("Captured weekly trending baseline")

	return archived, nil
}
