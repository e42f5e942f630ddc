package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/openrink/puckcast/internal/config"
	"github.com/openrink/puckcast/internal/metrics"
	"github.com/openrink/puckcast/internal/models"
	"github.com/openrink/puckcast/internal/repository"
)

// Logistic curve constants for head-to-head win probability. The scale sets
// how fast the curve saturates per point of OVR gap; the home edge is an
// OVR bonus credited to the home side before the gap is taken.
const (
	ovrGapScale = 8.0
	homeEdgeOVR = 1.5
)

// Matchup names one scheduled game to predict
type Matchup struct {
	HomeTeamID uuid.UUID
	AwayTeamID uuid.UUID
}

// GamePredictionService predicts head-to-head game winners from the OVR gap
// between the two rosters. Predictions are peripheral to the tournament
// forecasts and never feed back into ratings or power ranks.
type GamePredictionService struct {
	teamRepo       repository.TeamRepository
	predictionRepo repository.PredictionRepository
	cfg            *config.PredictionsConfig
	season         string
	log            *logrus.Logger
}

// NewGamePredictionService creates a new game prediction service
func NewGamePredictionService(
	teamRepo repository.TeamRepository,
	predictionRepo repository.PredictionRepository,
	cfg *config.PredictionsConfig,
	season string,
	log *logrus.Logger,
) *GamePredictionService {
	return &GamePredictionService{
		teamRepo:       teamRepo,
		predictionRepo: predictionRepo,
		cfg:            cfg,
		season:         season,
		log:            log,
	}
}

// PredictMatchup predicts and persists the winner of one game
func (s *GamePredictionService) PredictMatchup(ctx context.Context, homeID, awayID uuid.UUID) (*models.GamePrediction, error) {
	if homeID == awayID {
		return nil, fmt.Errorf("home and away team must differ")
	}

	home, err := s.teamRepo.GetByID(ctx, homeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load home team: %w", err)
	}
	away, err := s.teamRepo.GetByID(ctx, awayID)
	if err != nil {
		return nil, fmt.Errorf("failed to load away team: %w", err)
	}

	prediction := s.predict(home, away)
	if err := s.predictionRepo.Insert(ctx, prediction); err != nil {
		return nil, fmt.Errorf("failed to persist prediction: %w", err)
	}
	metrics.RecordPredictionGenerated()

	s.log.WithFields(logrus.Fields{
		"home":          home.Name,
		"away":          away.Name,
		"home_win_prob": prediction.HomeWinProb,
		"confidence":    prediction.Confidence,
	}).Debug("Predicted matchup")

	return prediction, nil
}

// PredictSlate predicts a full slate of games and persists them in one
// batch. A bad matchup fails the whole slate before anything is written.
func (s *GamePredictionService) PredictSlate(ctx context.Context, matchups []Matchup) ([]*models.GamePrediction, error) {
	predictions := make([]*models.GamePrediction, 0, len(matchups))
	for _, m := range matchups {
		if m.HomeTeamID == m.AwayTeamID {
			return nil, fmt.Errorf("home and away team must differ")
		}
		home, err := s.teamRepo.GetByID(ctx, m.HomeTeamID)
		if err != nil {
			return nil, fmt.Errorf("failed to load home team: %w", err)
		}
		away, err := s.teamRepo.GetByID(ctx, m.AwayTeamID)
		if err != nil {
			return nil, fmt.Errorf("failed to load away team: %w", err)
		}
		predictions = append(predictions, s.predict(home, away))
	}

	if err := s.predictionRepo.InsertBatch(ctx, predictions); err != nil {
		return nil, fmt.Errorf("failed to persist predictions: %w", err)
	}
	for range predictions {
		metrics.RecordPredictionGenerated()
	}

	return predictions, nil
}

// ListConfident returns recent predictions at or above the configured
// confidence threshold
func (s *GamePredictionService) ListConfident(ctx context.Context, since time.Time) ([]*models.GamePrediction, error) {
	all, err := s.predictionRepo.ListBySeason(ctx, s.season, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load predictions: %w", err)
	}

	confident := make([]*models.GamePrediction, 0, len(all))
	for _, p := range all {
		if p.MeetsThreshold(s.cfg.ConfidenceThreshold) {
			confident = append(confident, p)
		}
	}
	return confident, nil
}

func (s *GamePredictionService) predict(home, away *models.Team) *models.GamePrediction {
	homeWinProb := HomeWinProbability(home.OVR, away.OVR)

	winner := home.ID
	if homeWinProb < 0.5 {
		winner = away.ID
	}

	return &models.GamePrediction{
		ID:                uuid.New(),
		Season:            s.season,
		HomeTeamID:        home.ID,
		AwayTeamID:        away.ID,
		PredictedWinnerID: winner,
		Confidence:        math.Abs(homeWinProb-0.5) * 2,
		HomeWinProb:       homeWinProb,
		PredictedAt:       time.Now(),
	}
}

// HomeWinProbability maps the OVR gap between two teams onto a win
// probability through a logistic curve, with a fixed home-ice edge
func HomeWinProbability(homeOVR, awayOVR int) float64 {
	gap := float64(homeOVR) - float64(awayOVR) + homeEdgeOVR
	return 1.0 / (1.0 + math.Exp(-gap/ovrGapScale))
}
