package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/openrink/puckcast/internal/factors"
	"github.com/openrink/puckcast/internal/models"
)

// PlayerRepository defines the interface for player data access
type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Player, error)
	GetByTeamID(ctx context.Context, teamID uuid.UUID) ([]*models.Player, error)
	ListAll(ctx context.Context) ([]*models.Player, error)
	Update(ctx context.Context, player *models.Player) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// FactorRepository defines the interface for raw factor-source data access
type FactorRepository interface {
	InsertContributions(ctx context.Context, season string, contribs []factors.Contribution) error
	ListContributions(ctx context.Context, season string) ([]factors.Contribution, error)
	ListSeasonRates(ctx context.Context, season string, period string) ([]factors.SeasonRates, error)
	CaptureWeeklyBaseline(ctx context.Context, season string) (int, error)
}

// TeamRepository defines the interface for team data access
type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error)
	GetByName(ctx context.Context, name string) (*models.Team, error)
	ListAll(ctx context.Context) ([]*models.Team, error)
	Update(ctx context.Context, team *models.Team) error
	UpdatePowerRank(ctx context.Context, id uuid.UUID, rank int) error
	UpdateRosterScores(ctx context.Context, id uuid.UUID, avg, max float64) error
}

// SnapshotRepository defines the interface for league snapshot data access
type SnapshotRepository interface {
	Create(ctx context.Context, snapshot *models.LeagueSnapshot) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.LeagueSnapshot, error)
	GetLatest(ctx context.Context, season string) (*models.LeagueSnapshot, error)
	Prune(ctx context.Context, season string, keep int) (int, error)
}

// RatingRepository defines the interface for computed player rating access
type RatingRepository interface {
	SaveBatch(ctx context.Context, ratings []models.RatingSet) error
	GetByPlayer(ctx context.Context, playerID uuid.UUID, season string) (*models.RatingSet, error)
	ListBySeason(ctx context.Context, season string) ([]models.RatingSet, error)
}

// ForecastRepository defines the interface for computed tournament forecast access
type ForecastRepository interface {
	SaveBatch(ctx context.Context, forecasts []models.TournamentForecast) error
	ListBySnapshot(ctx context.Context, snapshotID uuid.UUID) ([]models.TournamentForecast, error)
	GetByTeam(ctx context.Context, teamID, snapshotID uuid.UUID) (*models.TournamentForecast, error)
}

// PredictionRepository defines the interface for game prediction data access
type PredictionRepository interface {
	Insert(ctx context.Context, prediction *models.GamePrediction) error
	InsertBatch(ctx context.Context, predictions []*models.GamePrediction) error
	ListBySeason(ctx context.Context, season string, since time.Time) ([]*models.GamePrediction, error)
}
