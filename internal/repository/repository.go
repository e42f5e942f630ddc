package repository

import (
	"fmt"

	"github.com/openrink/puckcast/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Player     PlayerRepository
	Factor     FactorRepository
	Team       TeamRepository
	Snapshot   SnapshotRepository
	Rating     RatingRepository
	Forecast   ForecastRepository
	Prediction PredictionRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Player:     NewPostgresPlayerRepository(db),
		Factor:     NewPostgresFactorRepository(db),
		Team:       NewPostgresTeamRepository(db),
		Snapshot:   NewPostgresSnapshotRepository(db),
		Rating:     NewPostgresRatingRepository(db),
		Forecast:   NewPostgresForecastRepository(db),
		Prediction: NewPostgresPredictionRepository(db),
	}, nil
}
