package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/openrink/puckcast/internal/database"
	"github.com/openrink/puckcast/internal/models"
)

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db *database.DB) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// Insert stores a single game prediction
func (r *PostgresPredictionRepository) Insert(ctx context.Context, prediction *models.GamePrediction) error {
	query := `
		INSERT INTO game_predictions (id, season, home_team_id, away_team_id,
		                              predicted_winner_id, confidence, home_win_prob, predicted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		prediction.ID, prediction.Season, prediction.HomeTeamID, prediction.AwayTeamID,
		prediction.PredictedWinnerID, prediction.Confidence, prediction.HomeWinProb, prediction.PredictedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert prediction: %w", err)
	}

	return nil
}

// InsertBatch stores multiple game predictions in one transaction
func (r *PostgresPredictionRepository) InsertBatch(ctx context.Context, predictions []*models.GamePrediction) error {
	if len(predictions) == 0 {
		return nil
	}

	query := `
		INSERT INTO game_predictions (id, season, home_team_id, away_team_id,
		                              predicted_winner_id, confidence, home_win_prob, predicted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin prediction transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, p := range predictions {
		_, err := tx.Exec(ctx, query,
			p.ID, p.Season, p.HomeTeamID, p.AwayTeamID,
			p.PredictedWinnerID, p.Confidence, p.HomeWinProb, p.PredictedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert prediction batch row: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit prediction transaction: %w", err)
	}

	return nil
}

// ListBySeason retrieves predictions for a season made at or after `since`
func (r *PostgresPredictionRepository) ListBySeason(ctx context.Context, season string, since time.Time) ([]*models.GamePrediction, error) {
	query := `
		SELECT id, season, home_team_id, away_team_id, predicted_winner_id,
		       confidence, home_win_prob, predicted_at
		FROM game_predictions
		WHERE season = $1 AND predicted_at >= $2
		ORDER BY predicted_at DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, season, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	var predictions []*models.GamePrediction
	for rows.Next() {
		p := &models.GamePrediction{}
		err := rows.Scan(&p.ID, &p.Season, &p.HomeTeamID, &p.AwayTeamID,
			&p.PredictedWinnerID, &p.Confidence, &p.HomeWinProb, &p.PredictedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		predictions = append(predictions, p)
	}

	return predictions, rows.Err()
}
