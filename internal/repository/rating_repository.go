package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/openrink/puckcast/internal/database"
	"github.com/openrink/puckcast/internal/models"
)

// PostgresRatingRepository implements RatingRepository for PostgreSQL
type PostgresRatingRepository struct {
	db *database.DB
}

// NewPostgresRatingRepository creates a new rating repository
func NewPostgresRatingRepository(db *database.DB) RatingRepository {
	return &PostgresRatingRepository{db: db}
}

// SaveBatch upserts a full pass of computed ratings. Ratings are rebuilt
// wholesale each pass, so the upsert replaces any previous values for the
// same player and season.
func (r *PostgresRatingRepository) SaveBatch(ctx context.Context, ratings []models.RatingSet) error {
	query := `
		INSERT INTO player_ratings (player_id, season, performance, level, visibility,
		                            physical, achievements, trending, overall, variant, computed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (player_id, season) DO UPDATE SET
			performance = EXCLUDED.performance,
			level = EXCLUDED.level,
			visibility = EXCLUDED.visibility,
			physical = EXCLUDED.physical,
			achievements = EXCLUDED.achievements,
			trending = EXCLUDED.trending,
			overall = EXCLUDED.overall,
			variant = EXCLUDED.variant,
			computed_at = EXCLUDED.computed_at
	`

	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin rating transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, rs := range ratings {
		_, err := tx.Exec(ctx, query,
			rs.PlayerID, rs.Season, rs.Performance, rs.Level, rs.Visibility,
			rs.Physical, rs.Achievements, rs.Trending, rs.Overall, rs.Variant, rs.ComputedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to save rating: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit rating transaction: %w", err)
	}

	return nil
}

// GetByPlayer retrieves one player's rating for a season
func (r *PostgresRatingRepository) GetByPlayer(ctx context.Context, playerID uuid.UUID, season string) (*models.RatingSet, error) {
	query := ratingSelect + " WHERE player_id = $1 AND season = $2"

	rs := &models.RatingSet{}
	err := scanRatingRow(r.db.GetPool().QueryRow(ctx, query, playerID, season), rs)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}

	return rs, nil
}

// ListBySeason retrieves every rating computed for a season
func (r *PostgresRatingRepository) ListBySeason(ctx context.Context, season string) ([]models.RatingSet, error) {
	query := ratingSelect + " WHERE season = $1 ORDER BY overall DESC"

	rows, err := r.db.GetPool().Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()

	var ratings []models.RatingSet
	for rows.Next() {
		var rs models.RatingSet
		if err := scanRatingRow(rows, &rs); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, rs)
	}

	return ratings, rows.Err()
}

const ratingSelect = `
	SELECT player_id, season, performance, level, visibility, physical,
	       achievements, trending, overall, variant, computed_at
	FROM player_ratings`

func scanRatingRow(row pgx.Row, rs *models.RatingSet) error {
	return row.Scan(
		&rs.PlayerID, &rs.Season, &rs.Performance, &rs.Level, &rs.Visibility,
		&rs.Physical, &rs.Achievements, &rs.Trending, &rs.Overall, &rs.Variant, &rs.ComputedAt,
	)
}
