package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/openrink/puckcast/internal/database"
	"github.com/openrink/puckcast/internal/models"
)

// PostgresForecastRepository implements ForecastRepository for PostgreSQL
type PostgresForecastRepository struct {
	db *database.DB
}

// NewPostgresForecastRepository creates a new forecast repository
func NewPostgresForecastRepository(db *database.DB) ForecastRepository {
	return &PostgresForecastRepository{db: db}
}

// SaveBatch stores a full pass of tournament forecasts for one snapshot
func (r *PostgresForecastRepository) SaveBatch(ctx context.Context, forecasts []models.TournamentForecast) error {
	query := `
		INSERT INTO tournament_forecasts (
			team_id, snapshot_id, season, classification, power_rank, ovr,
			elite_bid, elite_bid_odds, elite_champ, elite_champ_odds,
			large_division_bid, large_division_bid_odds,
			large_division_champ, large_division_champ_odds,
			small_division_bid, small_division_bid_odds,
			small_division_champ, small_division_champ_odds,
			computed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		        $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin forecast transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, f := range forecasts {
		_, err := tx.Exec(ctx, query,
			f.TeamID, f.SnapshotID, f.Season, f.Classification, f.PowerRank, f.OVR,
			f.EliteBid, f.EliteBidOdds, f.EliteChamp, f.EliteChampOdds,
			f.LargeDivisionBid, f.LargeDivisionBidOdds,
			f.LargeDivisionChamp, f.LargeDivisionChampOdds,
			f.SmallDivisionBid, f.SmallDivisionBidOdds,
			f.SmallDivisionChamp, f.SmallDivisionChampOdds,
			f.ComputedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to save forecast: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit forecast transaction: %w", err)
	}

	return nil
}

// ListBySnapshot retrieves every forecast computed from one snapshot
func (r *PostgresForecastRepository) ListBySnapshot(ctx context.Context, snapshotID uuid.UUID) ([]models.TournamentForecast, error) {
	query := forecastSelect + " WHERE snapshot_id = $1 ORDER BY power_rank ASC"

	rows, err := r.db.GetPool().Query(ctx, query, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to query forecasts: %w", err)
	}
	defer rows.Close()

	var forecasts []models.TournamentForecast
	for rows.Next() {
		var f models.TournamentForecast
		if err := scanForecastRow(rows, &f); err != nil {
			return nil, fmt.Errorf("failed to scan forecast: %w", err)
		}
		forecasts = append(forecasts, f)
	}

	return forecasts, rows.Err()
}

// GetByTeam retrieves one team's forecast from one snapshot
func (r *PostgresForecastRepository) GetByTeam(ctx context.Context, teamID, snapshotID uuid.UUID) (*models.TournamentForecast, error) {
	query := forecastSelect + " WHERE team_id = $1 AND snapshot_id = $2"

	f := &models.TournamentForecast{}
	err := scanForecastRow(r.db.GetPool().QueryRow(ctx, query, teamID, snapshotID), f)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get forecast: %w", err)
	}

	return f, nil
}

const forecastSelect = `
	SELECT team_id, snapshot_id, season, classification, power_rank, ovr,
	       elite_bid, elite_bid_odds, elite_champ, elite_champ_odds,
	       large_division_bid, large_division_bid_odds,
	       large_division_champ, large_division_champ_odds,
	       small_division_bid, small_division_bid_odds,
	       small_division_champ, small_division_champ_odds,
	       computed_at
	FROM tournament_forecasts`

func scanForecastRow(row pgx.Row, f *models.TournamentForecast) error {
	return row.Scan(
		&f.TeamID, &f.SnapshotID, &f.Season, &f.Classification, &f.PowerRank, &f.OVR,
		&f.EliteBid, &f.EliteBidOdds, &f.EliteChamp, &f.EliteChampOdds,
		&f.LargeDivisionBid, &f.LargeDivisionBidOdds,
		&f.LargeDivisionChamp, &f.LargeDivisionChampOdds,
		&f.SmallDivisionBid, &f.SmallDivisionBidOdds,
		&f.SmallDivisionChamp, &f.SmallDivisionChampOdds,
		&f.ComputedAt,
	)
}
