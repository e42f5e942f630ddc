package repository

import (
	"context"
	"fmt"

	"github.com/openrink/puckcast/internal/database"
	"github.com/openrink/puckcast/internal/factors"
)

// Rate periods stored in the player_rates table
const (
	RatePeriodCurrent = "current"
	RatePeriodPrior   = "prior"
)

// PostgresFactorRepository implements FactorRepository for PostgreSQL
type PostgresFactorRepository struct {
	db *database.DB
}

// NewPostgresFactorRepository creates a new factor repository
func NewPostgresFactorRepository(db *database.DB) FactorRepository {
	return &PostgresFactorRepository{db: db}
}

// InsertContributions stores a batch of raw factor-source rows. Rows are kept
// as delivered; the aggregator resolves duplicates at read time.
func (r *PostgresFactorRepository) InsertContributions(ctx context.Context, season string, contribs []factors.Contribution) error {
	query := `
		INSERT INTO factor_contributions (season, player_id, factor, value)
		VALUES ($1, $2, $3, $4)
	`

	batch := r.db.GetPool()
	for _, c := range contribs {
		if _, err := batch.Exec(ctx, query, season, c.PlayerID, string(c.Factor), c.Value); err != nil {
			return fmt.Errorf("failed to insert factor contribution: %w", err)
		}
	}

	return nil
}

// ListContributions loads every raw factor row for a season
func (r *PostgresFactorRepository) ListContributions(ctx context.Context, season string) ([]factors.Contribution, error) {
	query := `
		SELECT player_id, factor, value
		FROM factor_contributions
		WHERE season = $1
	`

	rows, err := r.db.GetPool().Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("failed to query factor contributions: %w", err)
	}
	defer rows.Close()

	var contribs []factors.Contribution
	for rows.Next() {
		var c factors.Contribution
		var factor string
		if err := rows.Scan(&c.PlayerID, &factor, &c.Value); err != nil {
			return nil, fmt.Errorf("failed to scan factor contribution: %w", err)
		}
		c.Factor = factors.Factor(factor)
		contribs = append(contribs, c)
	}

	return contribs, rows.Err()
}

// ListSeasonRates loads per-game rate lines for a season and period.
// Period is "current" or "prior".
func (r *PostgresFactorRepository) ListSeasonRates(ctx context.Context, season string, period string) ([]factors.SeasonRates, error) {
	query := `
		SELECT player_id, goals_per_game, assists_per_game, gaa, save_pct, games_played
		FROM player_rates
		WHERE season = $1 AND period = $2
	`

	rows, err := r.db.GetPool().Query(ctx, query, season, period)
	if err != nil {
		return nil, fmt.Errorf("failed to query player rates: %w", err)
	}
	defer rows.Close()

	var rates []factors.SeasonRates
	for rows.Next() {
		var sr factors.SeasonRates
		err := rows.Scan(&sr.PlayerID, &sr.GoalsPerGame, &sr.AssistsPerGame,
			&sr.GAA, &sr.SavePct, &sr.GamesPlayed)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player rates: %w", err)
		}
		rates = append(rates, sr)
	}

	return rates, rows.Err()
}

// CaptureWeeklyBaseline archives the week's trending delta rows and clears
// them so the next week's deltas accumulate from zero. Returns the number of
// rows archived.
func (r *PostgresFactorRepository) CaptureWeeklyBaseline(ctx context.Context, season string) (int, error) {
	archive := `
		INSERT INTO trending_history (season, player_id, factor, value, captured_at)
		SELECT season, player_id, factor, value, NOW()
		FROM factor_contributions
		WHERE season = $1 AND factor = ANY($2)
	`
	clear := `
		DELETE FROM factor_contributions
		WHERE season = $1 AND factor = ANY($2)
	`

	weekly := []string{
		string(factors.FactorWeeklyGoalDelta),
		string(factors.FactorWeeklyAssistDelta),
		string(factors.FactorWeeklyViewsDelta),
	}

	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin baseline transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, archive, season, weekly)
	if err != nil {
		return 0, fmt.Errorf("failed to archive trending rows: %w", err)
	}
	archived := int(tag.RowsAffected())

	if _, err := tx.Exec(ctx, clear, season, weekly); err != nil {
		return 0, fmt.Errorf("failed to clear trending rows: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit baseline transaction: %w", err)
	}

	return archived, nil
}
