package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/openrink/puckcast/internal/database"
	"github.com/openrink/puckcast/internal/models"
)

// PostgresSnapshotRepository implements SnapshotRepository for PostgreSQL
type PostgresSnapshotRepository struct {
	db *database.DB
}

// NewPostgresSnapshotRepository creates a new snapshot repository
func NewPostgresSnapshotRepository(db *database.DB) SnapshotRepository {
	return &PostgresSnapshotRepository{db: db}
}

// Create stores a snapshot header and its frozen team rows in one
// transaction. The snapshot must already be validated; this method stores
// it verbatim.
func (r *PostgresSnapshotRepository) Create(ctx context.Context, snapshot *models.LeagueSnapshot) error {
	headerQuery := `
		INSERT INTO snapshots (id, season, taken_at, checksum)
		VALUES ($1, $2, $3, $4)
	`
	teamQuery := `
		INSERT INTO snapshot_teams (snapshot_id, team_id, name, classification, enrollment,
		                            avg_roster_score, max_roster_score, power_rank, ovr)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, headerQuery, snapshot.ID, snapshot.Season, snapshot.TakenAt, snapshot.Checksum())
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}

	for _, t := range snapshot.Teams {
		_, err = tx.Exec(ctx, teamQuery,
			snapshot.ID, t.ID, t.Name, t.Classification, t.Enrollment,
			t.AvgRosterScore, t.MaxRosterScore, t.PowerRank, t.OVR,
		)
		if err != nil {
			return fmt.Errorf("failed to create snapshot team row: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit snapshot transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a snapshot with its team rows
func (r *PostgresSnapshotRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.LeagueSnapshot, error) {
	query := "SELECT id, season, taken_at FROM snapshots WHERE id = $1"

	snapshot := &models.LeagueSnapshot{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(&snapshot.ID, &snapshot.Season, &snapshot.TakenAt)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	if err := r.loadTeams(ctx, snapshot); err != nil {
		return nil, err
	}

	return snapshot, nil
}

// GetLatest retrieves the most recent snapshot for a season
func (r *PostgresSnapshotRepository) GetLatest(ctx context.Context, season string) (*models.LeagueSnapshot, error) {
	query := `
		SELECT id, season, taken_at FROM snapshots
		WHERE season = $1
		ORDER BY taken_at DESC
		LIMIT 1
	`

	snapshot := &models.LeagueSnapshot{}
	err := r.db.GetPool().QueryRow(ctx, query, season).Scan(&snapshot.ID, &snapshot.Season, &snapshot.TakenAt)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest snapshot: %w", err)
	}

	if err := r.loadTeams(ctx, snapshot); err != nil {
		return nil, err
	}

	return snapshot, nil
}

// Prune deletes all but the newest `keep` snapshots of a season. Returns the
// number of snapshots removed.
func (r *PostgresSnapshotRepository) Prune(ctx context.Context, season string, keep int) (int, error) {
	query := `
		DELETE FROM snapshots
		WHERE season = $1 AND id NOT IN (
			SELECT id FROM snapshots
			WHERE season = $1
			ORDER BY taken_at DESC
			LIMIT $2
		)
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query, season, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}

	return int(commandTag.RowsAffected()), nil
}

func (r *PostgresSnapshotRepository) loadTeams(ctx context.Context, snapshot *models.LeagueSnapshot) error {
	query := `
		SELECT team_id, name, classification, enrollment, avg_roster_score,
		       max_roster_score, power_rank, ovr
		FROM snapshot_teams
		WHERE snapshot_id = $1
		ORDER BY power_rank ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, snapshot.ID)
	if err != nil {
		return fmt.Errorf("failed to query snapshot teams: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t models.Team
		err := rows.Scan(&t.ID, &t.Name, &t.Classification, &t.Enrollment,
			&t.AvgRosterScore, &t.MaxRosterScore, &t.PowerRank, &t.OVR)
		if err != nil {
			return fmt.Errorf("failed to scan snapshot team: %w", err)
		}
		snapshot.Teams = append(snapshot.Teams, t)
	}

	return rows.Err()
}
