package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/openrink/puckcast/internal/database"
	"github.com/openrink/puckcast/internal/models"
)

const errScanTeam = "failed to scan team: %w"

// PostgresTeamRepository implements TeamRepository for PostgreSQL
type PostgresTeamRepository struct {
	db *database.DB
}

// NewPostgresTeamRepository creates a new team repository
func NewPostgresTeamRepository(db *database.DB) TeamRepository {
	return &PostgresTeamRepository{db: db}
}

// Create inserts a new team
func (r *PostgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (id, name, classification, enrollment, avg_roster_score,
		                   max_roster_score, power_rank, ovr)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		team.ID, team.Name, team.Classification, team.Enrollment,
		team.AvgRosterScore, team.MaxRosterScore, team.PowerRank, team.OVR,
	)
	if err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}

	return nil
}

// GetByID retrieves a team by ID
func (r *PostgresTeamRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	query := teamSelect + " WHERE id = $1"

	team := &models.Team{}
	err := scanTeamRow(r.db.GetPool().QueryRow(ctx, query, id), team)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return team, nil
}

// GetByName retrieves a team by name
func (r *PostgresTeamRepository) GetByName(ctx context.Context, name string) (*models.Team, error) {
	query := teamSelect + " WHERE name = $1"

	team := &models.Team{}
	err := scanTeamRow(r.db.GetPool().QueryRow(ctx, query, name), team)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team by name: %w", err)
	}

	return team, nil
}

// ListAll retrieves every team ordered by power rank
func (r *PostgresTeamRepository) ListAll(ctx context.Context) ([]*models.Team, error) {
	query := teamSelect + " ORDER BY power_rank ASC"

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()

	var teams []*models.Team
	for rows.Next() {
		team := &models.Team{}
		if err := scanTeamRow(rows, team); err != nil {
			return nil, fmt.Errorf(errScanTeam, err)
		}
		teams = append(teams, team)
	}

	return teams, rows.Err()
}

// Update updates an existing team
func (r *PostgresTeamRepository) Update(ctx context.Context, team *models.Team) error {
	query := `
		UPDATE teams SET
			name = $2, classification = $3, enrollment = $4, avg_roster_score = $5,
			max_roster_score = $6, power_rank = $7, ovr = $8, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query,
		team.ID, team.Name, team.Classification, team.Enrollment,
		team.AvgRosterScore, team.MaxRosterScore, team.PowerRank, team.OVR,
	)
	if err != nil {
		return fmt.Errorf("failed to update team: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// UpdatePowerRank stores a curated rank delivered by the feed. The rank is
// never derived here; it is written exactly as received.
func (r *PostgresTeamRepository) UpdatePowerRank(ctx context.Context, id uuid.UUID, rank int) error {
	query := "UPDATE teams SET power_rank = $2, updated_at = NOW() WHERE id = $1"

	commandTag, err := r.db.GetPool().Exec(ctx, query, id, rank)
	if err != nil {
		return fmt.Errorf("failed to update power rank: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// UpdateRosterScores stores recomputed roster score aggregates
func (r *PostgresTeamRepository) UpdateRosterScores(ctx context.Context, id uuid.UUID, avg, max float64) error {
	query := `
		UPDATE teams SET avg_roster_score = $2, max_roster_score = $3, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query, id, avg, max)
	if err != nil {
		return fmt.Errorf("failed to update roster scores: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

const teamSelect = `
	SELECT id, name, classification, enrollment, avg_roster_score,
	       max_roster_score, power_rank, ovr, created_at, updated_at
	FROM teams`

func scanTeamRow(row pgx.Row, team *models.Team) error {
	return row.Scan(
		&team.ID, &team.Name, &team.Classification, &team.Enrollment,
		&team.AvgRosterScore, &team.MaxRosterScore, &team.PowerRank, &team.OVR,
		&team.CreatedAt, &team.UpdatedAt,
	)
}
