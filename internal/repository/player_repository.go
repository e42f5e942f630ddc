package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/openrink/puckcast/internal/database"
	"github.com/openrink/puckcast/internal/models"
)

const errScanPlayer = "failed to scan player: %w"

// PostgresPlayerRepository implements PlayerRepository for PostgreSQL
type PostgresPlayerRepository struct {
	db *database.DB
}

// NewPostgresPlayerRepository creates a new player repository
func NewPostgresPlayerRepository(db *database.DB) PlayerRepository {
	return &PostgresPlayerRepository{db: db}
}

// Create inserts a new player
func (r *PostgresPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	query := `
		INSERT INTO players (id, team_id, name, position, birth_year, league)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		player.ID, player.TeamID, player.Name, player.Position, player.BirthYear, player.League,
	)
	if err != nil {
		return fmt.Errorf("failed to create player: %w", err)
	}

	return nil
}

// GetByID retrieves a player by ID
func (r *PostgresPlayerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	query := `
		SELECT id, team_id, name, position, birth_year, league, created_at, updated_at
		FROM players WHERE id = $1
	`

	player := &models.Player{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&player.ID, &player.TeamID, &player.Name, &player.Position,
		&player.BirthYear, &player.League, &player.CreatedAt, &player.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return player, nil
}

// GetByTeamID retrieves all players on a team
func (r *PostgresPlayerRepository) GetByTeamID(ctx context.Context, teamID uuid.UUID) ([]*models.Player, error) {
	query := `
		SELECT id, team_id, name, position, birth_year, league, created_at, updated_at
		FROM players
		WHERE team_id = $1
		ORDER BY name ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query players by team: %w", err)
	}
	defer rows.Close()

	return scanPlayers(rows)
}

// ListAll retrieves every player in the league
func (r *PostgresPlayerRepository) ListAll(ctx context.Context) ([]*models.Player, error) {
	query := `
		SELECT id, team_id, name, position, birth_year, league, created_at, updated_at
		FROM players
		ORDER BY team_id, name ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	return scanPlayers(rows)
}

// Update updates an existing player
func (r *PostgresPlayerRepository) Update(ctx context.Context, player *models.Player) error {
	query := `
		UPDATE players SET
			team_id = $2, name = $3, position = $4, birth_year = $5, league = $6, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query,
		player.ID, player.TeamID, player.Name, player.Position, player.BirthYear, player.League,
	)
	if err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// Delete deletes a player
func (r *PostgresPlayerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := "DELETE FROM players WHERE id = $1"

	commandTag, err := r.db.GetPool().Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

func scanPlayers(rows pgx.Rows) ([]*models.Player, error) {
	var players []*models.Player
	for rows.Next() {
		player := &models.Player{}
		err := rows.Scan(
			&player.ID, &player.TeamID, &player.Name, &player.Position,
			&player.BirthYear, &player.League, &player.CreatedAt, &player.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanPlayer, err)
		}
		players = append(players, player)
	}

	return players, rows.Err()
}
