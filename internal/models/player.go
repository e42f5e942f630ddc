package models

import (
	"time"

	"github.com/google/uuid"
)

// Position identifies a player's role on the ice
type Position string

const (
	PositionForward  Position = "forward"
	PositionDefender Position = "defender"
	PositionGoalie   Position = "goalie"
)

// Valid reports whether the position is one of the three known roles
func (p Position) Valid() bool {
	switch p {
	case PositionForward, PositionDefender, PositionGoalie:
		return true
	}
	return false
}

// IsSkater reports whether the position is scored on goal/assist production
func (p Position) IsSkater() bool {
	return p == PositionForward || p == PositionDefender
}

// Player represents one rated athlete in the league
type Player struct {
	ID        uuid.UUID    `db:"id" json:"id" validate:"required,uuid4"`
	TeamID    uuid.UUID    `db:"team_id" json:"team_id" validate:"required,uuid4"`
	Name      string       `db:"name" json:"name" validate:"required"`
	Position  Position     `db:"position" json:"position" validate:"required,oneof=forward defender goalie"`
	BirthYear int          `db:"birth_year" json:"birth_year" validate:"required,gte=1980"`
	League    string       `db:"league" json:"league"`
	Factors   FactorRecord `db:"-" json:"factors"`
	Ratings   *RatingSet   `db:"-" json:"ratings,omitempty"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt time.Time    `db:"updated_at" json:"updated_at"`
}

// Age returns the player's age in the given season year
func (p *Player) Age(seasonYear int) int {
	return seasonYear - p.BirthYear
}
