package models

import "errors"

// Custom errors
var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicateKey    = errors.New("duplicate key violation")
	ErrInvalidID       = errors.New("invalid ID format")
	ErrInvalidSnapshot = errors.New("invalid league snapshot")
	ErrUnknownPosition = errors.New("unknown player position")
	ErrUnknownVariant  = errors.New("unknown rating variant")
	ErrNoRatedPlayers  = errors.New("no rated players on roster")
	ErrSeasonRequired  = errors.New("season is required")
)
