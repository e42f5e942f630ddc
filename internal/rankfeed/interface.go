// Package rankfeed provides clients for the external curated composite
// ranking service. The feed is the single authority on team power ranks:
// this package fetches and relays them, it never derives them.
package rankfeed

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// RankSource defines the interface for fetching curated team rankings
type RankSource interface {
	// FetchRankings retrieves the full ranked team list for a season
	FetchRankings(ctx context.Context, season string) ([]TeamRankRow, error)

	// Name returns the name of the rank source
	Name() string

	// IsEnabled returns whether this rank source is currently enabled
	IsEnabled() bool
}

// TeamRankRow is one team's entry in a curated ranking delivery. Rank is the
// composite ordinal; Score is the provider's underlying composite score,
// carried for diagnostics only.
type TeamRankRow struct {
	TeamID    uuid.UUID `json:"team_id"`
	TeamName  string    `json:"team_name"`
	Season    string    `json:"season"`
	Rank      int       `json:"rank"`
	Score     float64   `json:"score"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FeedError represents errors from rank feed operations
type FeedError struct {
	Source  string // Rank source name
	Code    string // Error code (e.g. "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e FeedError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e FeedError) Unwrap() error {
	return e.Err
}

// Retryable reports whether a retry could reasonably succeed
func (e FeedError) Retryable() bool {
	switch e.Code {
	case ErrCodeRateLimitExceeded, ErrCodeNetworkError, ErrCodeServerError:
		return true
	}
	return false
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeUnknown              = "unknown"
)

// Error constructors
var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrFeedData             = errors.New("invalid feed data")
	ErrSourceDisabled       = errors.New("rank source disabled")
)

// NewFeedError creates a new feed error
func NewFeedError(source, code, message string, err error) FeedError {
	return FeedError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
