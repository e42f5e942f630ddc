package helpers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/openrink/puckcast/internal/database"
	"github.com/openrink/puckcast/internal/models"
)

// TestSeason is the season label used across integration tests.
const TestSeason = "2025-26"

// NewTestTeam builds a valid team with sensible defaults for tests.
func NewTestTeam(name string, classification models.Classification, enrollment, powerRank int) *models.Team {
	return &models.Team{
		ID:             uuid.New(),
		Name:           name,
		Classification: classification,
		Enrollment:     enrollment,
		PowerRank:      powerRank,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
}

// NewTestPlayer builds a valid player attached to the given team.
func NewTestPlayer(teamID uuid.UUID, name string, position models.Position) *models.Player {
	return &models.Player{
		ID:        uuid.New(),
		TeamID:    teamID,
		Name:      name,
		Position:  position,
		BirthYear: 2008,
		League:    "prep",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// NewTestSnapshot builds a league snapshot over the given teams, ranked in
// the order supplied.
func NewTestSnapshot(season string, teams []*models.Team) *models.LeagueSnapshot {
	snapshot := &models.LeagueSnapshot{
		ID:      uuid.New(),
		Season:  season,
		TakenAt: time.Now(),
		Teams:   make([]models.Team, 0, len(teams)),
	}
	for i, t := range teams {
		team := *t
		team.PowerRank = i + 1
		snapshot.Teams = append(snapshot.Teams, team)
	}
	return snapshot
}

// LoadFixture loads test data from a JSON fixture file.
func LoadFixture(t *testing.T, filename string, target interface{}) {
	t.Helper()

	fixturePath := filepath.Join("test", "fixtures", filename)
	data, err := os.ReadFile(fixturePath)
	require.NoError(t, err, "failed to read fixture file: %s", filename)

	err = json.Unmarshal(data, target)
	require.NoError(t, err, "failed to unmarshal fixture: %s", filename)
}

// CleanupDatabase truncates all test tables.
func CleanupDatabase(t *testing.T, db *database.DB) {
	t.Helper()

	tables := []string{
		"game_predictions",
		"tournament_forecasts",
		"player_ratings",
		"snapshot_teams",
		"snapshots",
		"trending_history",
		"player_rates",
		"factor_contributions",
		"players",
		"teams",
	}

	ctx := context.Background()
	for _, table := range tables {
		_, err := db.GetPool().Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			t.Logf("Warning: failed to truncate table %s: %v", table, err)
		}
	}
}

// MockRankFeedServer creates a mock HTTP server that speaks the composite
// ranking feed's wire format for the given teams.
func MockRankFeedServer(t *testing.T, season string, teams []*models.Team) *httptest.Server {
	t.Helper()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		switch r.URL.Path {
		case fmt.Sprintf("/seasons/%s/rankings", season):
			rankings := make([]map[string]interface{}, 0, len(teams))
			for _, team := range teams {
				rankings = append(rankings, map[string]interface{}{
					"teamId":         team.ID.String(),
					"teamName":       team.Name,
					"rank":           team.PowerRank,
					"compositeScore": 100.0 - float64(team.PowerRank),
				})
			}

			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"season":      season,
				"generatedAt": time.Now().Format(time.RFC3339),
				"rankings":    rankings,
			})

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	return httptest.NewServer(handler)
}

// WaitForCondition waits for a condition to become true or times out.
func WaitForCondition(t *testing.T, timeout time.Duration, condition func() bool, message string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}

	require.Fail(t, "condition not met within timeout", message)
}

// CreateTestContext creates a context with a timeout for testing.
func CreateTestContext(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)

	return ctx
}

// GetEnvOrDefault returns environment variable value or a default.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// SkipIfShort skips test if running in short mode.
func SkipIfShort(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test in short mode")
	}
}
