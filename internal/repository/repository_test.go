package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openrink/puckcast/internal/database"
	"github.com/openrink/puckcast/internal/models"
)

// These tests run only when PUCKCAST_TEST_DATABASE_URL points at a migrated
// database; SetupTestDB skips them otherwise.

func TestNewRepositoriesRequiresDB(t *testing.T) {
	repos, err := NewRepositories(nil)
	assert.Nil(t, repos)
	assert.Error(t, err)
}

func TestTeamRepositoryRoundTrip(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	team := &models.Team{
		ID:             uuid.New(),
		Name:           "Milton Academy",
		Classification: models.ClassificationLarge,
		Enrollment:     690,
		AvgRosterScore: 1820,
		MaxRosterScore: 2410,
		PowerRank:      3,
		OVR:            84,
	}

	require.NoError(t, repos.Team.Create(ctx, team))

	retrieved, err := repos.Team.GetByID(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, team.Name, retrieved.Name)
	assert.Equal(t, team.PowerRank, retrieved.PowerRank)

	require.NoError(t, repos.Team.UpdatePowerRank(ctx, team.ID, 5))
	retrieved, err = repos.Team.GetByID(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, retrieved.PowerRank)

	_, err = repos.Team.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSnapshotRepositoryRoundTrip(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	snapshot := &models.LeagueSnapshot{
		ID:      uuid.New(),
		Season:  "2025-26-test",
		TakenAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	for i := 1; i <= 4; i++ {
		team := &models.Team{
			ID:             uuid.New(),
			Name:           "Team " + string(rune('A'+i-1)),
			Classification: models.ClassifyEnrollment(200 + i*20),
			Enrollment:     200 + i*20,
			AvgRosterScore: 1000,
			PowerRank:      i,
			OVR:            75,
		}
		require.NoError(t, repos.Team.Create(ctx, team))
		snapshot.Teams = append(snapshot.Teams, *team)
	}
	require.NoError(t, snapshot.Validate())

	require.NoError(t, repos.Snapshot.Create(ctx, snapshot))

	latest, err := repos.Snapshot.GetLatest(ctx, snapshot.Season)
	require.NoError(t, err)
	assert.Equal(t, snapshot.ID, latest.ID)
	assert.Len(t, latest.Teams, 4)
	assert.Equal(t, snapshot.Checksum(), latest.Checksum())
}

func TestRatingRepositoryUpsert(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	team := &models.Team{
		ID:             uuid.New(),
		Name:           "Rating Test Team",
		Classification: models.ClassificationSmall,
		Enrollment:     180,
		PowerRank:      40,
		OVR:            71,
	}
	require.NoError(t, repos.Team.Create(ctx, team))

	player := &models.Player{
		ID:        uuid.New(),
		TeamID:    team.ID,
		Name:      "Test Forward",
		Position:  models.PositionForward,
		BirthYear: 2008,
	}
	require.NoError(t, repos.Player.Create(ctx, player))

	rating := models.RatingSet{
		PlayerID:    player.ID,
		Season:      "2025-26-test",
		Performance: 88,
		Level:       72,
		Visibility:  40,
		Overall:     68,
		Variant:     "direct",
		ComputedAt:  time.Now().UTC(),
	}
	require.NoError(t, repos.Rating.SaveBatch(ctx, []models.RatingSet{rating}))

	// A second pass replaces, not duplicates
	rating.Overall = 70
	require.NoError(t, repos.Rating.SaveBatch(ctx, []models.RatingSet{rating}))

	got, err := repos.Rating.GetByPlayer(ctx, player.ID, rating.Season)
	require.NoError(t, err)
	assert.Equal(t, 70, got.Overall)
}
