//go:build integration

package integration

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openrink/puckcast/internal/models"
	"github.com/openrink/puckcast/internal/rankfeed"
	"github.com/openrink/puckcast/test/helpers"
)

func newFeedHTTPClient(t *testing.T) *rankfeed.RateLimitedHTTPClient {
	t.Helper()

	cfg := rankfeed.DefaultHTTPClientConfig()
	cfg.Timeout = 5 * time.Second
	cfg.MaxRetries = 1
	cfg.RetryWaitMin = 10 * time.Millisecond
	cfg.RetryWaitMax = 50 * time.Millisecond
	cfg.RateLimit = 100
	cfg.Burst = 10

	return rankfeed.NewRateLimitedHTTPClient(cfg, log.New(io.Discard, "", 0))
}

// TestCompositeFeedFetch exercises the composite ranking client against a
// server speaking the feed's wire format.
func TestCompositeFeedFetch(t *testing.T) {
	if testing.Short() {
		t.Skip(skipIntegration)
	}

	teams := []*models.Team{
		helpers.NewTestTeam("Feed North", models.ClassificationLarge, 520, 1),
		helpers.NewTestTeam("Feed South", models.ClassificationSmall, 140, 2),
		helpers.NewTestTeam("Feed East", models.ClassificationLarge, 480, 3),
	}
	server := helpers.MockRankFeedServer(t, helpers.TestSeason, teams)
	defer server.Close()

	client := rankfeed.NewCompositeRankClient(
		newFeedHTTPClient(t), server.URL, "test-key", true, log.New(io.Discard, "", 0))

	rows, err := client.FetchRankings(context.Background(), helpers.TestSeason)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	for i, row := range rows {
		assert.Equal(t, teams[i].ID, row.TeamID)
		assert.Equal(t, teams[i].Name, row.TeamName)
		assert.Equal(t, i+1, row.Rank)
		assert.Equal(t, helpers.TestSeason, row.Season)
	}
}

func TestCompositeFeedUnknownSeason(t *testing.T) {
	if testing.Short() {
		t.Skip(skipIntegration)
	}

	teams := []*models.Team{
		helpers.NewTestTeam("Feed Solo", models.ClassificationSmall, 120, 1),
	}
	server := helpers.MockRankFeedServer(t, helpers.TestSeason, teams)
	defer server.Close()

	client := rankfeed.NewCompositeRankClient(
		newFeedHTTPClient(t), server.URL, "test-key", true, log.New(io.Discard, "", 0))

	_, err := client.FetchRankings(context.Background(), "1999-00")
	require.Error(t, err)

	var feedErr rankfeed.FeedError
	require.ErrorAs(t, err, &feedErr)
	assert.Equal(t, rankfeed.ErrCodeNotFound, feedErr.Code)
}

func TestCompositeFeedDisabledSource(t *testing.T) {
	if testing.Short() {
		t.Skip(skipIntegration)
	}

	client := rankfeed.NewCompositeRankClient(
		newFeedHTTPClient(t), "http://localhost:0", "test-key", false, log.New(io.Discard, "", 0))

	_, err := client.FetchRankings(context.Background(), helpers.TestSeason)
	assert.ErrorIs(t, err, rankfeed.ErrSourceDisabled)
}
