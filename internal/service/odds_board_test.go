package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openrink/puckcast/internal/config"
	"github.com/openrink/puckcast/internal/models"
)

func testBoardConfig() *config.BoardConfig {
	return &config.BoardConfig{
		CacheTTLSeconds:   60,
		CachePurgeSeconds: 120,
		VigPercent:        5,
	}
}

// publishedLeague seeds a snapshot with forecasts, the state Render expects
// after a successful recompute
func publishedLeague(t *testing.T) (*fakeSnapshotRepo, *fakeForecastRepo, *models.LeagueSnapshot) {
	t.Helper()
	teams, _, _ := testLeague()
	snapshot := &models.LeagueSnapshot{ID: uuid.New(), Season: "2025-26", TakenAt: time.Now()}
	for i, tm := range teams {
		team := *tm
		team.OVR = 90 - i*3
		snapshot.Teams = append(snapshot.Teams, team)
	}

	forecasts := make([]models.TournamentForecast, len(snapshot.Teams))
	for i, team := range snapshot.Teams {
		forecasts[i] = models.TournamentForecast{
			TeamID:         team.ID,
			SnapshotID:     snapshot.ID,
			Season:         snapshot.Season,
			Classification: team.Classification,
			PowerRank:      team.PowerRank,
			OVR:            team.OVR,
			EliteBid:       50 - float64(i)*10,
			EliteBidOdds:   "+100",
			EliteChamp:     20 - float64(i)*4,
			EliteChampOdds: "+400",
			ComputedAt:     time.Now(),
		}
		if team.Classification == models.ClassificationLarge {
			forecasts[i].LargeDivisionBid = 60
			forecasts[i].LargeDivisionBidOdds = "-150"
			forecasts[i].LargeDivisionChamp = 30
			forecasts[i].LargeDivisionChampOdds = "+233"
		} else {
			forecasts[i].SmallDivisionBid = 55
			forecasts[i].SmallDivisionBidOdds = "-122"
			forecasts[i].SmallDivisionChamp = 25
			forecasts[i].SmallDivisionChampOdds = "+300"
		}
	}

	return &fakeSnapshotRepo{snapshots: []*models.LeagueSnapshot{snapshot}},
		&fakeForecastRepo{saved: forecasts}, snapshot
}

func TestRenderBoard(t *testing.T) {
	snapshotRepo, forecastRepo, snapshot := publishedLeague(t)
	cache := NewBoardCache(time.Minute, time.Minute)
	svc := NewOddsBoardService(snapshotRepo, forecastRepo, cache, testBoardConfig(), "2025-26", testLogger())

	board, err := svc.Render(context.Background())
	require.NoError(t, err)

	assert.Equal(t, snapshot.ID, board.SnapshotID)
	assert.Equal(t, snapshot.Checksum(), board.Checksum)
	require.Len(t, board.Rows, len(snapshot.Teams))

	// Rows come out in power-rank order regardless of storage order.
	for i, row := range board.Rows {
		assert.Equal(t, i+1, row.PowerRank)
		require.Len(t, row.Outcomes, 6)
	}

	top := board.Rows[0]
	assert.Equal(t, "North Prep", top.TeamName)

	elite := top.Outcomes[0]
	assert.Equal(t, MarketEliteBid, elite.Market)
	assert.True(t, elite.Live)
	assert.True(t, elite.Probability.Equal(decimal.NewFromInt(50)), "got %s", elite.Probability)
	// 50% with a 5% vig prices to 0.525 implied.
	assert.True(t, elite.Implied.Equal(decimal.NewFromFloat(0.525)), "got %s", elite.Implied)
	assert.Equal(t, "+100", elite.Odds)

	// A Large team's small-division pair is dead and prices to zero.
	smallBid := top.Outcomes[4]
	assert.Equal(t, MarketSmallDivisionBid, smallBid.Market)
	assert.False(t, smallBid.Live)
	assert.True(t, smallBid.Probability.IsZero())
	assert.True(t, smallBid.Payout.IsZero())
}

func TestRenderBoardUsesCache(t *testing.T) {
	snapshotRepo, forecastRepo, _ := publishedLeague(t)
	cache := NewBoardCache(time.Minute, time.Minute)
	svc := NewOddsBoardService(snapshotRepo, forecastRepo, cache, testBoardConfig(), "2025-26", testLogger())

	first, err := svc.Render(context.Background())
	require.NoError(t, err)
	second, err := svc.Render(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, forecastRepo.listCalls)

	hits, misses, ratio := cache.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
	assert.InDelta(t, 0.5, ratio, 1e-9)
}

func TestRenderBoardWithoutForecasts(t *testing.T) {
	teams, _, _ := testLeague()
	snapshot := &models.LeagueSnapshot{ID: uuid.New(), Season: "2025-26", TakenAt: time.Now()}
	for _, tm := range teams {
		snapshot.Teams = append(snapshot.Teams, *tm)
	}
	snapshotRepo := &fakeSnapshotRepo{snapshots: []*models.LeagueSnapshot{snapshot}}

	svc := NewOddsBoardService(snapshotRepo, &fakeForecastRepo{},
		NewBoardCache(time.Minute, time.Minute), testBoardConfig(), "2025-26", testLogger())

	_, err := svc.Render(context.Background())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRenderBoardNoSnapshot(t *testing.T) {
	svc := NewOddsBoardService(&fakeSnapshotRepo{}, &fakeForecastRepo{},
		NewBoardCache(time.Minute, time.Minute), testBoardConfig(), "2025-26", testLogger())

	_, err := svc.Render(context.Background())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPriceCapsImpliedAtEvens(t *testing.T) {
	svc := NewOddsBoardService(nil, nil, NewBoardCache(time.Minute, time.Minute),
		&config.BoardConfig{CacheTTLSeconds: 60, CachePurgeSeconds: 120, VigPercent: 10},
		"2025-26", testLogger())

	out := svc.price(MarketEliteBid, 99.5, "-19900", true)
	assert.True(t, out.Implied.Equal(decimal.NewFromInt(1)), "got %s", out.Implied)
	assert.True(t, out.Payout.Equal(decimal.NewFromInt(1)), "got %s", out.Payout)
}
