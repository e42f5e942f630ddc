package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openrink/puckcast/internal/models"
	"github.com/openrink/puckcast/internal/rankfeed"
)

func feedRowsFor(teams []*models.Team) []rankfeed.TeamRankRow {
	rows := make([]rankfeed.TeamRankRow, len(teams))
	for i, t := range teams {
		rows[i] = rankfeed.TeamRankRow{
			TeamID:    t.ID,
			TeamName:  t.Name,
			Season:    "2025-26",
			Rank:      t.PowerRank,
			UpdatedAt: time.Now(),
		}
	}
	return rows
}

func TestPollPublishesSnapshot(t *testing.T) {
	teams, _, _ := testLeague()
	rows := feedRowsFor(teams)
	// Feed swaps the top two teams.
	rows[0].Rank = 2
	rows[1].Rank = 1

	teamRepo := &fakeTeamRepo{teams: teams}
	snapshotRepo := &fakeSnapshotRepo{}
	svc := NewRankIngestService(&fakeRankSource{rows: rows}, teamRepo, snapshotRepo, "2025-26", testLogger())

	result, err := svc.Poll(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Changed)
	assert.Equal(t, len(teams), result.TeamsRanked)
	assert.Equal(t, 2, teamRepo.rankUpdates[teams[0].ID])
	assert.Equal(t, 1, teamRepo.rankUpdates[teams[1].ID])

	require.Len(t, snapshotRepo.snapshots, 1)
	snapshot := snapshotRepo.snapshots[0]
	assert.Equal(t, result.SnapshotID, snapshot.ID)
	assert.NoError(t, snapshot.Validate())
}

func TestPollSkipsUnchangedField(t *testing.T) {
	teams, _, _ := testLeague()
	teamRepo := &fakeTeamRepo{teams: teams}
	snapshotRepo := &fakeSnapshotRepo{}
	svc := NewRankIngestService(&fakeRankSource{rows: feedRowsFor(teams)}, teamRepo, snapshotRepo, "2025-26", testLogger())

	first, err := svc.Poll(context.Background())
	require.NoError(t, err)
	assert.True(t, first.Changed)

	second, err := svc.Poll(context.Background())
	require.NoError(t, err)
	assert.False(t, second.Changed)
	assert.Equal(t, uuid.Nil, second.SnapshotID)
	assert.Len(t, snapshotRepo.snapshots, 1)
}

func TestPollRejectsBadDeliveries(t *testing.T) {
	teams, _, _ := testLeague()

	tests := []struct {
		name   string
		mangle func(rows []rankfeed.TeamRankRow) []rankfeed.TeamRankRow
	}{
		{
			name: "missing team",
			mangle: func(rows []rankfeed.TeamRankRow) []rankfeed.TeamRankRow {
				return rows[:len(rows)-1]
			},
		},
		{
			name: "unknown team",
			mangle: func(rows []rankfeed.TeamRankRow) []rankfeed.TeamRankRow {
				rows[0].TeamID = uuid.New()
				return rows
			},
		},
		{
			name: "duplicate rank",
			mangle: func(rows []rankfeed.TeamRankRow) []rankfeed.TeamRankRow {
				rows[1].Rank = rows[0].Rank
				return rows
			},
		},
		{
			name: "rank above field size",
			mangle: func(rows []rankfeed.TeamRankRow) []rankfeed.TeamRankRow {
				rows[0].Rank = len(rows) + 5
				return rows
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshotRepo := &fakeSnapshotRepo{}
			rows := tt.mangle(feedRowsFor(teams))
			svc := NewRankIngestService(&fakeRankSource{rows: rows},
				&fakeTeamRepo{teams: teams}, snapshotRepo, "2025-26", testLogger())

			_, err := svc.Poll(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrInvalidSnapshot)
			assert.Empty(t, snapshotRepo.snapshots)
		})
	}
}

func TestPollPropagatesFeedError(t *testing.T) {
	teams, _, _ := testLeague()
	svc := NewRankIngestService(&fakeRankSource{err: rankfeed.ErrRateLimitExceeded},
		&fakeTeamRepo{teams: teams}, &fakeSnapshotRepo{}, "2025-26", testLogger())

	_, err := svc.Poll(context.Background())
	assert.ErrorIs(t, err, rankfeed.ErrRateLimitExceeded)
}

func TestHandleStreamMessage(t *testing.T) {
	teams, _, _ := testLeague()
	snapshotRepo := &fakeSnapshotRepo{}
	svc := NewRankIngestService(&fakeRankSource{rows: feedRowsFor(teams)},
		&fakeTeamRepo{teams: teams}, snapshotRepo, "2025-26", testLogger())

	// Heartbeats never trigger a refresh.
	err := svc.HandleStreamMessage(context.Background(), &rankfeed.StreamMessage{Op: "hb"})
	require.NoError(t, err)
	assert.Empty(t, snapshotRepo.snapshots)

	err = svc.HandleStreamMessage(context.Background(), &rankfeed.StreamMessage{
		Op:     "ranks",
		Season: "2025-26",
		RankChanges: []rankfeed.RankChange{
			{TeamID: teams[0].ID.String(), TeamName: teams[0].Name, OldRank: 1, NewRank: 2},
		},
	})
	require.NoError(t, err)
	assert.Len(t, snapshotRepo.snapshots, 1)
}
