package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/openrink/puckcast/internal/metrics"
	"github.com/openrink/puckcast/internal/models"
	"github.com/openrink/puckcast/internal/rankfeed"
	"github.com/openrink/puckcast/internal/repository"
)

// IngestResult summarizes one feed poll
type IngestResult struct {
	SnapshotID  uuid.UUID
	Season      string
	TeamsRanked int
	Changed     bool
	Duration    time.Duration
}

// RankIngestService pulls power rankings from the upstream composite feed
// and publishes them as league snapshots. Ranks are taken verbatim from the
// feed; they are never derived or reordered here. A delivery that does not
// form a dense 1..N permutation over the known teams is rejected whole.
type RankIngestService struct {
	source       rankfeed.RankSource
	teamRepo     repository.TeamRepository
	snapshotRepo repository.SnapshotRepository
	season       string
	log          *logrus.Logger
}

// NewRankIngestService creates a new rank ingestion service
func NewRankIngestService(
	source rankfeed.RankSource,
	teamRepo repository.TeamRepository,
	snapshotRepo repository.SnapshotRepository,
	season string,
	log *logrus.Logger,
) *RankIngestService {
	return &RankIngestService{
		source:       source,
		teamRepo:     teamRepo,
		snapshotRepo: snapshotRepo,
		season:       season,
		log:          log,
	}
}

// Poll fetches the current rankings, validates them against the known team
// set, and publishes a new snapshot when the ranked field changed since the
// last one
func (s *RankIngestService) Poll(ctx context.Context) (*IngestResult, error) {
	start := time.Now()

	rows, err := s.source.FetchRankings(ctx, s.season)
	metrics.RecordFeedPoll(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rankings from %s: %w", s.source.Name(), err)
	}

	teams, err := s.teamRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load teams: %w", err)
	}

	ranked, err := s.applyRanks(teams, rows)
	if err != nil {
		metrics.RecordSnapshotRejected()
		s.log.WithError(err).WithField("source", s.source.Name()).Error("Rejected ranking delivery")
		return nil, err
	}

	snapshot := &models.LeagueSnapshot{
		ID:      uuid.New(),
		Season:  s.season,
		TakenAt: time.Now(),
		Teams:   ranked,
	}
	if err := snapshot.Validate(); err != nil {
		metrics.RecordSnapshotRejected()
		s.log.WithError(err).WithField("source", s.source.Name()).Error("Rejected ranking delivery")
		return nil, err
	}

	changed, err := s.fieldChanged(ctx, snapshot)
	if err != nil {
		return nil, err
	}

	result := &IngestResult{
		Season:      s.season,
		TeamsRanked: len(ranked),
		Changed:     changed,
	}

	if changed {
		if err := s.persistRanks(ctx, snapshot); err != nil {
			return nil, err
		}
		result.SnapshotID = snapshot.ID
		metrics.RecordSnapshotIngested(len(ranked))
		metrics.UpdateSnapshotAge(0)
		s.log.WithFields(logrus.Fields{
			"snapshot_id": snapshot.ID,
			"season":      s.season,
			"teams":       len(ranked),
			"checksum":    snapshot.Checksum(),
		}).Info("Ingested ranking snapshot")
	} else {
		s.log.WithField("season", s.season).Debug("Ranked field unchanged, no snapshot published")
	}

	result.Duration = time.Since(start)
	return result, nil
}

// applyRanks maps the feed rows onto the known teams. Every row must match
// a known team and every known team must receive exactly one rank.
func (s *RankIngestService) applyRanks(teams []*models.Team, rows []rankfeed.TeamRankRow) ([]models.Team, error) {
	if len(rows) != len(teams) {
		return nil, fmt.Errorf("%w: feed delivered %d ranks for %d teams",
			models.ErrInvalidSnapshot, len(rows), len(teams))
	}

	rankByTeam := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		if _, dup := rankByTeam[row.TeamID]; dup {
			return nil, fmt.Errorf("%w: duplicate ranking for team %s",
				models.ErrInvalidSnapshot, row.TeamName)
		}
		rankByTeam[row.TeamID] = row.Rank
	}

	ranked := make([]models.Team, len(teams))
	for i, t := range teams {
		rank, ok := rankByTeam[t.ID]
		if !ok {
			return nil, fmt.Errorf("%w: feed is missing a rank for team %s",
				models.ErrInvalidSnapshot, t.Name)
		}
		ranked[i] = *t
		ranked[i].PowerRank = rank
	}

	return ranked, nil
}

// fieldChanged compares the candidate snapshot against the latest published
// one by checksum
func (s *RankIngestService) fieldChanged(ctx context.Context, snapshot *models.LeagueSnapshot) (bool, error) {
	latest, err := s.snapshotRepo.GetLatest(ctx, s.season)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return true, nil
		}
		return false, fmt.Errorf("failed to load latest snapshot: %w", err)
	}
	return latest.Checksum() != snapshot.Checksum(), nil
}

func (s *RankIngestService) persistRanks(ctx context.Context, snapshot *models.LeagueSnapshot) error {
	for i := range snapshot.Teams {
		t := &snapshot.Teams[i]
		if err := s.teamRepo.UpdatePowerRank(ctx, t.ID, t.PowerRank); err != nil {
			return fmt.Errorf("failed to update power rank for team %s: %w", t.Name, err)
		}
	}
	if err := s.snapshotRepo.Create(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to persist snapshot: %w", err)
	}
	return nil
}

// HandleStreamMessage reacts to a push notification of rank movement by
// running a full poll. The stream only signals that something moved; the
// REST endpoint stays the single source of truth for the whole field.
func (s *RankIngestService) HandleStreamMessage(ctx context.Context, msg *rankfeed.StreamMessage) error {
	if len(msg.RankChanges) == 0 {
		return nil
	}

	s.log.WithFields(logrus.Fields{
		"season":  msg.Season,
		"changes": len(msg.RankChanges),
	}).Info("Rank movement on stream, refreshing field")

	_, err := s.Poll(ctx)
	return err
}
