package service

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/openrink/puckcast/internal/factors"
	"github.com/openrink/puckcast/internal/models"
	"github.com/openrink/puckcast/internal/rankfeed"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fakePlayerRepo struct{ players []*models.Player }

func (r *fakePlayerRepo) Create(ctx context.Context, player *models.Player) error { return nil }
func (r *fakePlayerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	for _, p := range r.players {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, models.ErrNotFound
}
func (r *fakePlayerRepo) GetByTeamID(ctx context.Context, teamID uuid.UUID) ([]*models.Player, error) {
	out := []*models.Player{}
	for _, p := range r.players {
		if p.TeamID == teamID {
			out = append(out, p)
		}
	}
	return out, nil
}
func (r *fakePlayerRepo) ListAll(ctx context.Context) ([]*models.Player, error) {
	return r.players, nil
}
func (r *fakePlayerRepo) Update(ctx context.Context, player *models.Player) error { return nil }
func (r *fakePlayerRepo) Delete(ctx context.Context, id uuid.UUID) error          { return nil }

type fakeFactorRepo struct {
	contribs []factors.Contribution
	current  []factors.SeasonRates
	prior    []factors.SeasonRates
	archived int
}

func (r *fakeFactorRepo) InsertContributions(ctx context.Context, season string, contribs []factors.Contribution) error {
	r.contribs = append(r.contribs, contribs...)
	return nil
}
func (r *fakeFactorRepo) ListContributions(ctx context.Context, season string) ([]factors.Contribution, error) {
	return r.contribs, nil
}
func (r *fakeFactorRepo) ListSeasonRates(ctx context.Context, season string, period string) ([]factors.SeasonRates, error) {
	if period == "prior" {
		return r.prior, nil
	}
	return r.current, nil
}
func (r *fakeFactorRepo) CaptureWeeklyBaseline(ctx context.Context, season string) (int, error) {
	return r.archived, nil
}

type fakeTeamRepo struct {
	teams       []*models.Team
	rankUpdates map[uuid.UUID]int
	updateCalls int
}

func (r *fakeTeamRepo) Create(ctx context.Context, team *models.Team) error { return nil }
func (r *fakeTeamRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	for _, t := range r.teams {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, models.ErrNotFound
}
func (r *fakeTeamRepo) GetByName(ctx context.Context, name string) (*models.Team, error) {
	for _, t := range r.teams {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, models.ErrNotFound
}
func (r *fakeTeamRepo) ListAll(ctx context.Context) ([]*models.Team, error) { return r.teams, nil }
func (r *fakeTeamRepo) Update(ctx context.Context, team *models.Team) error {
	r.updateCalls++
	return nil
}
func (r *fakeTeamRepo) UpdatePowerRank(ctx context.Context, id uuid.UUID, rank int) error {
	if r.rankUpdates == nil {
		r.rankUpdates = make(map[uuid.UUID]int)
	}
	r.rankUpdates[id] = rank
	for _, t := range r.teams {
		if t.ID == id {
			t.PowerRank = rank
		}
	}
	return nil
}
func (r *fakeTeamRepo) UpdateRosterScores(ctx context.Context, id uuid.UUID, avg, max float64) error {
	return nil
}

type fakeSnapshotRepo struct{ snapshots []*models.LeagueSnapshot }

func (r *fakeSnapshotRepo) Create(ctx context.Context, snapshot *models.LeagueSnapshot) error {
	r.snapshots = append(r.snapshots, snapshot)
	return nil
}
func (r *fakeSnapshotRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.LeagueSnapshot, error) {
	for _, s := range r.snapshots {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, models.ErrNotFound
}
func (r *fakeSnapshotRepo) GetLatest(ctx context.Context, season string) (*models.LeagueSnapshot, error) {
	if len(r.snapshots) == 0 {
		return nil, models.ErrNotFound
	}
	return r.snapshots[len(r.snapshots)-1], nil
}
func (r *fakeSnapshotRepo) Prune(ctx context.Context, season string, keep int) (int, error) {
	return 0, nil
}

type fakeRatingRepo struct{ saved []models.RatingSet }

func (r *fakeRatingRepo) SaveBatch(ctx context.Context, ratings []models.RatingSet) error {
	r.saved = append(r.saved, ratings...)
	return nil
}
func (r *fakeRatingRepo) GetByPlayer(ctx context.Context, playerID uuid.UUID, season string) (*models.RatingSet, error) {
	return nil, models.ErrNotFound
}
func (r *fakeRatingRepo) ListBySeason(ctx context.Context, season string) ([]models.RatingSet, error) {
	return r.saved, nil
}

type fakeForecastRepo struct {
	saved     []models.TournamentForecast
	listCalls int
}

func (r *fakeForecastRepo) SaveBatch(ctx context.Context, forecasts []models.TournamentForecast) error {
	r.saved = append(r.saved, forecasts...)
	return nil
}
func (r *fakeForecastRepo) ListBySnapshot(ctx context.Context, snapshotID uuid.UUID) ([]models.TournamentForecast, error) {
	r.listCalls++
	out := []models.TournamentForecast{}
	for _, f := range r.saved {
		if f.SnapshotID == snapshotID {
			out = append(out, f)
		}
	}
	return out, nil
}
func (r *fakeForecastRepo) GetByTeam(ctx context.Context, teamID, snapshotID uuid.UUID) (*models.TournamentForecast, error) {
	for i := range r.saved {
		if r.saved[i].TeamID == teamID && r.saved[i].SnapshotID == snapshotID {
			return &r.saved[i], nil
		}
	}
	return nil, models.ErrNotFound
}

type fakePredictionRepo struct{ inserted []*models.GamePrediction }

func (r *fakePredictionRepo) Insert(ctx context.Context, prediction *models.GamePrediction) error {
	r.inserted = append(r.inserted, prediction)
	return nil
}
func (r *fakePredictionRepo) InsertBatch(ctx context.Context, predictions []*models.GamePrediction) error {
	r.inserted = append(r.inserted, predictions...)
	return nil
}
func (r *fakePredictionRepo) ListBySeason(ctx context.Context, season string, since time.Time) ([]*models.GamePrediction, error) {
	return r.inserted, nil
}

type fakeRankSource struct {
	rows []rankfeed.TeamRankRow
	err  error
}

func (s *fakeRankSource) FetchRankings(ctx context.Context, season string) ([]rankfeed.TeamRankRow, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.rows, nil
}
func (s *fakeRankSource) Name() string    { return "fake" }
func (s *fakeRankSource) IsEnabled() bool { return true }

// testLeague builds a four-team league with two players per team, dense
// power ranks, and enough factor rows for ratings to come out nonzero
func testLeague() ([]*models.Team, []*models.Player, []factors.Contribution) {
	teams := []*models.Team{
		{ID: uuid.New(), Name: "North Prep", Classification: models.ClassificationLarge, Enrollment: 900, PowerRank: 1},
		{ID: uuid.New(), Name: "East Academy", Classification: models.ClassificationLarge, Enrollment: 400, PowerRank: 2},
		{ID: uuid.New(), Name: "South High", Classification: models.ClassificationSmall, Enrollment: 180, PowerRank: 3},
		{ID: uuid.New(), Name: "West High", Classification: models.ClassificationSmall, Enrollment: 120, PowerRank: 4},
	}

	players := []*models.Player{}
	contribs := []factors.Contribution{}
	for i, t := range teams {
		forward := &models.Player{
			ID: uuid.New(), TeamID: t.ID, Name: t.Name + " F1",
			Position: models.PositionForward, BirthYear: 2008, League: "prep",
		}
		goalie := &models.Player{
			ID: uuid.New(), TeamID: t.ID, Name: t.Name + " G1",
			Position: models.PositionGoalie, BirthYear: 2007, League: "prep",
		}
		players = append(players, forward, goalie)

		// Stronger rosters for better-ranked teams.
		strength := float64(10 - i*2)
		contribs = append(contribs,
			factors.Contribution{PlayerID: forward.ID, Factor: factors.FactorLeague, Value: strength},
			factors.Contribution{PlayerID: forward.ID, Factor: factors.FactorProfileViews, Value: strength * 100},
			factors.Contribution{PlayerID: goalie.ID, Factor: factors.FactorLeague, Value: strength},
		)
	}

	return teams, players, contribs
}
