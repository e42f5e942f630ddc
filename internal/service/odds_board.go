package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/openrink/puckcast/internal/config"
	"github.com/openrink/puckcast/internal/models"
	"github.com/openrink/puckcast/internal/repository"
)

// Market identifiers on the board, in display order
const (
	MarketEliteBid           = "elite_bid"
	MarketEliteChamp         = "elite_champ"
	MarketLargeDivisionBid   = "large_division_bid"
	MarketLargeDivisionChamp = "large_division_champ"
	MarketSmallDivisionBid   = "small_division_bid"
	MarketSmallDivisionChamp = "small_division_champ"
)

// BoardOutcome is one priced market cell on the board. Probability is the
// model's fair percentage; Implied carries the vig and Payout is the
// decimal-odds return per unit stake at the implied price.
type BoardOutcome struct {
	Market      string          `json:"market"`
	Probability decimal.Decimal `json:"probability"`
	Implied     decimal.Decimal `json:"implied"`
	Odds        string          `json:"odds"`
	Payout      decimal.Decimal `json:"payout"`
	Live        bool            `json:"live"`
}

// BoardRow is one team's line on the board
type BoardRow struct {
	TeamID         uuid.UUID             `json:"team_id"`
	TeamName       string                `json:"team_name"`
	Classification models.Classification `json:"classification"`
	PowerRank      int                   `json:"power_rank"`
	OVR            int                   `json:"ovr"`
	Outcomes       []BoardOutcome        `json:"outcomes"`
}

// Board is a fully rendered odds board for one snapshot
type Board struct {
	SnapshotID  uuid.UUID  `json:"snapshot_id"`
	Season      string     `json:"season"`
	Checksum    string     `json:"checksum"`
	VigPercent  float64    `json:"vig_percent"`
	GeneratedAt time.Time  `json:"generated_at"`
	Rows        []BoardRow `json:"rows"`
}

// OddsBoardService renders tournament forecasts as a priced odds board,
// sorted by power rank. Boards are cached by snapshot checksum; the cache
// is flushed whenever a recompute publishes a new snapshot.
type OddsBoardService struct {
	snapshotRepo repository.SnapshotRepository
	forecastRepo repository.ForecastRepository
	cache        *BoardCache
	cfg          *config.BoardConfig
	season       string
	log          *logrus.Logger
}

// NewOddsBoardService creates a new odds board service
func NewOddsBoardService(
	snapshotRepo repository.SnapshotRepository,
	forecastRepo repository.ForecastRepository,
	cache *BoardCache,
	cfg *config.BoardConfig,
	season string,
	log *logrus.Logger,
) *OddsBoardService {
	return &OddsBoardService{
		snapshotRepo: snapshotRepo,
		forecastRepo: forecastRepo,
		cache:        cache,
		cfg:          cfg,
		season:       season,
		log:          log,
	}
}

// Render returns the board for the latest published snapshot, from cache
// when the ranked field has not changed
func (s *OddsBoardService) Render(ctx context.Context) (*Board, error) {
	snapshot, err := s.snapshotRepo.GetLatest(ctx, s.season)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest snapshot: %w", err)
	}

	checksum := snapshot.Checksum()
	if board := s.cache.Get(checksum); board != nil {
		return board, nil
	}

	board, err := s.RenderSnapshot(ctx, snapshot)
	if err != nil {
		return nil, err
	}

	s.cache.Set(checksum, board)
	return board, nil
}

// RenderSnapshot renders the board for a specific snapshot, bypassing the
// cache
func (s *OddsBoardService) RenderSnapshot(ctx context.Context, snapshot *models.LeagueSnapshot) (*Board, error) {
	forecasts, err := s.forecastRepo.ListBySnapshot(ctx, snapshot.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load forecasts: %w", err)
	}
	if len(forecasts) == 0 {
		return nil, fmt.Errorf("%w: no forecasts computed for snapshot %s",
			models.ErrNotFound, snapshot.ID)
	}

	return s.buildBoard(snapshot, forecasts), nil
}

// BuildFromForecasts renders a board directly from in-memory forecasts,
// used by the offline recompute mode
func (s *OddsBoardService) BuildFromForecasts(snapshot *models.LeagueSnapshot, forecasts []models.TournamentForecast) *Board {
	return s.buildBoard(snapshot, forecasts)
}

func (s *OddsBoardService) buildBoard(snapshot *models.LeagueSnapshot, forecasts []models.TournamentForecast) *Board {
	nameByID := make(map[uuid.UUID]string, len(snapshot.Teams))
	for _, t := range snapshot.Teams {
		nameByID[t.ID] = t.Name
	}

	rows := make([]BoardRow, 0, len(forecasts))
	for _, f := range forecasts {
		rows = append(rows, BoardRow{
			TeamID:         f.TeamID,
			TeamName:       nameByID[f.TeamID],
			Classification: f.Classification,
			PowerRank:      f.PowerRank,
			OVR:            f.OVR,
			Outcomes:       s.priceOutcomes(&f),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].PowerRank < rows[j].PowerRank })

	return &Board{
		SnapshotID:  snapshot.ID,
		Season:      snapshot.Season,
		Checksum:    snapshot.Checksum(),
		VigPercent:  s.cfg.VigPercent,
		GeneratedAt: time.Now(),
		Rows:        rows,
	}
}

func (s *OddsBoardService) priceOutcomes(f *models.TournamentForecast) []BoardOutcome {
	large := f.Classification == models.ClassificationLarge
	return []BoardOutcome{
		s.price(MarketEliteBid, f.EliteBid, f.EliteBidOdds, true),
		s.price(MarketEliteChamp, f.EliteChamp, f.EliteChampOdds, true),
		s.price(MarketLargeDivisionBid, f.LargeDivisionBid, f.LargeDivisionBidOdds, large),
		s.price(MarketLargeDivisionChamp, f.LargeDivisionChamp, f.LargeDivisionChampOdds, large),
		s.price(MarketSmallDivisionBid, f.SmallDivisionBid, f.SmallDivisionBidOdds, !large),
		s.price(MarketSmallDivisionChamp, f.SmallDivisionChamp, f.SmallDivisionChampOdds, !large),
	}
}

var (
	decHundred = decimal.NewFromInt(100)
	decOne     = decimal.NewFromInt(1)
)

// price converts one fair percentage into a priced cell. The implied
// probability carries the configured vig and is capped at 1; payout is the
// decimal-odds return at that implied price. Dead markets and zero
// probabilities price to zero with no payout.
func (s *OddsBoardService) price(market string, pct float64, odds string, live bool) BoardOutcome {
	out := BoardOutcome{
		Market: market,
		Odds:   odds,
		Live:   live,
	}
	if !live || pct <= 0 {
		out.Probability = decimal.Zero
		out.Implied = decimal.Zero
		out.Payout = decimal.Zero
		return out
	}

	prob := decimal.NewFromFloat(pct)
	fair := prob.Div(decHundred)

	vig := decimal.NewFromFloat(s.cfg.VigPercent).Div(decHundred)
	implied := fair.Mul(decOne.Add(vig))
	if implied.GreaterThan(decOne) {
		implied = decOne
	}

	out.Probability = prob.Round(4)
	out.Implied = implied.Round(6)
	out.Payout = decOne.Div(implied).Round(4)
	return out
}
