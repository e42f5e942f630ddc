package rankfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

func parseTeamID(raw string) (uuid.UUID, error) {
	return uuid.Parse(raw)
}

const sourceDisabledMsg = "rank source is disabled"

// CompositeRankClient implements RankSource for the curated composite
// ranking service. The service blends several outside ranking providers with
// roster strength; this client treats the result as opaque ground truth.
type CompositeRankClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	enabled    bool
	logger     *log.Logger
}

// compositeRankingsResponse is the feed's wire format for one season
type compositeRankingsResponse struct {
	Season      string             `json:"season"`
	GeneratedAt time.Time          `json:"generatedAt"`
	Rankings    []compositeRankRow `json:"rankings"`
}

type compositeRankRow struct {
	TeamID   string  `json:"teamId"`
	TeamName string  `json:"teamName"`
	Rank     int     `json:"rank"`
	Score    float64 `json:"compositeScore"`
}

// NewCompositeRankClient creates a new composite ranking feed client
func NewCompositeRankClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, enabled bool, logger *log.Logger) *CompositeRankClient {
	return &CompositeRankClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		enabled:    enabled,
		logger:     logger,
	}
}

// FetchRankings retrieves the full ranked team list for a season
func (c *CompositeRankClient) FetchRankings(ctx context.Context, season string) ([]TeamRankRow, error) {
	if !c.enabled {
		return nil, NewFeedError(c.Name(), ErrCodeNetworkError, sourceDisabledMsg, ErrSourceDisabled)
	}

	start := time.Now()
	url := fmt.Sprintf("%s/seasons/%s/rankings", c.baseURL, season)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewFeedError(c.Name(), ErrCodeNetworkError, "failed to create request", err)
	}

	// Add authentication header
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		RecordFetchError(c.Name())
		return nil, NewFeedError(c.Name(), ErrCodeNetworkError, "failed to fetch rankings", err)
	}
	defer resp.Body.Close()

	// Handle authentication errors
	if resp.StatusCode == http.StatusUnauthorized {
		RecordFetchError(c.Name())
		return nil, NewFeedError(c.Name(), ErrCodeAuthenticationFailed, "invalid API key", ErrAuthenticationFailed)
	}

	// Handle rate limiting
	if resp.StatusCode == http.StatusTooManyRequests {
		RecordFetchError(c.Name())
		return nil, NewFeedError(c.Name(), ErrCodeRateLimitExceeded, "rate limit exceeded", ErrRateLimitExceeded)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, NewFeedError(c.Name(), ErrCodeNotFound, fmt.Sprintf("season %s not found", season), nil)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		RecordFetchError(c.Name())
		return nil, NewFeedError(c.Name(), ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var payload compositeRankingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, NewFeedError(c.Name(), ErrCodeInvalidData, "failed to parse response", err)
	}

	rows, err := c.convertRows(&payload)
	if err != nil {
		return nil, err
	}

	RecordFetch(c.Name(), time.Since(start).Seconds(), len(rows))
	return rows, nil
}

// Name returns the name of the rank source
func (c *CompositeRankClient) Name() string {
	return "composite"
}

// IsEnabled returns whether this rank source is currently enabled
func (c *CompositeRankClient) IsEnabled() bool {
	return c.enabled
}

func (c *CompositeRankClient) convertRows(payload *compositeRankingsResponse) ([]TeamRankRow, error) {
	rows := make([]TeamRankRow, 0, len(payload.Rankings))
	for _, r := range payload.Rankings {
		id, err := parseTeamID(r.TeamID)
		if err != nil {
			c.logger.Printf("Skipping ranking row with bad team id %q: %v", r.TeamID, err)
			continue
		}
		if r.Rank < 1 {
			return nil, NewFeedError(c.Name(), ErrCodeInvalidData,
				fmt.Sprintf("team %s delivered with rank %d", r.TeamName, r.Rank), ErrFeedData)
		}
		rows = append(rows, TeamRankRow{
			TeamID:    id,
			TeamName:  r.TeamName,
			Season:    payload.Season,
			Rank:      r.Rank,
			Score:     r.Score,
			UpdatedAt: payload.GeneratedAt,
		})
	}

	if len(rows) == 0 {
		return nil, NewFeedError(c.Name(), ErrCodeInvalidData, "feed returned no usable ranking rows", ErrFeedData)
	}

	return rows, nil
}
