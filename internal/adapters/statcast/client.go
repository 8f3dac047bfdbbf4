package statcast

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/yardwatch/engine/internal/domain/aggregate"
	"github.com/yardwatch/engine/internal/domain/model"
	"github.com/yardwatch/engine/pkg/metrics"
)

// defaultBaseURL is the root of the Statcast search CSV export.
const defaultBaseURL = "https://baseballsavant.mlb.com/statcast_search/csv"

const (
	defaultTimeout = 30 * time.Second
	dateLayout     = "2006-01-02"
)

// Client fetches pitch events from the Statcast search endpoint.
type Client struct {
	baseURL string
	http    *http.Client
}

// ClientOption applies a configuration option to the Client.
type ClientOption func(*Client)

// WithBaseURL overrides the upstream URL, mainly for tests.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithTimeout bounds a single upstream call.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// NewClient returns a Statcast client with the given options.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PlayerEvents fetches one player's pitches in the date range. The role
// decides which side of the matchup the player ID filters on.
func (c *Client) PlayerEvents(ctx context.Context, playerID int, role aggregate.Role, start, end time.Time) ([]model.PitchEvent, error) {
	q := c.baseQuery(start, end)
	if role == aggregate.RoleBatter {
		q.Set("player_type", "batter")
		q.Set("batters_lookup[]", fmt.Sprintf("%d", playerID))
	} else {
		q.Set("player_type", "pitcher")
		q.Set("pitchers_lookup[]", fmt.Sprintf("%d", playerID))
	}
	return c.fetch(ctx, q, "player")
}

// SeasonEvents fetches every recorded pitch in the date range.
func (c *Client) SeasonEvents(ctx context.Context, start, end time.Time) ([]model.PitchEvent, error) {
	return c.fetch(ctx, c.baseQuery(start, end), "season")
}

func (c *Client) baseQuery(start, end time.Time) url.Values {
	q := url.Values{}
	q.Set("all", "true")
	q.Set("type", "details")
	q.Set("game_date_gt", start.Format(dateLayout))
	q.Set("game_date_lt", end.Format(dateLayout))
	return q
}

// fetch performs the CSV request and parses rows into typed events.
func (c *Client) fetch(ctx context.Context, q url.Values, kind string) ([]model.PitchEvent, error) {
	fetchStart := time.Now()
	defer func() {
		metrics.RecordProviderFetchLatency(float64(time.Since(fetchStart).Milliseconds()))
	}()
	metrics.RecordProviderFetch(kind)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		metrics.RecordProviderError(kind)
		return nil, fmt.Errorf("%w: build request: %w", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordProviderError(kind)
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordProviderError(kind)
		return nil, fmt.Errorf("%w: HTTP %d", ErrUnavailable, resp.StatusCode)
	}

	events, err := ParseCSV(resp.Body)
	if err != nil {
		metrics.RecordProviderError(kind)
		return nil, err
	}
	metrics.RecordProviderRows(len(events))
	return events, nil
}
