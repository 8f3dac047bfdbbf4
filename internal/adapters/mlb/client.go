package mlb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yardwatch/engine/internal/adapters/cache"
)

// defaultBaseURL is the root of the MLB Stats API. It is free and
// requires no authentication.
const defaultBaseURL = "https://statsapi.mlb.com/api/v1"

const (
	defaultTimeout    = 15 * time.Second
	defaultLineupTTL  = 5 * time.Minute
	lineupCacheSize   = 100
	scheduleCacheSize = 50
	maxSearchResults  = 20
	lineupSlots       = 9
)

// ErrUpstream marks a failed MLB Stats API call.
var ErrUpstream = errors.New("mlb api unavailable")

// Client is a minimal MLB Stats API client with short-lived caches for
// schedule and lineup lookups (both change close to game time).
type Client struct {
	baseURL string
	season  int
	http    *http.Client

	lineups   *cache.Store[*Game]
	schedules *cache.Store[[]GameSummary]
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL overrides the upstream URL, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithSeason sets the season used for player search.
func WithSeason(season int) Option {
	return func(c *Client) {
		if season > 0 {
			c.season = season
		}
	}
}

// WithTimeout bounds a single upstream call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLineupTTL sets how long schedule and lineup responses are reused.
func WithLineupTTL(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl > 0 {
			c.lineups = cache.New[*Game](
				cache.WithName("lineups"), cache.WithCapacity(lineupCacheSize), cache.WithTTL(ttl))
			c.schedules = cache.New[[]GameSummary](
				cache.WithName("schedules"), cache.WithCapacity(scheduleCacheSize), cache.WithTTL(ttl))
		}
	}
}

// NewClient returns an MLB Stats API client with the given options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	c.lineups = cache.New[*Game](
		cache.WithName("lineups"), cache.WithCapacity(lineupCacheSize), cache.WithTTL(defaultLineupTTL))
	c.schedules = cache.New[[]GameSummary](
		cache.WithName("schedules"), cache.WithCapacity(scheduleCacheSize), cache.WithTTL(defaultLineupTTL))

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get performs a GET against the API and JSON-decodes the body into out.
func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %w", ErrUpstream, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %w", ErrUpstream, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: GET %s: HTTP %d", ErrUpstream, path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: GET %s: decode: %w", ErrUpstream, path, err)
	}
	return nil
}

// Schedule returns the MLB schedule for one date.
func (c *Client) Schedule(ctx context.Context, date time.Time) ([]GameSummary, error) {
	dateStr := date.Format("2006-01-02")
	cacheKey := "schedule_" + dateStr
	if games, ok := c.schedules.Get(cacheKey); ok {
		return games, nil
	}

	q := url.Values{}
	q.Set("sportId", "1")
	q.Set("date", dateStr)
	q.Set("hydrate", "probablePitcher,team")

	var body struct {
		Dates []struct {
			Games []struct {
				GamePk int `json:"gamePk"`
				Teams  struct {
					Home scheduleTeam `json:"home"`
					Away scheduleTeam `json:"away"`
				} `json:"teams"`
			} `json:"games"`
		} `json:"dates"`
	}
	if err := c.get(ctx, "/schedule", q, &body); err != nil {
		return nil, err
	}

	var games []GameSummary
	for _, d := range body.Dates {
		for _, g := range d.Games {
			games = append(games, GameSummary{
				GameID:      strconv.Itoa(g.GamePk),
				GameDate:    dateStr,
				HomeTeam:    g.Teams.Home.Team.Name,
				AwayTeam:    g.Teams.Away.Team.Name,
				HomePitcher: g.Teams.Home.ProbablePitcher.FullName,
				AwayPitcher: g.Teams.Away.ProbablePitcher.FullName,
			})
		}
	}

	c.schedules.Set(cacheKey, games)
	return games, nil
}

type scheduleTeam struct {
	Team struct {
		Name string `json:"name"`
	} `json:"team"`
	ProbablePitcher struct {
		FullName string `json:"fullName"`
	} `json:"probablePitcher"`
}

// GameLineups returns both lineups for a game from its boxscore. Works
// for completed and in-progress games.
func (c *Client) GameLineups(ctx context.Context, gameID string) (*Game, error) {
	cacheKey := "game_" + gameID
	if g, ok := c.lineups.Get(cacheKey); ok {
		return g, nil
	}

	var box struct {
		Teams struct {
			Home boxscoreTeam `json:"home"`
			Away boxscoreTeam `json:"away"`
		} `json:"teams"`
	}
	if err := c.get(ctx, "/game/"+gameID+"/boxscore", nil, &box); err != nil {
		return nil, err
	}

	game := &Game{
		GameID:   gameID,
		Venue:    box.Teams.Home.Team.Venue.Name,
		HomeTeam: box.Teams.Home.lineup(),
		AwayTeam: box.Teams.Away.lineup(),
		Status:   "Final",
	}

	c.lineups.Set(cacheKey, game)
	return game, nil
}

type boxscoreTeam struct {
	Team struct {
		ID    int    `json:"id"`
		Name  string `json:"name"`
		Venue struct {
			Name string `json:"name"`
		} `json:"venue"`
	} `json:"team"`
	Players      map[string]boxscorePlayer `json:"players"`
	BattingOrder []int                     `json:"battingOrder"`
	Pitchers     []int                     `json:"pitchers"`
}

type boxscorePlayer struct {
	Person struct {
		FullName string `json:"fullName"`
	} `json:"person"`
	Position struct {
		Abbreviation string `json:"abbreviation"`
	} `json:"position"`
}

func (t *boxscoreTeam) playerName(id int) string {
	if p, ok := t.Players["ID"+strconv.Itoa(id)]; ok && p.Person.FullName != "" {
		return p.Person.FullName
	}
	return "Unknown"
}

func (t *boxscoreTeam) position(id int) string {
	if p, ok := t.Players["ID"+strconv.Itoa(id)]; ok {
		return p.Position.Abbreviation
	}
	return ""
}

func (t *boxscoreTeam) lineup() TeamLineup {
	tl := TeamLineup{
		TeamID:     t.Team.ID,
		TeamName:   t.Team.Name,
		TeamAbbrev: TeamAbbrev(t.Team.ID),
	}
	order := t.BattingOrder
	if len(order) > lineupSlots {
		order = order[:lineupSlots]
	}
	for i, batterID := range order {
		tl.Lineup = append(tl.Lineup, LineupPlayer{
			BatterID:     batterID,
			Name:         t.playerName(batterID),
			BattingOrder: i + 1,
			Position:     t.position(batterID),
		})
	}
	if len(t.Pitchers) > 0 {
		tl.StartingPitcherID = t.Pitchers[0]
		tl.StartingPitcherName = t.playerName(t.Pitchers[0])
	}
	return tl
}

// peopleResponse is shared by single and batch player lookups.
type peopleResponse struct {
	People []struct {
		ID          int    `json:"id"`
		FullName    string `json:"fullName"`
		CurrentTeam struct {
			ID           int    `json:"id"`
			Name         string `json:"name"`
			Abbreviation string `json:"abbreviation"`
		} `json:"currentTeam"`
		PrimaryPosition struct {
			Abbreviation string `json:"abbreviation"`
		} `json:"primaryPosition"`
		BatSide struct {
			Code string `json:"code"`
		} `json:"batSide"`
		PitchHand struct {
			Code string `json:"code"`
		} `json:"pitchHand"`
	} `json:"people"`
}

func (r *peopleResponse) infos() map[int]PlayerInfo {
	out := make(map[int]PlayerInfo, len(r.People))
	for _, p := range r.People {
		team := p.CurrentTeam.Abbreviation
		if team == "" {
			team = p.CurrentTeam.Name
		}
		out[p.ID] = PlayerInfo{
			ID:       p.ID,
			Name:     p.FullName,
			Team:     team,
			Position: p.PrimaryPosition.Abbreviation,
			Bats:     p.BatSide.Code,
			Throws:   p.PitchHand.Code,
		}
	}
	return out
}

// Player returns identity details for one player.
func (c *Client) Player(ctx context.Context, playerID int) (PlayerInfo, error) {
	var body peopleResponse
	if err := c.get(ctx, "/people/"+strconv.Itoa(playerID), nil, &body); err != nil {
		return PlayerInfo{}, err
	}
	if info, ok := body.infos()[playerID]; ok {
		return info, nil
	}
	return PlayerInfo{}, fmt.Errorf("%w: player %d not in response", ErrUpstream, playerID)
}

// Players returns identity details for many players in one request.
// The API accepts roughly fifty comma-separated IDs per call.
func (c *Client) Players(ctx context.Context, playerIDs []int) (map[int]PlayerInfo, error) {
	if len(playerIDs) == 0 {
		return map[int]PlayerInfo{}, nil
	}
	ids := make([]string, len(playerIDs))
	for i, id := range playerIDs {
		ids[i] = strconv.Itoa(id)
	}
	q := url.Values{}
	q.Set("personIds", strings.Join(ids, ","))

	var body peopleResponse
	if err := c.get(ctx, "/people", q, &body); err != nil {
		return nil, err
	}
	return body.infos(), nil
}

// SearchPlayers searches active players by name.
func (c *Client) SearchPlayers(ctx context.Context, query string) ([]PlayerInfo, error) {
	q := url.Values{}
	if c.season > 0 {
		q.Set("season", strconv.Itoa(c.season))
	}
	q.Set("search", query)

	var body peopleResponse
	if err := c.get(ctx, "/sports/1/players", q, &body); err != nil {
		return nil, err
	}

	// The roster endpoint does not filter server-side.
	needle := strings.ToLower(query)
	all := body.infos()
	out := make([]PlayerInfo, 0, maxSearchResults)
	for _, p := range body.People {
		if !strings.Contains(strings.ToLower(p.FullName), needle) {
			continue
		}
		out = append(out, all[p.ID])
		if len(out) == maxSearchResults {
			break
		}
	}
	return out, nil
}
