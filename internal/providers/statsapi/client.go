// Package statsapi reads schedules, rosters and game content from the NHL
// and MLB stats APIs.
package statsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"lazystream/internal/domain"
	domaingames "lazystream/internal/domain/games"
	"lazystream/internal/domain/teams"
	"lazystream/internal/providers"
)

// Config controls how the client reaches the stats API.
type Config struct {
	// BaseURL overrides the league default, mainly for tests.
	BaseURL    string
	HTTPClient *http.Client
}

// Client fetches league data and maps it to domain models.
type Client struct {
	league     league
	baseURL    string
	httpClient httpDoer
	now        func() time.Time
}

// New constructs a client for the sport's league.
func New(sport domain.Sport, cfg Config) (*Client, error) {
	l, err := leagueFor(sport)
	if err != nil {
		return nil, err
	}
	return newClient(l, cfg), nil
}

// NewNHL constructs a client for statsapi.web.nhl.com.
func NewNHL(cfg Config) *Client {
	return newClient(nhlLeague(), cfg)
}

// NewMLB constructs a client for statsapi.mlb.com.
func NewMLB(cfg Config) *Client {
	return newClient(mlbLeague(), cfg)
}

func newClient(l league, cfg Config) *Client {
	return &Client{
		league:     l,
		baseURL:    normalizeBaseURL(cfg.BaseURL, l.baseURL),
		httpClient: resolveHTTPClient(cfg.HTTPClient),
		now:        time.Now,
	}
}

// Name identifies the provider in logs and metrics.
func (c *Client) Name() string {
	return c.league.providerName()
}

// Sport reports which league the client serves.
func (c *Client) Sport() domain.Sport {
	return c.league.sport
}

// FetchSchedule lists the games of one YYYY-MM-DD date.
func (c *Client) FetchSchedule(ctx context.Context, date string) ([]domaingames.Game, error) {
	query := c.leagueQuery()
	query.Set("date", date)

	var payload scheduleResponse
	if err := c.getJSON(ctx, "/schedule", query, &payload); err != nil {
		return nil, err
	}
	return mapSchedule(payload, date), nil
}

// FetchTeams lists every team of the league.
func (c *Client) FetchTeams(ctx context.Context) ([]teams.Team, error) {
	var payload teamsResponse
	if err := c.getJSON(ctx, "/teams", c.leagueQuery(), &payload); err != nil {
		return nil, err
	}
	out := make([]teams.Team, 0, len(payload.Teams))
	for _, t := range payload.Teams {
		out = append(out, mapTeam(t))
	}
	return out, nil
}

// FetchGameContent fetches the media EPG and editorial preview of a game.
func (c *Client) FetchGameContent(ctx context.Context, gameID int) (domaingames.Content, error) {
	var payload contentResponse
	path := "/game/" + strconv.Itoa(gameID) + "/content"
	if err := c.getJSON(ctx, path, nil, &payload); err != nil {
		return domaingames.Content{}, err
	}
	return mapContent(payload), nil
}

func (c *Client) leagueQuery() url.Values {
	q := url.Values{}
	for k, v := range c.league.query {
		q[k] = append([]string(nil), v...)
	}
	return q
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	req, err := c.buildRequest(ctx, path, query)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return domain.NetworkError(c.Name()+" "+path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return &providers.RateLimitError{
			Provider:   c.Name(),
			StatusCode: resp.StatusCode,
			RetryAfter: providers.ParseRetryAfter(resp.Header, c.now()),
		}
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return &providers.StatusError{
			Provider:   c.Name(),
			Endpoint:   path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode %s: %w", c.Name(), path, err)
	}
	return nil
}

func (c *Client) buildRequest(ctx context.Context, path string, query url.Values) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}
