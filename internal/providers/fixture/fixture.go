// Package fixture serves a small deterministic league for local runs and
// tests without reaching the stats API.
package fixture

import (
	"context"
	"fmt"
	"time"

	"lazystream/internal/domain"
	domaingames "lazystream/internal/domain/games"
	"lazystream/internal/domain/teams"
)

const (
	GameEarly = 2019020002
	GameLate  = 2019020001
)

var roster = []teams.Team{
	{ID: 10, Name: "Toronto Maple Leafs", TeamName: "Maple Leafs", Abbreviation: "TOR"},
	{ID: 9, Name: "Ottawa Senators", TeamName: "Senators", Abbreviation: "OTT"},
	{ID: 15, Name: "Washington Capitals", TeamName: "Capitals", Abbreviation: "WSH"},
	{ID: 6, Name: "Boston Bruins", TeamName: "Bruins", Abbreviation: "BOS"},
	{ID: 8, Name: "Montréal Canadiens", TeamName: "Canadiens", Abbreviation: "MTL"},
}

// Provider returns a static schedule useful for local testing and bootstrapping.
type Provider struct {
	sport domain.Sport
	now   func() time.Time
}

// New creates a fixture provider that reports itself as the given sport.
func New(sport domain.Sport) *Provider {
	if sport == "" {
		sport = domain.SportNHL
	}
	return &Provider{
		sport: sport,
		now:   time.Now,
	}
}

func (p *Provider) Name() string        { return "fixture" }
func (p *Provider) Sport() domain.Sport { return p.sport }

// FetchSchedule returns two games on the requested date. The later game is
// listed first.
func (p *Provider) FetchSchedule(ctx context.Context, date string) ([]domaingames.Game, error) {
	_ = ctx

	day := p.now().UTC().Truncate(24 * time.Hour)
	if date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			return nil, fmt.Errorf("fixture: invalid date %q: %w", date, err)
		}
		day = parsed.UTC()
	}
	dateStr := day.Format("2006-01-02")

	return []domaingames.Game{
		{
			ID:        GameLate,
			Date:      dateStr,
			StartTime: day.Add(23 * time.Hour),
			HomeTeam:  teams.Team{ID: 10, Name: "Toronto Maple Leafs"},
			AwayTeam:  teams.Team{ID: 9, Name: "Ottawa Senators"},
			Status:    domaingames.StatusScheduled,
		},
		{
			ID:        GameEarly,
			Date:      dateStr,
			StartTime: day.Add(19 * time.Hour),
			HomeTeam:  teams.Team{ID: 15, Name: "Washington Capitals"},
			AwayTeam:  teams.Team{ID: 6, Name: "Boston Bruins"},
			Status:    domaingames.StatusScheduled,
		},
	}, nil
}

// FetchTeams returns a deterministic roster, including a team without a game.
func (p *Provider) FetchTeams(ctx context.Context) ([]teams.Team, error) {
	_ = ctx
	return append([]teams.Team(nil), roster...), nil
}

// FetchGameContent returns broadcast feeds for the fixture games.
func (p *Provider) FetchGameContent(ctx context.Context, gameID int) (domaingames.Content, error) {
	_ = ctx
	marker := p.sport.TVMarker()

	switch gameID {
	case GameLate:
		return domaingames.Content{
			EPG: []domaingames.EPGEntry{
				{Title: marker, Items: []domaingames.MediaItem{
					{ID: "1", FeedType: "HOME", PlaybackID: "65467003", CallLetters: "SNO", MediaState: "MEDIA_ON"},
					{ID: "2", FeedType: "AWAY", PlaybackID: "65467103", CallLetters: "TSN5", MediaState: "MEDIA_ON"},
					{ID: "3", FeedType: "FRENCH", PlaybackID: "65467203", CallLetters: "TVAS", MediaState: "MEDIA_ON"},
				}},
				{Title: "Audio", Items: []domaingames.MediaItem{
					{ID: "4", FeedType: "HOME", PlaybackID: "999", CallLetters: "CJCL"},
				}},
			},
			Preview: &domaingames.Preview{
				Headline: "Leafs open at home",
				Subhead:  "Toronto hosts Ottawa to start the season",
				Cuts: map[string]domaingames.ImageCut{
					"320x180": {AspectRatio: "16:9", Width: 320, Height: 180, Src: "https://img.example/320x180.jpg"},
				},
			},
		}, nil
	case GameEarly:
		return domaingames.Content{
			EPG: []domaingames.EPGEntry{
				{Title: marker, Items: []domaingames.MediaItem{
					{ID: "5", FeedType: "NATIONAL", PlaybackID: "65468003", CallLetters: "NBCSN", MediaState: "MEDIA_ON"},
					{ID: "6", FeedType: "COMPOSITE", PlaybackID: "65468103", MediaState: "MEDIA_ON"},
				}},
			},
		}, nil
	default:
		return domaingames.Content{}, fmt.Errorf("fixture: unknown game %d", gameID)
	}
}
