// Package schedule loads a sport's games for one day and resolves their feeds.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"golang.org/x/sync/errgroup"

	"lazystream/internal/domain"
	domaingames "lazystream/internal/domain/games"
	"lazystream/internal/domain/teams"
	"lazystream/internal/game"
	"lazystream/internal/logging"
	"lazystream/internal/providers"
	"lazystream/internal/stream"
)

const defaultConcurrency = 8

// Source is everything a schedule needs from a stats provider.
type Source interface {
	providers.ScheduleSource
	providers.GameContentSource
}

// Options configures Load. Endpoint is shared by every stream of the day.
type Options struct {
	Endpoint    stream.Endpoint
	Concurrency int
	Logger      *slog.Logger
}

// Schedule is one day of games for a sport together with the league roster.
type Schedule struct {
	sport       domain.Sport
	date        string
	teams       []teams.Team
	games       []*game.Game
	concurrency int
	logger      *slog.Logger
}

// Load fetches the day's games and the roster concurrently and builds the
// schedule. Any fetch failure is reported as ErrScheduleUnavailable.
func Load(ctx context.Context, source Source, date string, opts Options) (*Schedule, error) {
	logger := opts.Logger
	if logger == nil {
		logger = opts.Endpoint.Logger
	}
	sport := opts.Endpoint.Sport

	var (
		listed []domaingames.Game
		roster []teams.Team
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		listed, err = source.FetchSchedule(gctx, date)
		if err != nil {
			return fmt.Errorf("fetch schedule: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		roster, err = source.FetchTeams(gctx)
		if err != nil {
			return fmt.Errorf("fetch teams: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", domain.ErrScheduleUnavailable, sport, date, err)
	}

	byID := lo.KeyBy(roster, func(t teams.Team) int { return t.ID })
	lookup := func(gameID int, t teams.Team) teams.Team {
		if full, ok := byID[t.ID]; ok {
			return full
		}
		logging.Warn(logging.FromContext(ctx, logger), "team missing from roster",
			logging.FieldSport, sport.String(),
			logging.FieldGameID, gameID,
			logging.FieldTeam, t.ID,
		)
		return t
	}

	games := make([]*game.Game, 0, len(listed))
	for _, info := range listed {
		info.HomeTeam = lookup(info.ID, info.HomeTeam)
		info.AwayTeam = lookup(info.ID, info.AwayTeam)
		if info.Date == "" {
			info.Date = date
		}
		games = append(games, game.New(info, source, opts.Endpoint))
	}
	sort.SliceStable(games, func(i, j int) bool {
		a, b := games[i], games[j]
		if !a.StartTime().Equal(b.StartTime()) {
			return a.StartTime().Before(b.StartTime())
		}
		return a.AwayTeam().DisplayName() < b.AwayTeam().DisplayName()
	})

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	logging.Info(logging.FromContext(ctx, logger), "schedule loaded",
		logging.FieldSport, sport.String(),
		logging.FieldDate, date,
		logging.FieldCount, len(games),
	)

	return &Schedule{
		sport:       sport,
		date:        date,
		teams:       roster,
		games:       games,
		concurrency: concurrency,
		logger:      logger,
	}, nil
}

func (s *Schedule) Sport() domain.Sport { return s.sport }
func (s *Schedule) Date() string { return s.date }

// Teams returns the league roster.
func (s *Schedule) Teams() []teams.Team {
	return append([]teams.Team(nil), s.teams...)
}

// Games returns the day's games ordered by start time, then away team name.
func (s *Schedule) Games() []*game.Game {
	return append([]*game.Game(nil), s.games...)
}

// FindGameByTeamAbbreviation returns the first game, in schedule order, that
// the team plays in. The match is exact.
func (s *Schedule) FindGameByTeamAbbreviation(abbrev string) mo.Option[*game.Game] {
	return mo.TupleToOption(lo.Find(s.games, func(g *game.Game) bool {
		return g.HasTeam(abbrev)
	}))
}

// GameForTeam validates abbrev against the roster and returns the team's game.
// A known team without a game on this date yields ErrNoGame.
func (s *Schedule) GameForTeam(abbrev string) (*game.Game, error) {
	if err := s.ValidateTeamAbbreviation(abbrev); err != nil {
		return nil, err
	}
	g, ok := s.FindGameByTeamAbbreviation(abbrev).Get()
	if !ok {
		return nil, fmt.Errorf("%w: there are no games on %s for %s", domain.ErrNoGame, s.date, abbrev)
	}
	return g, nil
}

// ValidateTeamAbbreviation reports ErrUnknownTeam when no roster team has the
// abbreviation, whether or not it plays today.
func (s *Schedule) ValidateTeamAbbreviation(abbrev string) error {
	known := lo.ContainsBy(s.teams, func(t teams.Team) bool {
		return t.Abbreviation == abbrev
	})
	if !known {
		abbrevs := lo.Map(s.teams, func(t teams.Team, _ int) string { return t.Abbreviation })
		sort.Strings(abbrevs)
		return fmt.Errorf("%w: %q (known: %s)", domain.ErrUnknownTeam, abbrev, strings.Join(abbrevs, ", "))
	}
	return nil
}
