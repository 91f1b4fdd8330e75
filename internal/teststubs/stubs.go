package teststubs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"lazystream/internal/domain"
	domaingames "lazystream/internal/domain/games"
	"lazystream/internal/domain/teams"
)

// ErrNoContent is returned by StubProvider for games without configured content.
var ErrNoContent = errors.New("stub: no content for game")

// StubProvider is a test double for providers.StatsProvider.
type StubProvider struct {
	SportVal domain.Sport
	Games    []domaingames.Game
	Teams    []teams.Team
	Content  map[int]domaingames.Content

	ScheduleErr error
	TeamsErr    error
	ContentErr  error

	ScheduleCalls atomic.Int32
	TeamsCalls    atomic.Int32
	ContentCalls  atomic.Int32

	// Notify is closed on the first schedule fetch.
	Notify     chan struct{}
	notifyOnce sync.Once

	mu    sync.Mutex
	dates []string
}

func (s *StubProvider) Name() string { return "stub" }

func (s *StubProvider) Sport() domain.Sport {
	if s.SportVal == "" {
		return domain.SportNHL
	}
	return s.SportVal
}

// FetchSchedule returns configured games and error while tracking calls.
func (s *StubProvider) FetchSchedule(ctx context.Context, date string) ([]domaingames.Game, error) {
	_ = ctx
	if s.Notify != nil {
		s.notifyOnce.Do(func() { close(s.Notify) })
	}
	s.ScheduleCalls.Add(1)
	s.mu.Lock()
	s.dates = append(s.dates, date)
	s.mu.Unlock()
	return s.Games, s.ScheduleErr
}

// FetchTeams returns the configured roster.
func (s *StubProvider) FetchTeams(ctx context.Context) ([]teams.Team, error) {
	_ = ctx
	s.TeamsCalls.Add(1)
	return s.Teams, s.TeamsErr
}

// FetchGameContent returns content keyed by game id.
func (s *StubProvider) FetchGameContent(ctx context.Context, gameID int) (domaingames.Content, error) {
	s.ContentCalls.Add(1)
	if err := ctx.Err(); err != nil {
		return domaingames.Content{}, err
	}
	if s.ContentErr != nil {
		return domaingames.Content{}, s.ContentErr
	}
	content, ok := s.Content[gameID]
	if !ok {
		return domaingames.Content{}, ErrNoContent
	}
	return content, nil
}

// Dates lists the dates passed to FetchSchedule in call order.
func (s *StubProvider) Dates() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.dates...)
}
