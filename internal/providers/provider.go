package providers

import (
	"context"

	"lazystream/internal/domain"
	domaingames "lazystream/internal/domain/games"
	"lazystream/internal/domain/teams"
)

// ScheduleSource lists a day's games and the league roster.
// The date parameter is a YYYY-MM-DD business date.
type ScheduleSource interface {
	FetchSchedule(ctx context.Context, date string) ([]domaingames.Game, error)
	FetchTeams(ctx context.Context) ([]teams.Team, error)
}

// GameContentSource fetches the media and editorial payload of one game.
type GameContentSource interface {
	FetchGameContent(ctx context.Context, gameID int) (domaingames.Content, error)
}

// StatsProvider is a league-specific stats API. Implementations are chosen
// once at construction time for a sport.
type StatsProvider interface {
	ScheduleSource
	GameContentSource
	Name() string
	Sport() domain.Sport
}
