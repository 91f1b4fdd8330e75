package game

import (
	"github.com/samber/mo"

	"lazystream/internal/domain"
	"lazystream/internal/domain/teams"
	"lazystream/internal/stream"
)

// SelectFeed chooses which feed to watch. An explicit feed wins when
// available. Otherwise the team's own broadcast is targeted: Home when the
// abbreviation is the home team's, Away otherwise. A missing target falls back
// to National, Home, then Away.
func SelectFeed(
	explicit mo.Option[domain.FeedType],
	teamAbbrev string,
	home, _ teams.Team,
	available map[domain.FeedType]*stream.Stream,
) (*stream.Stream, error) {
	target, requested := explicit.Get()
	if !requested {
		target = domain.FeedAway
		if teamAbbrev == home.Abbreviation {
			target = domain.FeedHome
		}
	}
	if s := available[target]; s != nil {
		return s, nil
	}
	for _, ft := range domain.FeedFallbackOrder {
		if s := available[ft]; s != nil {
			return s, nil
		}
	}
	return nil, domain.ErrNoMatchingFeed
}
