package config

import (
	"fmt"
	"time"

	"github.com/samber/mo"

	"lazystream/internal/domain"
	"lazystream/internal/providers"
	"lazystream/internal/timeutil"
)

// Selection is the typed form of what the user asked to watch.
type Selection struct {
	Sport        domain.Sport
	Date         string
	Team         mo.Option[string]
	Feed         mo.Option[domain.FeedType]
	Quality      mo.Option[domain.Quality]
	CDN          domain.CDN
	ExcludeFeeds []domain.FeedType
}

// Selection parses the watch settings. An empty date means today in the
// configured timezone.
func (c Config) Selection(now time.Time) (Selection, error) {
	sport, err := domain.ParseSport(c.Sport)
	if err != nil {
		return Selection{}, fmt.Errorf("sport: %w", err)
	}
	cdn, err := domain.ParseCDN(c.CDN)
	if err != nil {
		return Selection{}, fmt.Errorf("cdn: %w", err)
	}

	date := providers.BusinessDate(now, c.Timezone)
	if c.Date != "" {
		if date, err = timeutil.NormalizeDate(c.Date); err != nil {
			return Selection{}, fmt.Errorf("date: %w", err)
		}
	}

	sel := Selection{Sport: sport, Date: date, CDN: cdn}
	if c.Team != "" {
		sel.Team = mo.Some(c.Team)
	}
	if c.Feed != "" {
		ft, err := domain.ParseFeedType(c.Feed)
		if err != nil {
			return Selection{}, fmt.Errorf("feed: %w", err)
		}
		sel.Feed = mo.Some(ft)
	}
	if c.Quality != "" {
		q, err := domain.ParseQuality(c.Quality)
		if err != nil {
			return Selection{}, fmt.Errorf("quality: %w", err)
		}
		sel.Quality = mo.Some(q)
	}
	for _, raw := range c.Resolve.ExcludeFeeds {
		ft, err := domain.ParseFeedType(raw)
		if err != nil {
			return Selection{}, fmt.Errorf("resolve.exclude_feeds: %w", err)
		}
		sel.ExcludeFeeds = append(sel.ExcludeFeeds, ft)
	}
	return sel, nil
}
