// Package game wraps one scheduled matchup with its lazily fetched broadcast
// feeds.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"

	"lazystream/internal/domain"
	domaingames "lazystream/internal/domain/games"
	"lazystream/internal/domain/teams"
	"lazystream/internal/logging"
	"lazystream/internal/providers"
	"lazystream/internal/stream"
)

// Game is a scheduled matchup. Its content is fetched at most once and the
// feed catalog built from it is reused, so streams keep their memoized state
// across calls.
type Game struct {
	info     domaingames.Game
	source   providers.GameContentSource
	endpoint stream.Endpoint
	logger   *slog.Logger

	content stream.Slot[domaingames.Content]

	feedsMu sync.Mutex
	feeds   map[domain.FeedType]*stream.Stream
}

// New builds a game. The endpoint is shared by every stream of the game.
func New(info domaingames.Game, source providers.GameContentSource, endpoint stream.Endpoint) *Game {
	return &Game{
		info:     info,
		source:   source,
		endpoint: endpoint,
		logger:   endpoint.Logger,
	}
}

func (g *Game) ID() int { return g.info.ID }
func (g *Game) Date() string { return g.info.Date }
func (g *Game) StartTime() time.Time { return g.info.StartTime }
func (g *Game) HomeTeam() teams.Team { return g.info.HomeTeam }
func (g *Game) AwayTeam() teams.Team { return g.info.AwayTeam }
func (g *Game) Status() domaingames.GameStatus { return g.info.Status }
func (g *Game) Sport() domain.Sport { return g.endpoint.Sport }

// Info returns the schedule entry the game was built from.
func (g *Game) Info() domaingames.Game { return g.info }

// HasTeam reports whether either side has the abbreviation.
func (g *Game) HasTeam(abbrev string) bool {
	return g.info.HomeTeam.Abbreviation == abbrev || g.info.AwayTeam.Abbreviation == abbrev
}

// Feeds returns the game's broadcast feeds keyed by type.
func (g *Game) Feeds(ctx context.Context) (map[domain.FeedType]*stream.Stream, error) {
	content, err := g.loadContent(ctx)
	if err != nil {
		return nil, err
	}

	g.feedsMu.Lock()
	defer g.feedsMu.Unlock()
	if g.feeds == nil {
		g.feeds = buildCatalog(content, g.endpoint.Sport, func(ft domain.FeedType, id string) *stream.Stream {
			return stream.New(g.endpoint, g.info.ID, g.info.Date, ft, id)
		})
		logging.Debug(logging.FromContext(ctx, g.logger), "feed catalog built",
			logging.FieldGameID, g.info.ID,
			logging.FieldCount, len(g.feeds),
		)
	}
	return g.feeds, nil
}

// FeedTypes lists available feeds in display order.
func (g *Game) FeedTypes(ctx context.Context) ([]domain.FeedType, error) {
	feeds, err := g.Feeds(ctx)
	if err != nil {
		return nil, err
	}
	types := lo.Keys(feeds)
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types, nil
}

// StreamWithFeedOrDefault picks a feed per SelectFeed.
func (g *Game) StreamWithFeedOrDefault(ctx context.Context, explicit mo.Option[domain.FeedType], teamAbbrev string) (*stream.Stream, error) {
	feeds, err := g.Feeds(ctx)
	if err != nil {
		return nil, err
	}
	s, err := SelectFeed(explicit, teamAbbrev, g.info.HomeTeam, g.info.AwayTeam, feeds)
	if err != nil {
		return nil, fmt.Errorf("game %d: %w", g.info.ID, err)
	}
	return s, nil
}

// Refresh swaps a stream with a cached redirect or manifest failure for an
// unattempted copy in the catalog and returns the stream now held for its
// feed. Streams without a failure are returned unchanged.
func (g *Game) Refresh(s *stream.Stream) *stream.Stream {
	if s == nil || !s.Failed() {
		return s
	}
	g.feedsMu.Lock()
	defer g.feedsMu.Unlock()
	current, ok := g.feeds[s.FeedType()]
	if ok && current != s && !current.Failed() {
		// Another caller already swapped it.
		return current
	}
	fresh := s.Fresh()
	if ok {
		g.feeds[s.FeedType()] = fresh
	}
	return fresh
}

// PreviewDescription is the subhead of the first preview article, if any.
// Failures are swallowed.
func (g *Game) PreviewDescription(ctx context.Context) mo.Option[string] {
	preview := g.preview(ctx)
	if preview == nil || preview.Subhead == "" {
		return mo.None[string]()
	}
	return mo.Some(preview.Subhead)
}

// PreviewImages is the image cut set of the first preview article, if any.
func (g *Game) PreviewImages(ctx context.Context) mo.Option[map[string]domaingames.ImageCut] {
	preview := g.preview(ctx)
	if preview == nil || len(preview.Cuts) == 0 {
		return mo.None[map[string]domaingames.ImageCut]()
	}
	return mo.Some(preview.Cuts)
}

// Description is the preview subhead or a generic matchup line.
func (g *Game) Description(ctx context.Context) string {
	return g.PreviewDescription(ctx).OrElse(fmt.Sprintf("Watch the %s take on the %s.",
		g.info.AwayTeam.DisplayName(), g.info.HomeTeam.DisplayName()))
}

func (g *Game) preview(ctx context.Context) *domaingames.Preview {
	content, err := g.loadContent(ctx)
	if err != nil {
		return nil
	}
	return content.Preview
}

func (g *Game) loadContent(ctx context.Context) (domaingames.Content, error) {
	content, err := g.content.Resolve(ctx, func(ctx context.Context) (domaingames.Content, error) {
		return g.source.FetchGameContent(ctx, g.info.ID)
	})
	if err != nil {
		if domain.IsCanceled(err) {
			return domaingames.Content{}, err
		}
		return domaingames.Content{}, fmt.Errorf("game %d: %w: %w", g.info.ID, domain.ErrGameContentUnavailable, err)
	}
	return content, nil
}
