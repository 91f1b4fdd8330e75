package schedule

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"golang.org/x/sync/errgroup"

	"lazystream/internal/domain"
	"lazystream/internal/game"
	"lazystream/internal/logging"
	"lazystream/internal/stream"
)

// Resolution is the outcome of resolving one feed. MasterURL is set once the
// provider reported the feed live; QualityURL only when a quality was asked
// for. Err holds the first failure.
type Resolution struct {
	Feed       domain.FeedType
	Stream     *stream.Stream
	HostURL    string
	MasterURL  string
	QualityURL string
	Err        error
}

// Link is the most specific URL resolved so far.
func (r Resolution) Link() string {
	if r.QualityURL != "" {
		return r.QualityURL
	}
	return r.MasterURL
}

// GameResolution groups the feed outcomes of one game. Err is set when the
// game's feeds could not be listed at all.
type GameResolution struct {
	Game  *game.Game
	Feeds map[domain.FeedType]Resolution
	Err   error
}

type feedJob struct {
	game   int
	stream *stream.Stream
}

// ResolveAll lists the feeds of every game, then resolves every feed not in
// exclude concurrently. Per-feed and per-game failures are captured in the
// results; the returned error is only set when ctx ends first.
func (s *Schedule) ResolveAll(ctx context.Context, quality mo.Option[domain.Quality], exclude []domain.FeedType) ([]GameResolution, error) {
	start := time.Now()
	results := make([]GameResolution, len(s.games))
	catalogs := make([]map[domain.FeedType]*stream.Stream, len(s.games))

	var listing errgroup.Group
	listing.SetLimit(s.concurrency)
	for i, g := range s.games {
		results[i] = GameResolution{Game: g, Feeds: make(map[domain.FeedType]Resolution)}
		listing.Go(func() error {
			feeds, err := g.Feeds(ctx)
			if err != nil {
				results[i].Err = err
				return nil
			}
			catalogs[i] = feeds
			return nil
		})
	}
	_ = listing.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var jobs []feedJob
	for i, feeds := range catalogs {
		for _, ft := range domain.FeedTypes {
			st, ok := feeds[ft]
			if !ok || lo.Contains(exclude, ft) {
				continue
			}
			jobs = append(jobs, feedJob{game: i, stream: st})
		}
	}

	outcomes := make([]Resolution, len(jobs))
	var resolving errgroup.Group
	resolving.SetLimit(s.concurrency)
	for i, job := range jobs {
		resolving.Go(func() error {
			outcomes[i] = resolveFeed(ctx, job.stream, quality)
			return nil
		})
	}
	_ = resolving.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	failed := 0
	for i, job := range jobs {
		if outcomes[i].Err != nil {
			failed++
		}
		results[job.game].Feeds[outcomes[i].Feed] = outcomes[i]
	}

	logging.Info(logging.FromContext(ctx, s.logger), "bulk resolution finished",
		logging.FieldSport, s.sport.String(),
		logging.FieldDate, s.date,
		logging.FieldCount, len(jobs),
		"failed", failed,
		logging.FieldDurationMS, time.Since(start).Milliseconds(),
	)
	return results, nil
}

func resolveFeed(ctx context.Context, st *stream.Stream, quality mo.Option[domain.Quality]) Resolution {
	res := Resolution{Feed: st.FeedType(), Stream: st, HostURL: st.HostURL()}

	master, err := st.ResolveMaster(ctx)
	if err != nil {
		res.Err = err
		return res
	}
	res.MasterURL = master

	q, ok := quality.Get()
	if !ok {
		return res
	}
	link, err := st.ResolveQuality(ctx, q)
	if err != nil {
		res.Err = err
		return res
	}
	res.QualityURL = link
	return res
}
