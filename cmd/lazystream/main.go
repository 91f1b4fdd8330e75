// Command lazystream resolves the stream of a team's game, or of every game
// of the day, and prints the playable links. It is configured entirely
// through LAZYSTREAM_* variables, a .env file or lazystream.yaml.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lazystream/internal/config"
	"lazystream/internal/domain"
	"lazystream/internal/logging"
	"lazystream/internal/poller"
	"lazystream/internal/schedule"
	"lazystream/internal/server"
)

const appVersion = "dev"

type app struct {
	cfg    config.Config
	logger *slog.Logger
	client *http.Client
	out    io.Writer
	now    func() time.Time
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}
	logger := logging.NewLogger(logging.Config{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Service: "lazystream",
		Version: appVersion,
		Output:  os.Stderr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app{
		cfg:    cfg,
		logger: logger,
		client: server.NewHTTPClient(cfg, logger),
		out:    os.Stdout,
		now:    time.Now,
	}
	if err := a.run(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			logging.Error(logger, "resolution failed", err)
		}
		os.Exit(1)
	}
}

func (a app) run(ctx context.Context) error {
	sel, err := a.cfg.Selection(a.now())
	if err != nil {
		return err
	}
	loader, err := server.NewLoader(a.cfg, sel, a.client, a.logger, nil)
	if err != nil {
		return err
	}
	sched, err := loader(ctx, sel.Date)
	if err != nil {
		return err
	}

	team, ok := sel.Team.Get()
	if !ok {
		return a.resolveDay(ctx, sched, sel)
	}
	return a.resolveTeam(ctx, sched, sel, team)
}

func (a app) resolveTeam(ctx context.Context, sched *schedule.Schedule, sel config.Selection, team string) error {
	g, err := sched.GameForTeam(team)
	if err != nil {
		return err
	}
	s, err := g.StreamWithFeedOrDefault(ctx, sel.Feed, team)
	if err != nil {
		return err
	}

	logging.Info(a.logger, "feed selected",
		logging.FieldGameID, g.ID(),
		logging.FieldTeam, team,
		logging.FieldFeed, s.FeedType().String(),
	)
	availability := poller.NewAvailability(a.cfg.Poll.Interval, a.cfg.Poll.FailFast, a.logger, nil)
	link, err := availability.Wait(ctx, s, sel.Quality)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, link)
	return err
}

func (a app) resolveDay(ctx context.Context, sched *schedule.Schedule, sel config.Selection) error {
	results, err := sched.ResolveAll(ctx, sel.Quality, sel.ExcludeFeeds)
	if err != nil {
		return err
	}
	for _, r := range results {
		matchup := r.Game.AwayTeam().Abbreviation + " @ " + r.Game.HomeTeam().Abbreviation
		if r.Err != nil {
			fmt.Fprintf(a.out, "%s\t-\terror: %v\n", matchup, r.Err)
			continue
		}
		for _, ft := range domain.FeedTypes {
			res, ok := r.Feeds[ft]
			if !ok {
				continue
			}
			if res.Err != nil {
				fmt.Fprintf(a.out, "%s\t%s\terror: %v\n", matchup, ft, res.Err)
				continue
			}
			fmt.Fprintf(a.out, "%s\t%s\t%s\n", matchup, ft, res.Link())
		}
	}
	return nil
}
