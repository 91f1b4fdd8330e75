package poller

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/mo"

	"lazystream/internal/domain"
	"lazystream/internal/logging"
	"lazystream/internal/metrics"
	"lazystream/internal/stream"
)

// DefaultAvailabilityInterval is the wait between attempts on a feed that is
// not live yet.
const DefaultAvailabilityInterval = 30 * time.Minute

// Availability re-resolves a feed until it is live. Feeds that are not live
// yet and network failures are retried after Interval; every other failure
// ends the wait.
type Availability struct {
	interval time.Duration
	failFast bool
	logger   *slog.Logger
	metrics  *metrics.Recorder
	now      func() time.Time
	sleep    func(context.Context, time.Duration) error

	tracker statusTracker
}

// NewAvailability builds a polling loop. A non-positive interval uses
// DefaultAvailabilityInterval. With failFast the first failure is returned.
func NewAvailability(interval time.Duration, failFast bool, logger *slog.Logger, recorder *metrics.Recorder) *Availability {
	if interval <= 0 {
		interval = DefaultAvailabilityInterval
	}
	return &Availability{
		interval: interval,
		failFast: failFast,
		logger:   logger,
		metrics:  recorder,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// Interval is the wait between attempts.
func (a *Availability) Interval() time.Duration { return a.interval }

// Wait resolves s, to the requested quality when one is given and to the
// master URL otherwise. The first attempt uses s itself; later attempts use
// a fresh copy so the provider is asked again.
func (a *Availability) Wait(ctx context.Context, s *stream.Stream, quality mo.Option[domain.Quality]) (string, error) {
	logger := logging.FromContext(ctx, a.logger)
	current := s
	for attempt := 1; ; attempt++ {
		if attempt > 1 {
			current = s.Fresh()
		}

		start := a.now()
		a.tracker.recordAttempt(start)
		link, err := resolve(ctx, current, quality)
		a.metrics.RecordPollerCycle(a.now().Sub(start), err)
		if err == nil {
			a.tracker.recordSuccess(start)
			logging.Info(logger, "stream available",
				logging.FieldGameID, s.GameID(),
				logging.FieldFeed, s.FeedType().String(),
				logging.FieldAttempt, attempt,
			)
			return link, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		a.tracker.recordFailure(err, start)
		if a.failFast || !domain.IsRecoverable(err) {
			return "", err
		}

		logging.Info(logger, "stream not available yet, waiting",
			logging.FieldGameID, s.GameID(),
			logging.FieldFeed, s.FeedType().String(),
			logging.FieldAttempt, attempt,
			"retry_at", start.Add(a.interval).Format(time.RFC3339),
			"error", err,
		)
		if err := a.sleep(ctx, a.interval); err != nil {
			return "", err
		}
	}
}

// Status returns a snapshot of the loop's recent health.
func (a *Availability) Status() Status {
	return a.tracker.snapshot()
}

func resolve(ctx context.Context, s *stream.Stream, quality mo.Option[domain.Quality]) (string, error) {
	if q, ok := quality.Get(); ok {
		return s.ResolveQuality(ctx, q)
	}
	return s.ResolveMaster(ctx)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
