package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"lazystream/internal/logging"
	"lazystream/internal/providers"
)

const defaultRefreshInterval = 5 * time.Minute

// Warmer loads the schedule of a date ahead of requests.
type Warmer interface {
	Warm(ctx context.Context, date string) (int, error)
}

// Refresher warms today's schedule on an interval.
type Refresher struct {
	warmer   Warmer
	logger   *slog.Logger
	interval time.Duration
	timezone string
	now      func() time.Time

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	tracker statusTracker
}

// NewRefresher constructs a Refresher. Today is computed in timezone.
func NewRefresher(warmer Warmer, logger *slog.Logger, interval time.Duration, timezone string) *Refresher {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	return &Refresher{
		warmer:   warmer,
		logger:   logger,
		interval: interval,
		timezone: timezone,
		now:      time.Now,
		done:     make(chan struct{}),
	}
}

// Start begins refreshing until the context is cancelled or Stop is called.
func (r *Refresher) Start(ctx context.Context) {
	r.startMu.Lock()
	if r.started {
		r.startMu.Unlock()
		return
	}
	r.started = true
	r.startMu.Unlock()

	r.ticker = time.NewTicker(r.interval)

	go func() {
		logging.Info(r.logger, "refresher started", logging.FieldDurationMS, r.interval.Milliseconds())
		r.refreshOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				r.ticker.Stop()
				logging.Info(r.logger, "refresher stopped")
				return
			case <-r.done:
				r.ticker.Stop()
				logging.Info(r.logger, "refresher stopped")
				return
			case <-r.ticker.C:
				r.refreshOnce(ctx)
			}
		}
	}()
}

// Stop halts the loop.
func (r *Refresher) Stop(ctx context.Context) error {
	_ = ctx
	r.stopOnce.Do(func() {
		close(r.done)
	})
	return nil
}

// Status returns a snapshot of the refresher's recent health.
func (r *Refresher) Status() Status {
	return r.tracker.snapshot()
}

func (r *Refresher) refreshOnce(ctx context.Context) {
	start := r.now()
	r.tracker.recordAttempt(start)
	date := providers.BusinessDate(start, r.timezone)

	count, err := r.warmer.Warm(ctx, date)
	if err != nil {
		logging.Error(r.logger, "schedule refresh failed", err,
			logging.FieldDate, date,
			logging.FieldDurationMS, time.Since(start).Milliseconds(),
		)
		r.tracker.recordFailure(err, start)
		return
	}
	r.tracker.recordSuccess(start)
	logging.Info(r.logger, "schedule refreshed",
		logging.FieldDate, date,
		logging.FieldCount, count,
		logging.FieldDurationMS, time.Since(start).Milliseconds(),
	)
}
