package providers

import (
	"context"
	"log/slog"
	"time"

	"lazystream/internal/domain"
	domaingames "lazystream/internal/domain/games"
	"lazystream/internal/domain/teams"
	"lazystream/internal/logging"
	"lazystream/internal/metrics"
)

// instrumentedProvider records latency, failures and rate limit hits for
// every call to the wrapped provider.
type instrumentedProvider struct {
	inner   StatsProvider
	logger  *slog.Logger
	metrics *metrics.Recorder
	now     func() time.Time
}

// NewInstrumentedProvider wraps a provider with metrics and failure logging.
func NewInstrumentedProvider(inner StatsProvider, logger *slog.Logger, recorder *metrics.Recorder) StatsProvider {
	return &instrumentedProvider{
		inner:   inner,
		logger:  logger,
		metrics: recorder,
		now:     time.Now,
	}
}

func (p *instrumentedProvider) Name() string        { return p.inner.Name() }
func (p *instrumentedProvider) Sport() domain.Sport { return p.inner.Sport() }

func (p *instrumentedProvider) FetchSchedule(ctx context.Context, date string) ([]domaingames.Game, error) {
	start := p.now()
	games, err := p.inner.FetchSchedule(ctx, date)
	p.observe(ctx, "schedule", start, err, slog.String(logging.FieldDate, date))
	return games, err
}

func (p *instrumentedProvider) FetchTeams(ctx context.Context) ([]teams.Team, error) {
	start := p.now()
	roster, err := p.inner.FetchTeams(ctx)
	p.observe(ctx, "teams", start, err)
	return roster, err
}

func (p *instrumentedProvider) FetchGameContent(ctx context.Context, gameID int) (domaingames.Content, error) {
	start := p.now()
	content, err := p.inner.FetchGameContent(ctx, gameID)
	p.observe(ctx, "content", start, err, slog.Int(logging.FieldGameID, gameID))
	return content, err
}

func (p *instrumentedProvider) observe(ctx context.Context, call string, start time.Time, err error, attrs ...any) {
	name := p.inner.Name()
	elapsed := p.now().Sub(start)
	p.metrics.RecordProviderAttempt(name, elapsed, err)

	if rl, ok := AsRateLimitError(err); ok {
		p.metrics.RecordRateLimit(name, rl.RetryAfter)
		logWithProvider(ctx, p.logger, slog.LevelWarn, name, "provider rate limited",
			append(attrs, "call", call, "retry_after", rl.RetryAfter)...)
		return
	}
	if err != nil {
		logWithProvider(ctx, p.logger, slog.LevelWarn, name, "provider call failed",
			append(attrs, "call", call, "error", err, logging.FieldDurationMS, elapsed.Milliseconds())...)
		return
	}
	logWithProvider(ctx, p.logger, slog.LevelDebug, name, "provider call succeeded",
		append(attrs, "call", call, logging.FieldDurationMS, elapsed.Milliseconds())...)
}
