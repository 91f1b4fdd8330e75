package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"lazystream/internal/config"
	"lazystream/internal/httpclient"
	"lazystream/internal/logging"
	"lazystream/internal/metrics"
	"lazystream/internal/providers"
	"lazystream/internal/schedule"
	"lazystream/internal/store"
	"lazystream/internal/stream"
)

// providerFactory assembles the stats provider with shared wrappers.
type providerFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
	client  *http.Client
}

func newProviderFactory(logger *slog.Logger, metrics *metrics.Recorder, client *http.Client) providerFactory {
	return providerFactory{logger: logger, metrics: metrics, client: client}
}

func (f providerFactory) build(cfg config.Config, sel config.Selection) (providers.StatsProvider, error) {
	base, err := selectProvider(cfg, sel.Sport, f.client, f.logger)
	if err != nil {
		return nil, fmt.Errorf("build provider: %w", err)
	}
	logging.Info(f.logger, "provider selected",
		logging.FieldProvider, normalizeProviderName(cfg.Provider, base),
		logging.FieldSport, sel.Sport.String(),
	)
	return providers.NewInstrumentedProvider(base, f.logger, f.metrics), nil
}

// NewHTTPClient builds the outbound client shared by the stats provider and
// the stream host.
func NewHTTPClient(cfg config.Config, logger *slog.Logger) *http.Client {
	return httpclient.New(httpclient.Config{
		Timeout:           cfg.HTTP.Timeout,
		MaxConnsPerHost:   cfg.HTTP.MaxConnsPerHost,
		RequestsPerSecond: cfg.HTTP.RequestsPerSecond,
		UserAgent:         cfg.HTTP.UserAgent,
		Logger:            logger,
	})
}

// NewLoader wires the provider, the stream endpoint and the schedule options
// for the selection's sport and CDN.
func NewLoader(cfg config.Config, sel config.Selection, client *http.Client, logger *slog.Logger, recorder *metrics.Recorder) (store.Loader, error) {
	provider, err := newProviderFactory(logger, recorder, client).build(cfg, sel)
	if err != nil {
		return nil, err
	}
	opts := schedule.Options{
		Endpoint: stream.Endpoint{
			Host:    cfg.Host,
			Sport:   sel.Sport,
			CDN:     sel.CDN,
			Client:  client,
			Logger:  logger,
			Metrics: recorder,
		},
		Concurrency: cfg.Resolve.Concurrency,
		Logger:      logger,
	}
	return func(ctx context.Context, date string) (*schedule.Schedule, error) {
		return schedule.Load(ctx, provider, date, opts)
	}, nil
}
