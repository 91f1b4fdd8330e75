package server

import (
	"log/slog"
	"net/http"

	"lazystream/internal/config"
	"lazystream/internal/domain"
	"lazystream/internal/logging"
	"lazystream/internal/providers"
	"lazystream/internal/providers/fixture"
	"lazystream/internal/providers/statsapi"
)

func selectProvider(cfg config.Config, sport domain.Sport, client *http.Client, logger *slog.Logger) (providers.StatsProvider, error) {
	switch cfg.Provider {
	case "fixture":
		return fixture.New(sport), nil
	case "statsapi", "":
		return statsapi.New(sport, statsapi.Config{
			BaseURL:    cfg.StatsBaseURL,
			HTTPClient: client,
		})
	default:
		logging.Warn(logger, "unknown provider, falling back to fixture", logging.FieldProvider, cfg.Provider)
		return fixture.New(sport), nil
	}
}
