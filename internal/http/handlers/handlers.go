package handlers

import (
	"context"
	"log/slog"
	nethttp "net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/samber/mo"
	"golang.org/x/sync/errgroup"

	"lazystream/internal/domain"
	domaingames "lazystream/internal/domain/games"
	"lazystream/internal/game"
	"lazystream/internal/logging"
	"lazystream/internal/poller"
	"lazystream/internal/providers"
	"lazystream/internal/schedule"
	"lazystream/internal/stream"
	"lazystream/internal/timeutil"
)

const summaryConcurrency = 4

type nowFunc func() time.Time

// ScheduleStore serves loaded schedules by date.
type ScheduleStore interface {
	Get(ctx context.Context, date string) (*schedule.Schedule, error)
	Sport() domain.Sport
}

// Handler wires HTTP routes to cached schedules.
type Handler struct {
	schedules ScheduleStore
	timezone  string
	logger    *slog.Logger
	now       nowFunc
	statusFn  func() poller.Status
}

// NewHandler constructs a Handler. timezone decides which day "today" is.
func NewHandler(schedules ScheduleStore, timezone string, logger *slog.Logger, statusFn func() poller.Status) *Handler {
	return &Handler{
		schedules: schedules,
		timezone:  timezone,
		logger:    logger,
		now:       time.Now,
		statusFn:  statusFn,
	}
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic (e.g., for Kubernetes probes).
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.statusFn == nil {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	status := h.statusFn()
	if status.IsReady() {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	msg := status.LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, nethttp.StatusServiceUnavailable, msg, h.logger)
}

// Games lists the day's games with their descriptions and available feeds.
func (h *Handler) Games(w nethttp.ResponseWriter, r *nethttp.Request) {
	sched, ok := h.loadSchedule(w, r)
	if !ok {
		return
	}

	games := sched.Games()
	summaries := make([]domaingames.Summary, len(games))
	var eg errgroup.Group
	eg.SetLimit(summaryConcurrency)
	for i, g := range games {
		eg.Go(func() error {
			summaries[i] = summarize(r.Context(), g)
			return nil
		})
	}
	_ = eg.Wait()

	logging.Info(loggerFromContext(r, h.logger), "served games",
		logging.FieldDate, sched.Date(),
		logging.FieldCount, len(summaries),
	)
	writeJSON(w, nethttp.StatusOK, domaingames.NewDayResponse(sched.Sport(), sched.Date(), summaries), h.logger)
}

// Feeds lists the feeds of the game a team plays on the date.
func (h *Handler) Feeds(w nethttp.ResponseWriter, r *nethttp.Request) {
	sched, ok := h.loadSchedule(w, r)
	if !ok {
		return
	}
	g, err := findGame(sched, chi.URLParam(r, "team"))
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	feeds, err := g.Feeds(r.Context())
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	resp := domaingames.FeedsResponse{GameID: g.ID(), Date: g.Date(), Feeds: []domaingames.FeedSummary{}}
	for _, ft := range domain.FeedTypes {
		if s, ok := feeds[ft]; ok {
			resp.Feeds = append(resp.Feeds, domaingames.FeedSummary{Feed: ft, ID: s.ID(), HostURL: s.HostURL()})
		}
	}
	writeJSON(w, nethttp.StatusOK, resp, h.logger)
}

// Stream resolves the feed a team should watch. feed and quality query
// parameters are optional; without quality only the master URL is resolved.
func (h *Handler) Stream(w nethttp.ResponseWriter, r *nethttp.Request) {
	quality := mo.None[domain.Quality]()
	if raw := r.URL.Query().Get("quality"); raw != "" {
		q, err := domain.ParseQuality(raw)
		if err != nil {
			writeError(w, r, nethttp.StatusBadRequest, err.Error(), h.logger)
			return
		}
		quality = mo.Some(q)
	}

	g, s, ok := h.selectStream(w, r)
	if !ok {
		return
	}

	var err error
	resp := domaingames.StreamResponse{GameID: g.ID(), Feed: s.FeedType(), HostURL: s.HostURL()}
	if resp.MasterURL, err = s.ResolveMaster(r.Context()); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	if q, ok := quality.Get(); ok {
		if resp.QualityURL, err = s.ResolveQuality(r.Context(), q); err != nil {
			writeDomainError(w, r, err, h.logger)
			return
		}
		resp.Quality = q.String()
	}
	writeJSON(w, nethttp.StatusOK, resp, h.logger)
}

type variantsResponse struct {
	GameID    int              `json:"gameId"`
	Feed      domain.FeedType  `json:"feed"`
	MasterURL string           `json:"masterUrl"`
	Variants  []stream.Variant `json:"variants"`
}

// Variants lists the renditions of the selected feed's master manifest.
func (h *Handler) Variants(w nethttp.ResponseWriter, r *nethttp.Request) {
	g, s, ok := h.selectStream(w, r)
	if !ok {
		return
	}
	master, err := s.ResolveMaster(r.Context())
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	variants, err := s.Variants(r.Context())
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, variantsResponse{
		GameID:    g.ID(),
		Feed:      s.FeedType(),
		MasterURL: master,
		Variants:  variants,
	}, h.logger)
}

// selectStream picks the stream for the team in the path, honoring an
// optional feed query parameter.
func (h *Handler) selectStream(w nethttp.ResponseWriter, r *nethttp.Request) (*game.Game, *stream.Stream, bool) {
	explicit := mo.None[domain.FeedType]()
	if raw := r.URL.Query().Get("feed"); raw != "" {
		ft, err := domain.ParseFeedType(raw)
		if err != nil {
			writeError(w, r, nethttp.StatusBadRequest, err.Error(), h.logger)
			return nil, nil, false
		}
		explicit = mo.Some(ft)
	}

	sched, ok := h.loadSchedule(w, r)
	if !ok {
		return nil, nil, false
	}
	team := normalizeTeam(chi.URLParam(r, "team"))
	g, err := findGame(sched, team)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return nil, nil, false
	}
	s, err := g.StreamWithFeedOrDefault(r.Context(), explicit, team)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return nil, nil, false
	}
	// A cached failure would otherwise stick until the schedule expires.
	return g, g.Refresh(s), true
}

func (h *Handler) loadSchedule(w nethttp.ResponseWriter, r *nethttp.Request) (*schedule.Schedule, bool) {
	date := providers.BusinessDate(h.now(), h.timezone)
	if raw := r.URL.Query().Get("date"); raw != "" {
		normalized, err := timeutil.NormalizeDate(raw)
		if err != nil {
			writeError(w, r, nethttp.StatusBadRequest, "invalid date format (expected YYYY-MM-DD)", h.logger)
			return nil, false
		}
		date = normalized
	}
	sched, err := h.schedules.Get(r.Context(), date)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return nil, false
	}
	return sched, true
}

func findGame(sched *schedule.Schedule, rawTeam string) (*game.Game, error) {
	return sched.GameForTeam(normalizeTeam(rawTeam))
}

func normalizeTeam(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

func summarize(ctx context.Context, g *game.Game) domaingames.Summary {
	summary := domaingames.Summary{Game: g.Info(), Description: g.Description(ctx)}
	if feeds, err := g.FeedTypes(ctx); err == nil {
		summary.Feeds = feeds
	}
	return summary
}
