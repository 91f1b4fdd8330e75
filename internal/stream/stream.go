// Package stream resolves one broadcast feed into playable HLS URLs.
package stream

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"lazystream/internal/domain"
	"lazystream/internal/logging"
	"lazystream/internal/metrics"
)

const (
	redirectPath    = "/getM3U8.php"
	maxBodyBytes    = 4 << 20
	masterURLPrefix = "https"
)

// Doer issues HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Endpoint holds what every stream of a schedule shares: the provider host,
// the sport and CDN it asks for and the client used to reach it.
type Endpoint struct {
	Host    string
	Sport   domain.Sport
	CDN     domain.CDN
	Client  Doer
	Logger  *slog.Logger
	Metrics *metrics.Recorder
}

// Stream is one feed of one game together with its memoized resolution
// steps: redirect to master URL, master manifest, and variant per quality.
type Stream struct {
	gameID   int
	date     string
	feed     domain.FeedType
	id       string
	endpoint Endpoint

	master   Slot[string]
	manifest Slot[string]

	qualityMu sync.Mutex
	quality   map[domain.Quality]*Slot[string]
}

// New builds an unresolved stream for a feed. date is the game's YYYY-MM-DD
// business date and id the provider's playback id.
func New(endpoint Endpoint, gameID int, date string, feed domain.FeedType, id string) *Stream {
	if endpoint.Client == nil {
		endpoint.Client = http.DefaultClient
	}
	if endpoint.CDN == "" {
		endpoint.CDN = domain.DefaultCDN
	}
	return &Stream{
		gameID:   gameID,
		date:     date,
		feed:     feed,
		id:       id,
		endpoint: endpoint,
		quality:  make(map[domain.Quality]*Slot[string]),
	}
}

// Fresh returns a copy of the stream with every step unattempted.
func (s *Stream) Fresh() *Stream {
	return New(s.endpoint, s.gameID, s.date, s.feed, s.id)
}

func (s *Stream) ID() string { return s.id }
func (s *Stream) GameID() int { return s.gameID }
func (s *Stream) Date() string { return s.date }
func (s *Stream) FeedType() domain.FeedType { return s.feed }
func (s *Stream) CDN() domain.CDN { return s.endpoint.CDN }

// MasterState reports the state of the redirect resolution step.
func (s *Stream) MasterState() SlotState { return s.master.State() }

// ManifestState reports the state of the manifest step.
func (s *Stream) ManifestState() SlotState { return s.manifest.State() }

// Failed reports whether the redirect or manifest step has a cached failure.
func (s *Stream) Failed() bool {
	return s.master.State() == SlotFailed || s.manifest.State() == SlotFailed
}

// HostURL is the provider redirect endpoint for this feed. Parameter order is
// fixed and values are not re-encoded.
func (s *Stream) HostURL() string {
	return fmt.Sprintf("%s%s?league=%s&date=%s&id=%s&cdn=%s",
		strings.TrimSuffix(s.endpoint.Host, "/"),
		redirectPath,
		s.endpoint.Sport.League(),
		s.date,
		s.id,
		s.endpoint.CDN,
	)
}

// ResolveMaster asks the provider where the feed's master manifest lives. A
// body that does not start with https means the feed is not live yet.
func (s *Stream) ResolveMaster(ctx context.Context) (string, error) {
	return s.master.Resolve(ctx, func(ctx context.Context) (string, error) {
		return s.observe(ctx, domain.StageMaster, func(ctx context.Context) (string, error) {
			body, err := s.get(ctx, s.HostURL())
			if err != nil {
				return "", err
			}
			link := strings.TrimSpace(body)
			if !strings.HasPrefix(link, masterURLPrefix) {
				return "", domain.ErrStreamNotLive
			}
			return link, nil
		})
	})
}

// ResolveManifest downloads the master manifest, resolving the master URL
// first if needed.
func (s *Stream) ResolveManifest(ctx context.Context) (string, error) {
	master, err := s.ResolveMaster(ctx)
	if err != nil {
		return "", err
	}
	return s.manifest.Resolve(ctx, func(ctx context.Context) (string, error) {
		return s.observe(ctx, domain.StageManifest, func(ctx context.Context) (string, error) {
			body, err := s.get(ctx, master)
			if err != nil {
				return "", err
			}
			if !strings.HasPrefix(body, manifestHeader) {
				return "", domain.ErrManifestMalformed
			}
			return body, nil
		})
	})
}

// ResolveQuality returns the variant URL for the best tier not above q.
// Each requested tier is negotiated once against the cached manifest.
func (s *Stream) ResolveQuality(ctx context.Context, q domain.Quality) (string, error) {
	master, err := s.ResolveMaster(ctx)
	if err != nil {
		return "", err
	}
	manifest, err := s.ResolveManifest(ctx)
	if err != nil {
		return "", err
	}

	return s.qualitySlot(q).Resolve(ctx, func(ctx context.Context) (string, error) {
		return s.observe(ctx, domain.StageQuality, func(context.Context) (string, error) {
			line, err := Negotiate(manifest, q)
			if err != nil {
				return "", err
			}
			return joinVariant(master, line.URI)
		})
	})
}

func (s *Stream) qualitySlot(q domain.Quality) *Slot[string] {
	s.qualityMu.Lock()
	defer s.qualityMu.Unlock()
	slot, ok := s.quality[q]
	if !ok {
		slot = &Slot[string]{}
		s.quality[q] = slot
	}
	return slot
}

func (s *Stream) observe(ctx context.Context, stage domain.Stage, fn func(context.Context) (string, error)) (string, error) {
	start := time.Now()
	value, err := fn(ctx)
	s.endpoint.Metrics.RecordResolution(string(stage), time.Since(start), err)

	logger := logging.FromContext(ctx, s.endpoint.Logger)
	attrs := []any{
		logging.FieldGameID, s.gameID,
		logging.FieldFeed, s.feed.String(),
		logging.FieldStage, string(stage),
		logging.FieldDurationMS, time.Since(start).Milliseconds(),
	}
	if err != nil {
		logging.Debug(logger, "stream resolution failed", append(attrs, "error", err)...)
		return "", &domain.FeedError{GameID: s.gameID, Feed: s.feed, Stage: stage, Err: err}
	}
	logging.Debug(logger, "stream resolution succeeded", attrs...)
	return value, nil
}

func (s *Stream) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := s.endpoint.Client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", domain.NetworkError("get "+url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", domain.NetworkError("read "+url, err)
	}
	if resp.StatusCode != http.StatusOK {
		logging.Debug(logging.FromContext(ctx, s.endpoint.Logger), "stream provider returned non-200",
			logging.FieldURL, url,
			logging.FieldStatusCode, resp.StatusCode,
		)
	}
	return string(body), nil
}
