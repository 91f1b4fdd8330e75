package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lazystream/internal/domain"
	domaingames "lazystream/internal/domain/games"
	"lazystream/internal/domain/teams"
	"lazystream/internal/poller"
	"lazystream/internal/schedule"
	"lazystream/internal/store"
	"lazystream/internal/stream"
	"lazystream/internal/teststubs"
	"lazystream/internal/testutil"
)

type fixture struct {
	handler  *Handler
	router   http.Handler
	provider *teststubs.StubProvider
	srv      *testutil.StreamServer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tor := testutil.SampleTeam(10, "TOR")
	ott := testutil.SampleTeam(9, "OTT")
	wsh := testutil.SampleTeam(15, "WSH")
	bos := testutil.SampleTeam(6, "BOS")
	mtl := testutil.SampleTeam(8, "MTL")

	content := testutil.SampleContent("NHLTV", testutil.Feed("HOME", "101"), testutil.Feed("AWAY", "102"))
	content.Preview = &domaingames.Preview{Subhead: "Leafs open at home"}
	provider := &teststubs.StubProvider{
		Teams: []teams.Team{tor, ott, wsh, bos, mtl},
		Games: []domaingames.Game{
			testutil.SampleGame(1, tor, ott, 23),
			testutil.SampleGame(2, wsh, bos, 19),
		},
		Content: map[int]domaingames.Content{
			1: content,
			2: testutil.SampleContent("NHLTV", testutil.Feed("NATIONAL", "201")),
		},
	}
	srv := testutil.NewStreamServer(t)
	endpoint := stream.Endpoint{Host: srv.URL, Sport: domain.SportNHL, CDN: domain.CDNAkamai, Client: srv.Client()}
	cache := store.NewScheduleCache(domain.SportNHL, func(ctx context.Context, date string) (*schedule.Schedule, error) {
		return schedule.Load(ctx, provider, date, schedule.Options{Endpoint: endpoint})
	}, time.Minute)

	h := NewHandler(cache, "America/New_York", nil, nil)
	h.now = testutil.NowAt(time.Date(2019, 10, 3, 1, 0, 0, 0, time.UTC))

	r := chi.NewRouter()
	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Get("/games", h.Games)
	r.Get("/games/{team}/feeds", h.Feeds)
	r.Get("/games/{team}/stream", h.Stream)
	r.Get("/games/{team}/variants", h.Variants)
	return &fixture{handler: h, router: r, provider: provider, srv: srv}
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rr := testutil.Serve(f.router, http.MethodGet, "/health", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if resp["status"] != "ok" {
		t.Fatalf("expected status ok, got %s", resp["status"])
	}
}

func TestHealthShuttingDownReturnsServiceUnavailable(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	ctx, cancel := context.WithCancel(req.Context())
	cancel()
	rr := testutil.ServeRequest(http.HandlerFunc(f.handler.Health), req.WithContext(ctx))

	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if resp["error"] != "shutting down" {
		t.Fatalf("unexpected error %q", resp["error"])
	}
}

func TestReady(t *testing.T) {
	f := newFixture(t)
	testutil.AssertStatus(t, testutil.Serve(f.router, http.MethodGet, "/ready", nil), http.StatusOK)

	status := poller.Status{ConsecutiveFailures: 3, LastError: "upstream down"}
	f.handler.statusFn = func() poller.Status { return status }
	rr := testutil.Serve(f.router, http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	assert.Contains(t, rr.Body.String(), "upstream down")

	status = poller.Status{LastSuccess: time.Now()}
	testutil.AssertStatus(t, testutil.Serve(f.router, http.MethodGet, "/ready", nil), http.StatusOK)
}

func TestGamesDefaultsToBusinessDate(t *testing.T) {
	f := newFixture(t)
	rr := testutil.Serve(f.router, http.MethodGet, "/games", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp domaingames.DayResponse
	testutil.DecodeJSON(t, rr, &resp)
	assert.Equal(t, domain.SportNHL, resp.Sport)
	assert.Equal(t, "2019-10-02", resp.Date)
	require.Len(t, resp.Games, 2)
	assert.Equal(t, 2, resp.Games[0].ID)
	assert.Equal(t, []domain.FeedType{domain.FeedNational}, resp.Games[0].Feeds)
	assert.Equal(t, "Leafs open at home", resp.Games[1].Description)
	assert.Equal(t, []string{"2019-10-02"}, f.provider.Dates())
}

func TestGamesRejectsBadDate(t *testing.T) {
	f := newFixture(t)
	rr := testutil.Serve(f.router, http.MethodGet, "/games?date=10-02-2019", nil)
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}

func TestGamesScheduleUnavailable(t *testing.T) {
	f := newFixture(t)
	f.provider.ScheduleErr = errors.New("boom")
	rr := testutil.Serve(f.router, http.MethodGet, "/games?date=20191002", nil)
	testutil.AssertStatus(t, rr, http.StatusBadGateway)
}

func TestFeeds(t *testing.T) {
	f := newFixture(t)
	rr := testutil.Serve(f.router, http.MethodGet, "/games/tor/feeds?date=2019-10-02", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp domaingames.FeedsResponse
	testutil.DecodeJSON(t, rr, &resp)
	assert.Equal(t, 1, resp.GameID)
	require.Len(t, resp.Feeds, 2)
	assert.Equal(t, domain.FeedHome, resp.Feeds[0].Feed)
	assert.Equal(t, "101", resp.Feeds[0].ID)
	assert.Equal(t, f.srv.URL+"/getM3U8.php?league=nhl&date=2019-10-02&id=101&cdn=akc", resp.Feeds[0].HostURL)
}

func TestFeedsUnknownTeamAndNoGame(t *testing.T) {
	f := newFixture(t)
	testutil.AssertStatus(t, testutil.Serve(f.router, http.MethodGet, "/games/SEA/feeds", nil), http.StatusNotFound)
	testutil.AssertStatus(t, testutil.Serve(f.router, http.MethodGet, "/games/MTL/feeds", nil), http.StatusNotFound)
}

func TestStreamResolvesDefaultFeed(t *testing.T) {
	f := newFixture(t)
	f.srv.SetLive(true, "102")

	rr := testutil.Serve(f.router, http.MethodGet, "/games/OTT/stream?quality=720p", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp domaingames.StreamResponse
	testutil.DecodeJSON(t, rr, &resp)
	assert.Equal(t, domain.FeedAway, resp.Feed)
	assert.Equal(t, f.srv.MasterURL("102"), resp.MasterURL)
	assert.Equal(t, f.srv.URL+"/hls/102/720/index.m3u8", resp.QualityURL)
	assert.Equal(t, "720p", resp.Quality)
}

func TestStreamNotLiveThenLive(t *testing.T) {
	f := newFixture(t)

	rr := testutil.Serve(f.router, http.MethodGet, "/games/TOR/stream", nil)
	testutil.AssertStatus(t, rr, http.StatusConflict)

	f.srv.SetLive(true, "101")
	rr = testutil.Serve(f.router, http.MethodGet, "/games/TOR/stream", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp domaingames.StreamResponse
	testutil.DecodeJSON(t, rr, &resp)
	assert.Equal(t, domain.FeedHome, resp.Feed)
	assert.Equal(t, f.srv.MasterURL("101"), resp.MasterURL)
	assert.Empty(t, resp.QualityURL)

	// The stream that went live stays cached for later requests.
	rr = testutil.Serve(f.router, http.MethodGet, "/games/TOR/stream", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	assert.Equal(t, int32(2), f.srv.RedirectCalls.Load())
}

func TestStreamRetriesFailedManifest(t *testing.T) {
	f := newFixture(t)
	f.srv.SetLive(true, "101")
	f.srv.SetManifest("<html>maintenance</html>")

	rr := testutil.Serve(f.router, http.MethodGet, "/games/TOR/stream?quality=720p", nil)
	testutil.AssertStatus(t, rr, http.StatusBadGateway)

	f.srv.SetManifest(testutil.MasterManifest)
	for i := 0; i < 2; i++ {
		rr = testutil.Serve(f.router, http.MethodGet, "/games/TOR/stream?quality=720p", nil)
		testutil.AssertStatus(t, rr, http.StatusOK)
	}
	var resp domaingames.StreamResponse
	testutil.DecodeJSON(t, rr, &resp)
	assert.Equal(t, f.srv.URL+"/hls/101/720/index.m3u8", resp.QualityURL)
	assert.Equal(t, int32(2), f.srv.RedirectCalls.Load())
	assert.Equal(t, int32(2), f.srv.ManifestCalls.Load())
}

func TestStreamErrors(t *testing.T) {
	f := newFixture(t)
	f.srv.SetLive(true, "201")
	f.srv.SetManifest("#EXTM3U\n#EXT-X-STREAM-INF:RESOLUTION=1280x720\n720/index.m3u8\n")

	cases := map[string]int{
		"/games/TOR/stream?feed=spanish":      http.StatusBadRequest,
		"/games/TOR/stream?quality=4k":        http.StatusBadRequest,
		"/games/SEA/stream":                   http.StatusNotFound,
		"/games/BOS/stream?quality=216p":      http.StatusUnprocessableEntity,
		"/games/BOS/stream?date=2019-13-40":   http.StatusBadRequest,
		"/games/WSH/stream?feed=FRENCH":       http.StatusOK,
		"/games/WSH/stream?feed=national&q=1": http.StatusOK,
	}
	for path, want := range cases {
		rr := testutil.Serve(f.router, http.MethodGet, path, nil)
		if rr.Code != want {
			t.Fatalf("%s: expected %d, got %d (%s)", path, want, rr.Code, rr.Body.String())
		}
	}
}

func TestVariants(t *testing.T) {
	f := newFixture(t)
	f.srv.SetLive(true, "101")

	rr := testutil.Serve(f.router, http.MethodGet, "/games/TOR/variants", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp variantsResponse
	testutil.DecodeJSON(t, rr, &resp)
	assert.Equal(t, domain.FeedHome, resp.Feed)
	assert.Equal(t, f.srv.MasterURL("101"), resp.MasterURL)
	require.Len(t, resp.Variants, 7)
	assert.Equal(t, "1280x720", resp.Variants[6].Resolution)
	require.NotNil(t, resp.Variants[6].FrameRate)

	testutil.AssertStatus(t, testutil.Serve(f.router, http.MethodGet, "/games/OTT/variants", nil), http.StatusConflict)
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.ErrUnknownTeam, http.StatusNotFound},
		{domain.ErrNoMatchingFeed, http.StatusNotFound},
		{domain.ErrNoGame, http.StatusNotFound},
		{domain.ErrStreamNotLive, http.StatusConflict},
		{domain.ErrQualityUnavailable, http.StatusUnprocessableEntity},
		{domain.ErrScheduleUnavailable, http.StatusBadGateway},
		{domain.ErrGameContentUnavailable, http.StatusBadGateway},
		{domain.ErrManifestMalformed, http.StatusBadGateway},
		{domain.NetworkError("get", errors.New("reset")), http.StatusBadGateway},
		{context.Canceled, http.StatusServiceUnavailable},
		{errors.New("surprise"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := statusFor(tc.err); got != tc.want {
			t.Fatalf("statusFor(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
