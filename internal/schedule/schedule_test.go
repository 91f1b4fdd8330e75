package schedule

import (
	"context"
	"errors"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lazystream/internal/domain"
	domaingames "lazystream/internal/domain/games"
	"lazystream/internal/domain/teams"
	"lazystream/internal/stream"
	"lazystream/internal/teststubs"
	"lazystream/internal/testutil"
)

var (
	tor = testutil.SampleTeam(10, "TOR")
	ott = testutil.SampleTeam(9, "OTT")
	wsh = testutil.SampleTeam(15, "WSH")
	bos = testutil.SampleTeam(6, "BOS")
	mtl = testutil.SampleTeam(8, "MTL")
)

func newProvider() *teststubs.StubProvider {
	return &teststubs.StubProvider{
		Teams: []teams.Team{tor, ott, wsh, bos, mtl},
		Games: []domaingames.Game{
			testutil.SampleGame(1, tor, ott, 23),
			testutil.SampleGame(2, wsh, bos, 19),
			testutil.SampleGame(3, mtl, tor, 19),
		},
		Content: map[int]domaingames.Content{
			1: testutil.SampleContent("NHLTV", testutil.Feed("HOME", "101"), testutil.Feed("AWAY", "102")),
			2: testutil.SampleContent("NHLTV", testutil.Feed("NATIONAL", "201")),
			3: testutil.SampleContent("NHLTV", testutil.Feed("HOME", "301"), testutil.Feed("FRENCH", "302")),
		},
	}
}

func loadTest(t *testing.T, provider *teststubs.StubProvider, srv *testutil.StreamServer) *Schedule {
	t.Helper()
	endpoint := stream.Endpoint{Sport: domain.SportNHL, CDN: domain.CDNAkamai}
	if srv != nil {
		endpoint.Host = srv.URL
		endpoint.Client = srv.Client()
	}
	s, err := Load(context.Background(), provider, testutil.SampleDate, Options{Endpoint: endpoint, Concurrency: 2})
	require.NoError(t, err)
	return s
}

func TestLoadOrdersGames(t *testing.T) {
	provider := newProvider()
	s := loadTest(t, provider, nil)

	games := s.Games()
	require.Len(t, games, 3)
	// Same 19:00 start: BOS before TOR by away team name.
	assert.Equal(t, []int{2, 3, 1}, []int{games[0].ID(), games[1].ID(), games[2].ID()})
	assert.Equal(t, testutil.SampleDate, s.Date())
	assert.Equal(t, domain.SportNHL, s.Sport())
	assert.Len(t, s.Teams(), 5)
	assert.Equal(t, int32(1), provider.ScheduleCalls.Load())
	assert.Equal(t, int32(1), provider.TeamsCalls.Load())
	assert.Equal(t, []string{testutil.SampleDate}, provider.Dates())
}

func TestLoadUsesRosterTeams(t *testing.T) {
	provider := newProvider()
	provider.Games = []domaingames.Game{
		testutil.SampleGame(1, teams.Team{ID: 10}, teams.Team{ID: 99, Name: "Seattle Kraken", Abbreviation: "SEA"}, 23),
	}
	s := loadTest(t, provider, nil)

	g := s.Games()[0]
	assert.Equal(t, tor, g.HomeTeam())
	assert.Equal(t, "SEA", g.AwayTeam().Abbreviation)
}

func TestLoadFailures(t *testing.T) {
	for name, mutate := range map[string]func(*teststubs.StubProvider){
		"schedule": func(p *teststubs.StubProvider) { p.ScheduleErr = errors.New("boom") },
		"teams":    func(p *teststubs.StubProvider) { p.TeamsErr = errors.New("boom") },
	} {
		t.Run(name, func(t *testing.T) {
			provider := newProvider()
			mutate(provider)
			_, err := Load(context.Background(), provider, testutil.SampleDate, Options{})
			assert.ErrorIs(t, err, domain.ErrScheduleUnavailable)
		})
	}
}

func TestFindGameByTeamAbbreviation(t *testing.T) {
	s := loadTest(t, newProvider(), nil)

	g, ok := s.FindGameByTeamAbbreviation("TOR").Get()
	require.True(t, ok)
	// TOR plays twice in this fixture; the earlier game wins.
	assert.Equal(t, 3, g.ID())

	g, ok = s.FindGameByTeamAbbreviation("BOS").Get()
	require.True(t, ok)
	assert.Equal(t, 2, g.ID())

	assert.True(t, s.FindGameByTeamAbbreviation("tor").IsAbsent())
	assert.True(t, s.FindGameByTeamAbbreviation("SEA").IsAbsent())
}

func TestValidateTeamAbbreviation(t *testing.T) {
	provider := newProvider()
	provider.Games = nil
	s := loadTest(t, provider, nil)

	assert.NoError(t, s.ValidateTeamAbbreviation("MTL"))
	err := s.ValidateTeamAbbreviation("SEA")
	assert.ErrorIs(t, err, domain.ErrUnknownTeam)
	assert.Contains(t, err.Error(), "BOS, MTL, OTT, TOR, WSH")
}

func TestGameForTeam(t *testing.T) {
	provider := newProvider()
	provider.Games = provider.Games[:1]
	s := loadTest(t, provider, nil)

	g, err := s.GameForTeam("OTT")
	require.NoError(t, err)
	assert.Equal(t, 1, g.ID())

	_, err = s.GameForTeam("WSH")
	assert.ErrorIs(t, err, domain.ErrNoGame)
	assert.NotErrorIs(t, err, domain.ErrNoMatchingFeed)
	assert.Contains(t, err.Error(), "WSH")

	_, err = s.GameForTeam("SEA")
	assert.ErrorIs(t, err, domain.ErrUnknownTeam)
}

func TestResolveAll(t *testing.T) {
	srv := testutil.NewStreamServer(t)
	srv.SetLive(true, "101", "201", "301")
	provider := newProvider()
	provider.Content[3] = testutil.SampleContent("NHLTV", testutil.Feed("HOME", "301"), testutil.Feed("FRENCH", "302"))
	s := loadTest(t, provider, srv)

	results, err := s.ResolveAll(context.Background(), mo.Some(domain.Quality720p), []domain.FeedType{domain.FeedFrench})
	require.NoError(t, err)
	require.Len(t, results, 3)

	byGame := map[int]GameResolution{}
	for _, r := range results {
		require.NoError(t, r.Err)
		byGame[r.Game.ID()] = r
	}

	national := byGame[2].Feeds[domain.FeedNational]
	require.NoError(t, national.Err)
	assert.Equal(t, srv.MasterURL("201"), national.MasterURL)
	assert.Equal(t, srv.URL+"/hls/201/720/index.m3u8", national.QualityURL)
	assert.Equal(t, national.QualityURL, national.Link())

	away := byGame[1].Feeds[domain.FeedAway]
	assert.ErrorIs(t, away.Err, domain.ErrStreamNotLive)
	assert.Empty(t, away.Link())
	assert.Contains(t, away.HostURL, "id=102")

	_, excluded := byGame[3].Feeds[domain.FeedFrench]
	assert.False(t, excluded)
	assert.Len(t, byGame[3].Feeds, 1)
}

func TestResolveAllWithoutQualityStopsAtMaster(t *testing.T) {
	srv := testutil.NewStreamServer(t)
	srv.SetLive(true, "201")
	provider := newProvider()
	delete(provider.Content, 1)
	s := loadTest(t, provider, srv)

	results, err := s.ResolveAll(context.Background(), mo.None[domain.Quality](), nil)
	require.NoError(t, err)

	for _, r := range results {
		switch r.Game.ID() {
		case 1:
			assert.ErrorIs(t, r.Err, domain.ErrGameContentUnavailable)
			assert.Empty(t, r.Feeds)
		case 2:
			res := r.Feeds[domain.FeedNational]
			assert.Equal(t, srv.MasterURL("201"), res.Link())
			assert.Empty(t, res.QualityURL)
		}
	}
	assert.Equal(t, int32(0), srv.ManifestCalls.Load())
}

func TestResolveAllCanceled(t *testing.T) {
	s := loadTest(t, newProvider(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ResolveAll(ctx, mo.None[domain.Quality](), nil)
	assert.ErrorIs(t, err, context.Canceled)
}
