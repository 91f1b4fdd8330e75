package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lazystream/internal/config"
	"lazystream/internal/domain"
	"lazystream/internal/metrics"
	"lazystream/internal/providers/fixture"
	"lazystream/internal/testutil"
)

func TestSelectProvider(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()

	cases := map[string]string{
		"fixture":  "fixture",
		"statsapi": "statsapi",
		"":         "statsapi",
		"espn":     "fixture",
	}
	for raw, want := range cases {
		p, err := selectProvider(config.Config{Provider: raw}, domain.SportMLB, nil, logger)
		require.NoError(t, err)
		assert.Equal(t, domain.SportMLB, p.Sport())
		assert.Contains(t, p.Name(), want, "provider %q", raw)
	}
	assert.Contains(t, buf.String(), "unknown provider")
}

func TestNormalizeProviderName(t *testing.T) {
	assert.Equal(t, "statsapi", normalizeProviderName("StatsAPI", nil))
	assert.Equal(t, "fixture", normalizeProviderName("", fixture.New(domain.SportNHL)))
	assert.Equal(t, "provider", normalizeProviderName("", nil))
}

func TestProviderFactoryInstrumentsProvider(t *testing.T) {
	rec := metrics.NewRecorder()
	factory := newProviderFactory(nil, rec, nil)
	p, err := factory.build(config.Config{Provider: "fixture"}, config.Selection{Sport: domain.SportNHL})
	require.NoError(t, err)

	_, err = p.FetchTeams(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, rec.ProviderCalls("fixture"))
}

func TestNewLoaderBuildsSchedule(t *testing.T) {
	cfg := config.Config{Provider: "fixture", Host: "http://streams.test"}
	sel := config.Selection{Sport: domain.SportNHL, CDN: domain.CDNLevel3}
	loader, err := NewLoader(cfg, sel, NewHTTPClient(cfg, nil), nil, nil)
	require.NoError(t, err)

	s, err := loader(context.Background(), "2019-10-02")
	require.NoError(t, err)
	games := s.Games()
	require.Len(t, games, 2)
	assert.Equal(t, fixture.GameEarly, games[0].ID())

	feeds, err := games[1].Feeds(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "http://streams.test/getM3U8.php?league=nhl&date=2019-10-02&id=65467003&cdn=l3c", feeds[domain.FeedHome].HostURL())
}
