package domain

import (
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQualitiesAreAscending(t *testing.T) {
	require.True(t, sort.SliceIsSorted(Qualities, func(i, j int) bool {
		return Qualities[i] < Qualities[j]
	}))
	assert.Equal(t, Quality720p60, Qualities[len(Qualities)-1])
	assert.Equal(t, Quality216p, Qualities[0])
}

func TestParseQuality(t *testing.T) {
	cases := map[string]Quality{
		"216p":   Quality216p,
		"540":    Quality540p,
		"720P":   Quality720p,
		"720p60": Quality720p60,
	}
	for raw, want := range cases {
		got, err := ParseQuality(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParseQuality("1080p")
	assert.Error(t, err)
}

func TestQualityTags(t *testing.T) {
	assert.Equal(t, "x216", Quality216p.Tag())
	assert.Equal(t, "x720", Quality720p.Tag())
	assert.Equal(t, "x720", Quality720p60.Tag())
	assert.True(t, Quality720p60.HighFrameRate())
	assert.False(t, Quality720p.HighFrameRate())
}

func TestParseFeedType(t *testing.T) {
	for _, ft := range FeedTypes {
		got, err := ParseFeedType(ft.String())
		require.NoError(t, err)
		assert.Equal(t, ft, got)
	}

	got, err := ParseFeedType("national")
	require.NoError(t, err)
	assert.Equal(t, FeedNational, got)

	_, err = ParseFeedType("SPANISH")
	assert.Error(t, err)
}

func TestFeedTypeText(t *testing.T) {
	text, err := FeedAway.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "AWAY", string(text))

	var ft FeedType
	require.NoError(t, ft.UnmarshalText([]byte("COMPOSITE")))
	assert.Equal(t, FeedComposite, ft)

	_, err = FeedType(42).MarshalText()
	assert.Error(t, err)
}

func TestParseSportAndCDN(t *testing.T) {
	s, err := ParseSport("MLB")
	require.NoError(t, err)
	assert.Equal(t, SportMLB, s)
	assert.Equal(t, "MLBTV", s.TVMarker())
	assert.Equal(t, "NHLTV", SportNHL.TVMarker())

	_, err = ParseSport("nba")
	assert.Error(t, err)

	c, err := ParseCDN("")
	require.NoError(t, err)
	assert.Equal(t, CDNAkamai, c)
	c, err = ParseCDN("level3")
	require.NoError(t, err)
	assert.Equal(t, CDNLevel3, c)
	_, err = ParseCDN("fastly")
	assert.Error(t, err)
}

func TestFeedErrorUnwraps(t *testing.T) {
	err := fmt.Errorf("resolve: %w", &FeedError{GameID: 7, Feed: FeedHome, Stage: StageMaster, Err: ErrStreamNotLive})

	assert.ErrorIs(t, err, ErrStreamNotLive)
	feedErr, ok := AsFeedError(err)
	require.True(t, ok)
	assert.Equal(t, 7, feedErr.GameID)
	assert.Contains(t, err.Error(), "HOME")
}

func TestIsRecoverable(t *testing.T) {
	assert.True(t, IsRecoverable(ErrStreamNotLive))
	assert.True(t, IsRecoverable(NetworkError("get", errors.New("dial tcp"))))
	assert.False(t, IsRecoverable(ErrQualityUnavailable))
	assert.False(t, IsRecoverable(ErrManifestMalformed))
}
