package testutil

import (
	"time"

	domaingames "lazystream/internal/domain/games"
	"lazystream/internal/domain/teams"
)

// SampleDate is the business date used by most fixtures.
const SampleDate = "2019-10-02"

// SampleTeam returns a team fixture. The display name is derived from the
// abbreviation.
func SampleTeam(id int, abbrev string) teams.Team {
	return teams.Team{
		ID:           id,
		Name:         abbrev + " City " + abbrev,
		TeamName:     abbrev,
		Abbreviation: abbrev,
	}
}

// SampleGame returns a scheduled game on SampleDate starting at hour UTC.
func SampleGame(id int, home, away teams.Team, hour int) domaingames.Game {
	return domaingames.Game{
		ID:        id,
		Date:      SampleDate,
		StartTime: time.Date(2019, 10, 2, hour, 0, 0, 0, time.UTC),
		HomeTeam:  home,
		AwayTeam:  away,
		Status:    domaingames.StatusScheduled,
	}
}

// SampleContent builds game content listing the given feed type to playback
// id pairs under marker, in argument order.
func SampleContent(marker string, feeds ...[2]string) domaingames.Content {
	items := make([]domaingames.MediaItem, 0, len(feeds))
	for _, f := range feeds {
		items = append(items, domaingames.MediaItem{FeedType: f[0], PlaybackID: f[1]})
	}
	return domaingames.Content{
		EPG: []domaingames.EPGEntry{
			{Title: "Audio", Items: []domaingames.MediaItem{{FeedType: "HOME", PlaybackID: "audio-1"}}},
			{Title: marker, Items: items},
		},
	}
}

// Feed pairs a provider feed type string with a playback id for SampleContent.
func Feed(feedType, playbackID string) [2]string {
	return [2]string{feedType, playbackID}
}
