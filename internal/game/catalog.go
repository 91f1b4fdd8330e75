package game

import (
	"lazystream/internal/domain"
	domaingames "lazystream/internal/domain/games"
	"lazystream/internal/stream"
)

// buildCatalog maps each feed type listed under the sport's TV marker to a
// stream. Items without a feed type or playback id, and unknown feed types,
// are skipped. The first item of a feed type wins.
func buildCatalog(content domaingames.Content, sport domain.Sport, newStream func(domain.FeedType, string) *stream.Stream) map[domain.FeedType]*stream.Stream {
	feeds := make(map[domain.FeedType]*stream.Stream)
	marker := sport.TVMarker()

	for _, entry := range content.EPG {
		if entry.Title != marker {
			continue
		}
		for _, item := range entry.Items {
			if item.FeedType == "" || item.PlaybackID == "" {
				continue
			}
			ft, err := domain.ParseFeedType(item.FeedType)
			if err != nil {
				continue
			}
			if _, seen := feeds[ft]; seen {
				continue
			}
			feeds[ft] = newStream(ft, item.PlaybackID)
		}
	}
	return feeds
}
