package statsapi

import (
	"encoding/json"
	"strings"

	domaingames "lazystream/internal/domain/games"
	"lazystream/internal/domain/teams"
)

func mapTeam(t teamResponse) teams.Team {
	return teams.Team{
		ID:           t.ID,
		Name:         t.Name,
		TeamName:     t.TeamName,
		Abbreviation: t.Abbreviation,
	}
}

// mapSchedule flattens the response. Teams carry only id and name here; the
// schedule aggregate replaces them with roster entries.
func mapSchedule(resp scheduleResponse, date string) []domaingames.Game {
	out := make([]domaingames.Game, 0)
	for _, d := range resp.Dates {
		if date != "" && d.Date != date {
			continue
		}
		for _, g := range d.Games {
			out = append(out, domaingames.Game{
				ID:        g.GamePk,
				Date:      d.Date,
				StartTime: g.GameDate.UTC(),
				HomeTeam:  teams.Team{ID: g.Teams.Home.Team.ID, Name: g.Teams.Home.Team.Name},
				AwayTeam:  teams.Team{ID: g.Teams.Away.Team.ID, Name: g.Teams.Away.Team.Name},
				Status:    mapStatus(g.Status.AbstractGameState),
			})
		}
	}
	return out
}

func mapStatus(state string) domaingames.GameStatus {
	switch strings.ToLower(state) {
	case "preview":
		return domaingames.StatusScheduled
	case "live":
		return domaingames.StatusInProgress
	case "final":
		return domaingames.StatusFinal
	default:
		return domaingames.StatusUnknown
	}
}

func mapContent(resp contentResponse) domaingames.Content {
	content := domaingames.Content{
		EPG:     make([]domaingames.EPGEntry, 0, len(resp.Media.EPG)),
		Preview: mapPreview(resp.Editorial.Preview),
	}
	for _, entry := range resp.Media.EPG {
		items := make([]domaingames.MediaItem, 0, len(entry.Items))
		for _, item := range entry.Items {
			items = append(items, domaingames.MediaItem{
				ID:          strings.Trim(string(item.ID), `"`),
				FeedType:    deref(item.MediaFeedType),
				PlaybackID:  deref(item.MediaPlaybackID),
				CallLetters: item.CallLetters,
				MediaState:  item.MediaState,
			})
		}
		content.EPG = append(content.EPG, domaingames.EPGEntry{Title: entry.Title, Items: items})
	}
	return content
}

// mapPreview decodes the first preview article. Any shape mismatch yields
// nil rather than an error; the same goes for the article's image cuts.
func mapPreview(raw json.RawMessage) *domaingames.Preview {
	if len(raw) == 0 {
		return nil
	}
	var preview previewResponse
	if err := json.Unmarshal(raw, &preview); err != nil || len(preview.Items) == 0 {
		return nil
	}
	article := preview.Items[0]
	out := &domaingames.Preview{
		Headline: article.Headline,
		Subhead:  article.Subhead,
	}

	var media articleMedia
	if len(article.Media) > 0 && json.Unmarshal(article.Media, &media) == nil && len(media.Image.Cuts) > 0 {
		out.Cuts = make(map[string]domaingames.ImageCut, len(media.Image.Cuts))
		for name, cut := range media.Image.Cuts {
			out.Cuts[name] = domaingames.ImageCut(cut)
		}
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
