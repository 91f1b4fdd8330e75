package games

import (
	"time"

	"lazystream/internal/domain"
	"lazystream/internal/domain/teams"
)

// GameStatus mirrors the abstract game state reported by the stats API.
type GameStatus string

const (
	StatusScheduled  GameStatus = "SCHEDULED"
	StatusInProgress GameStatus = "IN_PROGRESS"
	StatusFinal      GameStatus = "FINAL"
	StatusUnknown    GameStatus = "UNKNOWN"
)

// Game is one scheduled matchup as listed by a schedule source.
type Game struct {
	ID        int        `json:"id"`
	Date      string     `json:"date"`
	StartTime time.Time  `json:"startTime"`
	HomeTeam  teams.Team `json:"homeTeam"`
	AwayTeam  teams.Team `json:"awayTeam"`
	Status    GameStatus `json:"status"`
}

// Content is the per-game media and editorial payload.
type Content struct {
	EPG     []EPGEntry
	Preview *Preview
}

// EPGEntry groups media items under a title such as NHLTV or Audio.
type EPGEntry struct {
	Title string
	Items []MediaItem
}

// MediaItem is one feed of a broadcast. FeedType and PlaybackID may be empty
// when the provider omits them.
type MediaItem struct {
	ID          string
	FeedType    string
	PlaybackID  string
	CallLetters string
	MediaState  string
}

// Preview is the first editorial preview article of a game.
type Preview struct {
	Headline string
	Subhead  string
	Cuts     map[string]ImageCut
}

// ImageCut is one rendition of a preview image.
type ImageCut struct {
	AspectRatio string `json:"aspectRatio"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Src         string `json:"src"`
}

// Summary is the payload shape for one game in listings.
type Summary struct {
	Game
	Description string            `json:"description,omitempty"`
	Feeds       []domain.FeedType `json:"feeds,omitempty"`
}

// DayResponse is the payload returned by /games?date=YYYY-MM-DD.
type DayResponse struct {
	Sport domain.Sport `json:"sport"`
	Date  string       `json:"date"`
	Games []Summary    `json:"games"`
}

// FeedSummary lists one feed of a game without resolving it.
type FeedSummary struct {
	Feed    domain.FeedType `json:"feed"`
	ID      string          `json:"id"`
	HostURL string          `json:"hostUrl"`
}

// FeedsResponse is the payload returned by /games/{team}/feeds.
type FeedsResponse struct {
	GameID int           `json:"gameId"`
	Date   string        `json:"date"`
	Feeds  []FeedSummary `json:"feeds"`
}

// StreamResponse describes one resolved feed.
type StreamResponse struct {
	GameID     int             `json:"gameId"`
	Feed       domain.FeedType `json:"feed"`
	HostURL    string          `json:"hostUrl"`
	MasterURL  string          `json:"masterUrl"`
	Quality    string          `json:"quality,omitempty"`
	QualityURL string          `json:"qualityUrl,omitempty"`
}

// NewDayResponse builds a DayResponse payload.
func NewDayResponse(sport domain.Sport, date string, games []Summary) DayResponse {
	if games == nil {
		games = []Summary{}
	}
	return DayResponse{
		Sport: sport,
		Date:  date,
		Games: games,
	}
}
