package statsapi

import (
	"encoding/json"
	"time"
)

type teamsResponse struct {
	Teams []teamResponse `json:"teams"`
}

type teamResponse struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	TeamName     string `json:"teamName"`
	Abbreviation string `json:"abbreviation"`
}

type scheduleResponse struct {
	Dates []scheduleDate `json:"dates"`
}

type scheduleDate struct {
	Date  string         `json:"date"`
	Games []scheduleGame `json:"games"`
}

type scheduleGame struct {
	GamePk   int           `json:"gamePk"`
	GameDate time.Time     `json:"gameDate"`
	Status   gameStatus    `json:"status"`
	Teams    scheduleTeams `json:"teams"`
}

type gameStatus struct {
	AbstractGameState string `json:"abstractGameState"`
	DetailedState     string `json:"detailedState"`
}

type scheduleTeams struct {
	Away scheduleTeam `json:"away"`
	Home scheduleTeam `json:"home"`
}

type scheduleTeam struct {
	Team teamRef `json:"team"`
}

type teamRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type contentResponse struct {
	Editorial editorialResponse `json:"editorial"`
	Media     mediaResponse     `json:"media"`
}

// editorialResponse keeps the preview raw; it is decoded leniently because
// the provider's editorial shape is unreliable.
type editorialResponse struct {
	Preview json.RawMessage `json:"preview"`
}

type previewResponse struct {
	Title string           `json:"title"`
	Items []previewArticle `json:"items"`
}

type previewArticle struct {
	Headline string          `json:"headline"`
	Subhead  string          `json:"subhead"`
	Media    json.RawMessage `json:"media"`
}

type articleMedia struct {
	Image struct {
		Cuts map[string]imageCut `json:"cuts"`
	} `json:"image"`
}

type imageCut struct {
	AspectRatio string `json:"aspectRatio"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Src         string `json:"src"`
}

type mediaResponse struct {
	EPG []epgResponse `json:"epg"`
}

type epgResponse struct {
	Title string         `json:"title"`
	Items []epgItemEntry `json:"items"`
}

type epgItemEntry struct {
	ID              json.RawMessage `json:"id"`
	MediaFeedType   *string         `json:"mediaFeedType"`
	MediaPlaybackID *string         `json:"mediaPlaybackId"`
	CallLetters     string          `json:"callLetters"`
	MediaState      string          `json:"mediaState"`
}
