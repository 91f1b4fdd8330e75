package statsapi

import "time"

const (
	nhlBaseURL         = "https://statsapi.web.nhl.com/api/v1"
	mlbBaseURL         = "https://statsapi.mlb.com/api/v1"
	mlbSportID         = "1"
	defaultHTTPTimeout = 10 * time.Second
	errorBodyLimit     = 512
)
