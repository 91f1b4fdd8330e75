package statsapi

import (
	"fmt"
	"net/url"

	"lazystream/internal/domain"
)

// league captures what differs between the NHL and MLB flavours of the
// stats API.
type league struct {
	sport   domain.Sport
	baseURL string
	// query is added to schedule and teams requests.
	query url.Values
}

func nhlLeague() league {
	return league{sport: domain.SportNHL, baseURL: nhlBaseURL, query: url.Values{}}
}

func mlbLeague() league {
	return league{sport: domain.SportMLB, baseURL: mlbBaseURL, query: url.Values{"sportId": {mlbSportID}}}
}

func leagueFor(sport domain.Sport) (league, error) {
	switch sport {
	case domain.SportNHL:
		return nhlLeague(), nil
	case domain.SportMLB:
		return mlbLeague(), nil
	default:
		return league{}, fmt.Errorf("statsapi: unsupported sport %q", sport)
	}
}

func (l league) providerName() string {
	return "statsapi-" + l.sport.String()
}
