package domain

import (
	"fmt"
	"strings"
)

// Sport identifies which league a schedule, game or stream belongs to.
type Sport string

const (
	SportNHL Sport = "nhl"
	SportMLB Sport = "mlb"
)

// Sports lists every supported league.
var Sports = []Sport{SportNHL, SportMLB}

// ParseSport accepts a league code in any case.
func ParseSport(raw string) (Sport, error) {
	switch Sport(strings.ToLower(strings.TrimSpace(raw))) {
	case SportNHL:
		return SportNHL, nil
	case SportMLB:
		return SportMLB, nil
	default:
		return "", fmt.Errorf("unsupported sport %q", raw)
	}
}

// TVMarker is the title of the EPG entry that carries a sport's broadcast feeds.
func (s Sport) TVMarker() string {
	switch s {
	case SportMLB:
		return "MLBTV"
	default:
		return "NHLTV"
	}
}

// League is the value the stream provider expects in its league query parameter.
func (s Sport) League() string {
	return string(s)
}

func (s Sport) String() string {
	return string(s)
}
