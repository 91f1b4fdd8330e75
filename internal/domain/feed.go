package domain

import (
	"fmt"
	"strings"
)

// FeedType names a broadcast feed of a game.
type FeedType int

const (
	FeedHome FeedType = iota
	FeedAway
	FeedNational
	FeedFrench
	FeedComposite
)

// FeedTypes lists every feed type in display order.
var FeedTypes = []FeedType{FeedHome, FeedAway, FeedNational, FeedFrench, FeedComposite}

// FeedFallbackOrder is tried when the preferred feed of a game is missing.
var FeedFallbackOrder = []FeedType{FeedNational, FeedHome, FeedAway}

var feedNames = map[FeedType]string{
	FeedHome:      "HOME",
	FeedAway:      "AWAY",
	FeedNational:  "NATIONAL",
	FeedFrench:    "FRENCH",
	FeedComposite: "COMPOSITE",
}

// ParseFeedType maps a provider feed label (HOME, AWAY, ...) to a FeedType.
func ParseFeedType(raw string) (FeedType, error) {
	needle := strings.ToUpper(strings.TrimSpace(raw))
	for _, ft := range FeedTypes {
		if feedNames[ft] == needle {
			return ft, nil
		}
	}
	return 0, fmt.Errorf("unknown feed type %q", raw)
}

func (f FeedType) String() string {
	if name, ok := feedNames[f]; ok {
		return name
	}
	return fmt.Sprintf("FeedType(%d)", int(f))
}

// MarshalText renders the feed type as its provider label.
func (f FeedType) MarshalText() ([]byte, error) {
	if _, ok := feedNames[f]; !ok {
		return nil, fmt.Errorf("invalid feed type %d", int(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText parses a provider label.
func (f *FeedType) UnmarshalText(text []byte) error {
	parsed, err := ParseFeedType(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
