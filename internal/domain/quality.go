package domain

import (
	"fmt"
	"strings"
)

// Quality is a stream rendition tier. Declaration order is ascending and is
// the only ranking used when negotiating.
type Quality int

const (
	Quality216p Quality = iota
	Quality288p
	Quality360p
	Quality504p
	Quality540p
	Quality720p
	Quality720p60
)

// Qualities lists every tier from lowest to highest.
var Qualities = []Quality{
	Quality216p,
	Quality288p,
	Quality360p,
	Quality504p,
	Quality540p,
	Quality720p,
	Quality720p60,
}

var qualityNames = map[Quality]string{
	Quality216p:   "216p",
	Quality288p:   "288p",
	Quality360p:   "360p",
	Quality504p:   "504p",
	Quality540p:   "540p",
	Quality720p:   "720p",
	Quality720p60: "720p60",
}

var qualityTags = map[Quality]string{
	Quality216p:   "x216",
	Quality288p:   "x288",
	Quality360p:   "x360",
	Quality504p:   "x504",
	Quality540p:   "x540",
	Quality720p:   "x720",
	Quality720p60: "x720",
}

// ParseQuality accepts "720p60", "720p" or a bare height such as "540".
func ParseQuality(raw string) (Quality, error) {
	needle := strings.ToLower(strings.TrimSpace(raw))
	if needle != "" && !strings.Contains(needle, "p") {
		needle += "p"
	}
	for _, q := range Qualities {
		if qualityNames[q] == needle {
			return q, nil
		}
	}
	return 0, fmt.Errorf("unknown quality %q", raw)
}

// Tag is the resolution marker (x216 ... x720) that identifies the tier in a
// master manifest. 720p and 720p60 share a tag and are told apart by frame rate.
func (q Quality) Tag() string {
	return qualityTags[q]
}

// HighFrameRate reports whether the tier requires a FRAME-RATE attribute.
func (q Quality) HighFrameRate() bool {
	return q == Quality720p60
}

func (q Quality) String() string {
	if name, ok := qualityNames[q]; ok {
		return name
	}
	return fmt.Sprintf("Quality(%d)", int(q))
}

// MarshalText renders the tier name.
func (q Quality) MarshalText() ([]byte, error) {
	if _, ok := qualityNames[q]; !ok {
		return nil, fmt.Errorf("invalid quality %d", int(q))
	}
	return []byte(q.String()), nil
}

// UnmarshalText parses a tier name.
func (q *Quality) UnmarshalText(text []byte) error {
	parsed, err := ParseQuality(string(text))
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}
