package stream

import (
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"

	"lazystream/internal/domain"
)

const (
	frameRateAttr  = "FRAME-RATE"
	streamInfoTag  = "#EXT-X-STREAM-INF"
	manifestHeader = "#EXTM3U"
)

// QualityLine is one variant entry of a master manifest: the tier its marker
// line matched (none when unranked) and the URI on the following line.
type QualityLine struct {
	Tier  mo.Option[domain.Quality]
	Index int
	URI   string
}

// matchesTier reports whether a manifest line carries the marker for q.
// 720p60 needs a FRAME-RATE attribute and 720p must not have one.
func matchesTier(line string, q domain.Quality) bool {
	if !strings.Contains(line, q.Tag()) {
		return false
	}
	switch q {
	case domain.Quality720p60:
		return strings.Contains(line, frameRateAttr)
	case domain.Quality720p:
		return !strings.Contains(line, frameRateAttr)
	default:
		return true
	}
}

func splitLines(manifest string) []string {
	lines := strings.Split(manifest, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, "\r")
	}
	return lines
}

// ParseQualityLines scans every line of a master manifest and returns one
// entry per tier marker found, in manifest order. Stream-info lines that match
// no tier are returned unranked. A marker on the final line has no URI and is
// dropped.
func ParseQualityLines(manifest string) []QualityLine {
	lines := splitLines(manifest)
	out := make([]QualityLine, 0)
	for i := 0; i+1 < len(lines); i++ {
		line := lines[i]
		matched := false
		for _, q := range domain.Qualities {
			if matchesTier(line, q) {
				matched = true
				out = append(out, QualityLine{Tier: mo.Some(q), Index: i + 1, URI: lines[i+1]})
			}
		}
		if !matched && strings.HasPrefix(line, streamInfoTag) {
			out = append(out, QualityLine{Tier: mo.None[domain.Quality](), Index: i + 1, URI: lines[i+1]})
		}
	}
	return out
}

// Negotiate picks the highest tier present in the manifest that does not
// exceed requested. When a tier appears more than once the last entry wins.
// It never upgrades: if every available tier is above requested the result is
// ErrQualityUnavailable.
func Negotiate(manifest string, requested domain.Quality) (QualityLine, error) {
	best := make(map[domain.Quality]QualityLine)
	for _, ql := range ParseQualityLines(manifest) {
		if tier, ok := ql.Tier.Get(); ok {
			best[tier] = ql
		}
	}

	tiers := lo.Keys(best)
	sort.Slice(tiers, func(i, j int) bool { return tiers[i] > tiers[j] })

	for _, tier := range tiers {
		if tier <= requested {
			return best[tier], nil
		}
	}
	return QualityLine{}, domain.ErrQualityUnavailable
}

// joinVariant replaces everything after the last "/" of the master URL with
// the variant URI. Absolute variant URIs are returned as-is.
func joinVariant(masterURL, variant string) (string, error) {
	variant = strings.TrimSpace(variant)
	if strings.HasPrefix(variant, "http://") || strings.HasPrefix(variant, "https://") {
		return variant, nil
	}
	idx := strings.LastIndex(masterURL, "/")
	if idx < 0 {
		return "", domain.ErrManifestMalformed
	}
	return masterURL[:idx+1] + variant, nil
}
