package domain

import (
	"fmt"
	"strings"
)

// CDN selects the content delivery network the provider redirects to.
type CDN string

const (
	CDNAkamai CDN = "akc"
	CDNLevel3 CDN = "l3c"
)

// DefaultCDN is used when none is configured.
const DefaultCDN = CDNAkamai

// ParseCDN accepts the short provider codes as well as "akamai" and "level3".
func ParseCDN(raw string) (CDN, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "akc", "akamai":
		return CDNAkamai, nil
	case "l3c", "level3":
		return CDNLevel3, nil
	default:
		return "", fmt.Errorf("unknown cdn %q", raw)
	}
}

func (c CDN) String() string {
	return string(c)
}
