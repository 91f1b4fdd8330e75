package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout defines the canonical date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// CompactDateLayout is the YYYYMMDD form accepted from user input.
const CompactDateLayout = "20060102"

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// FormatDate formats a time as YYYY-MM-DD in its current location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// NormalizeDate accepts YYYY-MM-DD or YYYYMMDD and returns YYYY-MM-DD.
func NormalizeDate(value string) (string, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{DateLayout, CompactDateLayout} {
		if t, err := time.Parse(layout, value); err == nil {
			return FormatDate(t), nil
		}
	}
	return "", fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
}
