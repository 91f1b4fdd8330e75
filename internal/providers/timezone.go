package providers

import "time"

// ResolveTimezone returns a location for a tz string, or nil if invalid.
func ResolveTimezone(tz string) *time.Location {
	if tz == "" {
		return nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil
	}
	return loc
}

// BusinessDate formats now as YYYY-MM-DD in the named zone, falling back to
// UTC when the zone is unknown.
func BusinessDate(now time.Time, tz string) string {
	loc := ResolveTimezone(tz)
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format("2006-01-02")
}
