package registry

import (
	"fmt"
	"strings"
	"time"
)

// IsExpired reports whether the flag's expiration date lies strictly before
// the calendar day of now (UTC). A flag expiring today is not expired yet.
// Malformed or missing dates never expire.
func IsExpired(flag FlagDefinition, now time.Time) bool {
	expiry, ok := parseDate(flag.ExpiresOn)
	if !ok {
		return false
	}
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return expiry.Before(today)
}

// FormatExpirationDate renders a YYYY-MM-DD date as "January 2, 2006".
// Malformed input is returned unchanged.
func FormatExpirationDate(s string) string {
	t, ok := parseDate(s)
	if !ok {
		return s
	}
	return fmt.Sprintf("%s %d, %d", t.Month(), t.Day(), t.Year())
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
