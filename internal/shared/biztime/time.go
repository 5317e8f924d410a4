// Package biztime centralizes time handling. All storage and transport use
// UTC; lifecycle timestamps written by the ticket and token cores are
// consumed by an external SLA engine, so they must be unambiguous.
package biztime

import "time"

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// FormatRFC3339 formats a UTC time for API responses.
func FormatRFC3339(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// FormatRFC3339Ptr formats an optional timestamp, returning nil unchanged.
func FormatRFC3339Ptr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatRFC3339(*t)
	return &s
}
