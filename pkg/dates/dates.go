// Package dates parses the calendar dates the dashboard sends and buckets
// instants into the shop's calendar days.
package dates

import (
	"errors"
	"strings"
	"sync/atomic"
	"time"
)

const Layout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid_date")

var shopLocation atomic.Pointer[time.Location]

// SetLocation sets the zone calendar days are read in. Nil resets to UTC.
func SetLocation(loc *time.Location) {
	shopLocation.Store(loc)
}

// Location is the shop's calendar zone, UTC until SetLocation is called.
func Location() *time.Location {
	if loc := shopLocation.Load(); loc != nil {
		return loc
	}
	return time.UTC
}

// Parse accepts YYYY-MM-DD or RFC 3339 and returns the instant in UTC.
// dateOnly reports the first form, which is read as midnight in the shop's
// zone.
func Parse(s string) (t time.Time, dateOnly bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, ErrInvalidDate
	}
	if t, err := time.ParseInLocation(Layout, s, Location()); err == nil {
		return t.UTC(), true, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), false, nil
	}
	return time.Time{}, false, ErrInvalidDate
}

// ParseOptional returns def when s is blank.
func ParseOptional(s string, def time.Time) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return def, nil
	}
	t, _, err := Parse(s)
	return t, err
}

// ParseOptionalPtr returns nil when s is blank.
func ParseOptionalPtr(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, _, err := Parse(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// StartOfDay returns the UTC instant of the shop-local midnight that
// begins t's calendar day.
func StartOfDay(t time.Time) time.Time {
	loc := Location()
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc).UTC()
}
