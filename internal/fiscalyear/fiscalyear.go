// Package fiscalyear maps dates onto the Indian April to March financial
// year.
package fiscalyear

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/smallbiznis/karatledger/pkg/dates"
)

var ErrInvalidLabel = errors.New("invalid_financial_year")

// Label returns "YYYY-YYYY" for the financial year containing t on the
// shop's calendar.
func Label(t time.Time) string {
	t = t.In(dates.Location())
	start := t.Year()
	if t.Month() < time.April {
		start--
	}
	return fmt.Sprintf("%d-%d", start, start+1)
}

// Bounds returns the half-open range [1 April start, 1 April end) of a
// label such as "2024-2025", with both ends at shop-local midnight and
// expressed in UTC.
func Bounds(label string) (time.Time, time.Time, error) {
	parts := strings.Split(strings.TrimSpace(label), "-")
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 4 {
		return time.Time{}, time.Time{}, ErrInvalidLabel
	}
	start, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidLabel
	}
	end, err := strconv.Atoi(parts[1])
	if err != nil || end != start+1 {
		return time.Time{}, time.Time{}, ErrInvalidLabel
	}
	loc := dates.Location()
	from := time.Date(start, time.April, 1, 0, 0, 0, 0, loc).UTC()
	to := time.Date(end, time.April, 1, 0, 0, 0, 0, loc).UTC()
	return from, to, nil
}
