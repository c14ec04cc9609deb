// Package metal lists the precious metals the shop trades and their
// hallmark purities.
package metal

import "strings"

type Metal string

const (
	Gold     Metal = "gold"
	Silver   Metal = "silver"
	Platinum Metal = "platinum"
)

var purities = map[Metal][]string{
	Gold:     {"24K", "22K", "18K", "14K"},
	Silver:   {"999", "925", "835"},
	Platinum: {"950", "900", "850"},
}

// Parse normalizes s and reports whether it names a known metal.
func Parse(s string) (Metal, bool) {
	m := Metal(strings.ToLower(strings.TrimSpace(s)))
	_, ok := purities[m]
	return m, ok
}

func (m Metal) Valid() bool {
	_, ok := purities[m]
	return ok
}

// Purities returns the hallmark grades for m, highest first.
func (m Metal) Purities() []string {
	return append([]string(nil), purities[m]...)
}

// ValidPurity reports whether purity is a grade of m. Gold grades are
// matched case-insensitively ("22k" is 22K).
func ValidPurity(m Metal, purity string) bool {
	purity = strings.ToUpper(strings.TrimSpace(purity))
	for _, p := range purities[m] {
		if p == purity {
			return true
		}
	}
	return false
}

// NormalizePurity returns the canonical spelling of purity.
func NormalizePurity(purity string) string {
	return strings.ToUpper(strings.TrimSpace(purity))
}
