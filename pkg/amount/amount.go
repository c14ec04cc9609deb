// Package amount holds rounding helpers for rupee amounts and metal weights.
package amount

import "math"

// Round rounds a rupee amount to the nearest paisa.
func Round(v float64) float64 {
	return math.Round(v*100) / 100
}

// RoundRupee rounds to the nearest whole rupee.
func RoundRupee(v float64) float64 {
	return math.Round(v)
}

// RoundWeight rounds a weight in grams to the nearest milligram.
func RoundWeight(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Exceeds reports whether a is greater than b once both are rounded to paise.
func Exceeds(a, b float64) bool {
	return Round(a) > Round(b)
}

// AtLeast reports whether a >= b once both are rounded to paise.
func AtLeast(a, b float64) bool {
	return Round(a) >= Round(b)
}

// Percent returns pct percent of base, rounded to paise.
func Percent(base, pct float64) float64 {
	return Round(base * pct / 100)
}
