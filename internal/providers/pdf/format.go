package pdf

import (
	"fmt"
	"strings"
)

// Rupees formats v with Indian digit grouping, e.g. Rs. 1,23,456.50.
func Rupees(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	s := fmt.Sprintf("%.2f", v)
	whole, frac := s[:len(s)-3], s[len(s)-2:]
	return sign + "Rs. " + groupIndian(whole) + "." + frac
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}

// Grams formats a weight with its unit.
func Grams(value float64, unit string) string {
	if value == 0 {
		return "-"
	}
	if unit == "" {
		unit = "gm"
	}
	return fmt.Sprintf("%.3f %s", value, unit)
}
