package domain

import "strings"

type Status string

const (
	StatusPending   Status = "pending"
	StatusCleared   Status = "cleared"
	StatusBounced   Status = "bounced"
	StatusCancelled Status = "cancelled"
)

// ValidStatus parses s. Blank is cleared. Any valid status may replace
// any other.
func ValidStatus(s string) (Status, bool) {
	status := Status(strings.ToLower(strings.TrimSpace(s)))
	switch status {
	case "":
		return StatusCleared, true
	case StatusPending, StatusCleared, StatusBounced, StatusCancelled:
		return status, true
	}
	return "", false
}
