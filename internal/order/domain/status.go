package domain

import (
	"strings"

	"github.com/bwmarrin/snowflake"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusReady      Status = "ready"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// ValidStatus parses s. Orders have no transition table: any valid status
// may replace any other.
func ValidStatus(s string) (Status, bool) {
	status := Status(strings.ToLower(strings.TrimSpace(s)))
	switch status {
	case StatusPending, StatusInProgress, StatusReady, StatusDelivered, StatusCancelled:
		return status, true
	}
	return "", false
}

// Assign hands the order to a job worker and puts it in progress,
// whatever its current status.
func (o *Order) Assign(workerID snowflake.ID, workerName string) {
	o.AssignedTo = &workerID
	o.AssignedToName = workerName
	o.Status = StatusInProgress
}
