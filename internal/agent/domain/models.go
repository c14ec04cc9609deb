package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type CommissionType string

const (
	CommissionPercentage CommissionType = "percentage"
	CommissionFixed      CommissionType = "fixed"
	CommissionPerOrder   CommissionType = "per_order"
)

func (c CommissionType) Valid() bool {
	switch c {
	case CommissionPercentage, CommissionFixed, CommissionPerOrder:
		return true
	}
	return false
}

// Commission is what one order of orderTotal earns an agent on these
// terms. Fixed and per-order rates are flat amounts per order.
func (c CommissionType) Commission(rate, orderTotal float64) float64 {
	switch c {
	case CommissionPercentage:
		return orderTotal * rate / 100
	case CommissionFixed, CommissionPerOrder:
		return rate
	}
	return 0
}

type Agent struct {
	ID                    snowflake.ID   `gorm:"primaryKey" json:"id"`
	AgentNumber           string         `gorm:"type:varchar(32);not null;uniqueIndex" json:"agent_number"`
	Name                  string         `gorm:"type:varchar(255);not null;index" json:"name"`
	Company               string         `gorm:"type:varchar(255)" json:"company,omitempty"`
	Phone                 string         `gorm:"type:varchar(10);not null" json:"phone"`
	Mobile                string         `gorm:"type:varchar(10)" json:"mobile,omitempty"`
	Email                 string         `gorm:"type:varchar(255)" json:"email,omitempty"`
	Address               string         `gorm:"type:text" json:"address,omitempty"`
	CommissionType        CommissionType `gorm:"type:varchar(16);not null" json:"commission_type"`
	CommissionRate        float64        `gorm:"not null" json:"commission_rate"`
	TotalCommissionEarned float64        `gorm:"not null" json:"total_commission_earned"`
	PendingCommission     float64        `gorm:"not null" json:"pending_commission"`
	CurrentBalance        float64        `gorm:"not null" json:"current_balance"`
	TotalOrders           int64          `gorm:"not null" json:"total_orders"`
	TotalSales            float64        `gorm:"not null" json:"total_sales"`
	JoinDate              time.Time      `gorm:"not null" json:"join_date"`
	PANNo                 string         `gorm:"column:pan_no;type:varchar(10)" json:"pan_no,omitempty"`
	IsActive              bool           `gorm:"not null" json:"is_active"`
	Notes                 string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy             string         `gorm:"type:varchar(32)" json:"created_by,omitempty"`
	CreatedAt             time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt             time.Time      `gorm:"not null" json:"updated_at"`
}

func (Agent) TableName() string { return "agents" }

type Stats struct {
	AgentNumber           string  `json:"agent_number"`
	Name                  string  `json:"name"`
	TotalOrders           int64   `json:"total_orders"`
	TotalSales            float64 `json:"total_sales"`
	TotalCommissionEarned float64 `json:"total_commission_earned"`
	PendingCommission     float64 `json:"pending_commission"`
	CommissionType        string  `json:"commission_type"`
	CommissionRate        float64 `json:"commission_rate"`
}
