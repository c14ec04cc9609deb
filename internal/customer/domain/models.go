package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/karatledger/internal/balance"
)

type Customer struct {
	ID             snowflake.ID        `gorm:"primaryKey" json:"id"`
	CustomerNumber string              `gorm:"type:varchar(32);not null;uniqueIndex" json:"customer_number"`
	Name           string              `gorm:"type:varchar(255);not null;index" json:"name"`
	Relation       string              `gorm:"type:varchar(8);not null" json:"relation"`
	RelationName   string              `gorm:"type:varchar(255)" json:"relation_name,omitempty"`
	Type           string              `gorm:"type:varchar(64)" json:"type,omitempty"`
	LFNo           string              `gorm:"column:lf_no;type:varchar(64)" json:"lf_no,omitempty"`
	OpeningDate    time.Time           `gorm:"not null" json:"opening_date"`
	OpeningBalance float64             `gorm:"not null" json:"opening_balance"`
	CurrentBalance float64             `gorm:"not null" json:"current_balance"`
	GoldBalance    balance.MetalWeight `gorm:"embedded;embeddedPrefix:gold_" json:"gold_balance"`
	SilverBalance  balance.MetalWeight `gorm:"embedded;embeddedPrefix:silver_" json:"silver_balance"`
	MaxCreditLimit float64             `gorm:"not null" json:"max_credit_limit"`
	Address        string              `gorm:"type:text" json:"address,omitempty"`
	Station        string              `gorm:"type:varchar(255);index" json:"station,omitempty"`
	Phone          string              `gorm:"type:varchar(10);not null;index" json:"phone"`
	Mobile         string              `gorm:"type:varchar(10);index" json:"mobile,omitempty"`
	Email          string              `gorm:"type:varchar(255)" json:"email,omitempty"`
	AadharNo       string              `gorm:"column:aadhar_no;type:varchar(12)" json:"aadhar_no,omitempty"`
	PANNo          string              `gorm:"column:pan_no;type:varchar(10)" json:"pan_no,omitempty"`
	IsActive       bool                `gorm:"not null" json:"is_active"`
	Notes          string              `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy      string              `gorm:"type:varchar(32)" json:"created_by,omitempty"`
	UpdatedBy      string              `gorm:"type:varchar(32)" json:"updated_by,omitempty"`
	CreatedAt      time.Time           `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time           `gorm:"not null" json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }

func (c Customer) Balances() balance.Balances {
	return balance.Balances{
		Cash:   c.CurrentBalance,
		Gold:   c.GoldBalance.Weight,
		Silver: c.SilverBalance.Weight,
	}
}

// BalanceSummary is the read model behind GET /customers/:id/balance.
type BalanceSummary struct {
	CustomerNumber string              `json:"customer_number"`
	Name           string              `json:"name"`
	CurrentBalance float64             `json:"current_balance"`
	GoldBalance    balance.MetalWeight `json:"gold_balance"`
	SilverBalance  balance.MetalWeight `json:"silver_balance"`
	MaxCreditLimit float64             `json:"max_credit_limit"`
}
