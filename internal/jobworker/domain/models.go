package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/karatledger/internal/balance"
	"gorm.io/datatypes"
)

type JobWorker struct {
	ID             snowflake.ID                `gorm:"primaryKey" json:"id"`
	WorkerNumber   string                      `gorm:"type:varchar(32);not null;uniqueIndex" json:"worker_number"`
	Name           string                      `gorm:"type:varchar(255);not null;index" json:"name"`
	Specialization datatypes.JSONSlice[string] `json:"specialization"`
	Relation       string                      `gorm:"type:varchar(8);not null" json:"relation"`
	RelationName   string                      `gorm:"type:varchar(255)" json:"relation_name,omitempty"`
	Address        string                      `gorm:"type:text" json:"address,omitempty"`
	Phone          string                      `gorm:"type:varchar(10);not null;index" json:"phone"`
	Mobile         string                      `gorm:"type:varchar(10)" json:"mobile,omitempty"`
	Email          string                      `gorm:"type:varchar(255)" json:"email,omitempty"`
	OpeningBalance float64                     `gorm:"not null" json:"opening_balance"`
	CurrentBalance float64                     `gorm:"not null" json:"current_balance"`
	GoldBalance    balance.MetalWeight         `gorm:"embedded;embeddedPrefix:gold_" json:"gold_balance"`
	SilverBalance  balance.MetalWeight         `gorm:"embedded;embeddedPrefix:silver_" json:"silver_balance"`
	BankName       string                      `gorm:"type:varchar(255)" json:"bank_name,omitempty"`
	AccountNumber  string                      `gorm:"type:varchar(64)" json:"account_number,omitempty"`
	IFSCCode       string                      `gorm:"column:ifsc_code;type:varchar(16)" json:"ifsc_code,omitempty"`
	AadharNo       string                      `gorm:"column:aadhar_no;type:varchar(12)" json:"aadhar_no,omitempty"`
	PANNo          string                      `gorm:"column:pan_no;type:varchar(10)" json:"pan_no,omitempty"`
	IsActive       bool                        `gorm:"not null" json:"is_active"`
	Rating         float64                     `gorm:"not null" json:"rating"`
	Notes          string                      `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy      string                      `gorm:"type:varchar(32)" json:"created_by,omitempty"`
	UpdatedBy      string                      `gorm:"type:varchar(32)" json:"updated_by,omitempty"`
	CreatedAt      time.Time                   `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time                   `gorm:"not null" json:"updated_at"`
}

func (JobWorker) TableName() string { return "job_workers" }

func (w JobWorker) Balances() balance.Balances {
	return balance.Balances{
		Cash:   w.CurrentBalance,
		Gold:   w.GoldBalance.Weight,
		Silver: w.SilverBalance.Weight,
	}
}

type BalanceSummary struct {
	WorkerNumber   string              `json:"worker_number"`
	Name           string              `json:"name"`
	CurrentBalance float64             `json:"current_balance"`
	GoldBalance    balance.MetalWeight `json:"gold_balance"`
	SilverBalance  balance.MetalWeight `json:"silver_balance"`
}
