package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/karatledger/internal/metal"
	"github.com/smallbiznis/karatledger/internal/paymethod"
	"github.com/smallbiznis/karatledger/internal/reference"
	"gorm.io/datatypes"
)

type LoanType string

const (
	Given    LoanType = "given"
	Received LoanType = "received"
)

func (t LoanType) Valid() bool {
	return t == Given || t == Received
}

type InterestType string

const (
	InterestNone     InterestType = "none"
	InterestSimple   InterestType = "simple"
	InterestCompound InterestType = "compound"
)

func (t InterestType) Valid() bool {
	switch t {
	case InterestNone, InterestSimple, InterestCompound:
		return true
	}
	return false
}

type MetalLoan struct {
	IsMetalLoan    bool        `json:"is_metal_loan" gorm:"not null;default:false"`
	Metal          metal.Metal `json:"metal,omitempty" gorm:"type:varchar(16)"`
	Weight         float64     `json:"weight"`
	Unit           string      `json:"unit" gorm:"type:varchar(8);default:gm"`
	Purity         string      `json:"purity,omitempty" gorm:"type:varchar(8)"`
	ReturnedWeight float64     `json:"returned_weight"`
}

// Payment is one entry of a loan's append-only repayment history.
type Payment struct {
	PaymentDate       time.Time        `json:"payment_date"`
	Amount            float64          `json:"amount"`
	PaymentMethod     paymethod.Method `json:"payment_method"`
	Notes             string           `json:"notes,omitempty"`
	RecordedBy        string           `json:"recorded_by,omitempty"`
	TransactionNumber string           `json:"transaction_number"`
}

type Loan struct {
	ID              snowflake.ID                 `gorm:"primaryKey" json:"id"`
	LoanNumber      string                       `gorm:"type:varchar(32);not null;uniqueIndex" json:"loan_number"`
	LoanType        LoanType                     `gorm:"type:varchar(16);not null;index" json:"loan_type"`
	Party           reference.Party              `gorm:"embedded;embeddedPrefix:party_" json:"party"`
	LoanDate        time.Time                    `gorm:"not null;index" json:"loan_date"`
	DueDate         *time.Time                   `json:"due_date,omitempty"`
	PrincipalAmount float64                      `gorm:"not null" json:"principal_amount"`
	InterestRate    float64                      `gorm:"not null" json:"interest_rate"`
	InterestType    InterestType                 `gorm:"type:varchar(16);not null" json:"interest_type"`
	TotalInterest   float64                      `gorm:"not null" json:"total_interest"`
	TotalAmount     float64                      `gorm:"not null" json:"total_amount"`
	PaidAmount      float64                      `gorm:"not null" json:"paid_amount"`
	BalanceAmount   float64                      `gorm:"not null" json:"balance_amount"`
	MetalLoan       MetalLoan                    `gorm:"embedded;embeddedPrefix:metal_" json:"metal_loan"`
	Status          Status                       `gorm:"type:varchar(16);not null;index" json:"status"`
	CashSettled     bool                         `gorm:"not null" json:"cash_settled"`
	MetalSettled    bool                         `gorm:"not null" json:"metal_settled"`
	Payments        datatypes.JSONSlice[Payment] `json:"payments"`
	Notes           string                       `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy       string                       `gorm:"type:varchar(32)" json:"created_by,omitempty"`
	UpdatedBy       string                       `gorm:"type:varchar(32)" json:"updated_by,omitempty"`
	CreatedAt       time.Time                    `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time                    `gorm:"not null" json:"updated_at"`
}

func (Loan) TableName() string { return "loans" }
