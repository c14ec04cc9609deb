package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/karatledger/internal/paymethod"
	"github.com/smallbiznis/karatledger/internal/reference"
)

type Type string

const (
	TypeSale            Type = "sale"
	TypePurchase        Type = "purchase"
	TypePaymentReceived Type = "payment_received"
	TypePaymentMade     Type = "payment_made"
	TypeLoanGiven       Type = "loan_given"
	TypeLoanReceived    Type = "loan_received"
	TypeExpense         Type = "expense"
	TypeCreditNote      Type = "credit_note"
	TypeDebitNote       Type = "debit_note"
)

func (t Type) Valid() bool {
	switch t {
	case TypeSale, TypePurchase, TypePaymentReceived, TypePaymentMade,
		TypeLoanGiven, TypeLoanReceived, TypeExpense, TypeCreditNote, TypeDebitNote:
		return true
	}
	return false
}

// Side says which column of the ledger an amount of this type lands in.
type Side int

const (
	SideNone Side = iota
	SideCredit
	SideDebit
)

// Side classifies t. Credit and debit notes are never auto-classified.
func (t Type) Side() Side {
	switch t {
	case TypeSale, TypePaymentReceived, TypeLoanReceived:
		return SideCredit
	case TypePurchase, TypePaymentMade, TypeLoanGiven, TypeExpense:
		return SideDebit
	default:
		return SideNone
	}
}

// Transaction is an immutable ledger row. Only the reconciliation fields
// change after insert.
type Transaction struct {
	ID                snowflake.ID       `gorm:"primaryKey" json:"id"`
	TransactionNumber string             `gorm:"type:varchar(32);not null;uniqueIndex" json:"transaction_number"`
	TransactionDate   time.Time          `gorm:"not null;index" json:"transaction_date"`
	Type              Type               `gorm:"type:varchar(32);not null;index" json:"type"`
	Party             reference.Party    `gorm:"embedded;embeddedPrefix:party_" json:"party"`
	Debit             float64            `gorm:"not null" json:"debit"`
	Credit            float64            `gorm:"not null" json:"credit"`
	Amount            float64            `gorm:"not null" json:"amount"`
	Reference         reference.Document `gorm:"embedded;embeddedPrefix:reference_" json:"reference"`
	Description       string             `gorm:"type:text" json:"description,omitempty"`
	Notes             string             `gorm:"type:text" json:"notes,omitempty"`
	PaymentMethod     paymethod.Method   `gorm:"type:varchar(16)" json:"payment_method,omitempty"`
	FinancialYear     string             `gorm:"type:varchar(9);not null;index" json:"financial_year"`
	IsReconciled      bool               `gorm:"not null" json:"is_reconciled"`
	ReconciledDate    *time.Time         `json:"reconciled_date,omitempty"`
	CreatedBy         string             `gorm:"type:varchar(32)" json:"created_by,omitempty"`
	CreatedAt         time.Time          `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time          `gorm:"not null" json:"updated_at"`
}

func (Transaction) TableName() string { return "transactions" }

type Totals struct {
	TotalDebit  float64 `json:"total_debit"`
	TotalCredit float64 `json:"total_credit"`
}
