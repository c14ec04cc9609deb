package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/karatledger/internal/paymethod"
	"github.com/smallbiznis/karatledger/internal/reference"
	"gorm.io/datatypes"
)

type PaymentType string

const (
	Received PaymentType = "received"
	Made     PaymentType = "made"
)

func (t PaymentType) Valid() bool {
	return t == Received || t == Made
}

type Attachment struct {
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	UploadDate time.Time `json:"upload_date"`
}

type Payment struct {
	ID                snowflake.ID                    `gorm:"primaryKey" json:"id"`
	PaymentNumber     string                          `gorm:"type:varchar(32);not null;uniqueIndex" json:"payment_number"`
	PaymentType       PaymentType                     `gorm:"type:varchar(16);not null;index" json:"payment_type"`
	Party             reference.Party                 `gorm:"embedded;embeddedPrefix:party_" json:"party"`
	PaymentDate       time.Time                       `gorm:"not null;index" json:"payment_date"`
	Amount            float64                         `gorm:"not null" json:"amount"`
	PaymentMethod     paymethod.Method                `gorm:"type:varchar(16);not null" json:"payment_method"`
	TransactionID     string                          `gorm:"type:varchar(64)" json:"transaction_id,omitempty"`
	ChequeNumber      string                          `gorm:"type:varchar(32)" json:"cheque_number,omitempty"`
	ChequeDate        *time.Time                      `json:"cheque_date,omitempty"`
	BankName          string                          `gorm:"type:varchar(128)" json:"bank_name,omitempty"`
	Reference         reference.Document              `gorm:"embedded;embeddedPrefix:reference_" json:"reference"`
	Notes             string                          `gorm:"type:text" json:"notes,omitempty"`
	Attachments       datatypes.JSONSlice[Attachment] `json:"attachments"`
	Status            Status                          `gorm:"type:varchar(16);not null;index" json:"status"`
	LedgerTransaction string                          `gorm:"type:varchar(32)" json:"ledger_transaction,omitempty"`
	CreatedBy         string                          `gorm:"type:varchar(32)" json:"created_by,omitempty"`
	UpdatedBy         string                          `gorm:"type:varchar(32)" json:"updated_by,omitempty"`
	CreatedAt         time.Time                       `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time                       `gorm:"not null" json:"updated_at"`
}

func (Payment) TableName() string { return "payments" }
