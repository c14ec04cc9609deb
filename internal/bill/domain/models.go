package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	itemdomain "github.com/smallbiznis/karatledger/internal/item/domain"
	"github.com/smallbiznis/karatledger/internal/paymethod"
	"github.com/smallbiznis/karatledger/pkg/amount"
	"gorm.io/datatypes"
)

type BillType string

const (
	Sale     BillType = "sale"
	Purchase BillType = "purchase"
	Estimate BillType = "estimate"
	Return   BillType = "return"
)

func (t BillType) Valid() bool {
	switch t {
	case Sale, Purchase, Estimate, Return:
		return true
	}
	return false
}

const DefaultHSNCode = "7113"

type LineItem struct {
	ItemID        *snowflake.ID     `json:"item,omitempty"`
	ItemName      string            `json:"item_name"`
	Description   string            `json:"description,omitempty"`
	Quantity      int64             `json:"quantity"`
	HSNCode       string            `json:"hsn_code"`
	Weight        itemdomain.Weight `json:"weight"`
	Rate          float64           `json:"rate"`
	Amount        float64           `json:"amount"`
	MakingCharges float64           `json:"making_charges"`
	StoneCharges  float64           `json:"stone_charges"`
	GSTRate       float64           `json:"gst_rate"`
	GSTAmount     float64           `json:"gst_amount"`
	Total         float64           `json:"total"`
}

type Bill struct {
	ID                 snowflake.ID                  `gorm:"primaryKey" json:"id"`
	BillNumber         string                        `gorm:"type:varchar(32);not null;uniqueIndex" json:"bill_number"`
	BillType           BillType                      `gorm:"type:varchar(16);not null;index" json:"bill_type"`
	CustomerID         snowflake.ID                  `gorm:"not null;index" json:"customer_id"`
	CustomerName       string                        `gorm:"type:varchar(255)" json:"customer_name"`
	OrderID            *snowflake.ID                 `gorm:"index" json:"order_id,omitempty"`
	BillDate           time.Time                     `gorm:"not null;index" json:"bill_date"`
	DueDate            *time.Time                    `json:"due_date,omitempty"`
	Items              datatypes.JSONSlice[LineItem] `json:"items"`
	Subtotal           float64                       `gorm:"not null" json:"subtotal"`
	TotalMakingCharges float64                       `gorm:"not null" json:"total_making_charges"`
	TotalStoneCharges  float64                       `gorm:"not null" json:"total_stone_charges"`
	Discount           amount.Discount               `gorm:"embedded;embeddedPrefix:discount_" json:"discount"`
	DiscountAmount     float64                       `gorm:"not null" json:"discount_amount"`
	TaxableAmount      float64                       `gorm:"not null" json:"taxable_amount"`
	SameState          bool                          `gorm:"not null" json:"same_state"`
	GSTRate            float64                       `gorm:"not null" json:"gst_rate"`
	CGST               float64                       `gorm:"column:cgst;not null" json:"cgst"`
	SGST               float64                       `gorm:"column:sgst;not null" json:"sgst"`
	IGST               float64                       `gorm:"column:igst;not null" json:"igst"`
	TotalGST           float64                       `gorm:"column:total_gst;not null" json:"total_gst"`
	RoundOff           float64                       `gorm:"not null" json:"round_off"`
	TotalAmount        float64                       `gorm:"not null" json:"total_amount"`
	PaidAmount         float64                       `gorm:"not null" json:"paid_amount"`
	BalanceAmount      float64                       `gorm:"not null" json:"balance_amount"`
	PaymentStatus      PaymentStatus                 `gorm:"type:varchar(16);not null;index" json:"payment_status"`
	PaymentMethod      paymethod.Method              `gorm:"type:varchar(16)" json:"payment_method,omitempty"`
	Notes              string                        `gorm:"type:text" json:"notes,omitempty"`
	TermsAndConditions string                        `gorm:"type:text" json:"terms_and_conditions,omitempty"`
	Status             Status                        `gorm:"type:varchar(16);not null;index" json:"status"`
	CreatedBy          string                        `gorm:"type:varchar(32)" json:"created_by,omitempty"`
	UpdatedBy          string                        `gorm:"type:varchar(32)" json:"updated_by,omitempty"`
	CreatedAt          time.Time                     `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time                     `gorm:"not null" json:"updated_at"`
}

func (Bill) TableName() string { return "bills" }
