package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	itemdomain "github.com/smallbiznis/karatledger/internal/item/domain"
	"github.com/smallbiznis/karatledger/internal/metal"
	"github.com/smallbiznis/karatledger/pkg/amount"
	"gorm.io/datatypes"
)

type MakingCharge struct {
	Value float64                      `json:"value"`
	Type  itemdomain.MakingChargesType `json:"type"`
}

type LineItem struct {
	ItemID          *snowflake.ID     `json:"item,omitempty"`
	ItemName        string            `json:"item_name"`
	Description     string            `json:"description,omitempty"`
	Quantity        int64             `json:"quantity"`
	Metal           metal.Metal       `json:"metal"`
	Purity          string            `json:"purity"`
	EstimatedWeight itemdomain.Weight `json:"estimated_weight"`
	ActualWeight    itemdomain.Weight `json:"actual_weight"`
	Rate            float64           `json:"rate"`
	MakingCharges   MakingCharge      `json:"making_charges"`
	StoneCharges    float64           `json:"stone_charges"`
	Subtotal        float64           `json:"subtotal"`
	GSTAmount       float64           `json:"gst_amount"`
	Total           float64           `json:"total"`
}

type Order struct {
	ID                  snowflake.ID                  `gorm:"primaryKey" json:"id"`
	OrderNumber         string                        `gorm:"type:varchar(32);not null;uniqueIndex" json:"order_number"`
	BillNumber          string                        `gorm:"type:varchar(32);index" json:"bill_number,omitempty"`
	CustomerID          snowflake.ID                  `gorm:"not null;index" json:"customer_id"`
	CustomerName        string                        `gorm:"type:varchar(255)" json:"customer_name"`
	OrderDate           time.Time                     `gorm:"not null;index" json:"order_date"`
	DeliveryDate        *time.Time                    `json:"delivery_date,omitempty"`
	Items               datatypes.JSONSlice[LineItem] `json:"items"`
	Subtotal            float64                       `gorm:"not null" json:"subtotal"`
	GSTRate             float64                       `gorm:"not null" json:"gst_rate"`
	GSTAmount           float64                       `gorm:"not null" json:"gst_amount"`
	Discount            amount.Discount               `gorm:"embedded;embeddedPrefix:discount_" json:"discount"`
	DiscountAmount      float64                       `gorm:"not null" json:"discount_amount"`
	TotalAmount         float64                       `gorm:"not null" json:"total_amount"`
	AdvancePaid         float64                       `gorm:"not null" json:"advance_paid"`
	BalanceAmount       float64                       `gorm:"not null" json:"balance_amount"`
	Status              Status                        `gorm:"type:varchar(16);not null;index" json:"status"`
	AssignedTo          *snowflake.ID                 `gorm:"index" json:"assigned_to,omitempty"`
	AssignedToName      string                        `gorm:"type:varchar(255)" json:"assigned_to_name,omitempty"`
	AgentID             *snowflake.ID                 `gorm:"index" json:"agent_id,omitempty"`
	AgentSales          float64                       `gorm:"not null;default:0" json:"agent_sales,omitempty"`
	AgentCommission     float64                       `gorm:"not null;default:0" json:"agent_commission,omitempty"`
	Notes               string                        `gorm:"type:text" json:"notes,omitempty"`
	SpecialInstructions string                        `gorm:"type:text" json:"special_instructions,omitempty"`
	DeliveryAddress     string                        `gorm:"type:text" json:"delivery_address,omitempty"`
	CreatedBy           string                        `gorm:"type:varchar(32)" json:"created_by,omitempty"`
	UpdatedBy           string                        `gorm:"type:varchar(32)" json:"updated_by,omitempty"`
	CreatedAt           time.Time                     `gorm:"not null;index" json:"created_at"`
	UpdatedAt           time.Time                     `gorm:"not null" json:"updated_at"`
}

func (Order) TableName() string { return "orders" }
