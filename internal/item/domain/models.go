package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/karatledger/internal/metal"
	"gorm.io/datatypes"
)

type Category string

const (
	CategoryRing     Category = "ring"
	CategoryNecklace Category = "necklace"
	CategoryEarring  Category = "earring"
	CategoryBracelet Category = "bracelet"
	CategoryChain    Category = "chain"
	CategoryPendant  Category = "pendant"
	CategoryBangle   Category = "bangle"
	CategoryAnklet   Category = "anklet"
	CategoryOther    Category = "other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryRing, CategoryNecklace, CategoryEarring, CategoryBracelet,
		CategoryChain, CategoryPendant, CategoryBangle, CategoryAnklet, CategoryOther:
		return true
	}
	return false
}

type MakingChargesType string

const (
	MakingPercentage MakingChargesType = "percentage"
	MakingPerGram    MakingChargesType = "per_gram"
	MakingFixed      MakingChargesType = "fixed"
)

func (m MakingChargesType) Valid() bool {
	switch m {
	case MakingPercentage, MakingPerGram, MakingFixed:
		return true
	}
	return false
}

type Weight struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit" gorm:"type:varchar(4);default:gm"`
}

func ValidWeightUnit(u string) bool {
	return u == "gm" || u == "mg" || u == "kg"
}

type Item struct {
	ID                snowflake.ID                `gorm:"primaryKey" json:"id"`
	ItemCode          string                      `gorm:"type:varchar(32);not null;uniqueIndex" json:"item_code"`
	Name              string                      `gorm:"type:varchar(255);not null;index" json:"name"`
	Category          Category                    `gorm:"type:varchar(16);not null;index" json:"category"`
	Description       string                      `gorm:"type:text" json:"description,omitempty"`
	Metal             metal.Metal                 `gorm:"type:varchar(16);not null;index" json:"metal"`
	Purity            string                      `gorm:"type:varchar(8);not null" json:"purity"`
	Weight            Weight                      `gorm:"embedded;embeddedPrefix:weight_" json:"weight"`
	MakingCharges     float64                     `gorm:"not null" json:"making_charges"`
	MakingChargesType MakingChargesType           `gorm:"type:varchar(16);not null" json:"making_charges_type"`
	StoneCharges      float64                     `gorm:"not null" json:"stone_charges"`
	HUID              *string                     `gorm:"column:huid;type:varchar(16);uniqueIndex" json:"huid,omitempty"`
	StockQuantity     int64                       `gorm:"not null" json:"stock_quantity"`
	MinimumStock      int64                       `gorm:"not null" json:"minimum_stock"`
	IsActive          bool                        `gorm:"not null" json:"is_active"`
	Tags              datatypes.JSONSlice[string] `json:"tags"`
	Notes             string                      `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy         string                      `gorm:"type:varchar(32)" json:"created_by,omitempty"`
	UpdatedBy         string                      `gorm:"type:varchar(32)" json:"updated_by,omitempty"`
	CreatedAt         time.Time                   `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time                   `gorm:"not null" json:"updated_at"`
}

func (Item) TableName() string { return "items" }

func (i Item) LowOnStock() bool {
	return i.StockQuantity <= i.MinimumStock
}

type StockOperation string

const (
	StockAdd      StockOperation = "add"
	StockSubtract StockOperation = "subtract"
	StockSet      StockOperation = "set"
)

// ApplyStock returns the stock level after op. Subtracting more than is
// held fails with ErrInsufficientStock.
func ApplyStock(current int64, op StockOperation, quantity int64) (int64, error) {
	if quantity < 0 {
		return current, ErrInvalidQuantity
	}
	switch op {
	case StockAdd:
		return current + quantity, nil
	case StockSubtract:
		if current < quantity {
			return current, ErrInsufficientStock
		}
		return current - quantity, nil
	case StockSet:
		return quantity, nil
	}
	return current, ErrInvalidStockOperation
}
