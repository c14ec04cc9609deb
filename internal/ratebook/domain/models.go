package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/karatledger/internal/metal"
	"gorm.io/datatypes"
)

type Rate struct {
	Metal       metal.Metal `json:"metal"`
	Purity      string      `json:"purity"`
	BuyingRate  float64     `json:"buying_rate"`
	SellingRate float64     `json:"selling_rate"`
	Unit        string      `json:"unit"`
}

type MakingCharge struct {
	Percentage float64 `json:"percentage"`
	PerGram    float64 `json:"per_gram"`
}

type MakingCharges struct {
	Gold     MakingCharge `json:"gold"`
	Silver   MakingCharge `json:"silver"`
	Platinum MakingCharge `json:"platinum"`
}

type GSTRates struct {
	Gold          float64 `json:"gold"`
	Silver        float64 `json:"silver"`
	Platinum      float64 `json:"platinum"`
	MakingCharges float64 `json:"making_charges"`
}

// For returns the GST rate for metal m.
func (g GSTRates) For(m metal.Metal) float64 {
	switch m {
	case metal.Silver:
		return g.Silver
	case metal.Platinum:
		return g.Platinum
	}
	return g.Gold
}

type RateBook struct {
	ID                   snowflake.ID                      `gorm:"primaryKey" json:"id"`
	Date                 time.Time                         `gorm:"not null;uniqueIndex" json:"date"`
	Rates                datatypes.JSONSlice[Rate]         `json:"rates"`
	DefaultMakingCharges datatypes.JSONType[MakingCharges] `json:"default_making_charges"`
	GSTRates             GSTRates                          `gorm:"embedded;embeddedPrefix:gst_" json:"gst_rates"`
	Notes                string                            `gorm:"type:text" json:"notes,omitempty"`
	IsActive             bool                              `gorm:"not null;index" json:"is_active"`
	CreatedBy            string                            `gorm:"type:varchar(32)" json:"created_by,omitempty"`
	UpdatedBy            string                            `gorm:"type:varchar(32)" json:"updated_by,omitempty"`
	CreatedAt            time.Time                         `gorm:"not null" json:"created_at"`
	UpdatedAt            time.Time                         `gorm:"not null" json:"updated_at"`
}

func (RateBook) TableName() string { return "rate_books" }

type RateType string

const (
	SellingRate RateType = "sellingRate"
	BuyingRate  RateType = "buyingRate"
)

// Find returns the rate of kind t for metal m at purity, if the book
// lists it.
func (b RateBook) Find(m metal.Metal, purity string, t RateType) (float64, bool) {
	purity = metal.NormalizePurity(purity)
	for _, r := range b.Rates {
		if r.Metal == m && metal.NormalizePurity(r.Purity) == purity {
			if t == BuyingRate {
				return r.BuyingRate, true
			}
			return r.SellingRate, true
		}
	}
	return 0, false
}

type RateQuote struct {
	Metal    metal.Metal `json:"metal"`
	Purity   string      `json:"purity"`
	RateType RateType    `json:"rate_type"`
	Rate     float64     `json:"rate"`
	Date     time.Time   `json:"date"`
}
