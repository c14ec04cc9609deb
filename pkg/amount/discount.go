package amount

import (
	"errors"
	"strings"
)

var ErrInvalidDiscount = errors.New("invalid_discount")

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

type Discount struct {
	Value float64      `json:"value"`
	Type  DiscountType `json:"type" gorm:"type:varchar(16);default:fixed"`
}

// Normalize defaults the type to fixed and checks the value.
func (d Discount) Normalize() (Discount, error) {
	d.Type = DiscountType(strings.ToLower(strings.TrimSpace(string(d.Type))))
	if d.Type == "" {
		d.Type = DiscountFixed
	}
	if d.Type != DiscountFixed && d.Type != DiscountPercentage {
		return Discount{}, ErrInvalidDiscount
	}
	if d.Value < 0 || (d.Type == DiscountPercentage && d.Value > 100) {
		return Discount{}, ErrInvalidDiscount
	}
	return d, nil
}

// Apply returns the discount on base in rupees. It never exceeds base.
func (d Discount) Apply(base float64) float64 {
	var off float64
	switch d.Type {
	case DiscountPercentage:
		off = Percent(base, d.Value)
	default:
		off = Round(d.Value)
	}
	if off > base {
		return Round(base)
	}
	return off
}
