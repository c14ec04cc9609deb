package domain

import (
	itemdomain "github.com/smallbiznis/karatledger/internal/item/domain"
	"github.com/smallbiznis/karatledger/pkg/amount"
)

// MetalValue is the rate applied to the estimated weight of every piece.
func (li LineItem) MetalValue() float64 {
	return li.Rate * li.EstimatedWeight.Value * float64(li.Quantity)
}

// Making is the making charge in rupees for the line.
func (li LineItem) Making() float64 {
	switch li.MakingCharges.Type {
	case itemdomain.MakingPerGram:
		return amount.Round(li.MakingCharges.Value * li.EstimatedWeight.Value * float64(li.Quantity))
	case itemdomain.MakingFixed:
		return amount.Round(li.MakingCharges.Value)
	default:
		return amount.Percent(li.MetalValue(), li.MakingCharges.Value)
	}
}

// Price fills the line subtotal, GST and total at rate percent.
func (li *LineItem) Price(gstRate float64) {
	li.Subtotal = amount.Round(li.MetalValue() + li.Making() + li.StoneCharges)
	li.GSTAmount = amount.Percent(li.Subtotal, gstRate)
	li.Total = amount.Round(li.Subtotal + li.GSTAmount)
}

// Recompute prices every line and derives the order totals. GST applies
// after the discount.
func (o *Order) Recompute() {
	var subtotal float64
	for i := range o.Items {
		o.Items[i].Price(o.GSTRate)
		subtotal += o.Items[i].Subtotal
	}
	o.Subtotal = amount.Round(subtotal)
	o.DiscountAmount = o.Discount.Apply(o.Subtotal)
	taxable := amount.Round(o.Subtotal - o.DiscountAmount)
	o.GSTAmount = amount.Percent(taxable, o.GSTRate)
	o.TotalAmount = amount.Round(taxable + o.GSTAmount)
	o.BalanceAmount = amount.Round(o.TotalAmount - o.AdvancePaid)
}
