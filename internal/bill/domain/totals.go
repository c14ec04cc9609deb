package domain

import (
	"github.com/smallbiznis/karatledger/internal/gst"
	"github.com/smallbiznis/karatledger/pkg/amount"
)

// Price fills the line amount, GST and total. A supplied amount wins;
// otherwise rate applies to the weight, or to the quantity when no weight
// is given.
func (li *LineItem) Price() {
	if li.Amount == 0 {
		qty := float64(li.Quantity)
		if li.Weight.Value > 0 {
			li.Amount = li.Rate * li.Weight.Value * qty
		} else {
			li.Amount = li.Rate * qty
		}
	}
	li.Amount = amount.Round(li.Amount)
	base := li.Amount + li.MakingCharges + li.StoneCharges
	li.GSTAmount = amount.Percent(base, li.GSTRate)
	li.Total = amount.Round(base + li.GSTAmount)
}

// ComputeTotals prices every line and derives the bill totals, then
// recomputes the balance. The grand total is rounded to the rupee with
// the difference kept in RoundOff.
func (b *Bill) ComputeTotals() {
	var subtotal, making, stone float64
	for i := range b.Items {
		b.Items[i].Price()
		subtotal += b.Items[i].Amount
		making += b.Items[i].MakingCharges
		stone += b.Items[i].StoneCharges
	}
	b.Subtotal = amount.Round(subtotal)
	b.TotalMakingCharges = amount.Round(making)
	b.TotalStoneCharges = amount.Round(stone)

	gross := amount.Round(b.Subtotal + b.TotalMakingCharges + b.TotalStoneCharges)
	b.DiscountAmount = b.Discount.Apply(gross)
	b.TaxableAmount = amount.Round(gross - b.DiscountAmount)

	tax := gst.Compute(b.TaxableAmount, b.GSTRate, b.SameState)
	b.CGST = tax.CGST
	b.SGST = tax.SGST
	b.IGST = tax.IGST
	b.TotalGST = tax.TotalGST

	b.TotalAmount = amount.RoundRupee(tax.TotalAmount)
	b.RoundOff = amount.Round(b.TotalAmount - tax.TotalAmount)
	b.Recompute()
}
