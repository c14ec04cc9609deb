// Package gst splits Indian goods and services tax into its central, state
// and integrated parts.
package gst

import "github.com/smallbiznis/karatledger/pkg/amount"

// Rates are the GST slabs in percent.
var Rates = []float64{0, 3, 5, 12, 18, 28}

type Breakdown struct {
	CGST        float64 `json:"cgst"`
	SGST        float64 `json:"sgst"`
	IGST        float64 `json:"igst"`
	TotalGST    float64 `json:"total_gst"`
	TotalAmount float64 `json:"total_amount"`
}

// Compute returns the tax on amount at rate percent. Intra-state supply is
// split evenly into CGST and SGST; inter-state supply is all IGST.
func Compute(base, rate float64, sameState bool) Breakdown {
	total := amount.Percent(base, rate)
	b := Breakdown{
		TotalGST:    total,
		TotalAmount: amount.Round(base + total),
	}
	if sameState {
		b.CGST = amount.Round(total / 2)
		b.SGST = amount.Round(total - b.CGST)
	} else {
		b.IGST = total
	}
	return b
}

func ValidRate(rate float64) bool {
	for _, r := range Rates {
		if r == rate {
			return true
		}
	}
	return false
}
