package service

import (
	"fmt"

	"github.com/smallbiznis/karatledger/internal/bill/domain"
	"github.com/smallbiznis/karatledger/internal/config"
	"github.com/smallbiznis/karatledger/internal/providers/pdf"
)

const pdfDateLayout = "02 Jan 2006"

func invoiceTitle(t domain.BillType) string {
	switch t {
	case domain.Purchase:
		return "Purchase Bill"
	case domain.Estimate:
		return "Estimate"
	case domain.Return:
		return "Return Bill"
	default:
		return "Tax Invoice"
	}
}

func invoiceData(b domain.Bill, shop config.ShopSettings) pdf.InvoiceData {
	data := pdf.InvoiceData{
		Title:         invoiceTitle(b.BillType),
		InvoiceNumber: b.BillNumber,
		IssueDate:     b.BillDate.Format(pdfDateLayout),
		Shop:          pdf.Party{Name: shop.Name, Address: shop.Address, Phone: shop.Phone, GSTIN: shop.GSTIN},
		Customer:      pdf.Party{Name: b.CustomerName},
		Total:         pdf.Rupees(b.TotalAmount),
		AmountPaid:    pdf.Rupees(b.PaidAmount),
		AmountDue:     pdf.Rupees(b.BalanceAmount),
		Terms:         b.TermsAndConditions,
		Notes:         b.Notes,
		StatusLabel:   statusLabel(b),
	}
	if b.DueDate != nil {
		data.DueDate = b.DueDate.Format(pdfDateLayout)
	}

	for _, li := range b.Items {
		desc := li.ItemName
		if li.Description != "" {
			desc += " - " + li.Description
		}
		data.Items = append(data.Items, pdf.InvoiceItem{
			Description: desc,
			HSNCode:     li.HSNCode,
			Qty:         li.Quantity,
			Weight:      pdf.Grams(li.Weight.Value, li.Weight.Unit),
			Rate:        pdf.Rupees(li.Rate),
			Amount:      pdf.Rupees(li.Amount),
		})
	}

	data.Totals = append(data.Totals, pdf.TotalLine{Label: "Subtotal", Value: pdf.Rupees(b.Subtotal)})
	if b.TotalMakingCharges > 0 {
		data.Totals = append(data.Totals, pdf.TotalLine{Label: "Making charges", Value: pdf.Rupees(b.TotalMakingCharges)})
	}
	if b.TotalStoneCharges > 0 {
		data.Totals = append(data.Totals, pdf.TotalLine{Label: "Stone charges", Value: pdf.Rupees(b.TotalStoneCharges)})
	}
	if b.DiscountAmount > 0 {
		data.Totals = append(data.Totals, pdf.TotalLine{Label: "Discount", Value: pdf.Rupees(-b.DiscountAmount)})
	}
	data.Totals = append(data.Totals, pdf.TotalLine{Label: "Taxable amount", Value: pdf.Rupees(b.TaxableAmount)})
	if b.SameState {
		half := b.GSTRate / 2
		data.Totals = append(data.Totals,
			pdf.TotalLine{Label: fmt.Sprintf("CGST @ %g%%", half), Value: pdf.Rupees(b.CGST)},
			pdf.TotalLine{Label: fmt.Sprintf("SGST @ %g%%", half), Value: pdf.Rupees(b.SGST)},
		)
	} else {
		data.Totals = append(data.Totals, pdf.TotalLine{Label: fmt.Sprintf("IGST @ %g%%", b.GSTRate), Value: pdf.Rupees(b.IGST)})
	}
	if b.RoundOff != 0 {
		data.Totals = append(data.Totals, pdf.TotalLine{Label: "Round off", Value: pdf.Rupees(b.RoundOff)})
	}
	return data
}

func statusLabel(b domain.Bill) string {
	switch {
	case b.Status == domain.StatusCancelled:
		return "CANCELLED"
	case b.Status == domain.StatusDraft:
		return "DRAFT"
	case b.PaymentStatus == domain.PaymentPaid:
		return "PAID"
	}
	return ""
}
