package service

import (
	"context"
	"io"

	"github.com/smallbiznis/karatledger/internal/payment/domain"
	"github.com/smallbiznis/karatledger/internal/providers/pdf"
	"github.com/smallbiznis/karatledger/internal/reference"
)

func (s *Service) RenderReceipt(ctx context.Context, id string) (domain.Document, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.Document{}, err
	}
	shop := s.shop.Get()

	title := "Payment Receipt"
	if p.PaymentType == domain.Made {
		title = "Payment Voucher"
	}
	data := pdf.ReceiptData{
		Title:         title,
		ReceiptNumber: p.PaymentNumber,
		DatePaid:      p.PaymentDate.Format("02 Jan 2006"),
		Shop:          pdf.Party{Name: shop.Name, Address: shop.Address, Phone: shop.Phone, GSTIN: shop.GSTIN},
		Payer:         pdf.Party{Name: p.Party.Name},
		Amount:        pdf.Rupees(p.Amount),
		PaymentMethod: string(p.PaymentMethod),
		Notes:         p.Notes,
	}
	if p.Reference.Kind != reference.DocumentGeneral {
		data.Reference = p.Reference.Number
	}
	if p.ChequeNumber != "" {
		data.PaymentMethod += " #" + p.ChequeNumber
	} else if p.TransactionID != "" {
		data.PaymentMethod += " " + p.TransactionID
	}

	r, err := s.pdf.GenerateReceipt(ctx, data)
	if err != nil {
		return domain.Document{}, err
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return domain.Document{}, err
	}
	return domain.Document{Filename: p.PaymentNumber + ".pdf", Content: content}, nil
}
