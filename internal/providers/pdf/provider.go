package pdf

import (
	"context"
	"io"

	"go.uber.org/fx"
)

var Module = fx.Module("providers.pdf",
	fx.Provide(New),
)

// Provider renders shop documents. Amounts arrive preformatted.
type Provider interface {
	GenerateInvoice(ctx context.Context, data InvoiceData) (io.Reader, error)
	GenerateReceipt(ctx context.Context, data ReceiptData) (io.Reader, error)
}

type Party struct {
	Name    string
	Address string
	Phone   string
	GSTIN   string
}

type InvoiceData struct {
	Title         string
	InvoiceNumber string
	IssueDate     string
	DueDate       string

	Shop     Party
	Customer Party

	Items  []InvoiceItem
	Totals []TotalLine

	Total       string
	AmountPaid  string
	AmountDue   string
	Terms       string
	Notes       string
	StatusLabel string
}

type InvoiceItem struct {
	Description string
	HSNCode     string
	Qty         int64
	Weight      string
	Rate        string
	Amount      string
}

// TotalLine is one label/value row of the totals block.
type TotalLine struct {
	Label string
	Value string
}

type ReceiptData struct {
	Title         string
	ReceiptNumber string
	DatePaid      string

	Shop  Party
	Payer Party

	Amount        string
	PaymentMethod string
	Reference     string
	Notes         string
}
