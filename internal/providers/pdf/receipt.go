package pdf

import (
	"bytes"
	"context"
	"io"

	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

func (p *PDFProvider) GenerateReceipt(ctx context.Context, receipt ReceiptData) (io.Reader, error) {
	m := newDocument()
	shopHeader(m, receipt.Shop, receipt.Title)

	m.AddRow(20,
		col.New(6).Add(
			text.New("Received from", props.Text{Style: fontstyle.Bold}),
			text.New(receipt.Payer.Name, props.Text{Top: 5}),
			text.New(receipt.Payer.Address, props.Text{Top: 10, Size: 9}),
		),
		col.New(6).Add(
			text.New("Receipt number: "+receipt.ReceiptNumber, props.Text{Align: align.Right}),
			text.New("Date: "+receipt.DatePaid, props.Text{Top: 5, Align: align.Right}),
		),
	)
	m.AddRow(4, line.NewCol(12))

	label := props.Text{Size: 10}
	value := props.Text{Size: 10, Align: align.Right}
	m.AddRow(8, text.NewCol(6, "Payment method", label), text.NewCol(6, receipt.PaymentMethod, value))
	if receipt.Reference != "" {
		m.AddRow(8, text.NewCol(6, "Against", label), text.NewCol(6, receipt.Reference, value))
	}
	m.AddRow(12,
		text.NewCol(6, "Amount", props.Text{Size: 14, Style: fontstyle.Bold, Top: 2}),
		text.NewCol(6, receipt.Amount, props.Text{Size: 14, Style: fontstyle.Bold, Top: 2, Align: align.Right}),
	)
	if receipt.Notes != "" {
		m.AddRow(12, text.NewCol(12, "Notes: "+receipt.Notes, props.Text{Size: 9, Top: 4}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}
