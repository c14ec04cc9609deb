package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func newDocument() core.Maroto {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()
	return maroto.New(cfg)
}

func shopHeader(m core.Maroto, shop Party, title string) {
	m.AddRow(10,
		text.NewCol(8, shop.Name, props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(4, title, props.Text{
			Size:  14,
			Style: fontstyle.Bold,
			Align: align.Right,
		}),
	)
	m.AddRow(14,
		col.New(8).Add(
			text.New(shop.Address, props.Text{Size: 9}),
			text.New(contactLine(shop), props.Text{Size: 9, Top: 5}),
		),
		col.New(4),
	)
	m.AddRow(4, line.NewCol(12))
}

func contactLine(p Party) string {
	switch {
	case p.Phone != "" && p.GSTIN != "":
		return fmt.Sprintf("Phone: %s   GSTIN: %s", p.Phone, p.GSTIN)
	case p.GSTIN != "":
		return "GSTIN: " + p.GSTIN
	case p.Phone != "":
		return "Phone: " + p.Phone
	}
	return ""
}

func (p *PDFProvider) GenerateInvoice(ctx context.Context, invoice InvoiceData) (io.Reader, error) {
	m := newDocument()
	shopHeader(m, invoice.Shop, invoice.Title)

	m.AddRow(24,
		col.New(6).Add(
			text.New("Bill to", props.Text{Style: fontstyle.Bold}),
			text.New(invoice.Customer.Name, props.Text{Top: 5}),
			text.New(invoice.Customer.Address, props.Text{Top: 10, Size: 9}),
			text.New(contactLine(invoice.Customer), props.Text{Top: 15, Size: 9}),
		),
		col.New(6).Add(
			text.New("Bill number: "+invoice.InvoiceNumber, props.Text{Align: align.Right}),
			text.New("Date: "+invoice.IssueDate, props.Text{Top: 5, Align: align.Right}),
			text.New(dueLine(invoice.DueDate), props.Text{Top: 10, Align: align.Right}),
			text.New(invoice.StatusLabel, props.Text{Top: 15, Align: align.Right, Style: fontstyle.Italic}),
		),
	)

	header := props.Text{Style: fontstyle.Bold, Size: 9}
	headerRight := props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}
	m.AddRow(8,
		text.NewCol(4, "Description", header),
		text.NewCol(1, "HSN", header),
		text.NewCol(1, "Qty", headerRight),
		text.NewCol(2, "Weight", headerRight),
		text.NewCol(2, "Rate", headerRight),
		text.NewCol(2, "Amount", headerRight),
	)
	m.AddRow(2, line.NewCol(12))

	cell := props.Text{Size: 9}
	cellRight := props.Text{Size: 9, Align: align.Right}
	for _, item := range invoice.Items {
		m.AddRow(8,
			text.NewCol(4, item.Description, cell),
			text.NewCol(1, item.HSNCode, cell),
			text.NewCol(1, fmt.Sprintf("%d", item.Qty), cellRight),
			text.NewCol(2, item.Weight, cellRight),
			text.NewCol(2, item.Rate, cellRight),
			text.NewCol(2, item.Amount, cellRight),
		)
	}
	m.AddRow(2, line.NewCol(12))

	for _, t := range invoice.Totals {
		m.AddRow(6,
			col.New(7),
			text.NewCol(3, t.Label, cell),
			text.NewCol(2, t.Value, cellRight),
		)
	}
	bold := props.Text{Style: fontstyle.Bold, Size: 10}
	boldRight := props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}
	m.AddRow(8,
		col.New(7),
		text.NewCol(3, "Total", bold),
		text.NewCol(2, invoice.Total, boldRight),
	)
	m.AddRow(6,
		col.New(7),
		text.NewCol(3, "Paid", cell),
		text.NewCol(2, invoice.AmountPaid, cellRight),
	)
	m.AddRow(6,
		col.New(7),
		text.NewCol(3, "Balance due", bold),
		text.NewCol(2, invoice.AmountDue, boldRight),
	)

	if invoice.Notes != "" {
		m.AddRow(12, text.NewCol(12, "Notes: "+invoice.Notes, props.Text{Size: 9, Top: 4}))
	}
	if invoice.Terms != "" {
		m.AddRow(16, text.NewCol(12, "Terms and conditions: "+invoice.Terms, props.Text{Size: 8, Top: 4}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}

func dueLine(due string) string {
	if due == "" {
		return ""
	}
	return "Due: " + due
}
