package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	agentdomain "github.com/smallbiznis/karatledger/internal/agent/domain"
	agentrepo "github.com/smallbiznis/karatledger/internal/agent/repository"
	agentsvc "github.com/smallbiznis/karatledger/internal/agent/service"
	"github.com/smallbiznis/karatledger/internal/bill/domain"
	"github.com/smallbiznis/karatledger/internal/bill/repository"
	"github.com/smallbiznis/karatledger/internal/clock"
	"github.com/smallbiznis/karatledger/internal/config"
	customerdomain "github.com/smallbiznis/karatledger/internal/customer/domain"
	customerrepo "github.com/smallbiznis/karatledger/internal/customer/repository"
	customersvc "github.com/smallbiznis/karatledger/internal/customer/service"
	jobworkerdomain "github.com/smallbiznis/karatledger/internal/jobworker/domain"
	jobworkerrepo "github.com/smallbiznis/karatledger/internal/jobworker/repository"
	jobworkersvc "github.com/smallbiznis/karatledger/internal/jobworker/service"
	orderdomain "github.com/smallbiznis/karatledger/internal/order/domain"
	orderrepo "github.com/smallbiznis/karatledger/internal/order/repository"
	ordersvc "github.com/smallbiznis/karatledger/internal/order/service"
	"github.com/smallbiznis/karatledger/internal/party"
	"github.com/smallbiznis/karatledger/internal/paymethod"
	"github.com/smallbiznis/karatledger/internal/reference"
	"github.com/smallbiznis/karatledger/internal/sequence"
	"github.com/smallbiznis/karatledger/internal/testutil"
	transactiondomain "github.com/smallbiznis/karatledger/internal/transaction/domain"
	transactionrepo "github.com/smallbiznis/karatledger/internal/transaction/repository"
	transactionsvc "github.com/smallbiznis/karatledger/internal/transaction/service"
	"github.com/smallbiznis/karatledger/pkg/amount"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc       domain.Service
	db        *gorm.DB
	customers customerdomain.Service
	orders    orderdomain.Service
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := testutil.OpenDB(t,
		&sequence.Counter{},
		&customerdomain.Customer{},
		&jobworkerdomain.JobWorker{},
		&agentdomain.Agent{},
		&transactiondomain.Transaction{},
		&orderdomain.Order{},
		&domain.Bill{},
	)
	clk := clock.NewFakeClock(time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC))
	node := testutil.Node(t)
	log := zap.NewNop()
	seq := sequence.New(sequence.Params{DB: db, Log: log, Clock: clk})

	customers := customersvc.New(customersvc.Params{DB: db, Log: log, GenID: node, Repo: customerrepo.Provide(), Seq: seq, Clock: clk})
	workers := jobworkersvc.New(jobworkersvc.Params{DB: db, Log: log, GenID: node, Repo: jobworkerrepo.Provide(), Seq: seq, Clock: clk})
	agents := agentsvc.New(agentsvc.Params{DB: db, Log: log, GenID: node, Repo: agentrepo.Provide(), Seq: seq, Clock: clk})
	parties := party.New(party.Params{Customers: customers, JobWorkers: workers, Agents: agents})

	shopCfg := config.DefaultShopSettings()
	shopCfg.Name = "Lakshmi Jewellers"
	shop := config.NewStaticShopSettings(shopCfg)

	orders := ordersvc.New(ordersvc.Params{
		DB: db, Log: log, GenID: node, Repo: orderrepo.Provide(), Seq: seq,
		Parties: parties, Agents: agents, Shop: shop, Clock: clk,
	})
	svc := New(Params{
		DB:        db,
		Log:       log,
		GenID:     node,
		Repo:      repository.Provide(),
		Seq:       seq,
		Parties:   parties,
		Customers: customers,
		Orders:    orders,
		Ledger:    transactionsvc.New(transactionsvc.Params{DB: db, Log: log, GenID: node, Repo: transactionrepo.Provide(), Seq: seq, Clock: clk}),
		Shop:      shop,
		Clock:     clk,
	})
	return fixture{svc: svc, db: db, customers: customers, orders: orders}
}

func ring() domain.LineItemInput {
	return domain.LineItemInput{
		ItemName:      "Bridal ring",
		Quantity:      1,
		Weight:        domain.WeightInput{Value: 10},
		Rate:          6000,
		MakingCharges: 5000,
		StoneCharges:  500,
	}
}

func newCustomer(t *testing.T, f fixture) customerdomain.Customer {
	t.Helper()
	c, err := f.customers.Create(context.Background(), customerdomain.CreateRequest{Name: "Asha", Phone: "9876543210", Address: "12 MG Road"})
	require.NoError(t, err)
	return c
}

func ledgerRows(t *testing.T, db *gorm.DB) []transactiondomain.Transaction {
	t.Helper()
	var rows []transactiondomain.Transaction
	require.NoError(t, db.Order("transaction_number asc").Find(&rows).Error)
	return rows
}

func TestCreateSaleBillWritesLedgerRow(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	c := newCustomer(t, f)

	bill, err := f.svc.Create(ctx, domain.CreateRequest{
		CustomerID: c.ID.String(),
		BillDate:   "2024-05-30",
		Items:      []domain.LineItemInput{ring()},
	})
	require.NoError(t, err)
	assert.Equal(t, "INV-10001", bill.BillNumber)
	assert.Equal(t, domain.Sale, bill.BillType)
	assert.Equal(t, domain.StatusDraft, bill.Status)
	assert.Equal(t, "Asha", bill.CustomerName)
	assert.Equal(t, domain.DefaultHSNCode, bill.Items[0].HSNCode)
	assert.Equal(t, "gm", bill.Items[0].Weight.Unit)
	assert.Equal(t, 3.0, bill.GSTRate)
	assert.True(t, bill.SameState)
	assert.Equal(t, 67465.0, bill.TotalAmount)
	assert.Equal(t, domain.PaymentUnpaid, bill.PaymentStatus)

	rows := ledgerRows(t, f.db)
	require.Len(t, rows, 1)
	assert.Equal(t, transactiondomain.TypeSale, rows[0].Type)
	assert.Equal(t, 67465.0, rows[0].Credit)
	assert.Equal(t, "sale bill INV-10001", rows[0].Description)
	assert.Equal(t, reference.DocumentBill, rows[0].Reference.Kind)
	assert.Equal(t, "INV-10001", rows[0].Reference.Number)
	assert.Equal(t, reference.PartyCustomer, rows[0].Party.Kind)
	assert.True(t, rows[0].TransactionDate.Equal(time.Date(2024, 5, 30, 0, 0, 0, 0, time.UTC)))

	purchase, err := f.svc.Create(ctx, domain.CreateRequest{
		BillType:   "purchase",
		CustomerID: c.ID.String(),
		Items:      []domain.LineItemInput{{ItemName: "Old gold", Quantity: 1, Amount: 20000}},
		GSTRate:    ptr(0.0),
	})
	require.NoError(t, err)
	assert.Equal(t, "PUR-10002", purchase.BillNumber)
	assert.Equal(t, 20000.0, purchase.TotalAmount)

	rows = ledgerRows(t, f.db)
	require.Len(t, rows, 2)
	assert.Equal(t, transactiondomain.TypePurchase, rows[1].Type)
	assert.Equal(t, 20000.0, rows[1].Debit)
}

func TestCreateRejectsBadInput(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	c := newCustomer(t, f)
	id := c.ID.String()

	_, err := f.svc.Create(ctx, domain.CreateRequest{CustomerID: id, BillType: "quote", Items: []domain.LineItemInput{ring()}})
	assert.ErrorIs(t, err, domain.ErrInvalidBillType)
	_, err = f.svc.Create(ctx, domain.CreateRequest{CustomerID: id})
	assert.ErrorIs(t, err, domain.ErrEmptyItems)
	_, err = f.svc.Create(ctx, domain.CreateRequest{CustomerID: id, Items: []domain.LineItemInput{ring()}, GSTRate: ptr(7.0)})
	assert.ErrorIs(t, err, domain.ErrInvalidGSTRate)

	bad := ring()
	bad.Weight.Unit = "tola"
	_, err = f.svc.Create(ctx, domain.CreateRequest{CustomerID: id, Items: []domain.LineItemInput{bad}})
	assert.ErrorIs(t, err, domain.ErrInvalidWeight)

	_, err = f.svc.Create(ctx, domain.CreateRequest{
		CustomerID: id,
		Items:      []domain.LineItemInput{ring()},
		Discount:   amount.Discount{Value: 150, Type: amount.DiscountPercentage},
	})
	assert.ErrorIs(t, err, amount.ErrInvalidDiscount)

	_, err = f.svc.Create(ctx, domain.CreateRequest{CustomerID: (c.ID + 1).String(), Items: []domain.LineItemInput{ring()}})
	assert.ErrorIs(t, err, party.ErrNotFound)

	_, err = f.svc.Create(ctx, domain.CreateRequest{CustomerID: id, OrderID: (c.ID + 1).String(), Items: []domain.LineItemInput{ring()}})
	assert.ErrorIs(t, err, orderdomain.ErrNotFound)

	assert.Empty(t, ledgerRows(t, f.db))
	var count int64
	require.NoError(t, f.db.Model(&domain.Bill{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateLinksOrder(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	c := newCustomer(t, f)

	order, err := f.orders.Create(ctx, orderdomain.CreateRequest{
		CustomerID: c.ID.String(),
		Items: []orderdomain.LineItemInput{{
			ItemName:        "Chain",
			Quantity:        1,
			Metal:           "gold",
			Purity:          "22K",
			EstimatedWeight: orderdomain.WeightInput{Value: 5},
			Rate:            6000,
		}},
	})
	require.NoError(t, err)

	bill, err := f.svc.Create(ctx, domain.CreateRequest{
		CustomerID: c.ID.String(),
		OrderID:    order.ID.String(),
		Items:      []domain.LineItemInput{ring()},
	})
	require.NoError(t, err)
	require.NotNil(t, bill.OrderID)
	assert.Equal(t, order.ID, *bill.OrderID)

	linked, err := f.orders.GetByID(ctx, order.ID.String())
	require.NoError(t, err)
	assert.Equal(t, bill.BillNumber, linked.BillNumber)
}

func TestPaymentsAndLifecycle(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	c := newCustomer(t, f)

	bill, err := f.svc.Create(ctx, domain.CreateRequest{CustomerID: c.ID.String(), Items: []domain.LineItemInput{ring()}})
	require.NoError(t, err)
	id := bill.ID.String()

	unpaid, err := f.svc.Unpaid(ctx)
	require.NoError(t, err)
	require.Len(t, unpaid, 1)

	paid, err := f.svc.RecordPayment(ctx, id, domain.PaymentRequest{Amount: 40000, PaymentMethod: "cash"})
	require.NoError(t, err)
	assert.Equal(t, 27465.0, paid.BalanceAmount)
	assert.Equal(t, domain.PaymentPartial, paid.PaymentStatus)

	_, err = f.svc.RecordPayment(ctx, id, domain.PaymentRequest{Amount: 30000, PaymentMethod: "cash"})
	assert.ErrorIs(t, err, domain.ErrAmountExceedsBalance)
	_, err = f.svc.RecordPayment(ctx, id, domain.PaymentRequest{Amount: 10, PaymentMethod: "barter"})
	assert.ErrorIs(t, err, paymethod.ErrInvalidMethod)

	paid, err = f.svc.RecordPayment(ctx, id, domain.PaymentRequest{Amount: 27465, PaymentMethod: "upi", PaymentDate: "2024-06-02"})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, paid.PaymentStatus)
	assert.Equal(t, paymethod.Mixed, paid.PaymentMethod)

	rows := ledgerRows(t, f.db)
	require.Len(t, rows, 3)
	assert.Equal(t, transactiondomain.TypePaymentReceived, rows[2].Type)
	assert.Equal(t, 27465.0, rows[2].Credit)
	assert.Equal(t, "Payment for bill INV-10001", rows[2].Description)
	assert.Equal(t, paymethod.UPI, rows[2].PaymentMethod)

	unpaid, err = f.svc.Unpaid(ctx)
	require.NoError(t, err)
	assert.Empty(t, unpaid)

	notes := "thank you"
	updated, err := f.svc.Update(ctx, id, domain.UpdateRequest{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, notes, updated.Notes)

	finalized, err := f.svc.Finalize(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFinalized, finalized.Status)

	_, err = f.svc.Update(ctx, id, domain.UpdateRequest{Notes: &notes})
	assert.ErrorIs(t, err, domain.ErrFinalizedImmutable)
	assert.ErrorIs(t, f.svc.Delete(ctx, id), domain.ErrFinalizedImmutable)
	_, err = f.svc.Cancel(ctx, id)
	assert.ErrorIs(t, err, domain.ErrFinalizedImmutable)
}

func TestCancelAndDeleteDraft(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	c := newCustomer(t, f)

	first, err := f.svc.Create(ctx, domain.CreateRequest{CustomerID: c.ID.String(), Items: []domain.LineItemInput{ring()}})
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, domain.CreateRequest{BillType: "estimate", CustomerID: c.ID.String(), Items: []domain.LineItemInput{ring()}})
	require.NoError(t, err)
	assert.Equal(t, "EST-10002", second.BillNumber)

	cancelled, err := f.svc.Cancel(ctx, first.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
	_, err = f.svc.RecordPayment(ctx, first.ID.String(), domain.PaymentRequest{Amount: 10, PaymentMethod: "cash"})
	assert.ErrorIs(t, err, domain.ErrBillCancelled)

	list, err := f.svc.List(ctx, domain.ListRequest{Status: "draft"})
	require.NoError(t, err)
	require.Len(t, list.Bills, 1)
	assert.Equal(t, second.ID, list.Bills[0].ID)

	list, err = f.svc.List(ctx, domain.ListRequest{BillType: "sale"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.PageInfo.Total)

	_, err = f.svc.List(ctx, domain.ListRequest{Status: "void"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	require.NoError(t, f.svc.Delete(ctx, second.ID.String()))
	_, err = f.svc.GetByID(ctx, second.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRenderPDF(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	c := newCustomer(t, f)

	bill, err := f.svc.Create(ctx, domain.CreateRequest{CustomerID: c.ID.String(), Items: []domain.LineItemInput{ring()}})
	require.NoError(t, err)

	doc, err := f.svc.RenderPDF(ctx, bill.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "INV-10001.pdf", doc.Filename)
	assert.True(t, bytes.HasPrefix(doc.Content, []byte("%PDF")))

	_, err = f.svc.RenderPDF(ctx, "0")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func ptr[T any](v T) *T { return &v }
