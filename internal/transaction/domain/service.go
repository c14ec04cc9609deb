package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/karatledger/internal/paymethod"
	"github.com/smallbiznis/karatledger/internal/reference"
	"github.com/smallbiznis/karatledger/pkg/amount"
	"github.com/smallbiznis/karatledger/pkg/db/pagination"
	"gorm.io/gorm"
)

// RecordRequest is what a document service hands the ledger when money
// moves. Debit and Credit are normally left zero and derived from Type.
type RecordRequest struct {
	Type            Type
	Party           reference.Party
	Amount          float64
	Debit           float64
	Credit          float64
	PaymentMethod   paymethod.Method
	Reference       reference.Document
	Description     string
	Notes           string
	TransactionDate time.Time
}

type CreateRequest struct {
	Type            string             `json:"type"`
	Party           reference.Party    `json:"party"`
	Amount          float64            `json:"amount"`
	Debit           float64            `json:"debit"`
	Credit          float64            `json:"credit"`
	PaymentMethod   string             `json:"payment_method"`
	Reference       reference.Document `json:"reference"`
	Description     string             `json:"description"`
	Notes           string             `json:"notes"`
	TransactionDate string             `json:"transaction_date"`
}

type ListRequest struct {
	pagination.Pagination
	Type          string `form:"type"`
	PartyKind     string `form:"party_kind"`
	PartyID       string `form:"party_id"`
	FinancialYear string `form:"financial_year"`
	StartDate     string `form:"start_date"`
	EndDate       string `form:"end_date"`
	Reconciled    *bool  `form:"reconciled"`
}

type ListResponse struct {
	Transactions []Transaction       `json:"transactions"`
	PageInfo     pagination.PageInfo `json:"pagination"`
}

// Report is a complete, unpaginated slice of the ledger with its totals.
type Report struct {
	Transactions []Transaction `json:"transactions"`
	Totals       Totals        `json:"totals"`
}

type Service interface {
	// Record writes one ledger row inside the caller's transaction.
	Record(ctx context.Context, tx *gorm.DB, req RecordRequest) (Transaction, error)
	Create(ctx context.Context, req CreateRequest) (Transaction, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	GetByID(ctx context.Context, id string) (Transaction, error)
	DayBook(ctx context.Context, date string) (Report, error)
	ByFinancialYear(ctx context.Context, label string) (Report, error)
	ByDateRange(ctx context.Context, start, end string) (Report, error)
	Reconcile(ctx context.Context, id string) (Transaction, error)
}

var (
	ErrInvalidID         = errors.New("invalid_id")
	ErrNotFound          = errors.New("not_found")
	ErrInvalidType       = errors.New("invalid_transaction_type")
	ErrInvalidAmount     = errors.New("invalid_amount")
	ErrInvalidDate       = errors.New("invalid_date")
	ErrMissingDateRange  = errors.New("missing_date_range")
	ErrInvalidDateRange  = errors.New("invalid_date_range")
	ErrInvalidFiscalYear = errors.New("invalid_financial_year")
)

// SumTotals adds up the debit and credit columns of rows.
func SumTotals(rows []Transaction) Totals {
	var t Totals
	for _, row := range rows {
		t.TotalDebit += row.Debit
		t.TotalCredit += row.Credit
	}
	t.TotalDebit = amount.Round(t.TotalDebit)
	t.TotalCredit = amount.Round(t.TotalCredit)
	return t
}
