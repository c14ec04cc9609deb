package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/karatledger/pkg/amount"
	"github.com/smallbiznis/karatledger/pkg/db/pagination"
)

type WeightInput struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

type LineItemInput struct {
	ItemID        string      `json:"item"`
	ItemName      string      `json:"item_name"`
	Description   string      `json:"description"`
	Quantity      int64       `json:"quantity"`
	HSNCode       string      `json:"hsn_code"`
	Weight        WeightInput `json:"weight"`
	Rate          float64     `json:"rate"`
	Amount        float64     `json:"amount"`
	MakingCharges float64     `json:"making_charges"`
	StoneCharges  float64     `json:"stone_charges"`
	GSTRate       *float64    `json:"gst_rate"`
}

type CreateRequest struct {
	BillNumber         string          `json:"bill_number"`
	BillType           string          `json:"bill_type"`
	CustomerID         string          `json:"customer"`
	OrderID            string          `json:"order"`
	BillDate           string          `json:"bill_date"`
	DueDate            string          `json:"due_date"`
	Items              []LineItemInput `json:"items"`
	Discount           amount.Discount `json:"discount"`
	GSTRate            *float64        `json:"gst_rate"`
	SameState          *bool           `json:"same_state"`
	Notes              string          `json:"notes"`
	TermsAndConditions string          `json:"terms_and_conditions"`
}

// UpdateRequest edits a draft bill. Totals are recomputed after every
// update; the ledger row written at creation is not revised.
type UpdateRequest struct {
	DueDate            *string          `json:"due_date"`
	Items              *[]LineItemInput `json:"items"`
	Discount           *amount.Discount `json:"discount"`
	GSTRate            *float64         `json:"gst_rate"`
	SameState          *bool            `json:"same_state"`
	Notes              *string          `json:"notes"`
	TermsAndConditions *string          `json:"terms_and_conditions"`
}

type PaymentRequest struct {
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
	PaymentDate   string  `json:"payment_date"`
	Notes         string  `json:"notes"`
}

type ListRequest struct {
	pagination.Pagination
	BillType      string `form:"bill_type"`
	Status        string `form:"status"`
	PaymentStatus string `form:"payment_status"`
	CustomerID    string `form:"customer"`
	StartDate     string `form:"start_date"`
	EndDate       string `form:"end_date"`
}

type ListResponse struct {
	Bills    []Bill              `json:"bills"`
	PageInfo pagination.PageInfo `json:"pagination"`
}

// Document is a rendered bill ready to be served.
type Document struct {
	Filename string
	Content  []byte
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (Bill, error)
	Update(ctx context.Context, id string, req UpdateRequest) (Bill, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Bill, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	Finalize(ctx context.Context, id string) (Bill, error)
	Cancel(ctx context.Context, id string) (Bill, error)
	RecordPayment(ctx context.Context, id string, req PaymentRequest) (Bill, error)
	Unpaid(ctx context.Context) ([]Bill, error)
	RenderPDF(ctx context.Context, id string) (Document, error)
}

var (
	ErrInvalidID            = errors.New("invalid_id")
	ErrNotFound             = errors.New("not_found")
	ErrInvalidBillType      = errors.New("invalid_bill_type")
	ErrInvalidStatus        = errors.New("invalid_bill_status")
	ErrEmptyItems           = errors.New("bill_items_required")
	ErrInvalidItemName      = errors.New("invalid_item_name")
	ErrInvalidQuantity      = errors.New("invalid_quantity")
	ErrInvalidWeight        = errors.New("invalid_weight")
	ErrInvalidRate          = errors.New("invalid_rate")
	ErrInvalidGSTRate       = errors.New("invalid_gst_rate")
	ErrInvalidDate          = errors.New("invalid_date")
	ErrInvalidAmount        = errors.New("invalid_amount")
	ErrAmountExceedsBalance = errors.New("amount_exceeds_balance")
	ErrAlreadyFinalized     = errors.New("bill_already_finalized")
	ErrFinalizedImmutable   = errors.New("bill_finalized_immutable")
	ErrBillCancelled        = errors.New("bill_cancelled")
	ErrDuplicateNumber      = errors.New("duplicate_bill_number")
)
