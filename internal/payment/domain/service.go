package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/karatledger/internal/reference"
	"github.com/smallbiznis/karatledger/pkg/db/pagination"
)

type AttachmentInput struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type CreateRequest struct {
	PaymentNumber string             `json:"payment_number"`
	PaymentType   string             `json:"payment_type"`
	Party         reference.Party    `json:"party"`
	PaymentDate   string             `json:"payment_date"`
	Amount        float64            `json:"amount"`
	PaymentMethod string             `json:"payment_method"`
	TransactionID string             `json:"transaction_id"`
	ChequeNumber  string             `json:"cheque_number"`
	ChequeDate    string             `json:"cheque_date"`
	BankName      string             `json:"bank_name"`
	Reference     reference.Document `json:"reference"`
	Notes         string             `json:"notes"`
	Attachments   []AttachmentInput  `json:"attachments"`
	Status        string             `json:"status"`
}

// UpdateRequest edits the descriptive fields of a payment. Amount, type
// and party are fixed once the ledger row exists.
type UpdateRequest struct {
	PaymentMethod *string            `json:"payment_method"`
	TransactionID *string            `json:"transaction_id"`
	ChequeNumber  *string            `json:"cheque_number"`
	ChequeDate    *string            `json:"cheque_date"`
	BankName      *string            `json:"bank_name"`
	Notes         *string            `json:"notes"`
	Attachments   *[]AttachmentInput `json:"attachments"`
	Status        *string            `json:"status"`
}

type ListRequest struct {
	pagination.Pagination
	PaymentType   string `form:"payment_type"`
	Status        string `form:"status"`
	PaymentMethod string `form:"payment_method"`
	PartyKind     string `form:"party_kind"`
	PartyID       string `form:"party_id"`
	ReferenceKind string `form:"reference_kind"`
	ReferenceID   string `form:"reference_id"`
	StartDate     string `form:"start_date"`
	EndDate       string `form:"end_date"`
}

type ListResponse struct {
	Payments []Payment           `json:"payments"`
	PageInfo pagination.PageInfo `json:"pagination"`
}

// Document is a rendered receipt ready to be served.
type Document struct {
	Filename string
	Content  []byte
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (Payment, error)
	Update(ctx context.Context, id string, req UpdateRequest) (Payment, error)
	UpdateStatus(ctx context.Context, id string, status string) (Payment, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Payment, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	RenderReceipt(ctx context.Context, id string) (Document, error)
}

var (
	ErrInvalidID          = errors.New("invalid_id")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidPaymentType = errors.New("invalid_payment_type")
	ErrInvalidAmount      = errors.New("invalid_amount")
	ErrInvalidStatus      = errors.New("invalid_payment_status")
	ErrInvalidDate        = errors.New("invalid_date")
	ErrInvalidAttachment  = errors.New("invalid_attachment")
	ErrDuplicateNumber    = errors.New("duplicate_payment_number")
)
