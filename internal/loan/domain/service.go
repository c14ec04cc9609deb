package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/karatledger/internal/reference"
	"github.com/smallbiznis/karatledger/pkg/db/pagination"
)

type MetalLoanInput struct {
	IsMetalLoan bool    `json:"is_metal_loan"`
	Metal       string  `json:"metal"`
	Weight      float64 `json:"weight"`
	Unit        string  `json:"unit"`
	Purity      string  `json:"purity"`
}

type CreateRequest struct {
	LoanNumber      string          `json:"loan_number"`
	LoanType        string          `json:"loan_type"`
	Party           reference.Party `json:"party"`
	LoanDate        string          `json:"loan_date"`
	DueDate         string          `json:"due_date"`
	PrincipalAmount float64         `json:"principal_amount"`
	InterestRate    float64         `json:"interest_rate"`
	InterestType    string          `json:"interest_type"`
	TotalInterest   *float64        `json:"total_interest"`
	TotalAmount     float64         `json:"total_amount"`
	MetalLoan       MetalLoanInput  `json:"metal_loan"`
	Notes           string          `json:"notes"`
}

// UpdateRequest never touches the principal, payments or the metal
// counters; those move through their own operations.
type UpdateRequest struct {
	DueDate       *string  `json:"due_date"`
	InterestRate  *float64 `json:"interest_rate"`
	InterestType  *string  `json:"interest_type"`
	TotalInterest *float64 `json:"total_interest"`
	Notes         *string  `json:"notes"`
}

type PaymentRequest struct {
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
	PaymentDate   string  `json:"payment_date"`
	Notes         string  `json:"notes"`
}

type ReturnMetalRequest struct {
	Weight float64 `json:"weight"`
}

type ListRequest struct {
	pagination.Pagination
	LoanType  string `form:"loan_type"`
	Status    string `form:"status"`
	PartyKind string `form:"party_kind"`
	PartyID   string `form:"party_id"`
}

type ListResponse struct {
	Loans    []Loan              `json:"loans"`
	PageInfo pagination.PageInfo `json:"pagination"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (Loan, error)
	Update(ctx context.Context, id string, req UpdateRequest) (Loan, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Loan, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	Pending(ctx context.Context) ([]Loan, error)
	RecordPayment(ctx context.Context, id string, req PaymentRequest) (Loan, error)
	ReturnMetal(ctx context.Context, id string, req ReturnMetalRequest) (Loan, error)
}

var (
	ErrInvalidID            = errors.New("invalid_id")
	ErrNotFound             = errors.New("not_found")
	ErrInvalidLoanType      = errors.New("invalid_loan_type")
	ErrInvalidParty         = errors.New("invalid_loan_party")
	ErrInvalidAmount        = errors.New("invalid_amount")
	ErrInvalidInterest      = errors.New("invalid_interest")
	ErrInvalidDate          = errors.New("invalid_date")
	ErrInvalidMetal         = errors.New("invalid_metal")
	ErrInvalidPurity        = errors.New("invalid_purity")
	ErrInvalidWeight        = errors.New("invalid_weight")
	ErrInvalidStatus        = errors.New("invalid_loan_status")
	ErrNotMetalLoan         = errors.New("not_metal_loan")
	ErrAmountExceedsBalance = errors.New("amount_exceeds_balance")
	ErrDuplicateNumber      = errors.New("duplicate_loan_number")
)
