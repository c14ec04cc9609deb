package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/karatledger/internal/balance"
	"github.com/smallbiznis/karatledger/pkg/db/pagination"
)

type CreateRequest struct {
	CustomerNumber string              `json:"customer_number"`
	Name           string              `json:"name"`
	Relation       string              `json:"relation"`
	RelationName   string              `json:"relation_name"`
	Type           string              `json:"type"`
	LFNo           string              `json:"lf_no"`
	OpeningDate    string              `json:"opening_date"`
	OpeningBalance float64             `json:"opening_balance"`
	CurrentBalance float64             `json:"current_balance"`
	GoldBalance    balance.MetalWeight `json:"gold_balance"`
	SilverBalance  balance.MetalWeight `json:"silver_balance"`
	MaxCreditLimit float64             `json:"max_credit_limit"`
	Address        string              `json:"address"`
	Station        string              `json:"station"`
	Phone          string              `json:"phone"`
	Mobile         string              `json:"mobile"`
	Email          string              `json:"email"`
	AadharNo       string              `json:"aadhar_no"`
	PANNo          string              `json:"pan_no"`
	IsActive       *bool               `json:"is_active"`
	Notes          string              `json:"notes"`
}

// UpdateRequest changes only the fields that are present. Balances move
// through UpdateBalance, never through a plain update.
type UpdateRequest struct {
	Name           *string  `json:"name"`
	Relation       *string  `json:"relation"`
	RelationName   *string  `json:"relation_name"`
	Type           *string  `json:"type"`
	LFNo           *string  `json:"lf_no"`
	MaxCreditLimit *float64 `json:"max_credit_limit"`
	Address        *string  `json:"address"`
	Station        *string  `json:"station"`
	Phone          *string  `json:"phone"`
	Mobile         *string  `json:"mobile"`
	Email          *string  `json:"email"`
	AadharNo       *string  `json:"aadhar_no"`
	PANNo          *string  `json:"pan_no"`
	IsActive       *bool    `json:"is_active"`
	Notes          *string  `json:"notes"`
}

type ListRequest struct {
	pagination.Pagination
	Name     string `form:"name"`
	Station  string `form:"station"`
	IsActive *bool  `form:"is_active"`
}

type ListResponse struct {
	Customers []Customer          `json:"customers"`
	PageInfo  pagination.PageInfo `json:"pagination"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (Customer, error)
	Update(ctx context.Context, id string, req UpdateRequest) (Customer, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Customer, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	Search(ctx context.Context, query string) ([]Customer, error)
	GetBalance(ctx context.Context, id string) (BalanceSummary, error)
	UpdateBalance(ctx context.Context, id string, req balance.UpdateRequest) (Customer, error)
}

var (
	ErrInvalidID          = errors.New("invalid_id")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidRelation    = errors.New("invalid_relation")
	ErrInvalidPhone       = errors.New("invalid_phone")
	ErrInvalidMobile      = errors.New("invalid_mobile")
	ErrInvalidEmail       = errors.New("invalid_email")
	ErrInvalidAadhar      = errors.New("invalid_aadhar")
	ErrInvalidPAN         = errors.New("invalid_pan")
	ErrInvalidOpeningDate = errors.New("invalid_opening_date")
	ErrEmptyQuery         = errors.New("empty_search_query")
	ErrDuplicateNumber    = errors.New("duplicate_customer_number")
)

// ContactError maps a kyc field name to this package's sentinel.
func ContactError(field string) error {
	switch field {
	case "phone":
		return ErrInvalidPhone
	case "mobile":
		return ErrInvalidMobile
	case "email":
		return ErrInvalidEmail
	case "aadhar_no":
		return ErrInvalidAadhar
	case "pan_no":
		return ErrInvalidPAN
	}
	return nil
}
