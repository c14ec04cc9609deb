package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/karatledger/internal/balance"
	"github.com/smallbiznis/karatledger/pkg/db/pagination"
)

type CreateRequest struct {
	WorkerNumber   string              `json:"worker_number"`
	Name           string              `json:"name"`
	Specialization []string            `json:"specialization"`
	Relation       string              `json:"relation"`
	RelationName   string              `json:"relation_name"`
	Address        string              `json:"address"`
	Phone          string              `json:"phone"`
	Mobile         string              `json:"mobile"`
	Email          string              `json:"email"`
	OpeningBalance float64             `json:"opening_balance"`
	CurrentBalance float64             `json:"current_balance"`
	GoldBalance    balance.MetalWeight `json:"gold_balance"`
	SilverBalance  balance.MetalWeight `json:"silver_balance"`
	BankName       string              `json:"bank_name"`
	AccountNumber  string              `json:"account_number"`
	IFSCCode       string              `json:"ifsc_code"`
	AadharNo       string              `json:"aadhar_no"`
	PANNo          string              `json:"pan_no"`
	IsActive       *bool               `json:"is_active"`
	Rating         float64             `json:"rating"`
	Notes          string              `json:"notes"`
}

type UpdateRequest struct {
	Name           *string   `json:"name"`
	Specialization *[]string `json:"specialization"`
	Relation       *string   `json:"relation"`
	RelationName   *string   `json:"relation_name"`
	Address        *string   `json:"address"`
	Phone          *string   `json:"phone"`
	Mobile         *string   `json:"mobile"`
	Email          *string   `json:"email"`
	BankName       *string   `json:"bank_name"`
	AccountNumber  *string   `json:"account_number"`
	IFSCCode       *string   `json:"ifsc_code"`
	AadharNo       *string   `json:"aadhar_no"`
	PANNo          *string   `json:"pan_no"`
	IsActive       *bool     `json:"is_active"`
	Rating         *float64  `json:"rating"`
	Notes          *string   `json:"notes"`
}

type ListRequest struct {
	pagination.Pagination
	Name           string `form:"name"`
	Specialization string `form:"specialization"`
	IsActive       *bool  `form:"is_active"`
}

type ListResponse struct {
	JobWorkers []JobWorker         `json:"job_workers"`
	PageInfo   pagination.PageInfo `json:"pagination"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (JobWorker, error)
	Update(ctx context.Context, id string, req UpdateRequest) (JobWorker, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (JobWorker, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	GetBalance(ctx context.Context, id string) (BalanceSummary, error)
	UpdateBalance(ctx context.Context, id string, req balance.UpdateRequest) (JobWorker, error)
}

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrNotFound        = errors.New("not_found")
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidRelation = errors.New("invalid_relation")
	ErrInvalidPhone    = errors.New("invalid_phone")
	ErrInvalidMobile   = errors.New("invalid_mobile")
	ErrInvalidEmail    = errors.New("invalid_email")
	ErrInvalidAadhar   = errors.New("invalid_aadhar")
	ErrInvalidPAN      = errors.New("invalid_pan")
	ErrInvalidRating   = errors.New("invalid_rating")
	ErrDuplicateNumber = errors.New("duplicate_worker_number")
)

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

func ValidRating(r float64) bool {
	return r >= 0 && r <= 5
}
