package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/karatledger/pkg/db/pagination"
	"gorm.io/gorm"
)

type CreateRequest struct {
	AgentNumber    string  `json:"agent_number"`
	Name           string  `json:"name"`
	Company        string  `json:"company"`
	Phone          string  `json:"phone"`
	Mobile         string  `json:"mobile"`
	Email          string  `json:"email"`
	Address        string  `json:"address"`
	CommissionType string  `json:"commission_type"`
	CommissionRate float64 `json:"commission_rate"`
	JoinDate       string  `json:"join_date"`
	PANNo          string  `json:"pan_no"`
	IsActive       *bool   `json:"is_active"`
	Notes          string  `json:"notes"`
}

type UpdateRequest struct {
	Name              *string  `json:"name"`
	Company           *string  `json:"company"`
	Phone             *string  `json:"phone"`
	Mobile            *string  `json:"mobile"`
	Email             *string  `json:"email"`
	Address           *string  `json:"address"`
	CommissionType    *string  `json:"commission_type"`
	CommissionRate    *float64 `json:"commission_rate"`
	PendingCommission *float64 `json:"pending_commission"`
	PANNo             *string  `json:"pan_no"`
	IsActive          *bool    `json:"is_active"`
	Notes             *string  `json:"notes"`
}

type ListRequest struct {
	pagination.Pagination
	Name     string `form:"name"`
	IsActive *bool  `form:"is_active"`
}

type ListResponse struct {
	Agents   []Agent             `json:"agents"`
	PageInfo pagination.PageInfo `json:"pagination"`
}

// OrderCredit is what one order added to an agent's counters.
type OrderCredit struct {
	Sales      float64
	Commission float64
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (Agent, error)
	Update(ctx context.Context, id string, req UpdateRequest) (Agent, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Agent, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	Stats(ctx context.Context, id string) (Stats, error)
	// RecordOrder credits an order of orderTotal to the agent inside tx.
	RecordOrder(ctx context.Context, tx *gorm.DB, id snowflake.ID, orderTotal float64) (OrderCredit, error)
	// ReverseOrder takes a deleted order's credit back out inside tx.
	ReverseOrder(ctx context.Context, tx *gorm.DB, id snowflake.ID, credit OrderCredit) error
}

var (
	ErrInvalidID             = errors.New("invalid_id")
	ErrNotFound              = errors.New("not_found")
	ErrInvalidName           = errors.New("invalid_name")
	ErrInvalidPhone          = errors.New("invalid_phone")
	ErrInvalidMobile         = errors.New("invalid_mobile")
	ErrInvalidEmail          = errors.New("invalid_email")
	ErrInvalidPAN            = errors.New("invalid_pan")
	ErrInvalidCommissionType = errors.New("invalid_commission_type")
	ErrInvalidCommissionRate = errors.New("invalid_commission_rate")
	ErrInvalidJoinDate       = errors.New("invalid_join_date")
	ErrDuplicateNumber       = errors.New("duplicate_agent_number")
)

func ContactError(field string) error {
	switch field {
	case "phone":
		return ErrInvalidPhone
	case "mobile":
		return ErrInvalidMobile
	case "email":
		return ErrInvalidEmail
	case "pan_no":
		return ErrInvalidPAN
	}
	return nil
}
