package domain

import (
	"context"
	"errors"
)

type CreateRequest struct {
	Name        string  `json:"name"`
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Address     Address `json:"address"`
	Phone       string  `json:"phone"`
	Email       string  `json:"email"`
	IsActive    *bool   `json:"is_active"`
	Notes       string  `json:"notes"`
}

type UpdateRequest struct {
	Name        *string  `json:"name"`
	Code        *string  `json:"code"`
	Description *string  `json:"description"`
	Address     *Address `json:"address"`
	Phone       *string  `json:"phone"`
	Email       *string  `json:"email"`
	IsActive    *bool    `json:"is_active"`
	Notes       *string  `json:"notes"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (Station, error)
	Update(ctx context.Context, id string, req UpdateRequest) (Station, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Station, error)
	GetByName(ctx context.Context, name string) (Station, error)
	List(ctx context.Context, activeOnly bool) ([]Station, error)
}

var (
	ErrInvalidID      = errors.New("invalid_id")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidCode    = errors.New("invalid_code")
	ErrInvalidEmail   = errors.New("invalid_email")
	ErrInvalidPincode = errors.New("invalid_pincode")
	ErrDuplicate      = errors.New("duplicate_station")
)
