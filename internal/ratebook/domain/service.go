package domain

import (
	"context"
	"errors"
)

type RateInput struct {
	Metal       string  `json:"metal"`
	Purity      string  `json:"purity"`
	BuyingRate  float64 `json:"buying_rate"`
	SellingRate float64 `json:"selling_rate"`
	Unit        string  `json:"unit"`
}

type CreateRequest struct {
	Date                 string         `json:"date"`
	Rates                []RateInput    `json:"rates"`
	DefaultMakingCharges *MakingCharges `json:"default_making_charges"`
	GSTRates             *GSTRates      `json:"gst_rates"`
	Notes                string         `json:"notes"`
	IsActive             *bool          `json:"is_active"`
}

type UpdateRequest struct {
	Rates                *[]RateInput   `json:"rates"`
	DefaultMakingCharges *MakingCharges `json:"default_making_charges"`
	GSTRates             *GSTRates      `json:"gst_rates"`
	Notes                *string        `json:"notes"`
	IsActive             *bool          `json:"is_active"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (RateBook, error)
	Update(ctx context.Context, id string, req UpdateRequest) (RateBook, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (RateBook, error)
	List(ctx context.Context) ([]RateBook, error)
	Latest(ctx context.Context) (RateBook, error)
	ByDate(ctx context.Context, date string) (RateBook, error)
	Rate(ctx context.Context, metal, purity, rateType string) (RateQuote, error)
}

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrNotFound        = errors.New("not_found")
	ErrInvalidDate     = errors.New("invalid_date")
	ErrDuplicateDate   = errors.New("duplicate_rate_book_date")
	ErrInvalidMetal    = errors.New("invalid_metal")
	ErrInvalidPurity   = errors.New("invalid_purity")
	ErrInvalidRate     = errors.New("invalid_rate")
	ErrInvalidUnit     = errors.New("invalid_rate_unit")
	ErrInvalidRateType = errors.New("invalid_rate_type")
	ErrInvalidGSTRate  = errors.New("invalid_gst_rate")
	ErrRateNotFound    = errors.New("rate_not_found")
)
