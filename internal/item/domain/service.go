package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/karatledger/pkg/db/pagination"
)

type CreateRequest struct {
	ItemCode          string   `json:"item_code"`
	Name              string   `json:"name"`
	Category          string   `json:"category"`
	Description       string   `json:"description"`
	Metal             string   `json:"metal"`
	Purity            string   `json:"purity"`
	Weight            Weight   `json:"weight"`
	MakingCharges     float64  `json:"making_charges"`
	MakingChargesType string   `json:"making_charges_type"`
	StoneCharges      float64  `json:"stone_charges"`
	HUID              string   `json:"huid"`
	StockQuantity     int64    `json:"stock_quantity"`
	MinimumStock      int64    `json:"minimum_stock"`
	IsActive          *bool    `json:"is_active"`
	Tags              []string `json:"tags"`
	Notes             string   `json:"notes"`
}

type UpdateRequest struct {
	Name              *string   `json:"name"`
	Category          *string   `json:"category"`
	Description       *string   `json:"description"`
	Metal             *string   `json:"metal"`
	Purity            *string   `json:"purity"`
	Weight            *Weight   `json:"weight"`
	MakingCharges     *float64  `json:"making_charges"`
	MakingChargesType *string   `json:"making_charges_type"`
	StoneCharges      *float64  `json:"stone_charges"`
	HUID              *string   `json:"huid"`
	MinimumStock      *int64    `json:"minimum_stock"`
	IsActive          *bool     `json:"is_active"`
	Tags              *[]string `json:"tags"`
	Notes             *string   `json:"notes"`
}

type StockRequest struct {
	Quantity  int64  `json:"quantity"`
	Operation string `json:"operation"`
}

type ListRequest struct {
	pagination.Pagination
	Category string `form:"category"`
	Metal    string `form:"metal"`
	IsActive *bool  `form:"is_active"`
}

type ListResponse struct {
	Items    []Item              `json:"items"`
	PageInfo pagination.PageInfo `json:"pagination"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (Item, error)
	Update(ctx context.Context, id string, req UpdateRequest) (Item, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Item, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	UpdateStock(ctx context.Context, id string, req StockRequest) (Item, error)
	LowStock(ctx context.Context) ([]Item, error)
	Search(ctx context.Context, query string) ([]Item, error)
}

var (
	ErrInvalidID             = errors.New("invalid_id")
	ErrNotFound              = errors.New("not_found")
	ErrInvalidName           = errors.New("invalid_name")
	ErrInvalidCategory       = errors.New("invalid_category")
	ErrInvalidMetal          = errors.New("invalid_metal")
	ErrInvalidPurity         = errors.New("invalid_purity")
	ErrInvalidWeight         = errors.New("invalid_weight")
	ErrInvalidMakingType     = errors.New("invalid_making_charges_type")
	ErrInvalidCharges        = errors.New("invalid_charges")
	ErrInvalidQuantity       = errors.New("invalid_quantity")
	ErrInvalidStockOperation = errors.New("invalid_stock_operation")
	ErrInsufficientStock     = errors.New("insufficient_stock")
	ErrDuplicateItem         = errors.New("duplicate_item_code_or_huid")
	ErrEmptyQuery            = errors.New("empty_search_query")
)
