package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/karatledger/pkg/amount"
	"github.com/smallbiznis/karatledger/pkg/db/pagination"
	"gorm.io/gorm"
)

type LineItemInput struct {
	ItemID          string       `json:"item"`
	ItemName        string       `json:"item_name"`
	Description     string       `json:"description"`
	Quantity        int64        `json:"quantity"`
	Metal           string       `json:"metal"`
	Purity          string       `json:"purity"`
	EstimatedWeight WeightInput  `json:"estimated_weight"`
	ActualWeight    WeightInput  `json:"actual_weight"`
	Rate            float64      `json:"rate"`
	MakingCharges   MakingCharge `json:"making_charges"`
	StoneCharges    float64      `json:"stone_charges"`
}

type WeightInput struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

type CreateRequest struct {
	OrderNumber         string          `json:"order_number"`
	CustomerID          string          `json:"customer"`
	OrderDate           string          `json:"order_date"`
	DeliveryDate        string          `json:"delivery_date"`
	Items               []LineItemInput `json:"items"`
	GSTRate             *float64        `json:"gst_rate"`
	Discount            amount.Discount `json:"discount"`
	AdvancePaid         float64         `json:"advance_paid"`
	Status              string          `json:"status"`
	AssignedTo          string          `json:"assigned_to"`
	AgentID             string          `json:"agent"`
	Notes               string          `json:"notes"`
	SpecialInstructions string          `json:"special_instructions"`
	DeliveryAddress     string          `json:"delivery_address"`
}

// UpdateRequest replaces the line items when Items is set. Customer, agent
// and job worker are changed through their own operations.
type UpdateRequest struct {
	DeliveryDate        *string          `json:"delivery_date"`
	Items               *[]LineItemInput `json:"items"`
	GSTRate             *float64         `json:"gst_rate"`
	Discount            *amount.Discount `json:"discount"`
	AdvancePaid         *float64         `json:"advance_paid"`
	Notes               *string          `json:"notes"`
	SpecialInstructions *string          `json:"special_instructions"`
	DeliveryAddress     *string          `json:"delivery_address"`
}

type ListRequest struct {
	pagination.Pagination
	Status     string `form:"status"`
	CustomerID string `form:"customer"`
	AssignedTo string `form:"assigned_to"`
	AgentID    string `form:"agent"`
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
}

type ListResponse struct {
	Orders   []Order             `json:"orders"`
	PageInfo pagination.PageInfo `json:"pagination"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (Order, error)
	Update(ctx context.Context, id string, req UpdateRequest) (Order, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Order, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	UpdateStatus(ctx context.Context, id string, status string) (Order, error)
	Assign(ctx context.Context, id string, jobWorkerID string) (Order, error)
	Pending(ctx context.Context) ([]Order, error)
	Ready(ctx context.Context) ([]Order, error)
	// LinkBill records the bill raised against an order inside the
	// caller's transaction.
	LinkBill(ctx context.Context, tx *gorm.DB, id string, billNumber string) error
}

var (
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
	ErrInvalidStatus       = errors.New("invalid_order_status")
	ErrEmptyItems          = errors.New("order_items_required")
	ErrInvalidItemName     = errors.New("invalid_item_name")
	ErrInvalidQuantity     = errors.New("invalid_quantity")
	ErrInvalidMetal        = errors.New("invalid_metal")
	ErrInvalidPurity       = errors.New("invalid_purity")
	ErrInvalidWeight       = errors.New("invalid_weight")
	ErrInvalidRate         = errors.New("invalid_rate")
	ErrInvalidMakingType   = errors.New("invalid_making_charges_type")
	ErrInvalidGSTRate      = errors.New("invalid_gst_rate")
	ErrInvalidAdvance      = errors.New("invalid_advance")
	ErrAdvanceExceedsTotal = errors.New("advance_exceeds_total")
	ErrInvalidDate         = errors.New("invalid_date")
	ErrDuplicateNumber     = errors.New("duplicate_order_number")
)
