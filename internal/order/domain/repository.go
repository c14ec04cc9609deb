package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/karatledger/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	Status     Status
	CustomerID *snowflake.ID
	AssignedTo *snowflake.ID
	AgentID    *snowflake.ID
	From       *time.Time
	To         *time.Time
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, order *Order) error
	Save(ctx context.Context, db *gorm.DB, order *Order) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Order, error)
	FindByIDForUpdate(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Order, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]Order, int64, error)
	FindByStatus(ctx context.Context, db *gorm.DB, status Status) ([]Order, error)
	SetBillNumber(ctx context.Context, db *gorm.DB, id snowflake.ID, billNumber string, at time.Time) error
}
