package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/karatledger/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	BillType      BillType
	Status        Status
	PaymentStatus PaymentStatus
	CustomerID    *snowflake.ID
	From          *time.Time
	To            *time.Time
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, bill *Bill) error
	Save(ctx context.Context, db *gorm.DB, bill *Bill) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Bill, error)
	FindByIDForUpdate(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Bill, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]Bill, int64, error)
	FindUnpaid(ctx context.Context, db *gorm.DB) ([]Bill, error)
}
