package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/karatledger/internal/balance"
	"github.com/smallbiznis/karatledger/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	Name           string
	Specialization string
	IsActive       *bool
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, worker *JobWorker) error
	Save(ctx context.Context, db *gorm.DB, worker *JobWorker) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*JobWorker, error)
	FindByIDForUpdate(ctx context.Context, db *gorm.DB, id snowflake.ID) (*JobWorker, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]JobWorker, int64, error)
	UpdateBalances(ctx context.Context, db *gorm.DB, id snowflake.ID, b balance.Balances, updatedBy string, at time.Time) error
}
