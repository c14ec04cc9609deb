package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/karatledger/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	Type          Type
	PartyKind     string
	PartyID       *snowflake.ID
	FinancialYear string
	From          *time.Time
	To            *time.Time // exclusive
	Reconciled    *bool
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, txn *Transaction) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Transaction, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]Transaction, int64, error)
	FindAll(ctx context.Context, db *gorm.DB, filter ListFilter, ascending bool) ([]Transaction, error)
	MarkReconciled(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error
}
