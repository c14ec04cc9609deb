package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/karatledger/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	LoanType  LoanType
	Status    Status
	PartyKind string
	PartyID   *snowflake.ID
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, loan *Loan) error
	Save(ctx context.Context, db *gorm.DB, loan *Loan) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Loan, error)
	FindByIDForUpdate(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Loan, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]Loan, int64, error)
	FindOpen(ctx context.Context, db *gorm.DB) ([]Loan, error)
}
