package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/karatledger/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	Category Category
	Metal    string
	IsActive *bool
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, item *Item) error
	Save(ctx context.Context, db *gorm.DB, item *Item) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Item, error)
	FindByIDForUpdate(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Item, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]Item, int64, error)
	LowStock(ctx context.Context, db *gorm.DB) ([]Item, error)
	Search(ctx context.Context, db *gorm.DB, query string, limit int) ([]Item, error)
}
