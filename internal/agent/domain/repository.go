package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/karatledger/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	Name     string
	IsActive *bool
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, agent *Agent) error
	Save(ctx context.Context, db *gorm.DB, agent *Agent) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Agent, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]Agent, int64, error)
	// AddOrder bumps the order counters in one statement.
	AddOrder(ctx context.Context, db *gorm.DB, id snowflake.ID, sales, commission float64, at time.Time) error
}
