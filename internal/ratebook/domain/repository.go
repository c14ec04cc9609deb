package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, book *RateBook) error
	Save(ctx context.Context, db *gorm.DB, book *RateBook) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*RateBook, error)
	FindByDate(ctx context.Context, db *gorm.DB, date time.Time) (*RateBook, error)
	// FindLatest returns the active book with the greatest date.
	FindLatest(ctx context.Context, db *gorm.DB) (*RateBook, error)
	List(ctx context.Context, db *gorm.DB) ([]RateBook, error)
}
