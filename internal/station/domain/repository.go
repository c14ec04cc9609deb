package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, station *Station) error
	Save(ctx context.Context, db *gorm.DB, station *Station) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Station, error)
	FindByName(ctx context.Context, db *gorm.DB, name string) (*Station, error)
	List(ctx context.Context, db *gorm.DB, activeOnly bool) ([]Station, error)
}
