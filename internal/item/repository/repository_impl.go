package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/karatledger/internal/item/domain"
	"github.com/smallbiznis/karatledger/pkg/db"
	"github.com/smallbiznis/karatledger/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, item *domain.Item) error {
	return conn.WithContext(ctx).Create(item).Error
}

func (r *repo) Save(ctx context.Context, conn *gorm.DB, item *domain.Item) error {
	return conn.WithContext(ctx).Save(item).Error
}

func (r *repo) Delete(ctx context.Context, conn *gorm.DB, id snowflake.ID) error {
	return conn.WithContext(ctx).Where("id = ?", id).Delete(&domain.Item{}).Error
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.Item, error) {
	return find(conn.WithContext(ctx), id)
}

func (r *repo) FindByIDForUpdate(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.Item, error) {
	return find(db.ForUpdate(conn.WithContext(ctx)), id)
}

func find(stmt *gorm.DB, id snowflake.ID) (*domain.Item, error) {
	var item domain.Item
	if err := stmt.Where("id = ?", id).Limit(1).Find(&item).Error; err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) List(ctx context.Context, conn *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]domain.Item, int64, error) {
	stmt := conn.WithContext(ctx).Model(&domain.Item{})
	if filter.Category != "" {
		stmt = stmt.Where("category = ?", filter.Category)
	}
	if filter.Metal != "" {
		stmt = stmt.Where("metal = ?", filter.Metal)
	}
	if filter.IsActive != nil {
		stmt = stmt.Where("is_active = ?", *filter.IsActive)
	}
	stmt = stmt.Session(&gorm.Session{})

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page = page.Normalize()
	items := []domain.Item{}
	err := stmt.
		Order("created_at desc, id desc").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repo) LowStock(ctx context.Context, conn *gorm.DB) ([]domain.Item, error) {
	items := []domain.Item{}
	err := conn.WithContext(ctx).
		Where("stock_quantity <= minimum_stock").
		Order("stock_quantity asc, name asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Search(ctx context.Context, conn *gorm.DB, query string, limit int) ([]domain.Item, error) {
	like := "%" + strings.ToLower(query) + "%"
	tags := "LOWER(tags)"
	if conn.Dialector.Name() == "postgres" {
		tags = "LOWER(tags::text)"
	}
	items := []domain.Item{}
	err := conn.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(item_code) LIKE ? OR LOWER(huid) LIKE ? OR "+tags+" LIKE ?",
			like, like, like, like).
		Order("name asc").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
