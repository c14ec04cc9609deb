package repository

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/karatledger/internal/agent/domain"
	"github.com/smallbiznis/karatledger/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, agent *domain.Agent) error {
	return db.WithContext(ctx).Create(agent).Error
}

func (r *repo) Save(ctx context.Context, db *gorm.DB, agent *domain.Agent) error {
	return db.WithContext(ctx).Save(agent).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Agent{}).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Agent, error) {
	var agent domain.Agent
	if err := db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&agent).Error; err != nil {
		return nil, err
	}
	if agent.ID == 0 {
		return nil, nil
	}
	return &agent, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]domain.Agent, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.Agent{})
	if filter.Name != "" {
		stmt = stmt.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Name)+"%")
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
	items := []domain.Agent{}
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

func (r *repo) AddOrder(ctx context.Context, db *gorm.DB, id snowflake.ID, sales, commission float64, at time.Time) error {
	return db.WithContext(ctx).
		Model(&domain.Agent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"total_orders":            gorm.Expr("total_orders + 1"),
			"total_sales":             gorm.Expr("total_sales + ?", sales),
			"total_commission_earned": gorm.Expr("total_commission_earned + ?", commission),
			"pending_commission":      gorm.Expr("pending_commission + ?", commission),
			"updated_at":              at,
		}).Error
}
