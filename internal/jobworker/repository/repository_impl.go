package repository

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/karatledger/internal/balance"
	"github.com/smallbiznis/karatledger/internal/jobworker/domain"
	"github.com/smallbiznis/karatledger/pkg/db"
	"github.com/smallbiznis/karatledger/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, worker *domain.JobWorker) error {
	return conn.WithContext(ctx).Create(worker).Error
}

func (r *repo) Save(ctx context.Context, conn *gorm.DB, worker *domain.JobWorker) error {
	return conn.WithContext(ctx).Save(worker).Error
}

func (r *repo) Delete(ctx context.Context, conn *gorm.DB, id snowflake.ID) error {
	return conn.WithContext(ctx).Where("id = ?", id).Delete(&domain.JobWorker{}).Error
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.JobWorker, error) {
	return find(conn.WithContext(ctx), id)
}

func (r *repo) FindByIDForUpdate(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.JobWorker, error) {
	return find(db.ForUpdate(conn.WithContext(ctx)), id)
}

func find(stmt *gorm.DB, id snowflake.ID) (*domain.JobWorker, error) {
	var worker domain.JobWorker
	if err := stmt.Where("id = ?", id).Limit(1).Find(&worker).Error; err != nil {
		return nil, err
	}
	if worker.ID == 0 {
		return nil, nil
	}
	return &worker, nil
}

func (r *repo) List(ctx context.Context, conn *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]domain.JobWorker, int64, error) {
	stmt := conn.WithContext(ctx).Model(&domain.JobWorker{})
	if filter.Name != "" {
		stmt = stmt.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Name)+"%")
	}
	if filter.Specialization != "" {
		// JSON array stored as text; match the quoted element
		column := "specialization"
		if conn.Dialector.Name() == "postgres" {
			column = "specialization::text"
		}
		stmt = stmt.Where("LOWER("+column+") LIKE ?", `%"`+strings.ToLower(filter.Specialization)+`"%`)
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
	items := []domain.JobWorker{}
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

func (r *repo) UpdateBalances(ctx context.Context, conn *gorm.DB, id snowflake.ID, b balance.Balances, updatedBy string, at time.Time) error {
	return conn.WithContext(ctx).
		Model(&domain.JobWorker{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"current_balance": b.Cash,
			"gold_weight":     b.Gold,
			"silver_weight":   b.Silver,
			"updated_by":      updatedBy,
			"updated_at":      at,
		}).Error
}
