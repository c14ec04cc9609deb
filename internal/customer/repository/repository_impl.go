package repository

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/karatledger/internal/balance"
	"github.com/smallbiznis/karatledger/internal/customer/domain"
	"github.com/smallbiznis/karatledger/pkg/db"
	"github.com/smallbiznis/karatledger/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, customer *domain.Customer) error {
	return conn.WithContext(ctx).Create(customer).Error
}

func (r *repo) Save(ctx context.Context, conn *gorm.DB, customer *domain.Customer) error {
	return conn.WithContext(ctx).Save(customer).Error
}

func (r *repo) Delete(ctx context.Context, conn *gorm.DB, id snowflake.ID) error {
	return conn.WithContext(ctx).Where("id = ?", id).Delete(&domain.Customer{}).Error
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.Customer, error) {
	return r.find(conn.WithContext(ctx), id)
}

func (r *repo) FindByIDForUpdate(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.Customer, error) {
	return r.find(db.ForUpdate(conn.WithContext(ctx)), id)
}

func (r *repo) find(stmt *gorm.DB, id snowflake.ID) (*domain.Customer, error) {
	var customer domain.Customer
	if err := stmt.Where("id = ?", id).Limit(1).Find(&customer).Error; err != nil {
		return nil, err
	}
	if customer.ID == 0 {
		return nil, nil
	}
	return &customer, nil
}

func (r *repo) List(ctx context.Context, conn *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]domain.Customer, int64, error) {
	stmt := conn.WithContext(ctx).Model(&domain.Customer{})
	if filter.Name != "" {
		stmt = stmt.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Name)+"%")
	}
	if filter.Station != "" {
		stmt = stmt.Where("station = ?", filter.Station)
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
	items := []domain.Customer{}
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

func (r *repo) Search(ctx context.Context, conn *gorm.DB, query string, limit int) ([]domain.Customer, error) {
	like := "%" + strings.ToLower(query) + "%"
	items := []domain.Customer{}
	err := conn.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(customer_number) LIKE ? OR phone LIKE ? OR mobile LIKE ? OR LOWER(email) LIKE ?",
			like, like, like, like, like).
		Order("name asc").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) UpdateBalances(ctx context.Context, conn *gorm.DB, id snowflake.ID, b balance.Balances, updatedBy string, at time.Time) error {
	return conn.WithContext(ctx).
		Model(&domain.Customer{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"current_balance": b.Cash,
			"gold_weight":     b.Gold,
			"silver_weight":   b.Silver,
			"updated_by":      updatedBy,
			"updated_at":      at,
		}).Error
}
