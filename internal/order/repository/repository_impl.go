package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/karatledger/internal/order/domain"
	"github.com/smallbiznis/karatledger/pkg/db"
	"github.com/smallbiznis/karatledger/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, order *domain.Order) error {
	return conn.WithContext(ctx).Create(order).Error
}

func (r *repo) Save(ctx context.Context, conn *gorm.DB, order *domain.Order) error {
	return conn.WithContext(ctx).Save(order).Error
}

func (r *repo) Delete(ctx context.Context, conn *gorm.DB, id snowflake.ID) error {
	return conn.WithContext(ctx).Where("id = ?", id).Delete(&domain.Order{}).Error
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.Order, error) {
	return find(conn.WithContext(ctx), id)
}

func (r *repo) FindByIDForUpdate(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.Order, error) {
	return find(db.ForUpdate(conn.WithContext(ctx)), id)
}

func find(stmt *gorm.DB, id snowflake.ID) (*domain.Order, error) {
	var order domain.Order
	if err := stmt.Where("id = ?", id).Limit(1).Find(&order).Error; err != nil {
		return nil, err
	}
	if order.ID == 0 {
		return nil, nil
	}
	return &order, nil
}

func (r *repo) List(ctx context.Context, conn *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]domain.Order, int64, error) {
	stmt := conn.WithContext(ctx).Model(&domain.Order{})
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != nil {
		stmt = stmt.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.AssignedTo != nil {
		stmt = stmt.Where("assigned_to = ?", *filter.AssignedTo)
	}
	if filter.AgentID != nil {
		stmt = stmt.Where("agent_id = ?", *filter.AgentID)
	}
	if filter.From != nil {
		stmt = stmt.Where("order_date >= ?", *filter.From)
	}
	if filter.To != nil {
		stmt = stmt.Where("order_date < ?", *filter.To)
	}
	stmt = stmt.Session(&gorm.Session{})

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page = page.Normalize()
	items := []domain.Order{}
	err := stmt.
		Order("order_date desc, id desc").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repo) FindByStatus(ctx context.Context, conn *gorm.DB, status domain.Status) ([]domain.Order, error) {
	items := []domain.Order{}
	err := conn.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at desc, id desc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) SetBillNumber(ctx context.Context, conn *gorm.DB, id snowflake.ID, billNumber string, at time.Time) error {
	return conn.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ?", id).
		Updates(map[string]any{"bill_number": billNumber, "updated_at": at}).Error
}
