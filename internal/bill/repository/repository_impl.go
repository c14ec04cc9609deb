package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/karatledger/internal/bill/domain"
	"github.com/smallbiznis/karatledger/pkg/db"
	"github.com/smallbiznis/karatledger/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, bill *domain.Bill) error {
	return conn.WithContext(ctx).Create(bill).Error
}

func (r *repo) Save(ctx context.Context, conn *gorm.DB, bill *domain.Bill) error {
	return conn.WithContext(ctx).Save(bill).Error
}

func (r *repo) Delete(ctx context.Context, conn *gorm.DB, id snowflake.ID) error {
	return conn.WithContext(ctx).Where("id = ?", id).Delete(&domain.Bill{}).Error
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.Bill, error) {
	return find(conn.WithContext(ctx), id)
}

func (r *repo) FindByIDForUpdate(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.Bill, error) {
	return find(db.ForUpdate(conn.WithContext(ctx)), id)
}

func find(stmt *gorm.DB, id snowflake.ID) (*domain.Bill, error) {
	var bill domain.Bill
	if err := stmt.Where("id = ?", id).Limit(1).Find(&bill).Error; err != nil {
		return nil, err
	}
	if bill.ID == 0 {
		return nil, nil
	}
	return &bill, nil
}

func (r *repo) List(ctx context.Context, conn *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]domain.Bill, int64, error) {
	stmt := conn.WithContext(ctx).Model(&domain.Bill{})
	if filter.BillType != "" {
		stmt = stmt.Where("bill_type = ?", filter.BillType)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		stmt = stmt.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.CustomerID != nil {
		stmt = stmt.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.From != nil {
		stmt = stmt.Where("bill_date >= ?", *filter.From)
	}
	if filter.To != nil {
		stmt = stmt.Where("bill_date < ?", *filter.To)
	}
	stmt = stmt.Session(&gorm.Session{})

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page = page.Normalize()
	items := []domain.Bill{}
	err := stmt.
		Order("bill_date desc, id desc").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repo) FindUnpaid(ctx context.Context, conn *gorm.DB) ([]domain.Bill, error) {
	items := []domain.Bill{}
	err := conn.WithContext(ctx).
		Where("payment_status IN ?", []domain.PaymentStatus{domain.PaymentUnpaid, domain.PaymentPartial}).
		Where("status <> ?", domain.StatusCancelled).
		Order("bill_date desc, id desc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
