package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/karatledger/internal/payment/domain"
	"github.com/smallbiznis/karatledger/pkg/db"
	"github.com/smallbiznis/karatledger/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, payment *domain.Payment) error {
	return conn.WithContext(ctx).Create(payment).Error
}

func (r *repo) Save(ctx context.Context, conn *gorm.DB, payment *domain.Payment) error {
	return conn.WithContext(ctx).Save(payment).Error
}

func (r *repo) Delete(ctx context.Context, conn *gorm.DB, id snowflake.ID) error {
	return conn.WithContext(ctx).Where("id = ?", id).Delete(&domain.Payment{}).Error
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.Payment, error) {
	return find(conn.WithContext(ctx), id)
}

func (r *repo) FindByIDForUpdate(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.Payment, error) {
	return find(db.ForUpdate(conn.WithContext(ctx)), id)
}

func find(stmt *gorm.DB, id snowflake.ID) (*domain.Payment, error) {
	var payment domain.Payment
	if err := stmt.Where("id = ?", id).Limit(1).Find(&payment).Error; err != nil {
		return nil, err
	}
	if payment.ID == 0 {
		return nil, nil
	}
	return &payment, nil
}

func (r *repo) List(ctx context.Context, conn *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]domain.Payment, int64, error) {
	stmt := conn.WithContext(ctx).Model(&domain.Payment{})
	if filter.PaymentType != "" {
		stmt = stmt.Where("payment_type = ?", filter.PaymentType)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.PaymentMethod != "" {
		stmt = stmt.Where("payment_method = ?", filter.PaymentMethod)
	}
	if filter.PartyKind != "" {
		stmt = stmt.Where("party_kind = ?", filter.PartyKind)
	}
	if filter.PartyID != nil {
		stmt = stmt.Where("party_entity_id = ?", *filter.PartyID)
	}
	if filter.ReferenceKind != "" {
		stmt = stmt.Where("reference_kind = ?", filter.ReferenceKind)
	}
	if filter.ReferenceID != nil {
		stmt = stmt.Where("reference_entity_id = ?", *filter.ReferenceID)
	}
	if filter.From != nil {
		stmt = stmt.Where("payment_date >= ?", *filter.From)
	}
	if filter.To != nil {
		stmt = stmt.Where("payment_date < ?", *filter.To)
	}
	stmt = stmt.Session(&gorm.Session{})

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page = page.Normalize()
	items := []domain.Payment{}
	err := stmt.
		Order("payment_date desc, id desc").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
