package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/karatledger/internal/transaction/domain"
	"github.com/smallbiznis/karatledger/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, txn *domain.Transaction) error {
	return db.WithContext(ctx).Create(txn).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Transaction, error) {
	var txn domain.Transaction
	err := db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&txn).Error
	if err != nil {
		return nil, err
	}
	if txn.ID == 0 {
		return nil, nil
	}
	return &txn, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]domain.Transaction, int64, error) {
	stmt := applyFilter(db.WithContext(ctx).Model(&domain.Transaction{}), filter).Session(&gorm.Session{})

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page = page.Normalize()
	var items []domain.Transaction
	err := stmt.
		Order("transaction_date desc, id desc").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB, filter domain.ListFilter, ascending bool) ([]domain.Transaction, error) {
	order := "transaction_date desc, id desc"
	if ascending {
		order = "transaction_date asc, id asc"
	}
	items := []domain.Transaction{}
	err := applyFilter(db.WithContext(ctx).Model(&domain.Transaction{}), filter).
		Order(order).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) MarkReconciled(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error {
	return db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_reconciled":   true,
			"reconciled_date": at,
			"updated_at":      at,
		}).Error
}

func applyFilter(stmt *gorm.DB, filter domain.ListFilter) *gorm.DB {
	if filter.Type != "" {
		stmt = stmt.Where("type = ?", filter.Type)
	}
	if filter.PartyKind != "" {
		stmt = stmt.Where("party_kind = ?", filter.PartyKind)
	}
	if filter.PartyID != nil {
		stmt = stmt.Where("party_entity_id = ?", *filter.PartyID)
	}
	if filter.FinancialYear != "" {
		stmt = stmt.Where("financial_year = ?", filter.FinancialYear)
	}
	if filter.From != nil {
		stmt = stmt.Where("transaction_date >= ?", *filter.From)
	}
	if filter.To != nil {
		stmt = stmt.Where("transaction_date < ?", *filter.To)
	}
	if filter.Reconciled != nil {
		stmt = stmt.Where("is_reconciled = ?", *filter.Reconciled)
	}
	return stmt
}
