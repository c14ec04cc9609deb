package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/karatledger/internal/loan/domain"
	"github.com/smallbiznis/karatledger/pkg/db"
	"github.com/smallbiznis/karatledger/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, loan *domain.Loan) error {
	return conn.WithContext(ctx).Create(loan).Error
}

func (r *repo) Save(ctx context.Context, conn *gorm.DB, loan *domain.Loan) error {
	return conn.WithContext(ctx).Save(loan).Error
}

func (r *repo) Delete(ctx context.Context, conn *gorm.DB, id snowflake.ID) error {
	return conn.WithContext(ctx).Where("id = ?", id).Delete(&domain.Loan{}).Error
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.Loan, error) {
	return find(conn.WithContext(ctx), id)
}

func (r *repo) FindByIDForUpdate(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.Loan, error) {
	return find(db.ForUpdate(conn.WithContext(ctx)), id)
}

func find(stmt *gorm.DB, id snowflake.ID) (*domain.Loan, error) {
	var loan domain.Loan
	if err := stmt.Where("id = ?", id).Limit(1).Find(&loan).Error; err != nil {
		return nil, err
	}
	if loan.ID == 0 {
		return nil, nil
	}
	return &loan, nil
}

func (r *repo) List(ctx context.Context, conn *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]domain.Loan, int64, error) {
	stmt := conn.WithContext(ctx).Model(&domain.Loan{})
	if filter.LoanType != "" {
		stmt = stmt.Where("loan_type = ?", filter.LoanType)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.PartyKind != "" {
		stmt = stmt.Where("party_kind = ?", filter.PartyKind)
	}
	if filter.PartyID != nil {
		stmt = stmt.Where("party_entity_id = ?", *filter.PartyID)
	}
	stmt = stmt.Session(&gorm.Session{})

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page = page.Normalize()
	items := []domain.Loan{}
	err := stmt.
		Order("loan_date desc, id desc").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repo) FindOpen(ctx context.Context, conn *gorm.DB) ([]domain.Loan, error) {
	items := []domain.Loan{}
	err := conn.WithContext(ctx).
		Where("status IN ?", []domain.Status{domain.StatusActive, domain.StatusPartiallyPaid}).
		Order("loan_date desc, id desc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
