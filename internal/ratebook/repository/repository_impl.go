package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/karatledger/internal/ratebook/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, book *domain.RateBook) error {
	return db.WithContext(ctx).Create(book).Error
}

func (r *repo) Save(ctx context.Context, db *gorm.DB, book *domain.RateBook) error {
	return db.WithContext(ctx).Save(book).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&domain.RateBook{}).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.RateBook, error) {
	return findOne(db.WithContext(ctx).Where("id = ?", id))
}

func (r *repo) FindByDate(ctx context.Context, db *gorm.DB, date time.Time) (*domain.RateBook, error) {
	return findOne(db.WithContext(ctx).Where("date = ?", date))
}

func (r *repo) FindLatest(ctx context.Context, db *gorm.DB) (*domain.RateBook, error) {
	return findOne(db.WithContext(ctx).Where("is_active = ?", true).Order("date desc"))
}

func findOne(stmt *gorm.DB) (*domain.RateBook, error) {
	var book domain.RateBook
	if err := stmt.Limit(1).Find(&book).Error; err != nil {
		return nil, err
	}
	if book.ID == 0 {
		return nil, nil
	}
	return &book, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.RateBook, error) {
	items := []domain.RateBook{}
	if err := db.WithContext(ctx).Order("date desc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
