package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/karatledger/internal/station/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, station *domain.Station) error {
	return db.WithContext(ctx).Create(station).Error
}

func (r *repo) Save(ctx context.Context, db *gorm.DB, station *domain.Station) error {
	return db.WithContext(ctx).Save(station).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Station{}).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Station, error) {
	return r.findOne(db.WithContext(ctx).Where("id = ?", id))
}

func (r *repo) FindByName(ctx context.Context, db *gorm.DB, name string) (*domain.Station, error) {
	return r.findOne(db.WithContext(ctx).Where("name = ?", name))
}

func (r *repo) findOne(stmt *gorm.DB) (*domain.Station, error) {
	var station domain.Station
	if err := stmt.Limit(1).Find(&station).Error; err != nil {
		return nil, err
	}
	if station.ID == 0 {
		return nil, nil
	}
	return &station, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, activeOnly bool) ([]domain.Station, error) {
	stmt := db.WithContext(ctx).Model(&domain.Station{})
	if activeOnly {
		stmt = stmt.Where("is_active = ?", true)
	}
	items := []domain.Station{}
	if err := stmt.Order("name asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
