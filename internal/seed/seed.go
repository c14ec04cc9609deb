// Package seed loads the sample users, stations and rate book that a fresh
// shop starts from, and can wipe every business table.
package seed

import (
	"context"
	"errors"
	"slices"

	authdomain "github.com/smallbiznis/karatledger/internal/auth/domain"
	"github.com/smallbiznis/karatledger/internal/config"
	"github.com/smallbiznis/karatledger/internal/migration"
	ratebookdomain "github.com/smallbiznis/karatledger/internal/ratebook/domain"
	stationdomain "github.com/smallbiznis/karatledger/internal/station/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("seed",
	fx.Provide(New),
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Cfg       config.Config
	Users     authdomain.Service
	Stations  stationdomain.Service
	RateBooks ratebookdomain.Service
}

type Seeder struct {
	db        *gorm.DB
	log       *zap.Logger
	cfg       config.Config
	users     authdomain.Service
	stations  stationdomain.Service
	rateBooks ratebookdomain.Service
}

// Summary counts the rows Import created. Rows that already existed are
// not counted.
type Summary struct {
	Users     int
	Stations  int
	RateBooks int
}

func New(p Params) *Seeder {
	return &Seeder{
		db:        p.DB,
		log:       p.Log.Named("seed"),
		cfg:       p.Cfg,
		users:     p.Users,
		stations:  p.Stations,
		rateBooks: p.RateBooks,
	}
}

// Import creates the sample data. It is safe to run repeatedly.
func (s *Seeder) Import(ctx context.Context) (Summary, error) {
	var sum Summary

	for _, req := range s.sampleUsers() {
		_, created, err := s.users.EnsureUser(ctx, req)
		if err != nil {
			return sum, err
		}
		if created {
			sum.Users++
		}
	}

	for _, req := range sampleStations() {
		_, err := s.stations.Create(ctx, req)
		switch {
		case err == nil:
			sum.Stations++
		case errors.Is(err, stationdomain.ErrDuplicate):
		default:
			return sum, err
		}
	}

	_, err := s.rateBooks.Create(ctx, sampleRateBook())
	switch {
	case err == nil:
		sum.RateBooks++
	case errors.Is(err, ratebookdomain.ErrDuplicateDate):
	default:
		return sum, err
	}

	s.log.Info("seed imported",
		zap.Int("users", sum.Users),
		zap.Int("stations", sum.Stations),
		zap.Int("rate_books", sum.RateBooks),
	)
	return sum, nil
}

// Destroy deletes every row of every business table in one transaction.
func (s *Seeder) Destroy(ctx context.Context) error {
	models := migration.Models()
	slices.Reverse(models)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range models {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Warn("seed destroyed all data", zap.Int("tables", len(models)))
	return nil
}

func (s *Seeder) sampleUsers() []authdomain.RegisterRequest {
	adminEmail := s.cfg.DefaultAdminEmail
	if adminEmail == "" {
		adminEmail = "admin@ledgersystem.com"
	}
	adminPass := s.cfg.DefaultAdminPass
	if adminPass == "" {
		adminPass = "admin123"
	}
	return []authdomain.RegisterRequest{
		{Name: "Admin User", Email: adminEmail, Password: adminPass, Role: string(authdomain.RoleAdmin), Phone: "9876543210"},
		{Name: "Manager User", Email: "manager@ledgersystem.com", Password: "manager123", Role: string(authdomain.RoleManager), Phone: "9876543211"},
		{Name: "Staff User", Email: "staff@ledgersystem.com", Password: "staff123", Role: string(authdomain.RoleStaff), Phone: "9876543212"},
	}
}

func sampleStations() []stationdomain.CreateRequest {
	return []stationdomain.CreateRequest{
		{
			Name:        "Main Branch",
			Code:        "MB",
			Description: "Main Branch Office",
			Address: stationdomain.Address{
				Street:  "123 Main Street",
				City:    "Mumbai",
				State:   "Maharashtra",
				Pincode: "400001",
				Country: "India",
			},
			Phone: "0221234567",
			Email: "mainbranch@ledgersystem.com",
		},
		{
			Name:        "Branch 2",
			Code:        "B2",
			Description: "Second Branch",
			Address: stationdomain.Address{
				Street:  "456 Market Road",
				City:    "Mumbai",
				State:   "Maharashtra",
				Pincode: "400002",
				Country: "India",
			},
			Phone: "0221234568",
			Email: "branch2@ledgersystem.com",
		},
	}
}

// sampleRateBook is dated today.
func sampleRateBook() ratebookdomain.CreateRequest {
	return ratebookdomain.CreateRequest{
		Rates: []ratebookdomain.RateInput{
			{Metal: "gold", Purity: "24K", BuyingRate: 6200, SellingRate: 6250, Unit: "gm"},
			{Metal: "gold", Purity: "22K", BuyingRate: 5700, SellingRate: 5750, Unit: "gm"},
			{Metal: "gold", Purity: "18K", BuyingRate: 4650, SellingRate: 4700, Unit: "gm"},
			{Metal: "silver", Purity: "999", BuyingRate: 75, SellingRate: 78, Unit: "gm"},
			{Metal: "silver", Purity: "925", BuyingRate: 70, SellingRate: 73, Unit: "gm"},
		},
		DefaultMakingCharges: &ratebookdomain.MakingCharges{
			Gold:     ratebookdomain.MakingCharge{Percentage: 15},
			Silver:   ratebookdomain.MakingCharge{Percentage: 10},
			Platinum: ratebookdomain.MakingCharge{Percentage: 12},
		},
		GSTRates: &ratebookdomain.GSTRates{Gold: 3, Silver: 3, Platinum: 3, MakingCharges: 5},
	}
}
