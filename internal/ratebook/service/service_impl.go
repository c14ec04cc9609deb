package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/karatledger/internal/clock"
	"github.com/smallbiznis/karatledger/internal/config"
	"github.com/smallbiznis/karatledger/internal/gst"
	"github.com/smallbiznis/karatledger/internal/metal"
	obscontext "github.com/smallbiznis/karatledger/internal/observability/context"
	"github.com/smallbiznis/karatledger/internal/ratebook/domain"
	"github.com/smallbiznis/karatledger/pkg/amount"
	"github.com/smallbiznis/karatledger/pkg/dates"
	"github.com/smallbiznis/karatledger/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Shop  *config.ShopSettingsHolder `optional:"true"`
	Clock clock.Clock                `optional:"true"`
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
	shop  *config.ShopSettingsHolder
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("ratebook.service"),
		genID: p.GenID,
		repo:  p.Repo,
		shop:  p.Shop,
		clock: clock.OrReal(p.Clock),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.RateBook, error) {
	now := s.clock.Now()
	date, err := bookDate(req.Date, now)
	if err != nil {
		return domain.RateBook{}, err
	}
	rates, err := normalizeRates(req.Rates)
	if err != nil {
		return domain.RateBook{}, err
	}

	settings := s.shop.Get()
	making := domain.MakingCharges{
		Gold:     domain.MakingCharge(settings.MakingCharges.Gold),
		Silver:   domain.MakingCharge(settings.MakingCharges.Silver),
		Platinum: domain.MakingCharge(settings.MakingCharges.Platinum),
	}
	if req.DefaultMakingCharges != nil {
		making = *req.DefaultMakingCharges
	}
	gstRates := domain.GSTRates(settings.GSTRates)
	if req.GSTRates != nil {
		gstRates = *req.GSTRates
	}
	if err := validateGST(gstRates); err != nil {
		return domain.RateBook{}, err
	}

	existing, err := s.repo.FindByDate(ctx, s.db, date)
	if err != nil {
		return domain.RateBook{}, err
	}
	if existing != nil {
		return domain.RateBook{}, domain.ErrDuplicateDate
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	actor := obscontext.ActorFromContext(ctx).UserID
	book := domain.RateBook{
		ID:                   s.genID.Generate(),
		Date:                 date,
		Rates:                rates,
		DefaultMakingCharges: datatypes.NewJSONType(making),
		GSTRates:             gstRates,
		Notes:                strings.TrimSpace(req.Notes),
		IsActive:             isActive,
		CreatedBy:            actor,
		UpdatedBy:            actor,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := s.repo.Insert(ctx, s.db, &book); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.RateBook{}, domain.ErrDuplicateDate
		}
		return domain.RateBook{}, err
	}

	s.log.Info("rate book created",
		zap.Time("date", book.Date),
		zap.Int("rates", len(book.Rates)),
	)
	return book, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (domain.RateBook, error) {
	bookID, err := parseID(id)
	if err != nil {
		return domain.RateBook{}, err
	}
	book, err := s.repo.FindByID(ctx, s.db, bookID)
	if err != nil {
		return domain.RateBook{}, err
	}
	if book == nil {
		return domain.RateBook{}, domain.ErrNotFound
	}

	if req.Rates != nil {
		rates, err := normalizeRates(*req.Rates)
		if err != nil {
			return domain.RateBook{}, err
		}
		book.Rates = rates
	}
	if req.GSTRates != nil {
		if err := validateGST(*req.GSTRates); err != nil {
			return domain.RateBook{}, err
		}
		book.GSTRates = *req.GSTRates
	}
	if req.DefaultMakingCharges != nil {
		book.DefaultMakingCharges = datatypes.NewJSONType(*req.DefaultMakingCharges)
	}
	if req.Notes != nil {
		book.Notes = strings.TrimSpace(*req.Notes)
	}
	if req.IsActive != nil {
		book.IsActive = *req.IsActive
	}
	book.UpdatedBy = obscontext.ActorFromContext(ctx).UserID
	book.UpdatedAt = s.clock.Now()

	if err := s.repo.Save(ctx, s.db, book); err != nil {
		return domain.RateBook{}, err
	}
	return *book, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	bookID, err := parseID(id)
	if err != nil {
		return err
	}
	book, err := s.repo.FindByID(ctx, s.db, bookID)
	if err != nil {
		return err
	}
	if book == nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, bookID)
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.RateBook, error) {
	bookID, err := parseID(id)
	if err != nil {
		return domain.RateBook{}, err
	}
	book, err := s.repo.FindByID(ctx, s.db, bookID)
	if err != nil {
		return domain.RateBook{}, err
	}
	if book == nil {
		return domain.RateBook{}, domain.ErrNotFound
	}
	return *book, nil
}

func (s *Service) List(ctx context.Context) ([]domain.RateBook, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) Latest(ctx context.Context) (domain.RateBook, error) {
	book, err := s.repo.FindLatest(ctx, s.db)
	if err != nil {
		return domain.RateBook{}, err
	}
	if book == nil {
		return domain.RateBook{}, domain.ErrNotFound
	}
	return *book, nil
}

func (s *Service) ByDate(ctx context.Context, date string) (domain.RateBook, error) {
	day, _, err := dates.Parse(date)
	if err != nil {
		return domain.RateBook{}, domain.ErrInvalidDate
	}
	book, err := s.repo.FindByDate(ctx, s.db, dates.StartOfDay(day))
	if err != nil {
		return domain.RateBook{}, err
	}
	if book == nil {
		return domain.RateBook{}, domain.ErrNotFound
	}
	return *book, nil
}

// Rate quotes from the latest active book.
func (s *Service) Rate(ctx context.Context, metalName, purity, rateType string) (domain.RateQuote, error) {
	m, ok := metal.Parse(metalName)
	if !ok {
		return domain.RateQuote{}, domain.ErrInvalidMetal
	}
	t, err := parseRateType(rateType)
	if err != nil {
		return domain.RateQuote{}, err
	}
	book, err := s.repo.FindLatest(ctx, s.db)
	if err != nil {
		return domain.RateQuote{}, err
	}
	if book == nil {
		return domain.RateQuote{}, domain.ErrRateNotFound
	}
	rate, ok := book.Find(m, purity, t)
	if !ok {
		return domain.RateQuote{}, domain.ErrRateNotFound
	}
	return domain.RateQuote{
		Metal:    m,
		Purity:   metal.NormalizePurity(purity),
		RateType: t,
		Rate:     rate,
		Date:     book.Date,
	}, nil
}

func bookDate(value string, now time.Time) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return dates.StartOfDay(now), nil
	}
	t, _, err := dates.Parse(value)
	if err != nil {
		return time.Time{}, domain.ErrInvalidDate
	}
	return dates.StartOfDay(t), nil
}

func normalizeRates(in []domain.RateInput) (datatypes.JSONSlice[domain.Rate], error) {
	out := make(datatypes.JSONSlice[domain.Rate], 0, len(in))
	for _, r := range in {
		m, ok := metal.Parse(r.Metal)
		if !ok {
			return nil, domain.ErrInvalidMetal
		}
		if !metal.ValidPurity(m, r.Purity) {
			return nil, domain.ErrInvalidPurity
		}
		if r.BuyingRate < 0 || r.SellingRate <= 0 {
			return nil, domain.ErrInvalidRate
		}
		unit := strings.ToLower(strings.TrimSpace(r.Unit))
		switch unit {
		case "":
			unit = "gm"
		case "gm", "kg", "tola":
		default:
			return nil, domain.ErrInvalidUnit
		}
		out = append(out, domain.Rate{
			Metal:       m,
			Purity:      metal.NormalizePurity(r.Purity),
			BuyingRate:  amount.Round(r.BuyingRate),
			SellingRate: amount.Round(r.SellingRate),
			Unit:        unit,
		})
	}
	return out, nil
}

func validateGST(g domain.GSTRates) error {
	for _, r := range []float64{g.Gold, g.Silver, g.Platinum, g.MakingCharges} {
		if !gst.ValidRate(r) {
			return domain.ErrInvalidGSTRate
		}
	}
	return nil
}

func parseRateType(v string) (domain.RateType, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "sellingrate", "selling_rate", "selling":
		return domain.SellingRate, nil
	case "buyingrate", "buying_rate", "buying":
		return domain.BuyingRate, nil
	}
	return "", domain.ErrInvalidRateType
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
