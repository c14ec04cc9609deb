package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/smallbiznis/karatledger/internal/clock"
	"github.com/smallbiznis/karatledger/internal/kyc"
	obscontext "github.com/smallbiznis/karatledger/internal/observability/context"
	"github.com/smallbiznis/karatledger/internal/station/domain"
	"github.com/smallbiznis/karatledger/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultCountry = "India"

var pincodePattern = regexp.MustCompile(`^\d{6}$`)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Clock clock.Clock `optional:"true"`
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("station.service"),
		genID: p.GenID,
		repo:  p.Repo,
		clock: clock.OrReal(p.Clock),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.Station, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Station{}, domain.ErrInvalidName
	}
	code := codeFor(req.Code, name)
	if code == "" {
		return domain.Station{}, domain.ErrInvalidCode
	}
	address, err := normalizeAddress(req.Address)
	if err != nil {
		return domain.Station{}, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email != "" && !kyc.ValidEmail(email) {
		return domain.Station{}, domain.ErrInvalidEmail
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	now := s.clock.Now()
	actor := obscontext.ActorFromContext(ctx).UserID

	station := domain.Station{
		ID:          s.genID.Generate(),
		Name:        name,
		Code:        code,
		Description: strings.TrimSpace(req.Description),
		Address:     address,
		Phone:       strings.TrimSpace(req.Phone),
		Email:       email,
		IsActive:    isActive,
		Notes:       strings.TrimSpace(req.Notes),
		CreatedBy:   actor,
		UpdatedBy:   actor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Insert(ctx, s.db, &station); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Station{}, domain.ErrDuplicate
		}
		return domain.Station{}, err
	}

	s.log.Info("station created", zap.String("station_id", station.ID.String()), zap.String("code", station.Code))
	return station, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (domain.Station, error) {
	stationID, err := parseID(id)
	if err != nil {
		return domain.Station{}, err
	}
	station, err := s.repo.FindByID(ctx, s.db, stationID)
	if err != nil {
		return domain.Station{}, err
	}
	if station == nil {
		return domain.Station{}, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Station{}, domain.ErrInvalidName
		}
		station.Name = name
	}
	if req.Code != nil {
		code := codeFor(*req.Code, station.Name)
		if code == "" {
			return domain.Station{}, domain.ErrInvalidCode
		}
		station.Code = code
	}
	if req.Address != nil {
		address, err := normalizeAddress(*req.Address)
		if err != nil {
			return domain.Station{}, err
		}
		station.Address = address
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != "" && !kyc.ValidEmail(email) {
			return domain.Station{}, domain.ErrInvalidEmail
		}
		station.Email = email
	}
	if req.Description != nil {
		station.Description = strings.TrimSpace(*req.Description)
	}
	if req.Phone != nil {
		station.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Notes != nil {
		station.Notes = strings.TrimSpace(*req.Notes)
	}
	if req.IsActive != nil {
		station.IsActive = *req.IsActive
	}
	station.UpdatedBy = obscontext.ActorFromContext(ctx).UserID
	station.UpdatedAt = s.clock.Now()

	if err := s.repo.Save(ctx, s.db, station); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Station{}, domain.ErrDuplicate
		}
		return domain.Station{}, err
	}
	return *station, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	stationID, err := parseID(id)
	if err != nil {
		return err
	}
	station, err := s.repo.FindByID(ctx, s.db, stationID)
	if err != nil {
		return err
	}
	if station == nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, stationID)
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Station, error) {
	stationID, err := parseID(id)
	if err != nil {
		return domain.Station{}, err
	}
	station, err := s.repo.FindByID(ctx, s.db, stationID)
	if err != nil {
		return domain.Station{}, err
	}
	if station == nil {
		return domain.Station{}, domain.ErrNotFound
	}
	return *station, nil
}

func (s *Service) GetByName(ctx context.Context, name string) (domain.Station, error) {
	station, err := s.repo.FindByName(ctx, s.db, strings.TrimSpace(name))
	if err != nil {
		return domain.Station{}, err
	}
	if station == nil {
		return domain.Station{}, domain.ErrNotFound
	}
	return *station, nil
}

func (s *Service) List(ctx context.Context, activeOnly bool) ([]domain.Station, error) {
	return s.repo.List(ctx, s.db, activeOnly)
}

// codeFor uppercases the supplied code, or derives one from name.
func codeFor(code, name string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		code = slug.Make(name)
	}
	return strings.ToUpper(code)
}

func normalizeAddress(a domain.Address) (domain.Address, error) {
	out := domain.Address{
		Street:  strings.TrimSpace(a.Street),
		City:    strings.TrimSpace(a.City),
		State:   strings.TrimSpace(a.State),
		Pincode: strings.TrimSpace(a.Pincode),
		Country: strings.TrimSpace(a.Country),
	}
	if out.Pincode != "" && !pincodePattern.MatchString(out.Pincode) {
		return domain.Address{}, domain.ErrInvalidPincode
	}
	if out.Country == "" {
		out.Country = defaultCountry
	}
	return out, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
