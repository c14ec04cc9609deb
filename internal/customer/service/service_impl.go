package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/karatledger/internal/balance"
	"github.com/smallbiznis/karatledger/internal/clock"
	"github.com/smallbiznis/karatledger/internal/customer/domain"
	"github.com/smallbiznis/karatledger/internal/kyc"
	obscontext "github.com/smallbiznis/karatledger/internal/observability/context"
	"github.com/smallbiznis/karatledger/internal/sequence"
	"github.com/smallbiznis/karatledger/pkg/amount"
	"github.com/smallbiznis/karatledger/pkg/dates"
	"github.com/smallbiznis/karatledger/pkg/db"
	"github.com/smallbiznis/karatledger/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const searchLimit = 20

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Seq   *sequence.Generator
	Clock clock.Clock `optional:"true"`
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
	seq   *sequence.Generator
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("customer.service"),
		genID: p.GenID,
		repo:  p.Repo,
		seq:   p.Seq,
		clock: clock.OrReal(p.Clock),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.Customer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Customer{}, domain.ErrInvalidName
	}
	relation, ok := kyc.NormalizeRelation(req.Relation)
	if !ok {
		return domain.Customer{}, domain.ErrInvalidRelation
	}
	contact := kyc.Contact{
		Phone:    req.Phone,
		Mobile:   req.Mobile,
		Email:    req.Email,
		AadharNo: req.AadharNo,
		PANNo:    req.PANNo,
	}.Normalize()
	if field := contact.Field(); field != "" {
		return domain.Customer{}, domain.ContactError(field)
	}

	now := s.clock.Now()
	openingDate, err := dates.ParseOptional(req.OpeningDate, now)
	if err != nil {
		return domain.Customer{}, domain.ErrInvalidOpeningDate
	}

	current := req.CurrentBalance
	if current == 0 {
		current = req.OpeningBalance
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	actor := obscontext.ActorFromContext(ctx).UserID

	customer := domain.Customer{
		ID:             s.genID.Generate(),
		Name:           name,
		Relation:       relation,
		RelationName:   strings.TrimSpace(req.RelationName),
		Type:           strings.TrimSpace(req.Type),
		LFNo:           strings.TrimSpace(req.LFNo),
		OpeningDate:    openingDate,
		OpeningBalance: amount.Round(req.OpeningBalance),
		CurrentBalance: amount.Round(current),
		GoldBalance:    metalWeight(req.GoldBalance),
		SilverBalance:  metalWeight(req.SilverBalance),
		MaxCreditLimit: amount.Round(req.MaxCreditLimit),
		Address:        strings.TrimSpace(req.Address),
		Station:        strings.TrimSpace(req.Station),
		Phone:          contact.Phone,
		Mobile:         contact.Mobile,
		Email:          contact.Email,
		AadharNo:       contact.AadharNo,
		PANNo:          contact.PANNo,
		IsActive:       isActive,
		Notes:          strings.TrimSpace(req.Notes),
		CreatedBy:      actor,
		UpdatedBy:      actor,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := s.seq.Assign(ctx, tx, sequence.Customer, req.CustomerNumber)
		if err != nil {
			return err
		}
		customer.CustomerNumber = number
		return s.repo.Insert(ctx, tx, &customer)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Customer{}, domain.ErrDuplicateNumber
		}
		return domain.Customer{}, err
	}

	s.log.Info("customer created",
		zap.String("customer_id", customer.ID.String()),
		zap.String("customer_number", customer.CustomerNumber),
	)
	return customer, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (domain.Customer, error) {
	customerID, err := parseID(id)
	if err != nil {
		return domain.Customer{}, err
	}

	var out domain.Customer
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer, err := s.repo.FindByIDForUpdate(ctx, tx, customerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return domain.ErrNotFound
		}
		if err := applyUpdate(customer, req); err != nil {
			return err
		}
		customer.UpdatedBy = obscontext.ActorFromContext(ctx).UserID
		customer.UpdatedAt = s.clock.Now()
		if err := s.repo.Save(ctx, tx, customer); err != nil {
			return err
		}
		out = *customer
		return nil
	})
	if err != nil {
		return domain.Customer{}, err
	}
	return out, nil
}

func applyUpdate(c *domain.Customer, req domain.UpdateRequest) error {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.ErrInvalidName
		}
		c.Name = name
	}
	if req.Relation != nil {
		relation, ok := kyc.NormalizeRelation(*req.Relation)
		if !ok {
			return domain.ErrInvalidRelation
		}
		c.Relation = relation
	}

	contact := kyc.Contact{
		Phone:    c.Phone,
		Mobile:   c.Mobile,
		Email:    c.Email,
		AadharNo: c.AadharNo,
		PANNo:    c.PANNo,
	}
	setString(&contact.Phone, req.Phone)
	setString(&contact.Mobile, req.Mobile)
	setString(&contact.Email, req.Email)
	setString(&contact.AadharNo, req.AadharNo)
	setString(&contact.PANNo, req.PANNo)
	contact = contact.Normalize()
	if field := contact.Field(); field != "" {
		return domain.ContactError(field)
	}
	c.Phone = contact.Phone
	c.Mobile = contact.Mobile
	c.Email = contact.Email
	c.AadharNo = contact.AadharNo
	c.PANNo = contact.PANNo

	setString(&c.RelationName, req.RelationName)
	setString(&c.Type, req.Type)
	setString(&c.LFNo, req.LFNo)
	setString(&c.Address, req.Address)
	setString(&c.Station, req.Station)
	setString(&c.Notes, req.Notes)
	if req.MaxCreditLimit != nil {
		c.MaxCreditLimit = amount.Round(*req.MaxCreditLimit)
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	customerID, err := parseID(id)
	if err != nil {
		return err
	}
	customer, err := s.repo.FindByID(ctx, s.db, customerID)
	if err != nil {
		return err
	}
	if customer == nil {
		return domain.ErrNotFound
	}
	if err := s.repo.Delete(ctx, s.db, customerID); err != nil {
		return err
	}
	s.log.Info("customer deleted", zap.String("customer_id", customerID.String()))
	return nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Customer, error) {
	customerID, err := parseID(id)
	if err != nil {
		return domain.Customer{}, err
	}
	customer, err := s.repo.FindByID(ctx, s.db, customerID)
	if err != nil {
		return domain.Customer{}, err
	}
	if customer == nil {
		return domain.Customer{}, domain.ErrNotFound
	}
	return *customer, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	filter := domain.ListFilter{
		Name:     strings.TrimSpace(req.Name),
		Station:  strings.TrimSpace(req.Station),
		IsActive: req.IsActive,
	}
	items, total, err := s.repo.List(ctx, s.db, filter, req.Pagination)
	if err != nil {
		return domain.ListResponse{}, err
	}
	return domain.ListResponse{
		Customers: items,
		PageInfo:  pagination.BuildPageInfo(req.Pagination, total),
	}, nil
}

func (s *Service) Search(ctx context.Context, query string) ([]domain.Customer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}
	return s.repo.Search(ctx, s.db, query, searchLimit)
}

func (s *Service) GetBalance(ctx context.Context, id string) (domain.BalanceSummary, error) {
	customer, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.BalanceSummary{}, err
	}
	return domain.BalanceSummary{
		CustomerNumber: customer.CustomerNumber,
		Name:           customer.Name,
		CurrentBalance: customer.CurrentBalance,
		GoldBalance:    customer.GoldBalance,
		SilverBalance:  customer.SilverBalance,
		MaxCreditLimit: customer.MaxCreditLimit,
	}, nil
}

// UpdateBalance moves the running balances. It never writes a ledger
// entry.
func (s *Service) UpdateBalance(ctx context.Context, id string, req balance.UpdateRequest) (domain.Customer, error) {
	customerID, err := parseID(id)
	if err != nil {
		return domain.Customer{}, err
	}
	cash, metalDelta, err := req.Deltas()
	if err != nil {
		return domain.Customer{}, err
	}

	var out domain.Customer
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer, err := s.repo.FindByIDForUpdate(ctx, tx, customerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return domain.ErrNotFound
		}
		next, err := balance.Apply(customer.Balances(), cash, metalDelta)
		if err != nil {
			return err
		}
		now := s.clock.Now()
		actor := obscontext.ActorFromContext(ctx).UserID
		if err := s.repo.UpdateBalances(ctx, tx, customerID, next, actor, now); err != nil {
			return err
		}
		customer.CurrentBalance = next.Cash
		customer.GoldBalance.Weight = next.Gold
		customer.SilverBalance.Weight = next.Silver
		customer.UpdatedBy = actor
		customer.UpdatedAt = now
		out = *customer
		return nil
	})
	if err != nil {
		return domain.Customer{}, err
	}

	s.log.Info("customer balance updated",
		zap.String("customer_id", customerID.String()),
		zap.Float64("current_balance", out.CurrentBalance),
	)
	return out, nil
}

func metalWeight(w balance.MetalWeight) balance.MetalWeight {
	unit := strings.TrimSpace(w.Unit)
	if unit == "" {
		unit = "gm"
	}
	return balance.MetalWeight{Weight: amount.RoundWeight(w.Weight), Unit: unit}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
