package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/karatledger/internal/agent/domain"
	"github.com/smallbiznis/karatledger/internal/clock"
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
		log:   p.Log.Named("agent.service"),
		genID: p.GenID,
		repo:  p.Repo,
		seq:   p.Seq,
		clock: clock.OrReal(p.Clock),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.Agent, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Agent{}, domain.ErrInvalidName
	}
	commissionType, err := parseCommissionType(req.CommissionType)
	if err != nil {
		return domain.Agent{}, err
	}
	if req.CommissionRate < 0 {
		return domain.Agent{}, domain.ErrInvalidCommissionRate
	}
	contact := kyc.Contact{
		Phone:  req.Phone,
		Mobile: req.Mobile,
		Email:  req.Email,
		PANNo:  req.PANNo,
	}.Normalize()
	if field := contact.Field(); field != "" {
		return domain.Agent{}, domain.ContactError(field)
	}

	now := s.clock.Now()
	joinDate, err := dates.ParseOptional(req.JoinDate, now)
	if err != nil {
		return domain.Agent{}, domain.ErrInvalidJoinDate
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	agent := domain.Agent{
		ID:             s.genID.Generate(),
		Name:           name,
		Company:        strings.TrimSpace(req.Company),
		Phone:          contact.Phone,
		Mobile:         contact.Mobile,
		Email:          contact.Email,
		Address:        strings.TrimSpace(req.Address),
		CommissionType: commissionType,
		CommissionRate: req.CommissionRate,
		JoinDate:       joinDate,
		PANNo:          contact.PANNo,
		IsActive:       isActive,
		Notes:          strings.TrimSpace(req.Notes),
		CreatedBy:      obscontext.ActorFromContext(ctx).UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := s.seq.Assign(ctx, tx, sequence.Agent, req.AgentNumber)
		if err != nil {
			return err
		}
		agent.AgentNumber = number
		return s.repo.Insert(ctx, tx, &agent)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Agent{}, domain.ErrDuplicateNumber
		}
		return domain.Agent{}, err
	}
	return agent, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (domain.Agent, error) {
	agentID, err := parseID(id)
	if err != nil {
		return domain.Agent{}, err
	}

	var out domain.Agent
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		agent, err := s.repo.FindByID(ctx, db.ForUpdate(tx), agentID)
		if err != nil {
			return err
		}
		if agent == nil {
			return domain.ErrNotFound
		}
		if err := applyUpdate(agent, req); err != nil {
			return err
		}
		agent.UpdatedAt = s.clock.Now()
		if err := s.repo.Save(ctx, tx, agent); err != nil {
			return err
		}
		out = *agent
		return nil
	})
	if err != nil {
		return domain.Agent{}, err
	}
	return out, nil
}

func applyUpdate(a *domain.Agent, req domain.UpdateRequest) error {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.ErrInvalidName
		}
		a.Name = name
	}
	if req.CommissionType != nil {
		ct, err := parseCommissionType(*req.CommissionType)
		if err != nil {
			return err
		}
		a.CommissionType = ct
	}
	if req.CommissionRate != nil {
		if *req.CommissionRate < 0 {
			return domain.ErrInvalidCommissionRate
		}
		a.CommissionRate = *req.CommissionRate
	}
	// a payout lowers the pending figure
	if req.PendingCommission != nil {
		if *req.PendingCommission < 0 {
			return domain.ErrInvalidCommissionRate
		}
		a.PendingCommission = amount.Round(*req.PendingCommission)
	}

	contact := kyc.Contact{Phone: a.Phone, Mobile: a.Mobile, Email: a.Email, PANNo: a.PANNo}
	setString(&contact.Phone, req.Phone)
	setString(&contact.Mobile, req.Mobile)
	setString(&contact.Email, req.Email)
	setString(&contact.PANNo, req.PANNo)
	contact = contact.Normalize()
	if field := contact.Field(); field != "" {
		return domain.ContactError(field)
	}
	a.Phone = contact.Phone
	a.Mobile = contact.Mobile
	a.Email = contact.Email
	a.PANNo = contact.PANNo

	setString(&a.Company, req.Company)
	setString(&a.Address, req.Address)
	setString(&a.Notes, req.Notes)
	if req.IsActive != nil {
		a.IsActive = *req.IsActive
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	agentID, err := parseID(id)
	if err != nil {
		return err
	}
	agent, err := s.repo.FindByID(ctx, s.db, agentID)
	if err != nil {
		return err
	}
	if agent == nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, agentID)
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Agent, error) {
	agentID, err := parseID(id)
	if err != nil {
		return domain.Agent{}, err
	}
	agent, err := s.repo.FindByID(ctx, s.db, agentID)
	if err != nil {
		return domain.Agent{}, err
	}
	if agent == nil {
		return domain.Agent{}, domain.ErrNotFound
	}
	return *agent, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	items, total, err := s.repo.List(ctx, s.db, domain.ListFilter{
		Name:     strings.TrimSpace(req.Name),
		IsActive: req.IsActive,
	}, req.Pagination)
	if err != nil {
		return domain.ListResponse{}, err
	}
	return domain.ListResponse{
		Agents:   items,
		PageInfo: pagination.BuildPageInfo(req.Pagination, total),
	}, nil
}

func (s *Service) Stats(ctx context.Context, id string) (domain.Stats, error) {
	agent, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.Stats{}, err
	}
	return domain.Stats{
		AgentNumber:           agent.AgentNumber,
		Name:                  agent.Name,
		TotalOrders:           agent.TotalOrders,
		TotalSales:            agent.TotalSales,
		TotalCommissionEarned: agent.TotalCommissionEarned,
		PendingCommission:     agent.PendingCommission,
		CommissionType:        string(agent.CommissionType),
		CommissionRate:        agent.CommissionRate,
	}, nil
}

func (s *Service) RecordOrder(ctx context.Context, tx *gorm.DB, id snowflake.ID, orderTotal float64) (domain.OrderCredit, error) {
	agent, err := s.repo.FindByID(ctx, tx, id)
	if err != nil {
		return domain.OrderCredit{}, err
	}
	if agent == nil {
		return domain.OrderCredit{}, domain.ErrNotFound
	}
	credit := domain.OrderCredit{
		Sales:      amount.Round(orderTotal),
		Commission: amount.Round(agent.CommissionType.Commission(agent.CommissionRate, orderTotal)),
	}
	if err := s.repo.AddOrder(ctx, tx, id, credit.Sales, credit.Commission, s.clock.Now()); err != nil {
		return domain.OrderCredit{}, err
	}
	s.log.Debug("agent order recorded",
		zap.String("agent_id", id.String()),
		zap.Float64("order_total", orderTotal),
		zap.Float64("commission", credit.Commission),
	)
	return credit, nil
}

// ReverseOrder is a no-op for an agent that no longer exists. Commission
// already paid out is not clawed back, so pending never drops below zero.
func (s *Service) ReverseOrder(ctx context.Context, tx *gorm.DB, id snowflake.ID, credit domain.OrderCredit) error {
	agent, err := s.repo.FindByID(ctx, tx, id)
	if err != nil {
		return err
	}
	if agent == nil {
		return nil
	}
	agent.TotalOrders = max(agent.TotalOrders-1, 0)
	agent.TotalSales = max(amount.Round(agent.TotalSales-credit.Sales), 0)
	agent.TotalCommissionEarned = max(amount.Round(agent.TotalCommissionEarned-credit.Commission), 0)
	agent.PendingCommission = max(amount.Round(agent.PendingCommission-credit.Commission), 0)
	agent.UpdatedAt = s.clock.Now()
	if err := s.repo.Save(ctx, tx, agent); err != nil {
		return err
	}
	s.log.Debug("agent order reversed",
		zap.String("agent_id", id.String()),
		zap.Float64("sales", credit.Sales),
		zap.Float64("commission", credit.Commission),
	)
	return nil
}

func parseCommissionType(v string) (domain.CommissionType, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return domain.CommissionPercentage, nil
	}
	ct := domain.CommissionType(v)
	if !ct.Valid() {
		return "", domain.ErrInvalidCommissionType
	}
	return ct, nil
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
