package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/karatledger/internal/balance"
	"github.com/smallbiznis/karatledger/internal/clock"
	"github.com/smallbiznis/karatledger/internal/jobworker/domain"
	"github.com/smallbiznis/karatledger/internal/kyc"
	obscontext "github.com/smallbiznis/karatledger/internal/observability/context"
	"github.com/smallbiznis/karatledger/internal/sequence"
	"github.com/smallbiznis/karatledger/pkg/amount"
	"github.com/smallbiznis/karatledger/pkg/db"
	"github.com/smallbiznis/karatledger/pkg/db/pagination"
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
		log:   p.Log.Named("jobworker.service"),
		genID: p.GenID,
		repo:  p.Repo,
		seq:   p.Seq,
		clock: clock.OrReal(p.Clock),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.JobWorker, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.JobWorker{}, domain.ErrInvalidName
	}
	relation, ok := kyc.NormalizeRelation(req.Relation)
	if !ok {
		return domain.JobWorker{}, domain.ErrInvalidRelation
	}
	if !domain.ValidRating(req.Rating) {
		return domain.JobWorker{}, domain.ErrInvalidRating
	}
	contact := kyc.Contact{
		Phone:    req.Phone,
		Mobile:   req.Mobile,
		Email:    req.Email,
		AadharNo: req.AadharNo,
		PANNo:    req.PANNo,
	}.Normalize()
	if field := contact.Field(); field != "" {
		return domain.JobWorker{}, domain.ContactError(field)
	}

	current := req.CurrentBalance
	if current == 0 {
		current = req.OpeningBalance
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	now := s.clock.Now()
	actor := obscontext.ActorFromContext(ctx).UserID

	worker := domain.JobWorker{
		ID:             s.genID.Generate(),
		Name:           name,
		Specialization: specializations(req.Specialization),
		Relation:       relation,
		RelationName:   strings.TrimSpace(req.RelationName),
		Address:        strings.TrimSpace(req.Address),
		Phone:          contact.Phone,
		Mobile:         contact.Mobile,
		Email:          contact.Email,
		OpeningBalance: amount.Round(req.OpeningBalance),
		CurrentBalance: amount.Round(current),
		GoldBalance:    metalWeight(req.GoldBalance),
		SilverBalance:  metalWeight(req.SilverBalance),
		BankName:       strings.TrimSpace(req.BankName),
		AccountNumber:  strings.TrimSpace(req.AccountNumber),
		IFSCCode:       strings.ToUpper(strings.TrimSpace(req.IFSCCode)),
		AadharNo:       contact.AadharNo,
		PANNo:          contact.PANNo,
		IsActive:       isActive,
		Rating:         req.Rating,
		Notes:          strings.TrimSpace(req.Notes),
		CreatedBy:      actor,
		UpdatedBy:      actor,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := s.seq.Assign(ctx, tx, sequence.JobWorker, req.WorkerNumber)
		if err != nil {
			return err
		}
		worker.WorkerNumber = number
		return s.repo.Insert(ctx, tx, &worker)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.JobWorker{}, domain.ErrDuplicateNumber
		}
		return domain.JobWorker{}, err
	}

	s.log.Info("job worker created",
		zap.String("worker_id", worker.ID.String()),
		zap.String("worker_number", worker.WorkerNumber),
	)
	return worker, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (domain.JobWorker, error) {
	workerID, err := parseID(id)
	if err != nil {
		return domain.JobWorker{}, err
	}

	var out domain.JobWorker
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		worker, err := s.repo.FindByIDForUpdate(ctx, tx, workerID)
		if err != nil {
			return err
		}
		if worker == nil {
			return domain.ErrNotFound
		}
		if err := applyUpdate(worker, req); err != nil {
			return err
		}
		worker.UpdatedBy = obscontext.ActorFromContext(ctx).UserID
		worker.UpdatedAt = s.clock.Now()
		if err := s.repo.Save(ctx, tx, worker); err != nil {
			return err
		}
		out = *worker
		return nil
	})
	if err != nil {
		return domain.JobWorker{}, err
	}
	return out, nil
}

func applyUpdate(w *domain.JobWorker, req domain.UpdateRequest) error {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.ErrInvalidName
		}
		w.Name = name
	}
	if req.Relation != nil {
		relation, ok := kyc.NormalizeRelation(*req.Relation)
		if !ok {
			return domain.ErrInvalidRelation
		}
		w.Relation = relation
	}
	if req.Rating != nil {
		if !domain.ValidRating(*req.Rating) {
			return domain.ErrInvalidRating
		}
		w.Rating = *req.Rating
	}
	if req.Specialization != nil {
		w.Specialization = specializations(*req.Specialization)
	}

	contact := kyc.Contact{
		Phone:    w.Phone,
		Mobile:   w.Mobile,
		Email:    w.Email,
		AadharNo: w.AadharNo,
		PANNo:    w.PANNo,
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
	w.Phone = contact.Phone
	w.Mobile = contact.Mobile
	w.Email = contact.Email
	w.AadharNo = contact.AadharNo
	w.PANNo = contact.PANNo

	setString(&w.RelationName, req.RelationName)
	setString(&w.Address, req.Address)
	setString(&w.BankName, req.BankName)
	setString(&w.AccountNumber, req.AccountNumber)
	if req.IFSCCode != nil {
		w.IFSCCode = strings.ToUpper(strings.TrimSpace(*req.IFSCCode))
	}
	setString(&w.Notes, req.Notes)
	if req.IsActive != nil {
		w.IsActive = *req.IsActive
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	workerID, err := parseID(id)
	if err != nil {
		return err
	}
	worker, err := s.repo.FindByID(ctx, s.db, workerID)
	if err != nil {
		return err
	}
	if worker == nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, workerID)
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.JobWorker, error) {
	workerID, err := parseID(id)
	if err != nil {
		return domain.JobWorker{}, err
	}
	worker, err := s.repo.FindByID(ctx, s.db, workerID)
	if err != nil {
		return domain.JobWorker{}, err
	}
	if worker == nil {
		return domain.JobWorker{}, domain.ErrNotFound
	}
	return *worker, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	filter := domain.ListFilter{
		Name:           strings.TrimSpace(req.Name),
		Specialization: strings.TrimSpace(req.Specialization),
		IsActive:       req.IsActive,
	}
	items, total, err := s.repo.List(ctx, s.db, filter, req.Pagination)
	if err != nil {
		return domain.ListResponse{}, err
	}
	return domain.ListResponse{
		JobWorkers: items,
		PageInfo:   pagination.BuildPageInfo(req.Pagination, total),
	}, nil
}

func (s *Service) GetBalance(ctx context.Context, id string) (domain.BalanceSummary, error) {
	worker, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.BalanceSummary{}, err
	}
	return domain.BalanceSummary{
		WorkerNumber:   worker.WorkerNumber,
		Name:           worker.Name,
		CurrentBalance: worker.CurrentBalance,
		GoldBalance:    worker.GoldBalance,
		SilverBalance:  worker.SilverBalance,
	}, nil
}

func (s *Service) UpdateBalance(ctx context.Context, id string, req balance.UpdateRequest) (domain.JobWorker, error) {
	workerID, err := parseID(id)
	if err != nil {
		return domain.JobWorker{}, err
	}
	cash, metalDelta, err := req.Deltas()
	if err != nil {
		return domain.JobWorker{}, err
	}

	var out domain.JobWorker
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		worker, err := s.repo.FindByIDForUpdate(ctx, tx, workerID)
		if err != nil {
			return err
		}
		if worker == nil {
			return domain.ErrNotFound
		}
		next, err := balance.Apply(worker.Balances(), cash, metalDelta)
		if err != nil {
			return err
		}
		now := s.clock.Now()
		actor := obscontext.ActorFromContext(ctx).UserID
		if err := s.repo.UpdateBalances(ctx, tx, workerID, next, actor, now); err != nil {
			return err
		}
		worker.CurrentBalance = next.Cash
		worker.GoldBalance.Weight = next.Gold
		worker.SilverBalance.Weight = next.Silver
		worker.UpdatedBy = actor
		worker.UpdatedAt = now
		out = *worker
		return nil
	})
	if err != nil {
		return domain.JobWorker{}, err
	}

	s.log.Info("job worker balance updated",
		zap.String("worker_id", workerID.String()),
		zap.Float64("current_balance", out.CurrentBalance),
		zap.Float64("gold_weight", out.GoldBalance.Weight),
		zap.Float64("silver_weight", out.SilverBalance.Weight),
	)
	return out, nil
}

func specializations(in []string) datatypes.JSONSlice[string] {
	out := make(datatypes.JSONSlice[string], 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
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
