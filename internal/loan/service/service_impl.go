package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/karatledger/internal/clock"
	"github.com/smallbiznis/karatledger/internal/loan/domain"
	"github.com/smallbiznis/karatledger/internal/metal"
	obscontext "github.com/smallbiznis/karatledger/internal/observability/context"
	obsmetrics "github.com/smallbiznis/karatledger/internal/observability/metrics"
	"github.com/smallbiznis/karatledger/internal/party"
	"github.com/smallbiznis/karatledger/internal/paymethod"
	"github.com/smallbiznis/karatledger/internal/reference"
	"github.com/smallbiznis/karatledger/internal/sequence"
	transactiondomain "github.com/smallbiznis/karatledger/internal/transaction/domain"
	"github.com/smallbiznis/karatledger/pkg/amount"
	"github.com/smallbiznis/karatledger/pkg/dates"
	"github.com/smallbiznis/karatledger/pkg/db"
	"github.com/smallbiznis/karatledger/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       domain.Repository
	Seq        *sequence.Generator
	Parties    *party.Resolver
	Ledger     transactiondomain.Service
	Clock      clock.Clock         `optional:"true"`
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       domain.Repository
	seq        *sequence.Generator
	parties    *party.Resolver
	ledger     transactiondomain.Service
	clock      clock.Clock
	obsMetrics *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("loan.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		seq:        p.Seq,
		parties:    p.Parties,
		ledger:     p.Ledger,
		clock:      clock.OrReal(p.Clock),
		obsMetrics: p.ObsMetrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.Loan, error) {
	loanType := domain.LoanType(strings.ToLower(strings.TrimSpace(req.LoanType)))
	if !loanType.Valid() {
		return domain.Loan{}, domain.ErrInvalidLoanType
	}
	if req.PrincipalAmount <= 0 {
		return domain.Loan{}, domain.ErrInvalidAmount
	}
	interestType, err := parseInterestType(req.InterestType)
	if err != nil {
		return domain.Loan{}, err
	}
	if req.InterestRate < 0 || (req.TotalInterest != nil && *req.TotalInterest < 0) {
		return domain.Loan{}, domain.ErrInvalidInterest
	}
	metalLoan, err := parseMetalLoan(req.MetalLoan)
	if err != nil {
		return domain.Loan{}, err
	}

	now := s.clock.Now()
	loanDate, err := dates.ParseOptional(req.LoanDate, now)
	if err != nil {
		return domain.Loan{}, domain.ErrInvalidDate
	}
	dueDate, err := dates.ParseOptionalPtr(req.DueDate)
	if err != nil {
		return domain.Loan{}, domain.ErrInvalidDate
	}

	counterparty, err := s.resolveParty(ctx, req.Party)
	if err != nil {
		return domain.Loan{}, err
	}

	principal := amount.Round(req.PrincipalAmount)
	totalInterest := 0.0
	switch {
	case req.TotalInterest != nil:
		totalInterest = amount.Round(*req.TotalInterest)
	case dueDate != nil:
		totalInterest = domain.Interest(principal, req.InterestRate, interestType, loanDate, *dueDate)
	}
	total := amount.Round(req.TotalAmount)
	if total == 0 {
		total = amount.Round(principal + totalInterest)
	}

	actor := obscontext.ActorFromContext(ctx).UserID
	loan := domain.Loan{
		ID:              s.genID.Generate(),
		LoanType:        loanType,
		Party:           counterparty,
		LoanDate:        loanDate,
		DueDate:         dueDate,
		PrincipalAmount: principal,
		InterestRate:    req.InterestRate,
		InterestType:    interestType,
		TotalInterest:   totalInterest,
		TotalAmount:     total,
		MetalLoan:       metalLoan,
		Payments:        datatypes.JSONSlice[domain.Payment]{},
		Notes:           strings.TrimSpace(req.Notes),
		CreatedBy:       actor,
		UpdatedBy:       actor,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	loan.ApplyCash()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := s.seq.Assign(ctx, tx, sequence.ForLoan(string(loanType)), req.LoanNumber)
		if err != nil {
			return err
		}
		loan.LoanNumber = number
		if err := s.repo.Insert(ctx, tx, &loan); err != nil {
			return err
		}
		_, err = s.ledger.Record(ctx, tx, transactiondomain.RecordRequest{
			Type:            openingType(loanType),
			Party:           loan.Party,
			Amount:          principal,
			Reference:       reference.NewDocument(reference.DocumentLoan, loan.ID, loan.LoanNumber),
			Description:     fmt.Sprintf("Loan %s %s", loanType, loan.LoanNumber),
			TransactionDate: loanDate,
		})
		return err
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Loan{}, domain.ErrDuplicateNumber
		}
		return domain.Loan{}, err
	}

	s.obsMetrics.RecordDocumentCreated(ctx, "loan_"+string(loanType))
	s.log.Info("loan created",
		zap.String("loan_id", loan.ID.String()),
		zap.String("loan_number", loan.LoanNumber),
		zap.Float64("principal_amount", principal),
	)
	return loan, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (domain.Loan, error) {
	loanID, err := parseID(id)
	if err != nil {
		return domain.Loan{}, err
	}

	var out domain.Loan
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		loan, err := s.repo.FindByIDForUpdate(ctx, tx, loanID)
		if err != nil {
			return err
		}
		if loan == nil {
			return domain.ErrNotFound
		}
		if err := applyUpdate(loan, req); err != nil {
			return err
		}
		loan.ApplyCash()
		loan.UpdatedBy = obscontext.ActorFromContext(ctx).UserID
		loan.UpdatedAt = s.clock.Now()
		if err := s.repo.Save(ctx, tx, loan); err != nil {
			return err
		}
		out = *loan
		return nil
	})
	if err != nil {
		return domain.Loan{}, err
	}
	return out, nil
}

func applyUpdate(l *domain.Loan, req domain.UpdateRequest) error {
	if req.DueDate != nil {
		due, err := dates.ParseOptionalPtr(*req.DueDate)
		if err != nil {
			return domain.ErrInvalidDate
		}
		l.DueDate = due
	}
	if req.InterestRate != nil {
		if *req.InterestRate < 0 {
			return domain.ErrInvalidInterest
		}
		l.InterestRate = *req.InterestRate
	}
	if req.InterestType != nil {
		t, err := parseInterestType(*req.InterestType)
		if err != nil {
			return err
		}
		l.InterestType = t
	}
	if req.TotalInterest != nil {
		if *req.TotalInterest < 0 {
			return domain.ErrInvalidInterest
		}
		total := amount.Round(l.PrincipalAmount + *req.TotalInterest)
		if amount.Exceeds(l.PaidAmount, total) {
			return domain.ErrAmountExceedsBalance
		}
		l.TotalInterest = amount.Round(*req.TotalInterest)
		l.TotalAmount = total
	}
	if req.Notes != nil {
		l.Notes = strings.TrimSpace(*req.Notes)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	loanID, err := parseID(id)
	if err != nil {
		return err
	}
	loan, err := s.repo.FindByID(ctx, s.db, loanID)
	if err != nil {
		return err
	}
	if loan == nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, loanID)
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Loan, error) {
	loanID, err := parseID(id)
	if err != nil {
		return domain.Loan{}, err
	}
	loan, err := s.repo.FindByID(ctx, s.db, loanID)
	if err != nil {
		return domain.Loan{}, err
	}
	if loan == nil {
		return domain.Loan{}, domain.ErrNotFound
	}
	return *loan, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	filter := domain.ListFilter{
		LoanType:  domain.LoanType(strings.ToLower(strings.TrimSpace(req.LoanType))),
		Status:    domain.Status(strings.ToLower(strings.TrimSpace(req.Status))),
		PartyKind: strings.ToLower(strings.TrimSpace(req.PartyKind)),
	}
	if filter.LoanType != "" && !filter.LoanType.Valid() {
		return domain.ListResponse{}, domain.ErrInvalidLoanType
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return domain.ListResponse{}, domain.ErrInvalidStatus
	}
	if strings.TrimSpace(req.PartyID) != "" {
		partyID, err := parseID(req.PartyID)
		if err != nil {
			return domain.ListResponse{}, err
		}
		filter.PartyID = &partyID
	}

	items, total, err := s.repo.List(ctx, s.db, filter, req.Pagination)
	if err != nil {
		return domain.ListResponse{}, err
	}
	return domain.ListResponse{
		Loans:    items,
		PageInfo: pagination.BuildPageInfo(req.Pagination, total),
	}, nil
}

func (s *Service) Pending(ctx context.Context) ([]domain.Loan, error) {
	return s.repo.FindOpen(ctx, s.db)
}

func (s *Service) RecordPayment(ctx context.Context, id string, req domain.PaymentRequest) (domain.Loan, error) {
	loanID, err := parseID(id)
	if err != nil {
		return domain.Loan{}, err
	}
	method, err := paymethod.Parse(req.PaymentMethod)
	if err != nil {
		return domain.Loan{}, err
	}
	paidAt, err := dates.ParseOptional(req.PaymentDate, s.clock.Now())
	if err != nil {
		return domain.Loan{}, domain.ErrInvalidDate
	}
	actor := obscontext.ActorFromContext(ctx).UserID

	var out domain.Loan
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		loan, err := s.repo.FindByIDForUpdate(ctx, tx, loanID)
		if err != nil {
			return err
		}
		if loan == nil {
			return domain.ErrNotFound
		}
		payment := domain.Payment{
			PaymentDate:   paidAt,
			Amount:        req.Amount,
			PaymentMethod: method,
			Notes:         strings.TrimSpace(req.Notes),
			RecordedBy:    actor,
		}
		if err := loan.AddPayment(payment); err != nil {
			return err
		}

		txn, err := s.ledger.Record(ctx, tx, transactiondomain.RecordRequest{
			Type:            repaymentType(loan.LoanType),
			Party:           loan.Party,
			Amount:          amount.Round(req.Amount),
			PaymentMethod:   method,
			Reference:       reference.NewDocument(reference.DocumentLoan, loan.ID, loan.LoanNumber),
			Description:     "Loan payment " + loan.LoanNumber,
			Notes:           payment.Notes,
			TransactionDate: paidAt,
		})
		if err != nil {
			return err
		}
		loan.Payments[len(loan.Payments)-1].TransactionNumber = txn.TransactionNumber

		loan.UpdatedBy = actor
		loan.UpdatedAt = s.clock.Now()
		if err := s.repo.Save(ctx, tx, loan); err != nil {
			return err
		}
		out = *loan
		return nil
	})
	if err != nil {
		return domain.Loan{}, err
	}

	s.obsMetrics.RecordPayment(ctx, "loan", string(method))
	s.log.Info("loan payment recorded",
		zap.String("loan_id", loanID.String()),
		zap.Float64("amount", req.Amount),
		zap.String("status", string(out.Status)),
	)
	return out, nil
}

func (s *Service) ReturnMetal(ctx context.Context, id string, req domain.ReturnMetalRequest) (domain.Loan, error) {
	loanID, err := parseID(id)
	if err != nil {
		return domain.Loan{}, err
	}

	var out domain.Loan
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		loan, err := s.repo.FindByIDForUpdate(ctx, tx, loanID)
		if err != nil {
			return err
		}
		if loan == nil {
			return domain.ErrNotFound
		}
		if err := loan.ReturnMetal(req.Weight); err != nil {
			return err
		}
		loan.UpdatedBy = obscontext.ActorFromContext(ctx).UserID
		loan.UpdatedAt = s.clock.Now()
		if err := s.repo.Save(ctx, tx, loan); err != nil {
			return err
		}
		out = *loan
		return nil
	})
	if err != nil {
		return domain.Loan{}, err
	}

	s.log.Info("loan metal returned",
		zap.String("loan_id", loanID.String()),
		zap.Float64("weight", req.Weight),
		zap.Float64("returned_weight", out.MetalLoan.ReturnedWeight),
	)
	return out, nil
}

// resolveParty accepts a customer, a job worker or a name-only party.
func (s *Service) resolveParty(ctx context.Context, p reference.Party) (reference.Party, error) {
	p = p.Normalize()
	if p.Kind == reference.PartyAgent {
		return reference.Party{}, domain.ErrInvalidParty
	}
	resolved, err := s.parties.Resolve(ctx, p)
	if err != nil {
		if errors.Is(err, reference.ErrInvalidPartyKind) {
			return reference.Party{}, domain.ErrInvalidParty
		}
		return reference.Party{}, err
	}
	return resolved, nil
}

func parseMetalLoan(in domain.MetalLoanInput) (domain.MetalLoan, error) {
	if !in.IsMetalLoan {
		return domain.MetalLoan{Unit: "gm"}, nil
	}
	m, ok := metal.Parse(in.Metal)
	if !ok {
		return domain.MetalLoan{}, domain.ErrInvalidMetal
	}
	if in.Weight <= 0 {
		return domain.MetalLoan{}, domain.ErrInvalidWeight
	}
	purity := metal.NormalizePurity(in.Purity)
	if purity != "" && !metal.ValidPurity(m, purity) {
		return domain.MetalLoan{}, domain.ErrInvalidPurity
	}
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = "gm"
	}
	return domain.MetalLoan{
		IsMetalLoan: true,
		Metal:       m,
		Weight:      amount.RoundWeight(in.Weight),
		Unit:        unit,
		Purity:      purity,
	}, nil
}

func parseInterestType(value string) (domain.InterestType, error) {
	t := domain.InterestType(strings.ToLower(strings.TrimSpace(value)))
	if t == "" {
		return domain.InterestNone, nil
	}
	if !t.Valid() {
		return "", domain.ErrInvalidInterest
	}
	return t, nil
}

func openingType(t domain.LoanType) transactiondomain.Type {
	if t == domain.Received {
		return transactiondomain.TypeLoanReceived
	}
	return transactiondomain.TypeLoanGiven
}

func repaymentType(t domain.LoanType) transactiondomain.Type {
	if t == domain.Received {
		return transactiondomain.TypePaymentMade
	}
	return transactiondomain.TypePaymentReceived
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
