package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/karatledger/internal/clock"
	"github.com/smallbiznis/karatledger/internal/fiscalyear"
	obscontext "github.com/smallbiznis/karatledger/internal/observability/context"
	obsmetrics "github.com/smallbiznis/karatledger/internal/observability/metrics"
	"github.com/smallbiznis/karatledger/internal/paymethod"
	"github.com/smallbiznis/karatledger/internal/sequence"
	"github.com/smallbiznis/karatledger/internal/transaction/domain"
	"github.com/smallbiznis/karatledger/pkg/amount"
	"github.com/smallbiznis/karatledger/pkg/dates"
	"github.com/smallbiznis/karatledger/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       domain.Repository
	Seq        *sequence.Generator
	Clock      clock.Clock         `optional:"true"`
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       domain.Repository
	seq        *sequence.Generator
	clock      clock.Clock
	obsMetrics *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("transaction.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		seq:        p.Seq,
		clock:      clock.OrReal(p.Clock),
		obsMetrics: p.ObsMetrics,
	}
}

func (s *Service) Record(ctx context.Context, tx *gorm.DB, req domain.RecordRequest) (domain.Transaction, error) {
	if !req.Type.Valid() {
		return domain.Transaction{}, domain.ErrInvalidType
	}
	if req.Amount < 0 || req.Debit < 0 || req.Credit < 0 {
		return domain.Transaction{}, domain.ErrInvalidAmount
	}

	party := req.Party.Normalize()
	if err := party.Validate(); err != nil {
		return domain.Transaction{}, err
	}
	ref := req.Reference.Normalize()
	if err := ref.Validate(); err != nil {
		return domain.Transaction{}, err
	}

	now := s.clock.Now()
	date := req.TransactionDate
	if date.IsZero() {
		date = now
	}
	date = date.UTC()

	number, err := s.seq.Next(ctx, tx, sequence.Transaction)
	if err != nil {
		return domain.Transaction{}, err
	}

	amt := amount.Round(req.Amount)
	debit, credit := amount.Round(req.Debit), amount.Round(req.Credit)
	if debit == 0 && credit == 0 {
		switch req.Type.Side() {
		case domain.SideCredit:
			credit = amt
		case domain.SideDebit:
			debit = amt
		}
	}

	txn := domain.Transaction{
		ID:                s.genID.Generate(),
		TransactionNumber: number,
		TransactionDate:   date,
		Type:              req.Type,
		Party:             party,
		Debit:             debit,
		Credit:            credit,
		Amount:            amt,
		Reference:         ref,
		Description:       strings.TrimSpace(req.Description),
		Notes:             strings.TrimSpace(req.Notes),
		PaymentMethod:     req.PaymentMethod,
		FinancialYear:     fiscalyear.Label(date),
		CreatedBy:         obscontext.ActorFromContext(ctx).UserID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.repo.Insert(ctx, tx, &txn); err != nil {
		return domain.Transaction{}, err
	}

	// counted when written; a later rollback of the enclosing tx is not
	// subtracted
	s.obsMetrics.RecordLedgerEntry(ctx, string(txn.Type))
	s.log.Debug("ledger entry recorded",
		zap.String("transaction_number", txn.TransactionNumber),
		zap.String("type", string(txn.Type)),
		zap.String("reference_kind", string(ref.Kind)),
	)

	return txn, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.Transaction, error) {
	txnType := domain.Type(strings.ToLower(strings.TrimSpace(req.Type)))
	if !txnType.Valid() {
		return domain.Transaction{}, domain.ErrInvalidType
	}
	if req.Amount <= 0 {
		return domain.Transaction{}, domain.ErrInvalidAmount
	}
	method, err := paymethod.ParseLedger(req.PaymentMethod)
	if err != nil {
		return domain.Transaction{}, err
	}
	date, err := dates.ParseOptional(req.TransactionDate, time.Time{})
	if err != nil {
		return domain.Transaction{}, domain.ErrInvalidDate
	}

	var created domain.Transaction
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txn, err := s.Record(ctx, tx, domain.RecordRequest{
			Type:            txnType,
			Party:           req.Party,
			Amount:          req.Amount,
			Debit:           req.Debit,
			Credit:          req.Credit,
			PaymentMethod:   method,
			Reference:       req.Reference,
			Description:     req.Description,
			Notes:           req.Notes,
			TransactionDate: date,
		})
		if err != nil {
			return err
		}
		created = txn
		return nil
	})
	if err != nil {
		return domain.Transaction{}, err
	}
	return created, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	filter := domain.ListFilter{
		PartyKind:     strings.ToLower(strings.TrimSpace(req.PartyKind)),
		FinancialYear: strings.TrimSpace(req.FinancialYear),
		Reconciled:    req.Reconciled,
	}
	if t := strings.TrimSpace(req.Type); t != "" {
		filter.Type = domain.Type(strings.ToLower(t))
		if !filter.Type.Valid() {
			return domain.ListResponse{}, domain.ErrInvalidType
		}
	}
	if strings.TrimSpace(req.PartyID) != "" {
		id, err := parseID(req.PartyID)
		if err != nil {
			return domain.ListResponse{}, err
		}
		filter.PartyID = &id
	}
	if strings.TrimSpace(req.StartDate) != "" {
		from, _, err := dates.Parse(req.StartDate)
		if err != nil {
			return domain.ListResponse{}, domain.ErrInvalidDate
		}
		filter.From = &from
	}
	if strings.TrimSpace(req.EndDate) != "" {
		to, err := endExclusive(req.EndDate)
		if err != nil {
			return domain.ListResponse{}, err
		}
		filter.To = &to
	}

	items, total, err := s.repo.List(ctx, s.db, filter, req.Pagination)
	if err != nil {
		return domain.ListResponse{}, err
	}
	return domain.ListResponse{
		Transactions: items,
		PageInfo:     pagination.BuildPageInfo(req.Pagination, total),
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Transaction, error) {
	txnID, err := parseID(id)
	if err != nil {
		return domain.Transaction{}, err
	}
	txn, err := s.repo.FindByID(ctx, s.db, txnID)
	if err != nil {
		return domain.Transaction{}, err
	}
	if txn == nil {
		return domain.Transaction{}, domain.ErrNotFound
	}
	return *txn, nil
}

// DayBook lists one calendar day's entries in posting order.
func (s *Service) DayBook(ctx context.Context, date string) (domain.Report, error) {
	day, _, err := dates.Parse(date)
	if err != nil {
		return domain.Report{}, domain.ErrInvalidDate
	}
	from := dates.StartOfDay(day)
	to := from.AddDate(0, 0, 1)
	return s.report(ctx, domain.ListFilter{From: &from, To: &to}, true)
}

func (s *Service) ByFinancialYear(ctx context.Context, label string) (domain.Report, error) {
	label = strings.TrimSpace(label)
	if _, _, err := fiscalyear.Bounds(label); err != nil {
		return domain.Report{}, domain.ErrInvalidFiscalYear
	}
	return s.report(ctx, domain.ListFilter{FinancialYear: label}, false)
}

// ByDateRange includes the whole of end when it is given as a bare date.
func (s *Service) ByDateRange(ctx context.Context, start, end string) (domain.Report, error) {
	if strings.TrimSpace(start) == "" || strings.TrimSpace(end) == "" {
		return domain.Report{}, domain.ErrMissingDateRange
	}
	from, _, err := dates.Parse(start)
	if err != nil {
		return domain.Report{}, domain.ErrInvalidDate
	}
	to, err := endExclusive(end)
	if err != nil {
		return domain.Report{}, err
	}
	if !to.After(from) {
		return domain.Report{}, domain.ErrInvalidDateRange
	}
	return s.report(ctx, domain.ListFilter{From: &from, To: &to}, false)
}

func (s *Service) Reconcile(ctx context.Context, id string) (domain.Transaction, error) {
	txnID, err := parseID(id)
	if err != nil {
		return domain.Transaction{}, err
	}

	var out domain.Transaction
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txn, err := s.repo.FindByID(ctx, tx, txnID)
		if err != nil {
			return err
		}
		if txn == nil {
			return domain.ErrNotFound
		}
		now := s.clock.Now()
		if err := s.repo.MarkReconciled(ctx, tx, txnID, now); err != nil {
			return err
		}
		txn.IsReconciled = true
		txn.ReconciledDate = &now
		txn.UpdatedAt = now
		out = *txn
		return nil
	})
	if err != nil {
		return domain.Transaction{}, err
	}
	return out, nil
}

func (s *Service) report(ctx context.Context, filter domain.ListFilter, ascending bool) (domain.Report, error) {
	items, err := s.repo.FindAll(ctx, s.db, filter, ascending)
	if err != nil {
		return domain.Report{}, err
	}
	return domain.Report{
		Transactions: items,
		Totals:       domain.SumTotals(items),
	}, nil
}

func endExclusive(value string) (time.Time, error) {
	end, dateOnly, err := dates.Parse(value)
	if err != nil {
		return time.Time{}, domain.ErrInvalidDate
	}
	if dateOnly {
		return end.AddDate(0, 0, 1), nil
	}
	return end.Add(time.Nanosecond), nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
