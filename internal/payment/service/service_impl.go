package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/karatledger/internal/clock"
	"github.com/smallbiznis/karatledger/internal/config"
	obscontext "github.com/smallbiznis/karatledger/internal/observability/context"
	obsmetrics "github.com/smallbiznis/karatledger/internal/observability/metrics"
	"github.com/smallbiznis/karatledger/internal/party"
	"github.com/smallbiznis/karatledger/internal/payment/domain"
	"github.com/smallbiznis/karatledger/internal/paymethod"
	"github.com/smallbiznis/karatledger/internal/providers/pdf"
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
	PDF        pdf.Provider               `optional:"true"`
	Shop       *config.ShopSettingsHolder `optional:"true"`
	Clock      clock.Clock                `optional:"true"`
	ObsMetrics *obsmetrics.Metrics        `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       domain.Repository
	seq        *sequence.Generator
	parties    *party.Resolver
	ledger     transactiondomain.Service
	pdf        pdf.Provider
	shop       *config.ShopSettingsHolder
	clock      clock.Clock
	obsMetrics *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	renderer := p.PDF
	if renderer == nil {
		renderer = pdf.New()
	}
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("payment.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		seq:        p.Seq,
		parties:    p.Parties,
		ledger:     p.Ledger,
		pdf:        renderer,
		shop:       p.Shop,
		clock:      clock.OrReal(p.Clock),
		obsMetrics: p.ObsMetrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.Payment, error) {
	paymentType := domain.PaymentType(strings.ToLower(strings.TrimSpace(req.PaymentType)))
	if !paymentType.Valid() {
		return domain.Payment{}, domain.ErrInvalidPaymentType
	}
	if req.Amount <= 0 {
		return domain.Payment{}, domain.ErrInvalidAmount
	}
	method, err := paymethod.Parse(req.PaymentMethod)
	if err != nil {
		return domain.Payment{}, err
	}
	status, ok := domain.ValidStatus(req.Status)
	if !ok {
		return domain.Payment{}, domain.ErrInvalidStatus
	}
	ref := req.Reference.Normalize()
	if err := ref.Validate(); err != nil {
		return domain.Payment{}, err
	}

	now := s.clock.Now()
	paidAt, err := dates.ParseOptional(req.PaymentDate, now)
	if err != nil {
		return domain.Payment{}, domain.ErrInvalidDate
	}
	chequeDate, err := dates.ParseOptionalPtr(req.ChequeDate)
	if err != nil {
		return domain.Payment{}, domain.ErrInvalidDate
	}
	attachments, err := s.attachments(req.Attachments)
	if err != nil {
		return domain.Payment{}, err
	}

	counterparty, err := s.parties.Resolve(ctx, req.Party)
	if err != nil {
		return domain.Payment{}, err
	}

	actor := obscontext.ActorFromContext(ctx).UserID
	payment := domain.Payment{
		ID:            s.genID.Generate(),
		PaymentType:   paymentType,
		Party:         counterparty,
		PaymentDate:   paidAt,
		Amount:        amount.Round(req.Amount),
		PaymentMethod: method,
		TransactionID: strings.TrimSpace(req.TransactionID),
		ChequeNumber:  strings.TrimSpace(req.ChequeNumber),
		ChequeDate:    chequeDate,
		BankName:      strings.TrimSpace(req.BankName),
		Reference:     ref,
		Notes:         strings.TrimSpace(req.Notes),
		Attachments:   attachments,
		Status:        status,
		CreatedBy:     actor,
		UpdatedBy:     actor,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := s.seq.Assign(ctx, tx, sequence.ForPayment(string(paymentType)), req.PaymentNumber)
		if err != nil {
			return err
		}
		payment.PaymentNumber = number

		txn, err := s.ledger.Record(ctx, tx, transactiondomain.RecordRequest{
			Type:            ledgerType(paymentType),
			Party:           payment.Party,
			Amount:          payment.Amount,
			PaymentMethod:   method,
			Reference:       payment.Reference,
			Description:     "Payment " + payment.PaymentNumber,
			Notes:           payment.Notes,
			TransactionDate: paidAt,
		})
		if err != nil {
			return err
		}
		payment.LedgerTransaction = txn.TransactionNumber
		return s.repo.Insert(ctx, tx, &payment)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Payment{}, domain.ErrDuplicateNumber
		}
		return domain.Payment{}, err
	}

	s.obsMetrics.RecordDocumentCreated(ctx, "payment_"+string(paymentType))
	s.obsMetrics.RecordPayment(ctx, "payment", string(method))
	s.log.Info("payment created",
		zap.String("payment_id", payment.ID.String()),
		zap.String("payment_number", payment.PaymentNumber),
		zap.Float64("amount", payment.Amount),
		zap.String("reference_kind", string(payment.Reference.Kind)),
	)
	return payment, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (domain.Payment, error) {
	paymentID, err := parseID(id)
	if err != nil {
		return domain.Payment{}, err
	}

	var out domain.Payment
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payment, err := s.repo.FindByIDForUpdate(ctx, tx, paymentID)
		if err != nil {
			return err
		}
		if payment == nil {
			return domain.ErrNotFound
		}
		if err := s.applyUpdate(payment, req); err != nil {
			return err
		}
		payment.UpdatedBy = obscontext.ActorFromContext(ctx).UserID
		payment.UpdatedAt = s.clock.Now()
		if err := s.repo.Save(ctx, tx, payment); err != nil {
			return err
		}
		out = *payment
		return nil
	})
	if err != nil {
		return domain.Payment{}, err
	}
	return out, nil
}

func (s *Service) applyUpdate(p *domain.Payment, req domain.UpdateRequest) error {
	if req.PaymentMethod != nil {
		method, err := paymethod.Parse(*req.PaymentMethod)
		if err != nil {
			return err
		}
		p.PaymentMethod = method
	}
	if req.Status != nil {
		status, ok := domain.ValidStatus(*req.Status)
		if !ok {
			return domain.ErrInvalidStatus
		}
		p.Status = status
	}
	if req.ChequeDate != nil {
		chequeDate, err := dates.ParseOptionalPtr(*req.ChequeDate)
		if err != nil {
			return domain.ErrInvalidDate
		}
		p.ChequeDate = chequeDate
	}
	if req.Attachments != nil {
		attachments, err := s.attachments(*req.Attachments)
		if err != nil {
			return err
		}
		p.Attachments = attachments
	}
	setString(&p.TransactionID, req.TransactionID)
	setString(&p.ChequeNumber, req.ChequeNumber)
	setString(&p.BankName, req.BankName)
	setString(&p.Notes, req.Notes)
	return nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status string) (domain.Payment, error) {
	if strings.TrimSpace(status) == "" {
		return domain.Payment{}, domain.ErrInvalidStatus
	}
	out, err := s.Update(ctx, id, domain.UpdateRequest{Status: &status})
	if err != nil {
		return domain.Payment{}, err
	}
	s.log.Info("payment status updated",
		zap.String("payment_id", out.ID.String()),
		zap.String("status", string(out.Status)),
	)
	return out, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	paymentID, err := parseID(id)
	if err != nil {
		return err
	}
	payment, err := s.repo.FindByID(ctx, s.db, paymentID)
	if err != nil {
		return err
	}
	if payment == nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, paymentID)
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Payment, error) {
	paymentID, err := parseID(id)
	if err != nil {
		return domain.Payment{}, err
	}
	payment, err := s.repo.FindByID(ctx, s.db, paymentID)
	if err != nil {
		return domain.Payment{}, err
	}
	if payment == nil {
		return domain.Payment{}, domain.ErrNotFound
	}
	return *payment, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	filter := domain.ListFilter{
		PaymentType:   domain.PaymentType(strings.ToLower(strings.TrimSpace(req.PaymentType))),
		PaymentMethod: strings.ToLower(strings.TrimSpace(req.PaymentMethod)),
		PartyKind:     strings.ToLower(strings.TrimSpace(req.PartyKind)),
		ReferenceKind: strings.ToLower(strings.TrimSpace(req.ReferenceKind)),
	}
	if filter.PaymentType != "" && !filter.PaymentType.Valid() {
		return domain.ListResponse{}, domain.ErrInvalidPaymentType
	}
	if strings.TrimSpace(req.Status) != "" {
		status, ok := domain.ValidStatus(req.Status)
		if !ok {
			return domain.ListResponse{}, domain.ErrInvalidStatus
		}
		filter.Status = status
	}
	var err error
	if filter.PartyID, err = optionalID(req.PartyID); err != nil {
		return domain.ListResponse{}, err
	}
	if filter.ReferenceID, err = optionalID(req.ReferenceID); err != nil {
		return domain.ListResponse{}, err
	}
	if filter.From, filter.To, err = dateRange(req.StartDate, req.EndDate); err != nil {
		return domain.ListResponse{}, err
	}

	items, total, err := s.repo.List(ctx, s.db, filter, req.Pagination)
	if err != nil {
		return domain.ListResponse{}, err
	}
	return domain.ListResponse{
		Payments: items,
		PageInfo: pagination.BuildPageInfo(req.Pagination, total),
	}, nil
}

func (s *Service) attachments(in []domain.AttachmentInput) (datatypes.JSONSlice[domain.Attachment], error) {
	out := make(datatypes.JSONSlice[domain.Attachment], 0, len(in))
	now := s.clock.Now()
	for _, a := range in {
		url := strings.TrimSpace(a.URL)
		if url == "" {
			return nil, domain.ErrInvalidAttachment
		}
		out = append(out, domain.Attachment{Name: strings.TrimSpace(a.Name), URL: url, UploadDate: now})
	}
	return out, nil
}

// dateRange reads an optional [start, end] filter. A date-only end
// covers the whole day.
func dateRange(start, end string) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if strings.TrimSpace(start) != "" {
		t, _, err := dates.Parse(start)
		if err != nil {
			return nil, nil, domain.ErrInvalidDate
		}
		from = &t
	}
	if strings.TrimSpace(end) != "" {
		t, dateOnly, err := dates.Parse(end)
		if err != nil {
			return nil, nil, domain.ErrInvalidDate
		}
		if dateOnly {
			t = t.AddDate(0, 0, 1)
		} else {
			t = t.Add(time.Nanosecond)
		}
		to = &t
	}
	return from, to, nil
}

func ledgerType(t domain.PaymentType) transactiondomain.Type {
	if t == domain.Made {
		return transactiondomain.TypePaymentMade
	}
	return transactiondomain.TypePaymentReceived
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func optionalID(value string) (*snowflake.ID, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	id, err := parseID(value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
