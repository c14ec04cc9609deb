package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/karatledger/internal/bill/domain"
	"github.com/smallbiznis/karatledger/internal/clock"
	"github.com/smallbiznis/karatledger/internal/config"
	customerdomain "github.com/smallbiznis/karatledger/internal/customer/domain"
	"github.com/smallbiznis/karatledger/internal/gst"
	itemdomain "github.com/smallbiznis/karatledger/internal/item/domain"
	obscontext "github.com/smallbiznis/karatledger/internal/observability/context"
	obsmetrics "github.com/smallbiznis/karatledger/internal/observability/metrics"
	orderdomain "github.com/smallbiznis/karatledger/internal/order/domain"
	"github.com/smallbiznis/karatledger/internal/party"
	"github.com/smallbiznis/karatledger/internal/paymethod"
	"github.com/smallbiznis/karatledger/internal/providers/pdf"
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
	Customers  customerdomain.Service
	Orders     orderdomain.Service
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
	customers  customerdomain.Service
	orders     orderdomain.Service
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
		log:        p.Log.Named("bill.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		seq:        p.Seq,
		parties:    p.Parties,
		customers:  p.Customers,
		orders:     p.Orders,
		ledger:     p.Ledger,
		pdf:        renderer,
		shop:       p.Shop,
		clock:      clock.OrReal(p.Clock),
		obsMetrics: p.ObsMetrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.Bill, error) {
	billType := domain.BillType(strings.ToLower(strings.TrimSpace(req.BillType)))
	if billType == "" {
		billType = domain.Sale
	}
	if !billType.Valid() {
		return domain.Bill{}, domain.ErrInvalidBillType
	}

	shop := s.shop.Get()
	gstRate := shop.DefaultGSTRate
	if req.GSTRate != nil {
		if !gst.ValidRate(*req.GSTRate) {
			return domain.Bill{}, domain.ErrInvalidGSTRate
		}
		gstRate = *req.GSTRate
	}
	sameState := shop.SameState
	if req.SameState != nil {
		sameState = *req.SameState
	}
	items, err := lineItems(req.Items, gstRate)
	if err != nil {
		return domain.Bill{}, err
	}
	discount, err := req.Discount.Normalize()
	if err != nil {
		return domain.Bill{}, err
	}

	now := s.clock.Now()
	billDate, err := dates.ParseOptional(req.BillDate, now)
	if err != nil {
		return domain.Bill{}, domain.ErrInvalidDate
	}
	dueDate, err := dates.ParseOptionalPtr(req.DueDate)
	if err != nil {
		return domain.Bill{}, domain.ErrInvalidDate
	}
	orderID, err := optionalID(req.OrderID)
	if err != nil {
		return domain.Bill{}, err
	}

	customer, err := s.parties.Customer(ctx, req.CustomerID)
	if err != nil {
		return domain.Bill{}, err
	}

	actor := obscontext.ActorFromContext(ctx).UserID
	bill := domain.Bill{
		ID:                 s.genID.Generate(),
		BillType:           billType,
		CustomerID:         customer.ID(),
		CustomerName:       customer.Name,
		OrderID:            orderID,
		BillDate:           billDate,
		DueDate:            dueDate,
		Items:              items,
		Discount:           discount,
		SameState:          sameState,
		GSTRate:            gstRate,
		Notes:              strings.TrimSpace(req.Notes),
		TermsAndConditions: strings.TrimSpace(req.TermsAndConditions),
		Status:             domain.StatusDraft,
		CreatedBy:          actor,
		UpdatedBy:          actor,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	bill.ComputeTotals()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := s.seq.Assign(ctx, tx, sequence.ForBill(string(billType)), req.BillNumber)
		if err != nil {
			return err
		}
		bill.BillNumber = number
		if err := s.repo.Insert(ctx, tx, &bill); err != nil {
			return err
		}
		if orderID != nil {
			if err := s.orders.LinkBill(ctx, tx, orderID.String(), number); err != nil {
				return err
			}
		}
		_, err = s.ledger.Record(ctx, tx, transactiondomain.RecordRequest{
			Type:            ledgerType(billType),
			Party:           customer,
			Amount:          bill.TotalAmount,
			Reference:       billRef(&bill),
			Description:     fmt.Sprintf("%s bill %s", billType, number),
			TransactionDate: billDate,
		})
		return err
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Bill{}, domain.ErrDuplicateNumber
		}
		return domain.Bill{}, err
	}

	s.obsMetrics.RecordDocumentCreated(ctx, "bill_"+string(billType))
	s.log.Info("bill created",
		zap.String("bill_id", bill.ID.String()),
		zap.String("bill_number", bill.BillNumber),
		zap.Float64("total_amount", bill.TotalAmount),
	)
	return bill, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (domain.Bill, error) {
	return s.mutate(ctx, id, func(b *domain.Bill) error {
		if err := b.EnsureMutable(); err != nil {
			return err
		}
		if req.DueDate != nil {
			due, err := dates.ParseOptionalPtr(*req.DueDate)
			if err != nil {
				return domain.ErrInvalidDate
			}
			b.DueDate = due
		}
		if req.GSTRate != nil {
			if !gst.ValidRate(*req.GSTRate) {
				return domain.ErrInvalidGSTRate
			}
			b.GSTRate = *req.GSTRate
		}
		if req.SameState != nil {
			b.SameState = *req.SameState
		}
		if req.Items != nil {
			items, err := lineItems(*req.Items, b.GSTRate)
			if err != nil {
				return err
			}
			b.Items = items
		}
		if req.Discount != nil {
			discount, err := req.Discount.Normalize()
			if err != nil {
				return err
			}
			b.Discount = discount
		}
		setString(&b.Notes, req.Notes)
		setString(&b.TermsAndConditions, req.TermsAndConditions)
		b.ComputeTotals()
		if amount.Exceeds(b.PaidAmount, b.TotalAmount) {
			return domain.ErrAmountExceedsBalance
		}
		return nil
	})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	billID, err := parseID(id)
	if err != nil {
		return err
	}
	bill, err := s.repo.FindByID(ctx, s.db, billID)
	if err != nil {
		return err
	}
	if bill == nil {
		return domain.ErrNotFound
	}
	if err := bill.EnsureMutable(); err != nil {
		return err
	}
	return s.repo.Delete(ctx, s.db, billID)
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Bill, error) {
	billID, err := parseID(id)
	if err != nil {
		return domain.Bill{}, err
	}
	bill, err := s.repo.FindByID(ctx, s.db, billID)
	if err != nil {
		return domain.Bill{}, err
	}
	if bill == nil {
		return domain.Bill{}, domain.ErrNotFound
	}
	return *bill, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	filter := domain.ListFilter{
		BillType:      domain.BillType(strings.ToLower(strings.TrimSpace(req.BillType))),
		Status:        domain.Status(strings.ToLower(strings.TrimSpace(req.Status))),
		PaymentStatus: domain.PaymentStatus(strings.ToLower(strings.TrimSpace(req.PaymentStatus))),
	}
	if filter.BillType != "" && !filter.BillType.Valid() {
		return domain.ListResponse{}, domain.ErrInvalidBillType
	}
	switch filter.Status {
	case "", domain.StatusDraft, domain.StatusFinalized, domain.StatusCancelled:
	default:
		return domain.ListResponse{}, domain.ErrInvalidStatus
	}
	var err error
	if filter.CustomerID, err = optionalID(req.CustomerID); err != nil {
		return domain.ListResponse{}, err
	}
	if filter.From, err = dates.ParseOptionalPtr(req.StartDate); err != nil {
		return domain.ListResponse{}, domain.ErrInvalidDate
	}
	if strings.TrimSpace(req.EndDate) != "" {
		end, dateOnly, err := dates.Parse(req.EndDate)
		if err != nil {
			return domain.ListResponse{}, domain.ErrInvalidDate
		}
		if dateOnly {
			end = end.AddDate(0, 0, 1)
		} else {
			end = end.Add(time.Nanosecond)
		}
		filter.To = &end
	}

	items, total, err := s.repo.List(ctx, s.db, filter, req.Pagination)
	if err != nil {
		return domain.ListResponse{}, err
	}
	return domain.ListResponse{
		Bills:    items,
		PageInfo: pagination.BuildPageInfo(req.Pagination, total),
	}, nil
}

func (s *Service) Finalize(ctx context.Context, id string) (domain.Bill, error) {
	out, err := s.mutate(ctx, id, func(b *domain.Bill) error {
		return b.Finalize()
	})
	if err != nil {
		return domain.Bill{}, err
	}
	s.log.Info("bill finalized", zap.String("bill_id", out.ID.String()), zap.String("bill_number", out.BillNumber))
	return out, nil
}

func (s *Service) Cancel(ctx context.Context, id string) (domain.Bill, error) {
	out, err := s.mutate(ctx, id, func(b *domain.Bill) error {
		return b.Cancel()
	})
	if err != nil {
		return domain.Bill{}, err
	}
	s.log.Info("bill cancelled", zap.String("bill_id", out.ID.String()), zap.String("bill_number", out.BillNumber))
	return out, nil
}

func (s *Service) RecordPayment(ctx context.Context, id string, req domain.PaymentRequest) (domain.Bill, error) {
	billID, err := parseID(id)
	if err != nil {
		return domain.Bill{}, err
	}
	method, err := paymethod.Parse(req.PaymentMethod)
	if err != nil {
		return domain.Bill{}, err
	}
	paidAt, err := dates.ParseOptional(req.PaymentDate, s.clock.Now())
	if err != nil {
		return domain.Bill{}, domain.ErrInvalidDate
	}

	var out domain.Bill
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bill, err := s.repo.FindByIDForUpdate(ctx, tx, billID)
		if err != nil {
			return err
		}
		if bill == nil {
			return domain.ErrNotFound
		}
		if err := bill.AddPayment(req.Amount, method); err != nil {
			return err
		}
		bill.UpdatedBy = obscontext.ActorFromContext(ctx).UserID
		bill.UpdatedAt = s.clock.Now()
		if err := s.repo.Save(ctx, tx, bill); err != nil {
			return err
		}
		_, err = s.ledger.Record(ctx, tx, transactiondomain.RecordRequest{
			Type:            transactiondomain.TypePaymentReceived,
			Party:           reference.NewParty(reference.PartyCustomer, bill.CustomerID, bill.CustomerName),
			Amount:          amount.Round(req.Amount),
			PaymentMethod:   method,
			Reference:       billRef(bill),
			Description:     "Payment for bill " + bill.BillNumber,
			Notes:           strings.TrimSpace(req.Notes),
			TransactionDate: paidAt,
		})
		if err != nil {
			return err
		}
		out = *bill
		return nil
	})
	if err != nil {
		return domain.Bill{}, err
	}

	s.obsMetrics.RecordPayment(ctx, "bill", string(method))
	s.log.Info("bill payment recorded",
		zap.String("bill_id", billID.String()),
		zap.Float64("amount", req.Amount),
		zap.String("payment_status", string(out.PaymentStatus)),
	)
	return out, nil
}

func (s *Service) Unpaid(ctx context.Context) ([]domain.Bill, error) {
	return s.repo.FindUnpaid(ctx, s.db)
}

func (s *Service) RenderPDF(ctx context.Context, id string) (domain.Document, error) {
	bill, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.Document{}, err
	}
	shop := s.shop.Get()
	data := invoiceData(bill, shop)

	customer, err := s.customers.GetByID(ctx, bill.CustomerID.String())
	switch {
	case err == nil:
		data.Customer = pdf.Party{Name: customer.Name, Address: customer.Address, Phone: customer.Phone}
	case errors.Is(err, customerdomain.ErrNotFound):
		s.log.Warn("bill customer missing", zap.String("bill_id", bill.ID.String()))
	default:
		return domain.Document{}, err
	}

	r, err := s.pdf.GenerateInvoice(ctx, data)
	if err != nil {
		return domain.Document{}, err
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return domain.Document{}, err
	}
	return domain.Document{Filename: bill.BillNumber + ".pdf", Content: content}, nil
}

func (s *Service) mutate(ctx context.Context, id string, fn func(*domain.Bill) error) (domain.Bill, error) {
	billID, err := parseID(id)
	if err != nil {
		return domain.Bill{}, err
	}
	var out domain.Bill
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bill, err := s.repo.FindByIDForUpdate(ctx, tx, billID)
		if err != nil {
			return err
		}
		if bill == nil {
			return domain.ErrNotFound
		}
		if err := fn(bill); err != nil {
			return err
		}
		bill.UpdatedBy = obscontext.ActorFromContext(ctx).UserID
		bill.UpdatedAt = s.clock.Now()
		if err := s.repo.Save(ctx, tx, bill); err != nil {
			return err
		}
		out = *bill
		return nil
	})
	if err != nil {
		return domain.Bill{}, err
	}
	return out, nil
}

func lineItems(in []domain.LineItemInput, gstRate float64) (datatypes.JSONSlice[domain.LineItem], error) {
	if len(in) == 0 {
		return nil, domain.ErrEmptyItems
	}
	out := make(datatypes.JSONSlice[domain.LineItem], 0, len(in))
	for _, li := range in {
		item, err := lineItem(li, gstRate)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func lineItem(in domain.LineItemInput, gstRate float64) (domain.LineItem, error) {
	name := strings.TrimSpace(in.ItemName)
	if name == "" {
		return domain.LineItem{}, domain.ErrInvalidItemName
	}
	if in.Quantity < 1 {
		return domain.LineItem{}, domain.ErrInvalidQuantity
	}
	if in.Rate < 0 || in.Amount < 0 || in.MakingCharges < 0 || in.StoneCharges < 0 {
		return domain.LineItem{}, domain.ErrInvalidRate
	}
	unit := strings.ToLower(strings.TrimSpace(in.Weight.Unit))
	if unit == "" {
		unit = "gm"
	}
	if in.Weight.Value < 0 || !itemdomain.ValidWeightUnit(unit) {
		return domain.LineItem{}, domain.ErrInvalidWeight
	}
	rate := gstRate
	if in.GSTRate != nil {
		if !gst.ValidRate(*in.GSTRate) {
			return domain.LineItem{}, domain.ErrInvalidGSTRate
		}
		rate = *in.GSTRate
	}
	hsn := strings.TrimSpace(in.HSNCode)
	if hsn == "" {
		hsn = domain.DefaultHSNCode
	}

	item := domain.LineItem{
		ItemName:      name,
		Description:   strings.TrimSpace(in.Description),
		Quantity:      in.Quantity,
		HSNCode:       hsn,
		Weight:        itemdomain.Weight{Value: amount.RoundWeight(in.Weight.Value), Unit: unit},
		Rate:          in.Rate,
		Amount:        in.Amount,
		MakingCharges: amount.Round(in.MakingCharges),
		StoneCharges:  amount.Round(in.StoneCharges),
		GSTRate:       rate,
	}
	var err error
	if item.ItemID, err = optionalID(in.ItemID); err != nil {
		return domain.LineItem{}, err
	}
	return item, nil
}

func ledgerType(t domain.BillType) transactiondomain.Type {
	if t == domain.Sale {
		return transactiondomain.TypeSale
	}
	return transactiondomain.TypePurchase
}

func billRef(b *domain.Bill) reference.Document {
	return reference.NewDocument(reference.DocumentBill, b.ID, b.BillNumber)
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
