package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	agentdomain "github.com/smallbiznis/karatledger/internal/agent/domain"
	"github.com/smallbiznis/karatledger/internal/clock"
	"github.com/smallbiznis/karatledger/internal/config"
	"github.com/smallbiznis/karatledger/internal/gst"
	itemdomain "github.com/smallbiznis/karatledger/internal/item/domain"
	"github.com/smallbiznis/karatledger/internal/metal"
	obscontext "github.com/smallbiznis/karatledger/internal/observability/context"
	obsmetrics "github.com/smallbiznis/karatledger/internal/observability/metrics"
	"github.com/smallbiznis/karatledger/internal/order/domain"
	"github.com/smallbiznis/karatledger/internal/party"
	"github.com/smallbiznis/karatledger/internal/sequence"
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
	Agents     agentdomain.Service
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
	agents     agentdomain.Service
	shop       *config.ShopSettingsHolder
	clock      clock.Clock
	obsMetrics *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("order.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		seq:        p.Seq,
		parties:    p.Parties,
		agents:     p.Agents,
		shop:       p.Shop,
		clock:      clock.OrReal(p.Clock),
		obsMetrics: p.ObsMetrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.Order, error) {
	items, err := lineItems(req.Items)
	if err != nil {
		return domain.Order{}, err
	}
	gstRate, err := s.gstRate(req.GSTRate)
	if err != nil {
		return domain.Order{}, err
	}
	discount, err := req.Discount.Normalize()
	if err != nil {
		return domain.Order{}, err
	}
	if req.AdvancePaid < 0 {
		return domain.Order{}, domain.ErrInvalidAdvance
	}
	status := domain.StatusPending
	if strings.TrimSpace(req.Status) != "" {
		var ok bool
		if status, ok = domain.ValidStatus(req.Status); !ok {
			return domain.Order{}, domain.ErrInvalidStatus
		}
	}

	now := s.clock.Now()
	orderDate, err := dates.ParseOptional(req.OrderDate, now)
	if err != nil {
		return domain.Order{}, domain.ErrInvalidDate
	}
	deliveryDate, err := dates.ParseOptionalPtr(req.DeliveryDate)
	if err != nil {
		return domain.Order{}, domain.ErrInvalidDate
	}

	customer, err := s.parties.Customer(ctx, req.CustomerID)
	if err != nil {
		return domain.Order{}, err
	}

	actor := obscontext.ActorFromContext(ctx).UserID
	order := domain.Order{
		ID:                  s.genID.Generate(),
		CustomerID:          customer.ID(),
		CustomerName:        customer.Name,
		OrderDate:           orderDate,
		DeliveryDate:        deliveryDate,
		Items:               items,
		GSTRate:             gstRate,
		Discount:            discount,
		AdvancePaid:         amount.Round(req.AdvancePaid),
		Status:              status,
		Notes:               strings.TrimSpace(req.Notes),
		SpecialInstructions: strings.TrimSpace(req.SpecialInstructions),
		DeliveryAddress:     strings.TrimSpace(req.DeliveryAddress),
		CreatedBy:           actor,
		UpdatedBy:           actor,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if strings.TrimSpace(req.AssignedTo) != "" {
		worker, err := s.parties.JobWorker(ctx, req.AssignedTo)
		if err != nil {
			return domain.Order{}, err
		}
		order.AssignedTo = worker.EntityID
		order.AssignedToName = worker.Name
	}
	if strings.TrimSpace(req.AgentID) != "" {
		agent, err := s.parties.Agent(ctx, req.AgentID)
		if err != nil {
			return domain.Order{}, err
		}
		order.AgentID = agent.EntityID
	}

	order.Recompute()
	if amount.Exceeds(order.AdvancePaid, order.TotalAmount) {
		return domain.Order{}, domain.ErrAdvanceExceedsTotal
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := s.seq.Assign(ctx, tx, sequence.Order, req.OrderNumber)
		if err != nil {
			return err
		}
		order.OrderNumber = number
		if order.AgentID != nil {
			credit, err := s.agents.RecordOrder(ctx, tx, *order.AgentID, order.TotalAmount)
			if err != nil {
				return err
			}
			order.AgentSales = credit.Sales
			order.AgentCommission = credit.Commission
		}
		return s.repo.Insert(ctx, tx, &order)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Order{}, domain.ErrDuplicateNumber
		}
		return domain.Order{}, err
	}

	s.obsMetrics.RecordDocumentCreated(ctx, "order")
	s.log.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.Float64("total_amount", order.TotalAmount),
	)
	return order, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (domain.Order, error) {
	orderID, err := parseID(id)
	if err != nil {
		return domain.Order{}, err
	}

	var out domain.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.repo.FindByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if err := applyUpdate(order, req); err != nil {
			return err
		}
		order.Recompute()
		if amount.Exceeds(order.AdvancePaid, order.TotalAmount) {
			return domain.ErrAdvanceExceedsTotal
		}
		order.UpdatedBy = obscontext.ActorFromContext(ctx).UserID
		order.UpdatedAt = s.clock.Now()
		if err := s.repo.Save(ctx, tx, order); err != nil {
			return err
		}
		out = *order
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	return out, nil
}

func applyUpdate(o *domain.Order, req domain.UpdateRequest) error {
	if req.DeliveryDate != nil {
		delivery, err := dates.ParseOptionalPtr(*req.DeliveryDate)
		if err != nil {
			return domain.ErrInvalidDate
		}
		o.DeliveryDate = delivery
	}
	if req.Items != nil {
		items, err := lineItems(*req.Items)
		if err != nil {
			return err
		}
		o.Items = items
	}
	if req.GSTRate != nil {
		if !gst.ValidRate(*req.GSTRate) {
			return domain.ErrInvalidGSTRate
		}
		o.GSTRate = *req.GSTRate
	}
	if req.Discount != nil {
		discount, err := req.Discount.Normalize()
		if err != nil {
			return err
		}
		o.Discount = discount
	}
	if req.AdvancePaid != nil {
		if *req.AdvancePaid < 0 {
			return domain.ErrInvalidAdvance
		}
		o.AdvancePaid = amount.Round(*req.AdvancePaid)
	}
	setString(&o.Notes, req.Notes)
	setString(&o.SpecialInstructions, req.SpecialInstructions)
	setString(&o.DeliveryAddress, req.DeliveryAddress)
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	orderID, err := parseID(id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.repo.FindByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.AgentID != nil {
			credit := agentdomain.OrderCredit{Sales: order.AgentSales, Commission: order.AgentCommission}
			if err := s.agents.ReverseOrder(ctx, tx, *order.AgentID, credit); err != nil {
				return err
			}
		}
		if err := s.repo.Delete(ctx, tx, orderID); err != nil {
			return err
		}
		s.log.Info("order deleted",
			zap.String("order_id", order.ID.String()),
			zap.String("order_number", order.OrderNumber),
		)
		return nil
	})
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Order, error) {
	orderID, err := parseID(id)
	if err != nil {
		return domain.Order{}, err
	}
	order, err := s.repo.FindByID(ctx, s.db, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if order == nil {
		return domain.Order{}, domain.ErrNotFound
	}
	return *order, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	var filter domain.ListFilter
	if strings.TrimSpace(req.Status) != "" {
		status, ok := domain.ValidStatus(req.Status)
		if !ok {
			return domain.ListResponse{}, domain.ErrInvalidStatus
		}
		filter.Status = status
	}
	var err error
	if filter.CustomerID, err = optionalID(req.CustomerID); err != nil {
		return domain.ListResponse{}, err
	}
	if filter.AssignedTo, err = optionalID(req.AssignedTo); err != nil {
		return domain.ListResponse{}, err
	}
	if filter.AgentID, err = optionalID(req.AgentID); err != nil {
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
		Orders:   items,
		PageInfo: pagination.BuildPageInfo(req.Pagination, total),
	}, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status string) (domain.Order, error) {
	next, ok := domain.ValidStatus(status)
	if !ok {
		return domain.Order{}, domain.ErrInvalidStatus
	}
	out, err := s.mutate(ctx, id, func(o *domain.Order) {
		o.Status = next
	})
	if err != nil {
		return domain.Order{}, err
	}
	s.log.Info("order status updated",
		zap.String("order_id", out.ID.String()),
		zap.String("status", string(out.Status)),
	)
	return out, nil
}

func (s *Service) Assign(ctx context.Context, id string, jobWorkerID string) (domain.Order, error) {
	if _, err := parseID(id); err != nil {
		return domain.Order{}, err
	}
	worker, err := s.parties.JobWorker(ctx, jobWorkerID)
	if err != nil {
		return domain.Order{}, err
	}
	out, err := s.mutate(ctx, id, func(o *domain.Order) {
		o.Assign(worker.ID(), worker.Name)
	})
	if err != nil {
		return domain.Order{}, err
	}
	s.log.Info("order assigned",
		zap.String("order_id", out.ID.String()),
		zap.String("job_worker_id", worker.ID().String()),
	)
	return out, nil
}

func (s *Service) Pending(ctx context.Context) ([]domain.Order, error) {
	return s.repo.FindByStatus(ctx, s.db, domain.StatusPending)
}

func (s *Service) Ready(ctx context.Context) ([]domain.Order, error) {
	return s.repo.FindByStatus(ctx, s.db, domain.StatusReady)
}

func (s *Service) LinkBill(ctx context.Context, tx *gorm.DB, id string, billNumber string) error {
	orderID, err := parseID(id)
	if err != nil {
		return err
	}
	order, err := s.repo.FindByID(ctx, tx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return domain.ErrNotFound
	}
	return s.repo.SetBillNumber(ctx, tx, orderID, billNumber, s.clock.Now())
}

func (s *Service) mutate(ctx context.Context, id string, fn func(*domain.Order)) (domain.Order, error) {
	orderID, err := parseID(id)
	if err != nil {
		return domain.Order{}, err
	}
	var out domain.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.repo.FindByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		fn(order)
		order.UpdatedBy = obscontext.ActorFromContext(ctx).UserID
		order.UpdatedAt = s.clock.Now()
		if err := s.repo.Save(ctx, tx, order); err != nil {
			return err
		}
		out = *order
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	return out, nil
}

func (s *Service) gstRate(v *float64) (float64, error) {
	if v == nil {
		return s.shop.Get().DefaultGSTRate, nil
	}
	if !gst.ValidRate(*v) {
		return 0, domain.ErrInvalidGSTRate
	}
	return *v, nil
}

func lineItems(in []domain.LineItemInput) (datatypes.JSONSlice[domain.LineItem], error) {
	if len(in) == 0 {
		return nil, domain.ErrEmptyItems
	}
	out := make(datatypes.JSONSlice[domain.LineItem], 0, len(in))
	for _, li := range in {
		item, err := lineItem(li)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func lineItem(in domain.LineItemInput) (domain.LineItem, error) {
	name := strings.TrimSpace(in.ItemName)
	if name == "" {
		return domain.LineItem{}, domain.ErrInvalidItemName
	}
	if in.Quantity < 1 {
		return domain.LineItem{}, domain.ErrInvalidQuantity
	}
	m, ok := metal.Parse(in.Metal)
	if !ok {
		return domain.LineItem{}, domain.ErrInvalidMetal
	}
	if !metal.ValidPurity(m, in.Purity) {
		return domain.LineItem{}, domain.ErrInvalidPurity
	}
	if in.Rate < 0 || in.StoneCharges < 0 || in.MakingCharges.Value < 0 {
		return domain.LineItem{}, domain.ErrInvalidRate
	}
	estimated, err := weight(in.EstimatedWeight)
	if err != nil {
		return domain.LineItem{}, err
	}
	actual, err := weight(in.ActualWeight)
	if err != nil {
		return domain.LineItem{}, err
	}
	making := in.MakingCharges
	making.Type = itemdomain.MakingChargesType(strings.ToLower(strings.TrimSpace(string(making.Type))))
	if making.Type == "" {
		making.Type = itemdomain.MakingPercentage
	}
	if !making.Type.Valid() {
		return domain.LineItem{}, domain.ErrInvalidMakingType
	}

	item := domain.LineItem{
		ItemName:        name,
		Description:     strings.TrimSpace(in.Description),
		Quantity:        in.Quantity,
		Metal:           m,
		Purity:          metal.NormalizePurity(in.Purity),
		EstimatedWeight: estimated,
		ActualWeight:    actual,
		Rate:            in.Rate,
		MakingCharges:   making,
		StoneCharges:    amount.Round(in.StoneCharges),
	}
	if item.ItemID, err = optionalID(in.ItemID); err != nil {
		return domain.LineItem{}, err
	}
	return item, nil
}

func weight(in domain.WeightInput) (itemdomain.Weight, error) {
	unit := strings.ToLower(strings.TrimSpace(in.Unit))
	if unit == "" {
		unit = "gm"
	}
	if in.Value < 0 || !itemdomain.ValidWeightUnit(unit) {
		return itemdomain.Weight{}, domain.ErrInvalidWeight
	}
	return itemdomain.Weight{Value: amount.RoundWeight(in.Value), Unit: unit}, nil
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
