package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/karatledger/internal/clock"
	"github.com/smallbiznis/karatledger/internal/item/domain"
	"github.com/smallbiznis/karatledger/internal/metal"
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
		log:   p.Log.Named("item.service"),
		genID: p.GenID,
		repo:  p.Repo,
		seq:   p.Seq,
		clock: clock.OrReal(p.Clock),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.Item, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Item{}, domain.ErrInvalidName
	}
	category, err := parseCategory(req.Category)
	if err != nil {
		return domain.Item{}, err
	}
	m, ok := metal.Parse(req.Metal)
	if !ok {
		return domain.Item{}, domain.ErrInvalidMetal
	}
	if !metal.ValidPurity(m, req.Purity) {
		return domain.Item{}, domain.ErrInvalidPurity
	}
	weight, err := normalizeWeight(req.Weight)
	if err != nil {
		return domain.Item{}, err
	}
	makingType, err := parseMakingType(req.MakingChargesType)
	if err != nil {
		return domain.Item{}, err
	}
	if req.MakingCharges < 0 || req.StoneCharges < 0 {
		return domain.Item{}, domain.ErrInvalidCharges
	}
	if req.StockQuantity < 0 || req.MinimumStock < 0 {
		return domain.Item{}, domain.ErrInvalidQuantity
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	now := s.clock.Now()
	actor := obscontext.ActorFromContext(ctx).UserID

	item := domain.Item{
		ID:                s.genID.Generate(),
		Name:              name,
		Category:          category,
		Description:       strings.TrimSpace(req.Description),
		Metal:             m,
		Purity:            metal.NormalizePurity(req.Purity),
		Weight:            weight,
		MakingCharges:     amount.Round(req.MakingCharges),
		MakingChargesType: makingType,
		StoneCharges:      amount.Round(req.StoneCharges),
		HUID:              normalizeHUID(req.HUID),
		StockQuantity:     req.StockQuantity,
		MinimumStock:      req.MinimumStock,
		IsActive:          isActive,
		Tags:              tags(req.Tags),
		Notes:             strings.TrimSpace(req.Notes),
		CreatedBy:         actor,
		UpdatedBy:         actor,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		code, err := s.seq.Assign(ctx, tx, sequence.Item, req.ItemCode)
		if err != nil {
			return err
		}
		item.ItemCode = code
		return s.repo.Insert(ctx, tx, &item)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Item{}, domain.ErrDuplicateItem
		}
		return domain.Item{}, err
	}
	return item, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (domain.Item, error) {
	itemID, err := parseID(id)
	if err != nil {
		return domain.Item{}, err
	}

	var out domain.Item
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := s.repo.FindByIDForUpdate(ctx, tx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if err := applyUpdate(item, req); err != nil {
			return err
		}
		item.UpdatedBy = obscontext.ActorFromContext(ctx).UserID
		item.UpdatedAt = s.clock.Now()
		if err := s.repo.Save(ctx, tx, item); err != nil {
			return err
		}
		out = *item
		return nil
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Item{}, domain.ErrDuplicateItem
		}
		return domain.Item{}, err
	}
	return out, nil
}

func applyUpdate(item *domain.Item, req domain.UpdateRequest) error {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.ErrInvalidName
		}
		item.Name = name
	}
	if req.Category != nil {
		c, err := parseCategory(*req.Category)
		if err != nil {
			return err
		}
		item.Category = c
	}
	if req.Metal != nil {
		m, ok := metal.Parse(*req.Metal)
		if !ok {
			return domain.ErrInvalidMetal
		}
		item.Metal = m
	}
	if req.Purity != nil {
		item.Purity = metal.NormalizePurity(*req.Purity)
	}
	// a metal change must come with a purity valid for it
	if !metal.ValidPurity(item.Metal, item.Purity) {
		return domain.ErrInvalidPurity
	}
	if req.Weight != nil {
		w, err := normalizeWeight(*req.Weight)
		if err != nil {
			return err
		}
		item.Weight = w
	}
	if req.MakingChargesType != nil {
		mt, err := parseMakingType(*req.MakingChargesType)
		if err != nil {
			return err
		}
		item.MakingChargesType = mt
	}
	if req.MakingCharges != nil {
		if *req.MakingCharges < 0 {
			return domain.ErrInvalidCharges
		}
		item.MakingCharges = amount.Round(*req.MakingCharges)
	}
	if req.StoneCharges != nil {
		if *req.StoneCharges < 0 {
			return domain.ErrInvalidCharges
		}
		item.StoneCharges = amount.Round(*req.StoneCharges)
	}
	if req.MinimumStock != nil {
		if *req.MinimumStock < 0 {
			return domain.ErrInvalidQuantity
		}
		item.MinimumStock = *req.MinimumStock
	}
	if req.HUID != nil {
		item.HUID = normalizeHUID(*req.HUID)
	}
	if req.Tags != nil {
		item.Tags = tags(*req.Tags)
	}
	if req.Description != nil {
		item.Description = strings.TrimSpace(*req.Description)
	}
	if req.Notes != nil {
		item.Notes = strings.TrimSpace(*req.Notes)
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	itemID, err := parseID(id)
	if err != nil {
		return err
	}
	item, err := s.repo.FindByID(ctx, s.db, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, itemID)
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Item, error) {
	itemID, err := parseID(id)
	if err != nil {
		return domain.Item{}, err
	}
	item, err := s.repo.FindByID(ctx, s.db, itemID)
	if err != nil {
		return domain.Item{}, err
	}
	if item == nil {
		return domain.Item{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	filter := domain.ListFilter{IsActive: req.IsActive}
	if strings.TrimSpace(req.Category) != "" {
		c, err := parseCategory(req.Category)
		if err != nil {
			return domain.ListResponse{}, err
		}
		filter.Category = c
	}
	if strings.TrimSpace(req.Metal) != "" {
		m, ok := metal.Parse(req.Metal)
		if !ok {
			return domain.ListResponse{}, domain.ErrInvalidMetal
		}
		filter.Metal = string(m)
	}
	items, total, err := s.repo.List(ctx, s.db, filter, req.Pagination)
	if err != nil {
		return domain.ListResponse{}, err
	}
	return domain.ListResponse{
		Items:    items,
		PageInfo: pagination.BuildPageInfo(req.Pagination, total),
	}, nil
}

// UpdateStock treats a blank operation as set.
func (s *Service) UpdateStock(ctx context.Context, id string, req domain.StockRequest) (domain.Item, error) {
	itemID, err := parseID(id)
	if err != nil {
		return domain.Item{}, err
	}
	op := domain.StockOperation(strings.ToLower(strings.TrimSpace(req.Operation)))
	if op == "" {
		op = domain.StockSet
	}

	var out domain.Item
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := s.repo.FindByIDForUpdate(ctx, tx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		next, err := domain.ApplyStock(item.StockQuantity, op, req.Quantity)
		if err != nil {
			return err
		}
		item.StockQuantity = next
		item.UpdatedBy = obscontext.ActorFromContext(ctx).UserID
		item.UpdatedAt = s.clock.Now()
		if err := s.repo.Save(ctx, tx, item); err != nil {
			return err
		}
		out = *item
		return nil
	})
	if err != nil {
		return domain.Item{}, err
	}

	if out.LowOnStock() {
		s.log.Warn("item low on stock",
			zap.String("item_code", out.ItemCode),
			zap.Int64("stock_quantity", out.StockQuantity),
			zap.Int64("minimum_stock", out.MinimumStock),
		)
	}
	return out, nil
}

func (s *Service) LowStock(ctx context.Context) ([]domain.Item, error) {
	return s.repo.LowStock(ctx, s.db)
}

func (s *Service) Search(ctx context.Context, query string) ([]domain.Item, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}
	return s.repo.Search(ctx, s.db, query, searchLimit)
}

func parseCategory(v string) (domain.Category, error) {
	c := domain.Category(strings.ToLower(strings.TrimSpace(v)))
	if c == "" {
		return domain.CategoryOther, nil
	}
	if !c.Valid() {
		return "", domain.ErrInvalidCategory
	}
	return c, nil
}

func parseMakingType(v string) (domain.MakingChargesType, error) {
	m := domain.MakingChargesType(strings.ToLower(strings.TrimSpace(v)))
	if m == "" {
		return domain.MakingPercentage, nil
	}
	if !m.Valid() {
		return "", domain.ErrInvalidMakingType
	}
	return m, nil
}

func normalizeWeight(w domain.Weight) (domain.Weight, error) {
	if w.Value <= 0 {
		return domain.Weight{}, domain.ErrInvalidWeight
	}
	unit := strings.ToLower(strings.TrimSpace(w.Unit))
	if unit == "" {
		unit = "gm"
	}
	if !domain.ValidWeightUnit(unit) {
		return domain.Weight{}, domain.ErrInvalidWeight
	}
	return domain.Weight{Value: amount.RoundWeight(w.Value), Unit: unit}, nil
}

// normalizeHUID maps blank to nil so the unique index ignores it.
func normalizeHUID(v string) *string {
	v = strings.ToUpper(strings.TrimSpace(v))
	if v == "" {
		return nil
	}
	return &v
}

func tags(in []string) datatypes.JSONSlice[string] {
	out := make(datatypes.JSONSlice[string], 0, len(in))
	for _, t := range in {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
