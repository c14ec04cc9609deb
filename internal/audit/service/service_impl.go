package service

import (
	"context"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	auditdomain "github.com/smallbiznis/karatledger/internal/audit/domain"
	"github.com/smallbiznis/karatledger/internal/audit/masking"
	"github.com/smallbiznis/karatledger/internal/clock"
	obscontext "github.com/smallbiznis/karatledger/internal/observability/context"
	"github.com/smallbiznis/karatledger/pkg/dates"
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
	Repo  auditdomain.Repository
	Sink  auditdomain.Sink `optional:"true"`
	Clock clock.Clock      `optional:"true"`
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  auditdomain.Repository
	sink  auditdomain.Sink
	clock clock.Clock
}

func NewService(p Params) auditdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("audit.service"),
		repo:  p.Repo,
		sink:  p.Sink,
		clock: clock.OrReal(p.Clock),
	}
}

func (s *Service) Record(ctx context.Context, in auditdomain.Entry) error {
	action := strings.TrimSpace(in.Action)
	if action == "" {
		return auditdomain.ErrInvalidAction
	}
	targetType := strings.TrimSpace(in.TargetType)
	if targetType == "" {
		targetType = "unknown"
	}

	now := s.clock.Now().UTC()
	actor := obscontext.ActorFromContext(ctx)
	client := obscontext.ClientFromContext(ctx)
	entry := auditdomain.AuditLog{
		ID:         ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		ActorID:    actor.UserID,
		ActorRole:  actor.Role,
		Action:     action,
		TargetType: targetType,
		TargetID:   strings.TrimSpace(in.TargetID),
		RequestID:  obscontext.RequestIDFromContext(ctx),
		IPAddress:  client.IPAddress,
		UserAgent:  client.UserAgent,
		CreatedAt:  now,
	}
	if masked := masking.MaskJSON(in.Metadata); masked != nil {
		entry.Metadata = datatypes.JSONMap(masked)
	}

	if err := s.repo.Insert(ctx, s.db, &entry); err != nil {
		s.log.Warn("failed to write audit log", zap.String("action", action), zap.Error(err))
		return err
	}

	if s.sink != nil {
		if err := s.sink.Write(ctx, entry); err != nil {
			s.log.Warn("failed to mirror audit log",
				zap.String("audit_id", entry.ID),
				zap.String("action", action),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (s *Service) List(ctx context.Context, req auditdomain.ListAuditLogRequest) (auditdomain.ListAuditLogResponse, error) {
	startAt, err := dates.ParseOptionalPtr(req.StartDate)
	if err != nil {
		return auditdomain.ListAuditLogResponse{}, auditdomain.ErrInvalidDate
	}
	var endAt *time.Time
	if strings.TrimSpace(req.EndDate) != "" {
		end, dateOnly, err := dates.Parse(req.EndDate)
		if err != nil {
			return auditdomain.ListAuditLogResponse{}, auditdomain.ErrInvalidDate
		}
		if dateOnly {
			end = end.AddDate(0, 0, 1)
		} else {
			end = end.Add(time.Nanosecond)
		}
		endAt = &end
	}
	if startAt != nil && endAt != nil && !startAt.Before(*endAt) {
		return auditdomain.ListAuditLogResponse{}, auditdomain.ErrInvalidTimeRange
	}

	items, total, err := s.repo.List(ctx, s.db, auditdomain.ListFilter{
		Action:     req.Action,
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		ActorID:    req.ActorID,
		StartAt:    startAt,
		EndAt:      endAt,
	}, req.Pagination)
	if err != nil {
		return auditdomain.ListAuditLogResponse{}, err
	}
	return auditdomain.ListAuditLogResponse{
		AuditLogs: items,
		PageInfo:  pagination.BuildPageInfo(req.Pagination, total),
	}, nil
}
