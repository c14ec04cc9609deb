package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	auditdomain "github.com/smallbiznis/karatledger/internal/audit/domain"
	"github.com/smallbiznis/karatledger/internal/audit/mocks"
	"github.com/smallbiznis/karatledger/internal/audit/repository"
	"github.com/smallbiznis/karatledger/internal/clock"
	obscontext "github.com/smallbiznis/karatledger/internal/observability/context"
	"github.com/smallbiznis/karatledger/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T, sink auditdomain.Sink) (auditdomain.Service, *clock.FakeClock) {
	t.Helper()
	db := testutil.OpenDB(t, &auditdomain.AuditLog{})
	clk := clock.NewFakeClock(time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC))
	return NewService(Params{DB: db, Log: zap.NewNop(), Repo: repository.Provide(), Sink: sink, Clock: clk}), clk
}

func actorContext() context.Context {
	ctx := obscontext.WithActor(context.Background(), obscontext.Actor{UserID: "42", Role: "admin"})
	ctx = obscontext.WithRequestID(ctx, "req-1")
	return obscontext.WithClient(ctx, obscontext.Client{IPAddress: "10.0.0.1", UserAgent: "curl"})
}

func TestRecordMirrorsToSink(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := mocks.NewMockSink(ctrl)
	svc, _ := newService(t, sink)

	var mirrored auditdomain.AuditLog
	sink.EXPECT().Write(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, entry auditdomain.AuditLog) error {
		mirrored = entry
		return nil
	})

	err := svc.Record(actorContext(), auditdomain.Entry{
		Action:     "customer.create",
		TargetType: "customer",
		TargetID:   "99",
		Metadata:   map[string]any{"name": "Asha", "password": "secret99"},
	})
	require.NoError(t, err)

	assert.Len(t, mirrored.ID, 26)
	assert.Equal(t, "42", mirrored.ActorID)
	assert.Equal(t, "admin", mirrored.ActorRole)
	assert.Equal(t, "req-1", mirrored.RequestID)
	assert.Equal(t, "10.0.0.1", mirrored.IPAddress)
	assert.Equal(t, "****et99", mirrored.Metadata["password"])
	assert.Equal(t, "Asha", mirrored.Metadata["name"])
}

func TestRecordSurvivesSinkFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := mocks.NewMockSink(ctrl)
	svc, _ := newService(t, sink)

	sink.EXPECT().Write(gomock.Any(), gomock.Any()).Return(errors.New("mongo down"))
	require.NoError(t, svc.Record(actorContext(), auditdomain.Entry{Action: "bill.finalize", TargetType: "bill", TargetID: "7"}))

	resp, err := svc.List(context.Background(), auditdomain.ListAuditLogRequest{Action: "bill.finalize"})
	require.NoError(t, err)
	require.Len(t, resp.AuditLogs, 1)
	assert.Equal(t, "7", resp.AuditLogs[0].TargetID)

	assert.ErrorIs(t, svc.Record(context.Background(), auditdomain.Entry{}), auditdomain.ErrInvalidAction)
}

func TestListFilters(t *testing.T) {
	svc, clk := newService(t, nil)
	ctx := actorContext()

	require.NoError(t, svc.Record(ctx, auditdomain.Entry{Action: "loan.create", TargetType: "loan", TargetID: "1"}))
	clk.Advance(48 * time.Hour)
	require.NoError(t, svc.Record(ctx, auditdomain.Entry{Action: "loan.payment", TargetType: "loan", TargetID: "1"}))
	require.NoError(t, svc.Record(ctx, auditdomain.Entry{Action: "bill.create", TargetType: "bill", TargetID: "2"}))

	resp, err := svc.List(context.Background(), auditdomain.ListAuditLogRequest{TargetType: "loan", TargetID: "1"})
	require.NoError(t, err)
	require.Len(t, resp.AuditLogs, 2)
	assert.Equal(t, "loan.payment", resp.AuditLogs[0].Action)
	assert.Equal(t, int64(2), resp.PageInfo.Total)

	resp, err = svc.List(context.Background(), auditdomain.ListAuditLogRequest{StartDate: "2024-06-01", EndDate: "2024-06-01"})
	require.NoError(t, err)
	require.Len(t, resp.AuditLogs, 1)
	assert.Equal(t, "loan.create", resp.AuditLogs[0].Action)

	_, err = svc.List(context.Background(), auditdomain.ListAuditLogRequest{StartDate: "2024-06-05", EndDate: "2024-06-01"})
	assert.ErrorIs(t, err, auditdomain.ErrInvalidTimeRange)
}
