package service

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/karatledger/internal/agent/domain"
	"github.com/smallbiznis/karatledger/internal/agent/repository"
	"github.com/smallbiznis/karatledger/internal/clock"
	"github.com/smallbiznis/karatledger/internal/sequence"
	"github.com/smallbiznis/karatledger/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()
	db := testutil.OpenDB(t, &sequence.Counter{}, &domain.Agent{})
	clk := clock.NewFakeClock(time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC))
	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: testutil.Node(t),
		Repo:  repository.Provide(),
		Seq:   sequence.New(sequence.Params{DB: db, Log: zap.NewNop(), Clock: clk}),
		Clock: clk,
	})
	return svc, db
}

func TestCreateAgent(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, domain.CreateRequest{Name: "Vikram", Phone: "9111111111", CommissionRate: 2})
	require.NoError(t, err)
	assert.Equal(t, "AGT-1001", a.AgentNumber)
	assert.Equal(t, domain.CommissionPercentage, a.CommissionType)
	assert.Equal(t, time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC), a.JoinDate)

	_, err = svc.Create(ctx, domain.CreateRequest{Name: "X", Phone: "9111111111", CommissionType: "bonus"})
	assert.ErrorIs(t, err, domain.ErrInvalidCommissionType)
	_, err = svc.Create(ctx, domain.CreateRequest{Name: "X", Phone: "9111111111", CommissionRate: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidCommissionRate)
}

func TestRecordOrderUpdatesStats(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	pct, err := svc.Create(ctx, domain.CreateRequest{Name: "P", Phone: "9111111111", CommissionRate: 2.5})
	require.NoError(t, err)
	flat, err := svc.Create(ctx, domain.CreateRequest{Name: "F", Phone: "9111111112", CommissionType: "per_order", CommissionRate: 300})
	require.NoError(t, err)

	_, err = svc.RecordOrder(ctx, db, pct.ID, 40000)
	require.NoError(t, err)
	_, err = svc.RecordOrder(ctx, db, pct.ID, 10000)
	require.NoError(t, err)
	_, err = svc.RecordOrder(ctx, db, flat.ID, 10000)
	require.NoError(t, err)

	stats, err := svc.Stats(ctx, pct.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalOrders)
	assert.Equal(t, 50000.0, stats.TotalSales)
	assert.Equal(t, 1250.0, stats.PendingCommission)
	assert.Equal(t, 1250.0, stats.TotalCommissionEarned)

	stats, err = svc.Stats(ctx, flat.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 300.0, stats.PendingCommission)

	_, err = svc.RecordOrder(ctx, db, 42, 100)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReverseOrder(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, domain.CreateRequest{Name: "P", Phone: "9111111111", CommissionRate: 2})
	require.NoError(t, err)
	first, err := svc.RecordOrder(ctx, db, a.ID, 10000)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderCredit{Sales: 10000, Commission: 200}, first)
	_, err = svc.RecordOrder(ctx, db, a.ID, 5000)
	require.NoError(t, err)

	require.NoError(t, svc.ReverseOrder(ctx, db, a.ID, first))
	stats, err := svc.Stats(ctx, a.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalOrders)
	assert.Equal(t, 5000.0, stats.TotalSales)
	assert.Equal(t, 100.0, stats.TotalCommissionEarned)
	assert.Equal(t, 100.0, stats.PendingCommission)

	zero := 0.0
	_, err = svc.Update(ctx, a.ID.String(), domain.UpdateRequest{PendingCommission: &zero})
	require.NoError(t, err)
	require.NoError(t, svc.ReverseOrder(ctx, db, a.ID, domain.OrderCredit{Sales: 5000, Commission: 100}))
	stats, err = svc.Stats(ctx, a.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalOrders)
	assert.Equal(t, 0.0, stats.PendingCommission)

	assert.NoError(t, svc.ReverseOrder(ctx, db, 42, first))
}

func TestUpdateAgentPayout(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, domain.CreateRequest{Name: "P", Phone: "9111111111", CommissionType: "fixed", CommissionRate: 500})
	require.NoError(t, err)
	_, err = svc.RecordOrder(ctx, db, a.ID, 1000)
	require.NoError(t, err)

	zero := 0.0
	got, err := svc.Update(ctx, a.ID.String(), domain.UpdateRequest{PendingCommission: &zero})
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.PendingCommission)
	assert.Equal(t, 500.0, got.TotalCommissionEarned)
	assert.Equal(t, int64(1), got.TotalOrders)
}
