package service

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/karatledger/internal/balance"
	"github.com/smallbiznis/karatledger/internal/clock"
	"github.com/smallbiznis/karatledger/internal/jobworker/domain"
	"github.com/smallbiznis/karatledger/internal/jobworker/repository"
	"github.com/smallbiznis/karatledger/internal/sequence"
	"github.com/smallbiznis/karatledger/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupService(t *testing.T) domain.Service {
	t.Helper()
	db := testutil.OpenDB(t, &sequence.Counter{}, &domain.JobWorker{})
	clk := clock.NewFakeClock(time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC))
	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: testutil.Node(t),
		Repo:  repository.Provide(),
		Seq:   sequence.New(sequence.Params{DB: db, Log: zap.NewNop(), Clock: clk}),
		Clock: clk,
	})
}

func TestCreateJobWorker(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	w, err := svc.Create(ctx, domain.CreateRequest{
		Name:           "Mohan Karigar",
		Phone:          "9000000001",
		Specialization: []string{" casting ", "", "polishing"},
		IFSCCode:       "sbin0001234",
		OpeningBalance: -2000,
		Rating:         4.5,
	})
	require.NoError(t, err)
	assert.Equal(t, "JW-1001", w.WorkerNumber)
	assert.Equal(t, []string{"casting", "polishing"}, []string(w.Specialization))
	assert.Equal(t, "SBIN0001234", w.IFSCCode)
	assert.Equal(t, -2000.0, w.CurrentBalance)

	_, err = svc.Create(ctx, domain.CreateRequest{Name: "X", Phone: "9000000002", Rating: 6})
	assert.ErrorIs(t, err, domain.ErrInvalidRating)
	_, err = svc.Create(ctx, domain.CreateRequest{Name: "X"})
	assert.ErrorIs(t, err, domain.ErrInvalidPhone)
}

func TestListBySpecialization(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{Name: "A", Phone: "9000000001", Specialization: []string{"Casting"}})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreateRequest{Name: "B", Phone: "9000000002", Specialization: []string{"stone setting"}})
	require.NoError(t, err)

	resp, err := svc.List(ctx, domain.ListRequest{Specialization: "casting"})
	require.NoError(t, err)
	require.Len(t, resp.JobWorkers, 1)
	assert.Equal(t, "A", resp.JobWorkers[0].Name)

	resp, err = svc.List(ctx, domain.ListRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.PageInfo.Total)
}

func TestJobWorkerBalance(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	w, err := svc.Create(ctx, domain.CreateRequest{Name: "A", Phone: "9000000001"})
	require.NoError(t, err)

	got, err := svc.UpdateBalance(ctx, w.ID.String(), balance.UpdateRequest{
		Amount:      500,
		Type:        "credit",
		MetalType:   "silver",
		MetalWeight: 100.25,
	})
	require.NoError(t, err)
	assert.Equal(t, 500.0, got.CurrentBalance)
	assert.Equal(t, 100.25, got.SilverBalance.Weight)

	got, err = svc.UpdateBalance(ctx, w.ID.String(), balance.UpdateRequest{Type: "debit", MetalType: "silver", MetalWeight: 150})
	require.NoError(t, err)
	assert.Equal(t, -49.75, got.SilverBalance.Weight)

	summary, err := svc.GetBalance(ctx, w.ID.String())
	require.NoError(t, err)
	assert.Equal(t, -49.75, summary.SilverBalance.Weight)

	_, err = svc.UpdateBalance(ctx, w.ID.String(), balance.UpdateRequest{Amount: 1, Type: "sideways"})
	assert.ErrorIs(t, err, balance.ErrInvalidDirection)
	_, err = svc.UpdateBalance(ctx, "999", balance.UpdateRequest{Amount: 1, Type: "credit"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateAndDeleteJobWorker(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	w, err := svc.Create(ctx, domain.CreateRequest{Name: "A", Phone: "9000000001"})
	require.NoError(t, err)

	rating := 3.0
	specs := []string{"engraving"}
	got, err := svc.Update(ctx, w.ID.String(), domain.UpdateRequest{Rating: &rating, Specialization: &specs})
	require.NoError(t, err)
	assert.Equal(t, 3.0, got.Rating)
	assert.Equal(t, []string{"engraving"}, []string(got.Specialization))
	assert.Equal(t, "9000000001", got.Phone)

	require.NoError(t, svc.Delete(ctx, w.ID.String()))
	assert.ErrorIs(t, svc.Delete(ctx, w.ID.String()), domain.ErrNotFound)
}
