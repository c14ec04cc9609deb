package service

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/karatledger/internal/clock"
	"github.com/smallbiznis/karatledger/internal/station/domain"
	"github.com/smallbiznis/karatledger/internal/station/repository"
	"github.com/smallbiznis/karatledger/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupService(t *testing.T) domain.Service {
	t.Helper()
	db := testutil.OpenDB(t, &domain.Station{})
	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: testutil.Node(t),
		Repo:  repository.Provide(),
		Clock: clock.NewFakeClock(time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)),
	})
}

func TestCreateStation(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	mb, err := svc.Create(ctx, domain.CreateRequest{
		Name:    "Main Branch",
		Code:    "mb",
		Address: domain.Address{City: "Mumbai", Pincode: "400001"},
		Email:   "MainBranch@LedgerSystem.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "MB", mb.Code)
	assert.Equal(t, "India", mb.Address.Country)
	assert.Equal(t, "mainbranch@ledgersystem.com", mb.Email)
	assert.True(t, mb.IsActive)

	derived, err := svc.Create(ctx, domain.CreateRequest{Name: "Zaveri Bazaar"})
	require.NoError(t, err)
	assert.Equal(t, "ZAVERI-BAZAAR", derived.Code)

	_, err = svc.Create(ctx, domain.CreateRequest{Name: "Main Branch", Code: "X"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = svc.Create(ctx, domain.CreateRequest{Name: "Y", Address: domain.Address{Pincode: "12"}})
	assert.ErrorIs(t, err, domain.ErrInvalidPincode)
}

func TestListSortedByName(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	inactive := false
	for _, req := range []domain.CreateRequest{
		{Name: "Thane"},
		{Name: "Andheri"},
		{Name: "Dadar", IsActive: &inactive},
	} {
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Andheri", "Dadar", "Thane"}, []string{all[0].Name, all[1].Name, all[2].Name})

	active, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestUpdateAndDeleteStation(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	st, err := svc.Create(ctx, domain.CreateRequest{Name: "Branch 2", Code: "B2"})
	require.NoError(t, err)

	phone := "0221234568"
	got, err := svc.Update(ctx, st.ID.String(), domain.UpdateRequest{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, phone, got.Phone)
	assert.Equal(t, "B2", got.Code)

	byName, err := svc.GetByName(ctx, "Branch 2")
	require.NoError(t, err)
	assert.Equal(t, st.ID, byName.ID)

	require.NoError(t, svc.Delete(ctx, st.ID.String()))
	_, err = svc.GetByID(ctx, st.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
