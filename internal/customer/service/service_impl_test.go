package service

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/karatledger/internal/balance"
	"github.com/smallbiznis/karatledger/internal/clock"
	"github.com/smallbiznis/karatledger/internal/customer/domain"
	"github.com/smallbiznis/karatledger/internal/customer/repository"
	obscontext "github.com/smallbiznis/karatledger/internal/observability/context"
	"github.com/smallbiznis/karatledger/internal/sequence"
	"github.com/smallbiznis/karatledger/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupService(t *testing.T) domain.Service {
	t.Helper()
	db := testutil.OpenDB(t, &sequence.Counter{}, &domain.Customer{})
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

func ptr[T any](v T) *T { return &v }

func TestCreateAssignsNumberAndDefaults(t *testing.T) {
	svc := setupService(t)
	ctx := obscontext.WithActor(context.Background(), obscontext.Actor{UserID: "u-1", Role: "staff"})

	first, err := svc.Create(ctx, domain.CreateRequest{
		Name:           " Ramesh Kumar ",
		Phone:          "9876543210",
		Email:          "Ramesh@Example.com",
		PANNo:          "abcde1234f",
		OpeningBalance: 1500,
	})
	require.NoError(t, err)
	assert.Equal(t, "CUST-1001", first.CustomerNumber)
	assert.Equal(t, "Ramesh Kumar", first.Name)
	assert.Equal(t, "S/O", first.Relation)
	assert.Equal(t, "ramesh@example.com", first.Email)
	assert.Equal(t, "ABCDE1234F", first.PANNo)
	assert.Equal(t, 1500.0, first.CurrentBalance)
	assert.Equal(t, "gm", first.GoldBalance.Unit)
	assert.True(t, first.IsActive)
	assert.Equal(t, "u-1", first.CreatedBy)

	second, err := svc.Create(ctx, domain.CreateRequest{Name: "Sita", Phone: "9876500000", IsActive: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, "CUST-1002", second.CustomerNumber)
	assert.False(t, second.IsActive)
}

func TestCreateKeepsSuppliedNumber(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	c, err := svc.Create(ctx, domain.CreateRequest{CustomerNumber: "cust-7", Name: "A", Phone: "9876543210"})
	require.NoError(t, err)
	assert.Equal(t, "CUST-7", c.CustomerNumber)

	next, err := svc.Create(ctx, domain.CreateRequest{Name: "B", Phone: "9876543211"})
	require.NoError(t, err)
	assert.Equal(t, "CUST-1001", next.CustomerNumber)

	_, err = svc.Create(ctx, domain.CreateRequest{CustomerNumber: "CUST-7", Name: "C", Phone: "9876543212"})
	assert.ErrorIs(t, err, domain.ErrDuplicateNumber)
}

func TestCreateValidation(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  domain.CreateRequest
		want error
	}{
		{"missing name", domain.CreateRequest{Phone: "9876543210"}, domain.ErrInvalidName},
		{"missing phone", domain.CreateRequest{Name: "A"}, domain.ErrInvalidPhone},
		{"short mobile", domain.CreateRequest{Name: "A", Phone: "9876543210", Mobile: "123"}, domain.ErrInvalidMobile},
		{"bad email", domain.CreateRequest{Name: "A", Phone: "9876543210", Email: "nope"}, domain.ErrInvalidEmail},
		{"bad aadhar", domain.CreateRequest{Name: "A", Phone: "9876543210", AadharNo: "1234"}, domain.ErrInvalidAadhar},
		{"bad pan", domain.CreateRequest{Name: "A", Phone: "9876543210", PANNo: "12345ABCDE"}, domain.ErrInvalidPAN},
		{"bad relation", domain.CreateRequest{Name: "A", Phone: "9876543210", Relation: "X/O"}, domain.ErrInvalidRelation},
		{"bad opening date", domain.CreateRequest{Name: "A", Phone: "9876543210", OpeningDate: "yesterday"}, domain.ErrInvalidOpeningDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestUpdateIsPartial(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	c, err := svc.Create(ctx, domain.CreateRequest{Name: "A", Phone: "9876543210", Station: "Main Branch"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, c.ID.String(), domain.UpdateRequest{
		Mobile:         ptr("9123456789"),
		MaxCreditLimit: ptr(25000.0),
	})
	require.NoError(t, err)
	assert.Equal(t, "A", updated.Name)
	assert.Equal(t, "Main Branch", updated.Station)
	assert.Equal(t, "9123456789", updated.Mobile)
	assert.Equal(t, 25000.0, updated.MaxCreditLimit)

	_, err = svc.Update(ctx, c.ID.String(), domain.UpdateRequest{Phone: ptr("12")})
	assert.ErrorIs(t, err, domain.ErrInvalidPhone)

	got, err := svc.GetByID(ctx, c.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "9876543210", got.Phone)
}

func TestGetAndDeleteMissing(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.GetByID(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
	_, err = svc.GetByID(ctx, "12345")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "12345"), domain.ErrNotFound)

	c, err := svc.Create(ctx, domain.CreateRequest{Name: "A", Phone: "9876543210"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, c.ID.String()))
	_, err = svc.GetByID(ctx, c.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateBalance(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	c, err := svc.Create(ctx, domain.CreateRequest{Name: "A", Phone: "9876543210", OpeningBalance: 100})
	require.NoError(t, err)

	got, err := svc.UpdateBalance(ctx, c.ID.String(), balance.UpdateRequest{Amount: 250, Type: "debit"})
	require.NoError(t, err)
	assert.Equal(t, -150.0, got.CurrentBalance)

	got, err = svc.UpdateBalance(ctx, c.ID.String(), balance.UpdateRequest{
		Type:        "credit",
		MetalType:   "gold",
		MetalWeight: 12.5,
	})
	require.NoError(t, err)
	assert.Equal(t, -150.0, got.CurrentBalance)
	assert.Equal(t, 12.5, got.GoldBalance.Weight)

	summary, err := svc.GetBalance(ctx, c.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "CUST-1001", summary.CustomerNumber)
	assert.Equal(t, -150.0, summary.CurrentBalance)
	assert.Equal(t, 12.5, summary.GoldBalance.Weight)

	_, err = svc.UpdateBalance(ctx, c.ID.String(), balance.UpdateRequest{Type: "debit", MetalType: "platinum", MetalWeight: 1})
	assert.ErrorIs(t, err, balance.ErrUnsupportedMetal)
	_, err = svc.UpdateBalance(ctx, c.ID.String(), balance.UpdateRequest{Type: "credit"})
	assert.ErrorIs(t, err, balance.ErrEmptyUpdate)
}

func TestListAndSearch(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	for _, name := range []string{"Anil Mehta", "Sunita Rao", "Anand Joshi"} {
		_, err := svc.Create(ctx, domain.CreateRequest{Name: name, Phone: "9876543210", Station: "MB"})
		require.NoError(t, err)
	}

	found, err := svc.Search(ctx, "AN")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = svc.Search(ctx, "cust-1002")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Sunita Rao", found[0].Name)

	_, err = svc.Search(ctx, "  ")
	assert.ErrorIs(t, err, domain.ErrEmptyQuery)

	resp, err := svc.List(ctx, domain.ListRequest{Name: "an"})
	require.NoError(t, err)
	assert.Len(t, resp.Customers, 2)
	assert.Equal(t, int64(2), resp.PageInfo.Total)
}
