package service

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/karatledger/internal/clock"
	"github.com/smallbiznis/karatledger/internal/item/domain"
	"github.com/smallbiznis/karatledger/internal/item/repository"
	"github.com/smallbiznis/karatledger/internal/metal"
	"github.com/smallbiznis/karatledger/internal/sequence"
	"github.com/smallbiznis/karatledger/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupService(t *testing.T) domain.Service {
	t.Helper()
	db := testutil.OpenDB(t, &sequence.Counter{}, &domain.Item{})
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

func ring(name, huid string, stock, min int64) domain.CreateRequest {
	return domain.CreateRequest{
		Name:          name,
		Category:      "ring",
		Metal:         "Gold",
		Purity:        "22k",
		Weight:        domain.Weight{Value: 4.2567},
		HUID:          huid,
		StockQuantity: stock,
		MinimumStock:  min,
		Tags:          []string{"bridal", " "},
	}
}

func TestCreateItem(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	item, err := svc.Create(ctx, ring("Solitaire", "ab12cd", 3, 1))
	require.NoError(t, err)
	assert.Equal(t, "ITM-1001", item.ItemCode)
	assert.Equal(t, metal.Gold, item.Metal)
	assert.Equal(t, "22K", item.Purity)
	assert.Equal(t, 4.257, item.Weight.Value)
	assert.Equal(t, "gm", item.Weight.Unit)
	assert.Equal(t, domain.MakingPercentage, item.MakingChargesType)
	require.NotNil(t, item.HUID)
	assert.Equal(t, "AB12CD", *item.HUID)
	assert.Equal(t, []string{"bridal"}, []string(item.Tags))

	_, err = svc.Create(ctx, ring("Copy", "AB12CD", 1, 0))
	assert.ErrorIs(t, err, domain.ErrDuplicateItem)

	// items without a HUID never collide
	_, err = svc.Create(ctx, ring("Plain A", "", 1, 0))
	require.NoError(t, err)
	_, err = svc.Create(ctx, ring("Plain B", "", 1, 0))
	require.NoError(t, err)
}

func TestCreateItemValidation(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	bad := ring("X", "", 0, 0)
	bad.Purity = "925"
	_, err := svc.Create(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidPurity)

	bad = ring("X", "", 0, 0)
	bad.Metal = "copper"
	_, err = svc.Create(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidMetal)

	bad = ring("X", "", 0, 0)
	bad.Category = "crown"
	_, err = svc.Create(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)

	bad = ring("X", "", 0, 0)
	bad.Weight = domain.Weight{Value: 1, Unit: "tola"}
	_, err = svc.Create(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidWeight)
}

func TestUpdateStock(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	item, err := svc.Create(ctx, ring("Band", "", 5, 2))
	require.NoError(t, err)
	id := item.ID.String()

	got, err := svc.UpdateStock(ctx, id, domain.StockRequest{Operation: "subtract", Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.StockQuantity)

	_, err = svc.UpdateStock(ctx, id, domain.StockRequest{Operation: "subtract", Quantity: 2})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err = svc.UpdateStock(ctx, id, domain.StockRequest{Operation: "add", Quantity: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(11), got.StockQuantity)

	got, err = svc.UpdateStock(ctx, id, domain.StockRequest{Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.StockQuantity)

	low, err := svc.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, item.ID, low[0].ID)
}

func TestSearchItems(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, ring("Solitaire", "HU1234", 1, 0))
	require.NoError(t, err)
	other := ring("Chain", "", 1, 0)
	other.Category = "chain"
	other.Tags = []string{"daily wear"}
	_, err = svc.Create(ctx, other)
	require.NoError(t, err)

	found, err := svc.Search(ctx, "hu12")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Solitaire", found[0].Name)

	found, err = svc.Search(ctx, "DAILY")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Chain", found[0].Name)

	_, err = svc.Search(ctx, "")
	assert.ErrorIs(t, err, domain.ErrEmptyQuery)
}

func TestUpdateItemPurityFollowsMetal(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	item, err := svc.Create(ctx, ring("Band", "", 1, 0))
	require.NoError(t, err)

	silver := "silver"
	_, err = svc.Update(ctx, item.ID.String(), domain.UpdateRequest{Metal: &silver})
	assert.ErrorIs(t, err, domain.ErrInvalidPurity)

	purity := "925"
	got, err := svc.Update(ctx, item.ID.String(), domain.UpdateRequest{Metal: &silver, Purity: &purity})
	require.NoError(t, err)
	assert.Equal(t, metal.Silver, got.Metal)
	assert.Equal(t, "925", got.Purity)
}
