package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCashStatusFor(t *testing.T) {
	assert.Equal(t, StatusActive, CashStatusFor(0, 1000))
	assert.Equal(t, StatusPartiallyPaid, CashStatusFor(400, 1000))
	assert.Equal(t, StatusClosed, CashStatusFor(1000, 1000))
	assert.Equal(t, StatusClosed, CashStatusFor(999.999, 1000))
}

func TestMetalStatusFor(t *testing.T) {
	assert.Equal(t, StatusPartiallyPaid, MetalStatusFor(0, 10))
	assert.Equal(t, StatusPartiallyPaid, MetalStatusFor(4.5, 10))
	assert.Equal(t, StatusClosed, MetalStatusFor(10, 10))
}

func TestAddPayment(t *testing.T) {
	l := Loan{TotalAmount: 1000}
	l.ApplyCash()
	require.Equal(t, StatusActive, l.Status)
	require.Equal(t, 1000.0, l.BalanceAmount)

	assert.ErrorIs(t, l.AddPayment(Payment{Amount: 0}), ErrInvalidAmount)
	assert.ErrorIs(t, l.AddPayment(Payment{Amount: 1500}), ErrAmountExceedsBalance)
	assert.Empty(t, l.Payments)

	require.NoError(t, l.AddPayment(Payment{Amount: 400}))
	assert.Equal(t, StatusPartiallyPaid, l.Status)
	assert.Equal(t, 600.0, l.BalanceAmount)
	assert.False(t, l.CashSettled)

	require.NoError(t, l.AddPayment(Payment{Amount: 600}))
	assert.Equal(t, StatusClosed, l.Status)
	assert.Equal(t, 0.0, l.BalanceAmount)
	assert.True(t, l.CashSettled)
	assert.False(t, l.MetalSettled)
	assert.Len(t, l.Payments, 2)
}

func TestReturnMetal(t *testing.T) {
	cash := Loan{TotalAmount: 500}
	assert.ErrorIs(t, cash.ReturnMetal(1), ErrNotMetalLoan)

	l := Loan{TotalAmount: 5000, MetalLoan: MetalLoan{IsMetalLoan: true, Weight: 10}}
	l.ApplyCash()
	assert.ErrorIs(t, l.ReturnMetal(0), ErrInvalidWeight)

	require.NoError(t, l.ReturnMetal(4))
	assert.Equal(t, StatusPartiallyPaid, l.Status)
	assert.False(t, l.MetalSettled)

	require.NoError(t, l.ReturnMetal(6))
	assert.Equal(t, StatusClosed, l.Status)
	assert.True(t, l.MetalSettled)
	assert.False(t, l.CashSettled)
	assert.Equal(t, 5000.0, l.BalanceAmount)
}

func TestInterest(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 365)

	assert.Equal(t, 1200.0, Interest(10000, 12, InterestSimple, from, to))
	assert.Equal(t, 1200.0, Interest(10000, 12, InterestCompound, from, to))
	assert.Equal(t, 2544.0, Interest(10000, 12, InterestCompound, from, from.AddDate(0, 0, 730)))
	assert.Equal(t, 0.0, Interest(10000, 12, InterestNone, from, to))
	assert.Equal(t, 0.0, Interest(10000, 12, InterestSimple, to, from))
}
