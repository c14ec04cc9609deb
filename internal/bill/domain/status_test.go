package domain

import (
	"testing"

	"github.com/smallbiznis/karatledger/internal/paymethod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentStatusFor(t *testing.T) {
	assert.Equal(t, PaymentUnpaid, PaymentStatusFor(0, 100))
	assert.Equal(t, PaymentPartial, PaymentStatusFor(40, 100))
	assert.Equal(t, PaymentPaid, PaymentStatusFor(100, 100))
	assert.Equal(t, PaymentPaid, PaymentStatusFor(100.001, 100))
}

func TestAddPayment(t *testing.T) {
	b := Bill{Status: StatusFinalized, TotalAmount: 1000}
	b.Recompute()

	require.NoError(t, b.AddPayment(400, paymethod.Cash))
	assert.Equal(t, 600.0, b.BalanceAmount)
	assert.Equal(t, PaymentPartial, b.PaymentStatus)
	assert.Equal(t, paymethod.Cash, b.PaymentMethod)

	assert.ErrorIs(t, b.AddPayment(601, paymethod.Cash), ErrAmountExceedsBalance)
	assert.ErrorIs(t, b.AddPayment(0, paymethod.Cash), ErrInvalidAmount)
	assert.Equal(t, 400.0, b.PaidAmount)

	require.NoError(t, b.AddPayment(600, paymethod.UPI))
	assert.Zero(t, b.BalanceAmount)
	assert.Equal(t, PaymentPaid, b.PaymentStatus)
	assert.Equal(t, paymethod.Mixed, b.PaymentMethod)

	b.Status = StatusCancelled
	assert.ErrorIs(t, b.AddPayment(1, paymethod.Cash), ErrBillCancelled)
}

func TestLifecycle(t *testing.T) {
	b := Bill{Status: StatusDraft}
	require.NoError(t, b.EnsureMutable())
	require.NoError(t, b.Finalize())
	assert.ErrorIs(t, b.Finalize(), ErrAlreadyFinalized)
	assert.ErrorIs(t, b.EnsureMutable(), ErrFinalizedImmutable)
	assert.ErrorIs(t, b.Cancel(), ErrFinalizedImmutable)

	c := Bill{Status: StatusDraft}
	require.NoError(t, c.Cancel())
	assert.ErrorIs(t, c.Cancel(), ErrBillCancelled)
	assert.ErrorIs(t, c.Finalize(), ErrBillCancelled)
	assert.ErrorIs(t, c.EnsureMutable(), ErrBillCancelled)
}
