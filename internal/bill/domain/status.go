package domain

import (
	"github.com/smallbiznis/karatledger/internal/paymethod"
	"github.com/smallbiznis/karatledger/pkg/amount"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusFinalized Status = "finalized"
	StatusCancelled Status = "cancelled"
)

type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

// PaymentStatusFor keys the payment status on paid against total.
func PaymentStatusFor(paid, total float64) PaymentStatus {
	switch {
	case amount.Round(paid) == 0:
		return PaymentUnpaid
	case amount.AtLeast(paid, total):
		return PaymentPaid
	default:
		return PaymentPartial
	}
}

// Recompute derives the balance and payment status from paid and total.
// Every save calls it exactly once.
func (b *Bill) Recompute() {
	b.BalanceAmount = amount.Round(b.TotalAmount - b.PaidAmount)
	b.PaymentStatus = PaymentStatusFor(b.PaidAmount, b.TotalAmount)
}

// EnsureMutable rejects edits to finalized and cancelled bills.
func (b *Bill) EnsureMutable() error {
	switch b.Status {
	case StatusFinalized:
		return ErrFinalizedImmutable
	case StatusCancelled:
		return ErrBillCancelled
	}
	return nil
}

func (b *Bill) Finalize() error {
	switch b.Status {
	case StatusFinalized:
		return ErrAlreadyFinalized
	case StatusCancelled:
		return ErrBillCancelled
	}
	b.Status = StatusFinalized
	return nil
}

func (b *Bill) Cancel() error {
	switch b.Status {
	case StatusFinalized:
		return ErrFinalizedImmutable
	case StatusCancelled:
		return ErrBillCancelled
	}
	b.Status = StatusCancelled
	return nil
}

// AddPayment applies a payment of amt by method. It leaves b untouched on
// error.
func (b *Bill) AddPayment(amt float64, method paymethod.Method) error {
	if b.Status == StatusCancelled {
		return ErrBillCancelled
	}
	if amt <= 0 {
		return ErrInvalidAmount
	}
	if amount.Exceeds(amt, b.BalanceAmount) {
		return ErrAmountExceedsBalance
	}
	b.PaidAmount = amount.Round(b.PaidAmount + amt)
	b.PaymentMethod = paymethod.Merge(b.PaymentMethod, method)
	b.Recompute()
	return nil
}
