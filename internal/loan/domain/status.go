package domain

import "github.com/smallbiznis/karatledger/pkg/amount"

type Status string

const (
	StatusActive        Status = "active"
	StatusPartiallyPaid Status = "partially_paid"
	StatusClosed        Status = "closed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusPartiallyPaid, StatusClosed:
		return true
	}
	return false
}

// Open reports whether the loan still expects repayment.
func (s Status) Open() bool {
	return s == StatusActive || s == StatusPartiallyPaid
}

// CashStatusFor derives the status from money repaid against the total.
func CashStatusFor(paid, total float64) Status {
	switch {
	case amount.Round(paid) == 0:
		return StatusActive
	case amount.AtLeast(paid, total):
		return StatusClosed
	default:
		return StatusPartiallyPaid
	}
}

// MetalStatusFor derives the status from metal returned against the weight
// lent. Nothing returned still counts as partially paid.
func MetalStatusFor(returned, weight float64) Status {
	if amount.RoundWeight(returned) >= amount.RoundWeight(weight) {
		return StatusClosed
	}
	return StatusPartiallyPaid
}

// Settle recomputes the balance and both settlement flags. It does not
// touch Status.
func (l *Loan) Settle() {
	l.BalanceAmount = amount.Round(l.TotalAmount - l.PaidAmount)
	l.CashSettled = amount.AtLeast(l.PaidAmount, l.TotalAmount)
	l.MetalSettled = l.MetalLoan.IsMetalLoan &&
		amount.RoundWeight(l.MetalLoan.ReturnedWeight) >= amount.RoundWeight(l.MetalLoan.Weight)
}

// ApplyCash settles l and sets the status by the cash rule. Every save
// except a metal return goes through here.
func (l *Loan) ApplyCash() {
	l.Settle()
	l.Status = CashStatusFor(l.PaidAmount, l.TotalAmount)
}

// ApplyMetal settles l and sets the status by the metal rule.
func (l *Loan) ApplyMetal() {
	l.Settle()
	l.Status = MetalStatusFor(l.MetalLoan.ReturnedWeight, l.MetalLoan.Weight)
}

// AddPayment appends p and applies the cash rule. An amount above the
// outstanding balance leaves l untouched.
func (l *Loan) AddPayment(p Payment) error {
	if p.Amount <= 0 {
		return ErrInvalidAmount
	}
	if amount.Exceeds(p.Amount, l.BalanceAmount) {
		return ErrAmountExceedsBalance
	}
	p.Amount = amount.Round(p.Amount)
	l.Payments = append(l.Payments, p)
	l.PaidAmount = amount.Round(l.PaidAmount + p.Amount)
	l.ApplyCash()
	return nil
}

// ReturnMetal adds weight to the returned counter and applies the metal
// rule.
func (l *Loan) ReturnMetal(weight float64) error {
	if !l.MetalLoan.IsMetalLoan {
		return ErrNotMetalLoan
	}
	if weight <= 0 {
		return ErrInvalidWeight
	}
	l.MetalLoan.ReturnedWeight = amount.RoundWeight(l.MetalLoan.ReturnedWeight + weight)
	l.ApplyMetal()
	return nil
}
