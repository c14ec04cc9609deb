// Package paymethod enumerates how money changes hands.
package paymethod

import (
	"errors"
	"strings"
)

var ErrInvalidMethod = errors.New("invalid_payment_method")

type Method string

const (
	Cash         Method = "cash"
	Card         Method = "card"
	UPI          Method = "upi"
	BankTransfer Method = "bank_transfer"
	Cheque       Method = "cheque"

	// Credit marks a ledger row settled on account rather than in money.
	Credit Method = "credit"
	// Mixed marks a bill paid through more than one method.
	Mixed Method = "mixed"
)

// Parse accepts the five tender methods a payment can be made with.
func Parse(s string) (Method, error) {
	switch m := Method(strings.ToLower(strings.TrimSpace(s))); m {
	case Cash, Card, UPI, BankTransfer, Cheque:
		return m, nil
	default:
		return "", ErrInvalidMethod
	}
}

// ParseLedger additionally accepts credit, and blank for no method.
func ParseLedger(s string) (Method, error) {
	m := Method(strings.ToLower(strings.TrimSpace(s)))
	if m == "" || m == Credit {
		return m, nil
	}
	return Parse(s)
}

// Merge returns the bill-level method after a payment with next: the
// first method wins and any different later method makes it mixed.
func Merge(current, next Method) Method {
	switch {
	case current == "":
		return next
	case current == next:
		return current
	default:
		return Mixed
	}
}
