// Package sequence issues human-readable document numbers such as
// CUST-1001 or INV-10001 from persisted per-kind counters.
package sequence

import (
	"fmt"
	"strings"
)

// Kind describes one numbering series. Several kinds may share a counter,
// so sale and purchase bills draw from the same sequence.
type Kind struct {
	Name    string
	Prefix  string
	Counter string
	Offset  int64
	Width   int
}

var (
	Customer  = Kind{Name: "customer", Prefix: "CUST", Counter: "customer", Offset: 1000, Width: 4}
	JobWorker = Kind{Name: "jobworker", Prefix: "JW", Counter: "jobworker", Offset: 1000, Width: 4}
	Agent     = Kind{Name: "agent", Prefix: "AGT", Counter: "agent", Offset: 1000, Width: 4}
	Item      = Kind{Name: "item", Prefix: "ITM", Counter: "item", Offset: 1000, Width: 4}
	Order     = Kind{Name: "order", Prefix: "ORD", Counter: "order", Offset: 10000, Width: 5}

	SaleBill     = Kind{Name: "invoice", Prefix: "INV", Counter: "bill", Offset: 10000, Width: 5}
	PurchaseBill = Kind{Name: "purchase", Prefix: "PUR", Counter: "bill", Offset: 10000, Width: 5}
	EstimateBill = Kind{Name: "estimate", Prefix: "EST", Counter: "bill", Offset: 10000, Width: 5}

	LoanGiven    = Kind{Name: "loan-given", Prefix: "LG", Counter: "loan", Offset: 1000, Width: 4}
	LoanReceived = Kind{Name: "loan-received", Prefix: "LR", Counter: "loan", Offset: 1000, Width: 4}

	PaymentReceived = Kind{Name: "payment-received", Prefix: "PR", Counter: "payment", Offset: 10000, Width: 5}
	PaymentMade     = Kind{Name: "payment-made", Prefix: "PM", Counter: "payment", Offset: 10000, Width: 5}

	Transaction = Kind{Name: "transaction", Prefix: "TXN", Counter: "transaction", Offset: 100000, Width: 6}
)

var kinds = []Kind{
	Customer, JobWorker, Agent, Item, Order,
	SaleBill, PurchaseBill, EstimateBill,
	LoanGiven, LoanReceived,
	PaymentReceived, PaymentMade,
	Transaction,
}

// Lookup finds a kind by its Name.
func Lookup(name string) (Kind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, k := range kinds {
		if k.Name == name {
			return k, true
		}
	}
	return Kind{}, false
}

// ForBill picks the series for a bill type. Estimates and returns share
// the EST prefix.
func ForBill(billType string) Kind {
	switch billType {
	case "sale":
		return SaleBill
	case "purchase":
		return PurchaseBill
	default:
		return EstimateBill
	}
}

func ForLoan(loanType string) Kind {
	if loanType == "received" {
		return LoanReceived
	}
	return LoanGiven
}

func ForPayment(paymentType string) Kind {
	if paymentType == "made" {
		return PaymentMade
	}
	return PaymentReceived
}

// Format renders the n-th number of the series, n starting at 1.
func (k Kind) Format(n int64) string {
	return fmt.Sprintf("%s-%0*d", k.Prefix, k.Width, k.Offset+n)
}

// Normalize canonicalizes a caller-supplied number.
func Normalize(number string) string {
	return strings.ToUpper(strings.TrimSpace(number))
}
