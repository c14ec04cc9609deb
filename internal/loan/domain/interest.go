package domain

import (
	"math"
	"time"

	"github.com/smallbiznis/karatledger/pkg/amount"
)

const daysPerYear = 365

// Interest is the interest accrued on principal at an annual rate
// percent between from and to. Compound interest compounds yearly.
func Interest(principal, rate float64, t InterestType, from, to time.Time) float64 {
	if principal <= 0 || rate <= 0 || !to.After(from) {
		return 0
	}
	years := to.Sub(from).Hours() / 24 / daysPerYear
	switch t {
	case InterestSimple:
		return amount.Round(principal * rate / 100 * years)
	case InterestCompound:
		return amount.Round(principal * (math.Pow(1+rate/100, years) - 1))
	}
	return 0
}
