// Package balance applies credit and debit movements to a party's running
// cash and metal balances.
package balance

import (
	"errors"
	"strings"

	"github.com/smallbiznis/karatledger/internal/metal"
	"github.com/smallbiznis/karatledger/pkg/amount"
)

var (
	ErrInvalidDirection = errors.New("invalid_direction")
	ErrUnsupportedMetal = errors.New("unsupported_metal")
	ErrNegativeAmount   = errors.New("negative_amount")
	ErrEmptyUpdate      = errors.New("empty_balance_update")
)

type Direction string

const (
	Credit Direction = "credit"
	Debit  Direction = "debit"
)

func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case Credit, Debit:
		return d, nil
	default:
		return "", ErrInvalidDirection
	}
}

func (d Direction) sign() (float64, error) {
	switch d {
	case Credit:
		return 1, nil
	case Debit:
		return -1, nil
	default:
		return 0, ErrInvalidDirection
	}
}

// MetalWeight is a metal balance. Unit is informational; no conversion is
// ever performed.
type MetalWeight struct {
	Weight float64 `json:"weight"`
	Unit   string  `json:"unit" gorm:"type:varchar(8);default:gm"`
}

type Balances struct {
	Cash   float64 `json:"cash"`
	Gold   float64 `json:"gold"`
	Silver float64 `json:"silver"`
}

type CashDelta struct {
	Amount    float64
	Direction Direction
}

type MetalDelta struct {
	Metal     metal.Metal
	Weight    float64
	Direction Direction
}

// Apply returns b moved by the given deltas. Balances may go negative. A
// nil delta, or one with a zero amount or weight, leaves that balance
// untouched.
func Apply(b Balances, cash *CashDelta, m *MetalDelta) (Balances, error) {
	if cash != nil && cash.Amount != 0 {
		if cash.Amount < 0 {
			return b, ErrNegativeAmount
		}
		sign, err := cash.Direction.sign()
		if err != nil {
			return b, err
		}
		b.Cash = amount.Round(b.Cash + sign*cash.Amount)
	}

	if m != nil && m.Weight != 0 {
		if m.Weight < 0 {
			return b, ErrNegativeAmount
		}
		sign, err := m.Direction.sign()
		if err != nil {
			return b, err
		}
		delta := sign * m.Weight
		switch m.Metal {
		case metal.Gold:
			b.Gold = amount.RoundWeight(b.Gold + delta)
		case metal.Silver:
			b.Silver = amount.RoundWeight(b.Silver + delta)
		default:
			return b, ErrUnsupportedMetal
		}
	}

	return b, nil
}

// UpdateRequest is the body of a manual balance adjustment. Type applies
// to both the cash and the metal movement.
type UpdateRequest struct {
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	MetalType   string  `json:"metal_type"`
	MetalWeight float64 `json:"metal_weight"`
}

// Deltas validates r and splits it into cash and metal movements; either
// may be nil.
func (r UpdateRequest) Deltas() (*CashDelta, *MetalDelta, error) {
	hasMetal := strings.TrimSpace(r.MetalType) != "" && r.MetalWeight != 0
	if r.Amount == 0 && !hasMetal {
		return nil, nil, ErrEmptyUpdate
	}
	dir, err := ParseDirection(r.Type)
	if err != nil {
		return nil, nil, err
	}

	var cash *CashDelta
	if r.Amount != 0 {
		cash = &CashDelta{Amount: r.Amount, Direction: dir}
	}
	var m *MetalDelta
	if hasMetal {
		mt, ok := metal.Parse(r.MetalType)
		if !ok {
			return nil, nil, ErrUnsupportedMetal
		}
		m = &MetalDelta{Metal: mt, Weight: r.MetalWeight, Direction: dir}
	}
	return cash, m, nil
}
