package domain

import (
	"testing"

	itemdomain "github.com/smallbiznis/karatledger/internal/item/domain"
	"github.com/smallbiznis/karatledger/pkg/amount"
	"github.com/stretchr/testify/assert"
)

func TestLineItemMaking(t *testing.T) {
	li := LineItem{Quantity: 2, Rate: 6000, EstimatedWeight: itemdomain.Weight{Value: 10}}

	li.MakingCharges = MakingCharge{Value: 10, Type: itemdomain.MakingPercentage}
	assert.Equal(t, 12000.0, li.Making())
	li.MakingCharges = MakingCharge{Value: 500, Type: itemdomain.MakingPerGram}
	assert.Equal(t, 10000.0, li.Making())
	li.MakingCharges = MakingCharge{Value: 750, Type: itemdomain.MakingFixed}
	assert.Equal(t, 750.0, li.Making())
}

func TestRecompute(t *testing.T) {
	o := Order{
		GSTRate: 3,
		Items: []LineItem{{
			Quantity:        1,
			Rate:            6000,
			EstimatedWeight: itemdomain.Weight{Value: 10},
			MakingCharges:   MakingCharge{Value: 10, Type: itemdomain.MakingPercentage},
			StoneCharges:    500,
		}},
		Discount:    amount.Discount{Value: 500, Type: amount.DiscountFixed},
		AdvancePaid: 10000,
	}
	o.Recompute()

	assert.Equal(t, 66500.0, o.Items[0].Subtotal)
	assert.Equal(t, 1995.0, o.Items[0].GSTAmount)
	assert.Equal(t, 68495.0, o.Items[0].Total)
	assert.Equal(t, 66500.0, o.Subtotal)
	assert.Equal(t, 500.0, o.DiscountAmount)
	assert.Equal(t, 1980.0, o.GSTAmount)
	assert.Equal(t, 67980.0, o.TotalAmount)
	assert.Equal(t, 57980.0, o.BalanceAmount)
}

func TestValidStatusAndAssign(t *testing.T) {
	s, ok := ValidStatus(" Ready ")
	assert.True(t, ok)
	assert.Equal(t, StatusReady, s)
	_, ok = ValidStatus("shipped")
	assert.False(t, ok)

	o := Order{Status: StatusDelivered}
	o.Assign(42, "Ravi")
	assert.Equal(t, StatusInProgress, o.Status)
	assert.Equal(t, "Ravi", o.AssignedToName)
	if assert.NotNil(t, o.AssignedTo) {
		assert.EqualValues(t, 42, *o.AssignedTo)
	}
}
