package balance

import (
	"testing"

	"github.com/smallbiznis/karatledger/internal/metal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	start := Balances{Cash: 100, Gold: 2.5, Silver: 10}

	cases := []struct {
		name  string
		cash  *CashDelta
		metal *MetalDelta
		want  Balances
		err   error
	}{
		{
			name: "cash credit",
			cash: &CashDelta{Amount: 50, Direction: Credit},
			want: Balances{Cash: 150, Gold: 2.5, Silver: 10},
		},
		{
			name: "cash debit may go negative",
			cash: &CashDelta{Amount: 250.75, Direction: Debit},
			want: Balances{Cash: -150.75, Gold: 2.5, Silver: 10},
		},
		{
			name:  "gold debit",
			metal: &MetalDelta{Metal: metal.Gold, Weight: 1.25, Direction: Debit},
			want:  Balances{Cash: 100, Gold: 1.25, Silver: 10},
		},
		{
			name:  "silver credit with cash",
			cash:  &CashDelta{Amount: 10, Direction: Debit},
			metal: &MetalDelta{Metal: metal.Silver, Weight: 5, Direction: Credit},
			want:  Balances{Cash: 90, Gold: 2.5, Silver: 15},
		},
		{
			name:  "zero amounts are no-ops",
			cash:  &CashDelta{Amount: 0, Direction: "bogus"},
			metal: &MetalDelta{Metal: metal.Platinum, Weight: 0, Direction: Credit},
			want:  start,
		},
		{
			name:  "platinum is rejected",
			metal: &MetalDelta{Metal: metal.Platinum, Weight: 1, Direction: Credit},
			want:  start,
			err:   ErrUnsupportedMetal,
		},
		{
			name: "bad direction",
			cash: &CashDelta{Amount: 1, Direction: "sideways"},
			want: start,
			err:  ErrInvalidDirection,
		},
		{
			name: "negative amount",
			cash: &CashDelta{Amount: -1, Direction: Credit},
			want: start,
			err:  ErrNegativeAmount,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Apply(start, tc.cash, tc.metal)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection(" CREDIT ")
	require.NoError(t, err)
	assert.Equal(t, Credit, d)

	_, err = ParseDirection("up")
	assert.ErrorIs(t, err, ErrInvalidDirection)
}

func TestUpdateRequestDeltas(t *testing.T) {
	cash, m, err := UpdateRequest{Amount: 10, Type: "credit", MetalType: "Gold", MetalWeight: 2}.Deltas()
	require.NoError(t, err)
	assert.Equal(t, &CashDelta{Amount: 10, Direction: Credit}, cash)
	assert.Equal(t, &MetalDelta{Metal: metal.Gold, Weight: 2, Direction: Credit}, m)

	cash, m, err = UpdateRequest{MetalType: "silver", MetalWeight: 1, Type: "debit"}.Deltas()
	require.NoError(t, err)
	assert.Nil(t, cash)
	assert.Equal(t, metal.Silver, m.Metal)

	_, _, err = UpdateRequest{Type: "credit", MetalType: "gold"}.Deltas()
	assert.ErrorIs(t, err, ErrEmptyUpdate)

	_, _, err = UpdateRequest{Amount: 5}.Deltas()
	assert.ErrorIs(t, err, ErrInvalidDirection)

	_, _, err = UpdateRequest{Type: "credit", MetalType: "copper", MetalWeight: 1}.Deltas()
	assert.ErrorIs(t, err, ErrUnsupportedMetal)
}
