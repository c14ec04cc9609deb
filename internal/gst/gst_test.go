package gst

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompute(t *testing.T) {
	cases := []struct {
		name      string
		amount    float64
		rate      float64
		sameState bool
		want      Breakdown
	}{
		{"intra state", 1000, 18, true, Breakdown{CGST: 90, SGST: 90, TotalGST: 180, TotalAmount: 1180}},
		{"inter state", 1000, 18, false, Breakdown{IGST: 180, TotalGST: 180, TotalAmount: 1180}},
		{"jewellery slab", 50000, 3, true, Breakdown{CGST: 750, SGST: 750, TotalGST: 1500, TotalAmount: 51500}},
		{"zero rate", 999, 0, true, Breakdown{TotalAmount: 999}},
		{"odd paisa split", 0.33, 3, true, Breakdown{CGST: 0.01, SGST: 0, TotalGST: 0.01, TotalAmount: 0.34}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Compute(tc.amount, tc.rate, tc.sameState))
		})
	}
}

func TestValidRate(t *testing.T) {
	assert.True(t, ValidRate(3))
	assert.True(t, ValidRate(28))
	assert.False(t, ValidRate(7))
}
