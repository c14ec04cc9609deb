package metal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidPurity(t *testing.T) {
	cases := []struct {
		metal  Metal
		purity string
		want   bool
	}{
		{Gold, "22K", true},
		{Gold, "22k", true},
		{Gold, "925", false},
		{Silver, "925", true},
		{Platinum, "950", true},
		{Metal("copper"), "999", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ValidPurity(tc.metal, tc.purity), "%s %s", tc.metal, tc.purity)
	}
}

func TestParse(t *testing.T) {
	m, ok := Parse(" Gold ")
	assert.True(t, ok)
	assert.Equal(t, Gold, m)

	_, ok = Parse("bronze")
	assert.False(t, ok)
}
