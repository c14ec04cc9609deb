package paymethod

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	m, err := Parse(" UPI ")
	assert.NoError(t, err)
	assert.Equal(t, UPI, m)

	_, err = Parse("credit")
	assert.ErrorIs(t, err, ErrInvalidMethod)

	m, err = ParseLedger("credit")
	assert.NoError(t, err)
	assert.Equal(t, Credit, m)
}

func TestMerge(t *testing.T) {
	assert.Equal(t, Cash, Merge("", Cash))
	assert.Equal(t, Cash, Merge(Cash, Cash))
	assert.Equal(t, Mixed, Merge(Cash, UPI))
	assert.Equal(t, Mixed, Merge(Mixed, Cash))
}
