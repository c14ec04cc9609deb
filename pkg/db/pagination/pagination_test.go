package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, Pagination{Page: 1, Limit: 20}, Pagination{}.Normalize())
	assert.Equal(t, Pagination{Page: 3, Limit: 100}, Pagination{Page: 3, Limit: 500}.Normalize())
	assert.Equal(t, 40, Pagination{Page: 3, Limit: 20}.Offset())
}

func TestBuildPageInfo(t *testing.T) {
	info := BuildPageInfo(Pagination{Page: 2, Limit: 10}, 25)
	assert.True(t, info.HasMore)
	assert.Equal(t, int64(25), info.Total)

	info = BuildPageInfo(Pagination{Page: 3, Limit: 10}, 25)
	assert.False(t, info.HasMore)
}
