package config

import (
	"testing"
	"time"

	"github.com/smallbiznis/karatledger/pkg/dates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyTimezone(t *testing.T) {
	t.Cleanup(func() { dates.SetLocation(nil) })

	require.NoError(t, ApplyTimezone(Config{ShopTimezone: "Asia/Kolkata"}))
	assert.Equal(t, "Asia/Kolkata", dates.Location().String())
	_, offset := time.Date(2025, 4, 1, 0, 0, 0, 0, dates.Location()).Zone()
	assert.Equal(t, 5*3600+1800, offset)

	require.NoError(t, ApplyTimezone(Config{}))
	assert.Equal(t, time.UTC, dates.Location())

	assert.Error(t, ApplyTimezone(Config{ShopTimezone: "Mars/Olympus"}))
}
