package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	got, dateOnly, err := Parse("2024-04-01")
	require.NoError(t, err)
	assert.True(t, dateOnly)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), got)

	got, dateOnly, err = Parse("2024-04-01T10:30:00+05:30")
	require.NoError(t, err)
	assert.False(t, dateOnly)
	assert.Equal(t, time.Date(2024, 4, 1, 5, 0, 0, 0, time.UTC), got)

	_, _, err = Parse("01/04/2024")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestParseOptional(t *testing.T) {
	def := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	got, err := ParseOptional(" ", def)
	require.NoError(t, err)
	assert.Equal(t, def, got)

	ptr, err := ParseOptionalPtr("")
	require.NoError(t, err)
	assert.Nil(t, ptr)
}

func TestStartOfDay(t *testing.T) {
	assert.Equal(t,
		time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		StartOfDay(time.Date(2024, 4, 1, 23, 59, 0, 0, time.UTC)),
	)
}

func useLocation(t *testing.T, loc *time.Location) {
	t.Helper()
	SetLocation(loc)
	t.Cleanup(func() { SetLocation(nil) })
}

func TestShopLocation(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	useLocation(t, ist)
	assert.Equal(t, ist, Location())

	got, dateOnly, err := Parse("2025-04-01")
	require.NoError(t, err)
	assert.True(t, dateOnly)
	assert.Equal(t, time.Date(2025, 3, 31, 18, 30, 0, 0, time.UTC), got)

	early := time.Date(2025, 4, 1, 1, 0, 0, 0, ist)
	assert.Equal(t, got, StartOfDay(early))
	assert.Equal(t, got, StartOfDay(early.UTC()))
	assert.Equal(t, time.UTC, StartOfDay(early).Location())
}

func TestLocationDefaultsToUTC(t *testing.T) {
	SetLocation(nil)
	assert.Equal(t, time.UTC, Location())
}
