package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestShopSettingsDefaultsWithoutFile(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	holder, err := NewShopSettingsHolder(zap.NewNop())
	require.NoError(t, err)

	got := holder.Get()
	assert.Equal(t, float64(3), got.DefaultGSTRate)
	assert.Equal(t, float64(5), got.GSTRates.MakingCharges)
	assert.Equal(t, float64(15), got.MakingCharges.Gold.Percentage)
	assert.True(t, got.SameState)
}

func TestShopSettingsFromFile(t *testing.T) {
	dir := t.TempDir()
	body := []byte("shop:\n  name: Sona Jewellers\n  defaultGstRate: 5\n  sameState: false\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shop.yml"), body, 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	holder, err := NewShopSettingsHolder(zap.NewNop())
	require.NoError(t, err)

	got := holder.Get()
	assert.Equal(t, "Sona Jewellers", got.Name)
	assert.Equal(t, float64(5), got.DefaultGSTRate)
	assert.False(t, got.SameState)
	assert.Equal(t, float64(3), got.GSTRates.Gold)
}

func TestNilHolderFallsBackToDefaults(t *testing.T) {
	var h *ShopSettingsHolder
	assert.Equal(t, DefaultShopSettings(), h.Get())
}
