package config

import (
	"fmt"
	"time"

	"github.com/smallbiznis/karatledger/pkg/dates"
	"go.uber.org/fx"
)

var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(NewShopSettingsHolder),
	fx.Invoke(ApplyTimezone),
)

// ApplyTimezone makes SHOP_TIMEZONE the calendar for day books, date
// filters and financial years.
func ApplyTimezone(cfg Config) error {
	name := cfg.ShopTimezone
	if name == "" {
		name = "UTC"
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fmt.Errorf("SHOP_TIMEZONE %q: %w", name, err)
	}
	dates.SetLocation(loc)
	return nil
}
