package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// ShopSettings are the business defaults that staff may tune without a
// redeploy.
type ShopSettings struct {
	Name    string `mapstructure:"name"`
	Address string `mapstructure:"address"`
	Phone   string `mapstructure:"phone"`
	GSTIN   string `mapstructure:"gstin"`

	DefaultGSTRate float64              `mapstructure:"defaultGstRate"`
	SameState      bool                 `mapstructure:"sameState"`
	GSTRates       GSTRates             `mapstructure:"gstRates"`
	MakingCharges  MakingChargeDefaults `mapstructure:"makingCharges"`
}

type GSTRates struct {
	Gold          float64 `mapstructure:"gold" json:"gold"`
	Silver        float64 `mapstructure:"silver" json:"silver"`
	Platinum      float64 `mapstructure:"platinum" json:"platinum"`
	MakingCharges float64 `mapstructure:"makingCharges" json:"making_charges"`
}

type MakingCharge struct {
	Percentage float64 `mapstructure:"percentage" json:"percentage"`
	PerGram    float64 `mapstructure:"perGram" json:"per_gram"`
}

type MakingChargeDefaults struct {
	Gold     MakingCharge `mapstructure:"gold" json:"gold"`
	Silver   MakingCharge `mapstructure:"silver" json:"silver"`
	Platinum MakingCharge `mapstructure:"platinum" json:"platinum"`
}

func DefaultShopSettings() ShopSettings {
	return ShopSettings{
		Name:           "Jewellery Ledger",
		DefaultGSTRate: 3,
		SameState:      true,
		GSTRates: GSTRates{
			Gold:          3,
			Silver:        3,
			Platinum:      3,
			MakingCharges: 5,
		},
		MakingCharges: MakingChargeDefaults{
			Gold:     MakingCharge{Percentage: 15},
			Silver:   MakingCharge{Percentage: 10},
			Platinum: MakingCharge{Percentage: 12},
		},
	}
}

type ShopSettingsHolder struct {
	current atomic.Value // holds ShopSettings
}

// NewShopSettingsHolder reads shop.yml from the usual locations and keeps it
// hot-reloaded. A missing file falls back to DefaultShopSettings.
func NewShopSettingsHolder(log *zap.Logger) (*ShopSettingsHolder, error) {
	v := viper.New()

	v.SetConfigName("shop")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/karatledger")
	v.AddConfigPath(".")

	v.SetEnvPrefix("KARAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setShopDefaults(v, DefaultShopSettings())

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		fileFound = false
	}

	var cfg ShopSettings
	if err := v.UnmarshalKey("shop", &cfg); err != nil {
		return nil, err
	}
	if err := validateShopSettings(cfg); err != nil {
		return nil, err
	}

	holder := NewStaticShopSettings(cfg)

	if fileFound {
		v.WatchConfig()
		v.OnConfigChange(func(e fsnotify.Event) {
			var updated ShopSettings
			if err := v.UnmarshalKey("shop", &updated); err != nil {
				log.Warn("shop settings reload failed", zap.Error(err))
				return
			}
			if err := validateShopSettings(updated); err != nil {
				log.Warn("invalid shop settings ignored", zap.Error(err))
				return
			}
			holder.current.Store(updated)
			log.Info("shop settings reloaded", zap.String("file", e.Name))
		})
	}

	return holder, nil
}

// NewStaticShopSettings returns a holder that never reloads.
func NewStaticShopSettings(cfg ShopSettings) *ShopSettingsHolder {
	holder := &ShopSettingsHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *ShopSettingsHolder) Get() ShopSettings {
	if h == nil {
		return DefaultShopSettings()
	}
	return h.current.Load().(ShopSettings)
}

func setShopDefaults(v *viper.Viper, d ShopSettings) {
	v.SetDefault("shop.name", d.Name)
	v.SetDefault("shop.defaultGstRate", d.DefaultGSTRate)
	v.SetDefault("shop.sameState", d.SameState)
	v.SetDefault("shop.gstRates.gold", d.GSTRates.Gold)
	v.SetDefault("shop.gstRates.silver", d.GSTRates.Silver)
	v.SetDefault("shop.gstRates.platinum", d.GSTRates.Platinum)
	v.SetDefault("shop.gstRates.makingCharges", d.GSTRates.MakingCharges)
	v.SetDefault("shop.makingCharges.gold.percentage", d.MakingCharges.Gold.Percentage)
	v.SetDefault("shop.makingCharges.silver.percentage", d.MakingCharges.Silver.Percentage)
	v.SetDefault("shop.makingCharges.platinum.percentage", d.MakingCharges.Platinum.Percentage)
}

func validateShopSettings(cfg ShopSettings) error {
	if cfg.DefaultGSTRate < 0 || cfg.DefaultGSTRate > 28 {
		return errors.New("shop.defaultGstRate must be between 0 and 28")
	}
	if cfg.GSTRates.MakingCharges < 0 {
		return errors.New("shop.gstRates.makingCharges cannot be negative")
	}
	return nil
}
