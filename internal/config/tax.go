package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Tax computation modes for the client-side invoice preview.
const (
	TaxModeFlat    = "flat"
	TaxModePerLine = "per_line"
)

// TaxConfig controls how the invoice preview computes tax. The flat mode
// applies a single rate to the whole invoice; per_line uses each line's
// product tax rate. The authoritative amounts always come from the server.
type TaxConfig struct {
	Mode     string  `mapstructure:"mode"`
	FlatRate float64 `mapstructure:"flatRate"`
}

func DefaultTaxConfig() TaxConfig {
	return TaxConfig{
		Mode:     TaxModeFlat,
		FlatRate: 0.21,
	}
}

// TaxConfigHolder exposes the current tax configuration and hot-reloads it
// when the config file changes.
type TaxConfigHolder struct {
	current atomic.Value // holds TaxConfig
}

func NewTaxConfigHolder() (*TaxConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("lumicrm")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/lumicrm")
	v.AddConfigPath("$HOME/.config/lumicrm")
	v.AddConfigPath(".")

	v.SetEnvPrefix("LUMICRM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultTaxConfig()
		v.SetDefault("tax.mode", defaults.Mode)
		v.SetDefault("tax.flatRate", defaults.FlatRate)
	}

	cfg := DefaultTaxConfig()
	if err := v.UnmarshalKey("tax", &cfg); err != nil {
		return nil, err
	}
	if err := validateTaxConfig(cfg); err != nil {
		return nil, err
	}

	holder := &TaxConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated := DefaultTaxConfig()
		if err := v.UnmarshalKey("tax", &updated); err != nil {
			log.Printf("[tax-config] reload failed: %v", err)
			return
		}
		if err := validateTaxConfig(updated); err != nil {
			log.Printf("[tax-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[tax-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *TaxConfigHolder) Get() TaxConfig {
	return h.current.Load().(TaxConfig)
}

// Set replaces the current tax configuration. Intended for tests and for
// callers that manage configuration themselves.
func (h *TaxConfigHolder) Set(cfg TaxConfig) error {
	if err := validateTaxConfig(cfg); err != nil {
		return err
	}
	h.current.Store(cfg)
	return nil
}

func validateTaxConfig(cfg TaxConfig) error {
	switch cfg.Mode {
	case TaxModeFlat, TaxModePerLine:
	default:
		return errors.New("tax.mode must be flat or per_line")
	}
	if cfg.FlatRate < 0 || cfg.FlatRate >= 1 {
		return errors.New("tax.flatRate must be in [0, 1)")
	}
	return nil
}
