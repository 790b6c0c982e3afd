package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// envOverrides mirrors the settings that can come from the environment.
// Unset variables leave the pointer nil so the file value survives.
type envOverrides struct {
	Mode           *string  `env:"CASHFLOW_MODE"`
	Scenarios      []string `env:"CASHFLOW_SCENARIOS" envSeparator:"|"`
	DatasetFile    *string  `env:"CASHFLOW_DATASET"`
	DatasetDB      *string  `env:"CASHFLOW_DB"`
	Theme          *string  `env:"CASHFLOW_THEME"`
	Addr           *string  `env:"CASHFLOW_ADDR"`
	ReloadInterval *string  `env:"CASHFLOW_RELOAD_INTERVAL"`
	LogLevel       *string  `env:"CASHFLOW_LOG_LEVEL"`
	LogJSON        *bool    `env:"CASHFLOW_LOG_JSON"`
}

// ApplyEnv overlays CASHFLOW_* environment variables onto cfg.
// Scenario names contain commas, so CASHFLOW_SCENARIOS is split on "|".
func ApplyEnv(cfg *Config) error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parsing environment: %w", err)
	}

	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&cfg.General.DefaultMode, o.Mode)
	set(&cfg.General.DatasetFile, o.DatasetFile)
	set(&cfg.General.DatasetDB, o.DatasetDB)
	set(&cfg.Appearance.Theme, o.Theme)
	set(&cfg.Server.Addr, o.Addr)
	set(&cfg.Server.ReloadInterval, o.ReloadInterval)
	set(&cfg.Log.Level, o.LogLevel)
	if o.Scenarios != nil {
		cfg.General.DefaultScenarios = o.Scenarios
	}
	if o.LogJSON != nil {
		cfg.Log.JSON = *o.LogJSON
	}
	return nil
}
