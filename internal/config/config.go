package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/cashflow/internal/model"

	"github.com/BurntSushi/toml"
	"github.com/xhit/go-str2duration/v2"
)

// Config holds all cashflow configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Appearance AppearanceConfig `toml:"appearance"`
	Server     ServerConfig     `toml:"server"`
	Log        LogConfig        `toml:"log"`
}

// GeneralConfig holds view defaults and the dataset location.
type GeneralConfig struct {
	DefaultMode      string   `toml:"default_mode"`
	DefaultScenarios []string `toml:"default_scenarios,omitempty"`
	DatasetFile      string   `toml:"dataset_file,omitempty"`
	DatasetDB        string   `toml:"dataset_db,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// ServerConfig holds settings for `cashflow serve`.
type ServerConfig struct {
	Addr           string `toml:"addr"`
	ReloadInterval string `toml:"reload_interval"`
	EventsBuffer   int    `toml:"events_buffer"`
}

// LogConfig holds diagnostic logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	JSON  bool   `toml:"json"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultMode: model.ModeRaw.String(),
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Server: ServerConfig{
			Addr:           "127.0.0.1:8787",
			ReloadInterval: "30s",
			EventsBuffer:   200,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Mode returns the configured default view mode.
func (c Config) Mode() (model.ViewMode, error) {
	return model.ParseViewMode(c.General.DefaultMode)
}

// ReloadEvery parses the reload interval. Accepts Go durations plus day
// and week units ("1d", "1w2h").
func (s ServerConfig) ReloadEvery() (time.Duration, error) {
	if s.ReloadInterval == "" {
		return 0, nil
	}
	d, err := str2duration.ParseDuration(s.ReloadInterval)
	if err != nil {
		return 0, fmt.Errorf("parsing reload_interval %q: %w", s.ReloadInterval, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("reload_interval %q is negative", s.ReloadInterval)
	}
	return d, nil
}

// Validate checks values that can only be wrong at runtime.
func (c Config) Validate() error {
	if _, err := c.Mode(); err != nil {
		return fmt.Errorf("general.default_mode: %w", err)
	}
	if _, err := c.Server.ReloadEvery(); err != nil {
		return err
	}
	if c.Server.EventsBuffer < 0 {
		return fmt.Errorf("server.events_buffer must be >= 0")
	}
	return nil
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cashflow")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "cashflow")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file and applies environment overrides,
// returning defaults if the file doesn't exist.
func Load() (Config, error) {
	cfg, err := LoadFile(ConfigPath())
	if err != nil {
		return cfg, err
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadFile reads a config file without environment overrides.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
