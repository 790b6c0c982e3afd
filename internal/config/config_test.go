package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/cashflow/internal/model"
)

func TestLoadFileMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Appearance.Theme != "flexoki-dark" {
		t.Fatalf("theme = %q, want flexoki-dark", cfg.Appearance.Theme)
	}
	if mode, _ := cfg.Mode(); mode != model.ModeRaw {
		t.Fatalf("mode = %v, want raw", mode)
	}
}

func TestSaveThenLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if Exists() {
		t.Fatal("Exists() true before Save")
	}

	cfg := DefaultConfig()
	cfg.General.DefaultMode = "cumulative"
	cfg.General.DefaultScenarios = []string{"35% Rigado Replacement, 1500 Annual Demand"}
	cfg.Server.ReloadInterval = "1m"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists() {
		t.Fatal("Exists() false after Save")
	}

	info, err := os.Stat(ConfigPath())
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("perm = %o, want 600", perm)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if mode, _ := got.Mode(); mode != model.ModeCumulative {
		t.Fatalf("mode = %v, want cumulative", mode)
	}
	if len(got.General.DefaultScenarios) != 1 || got.General.DefaultScenarios[0] != cfg.General.DefaultScenarios[0] {
		t.Fatalf("scenarios = %v", got.General.DefaultScenarios)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("CASHFLOW_MODE", "cumulative")
	t.Setenv("CASHFLOW_SCENARIOS", "a, b|c")
	t.Setenv("CASHFLOW_ADDR", ":9000")
	t.Setenv("CASHFLOW_LOG_JSON", "true")

	cfg := DefaultConfig()
	cfg.Appearance.Theme = "tokyo-night"
	if err := ApplyEnv(&cfg); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}

	if cfg.General.DefaultMode != "cumulative" {
		t.Errorf("mode = %q", cfg.General.DefaultMode)
	}
	if len(cfg.General.DefaultScenarios) != 2 || cfg.General.DefaultScenarios[0] != "a, b" {
		t.Errorf("scenarios = %q", cfg.General.DefaultScenarios)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if !cfg.Log.JSON {
		t.Error("log json not applied")
	}
	if cfg.Appearance.Theme != "tokyo-night" {
		t.Errorf("unset env var clobbered theme: %q", cfg.Appearance.Theme)
	}
}

func TestReloadEvery(t *testing.T) {
	cases := map[string]time.Duration{
		"":      0,
		"30s":   30 * time.Second,
		"1d":    24 * time.Hour,
		"1w2h":  7*24*time.Hour + 2*time.Hour,
		"1m30s": 90 * time.Second,
	}
	for in, want := range cases {
		got, err := ServerConfig{ReloadInterval: in}.ReloadEvery()
		if err != nil {
			t.Fatalf("ReloadEvery(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ReloadEvery(%q) = %v, want %v", in, got, want)
		}
	}

	if _, err := (ServerConfig{ReloadInterval: "soon"}).ReloadEvery(); err == nil {
		t.Error("expected error for bad interval")
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	cfg.General.DefaultMode = "sideways"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for bad mode")
	}
}
