package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `
env: test
gateway:
  endpoint: ws://localhost:9000/tick
horizon:
  finalTimestamp: 199900
  tickInterval: 100
  liquidationWindow: 200
  marketOutThreshold: 100
metrics:
  enabled: false
instruments:
  RESIN:
    fairValue: fixed
    fixedFairValue: 10000
    takeSpread: 1
    clearSpread: 0
    baseSpread: 7
    ignoreSpread: 1
    matchSpread: 4
    inventorySoftLimit: 25
    positionLimit: 50
  KELP:
    fairValue: rolling
    takeVolScale: 0.5
    clearSpread: 0
    baseSpread: 3
    ignoreSpread: 1
    matchSpread: 2
    inventorySoftLimit: 10
    positionLimit: 50
    windowSize: 5
    minObservations: 5
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Instruments) != 2 {
		t.Errorf("expected 2 instruments, got %d", len(cfg.Instruments))
	}
	resin := cfg.Instruments["RESIN"]
	if resin.FairValue != FairValueFixed || resin.FixedFairValue != 10000 {
		t.Errorf("unexpected RESIN config: %+v", resin)
	}
	kelp := cfg.Instruments["KELP"]
	if kelp.FairValue != FairValueRolling || kelp.WindowSize != 5 {
		t.Errorf("unexpected KELP config: %+v", kelp)
	}
	if cfg.Horizon.FinalTimestamp != 199900 {
		t.Errorf("unexpected horizon: %+v", cfg.Horizon)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing env", func(c *Config) { c.Env = "" }},
		{"zero final timestamp", func(c *Config) { c.Horizon.FinalTimestamp = 0 }},
		{"zero tick interval", func(c *Config) { c.Horizon.TickInterval = 0 }},
		{"threshold beyond window", func(c *Config) { c.Horizon.MarketOutThreshold = 999 }},
		{"no instruments", func(c *Config) { c.Instruments = nil }},
		{"bad fair value mode", func(c *Config) {
			ic := c.Instruments["RESIN"]
			ic.FairValue = "magic"
			c.Instruments["RESIN"] = ic
		}},
		{"rolling without window", func(c *Config) {
			ic := c.Instruments["KELP"]
			ic.WindowSize = 0
			c.Instruments["KELP"] = ic
		}},
		{"minObservations below 2", func(c *Config) {
			ic := c.Instruments["KELP"]
			ic.MinObservations = 1
			c.Instruments["KELP"] = ic
		}},
		{"soft limit beyond hard limit", func(c *Config) {
			ic := c.Instruments["RESIN"]
			ic.InventorySoftLimit = 99
			c.Instruments["RESIN"] = ic
		}},
		{"zero position limit", func(c *Config) {
			ic := c.Instruments["RESIN"]
			ic.PositionLimit = 0
			c.Instruments["RESIN"] = ic
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, validYAML))
			if err != nil {
				t.Fatalf("base config should load: %v", err)
			}
			tc.mutate(&cfg)
			if err := Validate(cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("TM_GATEWAY_ENDPOINT", "ws://override:9999/tick")
	cfg, err := LoadWithEnvOverrides(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Gateway.Endpoint != "ws://override:9999/tick" {
		t.Errorf("env override not applied: %s", cfg.Gateway.Endpoint)
	}
}
