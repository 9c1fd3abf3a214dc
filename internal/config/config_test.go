package config

import (
	"reflect"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.OutDir != "." {
		t.Errorf("expected OutDir \".\", got %q", cfg.OutDir)
	}
	if cfg.Seed != 1 {
		t.Errorf("expected Seed 1, got %d", cfg.Seed)
	}
	if cfg.Low != 0 || cfg.High != 10 {
		t.Errorf("expected range [0, 10), got [%v, %v)", cfg.Low, cfg.High)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected LogLevel info, got %q", cfg.LogLevel)
	}
	if cfg.LogFormat != "console" {
		t.Errorf("expected LogFormat console, got %q", cfg.LogFormat)
	}
	if len(cfg.Scenarios) != 0 {
		t.Errorf("expected all scenarios by default, got %v", cfg.Scenarios)
	}
	if cfg.MetricsFile != "" || cfg.ArrowFile != "" || cfg.ServeAddr != "" {
		t.Error("expected optional outputs to be disabled by default")
	}
	if !cfg.Deterministic() {
		t.Error("expected default config to be deterministic")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(c *Config) {}, false},
		{"clock seed", func(c *Config) { c.Seed = 0 }, false},
		{"json logs", func(c *Config) { c.LogFormat = "JSON" }, false},
		{"uppercase level", func(c *Config) { c.LogLevel = "DEBUG" }, false},
		{"known scenarios", func(c *Config) { c.Scenarios = []string{"width", "batch"} }, false},
		{"empty out dir", func(c *Config) { c.OutDir = " " }, true},
		{"inverted range", func(c *Config) { c.Low, c.High = 10, 0 }, true},
		{"empty range", func(c *Config) { c.Low, c.High = 5, 5 }, true},
		{"unknown scenario", func(c *Config) { c.Scenarios = []string{"height"} }, true},
		{"unknown level", func(c *Config) { c.LogLevel = "trace" }, true},
		{"unknown format", func(c *Config) { c.LogFormat = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseScenarios(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"channel", []string{"channel"}},
		{"Channel, width ,,batch", []string{"channel", "width", "batch"}},
	}
	for _, tt := range tests {
		got := ParseScenarios(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseScenarios(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDeterministic(t *testing.T) {
	cfg := Default()
	cfg.Seed = 0
	if cfg.Deterministic() {
		t.Error("expected zero seed to be non-deterministic")
	}
}
