package config

import (
	"fmt"
	"strings"

	"github.com/23skdu/longbow-mergegen/internal/tensor"
)

type Config struct {
	OutDir string

	// Seed 0 draws a seed from the clock; golden files then differ per run.
	Seed uint64
	Low  float32
	High float32

	// Scenarios restricts the run to the named scenarios; empty runs all.
	Scenarios []string

	LogLevel  string
	LogFormat string

	MetricsFile string
	ArrowFile   string
	ServeAddr   string
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.OutDir) == "" {
		return fmt.Errorf("invalid out_dir: %q (must be non-empty)", c.OutDir)
	}
	if !(c.Low < c.High) {
		return fmt.Errorf("invalid range: [%v, %v) (low must be < high)", c.Low, c.High)
	}
	for _, name := range c.Scenarios {
		if _, err := tensor.ParseAxis(name); err != nil {
			return fmt.Errorf("invalid scenario: %q (must be channel, width or batch)", name)
		}
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		return fmt.Errorf("invalid log_level: %q (must be debug, info, warn or error)", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log_format: %q (must be json or console)", c.LogFormat)
	}
	return nil
}

// Deterministic reports whether repeated runs produce identical fixtures.
func (c *Config) Deterministic() bool {
	return c.Seed != 0
}

// ParseScenarios splits a comma separated list, dropping empty entries.
func ParseScenarios(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func Default() Config {
	return Config{
		OutDir:    ".",
		Seed:      1,
		Low:       0.0,
		High:      10.0,
		LogLevel:  "info",
		LogFormat: "console",
	}
}
