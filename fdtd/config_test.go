package fdtd

import (
	"errors"
	"math"
	"testing"
)

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero cells", func(c *Config) { c.Cells = 0 }, ErrConfig},
		{"negative dx", func(c *Config) { c.DX = -1 }, ErrConfig},
		{"zero dx", func(c *Config) { c.DX = 0 }, ErrConfig},
		{"NaN dx", func(c *Config) { c.DX = math.NaN() }, ErrConfig},
		{"zero frequency", func(c *Config) { c.Frequency = 0 }, ErrConfig},
		{"negative frequency", func(c *Config) { c.Frequency = -1.5e9 }, ErrConfig},
		{"source on wall", func(c *Config) { c.SourceCell = 0 }, ErrConfig},
		{"source off grid", func(c *Config) { c.SourceCell = 400 }, ErrConfig},
		{"zero pulse width", func(c *Config) { c.PulseWidth = 0 }, ErrConfig},
		{"negative delay", func(c *Config) { c.PulseDelay = -3 }, ErrConfig},
		{"NaN parameter", func(c *Config) { c.Parameters.WaterSigma = math.NaN() }, ErrNonFinite},
		{"cells mismatch regions", func(c *Config) { c.Cells = 500 }, ErrRegions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Fatalf("Validate: err = %v, want %v", err, tt.want)
			}
			if _, err := New(cfg); !errors.Is(err, tt.want) {
				t.Fatalf("New: err = %v, want %v", err, tt.want)
			}
		})
	}
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config: %v", err)
	}
}

func TestGridDerivesTimeStep(t *testing.T) {
	g, err := NewGrid(400, 0.8e-3)
	if err != nil {
		t.Fatal(err)
	}
	if want := 0.8e-3 / (2 * SpeedOfLight); math.Abs(g.DT()-want) > 1e-27 {
		t.Fatalf("dt = %v, want %v", g.DT(), want)
	}
	if g.Cells() != 400 || g.DX() != 0.8e-3 {
		t.Fatalf("grid = %+v", g)
	}
}
