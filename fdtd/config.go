package fdtd

import (
	"fmt"
	"math"
)

// Config is the immutable construction input of an Engine. Several engines
// may be built from the same Config and run side by side.
type Config struct {
	Cells   int
	DX      float64 // m
	Regions []Region

	SourceCell int
	Frequency  float64 // carrier, Hz
	Amplitude  float64
	// PulseDelay and PulseWidth place the Gaussian envelope, in time steps.
	PulseDelay float64
	PulseWidth float64

	Parameters Parameters

	// ProbeCapacity bounds the samples each probe keeps.
	ProbeCapacity int
}

// DefaultConfig is the 400-cell, 0.8 mm explorer driven at 1.5 GHz.
func DefaultConfig() Config {
	return Config{
		Cells:         400,
		DX:            0.8e-3,
		Regions:       DefaultRegions(),
		SourceCell:    50,
		Frequency:     1.5e9,
		Amplitude:     1.5,
		PulseDelay:    25,
		PulseWidth:    8,
		Parameters:    DefaultParameters(),
		ProbeCapacity: 4096,
	}
}

// Validate rejects any configuration that cannot build a valid grid and
// source. Region layout is checked as well.
func (c Config) Validate() error {
	grid, err := NewGrid(c.Cells, c.DX)
	if err != nil {
		return err
	}
	if !finite(c.Frequency) || c.Frequency <= 0 {
		return fmt.Errorf("%w: carrier frequency %g Hz", ErrConfig, c.Frequency)
	}
	if !finite(c.Amplitude) {
		return fmt.Errorf("%w: source amplitude %g", ErrConfig, c.Amplitude)
	}
	if c.SourceCell <= 0 || c.SourceCell >= grid.Cells()-1 {
		return fmt.Errorf("%w: source cell %d outside interior (0,%d)", ErrConfig, c.SourceCell, grid.Cells()-1)
	}
	if !finite(c.PulseWidth) || c.PulseWidth <= 0 {
		return fmt.Errorf("%w: pulse width %g steps", ErrConfig, c.PulseWidth)
	}
	if !finite(c.PulseDelay) || c.PulseDelay < 0 {
		return fmt.Errorf("%w: pulse delay %g steps", ErrConfig, c.PulseDelay)
	}
	if c.ProbeCapacity < 0 {
		return fmt.Errorf("%w: probe capacity %d", ErrConfig, c.ProbeCapacity)
	}
	for _, p := range Params {
		if !finite(c.Parameters.Get(p)) {
			return fmt.Errorf("%w: initial %s=%v", ErrNonFinite, p, c.Parameters.Get(p))
		}
	}
	if _, err := validateRegions(c.Regions, grid.Cells()); err != nil {
		return err
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
