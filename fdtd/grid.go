package fdtd

import (
	"fmt"
	"math"
)

// Physical constants. Eps0 is derived from SpeedOfLight and Mu0 so that the
// discrete Courant number c*dt/dx is exactly 0.5 for the chosen dt.
const (
	SpeedOfLight = 3e8
	Mu0          = 4 * math.Pi * 1e-7
	Eps0         = 1 / (Mu0 * SpeedOfLight * SpeedOfLight)

	// courant is the fixed c*dt/dx ratio. Any εr >= 1 only lowers the
	// local wave speed, so vacuum is the worst case for stability.
	courant = 0.5
)

// Grid is the fixed 1-D spatial discretization. It never changes after
// construction.
type Grid struct {
	cells int
	dx    float64
	dt    float64
}

// NewGrid validates the geometry and derives the time step.
func NewGrid(cells int, dx float64) (Grid, error) {
	if cells < 3 {
		return Grid{}, fmt.Errorf("%w: cell count %d, need at least 3", ErrConfig, cells)
	}
	if !(dx > 0) || math.IsInf(dx, 0) {
		return Grid{}, fmt.Errorf("%w: cell spacing %g m", ErrConfig, dx)
	}
	return Grid{cells: cells, dx: dx, dt: courant * dx / SpeedOfLight}, nil
}

func (g Grid) Cells() int       { return g.cells }
func (g Grid) DX() float64      { return g.dx }
func (g Grid) DT() float64      { return g.dt }
func (g Grid) Courant() float64 { return SpeedOfLight * g.dt / g.dx }

// Position returns the distance in meters of cell i from cell 0.
func (g Grid) Position(i int) float64 { return float64(i) * g.dx }

// StepsToCross returns how many vacuum steps a wave needs to cover d meters.
func (g Grid) StepsToCross(d float64) float64 { return d / (SpeedOfLight * g.dt) }
