package fdtd

import (
	"fmt"
	"math"
)

// Param names one user-adjustable material parameter.
type Param int

const (
	GlassEpsR Param = iota
	WaterEpsR
	WaterSigma

	numParams
)

// Params lists every adjustable parameter in slider order.
var Params = [...]Param{GlassEpsR, WaterEpsR, WaterSigma}

func (p Param) String() string {
	switch p {
	case GlassEpsR:
		return "glassEpsR"
	case WaterEpsR:
		return "waterEpsR"
	case WaterSigma:
		return "waterSigma"
	default:
		return fmt.Sprintf("Param(%d)", int(p))
	}
}

// Label is the human-readable slider caption.
func (p Param) Label() string {
	switch p {
	case GlassEpsR:
		return "Glass eps_r"
	case WaterEpsR:
		return "Water eps_r"
	case WaterSigma:
		return "Water sigma (S/m)"
	default:
		return p.String()
	}
}

// ParseParam maps a parameter name back to its Param.
func ParseParam(name string) (Param, error) {
	for _, p := range Params {
		if p.String() == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownParameter, name)
}

func (p Param) valid() bool { return p >= 0 && p < numParams }

// Range is the documented inclusive range of a parameter.
type Range struct {
	Min, Max float64
	// Step is the slider resolution.
	Step float64
}

// Range returns the range the UI must keep p inside.
func (p Param) Range() Range {
	switch p {
	case GlassEpsR:
		return Range{Min: 1, Max: 9, Step: 0.1}
	case WaterEpsR:
		return Range{Min: 1, Max: 15, Step: 0.1}
	case WaterSigma:
		return Range{Min: 0, Max: 1, Step: 0.01}
	default:
		return Range{}
	}
}

func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

// Clamp pins v into [Min, Max].
func (r Range) Clamp(v float64) float64 {
	return math.Max(r.Min, math.Min(r.Max, v))
}

// Fraction maps v to [0,1] across the range.
func (r Range) Fraction(v float64) float64 {
	if r.Max == r.Min {
		return 0
	}
	return (r.Clamp(v) - r.Min) / (r.Max - r.Min)
}

// Parameters is the live material record. Vacuum is fixed at εr=1, σ=0.
type Parameters struct {
	GlassEpsR  float64
	WaterEpsR  float64
	WaterSigma float64
}

// DefaultParameters matches the explorer's initial slider positions.
func DefaultParameters() Parameters {
	return Parameters{GlassEpsR: 4, WaterEpsR: 4, WaterSigma: 0.15}
}

// VacuumParameters turns every region into free space.
func VacuumParameters() Parameters {
	return Parameters{GlassEpsR: 1, WaterEpsR: 1, WaterSigma: 0}
}

func (p Parameters) Get(param Param) float64 {
	switch param {
	case GlassEpsR:
		return p.GlassEpsR
	case WaterEpsR:
		return p.WaterEpsR
	case WaterSigma:
		return p.WaterSigma
	default:
		return math.NaN()
	}
}

// With returns a copy of p with one field replaced.
func (p Parameters) With(param Param, v float64) Parameters {
	switch param {
	case GlassEpsR:
		p.GlassEpsR = v
	case WaterEpsR:
		p.WaterEpsR = v
	case WaterSigma:
		p.WaterSigma = v
	}
	return p
}

// InRange reports whether every field sits inside its documented range.
// Only in-range parameters carry the stability guarantee.
func (p Parameters) InRange() bool {
	for _, param := range Params {
		if !param.Range().Contains(p.Get(param)) {
			return false
		}
	}
	return true
}

func (p Parameters) String() string {
	return fmt.Sprintf("glass εr=%.2f water εr=%.2f σ=%.2f S/m", p.GlassEpsR, p.WaterEpsR, p.WaterSigma)
}
