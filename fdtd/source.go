package fdtd

import "math"

// envelopeCutoff is the number of pulse widths past which the Gaussian
// envelope is treated as exactly zero.
const envelopeCutoff = 6

// Source is a soft source: a Gaussian-windowed carrier added to E at one
// cell. It has no state of its own; the injected value is a function of the
// step count only, so a replay from step 0 reproduces it exactly.
type Source struct {
	Cell      int
	Frequency float64 // carrier, Hz
	Amplitude float64
	Delay     float64 // envelope center, s
	Width     float64 // envelope 1/e half width, s
	dt        float64
}

// Time returns the simulated time at step.
func (s Source) Time(step int64) float64 { return float64(step) * s.dt }

// Envelope is the pulse window at time t.
func (s Source) Envelope(t float64) float64 {
	u := (t - s.Delay) / s.Width
	if math.Abs(u) > envelopeCutoff {
		return 0
	}
	return math.Exp(-u * u)
}

// ValueAt returns the value added to E[Cell] during step.
func (s Source) ValueAt(step int64) float64 {
	t := s.Time(step)
	env := s.Envelope(t)
	if env == 0 {
		return 0
	}
	return s.Amplitude * env * math.Sin(2*math.Pi*s.Frequency*t)
}

// Active reports whether step falls inside the envelope's support.
func (s Source) Active(step int64) bool {
	return s.Envelope(s.Time(step)) != 0
}

// LastActiveStep is the final step that injects a nonzero value.
func (s Source) LastActiveStep() int64 {
	n := int64(math.Floor((s.Delay + envelopeCutoff*s.Width) / s.dt))
	for n > 0 && !s.Active(n) {
		n--
	}
	for s.Active(n + 1) {
		n++
	}
	return n
}

// PeakDelay is the envelope center, the nominal emission time of the pulse.
func (s Source) PeakDelay() float64 { return s.Delay }
