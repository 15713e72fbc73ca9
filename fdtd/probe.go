package fdtd

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"
)

// Probe records E at one cell after every step into a bounded ring.
// It is safe to read while the engine is stepping.
type Probe struct {
	cell int

	mu       sync.Mutex
	buf      []float64
	head     int // next write position
	count    int
	lastStep int64
}

func newProbe(cell, capacity int) *Probe {
	if capacity < 1 {
		capacity = 1
	}
	return &Probe{cell: cell, buf: make([]float64, capacity)}
}

func (p *Probe) Cell() int { return p.cell }

func (p *Probe) record(step int64, v float64) {
	p.mu.Lock()
	p.buf[p.head] = v
	p.head = (p.head + 1) % len(p.buf)
	if p.count < len(p.buf) {
		p.count++
	}
	p.lastStep = step
	p.mu.Unlock()
}

// Samples returns the recorded values oldest first, together with the step
// count at which the first of them was taken.
func (p *Probe) Samples() ([]float64, int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.samplesLocked(), p.lastStep - int64(p.count) + 1
}

func (p *Probe) samplesLocked() []float64 {
	out := make([]float64, p.count)
	start := (p.head - p.count + len(p.buf)) % len(p.buf)
	n := copy(out, p.buf[start:])
	if n < p.count {
		copy(out[n:], p.buf[:p.head])
	}
	return out
}

// Latest returns the most recent sample, or 0 before the first step.
func (p *Probe) Latest() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.count == 0 {
		return 0
	}
	return p.buf[(p.head-1+len(p.buf))%len(p.buf)]
}

// Peak returns the step and value of the largest recorded sample. ok is
// false when nothing has been recorded.
func (p *Probe) Peak() (step int64, value float64, ok bool) {
	samples, first := p.Samples()
	if len(samples) == 0 {
		return 0, 0, false
	}
	i := floats.MaxIdx(samples)
	return first + int64(i), samples[i], true
}

// PeakAbs is Peak over |E|; value keeps its sign.
func (p *Probe) PeakAbs() (step int64, value float64, ok bool) {
	samples, first := p.Samples()
	if len(samples) == 0 {
		return 0, 0, false
	}
	mags := make([]float64, len(samples))
	for i, v := range samples {
		mags[i] = math.Abs(v)
	}
	i := floats.MaxIdx(mags)
	return first + int64(i), samples[i], true
}

// Reset discards every recorded sample.
func (p *Probe) Reset() {
	p.mu.Lock()
	p.head, p.count = 0, 0
	p.mu.Unlock()
}
