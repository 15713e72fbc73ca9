package fdtd

import (
	"fmt"
	"math"
	"sync"
)

// ParameterChannel carries UI-originated parameter changes to the engine.
// Submit may be called from any goroutine; each field keeps only its latest
// value until the engine drains it.
type ParameterChannel struct {
	mu      sync.Mutex
	pending [numParams]float64
	set     [numParams]bool
}

// NewParameterChannel returns an empty channel.
func NewParameterChannel() *ParameterChannel {
	return &ParameterChannel{}
}

// Submit stores value as the pending update for param, replacing any
// update that has not been applied yet. Range checking is the caller's job;
// only NaN and infinities are refused.
func (c *ParameterChannel) Submit(param Param, value float64) error {
	if !param.valid() {
		return fmt.Errorf("%w: %s", ErrUnknownParameter, param)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%w: %s=%v", ErrNonFinite, param, value)
	}
	c.mu.Lock()
	c.pending[param] = value
	c.set[param] = true
	c.mu.Unlock()
	return nil
}

// SubmitNamed is Submit keyed by the parameter's wire name.
func (c *ParameterChannel) SubmitNamed(name string, value float64) error {
	param, err := ParseParam(name)
	if err != nil {
		return err
	}
	return c.Submit(param, value)
}

// Pending reports how many fields hold an unapplied value.
func (c *ParameterChannel) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, ok := range c.set {
		if ok {
			n++
		}
	}
	return n
}

// drain merges every pending value into p and clears the channel. It
// reports whether anything was pending.
func (c *ParameterChannel) drain(p Parameters) (Parameters, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	changed := false
	for i, ok := range c.set {
		if !ok {
			continue
		}
		p = p.With(Param(i), c.pending[i])
		c.set[i] = false
		changed = true
	}
	return p, changed
}
