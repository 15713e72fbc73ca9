package fdtd

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/floats"
)

// State is the engine lifecycle position.
type State int

const (
	// Ready is a freshly built engine with zero fields.
	Ready State = iota
	// Running means at least one step has been taken.
	Running
)

func (s State) String() string {
	if s == Ready {
		return "ready"
	}
	return "running"
}

// Status is published together with every snapshot.
type Status struct {
	Step       int64
	Time       float64 // s
	Parameters Parameters
	Energy     float64 // J/m²
	State      State
}

// Engine owns the grid, the material map, the field state and the source.
// A frame (apply pending parameters, then a batch of steps) is the unit of
// mutual exclusion; snapshots are served from a separately locked copy so
// readers never wait on a running batch.
type Engine struct {
	mu       sync.Mutex
	grid     Grid
	material *MaterialMap
	params   Parameters
	fields   Fields
	source   Source
	kernel   Kernel
	probes   []*Probe
	probeCap int
	batch    Batch

	channel *ParameterChannel

	snapMu sync.RWMutex
	snapE  []float64
	status Status
}

// Option customizes an Engine at construction.
type Option func(*Engine)

// WithKernel replaces the CPU kernel used by Frame. Step always runs on
// the CPU.
func WithKernel(k Kernel) Option {
	return func(e *Engine) {
		if k != nil {
			e.kernel = k
		}
	}
}

// WithChannel shares an existing ParameterChannel, letting a UI keep its
// handle across engine rebuilds.
func WithChannel(c *ParameterChannel) Option {
	return func(e *Engine) {
		if c != nil {
			e.channel = c
		}
	}
}

// New builds a zero-field engine in the Ready state.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	grid, err := NewGrid(cfg.Cells, cfg.DX)
	if err != nil {
		return nil, err
	}
	material, err := NewMaterialMap(grid, cfg.Regions, cfg.Parameters)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		grid:     grid,
		material: material,
		params:   cfg.Parameters,
		fields:   newFields(grid.Cells()),
		source: Source{
			Cell:      cfg.SourceCell,
			Frequency: cfg.Frequency,
			Amplitude: cfg.Amplitude,
			Delay:     cfg.PulseDelay * grid.DT(),
			Width:     cfg.PulseWidth * grid.DT(),
			dt:        grid.DT(),
		},
		kernel:   CPUKernel{},
		probeCap: cfg.ProbeCapacity,
		channel:  NewParameterChannel(),
		snapE:    make([]float64, grid.Cells()),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.mu.Lock()
	e.publishLocked()
	e.mu.Unlock()
	return e, nil
}

// Step advances the fields by one time step on the CPU. It does not drain
// pending parameters.
func (e *Engine) Step() {
	e.mu.Lock()
	defer e.mu.Unlock()
	step := e.fields.Step
	advance(&e.fields, e.material.Coefficients(), e.source.ValueAt(step), e.source.Cell)
	e.fields.Step++
	for _, p := range e.probes {
		p.record(e.fields.Step, e.fields.E[p.cell])
	}
	e.publishLocked()
}

// Frame applies pending parameter updates and then advances steps times
// through the configured kernel, as one uninterrupted unit. steps <= 0
// only applies pending updates.
func (e *Engine) Frame(steps int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.applyPendingLocked()
	defer e.publishLocked()
	if steps <= 0 {
		return nil
	}
	return e.advanceLocked(steps)
}

func (e *Engine) advanceLocked(steps int) error {
	b := &e.batch
	b.SourceCell = e.source.Cell
	b.Drive = resize(b.Drive, steps)
	start := e.fields.Step
	for k := range b.Drive {
		b.Drive[k] = e.source.ValueAt(start + int64(k))
	}
	b.Taps = b.Taps[:0]
	for _, p := range e.probes {
		b.Taps = append(b.Taps, p.cell)
	}
	b.Samples = resize(b.Samples, steps*len(b.Taps))
	if err := e.kernel.Advance(&e.fields, e.material.Coefficients(), b); err != nil {
		return fmt.Errorf("%s kernel: advancing %d steps from step %d: %w", e.kernel.Name(), steps, start, err)
	}
	taps := len(b.Taps)
	for k := 0; k < steps; k++ {
		for j, p := range e.probes {
			p.record(start+int64(k)+1, b.Samples[k*taps+j])
		}
	}
	e.fields.Step += int64(steps)
	return nil
}

func resize(s []float64, n int) []float64 {
	if cap(s) < n {
		return make([]float64, n)
	}
	return s[:n]
}

// SubmitParameter queues a new value for param; see ParameterChannel.Submit.
func (e *Engine) SubmitParameter(param Param, value float64) error {
	return e.channel.Submit(param, value)
}

// Channel returns the engine's parameter channel for UI-side submitters.
func (e *Engine) Channel() *ParameterChannel { return e.channel }

// ApplyPending drains the parameter channel into the material map. It
// reports whether any parameter changed; with nothing pending, parameters
// and map are left untouched.
func (e *Engine) ApplyPending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	changed := e.applyPendingLocked()
	if changed {
		e.publishLocked()
	}
	return changed
}

func (e *Engine) applyPendingLocked() bool {
	params, changed := e.channel.drain(e.params)
	if !changed {
		return false
	}
	e.params = params
	e.material.Rebuild(params)
	return true
}

func (e *Engine) publishLocked() {
	st := Status{
		Step:       e.fields.Step,
		Time:       e.source.Time(e.fields.Step),
		Parameters: e.params,
		Energy:     e.energyLocked(),
		State:      e.stateLocked(),
	}
	e.snapMu.Lock()
	copy(e.snapE, e.fields.E)
	e.status = st
	e.snapMu.Unlock()
}

// Snapshot returns a copy of E as of the last completed step or frame.
func (e *Engine) Snapshot() []float64 {
	e.snapMu.RLock()
	defer e.snapMu.RUnlock()
	return append([]float64(nil), e.snapE...)
}

// Status returns the status published with the current snapshot.
func (e *Engine) Status() Status {
	e.snapMu.RLock()
	defer e.snapMu.RUnlock()
	return e.status
}

// Fields returns a deep copy of the live field state.
func (e *Engine) Fields() Fields {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fields.Clone()
}

// AddProbe starts recording E at cell after every step.
func (e *Engine) AddProbe(cell int) (*Probe, error) {
	if cell < 0 || cell >= e.grid.Cells() {
		return nil, fmt.Errorf("%w: probe cell %d outside [0,%d)", ErrConfig, cell, e.grid.Cells())
	}
	p := newProbe(cell, e.probeCap)
	e.mu.Lock()
	e.probes = append(e.probes, p)
	e.mu.Unlock()
	return p, nil
}

// Parameters returns the applied (not pending) material parameters.
func (e *Engine) Parameters() Parameters {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.params
}

// Material returns a copy of the per-cell material array.
func (e *Engine) Material() []Cell {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.material.Cells()
}

// Regions returns the fixed region layout.
func (e *Engine) Regions() []Region { return e.material.Regions() }

func (e *Engine) Grid() Grid     { return e.grid }
func (e *Engine) Source() Source { return e.source }

// KernelName reports which kernel Frame runs on.
func (e *Engine) KernelName() string { return e.kernel.Name() }

// StepCount returns the number of steps taken so far.
func (e *Engine) StepCount() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fields.Step
}

// State returns Ready until the first step, Running afterwards.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

func (e *Engine) stateLocked() State {
	if e.fields.Step == 0 {
		return Ready
	}
	return Running
}

// Energy returns the electromagnetic energy per unit cross-section.
func (e *Engine) Energy() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.energyLocked()
}

func (e *Engine) energyLocked() float64 {
	var electric float64
	for i, v := range e.fields.E {
		electric += e.material.cells[i].EpsR * v * v
	}
	magnetic := floats.Dot(e.fields.H, e.fields.H)
	return 0.5 * (Eps0*electric + Mu0*magnetic) * e.grid.DX()
}

// Close releases kernel resources.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.kernel.Close()
}
