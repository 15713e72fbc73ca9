package fdtd

import (
	"errors"
	"math"
	"sync"
	"testing"
)

func newTestEngine(t *testing.T, p Parameters) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Parameters = p
	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

// peakAt runs steps from a fresh engine and returns the signed peak seen
// at cell.
func peakAt(t *testing.T, p Parameters, cell, steps int) (int64, float64) {
	t.Helper()
	e := newTestEngine(t, p)
	probe, err := e.AddProbe(cell)
	if err != nil {
		t.Fatalf("AddProbe(%d): %v", cell, err)
	}
	if err := e.Frame(steps); err != nil {
		t.Fatalf("Frame(%d): %v", steps, err)
	}
	step, v, ok := probe.Peak()
	if !ok {
		t.Fatalf("probe at %d recorded nothing", cell)
	}
	return step, v
}

func TestStaysFiniteAcrossParameterRange(t *testing.T) {
	corners := []Parameters{
		{GlassEpsR: 1, WaterEpsR: 1, WaterSigma: 0},
		{GlassEpsR: 9, WaterEpsR: 15, WaterSigma: 0},
		{GlassEpsR: 9, WaterEpsR: 15, WaterSigma: 1},
		{GlassEpsR: 1, WaterEpsR: 15, WaterSigma: 1},
		{GlassEpsR: 9, WaterEpsR: 1, WaterSigma: 1},
		DefaultParameters(),
	}
	for _, p := range corners {
		e := newTestEngine(t, p)
		for i := 0; i < 30; i++ {
			if err := e.Frame(100); err != nil {
				t.Fatalf("%v: Frame: %v", p, err)
			}
		}
		f := e.Fields()
		for i, v := range f.E {
			if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > 10 {
				t.Fatalf("%v: E[%d] = %v after %d steps", p, i, v, f.Step)
			}
		}
		for i, v := range f.H {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("%v: H[%d] = %v after %d steps", p, i, v, f.Step)
			}
		}
	}
}

func TestVacuumCourantAndPulseSpeed(t *testing.T) {
	e := newTestEngine(t, VacuumParameters())
	g := e.Grid()
	if math.Abs(g.Courant()-0.5) > 1e-12 {
		t.Fatalf("Courant = %v, want 0.5", g.Courant())
	}
	// 100 cells at half a cell per step.
	d := g.Position(200) - g.Position(100)
	if got := g.StepsToCross(d); math.Abs(got-200) > 1e-9 {
		t.Fatalf("StepsToCross(%v) = %v, want 200", d, got)
	}

	near, _ := peakAt(t, VacuumParameters(), 100, 450)
	far, _ := peakAt(t, VacuumParameters(), 200, 450)
	if diff := far - near; diff < 198 || diff > 202 {
		t.Fatalf("peak took %d steps to cross 100 cells, want ~200", diff)
	}
	crossing := float64(far-near) * g.DT()
	if want := d / SpeedOfLight; math.Abs(crossing-want) > 2*g.DT() {
		t.Fatalf("crossing time %v s, want %v s", crossing, want)
	}
}

func TestPulsePositionAfterKnownTime(t *testing.T) {
	e := newTestEngine(t, VacuumParameters())
	const steps = 226
	if err := e.Frame(steps); err != nil {
		t.Fatal(err)
	}
	g, src := e.Grid(), e.Source()
	elapsed := src.Time(steps) - src.PeakDelay()
	cell := src.Cell + int(math.Round(SpeedOfLight*elapsed/g.DX()))

	snap := e.Snapshot()
	var peak float64
	for _, v := range snap[100:250] {
		peak = math.Max(peak, math.Abs(v))
	}
	if peak == 0 {
		t.Fatal("no pulse between cells 100 and 250")
	}
	if snap[cell] <= 0.25*peak {
		t.Fatalf("E[%d] = %v, want inside the pulse (peak %v)", cell, snap[cell], peak)
	}
	for i := 200; i < len(snap); i++ {
		if math.Abs(snap[i]) > 1e-3*peak {
			t.Fatalf("E[%d] = %v ahead of the pulse", i, snap[i])
		}
	}
}

func TestGlassPermittivitySlowsPulse(t *testing.T) {
	const probe, steps = 360, 1800
	var prev int64 = -1
	for _, eps := range []float64{1, 2.5, 4, 9} {
		p := Parameters{GlassEpsR: eps, WaterEpsR: 4, WaterSigma: 0}
		arrival, v := peakAt(t, p, probe, steps)
		if v <= 0 {
			t.Fatalf("glass εr=%v: no pulse reached cell %d", eps, probe)
		}
		if arrival <= prev {
			t.Fatalf("glass εr=%v: arrival step %d not after %d", eps, arrival, prev)
		}
		prev = arrival
	}
}

func TestWaterConductivityAttenuates(t *testing.T) {
	const probe, steps = 300, 1100
	prev := math.Inf(1)
	for _, sigma := range []float64{0, 0.25, 0.5, 1} {
		p := Parameters{GlassEpsR: 4, WaterEpsR: 4, WaterSigma: sigma}
		_, v := peakAt(t, p, probe, steps)
		if v <= 0 || v >= prev {
			t.Fatalf("σ=%v: peak %v, want positive and below %v", sigma, v, prev)
		}
		prev = v
	}
}

func TestFrameMatchesRepeatedStep(t *testing.T) {
	a := newTestEngine(t, DefaultParameters())
	b := newTestEngine(t, DefaultParameters())
	if err := a.Frame(300); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 300; i++ {
		b.Step()
	}
	fa, fb := a.Fields(), b.Fields()
	if fa.Step != fb.Step {
		t.Fatalf("steps %d vs %d", fa.Step, fb.Step)
	}
	for i := range fa.E {
		if fa.E[i] != fb.E[i] {
			t.Fatalf("E[%d]: frame %v, step %v", i, fa.E[i], fb.E[i])
		}
	}
}

func TestBoundaryCellsStayZero(t *testing.T) {
	e := newTestEngine(t, VacuumParameters())
	for i := 0; i < 1200; i++ {
		e.Step()
		f := e.Snapshot()
		if f[0] != 0 || f[len(f)-1] != 0 {
			t.Fatalf("step %d: boundary E = %v, %v", i+1, f[0], f[len(f)-1])
		}
	}
}

func TestStateAndSnapshotIsolation(t *testing.T) {
	e := newTestEngine(t, DefaultParameters())
	if e.State() != Ready || e.Status().State != Ready {
		t.Fatalf("new engine state = %v", e.State())
	}
	if err := e.Frame(0); err != nil {
		t.Fatal(err)
	}
	if e.StepCount() != 0 {
		t.Fatalf("Frame(0) advanced to step %d", e.StepCount())
	}
	if e.Energy() != 0 {
		t.Fatalf("zero fields carry energy %v", e.Energy())
	}
	if err := e.Frame(60); err != nil {
		t.Fatal(err)
	}
	if e.State() != Running {
		t.Fatalf("state after stepping = %v", e.State())
	}
	st := e.Status()
	if st.Step != 60 || st.Energy <= 0 {
		t.Fatalf("status = %+v", st)
	}
	if want := 60 * e.Grid().DT(); math.Abs(st.Time-want) > 1e-24 {
		t.Fatalf("status time %v, want %v", st.Time, want)
	}

	snap := e.Snapshot()
	before := snap[e.Source().Cell]
	for i := range snap {
		snap[i] = 1e9
	}
	if got := e.Snapshot()[e.Source().Cell]; got != before {
		t.Fatalf("mutating a snapshot changed engine state: %v -> %v", before, got)
	}
}

func TestApplyPendingWithoutUpdates(t *testing.T) {
	e := newTestEngine(t, DefaultParameters())
	params, cells := e.Parameters(), e.Material()
	rev := e.material.revision
	if e.ApplyPending() {
		t.Fatal("ApplyPending reported a change with nothing queued")
	}
	if e.Parameters() != params {
		t.Fatalf("parameters changed: %v -> %v", params, e.Parameters())
	}
	if e.material.revision != rev {
		t.Fatal("material map rebuilt with nothing queued")
	}
	got := e.Material()
	for i := range cells {
		if got[i] != cells[i] {
			t.Fatalf("cell %d changed: %+v -> %+v", i, cells[i], got[i])
		}
	}
}

func TestPendingUpdatesApplyAtFrame(t *testing.T) {
	e := newTestEngine(t, DefaultParameters())
	if err := e.SubmitParameter(GlassEpsR, 6); err != nil {
		t.Fatal(err)
	}
	if err := e.Channel().SubmitNamed("waterSigma", 0.5); err != nil {
		t.Fatal(err)
	}
	if e.Parameters().GlassEpsR != 4 {
		t.Fatal("submit applied before the frame")
	}
	if err := e.Frame(1); err != nil {
		t.Fatal(err)
	}
	p := e.Parameters()
	if p.GlassEpsR != 6 || p.WaterSigma != 0.5 || p.WaterEpsR != 4 {
		t.Fatalf("parameters after frame = %v", p)
	}
	if e.Material()[150].EpsR != 6 || e.Material()[300].Sigma != 0.5 {
		t.Fatal("material map not rebuilt")
	}
	if e.Status().Parameters != p {
		t.Fatalf("status parameters %v, want %v", e.Status().Parameters, p)
	}
}

func TestOutOfRangeParametersAppliedAsGiven(t *testing.T) {
	e := newTestEngine(t, DefaultParameters())
	if err := e.SubmitParameter(WaterSigma, 2.5); err != nil {
		t.Fatal(err)
	}
	if err := e.SubmitParameter(GlassEpsR, 0.5); err != nil {
		t.Fatal(err)
	}
	if !e.ApplyPending() {
		t.Fatal("ApplyPending reported no change")
	}
	p := e.Parameters()
	if p.InRange() {
		t.Fatalf("%v reported in range", p)
	}
	cells := e.Material()
	if cells[120].EpsR != 0.5 || cells[260].Sigma != 2.5 {
		t.Fatalf("out-of-range values were altered: %+v %+v", cells[120], cells[260])
	}
}

func TestRejectedSubmissions(t *testing.T) {
	e := newTestEngine(t, DefaultParameters())
	if err := e.SubmitParameter(WaterEpsR, math.NaN()); !errors.Is(err, ErrNonFinite) {
		t.Fatalf("NaN: err = %v", err)
	}
	if err := e.SubmitParameter(WaterEpsR, math.Inf(1)); !errors.Is(err, ErrNonFinite) {
		t.Fatalf("Inf: err = %v", err)
	}
	if err := e.SubmitParameter(Param(7), 1); !errors.Is(err, ErrUnknownParameter) {
		t.Fatalf("Param(7): err = %v", err)
	}
	if err := e.Channel().SubmitNamed("airEpsR", 1); !errors.Is(err, ErrUnknownParameter) {
		t.Fatalf("airEpsR: err = %v", err)
	}
	if e.Channel().Pending() != 0 {
		t.Fatalf("rejected submissions left %d pending", e.Channel().Pending())
	}
}

func TestConcurrentSubmitDuringFrames(t *testing.T) {
	e := newTestEngine(t, DefaultParameters())
	var wg sync.WaitGroup
	stop := make(chan struct{})
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			param := Params[w%len(Params)]
			r := param.Range()
			for i := 0; ; i++ {
				select {
				case <-stop:
					return
				default:
				}
				v := r.Min + (r.Max-r.Min)*float64(i%100)/99
				if err := e.SubmitParameter(param, v); err != nil {
					t.Errorf("submit: %v", err)
					return
				}
			}
		}(w)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			for _, v := range e.Snapshot() {
				if math.IsNaN(v) {
					t.Errorf("NaN in snapshot")
					return
				}
			}
			_ = e.Status()
		}
	}()
	for i := 0; i < 200; i++ {
		if err := e.Frame(5); err != nil {
			t.Fatal(err)
		}
	}
	close(stop)
	wg.Wait()
	e.ApplyPending()
	if !e.Parameters().InRange() {
		t.Fatalf("parameters left range: %v", e.Parameters())
	}
	if e.StepCount() != 1000 {
		t.Fatalf("step count %d, want 1000", e.StepCount())
	}
}

func TestEnginesAreIndependent(t *testing.T) {
	a := newTestEngine(t, DefaultParameters())
	b := newTestEngine(t, DefaultParameters())
	if err := a.SubmitParameter(GlassEpsR, 9); err != nil {
		t.Fatal(err)
	}
	if err := a.Frame(50); err != nil {
		t.Fatal(err)
	}
	if b.StepCount() != 0 || b.Parameters() != DefaultParameters() {
		t.Fatal("engines share state")
	}
}

func TestLossReducesEnergy(t *testing.T) {
	run := func(sigma float64) float64 {
		e := newTestEngine(t, Parameters{GlassEpsR: 4, WaterEpsR: 4, WaterSigma: sigma})
		if err := e.Frame(1500); err != nil {
			t.Fatal(err)
		}
		return e.Energy()
	}
	lossless, lossy := run(0), run(1)
	if !(lossy < lossless) {
		t.Fatalf("energy with σ=1 (%v) not below σ=0 (%v)", lossy, lossless)
	}
}

type failingKernel struct{ calls int }

func (k *failingKernel) Name() string { return "failing" }
func (k *failingKernel) Advance(*Fields, Coefficients, *Batch) error {
	k.calls++
	return errors.New("device lost")
}
func (k *failingKernel) Close() {}

func TestKernelErrorsSurfaceFromFrame(t *testing.T) {
	cfg := DefaultConfig()
	k := &failingKernel{}
	e, err := New(cfg, WithKernel(k))
	if err != nil {
		t.Fatal(err)
	}
	if e.KernelName() != "failing" {
		t.Fatalf("kernel = %q", e.KernelName())
	}
	if err := e.Frame(10); err == nil {
		t.Fatal("Frame succeeded on a failing kernel")
	}
	if e.StepCount() != 0 {
		t.Fatalf("step counter advanced to %d", e.StepCount())
	}
	// Step never goes through the pluggable kernel.
	e.Step()
	if e.StepCount() != 1 || k.calls != 1 {
		t.Fatalf("step count %d, kernel calls %d", e.StepCount(), k.calls)
	}
}

func TestAddProbeRejectsCellsOffGrid(t *testing.T) {
	e := newTestEngine(t, DefaultParameters())
	for _, cell := range []int{-1, 400} {
		if _, err := e.AddProbe(cell); !errors.Is(err, ErrConfig) {
			t.Errorf("AddProbe(%d): err = %v", cell, err)
		}
	}
}
