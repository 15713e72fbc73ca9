package main

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"emwave/fdtd"
)

func TestFrameRunnerAdvancesUntilCancelled(t *testing.T) {
	e, err := fdtd.New(fdtd.DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer e.Close()

	ctx, cancel := context.WithCancel(context.Background())
	var frames atomic.Int64
	r := &frameRunner{
		engine: e,
		tps:    500,
		steps:  func() int { return 3 },
		onFrame: func(st fdtd.Status) {
			if frames.Add(1) >= 5 {
				cancel()
			}
		},
	}
	done := make(chan error, 1)
	go func() { done <- r.run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("runner did not stop after cancel")
	}
	n := frames.Load()
	if got := e.StepCount(); got != 3*n {
		t.Fatalf("step count = %d after %d frames, want %d", got, n, 3*n)
	}
}

func TestFrameRunnerPausedAppliesParameters(t *testing.T) {
	e, err := fdtd.New(fdtd.DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer e.Close()
	if err := e.SubmitParameter(fdtd.GlassEpsR, 7); err != nil {
		t.Fatalf("SubmitParameter: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &frameRunner{
		engine:  e,
		tps:     500,
		steps:   func() int { return 0 },
		onFrame: func(fdtd.Status) { cancel() },
	}
	if err := r.run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := e.Parameters().GlassEpsR; got != 7 {
		t.Fatalf("glass eps_r = %g, want 7", got)
	}
	if got := e.StepCount(); got != 0 {
		t.Fatalf("paused runner stepped %d times", got)
	}
}

type brokenKernel struct{}

func (brokenKernel) Name() string { return "broken" }
func (brokenKernel) Advance(*fdtd.Fields, fdtd.Coefficients, *fdtd.Batch) error {
	return errors.New("device lost")
}
func (brokenKernel) Close() {}

func TestFrameRunnerStopsOnKernelError(t *testing.T) {
	e, err := fdtd.New(fdtd.DefaultConfig(), fdtd.WithKernel(brokenKernel{}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer e.Close()
	r := &frameRunner{engine: e, tps: 500, steps: func() int { return 2 }}
	if err := r.run(context.Background()); err == nil {
		t.Fatal("run returned nil after kernel failure")
	}
}

func TestFrameRunnerRejectsZeroRate(t *testing.T) {
	r := &frameRunner{tps: 0}
	if err := r.run(context.Background()); err == nil {
		t.Fatal("zero tps accepted")
	}
}
