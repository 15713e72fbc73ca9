package main

import (
	"context"
	"fmt"
	"time"

	"emwave/fdtd"
)

// frameRunner drives an engine at a fixed frame rate from its own goroutine,
// the way the window loop does from ebiten's Update.
type frameRunner struct {
	engine *fdtd.Engine
	tps    float64

	// steps is read before every frame; returning 0 still applies pending
	// parameters so a paused frontend stays responsive.
	steps func() int

	// onFrame sees the status published by each frame.
	onFrame func(fdtd.Status)
}

// run ticks until ctx is cancelled or a frame fails.
func (r *frameRunner) run(ctx context.Context) error {
	if r.tps <= 0 {
		return fmt.Errorf("frame rate must be positive, got %g", r.tps)
	}
	ticker := time.NewTicker(time.Duration(float64(time.Second) / r.tps))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := r.engine.Frame(r.steps()); err != nil {
				return err
			}
			if r.onFrame != nil {
				r.onFrame(r.engine.Status())
			}
		}
	}
}
