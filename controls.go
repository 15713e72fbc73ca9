package main

import (
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"emwave/fdtd"
)

// handleControls turns keyboard and mouse input into slider moves and
// simulation commands.
func (g *Game) handleControls() {
	if g.autoSweep {
		if time.Now().After(g.autoSweepUntil) {
			g.autoSweep = false
		} else {
			g.autoSweepStep()
		}
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyDigit1):
		g.selected = 0
	case inpututil.IsKeyJustPressed(ebiten.KeyDigit2):
		g.selected = 1
	case inpututil.IsKeyJustPressed(ebiten.KeyDigit3):
		g.selected = 2
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		g.selected = (g.selected + len(g.values) - 1) % len(g.values)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		g.selected = (g.selected + 1) % len(g.values)
	}

	r := fdtd.Params[g.selected].Range()
	delta := r.Step
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		delta *= sliderCoarseFactor
	}
	if repeatingKeyPressed(ebiten.KeyArrowRight) {
		g.setValue(g.selected, g.values[g.selected]+delta)
	}
	if repeatingKeyPressed(ebiten.KeyArrowLeft) {
		g.setValue(g.selected, g.values[g.selected]-delta)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.resetEngine()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		g.adjustStepsPerFrame(-stepsPerFrameStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		g.adjustStepsPerFrame(stepsPerFrameStep)
	}

	g.handleMouse()
}

// handleMouse drags whichever slider the left button went down on.
func (g *Game) handleMouse() {
	mx, my := ebiten.CursorPosition()
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		for i := range g.values {
			if sliderHit(i, mx, my) {
				g.dragging = i
				g.selected = i
				break
			}
		}
	}
	if g.dragging >= 0 && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		r := fdtd.Params[g.dragging].Range()
		frac := float64(mx-sliderLeft) / float64(sliderWidth)
		frac = math.Max(0, math.Min(1, frac))
		g.setValue(g.dragging, r.Min+frac*(r.Max-r.Min))
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.dragging = -1
	}
}

// sliderBarY is the top edge of slider i's bar.
func sliderBarY(i int) int { return sliderTop + i*sliderSpacing + 30 }

func sliderHit(i, x, y int) bool {
	top := sliderBarY(i) - 6
	return x >= sliderLeft-6 && x <= sliderLeft+sliderWidth+6 &&
		y >= top && y <= top+sliderHeight+12
}

// repeatingKeyPressed fires on press and then at a fixed rate while held.
func repeatingKeyPressed(key ebiten.Key) bool {
	d := inpututil.KeyPressDuration(key)
	if d == 1 {
		return true
	}
	return d >= sliderKeyDelay && (d-sliderKeyDelay)%sliderKeyInterval == 0
}

// enableAutoSweep moves random sliders toward random targets for duration.
func (g *Game) enableAutoSweep(duration time.Duration) {
	g.autoSweep = true
	g.autoSweepUntil = time.Now().Add(duration)
	g.autoSweepFrames = 0
}

// autoSweepStep nudges the current sweep slider one step toward its target,
// picking a new slider and target when the current leg runs out.
func (g *Game) autoSweepStep() {
	if g.autoSweepFrames <= 0 {
		g.autoSweepControl = g.autoSweepRand.Intn(len(g.values))
		r := fdtd.Params[g.autoSweepControl].Range()
		g.autoSweepTarget = r.Min + g.autoSweepRand.Float64()*(r.Max-r.Min)
		g.autoSweepFrames = sweepMinFrames + g.autoSweepRand.Intn(sweepMaxFrames-sweepMinFrames+1)
	}
	i := g.autoSweepControl
	remaining := g.autoSweepTarget - g.values[i]
	stride := math.Max(math.Abs(remaining)/float64(g.autoSweepFrames), fdtd.Params[i].Range().Step)
	if stride > math.Abs(remaining) {
		stride = math.Abs(remaining)
	}
	g.setValue(i, g.values[i]+math.Copysign(stride, remaining))
	g.selected = i
	g.autoSweepFrames--
}

// adjustStepsPerFrame changes the batch size within bounds.
func (g *Game) adjustStepsPerFrame(delta int) {
	g.stepsPerFrame = clampSteps(g.stepsPerFrame + delta)
}

func clampSteps(n int) int {
	if n < minStepsPerFrame {
		return minStepsPerFrame
	}
	if n > maxStepsPerFrame {
		return maxStepsPerFrame
	}
	return n
}

// roundTo snaps v to a multiple of step.
func roundTo(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	return math.Round(v/step) * step
}
