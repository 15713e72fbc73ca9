package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"emwave/fdtd"
)

var (
	backgroundColor = color.RGBA{250, 250, 250, 255}
	axisColor       = color.RGBA{120, 120, 120, 255}
	gridColor       = color.RGBA{225, 225, 225, 255}
	fieldColor      = color.RGBA{30, 80, 220, 255}
	probeColor      = color.RGBA{220, 60, 60, 255}
	sourceColor     = color.RGBA{240, 160, 0, 255}
	sliderTrack     = color.RGBA{200, 200, 200, 255}
	sliderFill      = color.RGBA{70, 130, 200, 255}
	sliderActive    = color.RGBA{220, 80, 120, 255}
)

// regionColor matches the green glass / blue water shading of the plot.
func regionColor(k fdtd.MaterialKind) (color.RGBA, bool) {
	switch k {
	case fdtd.Glass:
		return color.RGBA{200, 235, 200, 255}, true
	case fdtd.Water:
		return color.RGBA{200, 215, 245, 255}, true
	default:
		return color.RGBA{}, false
	}
}

// Draw renders the field plot, the sliders and the optional overlay.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	snap := g.engine.Snapshot()
	st := g.engine.Status()

	g.drawPlot(screen, snap)
	g.drawSliders(screen)

	ebitenutil.DebugPrintAt(screen, plotTitle(st), plotLeft, 20)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("probe @%d: %+.4f", g.probe.Cell(), g.probe.Latest()), plotLeft, plotBottom+12)
	help := "1/2/3 or Up/Down select, Left/Right adjust (Shift x10), drag with mouse\n" +
		"Space pause, R restart, +/- steps per frame\n" +
		"Both grid ends are perfectly reflecting walls."
	ebitenutil.DebugPrintAt(screen, help, sliderLeft, screenH-60)
	if g.paused {
		ebitenutil.DebugPrintAt(screen, "PAUSED", plotRight-60, 20)
	}

	if *debugFlag {
		msg := fmt.Sprintf("FPS: %.1f  TPS: %.1f\nSteps/frame: %d (+/-)\nFrame: %.2f ms\nKernel: %s\nEnergy: %.3e J/m^2\nPending: %d",
			ebiten.ActualFPS(), ebiten.ActualTPS(), g.stepsPerFrame,
			g.lastSimDuration.Seconds()*1000, g.engine.KernelName(), st.Energy, g.channel.Pending())
		ebitenutil.DebugPrintAt(screen, msg, sliderLeft, sliderTop+3*sliderSpacing+10)
	}
}

// Layout reports the logical screen size used by Ebiten.
func (g *Game) Layout(_, _ int) (int, int) { return screenW, screenH }

func (g *Game) drawPlot(screen *ebiten.Image, snap []float64) {
	n := len(snap)
	if n < 2 {
		return
	}
	w := float32(plotRight - plotLeft)
	h := float32(plotBottom - plotTop)
	xOf := func(i float64) float32 { return plotLeft + float32(i/float64(n-1))*w }
	yOf := func(v float64) float32 {
		v = math.Max(-plotYLimit, math.Min(plotYLimit, v))
		return plotTop + h/2 - float32(v/plotYLimit)*h/2
	}

	for _, r := range g.engine.Regions() {
		if clr, ok := regionColor(r.Kind); ok {
			x0, x1 := xOf(float64(r.Start)), xOf(float64(r.End-1))
			vector.DrawFilledRect(screen, x0, plotTop, x1-x0, h, clr, false)
			ebitenutil.DebugPrintAt(screen, r.Kind.String(), int(x0)+4, plotTop+4)
		}
	}
	for _, v := range []float64{-1, -0.5, 0.5, 1} {
		y := yOf(v)
		vector.StrokeLine(screen, plotLeft, y, plotRight, y, 1, gridColor, false)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%+.1f", v), plotLeft-36, int(y)-8)
	}
	vector.StrokeLine(screen, plotLeft, yOf(0), plotRight, yOf(0), 1, axisColor, false)
	vector.StrokeRect(screen, plotLeft, plotTop, w, h, 1, axisColor, false)

	src := float64(g.engine.Source().Cell)
	vector.StrokeLine(screen, xOf(src), plotTop, xOf(src), plotBottom, 1, sourceColor, false)
	probe := float64(g.probe.Cell())
	vector.StrokeLine(screen, xOf(probe), plotTop, xOf(probe), plotBottom, 1, probeColor, false)

	for i := 1; i < n; i++ {
		vector.StrokeLine(screen,
			xOf(float64(i-1)), yOf(snap[i-1]),
			xOf(float64(i)), yOf(snap[i]),
			2, fieldColor, true)
	}
	ebitenutil.DebugPrintAt(screen, "Space (cell index)", plotLeft+int(w)/2-50, plotBottom+28)
	ebitenutil.DebugPrintAt(screen, "Ez (V/m)", plotLeft-60, plotTop-16)
}

func (g *Game) drawSliders(screen *ebiten.Image) {
	applied := g.engine.Status().Parameters
	ebitenutil.DebugPrintAt(screen, "MATERIALS", sliderLeft, sliderTop-40)
	for i, param := range fdtd.Params {
		r := param.Range()
		top := sliderTop + i*sliderSpacing
		label := fmt.Sprintf("%s: %.2f  [%g, %g]", param.Label(), g.values[i], r.Min, r.Max)
		ebitenutil.DebugPrintAt(screen, label, sliderLeft, top)
		if applied.Get(param) != g.values[i] {
			ebitenutil.DebugPrintAt(screen, "(pending)", sliderLeft, top+14)
		}
		barY := float32(sliderBarY(i))
		fill := sliderFill
		if i == g.selected {
			fill = sliderActive
		}
		vector.DrawFilledRect(screen, sliderLeft, barY, sliderWidth, sliderHeight, sliderTrack, false)
		frac := float32(r.Fraction(g.values[i]))
		vector.DrawFilledRect(screen, sliderLeft, barY, frac*sliderWidth, sliderHeight, fill, false)
		vector.DrawFilledCircle(screen, sliderLeft+frac*sliderWidth, barY+sliderHeight/2, sliderHeight*0.8, fill, true)
	}
}

// plotTitle mirrors the explorer's title line: parameters and elapsed time.
func plotTitle(st fdtd.Status) string {
	p := st.Parameters
	return fmt.Sprintf("FDTD Explorer | Glass eps_r=%.1f | Water (eps_r=%.1f, sigma=%.2f S/m) | t=%.3f ns | step %d",
		p.GlassEpsR, p.WaterEpsR, p.WaterSigma, st.Time*1e9, st.Step)
}
